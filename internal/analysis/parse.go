package analysis

import (
	"encoding/json"
	"regexp"
	"strconv"
	"strings"
)

var (
	scoreLabelExpr  = regexp.MustCompile(`(\d+)\s*分`)
	strengthsExpr   = regexp.MustCompile(`(?s)主要优点[：:](.*?)改进建议`)
	suggestionsExpr = regexp.MustCompile(`(?s)改进建议[：:](.*?)(?:核心内容摘要|$)`)
	summaryExpr     = regexp.MustCompile(`(?s)核心内容摘要[：:](.*)$`)
	listItemExpr    = regexp.MustCompile(`[1-9][.、)]`)
)

// parseSectionAnalysis reads the model reply JSON-first; replies that are
// not JSON are scraped for the labeled scores and list sections instead.
func parseSectionAnalysis(content string, parsed json.RawMessage) (*SectionAnalysis, bool) {
	if len(parsed) > 0 {
		var fields map[string]any
		if err := json.Unmarshal(parsed, &fields); err == nil {
			a := &SectionAnalysis{
				ContentQualityScore: toInt(fields["content_quality_score"]),
				StructureScore:      toInt(fields["structure_score"]),
				AcademicValueScore:  toInt(fields["academic_value_score"]),
				LanguageScore:       toInt(fields["language_score"]),
				OverallScore:        toFloat(fields["overall_score"]),
				Strengths:           toStrings(fields["strengths"]),
				Suggestions:         toStrings(fields["improvement_suggestions"]),
				Summary:             toString(fields["summary"]),
			}
			if a.OverallScore == 0 {
				a.OverallScore = averageScore(a)
			}
			return a, true
		}
	}

	// Label scrape: the reply followed the prompt's numbered dimensions
	// in prose. Four "N分" labels in order are the four axis scores.
	scores := scoreLabelExpr.FindAllStringSubmatch(content, -1)
	if len(scores) < 4 {
		return nil, false
	}
	a := &SectionAnalysis{
		ContentQualityScore: atoiSafe(scores[0][1]),
		StructureScore:      atoiSafe(scores[1][1]),
		AcademicValueScore:  atoiSafe(scores[2][1]),
		LanguageScore:       atoiSafe(scores[3][1]),
	}
	a.OverallScore = averageScore(a)

	if m := strengthsExpr.FindStringSubmatch(content); m != nil {
		a.Strengths = splitListItems(m[1])
	}
	if m := suggestionsExpr.FindStringSubmatch(content); m != nil {
		a.Suggestions = splitListItems(m[1])
	}
	if m := summaryExpr.FindStringSubmatch(content); m != nil {
		a.Summary = strings.TrimSpace(m[1])
	}
	return a, true
}

func parseStructureEvaluation(parsed json.RawMessage) (*StructureEvaluation, bool) {
	var fields map[string]any
	if len(parsed) == 0 || json.Unmarshal(parsed, &fields) != nil {
		return nil, false
	}
	e := &StructureEvaluation{
		Completeness:     toInt(fields["structure_completeness"]),
		LogicalOrder:     toInt(fields["logical_order"]),
		SectionBalance:   toInt(fields["section_balance"]),
		AcademicStandard: toInt(fields["academic_standard"]),
		OverallScore:     toFloat(fields["overall_structure_score"]),
		Recommendations:  toStrings(fields["recommendations"]),
	}
	if e.OverallScore == 0 {
		e.OverallScore = float64(e.Completeness+e.LogicalOrder+e.SectionBalance+e.AcademicStandard) / 4
	}
	return e, true
}

func parseQualityAssessment(parsed json.RawMessage) (*QualityAssessment, bool) {
	var fields map[string]any
	if len(parsed) == 0 || json.Unmarshal(parsed, &fields) != nil {
		return nil, false
	}
	q := &QualityAssessment{
		InnovationScore:       toInt(fields["innovation_score"]),
		MethodologyScore:      toInt(fields["methodology_score"]),
		ArgumentationScore:    toInt(fields["argumentation_score"]),
		PracticalValueScore:   toInt(fields["practical_value_score"]),
		AcademicStandardScore: toInt(fields["academic_standard_score"]),
		OverallScore:          toFloat(fields["overall_quality_score"]),
	}
	if q.OverallScore == 0 {
		q.OverallScore = float64(q.InnovationScore+q.MethodologyScore+q.ArgumentationScore+
			q.PracticalValueScore+q.AcademicStandardScore) / 5
	}
	return q, true
}

func averageScore(a *SectionAnalysis) float64 {
	return float64(a.ContentQualityScore+a.StructureScore+a.AcademicValueScore+a.LanguageScore) / 4
}

func splitListItems(s string) []string {
	var out []string
	for _, part := range listItemExpr.Split(s, -1) {
		part = strings.TrimSpace(part)
		if part != "" {
			out = append(out, part)
		}
	}
	return out
}

func atoiSafe(s string) int {
	n, _ := strconv.Atoi(s)
	return n
}

// Model replies mix number shapes freely; coerce instead of failing.

func toInt(v any) int {
	switch n := v.(type) {
	case float64:
		return int(n)
	case string:
		i, _ := strconv.Atoi(strings.TrimSpace(n))
		return i
	case json.Number:
		i, _ := n.Int64()
		return int(i)
	default:
		return 0
	}
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case float64:
		return n
	case string:
		f, _ := strconv.ParseFloat(strings.TrimSpace(n), 64)
		return f
	case json.Number:
		f, _ := n.Float64()
		return f
	default:
		return 0
	}
}

func toString(v any) string {
	s, _ := v.(string)
	return strings.TrimSpace(s)
}

func toStrings(v any) []string {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, it := range items {
		if s, ok := it.(string); ok && strings.TrimSpace(s) != "" {
			out = append(out, strings.TrimSpace(s))
		}
	}
	return out
}
