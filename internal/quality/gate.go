// Package quality is the single choke point between raw extracted metadata
// and the returned record. It scores each field's plausibility, aggregates
// an overall confidence, and below the configured threshold substitutes
// safe empty defaults for the unreliable fields instead of surfacing noise.
package quality

import (
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Result is the gate's verdict for one metadata map.
type Result struct {
	Confidence  float64            `json:"confidence" yaml:"confidence"`
	FieldScores map[string]float64 `json:"field_scores" yaml:"field_scores"`
	Degraded    bool               `json:"degraded" yaml:"degraded"`
	Warnings    []string           `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Gate validates scalar metadata fields.
type Gate struct {
	degradeBelow float64
	logger       *slog.Logger
}

// NewGate creates a gate that degrades results whose aggregate score falls
// below threshold.
func NewGate(threshold float64, logger *slog.Logger) *Gate {
	if logger == nil {
		logger = slog.Default()
	}
	return &Gate{degradeBelow: threshold, logger: logger}
}

var (
	controlExpr    = regexp.MustCompile(`[\x00-\x1f\x7f]`)
	whitespaceExpr = regexp.MustCompile(`\s+`)
	yearishExpr    = regexp.MustCompile(`19\d{2}|20\d{2}|\d{4}\s*[年./-]`)
	latinNameExpr  = regexp.MustCompile(`^[A-Za-z][A-Za-z .\-']{1,39}$`)
)

// embeddedLabels are field labels that leak into values when a pattern
// over-captures its surroundings.
var embeddedLabels = []string{
	"摘要", "关键词", "目录", "学位论文", "指导教师", "ABSTRACT", "Keywords",
}

// institutionKeywords mark a plausible institution name.
var institutionKeywords = []string{"大学", "学院", "研究所", "研究院", "University", "College", "Institute"}

// degreeKeywords are the accepted degree-level values.
var degreeKeywords = []string{"硕士", "博士", "学士", "Master", "Doctor", "Bachelor"}

// Clean strips control characters and collapses whitespace, the
// normalization every stored string field goes through.
func Clean(s string) string {
	s = controlExpr.ReplaceAllString(s, "")
	s = whitespaceExpr.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// Apply cleans and scores the metadata in place and returns the gated map
// with the verdict. Below the threshold, fields scoring under 1.0 are
// replaced with empty strings; the canonical key set is preserved either
// way. Re-applying the gate to its own output never changes values again.
func (g *Gate) Apply(meta map[string]string) (map[string]string, Result) {
	gated := make(map[string]string, len(meta))
	res := Result{FieldScores: make(map[string]float64, len(meta))}

	var total float64
	for field, value := range meta {
		value = Clean(value)
		gated[field] = value
		score := fieldScore(field, value)
		res.FieldScores[field] = score
		total += score
	}
	if len(meta) > 0 {
		res.Confidence = total / float64(len(meta))
	}

	if res.Confidence < g.degradeBelow {
		res.Degraded = true
		for field, score := range res.FieldScores {
			if score < 1.0 && gated[field] != "" {
				res.Warnings = append(res.Warnings,
					fmt.Sprintf("field %s dropped: implausible value %q", field, gated[field]))
				gated[field] = ""
			}
		}
		res.Warnings = append(res.Warnings,
			fmt.Sprintf("aggregate confidence %.2f below threshold %.2f, unreliable fields defaulted",
				res.Confidence, g.degradeBelow))
		g.logger.Warn("metadata gate degraded result",
			"confidence", res.Confidence, "threshold", g.degradeBelow)
	}

	return gated, res
}

// fieldScore rates one field value: 1.0 plausible, 0.3 present but
// suspicious, 0.0 empty.
func fieldScore(field, value string) float64 {
	if value == "" {
		return 0
	}

	switch field {
	case "title_cn", "title_en":
		return scoreBool(plausibleTitle(value))
	case "author_cn", "supervisor_cn":
		return scoreBool(plausibleHanName(value))
	case "author_en", "supervisor_en":
		return scoreBool(latinNameExpr.MatchString(value))
	case "university_cn", "university_en", "college":
		return scoreBool(containsAny(value, institutionKeywords))
	case "degree_level":
		return scoreBool(containsAny(value, degreeKeywords))
	case "defense_date", "submission_date":
		return scoreBool(yearishExpr.MatchString(value))
	default:
		return 1.0
	}
}

func scoreBool(ok bool) float64 {
	if ok {
		return 1.0
	}
	return 0.3
}

// plausibleTitle accepts titles of sane length with no leaked field labels.
func plausibleTitle(s string) bool {
	n := utf8.RuneCountInString(s)
	if n < 4 || n > 200 {
		return false
	}
	return !containsAny(s, embeddedLabels)
}

// plausibleHanName accepts 2-4 Han characters, optionally with the
// interpunct used in transliterated minority names.
func plausibleHanName(s string) bool {
	stripped := strings.ReplaceAll(s, "·", "")
	n := 0
	for _, r := range stripped {
		if !unicode.Is(unicode.Han, r) {
			return false
		}
		n++
	}
	return n >= 2 && n <= 6
}

func containsAny(s string, keys []string) bool {
	for _, k := range keys {
		if strings.Contains(s, k) {
			return true
		}
	}
	return false
}
