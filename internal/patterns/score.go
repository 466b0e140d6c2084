package patterns

import (
	"regexp"
	"strings"
	"unicode/utf8"
)

// ScoreContext is the evidence a scoring rule sees for one detected span.
type ScoreContext struct {
	Type    SectionType
	Content string
	Before  string // up to 100 chars preceding the start boundary
	After   string // up to 100 chars following the end boundary
}

// ScoreRule contributes Weight to the boundary confidence when Match holds.
// Consolidating the increments into one table keeps near-duplicate scoring
// paths from drifting apart.
type ScoreRule struct {
	Name   string
	Weight float64
	Match  func(ScoreContext) bool
}

// BaseConfidence is the starting confidence before any rule applies.
const BaseConfidence = 0.5

var (
	leadingBreakExpr  = regexp.MustCompile(`\n\s*$`)
	trailingBreakExpr = regexp.MustCompile(`^\s*\n`)
	citationMarkExpr  = regexp.MustCompile(`\[\d+\]|［\d+］|\n\d+\.`)
)

func defaultScoreRules(t Thresholds) []ScoreRule {
	return []ScoreRule{
		{
			Name:   "leading_break",
			Weight: 0.2,
			Match: func(sc ScoreContext) bool {
				// A span at the very start of the text also counts as
				// cleanly delimited.
				return sc.Before == "" || leadingBreakExpr.MatchString(sc.Before)
			},
		},
		{
			Name:   "trailing_break",
			Weight: 0.2,
			Match: func(sc ScoreContext) bool {
				return sc.After == "" || trailingBreakExpr.MatchString(sc.After)
			},
		},
		{
			Name:   "multiline_body",
			Weight: 0.1,
			Match: func(sc ScoreContext) bool {
				return strings.Count(sc.Content, "\n") > 3
			},
		},
		{
			Name:   "citation_markers",
			Weight: 0.2,
			Match: func(sc ScoreContext) bool {
				return sc.Type == SectionReferences && citationMarkExpr.MatchString(sc.Content)
			},
		},
		{
			Name:   "abstract_shape",
			Weight: 0.2,
			Match: func(sc ScoreContext) bool {
				if sc.Type != SectionAbstractCN && sc.Type != SectionAbstractEN {
					return false
				}
				n := utf8.RuneCountInString(sc.Content)
				return n >= t.AbstractMinLen && n <= t.AbstractMaxLen &&
					!strings.Contains(sc.Content, "[1]") && !citationMarkExpr.MatchString(sc.Content)
			},
		},
	}
}

// ScoreBoundary evaluates the rule table over the evidence and returns the
// confidence clamped to [0,1].
func ScoreBoundary(rules []ScoreRule, sc ScoreContext) float64 {
	score := BaseConfidence
	for _, r := range rules {
		if r.Match(sc) {
			score += r.Weight
		}
	}
	if score > 1.0 {
		score = 1.0
	}
	if score < 0 {
		score = 0
	}
	return score
}
