package toc

import (
	"strings"

	"github.com/papyrus-labs/quire/internal/patterns"
)

// classify matches a cleaned anchor text against the layered pattern set:
// exact chapter numbering first, then generic numbered sections, then the
// closed set of special-section keywords. Unmatched texts are dropped.
func (r *Reconstructor) classify(text string) (Entry, bool) {
	for _, p := range r.lib.TocChapterPatterns() {
		m := p.Expr.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		title := strings.TrimSpace(m[2])
		if title == "" {
			title = m[1]
		}
		return Entry{
			Level:       p.Level,
			Number:      m[1],
			Title:       title,
			SectionType: p.Type,
			Confidence:  p.Confidence,
		}, true
	}

	for _, p := range r.lib.TocNumberedPatterns() {
		m := p.Expr.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		return Entry{
			Level:       patterns.NumberingLevel(m[1]),
			Number:      m[1],
			Title:       strings.TrimSpace(m[2]),
			SectionType: p.Type,
			Confidence:  p.Confidence,
		}, true
	}

	for _, p := range r.lib.TocSpecialPatterns() {
		if !p.Expr.MatchString(text) {
			continue
		}
		return Entry{
			Level:       p.Level,
			Title:       strings.TrimSpace(text),
			SectionType: p.Type,
			Confidence:  p.Confidence,
		}, true
	}

	return Entry{}, false
}
