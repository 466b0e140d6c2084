// Package references extracts and validates the thesis reference list.
// Deterministic numbering-scheme matching runs first; a language-model
// fallback handles lists whose formatting the schemes cannot segment.
package references

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/papyrus-labs/quire/internal/patterns"
	"github.com/papyrus-labs/quire/internal/providers"
)

// Stats describes one extraction run.
type Stats struct {
	CandidateCount     int  `json:"candidate_count" yaml:"candidate_count"`
	AcceptedCount      int  `json:"accepted_count" yaml:"accepted_count"`
	DroppedShort       int  `json:"dropped_short" yaml:"dropped_short"`
	DroppedCeiling     int  `json:"dropped_ceiling" yaml:"dropped_ceiling"`
	DroppedJump        int  `json:"dropped_jump" yaml:"dropped_jump"`
	DroppedImplausible int  `json:"dropped_implausible" yaml:"dropped_implausible"`
	UsedFallback       bool `json:"used_fallback" yaml:"used_fallback"`

	Source string `json:"source" yaml:"source"` // "regex" or "llm"
}

// Extractor pulls the reference list out of raw thesis text.
type Extractor struct {
	lib    *patterns.Library
	client providers.LLMClient // nil disables the fallback
	logger *slog.Logger
}

// NewExtractor creates an extractor. client may be nil.
func NewExtractor(lib *patterns.Library, client providers.LLMClient, logger *slog.Logger) *Extractor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Extractor{lib: lib, client: client, logger: logger}
}

type candidate struct {
	number int
	body   string
}

// Extract locates the reference span, segments it by numbering scheme,
// filters implausible entries, and re-renders each as "[n] text". When the
// regex yield is below the usability threshold the raw span is handed to
// the model and its reply re-validated entry by entry.
func (e *Extractor) Extract(ctx context.Context, text string) ([]string, Stats, error) {
	var stats Stats
	stats.Source = "regex"

	span, ok := e.locateSpan(text)
	if !ok {
		return nil, stats, fmt.Errorf("reference list not found")
	}

	candidates := e.segment(span)
	stats.CandidateCount = len(candidates)

	accepted := e.filter(candidates, &stats)
	stats.AcceptedCount = len(accepted)

	t := e.lib.Thresholds()
	if len(accepted) < t.RefMinYield && e.client != nil {
		entries, err := e.fallback(ctx, span)
		if err != nil {
			e.logger.Warn("reference fallback failed, keeping regex yield",
				"error", err, "regex_entries", len(accepted))
		} else if len(entries) > len(accepted) {
			stats.UsedFallback = true
			stats.Source = "llm"
			stats.AcceptedCount = len(entries)
			return entries, stats, nil
		}
	}

	sort.SliceStable(accepted, func(i, j int) bool { return accepted[i].number < accepted[j].number })
	out := make([]string, 0, len(accepted))
	for _, c := range accepted {
		out = append(out, fmt.Sprintf("[%d] %s", c.number, c.body))
	}
	return out, stats, nil
}

// locateSpan finds the reference-list body: from the first matching title
// marker to the earliest terminator keyword after it.
func (e *Extractor) locateSpan(text string) (string, bool) {
	var start int = -1
	for _, expr := range e.lib.RefTitleExprs() {
		if loc := expr.FindStringIndex(text); loc != nil {
			start = loc[1]
			break
		}
	}
	if start < 0 {
		return "", false
	}

	span := text[start:]
	end := len(span)
	for _, term := range e.lib.RefTerminators() {
		if idx := strings.Index(span, term); idx >= 0 && idx < end {
			end = idx
		}
	}
	return span[:end], true
}

// segment walks the span line by line. A line matching a numbering scheme
// opens a new entry; following non-numbered lines continue it.
func (e *Extractor) segment(span string) []candidate {
	var out []candidate
	var current *candidate

	for _, line := range strings.Split(span, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}

		matched := false
		for _, scheme := range e.lib.RefNumberings() {
			m := scheme.Expr.FindStringSubmatch(line)
			if m == nil {
				continue
			}
			num := 0
			fmt.Sscanf(m[1], "%d", &num)
			out = append(out, candidate{number: num, body: strings.TrimSpace(m[2])})
			current = &out[len(out)-1]
			matched = true
			break
		}
		if !matched && current != nil {
			current.body += " " + line
		}
	}
	return out
}

// filter applies the sanity rules: minimum length, number ceiling, the
// jump tolerance that guards against unrelated numbered text (a footnote
// digit, a journal volume number) being mistaken for the next citation,
// and the two-of-four citation-signal heuristic. A segmented candidate
// already carries the numbering signal, so it must show at least one of
// the other three (year, publication keyword, author shape).
func (e *Extractor) filter(candidates []candidate, stats *Stats) []candidate {
	t := e.lib.Thresholds()
	var accepted []candidate
	last := 0

	for _, c := range candidates {
		if utf8.RuneCountInString(c.body) < t.RefMinEntryLen {
			stats.DroppedShort++
			continue
		}
		if c.number > t.RefNumberCeiling {
			stats.DroppedCeiling++
			continue
		}
		// The next expected number is last+1; reject only jumps past
		// the tolerance beyond that.
		if len(accepted) > 0 && c.number > last+1+t.RefJumpTolerance {
			stats.DroppedJump++
			continue
		}
		if !e.isPlausibleEntry(fmt.Sprintf("[%d] %s", c.number, c.body)) {
			stats.DroppedImplausible++
			continue
		}
		accepted = append(accepted, c)
		last = c.number
	}
	return accepted
}
