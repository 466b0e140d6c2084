// Package toc reconstructs a leveled thesis outline. For sources that embed
// navigation bookmarks the reconstruction walks the anchors in document
// order; otherwise it derives the outline from detected section boundaries.
package toc

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	"github.com/papyrus-labs/quire/internal/boundary"
	"github.com/papyrus-labs/quire/internal/document"
	"github.com/papyrus-labs/quire/internal/patterns"
	"github.com/papyrus-labs/quire/internal/providers"
)

// Entry is one outline entry.
type Entry struct {
	Level       int                  `json:"level" yaml:"level"`
	Number      string               `json:"number,omitempty" yaml:"number,omitempty"`
	Title       string               `json:"title" yaml:"title"`
	SectionType patterns.SectionType `json:"section_type" yaml:"section_type"`
	Confidence  float64              `json:"confidence" yaml:"confidence"`

	// Position is the entry's rank in original document order. Output is
	// always sorted by this, never by parsed numbering.
	Position int `json:"position" yaml:"position"`
}

// Reconstructor assembles the outline.
type Reconstructor struct {
	lib    *patterns.Library
	client providers.LLMClient // nil disables the model path
	logger *slog.Logger
}

// NewReconstructor creates a reconstructor. client may be nil, in which
// case classification is purely pattern-driven.
func NewReconstructor(lib *patterns.Library, client providers.LLMClient, logger *slog.Logger) *Reconstructor {
	if logger == nil {
		logger = slog.Default()
	}
	return &Reconstructor{lib: lib, client: client, logger: logger}
}

// Reconstruct builds the outline for a document. Sources without anchors
// fall back to the boundary-derived outline in FromSections.
func (r *Reconstructor) Reconstruct(ctx context.Context, doc *document.Document) ([]Entry, error) {
	if !doc.HasAnchors() {
		return nil, fmt.Errorf("document has no navigation anchors")
	}

	t := r.lib.Thresholds()

	// Collect and clean anchor texts in document order.
	type candidate struct {
		position int
		text     string
	}
	var candidates []candidate
	for i := range doc.Anchors() {
		window := doc.AnchorWindow(i, t.AnchorWindow)
		text := cleanAnchorText(collectRuns(window, t.AnchorTextBudget))
		if text == "" {
			continue
		}
		candidates = append(candidates, candidate{position: i, text: text})
	}

	// Discard boilerplate anchors before the first front-matter marker.
	firstReal := -1
	for i, c := range candidates {
		if frontMatterExpr.MatchString(c.text) {
			firstReal = i
			break
		}
	}
	if firstReal > 0 {
		candidates = candidates[firstReal:]
	} else if firstReal < 0 && len(candidates) > 0 {
		r.logger.Warn("no front-matter marker among anchors, keeping all",
			"anchors", len(candidates))
	}

	texts := make([]string, len(candidates))
	positions := make([]int, len(candidates))
	for i, c := range candidates {
		texts[i] = c.text
		positions[i] = c.position
	}

	// The model path classifies the whole batch in one request; any
	// failure falls back to the layered pattern classification.
	if r.client != nil {
		entries, err := r.classifyBatch(ctx, texts, positions)
		if err == nil {
			return finishEntries(entries, r.lib), nil
		}
		r.logger.Warn("model outline classification failed, using patterns",
			"error", err)
	}

	var entries []Entry
	for i, text := range texts {
		e, ok := r.classify(text)
		if !ok {
			continue
		}
		e.Position = positions[i]
		entries = append(entries, e)
	}
	return finishEntries(entries, r.lib), nil
}

// FromSections derives a flat outline from detected section boundaries,
// for sources without navigation anchors.
func FromSections(sections map[patterns.SectionType]boundary.Section) []Entry {
	ordered := boundary.Ordered(sections)
	entries := make([]Entry, 0, len(ordered))
	for i, s := range ordered {
		if s.Title == "" {
			continue
		}
		entries = append(entries, Entry{
			Level:       1,
			Title:       patterns.NormalizeChapterTitle(s.Title),
			SectionType: s.Type,
			Confidence:  s.Confidence,
			Position:    i,
		})
	}
	return entries
}

// finishEntries normalizes titles, deduplicates (number, title) pairs, and
// restores original document order.
func finishEntries(entries []Entry, lib *patterns.Library) []Entry {
	t := lib.Thresholds()
	seen := make(map[string]bool, len(entries))
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		e.Title = patterns.NormalizeChapterTitle(e.Title)
		e.Title = truncateTitle(e.Title, t.AnchorTruncateCN, t.AnchorTruncateEN)
		if e.Title == "" {
			continue
		}
		key := e.Number + "\x00" + e.Title
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, e)
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Position < out[j].Position })
	return out
}
