// Package boundary locates named thesis sections in raw extracted text and
// scores each detected span with a confidence in [0,1].
package boundary

import (
	"log/slog"
	"regexp"
	"sort"
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/papyrus-labs/quire/internal/patterns"
)

// Section is one detected span of the document.
type Section struct {
	Type        patterns.SectionType `json:"type" yaml:"type"`
	Title       string               `json:"title" yaml:"title"`
	Content     string               `json:"content" yaml:"content"`
	StartOffset int                  `json:"start_offset" yaml:"start_offset"`
	EndOffset   int                  `json:"end_offset" yaml:"end_offset"`
	StartLine   int                  `json:"start_line" yaml:"start_line"`
	EndLine     int                  `json:"end_line" yaml:"end_line"`
	Confidence  float64              `json:"confidence" yaml:"confidence"`
}

// Detector finds section boundaries using the compiled pattern library.
type Detector struct {
	lib    *patterns.Library
	logger *slog.Logger
}

// NewDetector creates a detector over the given pattern library.
func NewDetector(lib *patterns.Library, logger *slog.Logger) *Detector {
	if logger == nil {
		logger = slog.Default()
	}
	return &Detector{lib: lib, logger: logger}
}

const scoreWindow = 100

// Detect scans the text with every boundary pattern and returns the spans
// that pass their minimum-length filters, keyed by section type. The input
// text is never mutated; offsets index into it directly.
func (d *Detector) Detect(text string) map[patterns.SectionType]Section {
	found := make(map[patterns.SectionType]Section)

	for _, p := range d.lib.Boundaries() {
		sec, ok := d.detectOne(p, text)
		if !ok {
			continue
		}
		// First pattern for a type wins; the table is ordered most
		// specific first.
		if _, exists := found[sec.Type]; exists {
			continue
		}
		found[sec.Type] = sec
		d.logger.Debug("detected section",
			"type", sec.Type,
			"title", sec.Title,
			"confidence", sec.Confidence,
			"length", utf8.RuneCountInString(sec.Content),
		)
	}

	return found
}

// detectOne tries each start match in document order and keeps the first
// whose span passes the minimum-length filter. Headings also appear as
// entries in the table of contents; those matches produce near-empty spans
// and are skipped here rather than special-cased.
func (d *Detector) detectOne(p *patterns.BoundaryPattern, text string) (Section, bool) {
	for _, loc := range p.Start.FindAllStringIndex(text, 10) {
		if sec, ok := d.spanAt(p, text, loc); ok {
			return sec, true
		}
	}
	return Section{}, false
}

// tocEntryExpr matches a heading line that is really a contents-listing
// entry: it trails off into dotted leaders and/or a page number.
var tocEntryExpr = regexp.MustCompile(`[.…·]{2,}\s*\d*\s*$|\s\d+\s*$`)

func (d *Detector) spanAt(p *patterns.BoundaryPattern, text string, loc []int) (Section, bool) {
	// Start patterns open with `^\s*`, which can swallow blank lines in
	// front of the heading; the section proper begins at the first
	// non-whitespace rune of the match.
	start := loc[0]
	for start < loc[1] {
		r, size := utf8.DecodeRuneInString(text[start:])
		if !unicode.IsSpace(r) {
			break
		}
		start += size
	}

	headingLine := text[start:]
	if nl := strings.IndexByte(headingLine, '\n'); nl >= 0 {
		headingLine = headingLine[:nl]
	}
	if tocEntryExpr.MatchString(strings.TrimRight(headingLine, " \t\r")) {
		return Section{}, false
	}

	var bodyStart, end int
	if p.SingleLine {
		bodyStart = loc[1]
		end = len(text)
		if nl := strings.IndexByte(text[loc[1]:], '\n'); nl >= 0 {
			end = loc[1] + nl
		}
	} else {
		// Body begins after the heading line.
		bodyStart = len(text)
		if nl := strings.IndexByte(text[loc[1]:], '\n'); nl >= 0 {
			bodyStart = loc[1] + nl + 1
		}
		end = len(text)
		if p.Terminator != nil {
			if tloc := p.Terminator.FindStringIndex(text[bodyStart:]); tloc != nil {
				end = bodyStart + tloc[0]
			} else if p.MaxContent > 0 {
				end = capRunes(text, bodyStart, p.MaxContent)
			}
		} else if p.MaxContent > 0 {
			end = capRunes(text, bodyStart, p.MaxContent)
		}
	}

	content := strings.TrimSpace(text[bodyStart:end])
	if p.MinContent > 0 && utf8.RuneCountInString(content) < p.MinContent {
		return Section{}, false
	}

	sec := Section{
		Type:        p.Type,
		Title:       d.extractTitle(p, text[start:bodyStart]),
		Content:     content,
		StartOffset: start,
		EndOffset:   end,
		StartLine:   1 + strings.Count(text[:start], "\n"),
		EndLine:     1 + strings.Count(text[:end], "\n"),
	}

	before := text[max(0, start-scoreWindow):start]
	after := text[end:min(len(text), end+scoreWindow)]
	sec.Confidence = patterns.ScoreBoundary(d.lib.ScoreRules(), patterns.ScoreContext{
		Type:    p.Type,
		Content: content,
		Before:  before,
		After:   after,
	})

	return sec, true
}

// extractTitle pulls the section title from the heading span, falling back
// to the trimmed first line.
func (d *Detector) extractTitle(p *patterns.BoundaryPattern, heading string) string {
	firstLine := heading
	if nl := strings.IndexByte(heading, '\n'); nl >= 0 {
		firstLine = heading[:nl]
	}
	firstLine = strings.TrimSpace(firstLine)

	for _, expr := range p.Titles {
		if m := expr.FindStringSubmatch(firstLine); m != nil && len(m) > 1 {
			return strings.TrimSpace(m[1])
		}
	}

	maxLen := d.lib.Thresholds().TitleMaxLen
	if utf8.RuneCountInString(firstLine) > maxLen {
		runes := []rune(firstLine)
		firstLine = string(runes[:maxLen])
	}
	return firstLine
}

// Ordered returns the detected sections sorted by document position.
func Ordered(sections map[patterns.SectionType]Section) []Section {
	out := make([]Section, 0, len(sections))
	for _, s := range sections {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StartOffset < out[j].StartOffset })
	return out
}

// capRunes returns the byte offset n runes past start, clamped to len(text).
func capRunes(text string, start, n int) int {
	i := start
	for n > 0 && i < len(text) {
		_, size := utf8.DecodeRuneInString(text[i:])
		i += size
		n--
	}
	return i
}
