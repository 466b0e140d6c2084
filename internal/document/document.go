// Package document provides handles over thesis source files. A handle
// carries the assembled plain text plus, for formats that embed navigation
// bookmarks, the raw markup and anchor positions the outline reconstruction
// walks.
package document

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Format identifies the source file format.
type Format string

const (
	FormatDOCX Format = "docx"
	FormatPDF  Format = "pdf"
	FormatText Format = "text"
)

// Anchor is an embedded navigation bookmark with its position in the raw
// document markup. Offsets index into RawMarkup, in document order.
type Anchor struct {
	Name   string
	Offset int
}

// Document is a parsed source file.
type Document struct {
	Path   string
	Format Format

	// Text is the assembled plain text, one paragraph per line.
	Text string

	// PageCount is set for PDF sources.
	PageCount int

	rawMarkup string
	anchors   []Anchor
}

// Open parses a source file, dispatching on extension. PDF sources carry
// page metadata only; their text must be attached with SetText from an
// external conversion.
func Open(path string) (*Document, error) {
	if _, err := os.Stat(path); err != nil {
		return nil, fmt.Errorf("source file: %w", err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".docx":
		return openDocx(path)
	case ".pdf":
		return openPDF(path)
	case ".txt", ".md", ".text":
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read text file: %w", err)
		}
		d := NewFromText(string(data))
		d.Path = path
		return d, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", filepath.Ext(path))
	}
}

// NewFromText wraps already-extracted text in a handle with no anchors.
func NewFromText(text string) *Document {
	return &Document{
		Format: FormatText,
		Text:   text,
	}
}

// SetText attaches externally converted text, for formats whose text the
// handle cannot assemble itself.
func (d *Document) SetText(text string) {
	d.Text = text
}

// HasAnchors reports whether the source embeds navigation bookmarks.
func (d *Document) HasAnchors() bool {
	return len(d.anchors) > 0
}

// Anchors returns the navigation bookmarks in document order.
func (d *Document) Anchors() []Anchor {
	return d.anchors
}

// RawMarkup returns the raw document markup the anchor offsets index into.
func (d *Document) RawMarkup() string {
	return d.rawMarkup
}

// AnchorWindow returns the markup span from anchor i up to the next anchor,
// or up to window bytes for the last one.
func (d *Document) AnchorWindow(i, window int) string {
	if i < 0 || i >= len(d.anchors) {
		return ""
	}
	start := d.anchors[i].Offset
	end := len(d.rawMarkup)
	if i+1 < len(d.anchors) {
		end = d.anchors[i+1].Offset
	} else if start+window < end {
		end = start + window
	}
	if end-start > 4*window {
		// An anchor followed by a huge gap is body text, not an outline
		// entry; the window only needs enough markup to find the title runs.
		end = start + 4*window
	}
	return d.rawMarkup[start:end]
}
