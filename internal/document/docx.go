package document

import (
	"archive/zip"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

// tocBookmarkExpr matches the bookmark starts Word emits for outline
// entries. Ordinary user bookmarks use free-form names; outline bookmarks
// are always _Toc followed by digits.
var tocBookmarkExpr = regexp.MustCompile(`<w:bookmarkStart[^>]*w:name="(_Toc\d+)"`)

// openDocx reads word/document.xml from the ZIP archive, keeps the raw
// markup for anchor walking, and assembles plain text one paragraph per
// line.
func openDocx(path string) (*Document, error) {
	r, err := zip.OpenReader(path)
	if err != nil {
		return nil, fmt.Errorf("open zip: %w", err)
	}
	defer r.Close()

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return nil, fmt.Errorf("word/document.xml not found in archive")
	}

	rc, err := docFile.Open()
	if err != nil {
		return nil, fmt.Errorf("open document.xml: %w", err)
	}
	defer rc.Close()

	raw, err := io.ReadAll(rc)
	if err != nil {
		return nil, fmt.Errorf("read document.xml: %w", err)
	}

	markup := string(raw)
	doc := &Document{
		Path:      path,
		Format:    FormatDOCX,
		Text:      assembleText(markup),
		rawMarkup: markup,
		anchors:   findAnchors(markup),
	}
	return doc, nil
}

// NewFromMarkup wraps an already-extracted document.xml body in a handle,
// for callers that receive the markup without the surrounding archive.
func NewFromMarkup(markup string) *Document {
	return &Document{
		Format:    FormatDOCX,
		Text:      assembleText(markup),
		rawMarkup: markup,
		anchors:   findAnchors(markup),
	}
}

// findAnchors collects outline bookmark positions in document order.
func findAnchors(markup string) []Anchor {
	matches := tocBookmarkExpr.FindAllStringSubmatchIndex(markup, -1)
	if len(matches) == 0 {
		return nil
	}
	anchors := make([]Anchor, 0, len(matches))
	for _, m := range matches {
		anchors = append(anchors, Anchor{
			Name:   markup[m[2]:m[3]],
			Offset: m[0],
		})
	}
	sort.Slice(anchors, func(i, j int) bool { return anchors[i].Offset < anchors[j].Offset })
	return anchors
}

// assembleText walks the paragraph structure and joins text runs, one
// paragraph per output line. Empty paragraphs are kept as blank lines so
// downstream boundary scoring can see paragraph breaks.
func assembleText(markup string) string {
	decoder := xml.NewDecoder(strings.NewReader(markup))

	var out strings.Builder
	var current strings.Builder
	var inParagraph bool

	for {
		tok, err := decoder.Token()
		if err != nil {
			break
		}

		switch t := tok.(type) {
		case xml.StartElement:
			if t.Name.Local == "p" {
				inParagraph = true
				current.Reset()
			}

		case xml.CharData:
			if inParagraph {
				current.Write(t)
			}

		case xml.EndElement:
			if t.Name.Local == "p" && inParagraph {
				inParagraph = false
				out.WriteString(strings.TrimSpace(current.String()))
				out.WriteByte('\n')
			}
		}
	}

	return out.String()
}
