package document

import (
	"archive/zip"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// writeDocx builds a minimal .docx archive containing the given
// word/document.xml body.
func writeDocx(t *testing.T, body string) string {
	t.Helper()

	path := filepath.Join(t.TempDir(), "thesis.docx")
	f, err := os.Create(path)
	if err != nil {
		t.Fatalf("create docx: %v", err)
	}
	defer f.Close()

	zw := zip.NewWriter(f)
	w, err := zw.Create("word/document.xml")
	if err != nil {
		t.Fatalf("create document.xml: %v", err)
	}
	if _, err := w.Write([]byte(body)); err != nil {
		t.Fatalf("write document.xml: %v", err)
	}
	if err := zw.Close(); err != nil {
		t.Fatalf("close zip: %v", err)
	}
	return path
}

const sampleXML = `<?xml version="1.0"?>
<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main">
<w:body>
<w:p><w:r><w:t>燕山大学硕士学位论文</w:t></w:r></w:p>
<w:p><w:bookmarkStart w:id="1" w:name="_Toc1001"/><w:r><w:t>第一章 绪论</w:t></w:r></w:p>
<w:p><w:r><w:t>本章介绍研究背景。</w:t></w:r></w:p>
<w:p><w:bookmarkStart w:id="2" w:name="_Toc1002"/><w:r><w:t>1.1 研究背景</w:t></w:r></w:p>
<w:p><w:bookmarkStart w:id="3" w:name="_Toc1003"/><w:r><w:t>第二章 总体方案</w:t></w:r></w:p>
</w:body>
</w:document>`

func TestOpenDocx(t *testing.T) {
	path := writeDocx(t, sampleXML)

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if doc.Format != FormatDOCX {
		t.Errorf("Format = %s, want %s", doc.Format, FormatDOCX)
	}

	t.Run("anchors in document order", func(t *testing.T) {
		anchors := doc.Anchors()
		if len(anchors) != 3 {
			t.Fatalf("len(anchors) = %d, want 3", len(anchors))
		}
		want := []string{"_Toc1001", "_Toc1002", "_Toc1003"}
		for i, a := range anchors {
			if a.Name != want[i] {
				t.Errorf("anchor[%d] = %s, want %s", i, a.Name, want[i])
			}
			if i > 0 && a.Offset <= anchors[i-1].Offset {
				t.Errorf("anchor[%d] offset %d not after previous %d", i, a.Offset, anchors[i-1].Offset)
			}
		}
	})

	t.Run("text assembly", func(t *testing.T) {
		if !strings.Contains(doc.Text, "第一章 绪论") {
			t.Errorf("text missing heading: %q", doc.Text)
		}
		if !strings.Contains(doc.Text, "本章介绍研究背景。") {
			t.Errorf("text missing body paragraph: %q", doc.Text)
		}
	})

	t.Run("anchor windows", func(t *testing.T) {
		w0 := doc.AnchorWindow(0, 2000)
		if !strings.Contains(w0, "第一章 绪论") {
			t.Errorf("window 0 missing own title: %q", w0)
		}
		if strings.Contains(w0, "1.1 研究背景") {
			t.Errorf("window 0 leaked into next anchor: %q", w0)
		}

		// Last anchor has no successor; window is capped.
		w2 := doc.AnchorWindow(2, 2000)
		if !strings.Contains(w2, "第二章 总体方案") {
			t.Errorf("window 2 missing own title: %q", w2)
		}

		if got := doc.AnchorWindow(99, 2000); got != "" {
			t.Errorf("out-of-range window = %q, want empty", got)
		}
	})
}

func TestOpenDocx_NoAnchors(t *testing.T) {
	path := writeDocx(t, `<w:document xmlns:w="x"><w:body><w:p><w:r><w:t>plain</w:t></w:r></w:p></w:body></w:document>`)

	doc, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if doc.HasAnchors() {
		t.Error("HasAnchors() = true for document without bookmarks")
	}
}

func TestNewFromText(t *testing.T) {
	doc := NewFromText("摘要\n内容")
	if doc.Format != FormatText {
		t.Errorf("Format = %s, want %s", doc.Format, FormatText)
	}
	if doc.HasAnchors() {
		t.Error("text handle should have no anchors")
	}
}

func TestOpen_Unsupported(t *testing.T) {
	path := filepath.Join(t.TempDir(), "thesis.rtf")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := Open(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}
