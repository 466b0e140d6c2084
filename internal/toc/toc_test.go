package toc

import (
	"context"
	"fmt"
	"strings"
	"testing"

	"github.com/papyrus-labs/quire/internal/boundary"
	"github.com/papyrus-labs/quire/internal/document"
	"github.com/papyrus-labs/quire/internal/patterns"
	"github.com/papyrus-labs/quire/internal/providers"
)

func testLibrary() *patterns.Library {
	return patterns.NewLibrary(patterns.DefaultThresholds())
}

// anchoredMarkup builds a document.xml body with one bookmark per title.
func anchoredMarkup(titles ...string) string {
	var b strings.Builder
	b.WriteString(`<w:document xmlns:w="x"><w:body>`)
	for i, title := range titles {
		fmt.Fprintf(&b, `<w:p><w:bookmarkStart w:id="%d" w:name="_Toc%d"/><w:r><w:t>%s</w:t></w:r></w:p>`, i, 1000+i, title)
	}
	b.WriteString(`</w:body></w:document>`)
	return b.String()
}

func TestReconstruct_Patterns(t *testing.T) {
	doc := document.NewFromMarkup(anchoredMarkup(
		"封面装订说明",
		"摘要",
		"第一章 绪论",
		"1.1 研究背景",
		"第二章 总体方案设计",
		"结论",
		"参考文献",
		"致谢",
	))

	r := NewReconstructor(testLibrary(), nil, nil)
	entries, err := r.Reconstruct(context.Background(), doc)
	if err != nil {
		t.Fatalf("Reconstruct() error = %v", err)
	}

	t.Run("boilerplate before front matter dropped", func(t *testing.T) {
		for _, e := range entries {
			if strings.Contains(e.Title, "装订") {
				t.Errorf("boilerplate anchor kept: %+v", e)
			}
		}
	})

	t.Run("chapter entries", func(t *testing.T) {
		var chap *Entry
		for i := range entries {
			if entries[i].Number == "第一章" {
				chap = &entries[i]
				break
			}
		}
		if chap == nil {
			t.Fatalf("no 第一章 entry in %+v", entries)
		}
		if chap.Level != 1 || chap.Title != "绪论" {
			t.Errorf("chapter entry = %+v", chap)
		}
		if chap.Confidence < 0.9 {
			t.Errorf("chapter Confidence = %v", chap.Confidence)
		}
	})

	t.Run("numbered subsection level from separators", func(t *testing.T) {
		for _, e := range entries {
			if e.Number == "1.1" {
				if e.Level != 2 {
					t.Errorf("1.1 Level = %d, want 2", e.Level)
				}
				return
			}
		}
		t.Errorf("no 1.1 entry in %+v", entries)
	})

	t.Run("special sections level 1", func(t *testing.T) {
		want := map[patterns.SectionType]bool{
			patterns.SectionConclusion:      false,
			patterns.SectionReferences:      false,
			patterns.SectionAcknowledgement: false,
		}
		for _, e := range entries {
			if _, ok := want[e.SectionType]; ok {
				want[e.SectionType] = true
				if e.Level != 1 {
					t.Errorf("%s Level = %d, want 1", e.SectionType, e.Level)
				}
			}
		}
		for typ, found := range want {
			if !found {
				t.Errorf("%s not in outline", typ)
			}
		}
	})

	t.Run("ordered by document position", func(t *testing.T) {
		for i := 1; i < len(entries); i++ {
			if entries[i].Position < entries[i-1].Position {
				t.Fatalf("entries out of document order: %+v", entries)
			}
		}
	})
}

func TestReconstruct_Dedupe(t *testing.T) {
	doc := document.NewFromMarkup(anchoredMarkup(
		"摘要",
		"第一章 绪论",
		"第一章 绪论",
	))
	r := NewReconstructor(testLibrary(), nil, nil)
	entries, err := r.Reconstruct(context.Background(), doc)
	if err != nil {
		t.Fatal(err)
	}
	count := 0
	for _, e := range entries {
		if e.Number == "第一章" {
			count++
		}
	}
	if count != 1 {
		t.Errorf("duplicate chapter kept %d times", count)
	}
}

func TestReconstruct_NoAnchors(t *testing.T) {
	r := NewReconstructor(testLibrary(), nil, nil)
	if _, err := r.Reconstruct(context.Background(), document.NewFromText("plain")); err == nil {
		t.Error("expected error for document without anchors")
	}
}

func TestReconstruct_ModelPath(t *testing.T) {
	doc := document.NewFromMarkup(anchoredMarkup(
		"摘要",
		"第一章 绪论",
		"1.1 研究背景",
		"参考文献",
	))

	t.Run("level-1 filter", func(t *testing.T) {
		client := providers.NewMockClient()
		client.ResponseJSON = []byte(`[
			{"index": 0, "title": "摘要", "level": 1, "type": "abstract_cn"},
			{"index": 1, "title": "第一章 绪论", "level": 1, "type": "chapter"},
			{"index": 2, "title": "1.1 研究背景", "level": 2, "type": "subsection"},
			{"index": 3, "title": "参考文献", "level": 1, "type": "references"}
		]`)

		r := NewReconstructor(testLibrary(), client, nil)
		entries, err := r.Reconstruct(context.Background(), doc)
		if err != nil {
			t.Fatalf("Reconstruct() error = %v", err)
		}
		if len(entries) != 3 {
			t.Fatalf("len(entries) = %d, want 3 level-1 entries: %+v", len(entries), entries)
		}
		for _, e := range entries {
			if e.Level != 1 {
				t.Errorf("model path kept level %d entry: %+v", e.Level, e)
			}
		}
		if entries[1].SectionType != patterns.SectionChapter {
			t.Errorf("entry[1].SectionType = %s", entries[1].SectionType)
		}
	})

	t.Run("model failure falls back to patterns", func(t *testing.T) {
		client := providers.NewMockClient()
		client.ShouldFail = true

		r := NewReconstructor(testLibrary(), client, nil)
		entries, err := r.Reconstruct(context.Background(), doc)
		if err != nil {
			t.Fatalf("Reconstruct() error = %v", err)
		}
		if len(entries) == 0 {
			t.Fatal("fallback produced no entries")
		}
	})

	t.Run("non-json reply falls back to patterns", func(t *testing.T) {
		client := providers.NewMockClient()
		client.ResponseText = "抱歉，我无法解析这些条目。"

		r := NewReconstructor(testLibrary(), client, nil)
		entries, err := r.Reconstruct(context.Background(), doc)
		if err != nil {
			t.Fatalf("Reconstruct() error = %v", err)
		}
		if len(entries) == 0 {
			t.Fatal("fallback produced no entries")
		}
	})
}

func TestFromSections(t *testing.T) {
	sections := map[patterns.SectionType]boundary.Section{
		patterns.SectionConclusion: {Type: patterns.SectionConclusion, Title: "结论", StartOffset: 500, Confidence: 0.7},
		patterns.SectionAbstractCN: {Type: patterns.SectionAbstractCN, Title: "摘要", StartOffset: 10, Confidence: 0.9},
	}
	entries := FromSections(sections)
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d", len(entries))
	}
	if entries[0].SectionType != patterns.SectionAbstractCN {
		t.Errorf("entries[0] = %+v, want abstract first", entries[0])
	}
	for _, e := range entries {
		if e.Level != 1 {
			t.Errorf("Level = %d, want 1", e.Level)
		}
	}
}

func TestCleanAnchorText(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{`HYPERLINK \l "_Toc12345" 第一章 绪论`, "第一章 绪论"},
		{`第二章 总体方案 PAGEREF _Toc99 \h`, "第二章 总体方案"},
		{"参考文献 ........ 80", "参考文献"},
		{"结  论   78", "结 论"},
		{"  ", ""},
	}
	for _, tt := range tests {
		if got := cleanAnchorText(tt.in); got != tt.want {
			t.Errorf("cleanAnchorText(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestTruncateTitle(t *testing.T) {
	longCN := strings.Repeat("面向复杂场景的", 10)
	got := truncateTitle(longCN, 30, 20)
	if n := len([]rune(got)); n != 30 {
		t.Errorf("Chinese truncation kept %d runes, want 30", n)
	}

	longEN := strings.Repeat("word ", 30)
	got = truncateTitle(strings.TrimSpace(longEN), 30, 20)
	if n := len(strings.Fields(got)); n != 20 {
		t.Errorf("English truncation kept %d words, want 20", n)
	}
}

func TestNormalizeChapterTitle(t *testing.T) {
	if got := patterns.NormalizeChapterTitle("第 一 章 绪论"); got != "第一章 绪论" {
		t.Errorf("NormalizeChapterTitle = %q", got)
	}
	if got := patterns.NormalizeChapterTitle("第 2 章 方案"); got != "第2章 方案" {
		t.Errorf("NormalizeChapterTitle = %q", got)
	}
}
