package patterns

import (
	"strings"
	"testing"
)

func TestLibrary_Boundaries(t *testing.T) {
	lib := NewLibrary(DefaultThresholds())

	seen := map[SectionType]bool{}
	for _, bp := range lib.Boundaries() {
		if bp.Start == nil {
			t.Errorf("%s has no start pattern", bp.Type)
		}
		if !bp.SingleLine && bp.Terminator == nil {
			t.Errorf("%s is multi-line but has no terminator", bp.Type)
		}
		if seen[bp.Type] {
			t.Errorf("%s appears twice in the boundary table", bp.Type)
		}
		seen[bp.Type] = true
	}

	for _, st := range []SectionType{
		SectionAbstractCN, SectionAbstractEN,
		SectionKeywordsCN, SectionKeywordsEN,
		SectionIntroduction, SectionConclusion, SectionReferences,
	} {
		if !seen[st] {
			t.Errorf("boundary table is missing %s", st)
		}
	}
}

func TestMetaField(t *testing.T) {
	lib := NewLibrary(DefaultThresholds())
	cover := strings.Join([]string{
		"燕山大学硕士学位论文",
		"题目：基于深度学习的目标检测方法研究",
		"作者姓名：张三",
		"专业：计算机科学与技术",
		"指导教师：李四",
	}, "\n")

	cases := []struct {
		field, want string
	}{
		{"title_cn", "基于深度学习的目标检测方法研究"},
		{"author_cn", "张三"},
		{"university_cn", "燕山大学"},
		{"degree_level", "硕士"},
		{"major_cn", "计算机科学与技术"},
		{"supervisor_cn", "李四"},
	}
	for _, c := range cases {
		got, ok := lib.MetaField(c.field, cover)
		if !ok {
			t.Errorf("MetaField(%s) missed", c.field)
			continue
		}
		if got != c.want {
			t.Errorf("MetaField(%s) = %q, want %q", c.field, got, c.want)
		}
	}

	if _, ok := lib.MetaField("thesis_number", cover); ok {
		t.Error("thesis_number matched a cover without one")
	}
	if _, ok := lib.MetaField("no_such_field", cover); ok {
		t.Error("unknown field must never match")
	}
}

func TestScoreBoundary(t *testing.T) {
	lib := NewLibrary(DefaultThresholds())

	t.Run("clean references score high", func(t *testing.T) {
		sc := ScoreContext{
			Type:    SectionReferences,
			Content: "[1] Smith J. Deep learning. Journal of AI, 2020.\n[2] 李明. 综述. 计算机学报, 2019.",
			Before:  "前一节结束。\n",
			After:   "\n致谢",
		}
		got := ScoreBoundary(lib.ScoreRules(), sc)
		if got <= BaseConfidence {
			t.Errorf("ScoreBoundary = %v, want > %v", got, BaseConfidence)
		}
		if got > 1.0 {
			t.Errorf("ScoreBoundary = %v, confidence must clamp to 1.0", got)
		}
	})

	t.Run("bare span stays at base", func(t *testing.T) {
		sc := ScoreContext{Type: SectionChapter, Content: "短句", Before: "正文", After: "继续"}
		if got := ScoreBoundary(lib.ScoreRules(), sc); got != BaseConfidence {
			t.Errorf("ScoreBoundary = %v, want %v", got, BaseConfidence)
		}
	})
}

func TestNumberingLevel(t *testing.T) {
	cases := []struct {
		number string
		want   int
	}{
		{"", 1},
		{"第一章", 1},
		{"1", 1},
		{"1.1", 2},
		{"2.3.4", 3},
	}
	for _, c := range cases {
		if got := NumberingLevel(c.number); got != c.want {
			t.Errorf("NumberingLevel(%q) = %d, want %d", c.number, got, c.want)
		}
	}
}

func TestNormalizeChapterTitle(t *testing.T) {
	cases := []struct {
		in, want string
	}{
		{"第 一 章 绪论", "第一章 绪论"},
		{"第 1 章 绪论", "第1章 绪论"},
		{"第二章 方案", "第二章 方案"},
	}
	for _, c := range cases {
		if got := NormalizeChapterTitle(c.in); got != c.want {
			t.Errorf("NormalizeChapterTitle(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}
