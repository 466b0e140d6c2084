package quality

import (
	"reflect"
	"testing"
)

func TestApply_PlausibleMetadata(t *testing.T) {
	g := NewGate(0.4, nil)

	meta := map[string]string{
		"title_cn":      "基于深度学习的目标检测方法研究",
		"author_cn":     "张伟",
		"university_cn": "燕山大学",
		"degree_level":  "硕士",
		"defense_date":  "2023年5月",
	}
	gated, res := g.Apply(meta)

	if res.Degraded {
		t.Errorf("Degraded = true for clean metadata: %+v", res)
	}
	if res.Confidence != 1.0 {
		t.Errorf("Confidence = %v, want 1.0", res.Confidence)
	}
	if gated["title_cn"] != meta["title_cn"] {
		t.Errorf("title mutated: %q", gated["title_cn"])
	}
}

func TestApply_Degrades(t *testing.T) {
	g := NewGate(0.4, nil)

	meta := map[string]string{
		"title_cn":      "摘要", // leaked label, too short
		"author_cn":     "UNKNOWN AUTHOR 123",
		"university_cn": "不含有关键词的字符串",
		"degree_level":  "",
	}
	gated, res := g.Apply(meta)

	if !res.Degraded {
		t.Fatalf("Degraded = false, confidence = %v", res.Confidence)
	}
	for field, v := range gated {
		if v != "" {
			t.Errorf("field %s not defaulted: %q", field, v)
		}
	}
	if len(res.Warnings) == 0 {
		t.Error("no warnings on degraded result")
	}
	if len(gated) != len(meta) {
		t.Errorf("canonical key set changed: %d keys", len(gated))
	}
}

func TestApply_Idempotent(t *testing.T) {
	g := NewGate(0.4, nil)

	meta := map[string]string{
		"title_cn":  "目录",
		"author_cn": "x1",
	}
	first, res1 := g.Apply(meta)
	if !res1.Degraded {
		t.Fatal("expected degradation")
	}

	second, res2 := g.Apply(first)
	if !reflect.DeepEqual(first, second) {
		t.Errorf("re-gating mutated values: %v != %v", first, second)
	}
	if !res2.Degraded {
		t.Error("re-gated empty result should still report degraded")
	}
}

func TestFieldScore(t *testing.T) {
	tests := []struct {
		field, value string
		want         float64
	}{
		{"title_cn", "基于深度学习的目标检测方法研究", 1.0},
		{"title_cn", "短", 0.3},
		{"title_cn", "关键词：深度学习", 0.3},
		{"author_cn", "张伟", 1.0},
		{"author_cn", "买买提·艾力", 1.0},
		{"author_cn", "Smith", 0.3},
		{"author_en", "Zhang Wei", 1.0},
		{"university_cn", "燕山大学", 1.0},
		{"university_cn", "某机构", 0.3},
		{"college", "信息科学与工程学院", 1.0},
		{"degree_level", "工学硕士", 1.0},
		{"defense_date", "2023年6月", 1.0},
		{"defense_date", "不详", 0.3},
		{"abstract_cn", "任意非空内容按存在计分", 1.0},
		{"anything", "", 0.0},
	}
	for _, tt := range tests {
		if got := fieldScore(tt.field, tt.value); got != tt.want {
			t.Errorf("fieldScore(%s, %q) = %v, want %v", tt.field, tt.value, got, tt.want)
		}
	}
}

func TestClean(t *testing.T) {
	if got := Clean("  标题\x00带控制  字符\n"); got != "标题带控制 字符" {
		t.Errorf("Clean() = %q", got)
	}
}
