package references

import (
	"context"
	"strings"
	"testing"

	"github.com/papyrus-labs/quire/internal/patterns"
	"github.com/papyrus-labs/quire/internal/providers"
)

func testLibrary() *patterns.Library {
	return patterns.NewLibrary(patterns.DefaultThresholds())
}

const refSection = `正文最后一段。

参考文献
[1] Smith J. Deep learning for detection. Journal of AI, 2020.
[2] 李明. 目标检测技术综述. 计算机学报, 2019.
[3] Brown A. et al. Feature fusion networks. Proceedings of CVPR, 2021.

致谢
感谢导师的悉心指导。
`

func TestExtract(t *testing.T) {
	e := NewExtractor(testLibrary(), nil, nil)

	entries, stats, err := e.Extract(context.Background(), refSection)
	if err != nil {
		t.Fatalf("Extract() error = %v", err)
	}
	if len(entries) != 3 {
		t.Fatalf("len(entries) = %d, want 3: %v", len(entries), entries)
	}
	if !strings.HasPrefix(entries[0], "[1] Smith J.") {
		t.Errorf("entries[0] = %q", entries[0])
	}
	if !strings.HasPrefix(entries[1], "[2] 李明.") {
		t.Errorf("entries[1] = %q", entries[1])
	}
	if stats.AcceptedCount != 3 || stats.CandidateCount != 3 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.UsedFallback {
		t.Error("fallback should not run with sufficient regex yield")
	}
	for _, entry := range entries {
		if strings.Contains(entry, "致谢") || strings.Contains(entry, "感谢") {
			t.Errorf("entry leaked past terminator: %q", entry)
		}
	}
}

func TestExtract_NumberingVariants(t *testing.T) {
	e := NewExtractor(testLibrary(), nil, nil)

	tests := []struct {
		name string
		line string
	}{
		{"fullwidth bracket", "［1］ Smith J. Deep learning methods. Journal of AI, 2020."},
		{"halfwidth bracket", "[1] Smith J. Deep learning methods. Journal of AI, 2020."},
		{"dotted", "1. Smith J. Deep learning methods. Journal of AI, 2020."},
		{"parenthesized", "（1） Smith J. Deep learning methods. Journal of AI, 2020."},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "参考文献\n" + tt.line + "\n致谢\n"
			entries, _, err := e.Extract(context.Background(), text)
			if err != nil {
				t.Fatalf("Extract() error = %v", err)
			}
			if len(entries) != 1 {
				t.Fatalf("len(entries) = %d: %v", len(entries), entries)
			}
			if !strings.HasPrefix(entries[0], "[1] Smith J.") {
				t.Errorf("entries[0] = %q", entries[0])
			}
		})
	}
}

func TestExtract_ContinuationLines(t *testing.T) {
	e := NewExtractor(testLibrary(), nil, nil)

	text := `参考文献
[1] Smith J. A very long title that wraps
across two physical lines. Journal of AI, 2020.
[2] 李明. 目标检测技术综述. 计算机学报, 2019.
致谢
`
	entries, _, err := e.Extract(context.Background(), text)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 {
		t.Fatalf("len(entries) = %d: %v", len(entries), entries)
	}
	if !strings.Contains(entries[0], "across two physical lines") {
		t.Errorf("continuation not merged: %q", entries[0])
	}
}

func TestExtract_Filters(t *testing.T) {
	e := NewExtractor(testLibrary(), nil, nil)

	t.Run("number jump rejected", func(t *testing.T) {
		text := `参考文献
[1] Smith J. Deep learning for detection. Journal of AI, 2020.
[2] 李明. 目标检测技术综述. 计算机学报, 2019.
[5895] 这是一个被误识别为编号的页码条目，不应出现在结果里。
[3] Brown A. Feature fusion networks. Proceedings of CVPR, 2021.
致谢
`
		entries, stats, err := e.Extract(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 3 {
			t.Fatalf("len(entries) = %d: %v", len(entries), entries)
		}
		if stats.DroppedCeiling != 1 {
			t.Errorf("DroppedCeiling = %d, want 1", stats.DroppedCeiling)
		}
	})

	t.Run("jump within tolerance accepted", func(t *testing.T) {
		// After [1] the next expected number is 2, so 2+5=7 is the
		// largest acceptable number.
		text := `参考文献
[1] Smith J. Deep learning for detection. Journal of AI, 2020.
[7] Brown A. Feature fusion networks. Proceedings of CVPR, 2021.
致谢
`
		entries, _, err := e.Extract(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 2 {
			t.Fatalf("number at the tolerance bound should be accepted: %v", entries)
		}
	})

	t.Run("jump beyond tolerance rejected", func(t *testing.T) {
		text := `参考文献
[1] Smith J. Deep learning for detection. Journal of AI, 2020.
[8] Brown A. Feature fusion networks. Proceedings of CVPR, 2021.
致谢
`
		entries, stats, err := e.Extract(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Fatalf("number past the tolerance bound should be rejected: %v", entries)
		}
		if stats.DroppedJump != 1 {
			t.Errorf("DroppedJump = %d, want 1", stats.DroppedJump)
		}
	})

	t.Run("numbered noise without citation signals rejected", func(t *testing.T) {
		// Numbering alone is not enough; each entry must also show a
		// year, a publication keyword, or an author-shaped token.
		text := `参考文献
[1] aaaaa bbbbb ccccc ddddd eeeee fffff
[2] ggggg hhhhh iiiii jjjjj kkkkk lllll
[3] Smith J. Deep learning for detection. Journal of AI, 2020.
致谢
`
		entries, stats, err := e.Extract(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Fatalf("len(entries) = %d: %v", len(entries), entries)
		}
		if !strings.HasPrefix(entries[0], "[3] Smith J.") {
			t.Errorf("entries[0] = %q", entries[0])
		}
		if stats.DroppedImplausible != 2 {
			t.Errorf("DroppedImplausible = %d, want 2", stats.DroppedImplausible)
		}
	})

	t.Run("short entries rejected", func(t *testing.T) {
		text := `参考文献
[1] 太短
[2] Smith J. Deep learning for detection. Journal of AI, 2020.
致谢
`
		entries, stats, err := e.Extract(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Fatalf("len(entries) = %d: %v", len(entries), entries)
		}
		if stats.DroppedShort != 1 {
			t.Errorf("DroppedShort = %d, want 1", stats.DroppedShort)
		}
	})

	t.Run("sorted by parsed number", func(t *testing.T) {
		text := `参考文献
[2] 李明. 目标检测技术综述. 计算机学报, 2019.
[1] Smith J. Deep learning for detection. Journal of AI, 2020.
致谢
`
		entries, _, err := e.Extract(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if !strings.HasPrefix(entries[0], "[1]") || !strings.HasPrefix(entries[1], "[2]") {
			t.Errorf("entries not sorted: %v", entries)
		}
	})
}

func TestExtract_MissingSection(t *testing.T) {
	e := NewExtractor(testLibrary(), nil, nil)
	if _, _, err := e.Extract(context.Background(), "没有文献列表的文本。"); err == nil {
		t.Error("expected error when reference list is absent")
	}
}

func TestExtract_Fallback(t *testing.T) {
	t.Run("sparse yield defers to model", func(t *testing.T) {
		client := providers.NewMockClient()
		client.ResponseText = strings.Join([]string{
			"[1] Smith J. Deep learning for detection. Journal of AI, 2020.",
			"[2] 李明. 目标检测技术综述. 计算机学报, 2019.",
			"这一行不是参考文献条目，应当被过滤掉。",
			"[3] Brown A. et al. Feature fusion networks. Proceedings of CVPR, 2021.",
		}, "\n")

		// The span exists but its entries carry no recognizable numbering.
		text := `参考文献
Smith J Deep learning for detection Journal of AI 2020
李明 目标检测技术综述 计算机学报 2019
致谢
`
		e := NewExtractor(testLibrary(), client, nil)
		entries, stats, err := e.Extract(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if !stats.UsedFallback || stats.Source != "llm" {
			t.Errorf("stats = %+v, want fallback", stats)
		}
		if len(entries) != 3 {
			t.Fatalf("len(entries) = %d: %v", len(entries), entries)
		}
		for _, entry := range entries {
			if strings.Contains(entry, "不是参考文献") {
				t.Errorf("implausible reply line kept: %q", entry)
			}
		}
	})

	t.Run("fallback failure keeps regex yield", func(t *testing.T) {
		client := providers.NewMockClient()
		client.ShouldFail = true

		text := `参考文献
[1] Smith J. Deep learning for detection. Journal of AI, 2020.
致谢
`
		e := NewExtractor(testLibrary(), client, nil)
		entries, stats, err := e.Extract(context.Background(), text)
		if err != nil {
			t.Fatal(err)
		}
		if len(entries) != 1 {
			t.Fatalf("len(entries) = %d: %v", len(entries), entries)
		}
		if stats.UsedFallback {
			t.Error("failed fallback should not be recorded as used")
		}
	})
}

func TestIsPlausibleEntry(t *testing.T) {
	e := NewExtractor(testLibrary(), nil, nil)

	tests := []struct {
		name string
		line string
		want bool
	}{
		{"numbering plus year", "[1] Smith J. Title of the paper. Journal, 2020.", true},
		{"year plus keyword, no numbering", "王强 计算机视觉方法研究 电子学报 2018 年第 3 期", true},
		{"too short", "[1] 短文本", false},
		{"prose without signals", "本章从三个方面总结了研究工作的主要贡献和不足之处", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := e.isPlausibleEntry(tt.line); got != tt.want {
				t.Errorf("isPlausibleEntry(%q) = %v, want %v", tt.line, got, tt.want)
			}
		})
	}
}
