package patterns

import "regexp"

// BoundaryPattern locates one named section in raw document text.
//
// Start matches the section header at a line start. The span runs from the
// header to the earliest Terminator match after it (or MaxContent runes, or
// end of text). RE2 has no lookahead, so terminators are a separate search
// rather than part of the start expression.
type BoundaryPattern struct {
	Type       SectionType
	Start      *regexp.Regexp
	Terminator *regexp.Regexp

	// MinContent rejects spans whose body is shorter than this many runes.
	// Zero means no minimum.
	MinContent int

	// MaxContent caps the span when no terminator matches. Zero means
	// the span may run to end of text.
	MaxContent int

	// SingleLine sections (keyword lines) span only the matched line.
	SingleLine bool

	// Titles are section-specific title extractors tried in order against
	// the span. Group 1 is the title. When none match, the detector falls
	// back to the first content line under the title length cap.
	Titles []*regexp.Regexp
}

func compileBoundaryPatterns(t Thresholds) []*BoundaryPattern {
	return []*BoundaryPattern{
		{
			Type:       SectionAbstractCN,
			Start:      regexp.MustCompile(`(?m)^\s*(?:中文\s*)?摘\s*要`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:关键词|关\s*键\s*词|英文摘要|ABSTRACT|Abstract|目\s*录)`),
			MinContent: t.AbstractMinLen,
			MaxContent: 5000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*((?:中文\s*)?摘\s*要)`),
			},
		},
		{
			Type:       SectionAbstractEN,
			Start:      regexp.MustCompile(`(?m)^\s*(?:ABSTRACT|Abstract)\b`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:Keywords?|KEY\s+WORDS?|Key\s+Words?|目\s*录|第[一二三四五六七八九十\d]+章|1\s+\S)`),
			MinContent: t.AbstractMinLen,
			MaxContent: 5000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(ABSTRACT|Abstract)`),
			},
		},
		{
			Type:       SectionKeywordsCN,
			Start:      regexp.MustCompile(`(?m)^\s*关\s*键\s*词[：:]?`),
			SingleLine: true,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(关\s*键\s*词)`),
			},
		},
		{
			Type:       SectionKeywordsEN,
			Start:      regexp.MustCompile(`(?m)^\s*(?:Keywords?|KEY\s+WORDS?|Key\s+Words?)[：:]?`),
			SingleLine: true,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(Keywords?|KEY\s+WORDS?|Key\s+Words?)`),
			},
		},
		{
			Type:       SectionTOC,
			Start: regexp.MustCompile(`(?m)^\s*目\s*录\s*$`),
			// Chapter headings inside the contents listing end with a page
			// number; the terminator only matches the body heading form.
			Terminator: regexp.MustCompile(`(?m)^\s*(?:摘\s*要|Abstract|ABSTRACT|(?:第一章|第1章)[^\n]*[^0-9\s]$)`),
			MinContent: t.SectionMinLen,
			MaxContent: 3000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(目\s*录)`),
			},
		},
		{
			Type:       SectionIntroduction,
			Start:      regexp.MustCompile(`(?m)^\s*(?:第一章|第1章|1\s+绪\s*论|引\s*言|绪\s*论|概\s*述)`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:第二章|第2章|2\s+\S)`),
			MinContent: t.SectionMinLen,
			MaxContent: 15000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(第一章\s*[^\n]*|第1章\s*[^\n]*|\d+\s+绪\s*论|引\s*言|绪\s*论|概\s*述)`),
			},
		},
		{
			Type:       SectionLiterature,
			Start:      regexp.MustCompile(`(?m)^\s*(?:第二章|第2章|文献综述|相关工作|基础理论)`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:第三章|第3章|3\s+\S)`),
			MinContent: t.SectionMinLen,
			MaxContent: 25000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(第二章\s*[^\n]*|第2章\s*[^\n]*|文献综述|相关工作|基础理论)`),
			},
		},
		{
			Type:       SectionMethodology,
			Start:      regexp.MustCompile(`(?m)^\s*(?:第三章|第3章|研究方法|方法论)`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:第四章|第4章|4\s+\S)`),
			MinContent: t.SectionMinLen,
			MaxContent: 20000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(第三章\s*[^\n]*|第3章\s*[^\n]*|研究方法|方法论)`),
			},
		},
		{
			Type:       SectionResults,
			Start:      regexp.MustCompile(`(?m)^\s*(?:第四章|第4章|实验结果|结果分析)`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:第五章|第5章|5\s+\S|结\s*论)`),
			MinContent: t.SectionMinLen,
			MaxContent: 20000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(第四章\s*[^\n]*|第4章\s*[^\n]*|实验结果|结果分析)`),
			},
		},
		{
			Type:       SectionConclusion,
			Start:      regexp.MustCompile(`(?m)^\s*(?:结\s*论|总\s*结|结论与展望|总结与展望|结论与建议|研究总结|主要结论)`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:参\s*考\s*文\s*献|致\s*谢|攻读|附\s*录)`),
			MinContent: t.ConclusionMinLen,
			MaxContent: 8000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(结\s*论|总\s*结|结论与展望|总结与展望|结论与建议|研究总结|主要结论)`),
			},
		},
		{
			Type:       SectionReferences,
			Start:      regexp.MustCompile(`(?m)^\s*#*\s*(?:参\s*考\s*文\s*献|REFERENCES|References)`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:致\s*谢\s*与\s*声\s*明|致\s*谢|攻读|附\s*录|ACKNOWLEDGE?MENTS?|个人简历|作者简介)`),
			MinContent: t.SectionMinLen,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*#*\s*(参\s*考\s*文\s*献|REFERENCES|References)`),
			},
		},
		{
			Type:       SectionAcknowledgement,
			Start:      regexp.MustCompile(`(?m)^\s*致\s*谢`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:攻读|附\s*录|个人简历|作者简介)`),
			MinContent: t.SectionMinLen,
			MaxContent: 2000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(致\s*谢)`),
			},
		},
		{
			Type:       SectionAchievements,
			Start:      regexp.MustCompile(`(?m)^\s*攻读[^\n]*学位[^\n]*期间[^\n]*(?:成果|论文)`),
			Terminator: regexp.MustCompile(`(?m)^\s*(?:致\s*谢|附\s*录|个人简历|作者简介)`),
			MinContent: t.SectionMinLen,
			MaxContent: 2000,
			Titles: []*regexp.Regexp{
				regexp.MustCompile(`^\s*(攻读[^\n]*学位[^\n]*期间[^\n]*)`),
			},
		},
	}
}
