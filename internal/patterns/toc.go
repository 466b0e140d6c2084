package patterns

import (
	"regexp"
	"strings"
)

// TocPattern classifies one cleaned anchor text into a section type.
//
// The layers are tried in order of decreasing confidence: exact chapter
// numbering forms first, then generic numbered-section forms, then the
// closed set of special-section keywords.
type TocPattern struct {
	Expr       *regexp.Regexp
	Confidence float64
	Level      int // 0 = derive level from numbering separator count
	Type       SectionType
}

func compileTocPatterns() (chapter, numbered, special []*TocPattern) {
	chapter = []*TocPattern{
		{
			Expr:       regexp.MustCompile(`^(第[一二三四五六七八九十\d]+章)\s*([^\n\r\t]*)`),
			Confidence: 0.95,
			Level:      1,
			Type:       SectionChapter,
		},
		{
			Expr:       regexp.MustCompile(`^(Chapter\s+\d+|CHAPTER\s+\d+)\s+([^\n\r\t]+)`),
			Confidence: 0.90,
			Level:      1,
			Type:       SectionChapter,
		},
		{
			// Bare numeric chapters: "1 绪论". The title must not start
			// with a digit, which keeps "1.1 背景" out of this layer.
			Expr:       regexp.MustCompile(`^(\d+)\s+([^\d\s][^\n\r\t]{2,})`),
			Confidence: 0.90,
			Level:      1,
			Type:       SectionChapter,
		},
	}

	numbered = []*TocPattern{
		{
			Expr:       regexp.MustCompile(`^(\d+(?:\.\d+)+)\s*([^\n\r\t]{2,})`),
			Confidence: 0.85,
			Type:       SectionSubsection,
		},
	}

	special = []*TocPattern{
		{Expr: regexp.MustCompile(`^(摘\s*要|Abstract|ABSTRACT)`), Confidence: 0.95, Level: 1, Type: SectionAbstractCN},
		{Expr: regexp.MustCompile(`^(结\s*论|Conclusion|总结|Summary)`), Confidence: 0.90, Level: 1, Type: SectionConclusion},
		{Expr: regexp.MustCompile(`^(参\s*考\s*文\s*献|References|REFERENCES)`), Confidence: 0.95, Level: 1, Type: SectionReferences},
		{Expr: regexp.MustCompile(`^(攻读[^\n]*学位[^\n]*(?:成果|论文)|研究成果|学术成果|Publications|Academic Achievements)`), Confidence: 0.90, Level: 1, Type: SectionAchievements},
		{Expr: regexp.MustCompile(`^(致\s*谢|Acknowledgments?|Acknowledgements?|ACKNOWLEDGMENTS?)`), Confidence: 0.90, Level: 1, Type: SectionAcknowledgement},
		{Expr: regexp.MustCompile(`^(作者简介|个人简历|Author\s*Profile|Biography|CV)`), Confidence: 0.90, Level: 1, Type: SectionAuthorProfile},
		{Expr: regexp.MustCompile(`^(附\s*录|Appendix|APPENDIX)`), Confidence: 0.85, Level: 1, Type: SectionAppendix},
		{Expr: regexp.MustCompile(`^(声\s*明|Declaration|Statement)`), Confidence: 0.85, Level: 1, Type: SectionDeclaration},
		{Expr: regexp.MustCompile(`^(版权声明|Copyright|License)`), Confidence: 0.85, Level: 1, Type: SectionCopyright},
		{Expr: regexp.MustCompile(`^(目\s*录)`), Confidence: 0.85, Level: 1, Type: SectionTOC},
	}
	return chapter, numbered, special
}

// TocChapterPatterns returns the exact chapter-numbering layer.
func (l *Library) TocChapterPatterns() []*TocPattern { return l.tocChapter }

// TocNumberedPatterns returns the generic numbered-section layer.
func (l *Library) TocNumberedPatterns() []*TocPattern { return l.tocNumbered }

// TocSpecialPatterns returns the closed-set special-section keyword layer.
func (l *Library) TocSpecialPatterns() []*TocPattern { return l.tocSpecial }

// NumberingLevel derives an outline level from a dotted section number:
// "1" -> 1, "1.1" -> 2, "1.1.1" -> 3. Empty numbers map to level 1.
func NumberingLevel(number string) int {
	number = strings.TrimSpace(number)
	if number == "" {
		return 1
	}
	return strings.Count(number, ".") + 1
}

var (
	cnChapterSpacing = regexp.MustCompile(`第\s+([一二三四五六七八九十]+)\s+章`)
	numChapterSpacing = regexp.MustCompile(`第\s+(\d+)\s+章`)
)

// NormalizeChapterTitle removes OCR spacing artifacts inside chapter
// numbering: "第 一 章" becomes "第一章", "第 1 章" becomes "第1章".
func NormalizeChapterTitle(s string) string {
	s = cnChapterSpacing.ReplaceAllString(s, "第${1}章")
	s = numChapterSpacing.ReplaceAllString(s, "第${1}章")
	return s
}
