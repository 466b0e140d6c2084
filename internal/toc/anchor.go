package toc

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

var (
	// textRunExpr pulls visible text runs out of an anchor's markup window.
	textRunExpr = regexp.MustCompile(`<w:t[^>]*>([^<]*)</w:t>`)

	// Field instructions and bookmark names leak into collected runs when
	// the converter flattens hyperlinked outline entries.
	hyperlinkExpr = regexp.MustCompile(`HYPERLINK\s*(?:\\l)?\s*"?_?Toc\d+"?`)
	pagerefExpr   = regexp.MustCompile(`PAGEREF\s+_?Toc\d+(?:\s*\\h)?`)
	tocNameExpr   = regexp.MustCompile(`_Toc\d+`)
	fieldFlagExpr = regexp.MustCompile(`\\[a-z*]\b`)

	// Dotted leaders and trailing page numbers from rendered contents lines.
	leaderExpr     = regexp.MustCompile(`[.…·]{2,}\s*\d*\s*$`)
	trailingNumber = regexp.MustCompile(`\s+\d+\s*$`)

	whitespaceExpr = regexp.MustCompile(`\s+`)

	frontMatterExpr = regexp.MustCompile(`摘\s*要|目\s*录|绪\s*论|引\s*言|第[一1]章|Abstract|ABSTRACT|Introduction`)
)

// collectRuns concatenates the window's text runs until the rune budget is
// reached. Outline titles are short; anything past the budget is body text
// that leaked into the window.
func collectRuns(window string, budget int) string {
	var b strings.Builder
	for _, m := range textRunExpr.FindAllStringSubmatch(window, -1) {
		run := m[1]
		if strings.TrimSpace(run) == "" {
			continue
		}
		b.WriteString(run)
		if utf8.RuneCountInString(b.String()) > budget {
			break
		}
	}
	return b.String()
}

// cleanAnchorText strips field artifacts and contents-line decoration from
// a collected anchor text.
func cleanAnchorText(s string) string {
	s = hyperlinkExpr.ReplaceAllString(s, "")
	s = pagerefExpr.ReplaceAllString(s, "")
	s = tocNameExpr.ReplaceAllString(s, "")
	s = fieldFlagExpr.ReplaceAllString(s, "")
	s = strings.ReplaceAll(s, `"`, "")
	s = leaderExpr.ReplaceAllString(s, "")
	s = trailingNumber.ReplaceAllString(s, "")
	s = whitespaceExpr.ReplaceAllString(s, " ")
	return strings.TrimSpace(s)
}

// truncateTitle caps a title at cnRunes for Chinese text or enWords words
// otherwise. Chinese titles measure in characters, English ones in words.
func truncateTitle(title string, cnRunes, enWords int) string {
	if isChinese(title) {
		runes := []rune(title)
		if len(runes) > cnRunes {
			return strings.TrimSpace(string(runes[:cnRunes]))
		}
		return title
	}
	words := strings.Fields(title)
	if len(words) > enWords {
		return strings.Join(words[:enWords], " ")
	}
	return title
}

// isChinese reports whether Han characters dominate the letters of s.
func isChinese(s string) bool {
	var han, letters int
	for _, r := range s {
		if unicode.Is(unicode.Han, r) {
			han++
			letters++
		} else if unicode.IsLetter(r) {
			letters++
		}
	}
	if letters == 0 {
		return false
	}
	return float64(han)/float64(letters) > 0.3
}
