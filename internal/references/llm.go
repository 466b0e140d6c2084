package references

import (
	"context"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/papyrus-labs/quire/internal/providers"
)

const fallbackSystemPrompt = `你是学位论文参考文献整理助手。输入是一段从论文中截取的参考文献原文，` +
	`其中条目可能因为排版或识别错误被打乱。请重新整理成规范列表：每行一条参考文献，` +
	`保留原有编号，不要增删条目，不要翻译，不要输出任何解释文字。`

// fallback hands the raw span to the model and re-validates every reply
// line with the same plausibility heuristic used for regex candidates.
func (e *Extractor) fallback(ctx context.Context, span string) ([]string, error) {
	result, err := e.client.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: fallbackSystemPrompt},
			{Role: "user", Content: span},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("reference reconstruction: %w", err)
	}

	var out []string
	next := 1
	for _, line := range strings.Split(result.Content, "\n") {
		line = strings.TrimSpace(strings.Trim(line, "`"))
		if line == "" {
			continue
		}
		if !e.isPlausibleEntry(line) {
			continue
		}

		// Keep the model's numbering when it parses; number sequentially
		// otherwise.
		rendered := ""
		for _, scheme := range e.lib.RefNumberings() {
			if m := scheme.Expr.FindStringSubmatch(line); m != nil {
				num := 0
				fmt.Sscanf(m[1], "%d", &num)
				if num > e.lib.Thresholds().RefNumberCeiling {
					break
				}
				rendered = fmt.Sprintf("[%d] %s", num, strings.TrimSpace(m[2]))
				next = num + 1
				break
			}
		}
		if rendered == "" {
			rendered = fmt.Sprintf("[%d] %s", next, line)
			next++
		}
		out = append(out, rendered)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("no plausible entries in model reply")
	}
	return out, nil
}

// isPlausibleEntry accepts a line carrying at least two of four citation
// signals: a numbering marker, a publication year, a publisher or journal
// keyword, and an author-name shape.
func (e *Extractor) isPlausibleEntry(line string) bool {
	if utf8.RuneCountInString(line) < e.lib.Thresholds().RefMinEntryLen {
		return false
	}

	signals := 0
	for _, scheme := range e.lib.RefNumberings() {
		if scheme.Expr.MatchString(line) {
			signals++
			break
		}
	}
	if e.lib.YearExpr().MatchString(line) {
		signals++
	}
	for _, kw := range e.lib.PublicationKeywords() {
		if strings.Contains(line, kw) {
			signals++
			break
		}
	}
	for _, expr := range e.lib.AuthorExprs() {
		if expr.MatchString(line) {
			signals++
			break
		}
	}
	return signals >= 2
}
