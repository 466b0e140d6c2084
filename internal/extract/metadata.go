package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/papyrus-labs/quire/internal/providers"
	"github.com/papyrus-labs/quire/internal/quality"
)

// coverEndExpr marks where front matter ends and the document body
// begins. Everything before the first match is the cover span.
var coverEndExpr = regexp.MustCompile(`摘\s*要|ABSTRACT|Abstract|独创性声明|原创性声明|学位论文版权|目\s*录`)

// keywordSepExpr splits a keyword line into individual terms.
var keywordSepExpr = regexp.MustCompile(`[,，;；、\s]+`)

// abstractLabelExpr strips a leaked heading from the front of an
// abstract span.
var abstractLabelExpr = regexp.MustCompile(`^(?:摘\s*要|ABSTRACT|Abstract)[：:\s]*`)

// valueLabelExpr strips a field label the pattern over-captured along
// with its value.
var valueLabelExpr = regexp.MustCompile(`^(?:论文)?(?:题目|标题|姓名|作者|导师|专业|学院)[：:\s]*`)

// placeholders are model replies that mean "not found".
var placeholders = map[string]bool{
	"未知": true, "无": true, "暂无": true,
	"n/a": true, "na": true, "null": true, "none": true, "unknown": true,
}

// coverSpan returns the front-matter text the metadata patterns run
// over. Without a recognizable body marker the first tenth of the text
// is used.
func coverSpan(text string) string {
	if loc := coverEndExpr.FindStringIndex(text); loc != nil && loc[0] > 0 {
		return text[:loc[0]]
	}
	runes := []rune(text)
	n := len(runes) / 10
	if n < 500 {
		n = min(500, len(runes))
	}
	return string(runes[:n])
}

// extractMetadata fills the gated cover fields: pattern pass first, then
// a model pass for whatever the patterns missed.
func (p *Pipeline) extractMetadata(ctx context.Context, text string) map[string]string {
	span := coverSpan(text)

	meta := make(map[string]string, len(gatedFields))
	for _, field := range gatedFields {
		v, ok := p.lib.MetaField(field, span)
		if !ok {
			meta[field] = ""
			continue
		}
		meta[field] = cleanValue(v)
	}

	missing := 0
	for _, field := range gatedFields {
		if meta[field] == "" {
			missing++
		}
	}
	if missing > 0 && p.client != nil {
		filled, err := p.coverFromModel(ctx, span)
		if err != nil {
			p.logger.Warn("model cover extraction failed", "error", err)
			return meta
		}
		for _, field := range gatedFields {
			if meta[field] == "" {
				meta[field] = filled[field]
			}
		}
	}
	return meta
}

const coverSystemPrompt = `你是学位论文封面信息提取助手。从给出的封面文本中提取元数据。
只返回一个JSON对象，键为字段名，值为提取到的字符串；提取不到的字段返回空字符串""，不要编造。
不要输出JSON以外的任何内容。`

// coverFromModel asks the backend for the cover scalars in a fixed JSON
// shape and cleans each returned value through the same normalization as
// the pattern path.
func (p *Pipeline) coverFromModel(ctx context.Context, span string) (map[string]string, error) {
	prompt := fmt.Sprintf("需要的字段：%s\n\n封面文本：\n%s",
		strings.Join(gatedFields, ", "), capSpan(span, coverPromptBudget))

	callCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	result, err := p.client.Chat(callCtx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: coverSystemPrompt},
			{Role: "user", Content: prompt},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, err
	}

	raw := result.ParsedJSON
	if len(raw) == 0 {
		extracted, ok := providers.ExtractJSON(result.Content)
		if !ok {
			return nil, fmt.Errorf("cover reply is not JSON")
		}
		raw = extracted
	}

	var fields map[string]any
	if err := json.Unmarshal(raw, &fields); err != nil {
		return nil, fmt.Errorf("decode cover reply: %w", err)
	}

	out := make(map[string]string, len(fields))
	for k, v := range fields {
		s, ok := v.(string)
		if !ok {
			continue
		}
		out[k] = cleanValue(s)
	}
	return out, nil
}

// coverPromptBudget caps the cover excerpt sent to the model, in runes.
const coverPromptBudget = 3000

// frameworkBudget caps the theory-chapter excerpt stored as the
// theoretical framework, in runes.
const frameworkBudget = 2000

func capSpan(s string, budget int) string {
	runes := []rune(s)
	if len(runes) <= budget {
		return s
	}
	return string(runes[:budget])
}

// cleanValue normalizes one extracted field value: control characters
// and runs of whitespace collapse, wrapping quotes and leaked labels are
// stripped, and placeholder replies become empty.
func cleanValue(v string) string {
	v = quality.Clean(v)
	v = strings.Trim(v, `"'“”「」`)
	v = valueLabelExpr.ReplaceAllString(v, "")
	v = strings.TrimSpace(v)
	if placeholders[strings.ToLower(v)] {
		return ""
	}
	return v
}

// splitKeywords turns a keyword line into individual terms.
func splitKeywords(line string) []string {
	parts := keywordSepExpr.Split(strings.TrimSpace(line), -1)
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

// cleanAbstract strips a leaked heading and normalizes whitespace.
func cleanAbstract(s string) string {
	return quality.Clean(abstractLabelExpr.ReplaceAllString(strings.TrimSpace(s), ""))
}
