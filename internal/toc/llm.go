package toc

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/santhosh-tekuri/jsonschema/v5"

	"github.com/papyrus-labs/quire/internal/patterns"
	"github.com/papyrus-labs/quire/internal/providers"
)

// outlineSchema validates the batch classification reply. The model is
// asked for every level, not just chapters: level-1 items are undercounted
// when requested directly.
var outlineSchema = func() *jsonschema.Schema {
	s, err := providers.CompileSchema("outline.json", []byte(`{
		"type": "array",
		"items": {
			"type": "object",
			"required": ["index", "title", "level"],
			"properties": {
				"index": {"type": "integer", "minimum": 0},
				"title": {"type": "string"},
				"level": {"type": "integer", "minimum": 1, "maximum": 4},
				"type": {"type": "string"}
			}
		}
	}`))
	if err != nil {
		panic(err)
	}
	return s
}()

type outlineItem struct {
	Index int    `json:"index"`
	Title string `json:"title"`
	Level int    `json:"level"`
	Type  string `json:"type"`
}

const outlineSystemPrompt = `你是学位论文结构分析助手。给定从文档导航书签提取的条目文本，` +
	`判断每个条目的目录层级和类型。返回 JSON 数组，每个元素形如 ` +
	`{"index": 条目序号, "title": "清理后的标题", "level": 层级, "type": "类型"}。` +
	`type 取值: chapter, subsection, abstract_cn, abstract_en, toc, introduction, ` +
	`conclusion, references, acknowledgement, achievements, author_profile, appendix, ` +
	`declaration, copyright, unknown。返回所有层级的条目，不要只返回第一层。只输出 JSON。`

// classifyBatch submits all anchor texts as one prompt and keeps the
// level-1 entries of the reply as the canonical chapter-level outline.
func (r *Reconstructor) classifyBatch(ctx context.Context, texts []string, positions []int) ([]Entry, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	var b strings.Builder
	for i, t := range texts {
		fmt.Fprintf(&b, "%d. %s\n", i, t)
	}

	result, err := r.client.Chat(ctx, &providers.ChatRequest{
		Messages: []providers.Message{
			{Role: "system", Content: outlineSystemPrompt},
			{Role: "user", Content: b.String()},
		},
		Temperature: 0.1,
	})
	if err != nil {
		return nil, fmt.Errorf("outline classification: %w", err)
	}
	if len(result.ParsedJSON) == 0 {
		return nil, fmt.Errorf("outline reply is not JSON")
	}
	if err := providers.ValidateJSON(outlineSchema, result.ParsedJSON); err != nil {
		return nil, err
	}

	var items []outlineItem
	if err := json.Unmarshal(result.ParsedJSON, &items); err != nil {
		return nil, fmt.Errorf("decode outline reply: %w", err)
	}

	var entries []Entry
	for _, it := range items {
		if it.Level != 1 {
			continue
		}
		if it.Index < 0 || it.Index >= len(positions) {
			continue
		}
		title := strings.TrimSpace(it.Title)
		if title == "" {
			continue
		}
		entries = append(entries, Entry{
			Level:       1,
			Title:       title,
			SectionType: sectionTypeFrom(it.Type),
			Confidence:  0.9,
			Position:    positions[it.Index],
		})
	}
	if len(entries) == 0 {
		return nil, fmt.Errorf("outline reply contained no level-1 entries")
	}
	return entries, nil
}

var knownSectionTypes = map[string]patterns.SectionType{
	string(patterns.SectionChapter):         patterns.SectionChapter,
	string(patterns.SectionSubsection):      patterns.SectionSubsection,
	string(patterns.SectionAbstractCN):      patterns.SectionAbstractCN,
	string(patterns.SectionAbstractEN):      patterns.SectionAbstractEN,
	string(patterns.SectionTOC):             patterns.SectionTOC,
	string(patterns.SectionIntroduction):    patterns.SectionIntroduction,
	string(patterns.SectionConclusion):      patterns.SectionConclusion,
	string(patterns.SectionReferences):      patterns.SectionReferences,
	string(patterns.SectionAcknowledgement): patterns.SectionAcknowledgement,
	string(patterns.SectionAchievements):    patterns.SectionAchievements,
	string(patterns.SectionAuthorProfile):   patterns.SectionAuthorProfile,
	string(patterns.SectionAppendix):        patterns.SectionAppendix,
	string(patterns.SectionDeclaration):     patterns.SectionDeclaration,
	string(patterns.SectionCopyright):       patterns.SectionCopyright,
}

func sectionTypeFrom(s string) patterns.SectionType {
	if t, ok := knownSectionTypes[strings.ToLower(strings.TrimSpace(s))]; ok {
		return t
	}
	return patterns.SectionUnknown
}
