package analysis

import (
	"encoding/json"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/papyrus-labs/quire/internal/boundary"
	"github.com/papyrus-labs/quire/internal/patterns"
)

// sectionFocus customizes what the model is asked to weigh per section type.
var sectionFocus = map[patterns.SectionType]string{
	patterns.SectionAbstractCN:   "摘要的完整性、核心内容概括、研究价值",
	patterns.SectionAbstractEN:   "英文摘要的语言质量、与中文摘要的一致性",
	patterns.SectionIntroduction: "研究背景、问题提出、研究意义和创新点",
	patterns.SectionLiterature:   "文献综述的全面性、批判性分析、研究空白识别",
	patterns.SectionMethodology:  "研究方法的科学性、可行性、创新性",
	patterns.SectionResults:      "实验结果的完整性、数据分析的深度",
	patterns.SectionConclusion:   "结论的逻辑性、研究贡献的总结、未来展望",
	patterns.SectionReferences:   "参考文献的质量、数量、时效性和权威性",
}

const defaultFocus = "内容的学术质量和结构合理性"

// promptContentBudget caps how much section content goes into a prompt.
const promptContentBudget = 2000

func buildSectionPrompt(sec boundary.Section) string {
	focus, ok := sectionFocus[sec.Type]
	if !ok {
		focus = defaultFocus
	}

	content := sec.Content
	truncated := ""
	if utf8.RuneCountInString(content) > promptContentBudget {
		runes := []rune(content)
		content = string(runes[:promptContentBudget])
		truncated = "..."
	}

	return fmt.Sprintf(`请分析以下论文章节内容，重点关注%s：

章节类型：%s
章节标题：%s
内容长度：%d字符

章节内容：
%s%s

请从以下几个维度进行分析：
1. 内容质量 (1-10分)：学术性、逻辑性、完整性
2. 结构合理性 (1-10分)：组织结构、层次清晰度
3. 学术价值 (1-10分)：创新性、实用性、理论贡献
4. 语言表达 (1-10分)：准确性、流畅性、规范性
5. 主要优点：列举2-3个优点
6. 改进建议：提出2-3个具体建议
7. 核心内容摘要：用100字以内概括主要内容

请以JSON格式返回分析结果，字段名使用 content_quality_score, structure_score,
academic_value_score, language_score, overall_score, strengths,
improvement_suggestions, summary。`,
		focus, sec.Type, sec.Title, utf8.RuneCountInString(sec.Content), content, truncated)
}

// sectionDigest is the per-section summary handed to the structure
// evaluation prompt.
type sectionDigest struct {
	Section    patterns.SectionType `json:"section"`
	Title      string               `json:"title"`
	Length     int                  `json:"length"`
	Confidence float64              `json:"confidence"`
}

func buildStructurePrompt(sections map[patterns.SectionType]boundary.Section) string {
	digests := make([]sectionDigest, 0, len(sections))
	for _, s := range boundary.Ordered(sections) {
		digests = append(digests, sectionDigest{
			Section:    s.Type,
			Title:      s.Title,
			Length:     utf8.RuneCountInString(s.Content),
			Confidence: s.Confidence,
		})
	}
	body, _ := json.MarshalIndent(digests, "", "  ")

	return fmt.Sprintf(`请评估以下论文的整体结构：

文档章节结构：
%s

请从以下维度评估：
1. 结构完整性 (1-10分)：是否包含必要的章节
2. 逻辑顺序 (1-10分)：章节排列是否合理
3. 章节平衡性 (1-10分)：各章节长度是否适当
4. 学术规范性 (1-10分)：是否符合学术论文标准

请以JSON格式返回评估结果，字段名使用 structure_completeness, logical_order,
section_balance, academic_standard, overall_structure_score, recommendations。`, body)
}

// qualityKeySections are the sections whose content feeds the academic
// quality assessment.
var qualityKeySections = []patterns.SectionType{
	patterns.SectionAbstractCN,
	patterns.SectionIntroduction,
	patterns.SectionMethodology,
	patterns.SectionConclusion,
}

const qualityContentBudget = 500

func buildQualityPrompt(sections map[patterns.SectionType]boundary.Section) string {
	key := make(map[string]string, len(qualityKeySections))
	for _, typ := range qualityKeySections {
		s, ok := sections[typ]
		if !ok {
			continue
		}
		content := s.Content
		if utf8.RuneCountInString(content) > qualityContentBudget {
			content = string([]rune(content)[:qualityContentBudget])
		}
		key[string(typ)] = content
	}
	body, _ := json.MarshalIndent(key, "", "  ")

	var b strings.Builder
	fmt.Fprintf(&b, `基于以下论文关键章节内容，评估其学术质量：

%s

请评估以下方面：
1. 研究创新性 (1-10分)
2. 方法科学性 (1-10分)
3. 论证充分性 (1-10分)
4. 实用价值 (1-10分)
5. 学术规范性 (1-10分)

请以JSON格式返回评估结果，字段名使用 innovation_score, methodology_score,
argumentation_score, practical_value_score, academic_standard_score,
overall_quality_score。`, body)
	return b.String()
}
