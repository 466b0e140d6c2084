// Package extract orchestrates the full pipeline: boundary detection,
// outline reconstruction, reference extraction, front-matter metadata,
// model-backed section analysis, and the final quality gate. The output
// is a Record carrying the canonical field set; every key is always
// present, degraded or not.
package extract

import (
	"github.com/papyrus-labs/quire/internal/analysis"
	"github.com/papyrus-labs/quire/internal/patterns"
	"github.com/papyrus-labs/quire/internal/references"
	"github.com/papyrus-labs/quire/internal/toc"
)

// Record is the assembled extraction result. Scalar fields default to ""
// and list fields to empty slices, never to absent keys, so consumers do
// not branch on key presence.
type Record struct {
	ThesisNumber   string `json:"thesis_number" yaml:"thesis_number"`
	TitleCN        string `json:"title_cn" yaml:"title_cn"`
	AuthorCN       string `json:"author_cn" yaml:"author_cn"`
	TitleEN        string `json:"title_en" yaml:"title_en"`
	AuthorEN       string `json:"author_en" yaml:"author_en"`
	UniversityCN   string `json:"university_cn" yaml:"university_cn"`
	UniversityEN   string `json:"university_en" yaml:"university_en"`
	DegreeLevel    string `json:"degree_level" yaml:"degree_level"`
	MajorCN        string `json:"major_cn" yaml:"major_cn"`
	College        string `json:"college" yaml:"college"`
	SupervisorCN   string `json:"supervisor_cn" yaml:"supervisor_cn"`
	SupervisorEN   string `json:"supervisor_en" yaml:"supervisor_en"`
	DefenseDate    string `json:"defense_date" yaml:"defense_date"`
	SubmissionDate string `json:"submission_date" yaml:"submission_date"`

	AbstractCN string   `json:"abstract_cn" yaml:"abstract_cn"`
	AbstractEN string   `json:"abstract_en" yaml:"abstract_en"`
	KeywordsCN []string `json:"keywords_cn" yaml:"keywords_cn"`
	KeywordsEN []string `json:"keywords_en" yaml:"keywords_en"`

	TheoreticalFramework string   `json:"theoretical_framework" yaml:"theoretical_framework"`
	Acknowledgement      string   `json:"acknowledgement" yaml:"acknowledgement"`
	References           []string `json:"references" yaml:"references"`
	AuthorContributions  string   `json:"author_contributions" yaml:"author_contributions"`

	TableOfContents []toc.Entry                                      `json:"table_of_contents" yaml:"table_of_contents"`
	Sections        map[patterns.SectionType]*analysis.SectionAnalysis `json:"section_analyses" yaml:"section_analyses"`
	Evaluation      analysis.Evaluation                              `json:"evaluation" yaml:"evaluation"`

	ReferenceStats references.Stats `json:"reference_stats" yaml:"reference_stats"`
	Quality        QualityRecord    `json:"quality" yaml:"quality"`
}

// QualityRecord summarizes how trustworthy the record is. Confidence is
// the filled share of the canonical field set; Degraded and Warnings come
// from the metadata gate.
type QualityRecord struct {
	Confidence          float64  `json:"confidence" yaml:"confidence"`
	ExtractedFieldCount int      `json:"extracted_field_count" yaml:"extracted_field_count"`
	TotalFieldCount     int      `json:"total_field_count" yaml:"total_field_count"`
	ProcessingTimeMS    int64    `json:"processing_time_ms" yaml:"processing_time_ms"`
	Degraded            bool     `json:"degraded" yaml:"degraded"`
	Warnings            []string `json:"warnings" yaml:"warnings"`
}

// NewRecord returns a record with every list field initialized, so a
// marshal of an untouched record still emits the full key set.
func NewRecord() *Record {
	return &Record{
		KeywordsCN:      []string{},
		KeywordsEN:      []string{},
		References:      []string{},
		TableOfContents: []toc.Entry{},
		Sections:        map[patterns.SectionType]*analysis.SectionAnalysis{},
		Quality:         QualityRecord{Warnings: []string{}},
	}
}

// gatedFields are the cover-page scalars the quality gate scores. Body
// fields (abstracts, keywords, references) are validated by their own
// extractors instead.
var gatedFields = []string{
	"thesis_number",
	"title_cn", "author_cn",
	"title_en", "author_en",
	"university_cn", "university_en",
	"degree_level", "major_cn", "college",
	"supervisor_cn", "supervisor_en",
	"defense_date", "submission_date",
}

// scalarSlots maps gated field names onto the record's fields.
func (r *Record) scalarSlots() map[string]*string {
	return map[string]*string{
		"thesis_number":   &r.ThesisNumber,
		"title_cn":        &r.TitleCN,
		"author_cn":       &r.AuthorCN,
		"title_en":        &r.TitleEN,
		"author_en":       &r.AuthorEN,
		"university_cn":   &r.UniversityCN,
		"university_en":   &r.UniversityEN,
		"degree_level":    &r.DegreeLevel,
		"major_cn":        &r.MajorCN,
		"college":         &r.College,
		"supervisor_cn":   &r.SupervisorCN,
		"supervisor_en":   &r.SupervisorEN,
		"defense_date":    &r.DefenseDate,
		"submission_date": &r.SubmissionDate,
	}
}

// countFilled tallies the canonical fields holding a non-empty value.
// The total is fixed at the schema's 22 fields.
func (r *Record) countFilled() (filled, total int) {
	scalars := []string{
		r.ThesisNumber, r.TitleCN, r.AuthorCN, r.TitleEN, r.AuthorEN,
		r.UniversityCN, r.UniversityEN, r.DegreeLevel, r.MajorCN, r.College,
		r.SupervisorCN, r.SupervisorEN, r.DefenseDate, r.SubmissionDate,
		r.AbstractCN, r.AbstractEN,
		r.TheoreticalFramework, r.Acknowledgement, r.AuthorContributions,
	}
	for _, s := range scalars {
		if s != "" {
			filled++
		}
	}
	for _, l := range [][]string{r.KeywordsCN, r.KeywordsEN, r.References} {
		if len(l) > 0 {
			filled++
		}
	}
	return filled, len(scalars) + 3
}
