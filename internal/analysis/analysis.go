// Package analysis enriches detected sections with model judgments: a
// per-section quality analysis plus document-level structure and academic
// quality evaluations. All model calls run under a bounded worker pool
// with per-task timeouts; one failed section never aborts the rest.
package analysis

import (
	"log/slog"
	"time"

	"github.com/papyrus-labs/quire/internal/providers"
)

// SectionAnalysis is the model's judgment of one section. Scores use a
// 1-10 scale.
type SectionAnalysis struct {
	ContentQualityScore int      `json:"content_quality_score" yaml:"content_quality_score"`
	StructureScore      int      `json:"structure_score" yaml:"structure_score"`
	AcademicValueScore  int      `json:"academic_value_score" yaml:"academic_value_score"`
	LanguageScore       int      `json:"language_score" yaml:"language_score"`
	OverallScore        float64  `json:"overall_score" yaml:"overall_score"`
	Strengths           []string `json:"strengths" yaml:"strengths"`
	Suggestions         []string `json:"improvement_suggestions" yaml:"improvement_suggestions"`
	Summary             string   `json:"summary" yaml:"summary"`
}

// StructureEvaluation scores the document's overall section structure.
type StructureEvaluation struct {
	Completeness     int      `json:"structure_completeness" yaml:"structure_completeness"`
	LogicalOrder     int      `json:"logical_order" yaml:"logical_order"`
	SectionBalance   int      `json:"section_balance" yaml:"section_balance"`
	AcademicStandard int      `json:"academic_standard" yaml:"academic_standard"`
	OverallScore     float64  `json:"overall_structure_score" yaml:"overall_structure_score"`
	Recommendations  []string `json:"recommendations" yaml:"recommendations"`
}

// QualityAssessment scores the document's academic quality from its key
// sections.
type QualityAssessment struct {
	InnovationScore       int     `json:"innovation_score" yaml:"innovation_score"`
	MethodologyScore      int     `json:"methodology_score" yaml:"methodology_score"`
	ArgumentationScore    int     `json:"argumentation_score" yaml:"argumentation_score"`
	PracticalValueScore   int     `json:"practical_value_score" yaml:"practical_value_score"`
	AcademicStandardScore int     `json:"academic_standard_score" yaml:"academic_standard_score"`
	OverallScore          float64 `json:"overall_quality_score" yaml:"overall_quality_score"`
}

// Config bounds the concurrency and timeouts of a scheduler.
type Config struct {
	MaxSectionWorkers int
	MaxEvalWorkers    int
	SectionTimeout    time.Duration
	EvalTimeout       time.Duration
}

// DefaultConfig returns the production bounds.
func DefaultConfig() Config {
	return Config{
		MaxSectionWorkers: 4,
		MaxEvalWorkers:    2,
		SectionTimeout:    60 * time.Second,
		EvalTimeout:       45 * time.Second,
	}
}

// Scheduler runs analysis tasks against a model client.
type Scheduler struct {
	client providers.LLMClient
	cfg    Config
	logger *slog.Logger
}

// NewScheduler creates a scheduler. Zero config fields fall back to the
// defaults.
func NewScheduler(client providers.LLMClient, cfg Config, logger *slog.Logger) *Scheduler {
	def := DefaultConfig()
	if cfg.MaxSectionWorkers <= 0 {
		cfg.MaxSectionWorkers = def.MaxSectionWorkers
	}
	if cfg.MaxEvalWorkers <= 0 {
		cfg.MaxEvalWorkers = def.MaxEvalWorkers
	}
	if cfg.SectionTimeout <= 0 {
		cfg.SectionTimeout = def.SectionTimeout
	}
	if cfg.EvalTimeout <= 0 {
		cfg.EvalTimeout = def.EvalTimeout
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &Scheduler{client: client, cfg: cfg, logger: logger}
}
