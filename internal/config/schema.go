package config

import (
	"time"

	"github.com/papyrus-labs/quire/internal/patterns"
	"github.com/papyrus-labs/quire/internal/providers"
)

// Config holds quire configuration.
// Loaded from ./config.yaml or ~/.quire/config.yaml.
type Config struct {
	LLMProviders map[string]LLMProviderCfg `mapstructure:"llm_providers" yaml:"llm_providers"`
	Defaults     DefaultsCfg               `mapstructure:"defaults" yaml:"defaults"`
	Thresholds   ThresholdsCfg             `mapstructure:"thresholds" yaml:"thresholds"`
	Quality      QualityCfg                `mapstructure:"quality" yaml:"quality"`
}

// LLMProviderCfg configures an LLM provider.
type LLMProviderCfg struct {
	Type    string `mapstructure:"type" yaml:"type"`       // "openrouter", "openai"
	Model   string `mapstructure:"model" yaml:"model"`     // model name
	APIKey  string `mapstructure:"api_key" yaml:"api_key"` // supports ${ENV_VAR} syntax
	BaseURL string `mapstructure:"base_url" yaml:"base_url,omitempty"`
	Enabled bool   `mapstructure:"enabled" yaml:"enabled"`

	MaxRetries     int `mapstructure:"max_retries" yaml:"max_retries"`
	TimeoutSeconds int `mapstructure:"timeout_seconds" yaml:"timeout_seconds"`
}

// DefaultsCfg specifies default provider and scheduling selections.
type DefaultsCfg struct {
	LLMProvider string `mapstructure:"llm_provider" yaml:"llm_provider"` // default LLM provider name

	// MaxSectionWorkers bounds the section-analysis pool; the effective
	// pool size is min(MaxSectionWorkers, task count).
	MaxSectionWorkers int `mapstructure:"max_section_workers" yaml:"max_section_workers"`

	// MaxEvalWorkers bounds the whole-document evaluation pool.
	MaxEvalWorkers int `mapstructure:"max_eval_workers" yaml:"max_eval_workers"`

	// SectionTimeoutSeconds is the per-task deadline for section analysis.
	SectionTimeoutSeconds int `mapstructure:"section_timeout_seconds" yaml:"section_timeout_seconds"`

	// EvalTimeoutSeconds is the per-task deadline for evaluation axes.
	EvalTimeoutSeconds int `mapstructure:"eval_timeout_seconds" yaml:"eval_timeout_seconds"`
}

// ThresholdsCfg exposes the empirically tuned extraction constants.
// Tuned against a mixed Chinese/English thesis corpus; revalidate before
// trusting exact values on a different corpus.
type ThresholdsCfg struct {
	AbstractMinLen   int `mapstructure:"abstract_min_len" yaml:"abstract_min_len"`
	AbstractMaxLen   int `mapstructure:"abstract_max_len" yaml:"abstract_max_len"`
	ConclusionMinLen int `mapstructure:"conclusion_min_len" yaml:"conclusion_min_len"`
	SectionMinLen    int `mapstructure:"section_min_len" yaml:"section_min_len"`
	TitleMaxLen      int `mapstructure:"title_max_len" yaml:"title_max_len"`

	RefMinEntryLen   int `mapstructure:"ref_min_entry_len" yaml:"ref_min_entry_len"`
	RefNumberCeiling int `mapstructure:"ref_number_ceiling" yaml:"ref_number_ceiling"`
	RefJumpTolerance int `mapstructure:"ref_jump_tolerance" yaml:"ref_jump_tolerance"`
	RefMinYield      int `mapstructure:"ref_min_yield" yaml:"ref_min_yield"`

	AnchorWindow     int `mapstructure:"anchor_window" yaml:"anchor_window"`
	AnchorTextBudget int `mapstructure:"anchor_text_budget" yaml:"anchor_text_budget"`
	AnchorTruncateCN int `mapstructure:"anchor_truncate_cn" yaml:"anchor_truncate_cn"`
	AnchorTruncateEN int `mapstructure:"anchor_truncate_en" yaml:"anchor_truncate_en"`
}

// QualityCfg configures the quality gate.
type QualityCfg struct {
	// DegradeBelow is the aggregate confidence under which the gate
	// substitutes safe defaults for unreliable fields.
	DegradeBelow float64 `mapstructure:"degrade_below" yaml:"degrade_below"`
}

// DefaultConfig returns configuration with sensible defaults.
func DefaultConfig() *Config {
	t := patterns.DefaultThresholds()
	return &Config{
		LLMProviders: map[string]LLMProviderCfg{
			"openrouter": {
				Type:           "openrouter",
				Model:          "anthropic/claude-sonnet-4.5",
				APIKey:         "${OPENROUTER_API_KEY}",
				Enabled:        true,
				MaxRetries:     3,
				TimeoutSeconds: 60,
			},
			"openai": {
				Type:           "openai",
				Model:          "gpt-4o-mini",
				APIKey:         "${OPENAI_API_KEY}",
				Enabled:        false,
				MaxRetries:     3,
				TimeoutSeconds: 60,
			},
		},
		Defaults: DefaultsCfg{
			LLMProvider:           "openrouter",
			MaxSectionWorkers:     4,
			MaxEvalWorkers:        2,
			SectionTimeoutSeconds: 60,
			EvalTimeoutSeconds:    45,
		},
		Thresholds: ThresholdsCfg{
			AbstractMinLen:   t.AbstractMinLen,
			AbstractMaxLen:   t.AbstractMaxLen,
			ConclusionMinLen: t.ConclusionMinLen,
			SectionMinLen:    t.SectionMinLen,
			TitleMaxLen:      t.TitleMaxLen,
			RefMinEntryLen:   t.RefMinEntryLen,
			RefNumberCeiling: t.RefNumberCeiling,
			RefJumpTolerance: t.RefJumpTolerance,
			RefMinYield:      t.RefMinYield,
			AnchorWindow:     t.AnchorWindow,
			AnchorTextBudget: t.AnchorTextBudget,
			AnchorTruncateCN: t.AnchorTruncateCN,
			AnchorTruncateEN: t.AnchorTruncateEN,
		},
		Quality: QualityCfg{
			DegradeBelow: 0.4,
		},
	}
}

// PatternThresholds converts the configured thresholds into the immutable
// form the pattern library is built from.
func (c *Config) PatternThresholds() patterns.Thresholds {
	return patterns.Thresholds{
		AbstractMinLen:   c.Thresholds.AbstractMinLen,
		AbstractMaxLen:   c.Thresholds.AbstractMaxLen,
		ConclusionMinLen: c.Thresholds.ConclusionMinLen,
		SectionMinLen:    c.Thresholds.SectionMinLen,
		TitleMaxLen:      c.Thresholds.TitleMaxLen,
		RefMinEntryLen:   c.Thresholds.RefMinEntryLen,
		RefNumberCeiling: c.Thresholds.RefNumberCeiling,
		RefJumpTolerance: c.Thresholds.RefJumpTolerance,
		RefMinYield:      c.Thresholds.RefMinYield,
		AnchorWindow:     c.Thresholds.AnchorWindow,
		AnchorTextBudget: c.Thresholds.AnchorTextBudget,
		AnchorTruncateCN: c.Thresholds.AnchorTruncateCN,
		AnchorTruncateEN: c.Thresholds.AnchorTruncateEN,
	}
}

// ProviderRegistry converts the configured providers into the registry's
// wiring form, resolving ${ENV_VAR} references in API keys.
func (c *Config) ProviderRegistry() providers.RegistryConfig {
	out := providers.RegistryConfig{
		LLMProviders: make(map[string]providers.LLMProviderConfig, len(c.LLMProviders)),
	}
	for name, p := range c.LLMProviders {
		out.LLMProviders[name] = providers.LLMProviderConfig{
			Type:       p.Type,
			Model:      p.Model,
			APIKey:     ResolveEnvVars(p.APIKey),
			BaseURL:    p.BaseURL,
			MaxRetries: p.MaxRetries,
			Timeout:    time.Duration(p.TimeoutSeconds) * time.Second,
			Enabled:    p.Enabled,
		}
	}
	return out
}
