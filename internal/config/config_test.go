package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	if cfg.Defaults.LLMProvider != "openrouter" {
		t.Errorf("LLMProvider = %q", cfg.Defaults.LLMProvider)
	}
	if cfg.Defaults.MaxSectionWorkers != 4 || cfg.Defaults.MaxEvalWorkers != 2 {
		t.Errorf("worker bounds = %d/%d",
			cfg.Defaults.MaxSectionWorkers, cfg.Defaults.MaxEvalWorkers)
	}
	if cfg.Quality.DegradeBelow != 0.4 {
		t.Errorf("DegradeBelow = %v", cfg.Quality.DegradeBelow)
	}
	if _, ok := cfg.LLMProviders["openrouter"]; !ok {
		t.Error("openrouter provider missing from defaults")
	}
}

func TestPatternThresholds(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Thresholds.AbstractMinLen = 77

	th := cfg.PatternThresholds()
	if th.AbstractMinLen != 77 {
		t.Errorf("AbstractMinLen = %d, want 77", th.AbstractMinLen)
	}
	if th.RefNumberCeiling != cfg.Thresholds.RefNumberCeiling {
		t.Errorf("RefNumberCeiling = %d", th.RefNumberCeiling)
	}
}

func TestProviderRegistry(t *testing.T) {
	t.Setenv("QUIRE_TEST_KEY", "sk-resolved")

	cfg := DefaultConfig()
	cfg.LLMProviders = map[string]LLMProviderCfg{
		"primary": {
			Type:           "openrouter",
			Model:          "test-model",
			APIKey:         "${QUIRE_TEST_KEY}",
			Enabled:        true,
			MaxRetries:     2,
			TimeoutSeconds: 30,
		},
	}

	rc := cfg.ProviderRegistry()
	p, ok := rc.LLMProviders["primary"]
	if !ok {
		t.Fatal("primary provider missing")
	}
	if p.APIKey != "sk-resolved" {
		t.Errorf("APIKey = %q, env reference not resolved", p.APIKey)
	}
	if p.Timeout != 30*time.Second {
		t.Errorf("Timeout = %v", p.Timeout)
	}
}

func TestResolveEnvVars(t *testing.T) {
	t.Setenv("QUIRE_RESOLVE_A", "aaa")

	cases := []struct {
		in, want string
	}{
		{"${QUIRE_RESOLVE_A}", "aaa"},
		{"prefix-${QUIRE_RESOLVE_A}", "prefix-aaa"},
		{"${QUIRE_RESOLVE_MISSING}", ""},
		{"plain", "plain"},
		{"", ""},
	}
	for _, c := range cases {
		if got := ResolveEnvVars(c.in); got != c.want {
			t.Errorf("ResolveEnvVars(%q) = %q, want %q", c.in, got, c.want)
		}
	}
}

func TestWriteDefaultAndLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := WriteDefault(path); err != nil {
		t.Fatalf("WriteDefault() error = %v", err)
	}

	raw, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back: %v", err)
	}
	if !strings.Contains(string(raw), "llm_providers") {
		t.Errorf("written config lacks provider section:\n%s", raw)
	}

	cm, err := NewManager(path)
	if err != nil {
		t.Fatalf("NewManager() error = %v", err)
	}
	cfg := cm.Get()
	if cfg.Defaults.MaxSectionWorkers != 4 {
		t.Errorf("MaxSectionWorkers = %d after round trip", cfg.Defaults.MaxSectionWorkers)
	}
	if cfg.Quality.DegradeBelow != 0.4 {
		t.Errorf("DegradeBelow = %v after round trip", cfg.Quality.DegradeBelow)
	}
}
