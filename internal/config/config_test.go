package config

import (
	"os"
	"path/filepath"
	"testing"
)

func validConfig() Config {
	return Config{
		HTTP:       HTTPConfig{Port: 8080},
		Embedding:  EmbeddingConfig{APIKey: "test-key", Model: "text-embedding-3-small"},
		Generation: GenerationConfig{APIKey: "test-key", Model: "gpt-4o-mini"},
	}
}

func TestValidate_InvalidPort(t *testing.T) {
	cfg := validConfig()
	cfg.HTTP.Port = 0

	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for invalid port")
	}
}

func TestValidate_MissingKeys(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"embedding api key", func(c *Config) { c.Embedding.APIKey = "" }},
		{"embedding model", func(c *Config) { c.Embedding.Model = "" }},
		{"generation api key", func(c *Config) { c.Generation.APIKey = "" }},
		{"generation model", func(c *Config) { c.Generation.Model = "" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := validConfig()
			tt.mutate(&cfg)
			if err := cfg.Validate(); err == nil {
				t.Fatal("expected validation error")
			}
		})
	}
}

func TestValidate_OK(t *testing.T) {
	cfg := validConfig()
	if err := cfg.Validate(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestApplyDefaults(t *testing.T) {
	cfg := Config{}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 10 {
		t.Errorf("expected ReadTimeoutSec=10, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 120 {
		t.Errorf("expected WriteTimeoutSec=120, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.HTTP.ShutdownSec != 10 {
		t.Errorf("expected ShutdownSec=10, got %d", cfg.HTTP.ShutdownSec)
	}
	if cfg.Generation.Temperature != 0.3 {
		t.Errorf("expected Temperature=0.3, got %v", cfg.Generation.Temperature)
	}
	if cfg.Generation.MaxTokens != 1024 {
		t.Errorf("expected MaxTokens=1024, got %d", cfg.Generation.MaxTokens)
	}
	if cfg.Retrieval.TopK != 4 {
		t.Errorf("expected TopK=4, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MinScore != 0.2 {
		t.Errorf("expected MinScore=0.2, got %v", cfg.Retrieval.MinScore)
	}
	if cfg.Prompt.IncludeScore != 0.3 {
		t.Errorf("expected IncludeScore=0.3, got %v", cfg.Prompt.IncludeScore)
	}
	if cfg.Prompt.HistoryWindow != 6 {
		t.Errorf("expected HistoryWindow=6, got %d", cfg.Prompt.HistoryWindow)
	}
	if cfg.Prompt.TemplatePath != filepath.Join("prompts", "system_prompt.txt") {
		t.Errorf("unexpected TemplatePath %q", cfg.Prompt.TemplatePath)
	}
	if cfg.Cache.TTLSec != 3600 {
		t.Errorf("expected Cache.TTLSec=3600, got %d", cfg.Cache.TTLSec)
	}
	if cfg.KnowledgeBase.Dir != filepath.Join("data", "knowledge_base") {
		t.Errorf("unexpected KnowledgeBase.Dir %q", cfg.KnowledgeBase.Dir)
	}
}

func TestApplyDefaults_NoOverride(t *testing.T) {
	cfg := Config{
		HTTP:      HTTPConfig{ReadTimeoutSec: 30, WriteTimeoutSec: 60, ShutdownSec: 5},
		Retrieval: RetrievalConfig{TopK: 8, MinScore: 0.5},
		Prompt:    PromptConfig{IncludeScore: 0.6, HistoryWindow: 2},
	}
	cfg.ApplyDefaults()

	if cfg.HTTP.ReadTimeoutSec != 30 {
		t.Errorf("expected ReadTimeoutSec=30, got %d", cfg.HTTP.ReadTimeoutSec)
	}
	if cfg.HTTP.WriteTimeoutSec != 60 {
		t.Errorf("expected WriteTimeoutSec=60, got %d", cfg.HTTP.WriteTimeoutSec)
	}
	if cfg.Retrieval.TopK != 8 {
		t.Errorf("expected TopK=8, got %d", cfg.Retrieval.TopK)
	}
	if cfg.Retrieval.MinScore != 0.5 {
		t.Errorf("expected MinScore=0.5, got %v", cfg.Retrieval.MinScore)
	}
	if cfg.Prompt.HistoryWindow != 2 {
		t.Errorf("expected HistoryWindow=2, got %d", cfg.Prompt.HistoryWindow)
	}
}

func TestExpandEnvVars(t *testing.T) {
	os.Setenv("SUPPORTAI_TEST_KEY", "sk-abc")
	defer os.Unsetenv("SUPPORTAI_TEST_KEY")

	in := []byte("api_key: ${SUPPORTAI_TEST_KEY}\nmodel: ${SUPPORTAI_TEST_MODEL:-gpt-4o-mini}\n")
	got := string(expandEnvVars(in))
	want := "api_key: sk-abc\nmodel: gpt-4o-mini\n"
	if got != want {
		t.Errorf("expandEnvVars:\ngot:  %q\nwant: %q", got, want)
	}
}
