package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadOrCreate_WritesDefaultFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}

	if cfg.OpenAI.Model != "gpt-3.5-turbo" {
		t.Errorf("default model mismatch: %q", cfg.OpenAI.Model)
	}

	if cfg.RateLimit.PlanPerMinute != 10 {
		t.Errorf("default plan rate limit mismatch: %d", cfg.RateLimit.PlanPerMinute)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("default config file was not written: %v", err)
	}

	if !strings.Contains(string(data), "max_response_tokens") {
		t.Error("written config is missing openai settings")
	}
}

func TestLoadOrCreate_ReadsExistingFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.toml")

	content := "bind = \":9100\"\n\n[openai]\nmodel = \"gpt-4o-mini\"\nmax_response_tokens = 800\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	cfg, err := LoadOrCreate(path)
	if err != nil {
		t.Fatalf("LoadOrCreate failed: %v", err)
	}

	if cfg.Bind != ":9100" {
		t.Errorf("bind mismatch: %q", cfg.Bind)
	}

	if cfg.OpenAI.Model != "gpt-4o-mini" {
		t.Errorf("model mismatch: %q", cfg.OpenAI.Model)
	}

	if cfg.OpenAI.MaxResponseTokens != 800 {
		t.Errorf("max_response_tokens mismatch: %d", cfg.OpenAI.MaxResponseTokens)
	}

	// Values absent from the file keep their defaults.
	if cfg.Validation.MinQuestionLength != 10 {
		t.Errorf("min_question_length default lost: %d", cfg.Validation.MinQuestionLength)
	}
}

func TestValidate(t *testing.T) {
	base := Default()
	base.OpenAI.APIKey = "sk-test"

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "valid", mutate: func(*Config) {}},
		{
			name:    "missing api key",
			mutate:  func(c *Config) { c.OpenAI.APIKey = "" },
			wantErr: "OPENAI_API_KEY",
		},
		{
			name:    "missing model",
			mutate:  func(c *Config) { c.OpenAI.Model = "" },
			wantErr: "model",
		},
		{
			name:    "non-positive response tokens",
			mutate:  func(c *Config) { c.OpenAI.MaxResponseTokens = 0 },
			wantErr: "max_response_tokens",
		},
		{
			name:    "unknown model",
			mutate:  func(c *Config) { c.OpenAI.Model = "gpt-9000-nonexistent" },
			wantErr: "not supported",
		},
		{
			name:    "response exceeds model window",
			mutate:  func(c *Config) { c.OpenAI.MaxResponseTokens = 5000 },
			wantErr: "exceeds the model window",
		},
		{
			name:    "max below min question length",
			mutate:  func(c *Config) { c.Validation.MaxQuestionLength = 5 },
			wantErr: "max_question_length",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base
			tt.mutate(&cfg)

			err := Validate(cfg)
			if tt.wantErr == "" {
				if err != nil {
					t.Errorf("unexpected error: %v", err)
				}
				return
			}

			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}
