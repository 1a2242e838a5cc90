package config

import "testing"

func TestLoadDefaults(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "")
	t.Setenv("LLM_MODEL", "")
	t.Setenv("MAX_DOCUMENT_CHARS", "")
	t.Setenv("ENV", "")

	cfg := Load()
	if cfg.LLMProvider != "anthropic" {
		t.Fatalf("expected anthropic provider, got %q", cfg.LLMProvider)
	}
	if cfg.LLMModel != DefaultAnthropicModel {
		t.Fatalf("expected default model, got %q", cfg.LLMModel)
	}
	if cfg.MaxDocumentChars != DefaultMaxDocumentChars {
		t.Fatalf("expected %d max chars, got %d", DefaultMaxDocumentChars, cfg.MaxDocumentChars)
	}
	if cfg.LLMMaxTokens != DefaultMaxTokens {
		t.Fatalf("expected %d max tokens, got %d", DefaultMaxTokens, cfg.LLMMaxTokens)
	}
	if cfg.Env != "dev" {
		t.Fatalf("expected dev env, got %q", cfg.Env)
	}
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("LLM_PROVIDER", "OpenAI")
	t.Setenv("LLM_MODEL", "gpt-4o-mini")
	t.Setenv("MAX_DOCUMENT_CHARS", "15000")
	t.Setenv("SESSION_TTL_MINUTES", "not-a-number")
	t.Setenv("ENV", "prod")

	cfg := Load()
	if cfg.LLMProvider != "openai" {
		t.Fatalf("expected openai provider, got %q", cfg.LLMProvider)
	}
	if cfg.LLMModel != "gpt-4o-mini" {
		t.Fatalf("unexpected model %q", cfg.LLMModel)
	}
	if cfg.MaxDocumentChars != 15000 {
		t.Fatalf("expected 15000, got %d", cfg.MaxDocumentChars)
	}
	if cfg.SessionTTLMinutes != 60 {
		t.Fatalf("expected fallback ttl 60, got %d", cfg.SessionTTLMinutes)
	}
	if cfg.Env != "production" {
		t.Fatalf("expected production, got %q", cfg.Env)
	}
}
