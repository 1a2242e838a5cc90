package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestParseEnvLine(t *testing.T) {
	tests := []struct {
		line    string
		key     string
		val     string
		matched bool
	}{
		{line: "LLM_PROVIDER=openai", key: "LLM_PROVIDER", val: "openai", matched: true},
		{line: `export ANTHROPIC_API_KEY="sk-ant-123"`, key: "ANTHROPIC_API_KEY", val: "sk-ant-123", matched: true},
		{line: "S3_PREFIX='uploads/dev'", key: "S3_PREFIX", val: "uploads/dev", matched: true},
		{line: "DATABASE_URL=postgres://u:p@h/db?sslmode=disable", key: "DATABASE_URL", val: "postgres://u:p@h/db?sslmode=disable", matched: true},
		{line: "# MAX_DOCUMENT_CHARS=1", matched: false},
		{line: "   ", matched: false},
		{line: "NO_EQUALS", matched: false},
		{line: "=value", matched: false},
	}
	for _, tt := range tests {
		key, val, ok := parseEnvLine(tt.line)
		if ok != tt.matched || key != tt.key || val != tt.val {
			t.Fatalf("parseEnvLine(%q) = (%q, %q, %v), want (%q, %q, %v)", tt.line, key, val, ok, tt.key, tt.val, tt.matched)
		}
	}
}

func TestLoadEnvFilesKeepsExistingValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".env")
	content := "LLM_MODEL=from-file\nVALIDATION_TIMEOUT_SECONDS=42\n"
	if err := os.WriteFile(path, []byte(content), 0o600); err != nil {
		t.Fatalf("write env file: %v", err)
	}
	t.Setenv("LLM_MODEL", "from-env")
	t.Setenv("VALIDATION_TIMEOUT_SECONDS", "")
	os.Unsetenv("VALIDATION_TIMEOUT_SECONDS")

	loadEnvFiles(filepath.Join(t.TempDir(), "missing.env"), path)

	if got := os.Getenv("LLM_MODEL"); got != "from-env" {
		t.Fatalf("expected environment to win, got %q", got)
	}
	if got := os.Getenv("VALIDATION_TIMEOUT_SECONDS"); got != "42" {
		t.Fatalf("expected file value to fill the gap, got %q", got)
	}
}
