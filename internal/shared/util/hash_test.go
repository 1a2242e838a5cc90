package util

import (
	"strings"
	"testing"
)

func TestHashSessionKey(t *testing.T) {
	id := "tab-7f3c"
	got := HashSessionKey(id)
	if got != HashSessionKey(id) {
		t.Fatalf("expected stable hash, got %s", got)
	}
	if got == HashSessionKey("tab-7f3d") {
		t.Fatalf("expected distinct sessions to hash differently")
	}
	for _, ch := range got {
		if !((ch >= 'a' && ch <= 'f') || (ch >= '0' && ch <= '9')) {
			t.Fatalf("hash contains non-hex character: %c", ch)
		}
	}
	if len(got) != 64 {
		t.Fatalf("expected 64 hex characters, got %d", len(got))
	}
	if strings.Contains(got, id) {
		t.Fatalf("hash leaks the raw session id")
	}
}

func TestSessionTag(t *testing.T) {
	if tag := SessionTag(""); tag != "" {
		t.Fatalf("expected empty tag for empty session, got %q", tag)
	}
	tag := SessionTag("tab-1")
	if len(tag) != 12 || !strings.HasPrefix(HashSessionKey("tab-1"), tag) {
		t.Fatalf("unexpected tag %q", tag)
	}
}
