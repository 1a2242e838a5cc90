package util

import (
	"errors"
	"strings"
	"unicode"
	"unicode/utf8"
)

// maxFileNameBytes keeps stored keys well under the S3 1024-byte key limit
// once the session hash and random prefix are added.
const maxFileNameBytes = 200

var ErrInvalidFileName = errors.New("invalid file name")

// SanitizeFileName makes an uploaded document name safe to embed in a
// storage key. Separators become underscores, control characters are
// dropped and long names are cut at a rune boundary keeping the extension.
// Traversal patterns are rejected outright.
func SanitizeFileName(name string) (string, error) {
	if strings.Contains(name, "..") {
		return "", ErrInvalidFileName
	}
	s := strings.Map(func(r rune) rune {
		switch {
		case r == '/' || r == '\\':
			return '_'
		case unicode.IsControl(r):
			return -1
		}
		return r
	}, strings.TrimSpace(name))
	if s == "" {
		return "", ErrInvalidFileName
	}
	return truncateName(s, maxFileNameBytes), nil
}

func truncateName(name string, limit int) string {
	if len(name) <= limit {
		return name
	}
	ext := ""
	if dot := strings.LastIndexByte(name, '.'); dot > 0 && len(name)-dot <= 10 {
		ext = name[dot:]
	}
	base := name[:limit-len(ext)]
	for !utf8.ValidString(base) {
		base = base[:len(base)-1]
	}
	return base + ext
}
