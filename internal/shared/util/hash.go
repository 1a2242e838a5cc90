package util

import (
	"crypto/sha256"
	"encoding/hex"
)

const sessionTagLen = 12

// HashSessionKey returns the stored form of a session ID. Object keys and
// audit rows carry this hash, never the raw ID.
func HashSessionKey(sessionID string) string {
	sum := sha256.Sum256([]byte(sessionID))
	return hex.EncodeToString(sum[:])
}

// SessionTag is a short prefix of the session hash for log lines. Empty
// input yields an empty tag.
func SessionTag(sessionID string) string {
	if sessionID == "" {
		return ""
	}
	return HashSessionKey(sessionID)[:sessionTagLen]
}
