package documents

import "time"

// Document is an uploaded file held for one session. Text is the extracted
// plain text; it lives in memory only and is dropped with the session.
type Document struct {
	ID               string
	SessionID        string
	FileName         string
	MimeType         string
	SizeBytes        int64
	PageCount        int
	StorageKey       string
	ExtractedTextKey string
	Text             string
	CreatedAt        time.Time
}
