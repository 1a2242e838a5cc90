package documents

import (
	"time"
	"unicode/utf8"
)

// DocumentResponse is the outward-facing representation of a document. The
// extracted text itself is not returned.
type DocumentResponse struct {
	DocumentID string    `json:"documentId"`
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimeType"`
	SizeBytes  int64     `json:"sizeBytes"`
	PageCount  int       `json:"pageCount,omitempty"`
	TextChars  int       `json:"textChars"`
	UploadedAt time.Time `json:"uploadedAt"`
}

func toResponse(doc Document) DocumentResponse {
	return DocumentResponse{
		DocumentID: doc.ID,
		FileName:   doc.FileName,
		MimeType:   doc.MimeType,
		SizeBytes:  doc.SizeBytes,
		PageCount:  doc.PageCount,
		TextChars:  utf8.RuneCountInString(doc.Text),
		UploadedAt: doc.CreatedAt,
	}
}
