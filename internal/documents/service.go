package documents

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"

	"meddoc-backend/internal/extract"
	"meddoc-backend/internal/shared/metrics"
	"meddoc-backend/internal/shared/storage/object"
	"meddoc-backend/internal/shared/telemetry"
)

// Service contains business logic for session documents.
type Service struct {
	Store object.ObjectStore
	Repo  Repo
}

// Upload extracts text, saves the file and its derived text to object
// storage, and records the document. Nothing is stored when the file has no
// extractable text.
func (s *Service) Upload(ctx context.Context, sessionID, fileName, declaredMime string, r io.Reader) (Document, error) {
	fileName = strings.TrimSpace(fileName)
	if sessionID == "" || fileName == "" {
		return Document{}, ErrInvalidInput
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("read upload: %w", err)
	}

	mimeType := extract.NormalizeMimeType(declaredMime, fileName, data)
	text, err := extract.ExtractTextFromBytes(ctx, data, mimeType, fileName)
	if err != nil {
		return Document{}, err
	}

	storageKey, size, _, err := s.Store.Save(ctx, sessionID, fileName, bytes.NewReader(data))
	if err != nil {
		return Document{}, fmt.Errorf("store upload: %w", err)
	}
	extractedKey, err := extract.SaveExtracted(ctx, s.Store, storageKey, text)
	if err != nil {
		s.discard(ctx, storageKey)
		return Document{}, err
	}

	doc := Document{
		ID:               uuid.NewString(),
		SessionID:        sessionID,
		FileName:         fileName,
		MimeType:         mimeType,
		SizeBytes:        size,
		PageCount:        extract.PageCount(data, mimeType),
		StorageKey:       storageKey,
		ExtractedTextKey: extractedKey,
		Text:             text,
		CreatedAt:        time.Now().UTC(),
	}

	if err := s.Repo.Create(ctx, doc); err != nil {
		s.discard(ctx, storageKey, extractedKey)
		return Document{}, err
	}

	metrics.IncDocumentsUploaded()
	telemetry.Info("document.uploaded", map[string]any{
		"document_id": doc.ID,
		"mime_type":   doc.MimeType,
		"size_bytes":  doc.SizeBytes,
		"page_count":  doc.PageCount,
		"text_chars":  len([]rune(text)),
	})
	return doc, nil
}

// discard removes objects written by a failed upload. Cleanup runs even
// when the request was cancelled; leftovers are still dropped with the session.
func (s *Service) discard(ctx context.Context, keys ...string) {
	ctx = context.WithoutCancel(ctx)
	for _, key := range keys {
		if err := s.Store.Delete(ctx, key); err != nil {
			telemetry.Warn("document.cleanup_failed", map[string]any{
				"error": err.Error(),
			})
		}
	}
}

// Get returns a session document.
func (s *Service) Get(ctx context.Context, sessionID, documentID string) (Document, error) {
	if sessionID == "" || strings.TrimSpace(documentID) == "" {
		return Document{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, sessionID, documentID)
}

// List returns a session's documents, newest first.
func (s *Service) List(ctx context.Context, sessionID string) ([]Document, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListBySession(ctx, sessionID)
}

// PurgeSession removes a session's documents and stored objects.
func (s *Service) PurgeSession(ctx context.Context, sessionID string) error {
	if _, err := s.Repo.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session documents: %w", err)
	}
	if err := s.Store.DeleteOwner(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session objects: %w", err)
	}
	return nil
}
