package validations

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"meddoc-backend/internal/audit"
	"meddoc-backend/internal/compliance"
	"meddoc-backend/internal/documents"
	"meddoc-backend/internal/llm"
	"meddoc-backend/internal/shared/metrics"
	"meddoc-backend/internal/shared/telemetry"
)

// DocumentSource resolves a session document.
type DocumentSource interface {
	Get(ctx context.Context, sessionID, documentID string) (documents.Document, error)
}

// Service runs validations against session documents.
type Service struct {
	Repo      Repo
	Docs      DocumentSource
	Validator *compliance.Validator
	Audit     *audit.Recorder
	Timeout   time.Duration
	now       func() time.Time
}

// Run validates a stored document against regulation. A validation is stored
// only when a full or degraded result was produced; every attempt is audited.
func (s *Service) Run(ctx context.Context, sessionID, documentID, regulation string, detail compliance.DetailLevel) (Validation, error) {
	regulation = strings.TrimSpace(regulation)
	if sessionID == "" || strings.TrimSpace(documentID) == "" {
		return Validation{}, ErrInvalidInput
	}
	if detail == "" {
		detail = compliance.DetailStandard
	}

	doc, err := s.Docs.Get(ctx, sessionID, documentID)
	if err != nil {
		return Validation{}, err
	}

	if s.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.Timeout)
		defer cancel()
	}

	metrics.IncValidationStarted()
	logStatus("started", doc.ID, "", regulation, detail)

	result, meta, err := s.Validator.Validate(ctx, compliance.Request{
		DocumentText: doc.Text,
		Regulation:   regulation,
		DetailLevel:  detail,
	})
	run := audit.Record{
		DocumentID:       doc.ID,
		Regulation:       regulation,
		DetailLevel:      string(detail),
		SchemaIssueCount: len(meta.SchemaIssues),
		PromptSHA256:     meta.PromptSHA256,
		DocumentChars:    meta.DocumentChars,
		Truncated:        meta.Truncated,
		Provider:         meta.Provider,
		Model:            meta.Model,
		DurationMs:       meta.Duration.Milliseconds(),
	}
	if err != nil {
		run.Status, run.ErrorCategory = failureStatus(err)
		if run.Regulation == "" {
			run.Regulation = "(none)"
		}
		s.record(ctx, sessionID, run)
		metrics.IncValidationFailed(run.ErrorCategory)
		logStatus(run.Status, doc.ID, run.ErrorCategory, regulation, detail)
		return Validation{}, err
	}

	v := Validation{
		ID:          uuid.NewString(),
		SessionID:   sessionID,
		DocumentID:  doc.ID,
		FileName:    doc.FileName,
		Regulation:  regulation,
		DetailLevel: detail,
		Result:      result,
		Meta:        meta,
		CreatedAt:   s.clock().UTC(),
	}
	if err := s.Repo.Create(ctx, v); err != nil {
		return Validation{}, fmt.Errorf("store validation: %w", err)
	}

	run.ID = v.ID
	run.Status = v.Status()
	run.ComplianceScore = result.OverallAssessment.ComplianceScore
	run.RiskLevel = result.OverallAssessment.OverallRiskLevel
	s.record(ctx, sessionID, run)

	metrics.IncValidationCompleted(result.Degraded())
	metrics.ObserveValidationDurationMs(float64(meta.Duration.Milliseconds()))
	logStatus(run.Status, doc.ID, "", regulation, detail)
	return v, nil
}

// Get returns a session validation.
func (s *Service) Get(ctx context.Context, sessionID, validationID string) (Validation, error) {
	if sessionID == "" || strings.TrimSpace(validationID) == "" {
		return Validation{}, ErrInvalidInput
	}
	return s.Repo.Get(ctx, sessionID, validationID)
}

// List returns a session's validations, newest first.
func (s *Service) List(ctx context.Context, sessionID string) ([]Validation, error) {
	if sessionID == "" {
		return nil, ErrInvalidInput
	}
	return s.Repo.ListBySession(ctx, sessionID)
}

// PurgeSession removes a session's validations.
func (s *Service) PurgeSession(ctx context.Context, sessionID string) error {
	if _, err := s.Repo.DeleteSession(ctx, sessionID); err != nil {
		return fmt.Errorf("delete session validations: %w", err)
	}
	return nil
}

func (s *Service) record(ctx context.Context, sessionID string, run audit.Record) {
	if s.Audit == nil {
		return
	}
	// The audit row outlives a cancelled request.
	if _, err := s.Audit.Record(context.WithoutCancel(ctx), sessionID, run); err != nil {
		telemetry.Warn("audit.record_failed", map[string]any{
			"document_id": run.DocumentID,
			"status":      run.Status,
			"error":       err.Error(),
		})
	}
}

func (s *Service) clock() time.Time {
	if s.now != nil {
		return s.now()
	}
	return time.Now()
}

func failureStatus(err error) (status, category string) {
	switch {
	case errors.Is(err, compliance.ErrNoExtractableText):
		return audit.StatusRejected, "no_extractable_text"
	case errors.Is(err, compliance.ErrRegulationRequired):
		return audit.StatusRejected, "regulation_required"
	case errors.Is(err, compliance.ErrNoClient):
		return audit.StatusFailed, "no_client"
	}
	if pe, ok := llm.AsProviderError(err); ok {
		return audit.StatusFailed, string(pe.Category)
	}
	return audit.StatusFailed, string(llm.CategoryUnknown)
}

func logStatus(status, documentID, category, regulation string, detail compliance.DetailLevel) {
	fields := map[string]any{
		"status":       status,
		"document_id":  documentID,
		"regulation":   regulation,
		"detail_level": string(detail),
	}
	if category != "" {
		fields["error_category"] = category
	}
	telemetry.Info("validation.status", fields)
}
