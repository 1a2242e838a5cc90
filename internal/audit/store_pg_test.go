package audit

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
)

func TestPGStoreInsertWritesNullsForMissingFields(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)
	rec := Record{
		ID:            "run-1",
		SessionHash:   "abc123",
		Regulation:    "21 CFR 820.75",
		DetailLevel:   "Standard",
		Status:        StatusFailed,
		ErrorCategory: "rate_limit",
		PromptSHA256:  "deadbeef",
		DocumentChars: 1200,
		Provider:      "anthropic",
		Model:         "claude-sonnet-4-20250514",
		DurationMs:    850,
		CreatedAt:     time.Now().UTC(),
	}

	mock.ExpectExec("INSERT INTO validation_runs").
		WithArgs(
			rec.ID,
			rec.SessionHash,
			nil, // document_id
			rec.Regulation,
			rec.DetailLevel,
			rec.Status,
			nil, // compliance_score
			nil, // risk_level
			rec.ErrorCategory,
			0,
			rec.PromptSHA256,
			rec.DocumentChars,
			false,
			rec.Provider,
			rec.Model,
			rec.DurationMs,
			sqlmock.AnyArg(),
		).
		WillReturnResult(sqlmock.NewResult(1, 1))

	if err := store.Insert(context.Background(), rec); err != nil {
		t.Fatalf("Insert: %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreListBySessionScansNullableColumns(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	created := time.Date(2026, time.March, 2, 9, 30, 0, 0, time.UTC)
	columns := []string{
		"id", "session_hash", "document_id", "regulation", "detail_level", "status",
		"compliance_score", "risk_level", "error_category", "schema_issue_count",
		"prompt_sha256", "document_chars", "truncated", "provider", "model", "duration_ms", "created_at",
	}
	rows := sqlmock.NewRows(columns).
		AddRow("run-2", "abc123", "doc-1", "21 CFR 820.75", "Comprehensive", StatusCompleted,
			int64(42), "HIGH", nil, int64(0), "cafe", int64(5000), true, "anthropic", "claude", int64(1200), created).
		AddRow("run-1", "abc123", nil, "21 CFR 820.80", "Basic", StatusFailed,
			nil, nil, "auth", int64(0), nil, int64(300), false, nil, nil, int64(10), created.Add(-time.Minute))

	mock.ExpectQuery("SELECT id, session_hash").
		WithArgs("abc123", 10).
		WillReturnRows(rows)

	got, err := NewPGStore(db).ListBySession(context.Background(), "abc123", 10)
	if err != nil {
		t.Fatalf("ListBySession: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("expected 2 records, got %d", len(got))
	}
	if got[0].ComplianceScore == nil || *got[0].ComplianceScore != 42 {
		t.Fatalf("expected score 42, got %v", got[0].ComplianceScore)
	}
	if !got[0].Truncated || got[0].DocumentID != "doc-1" {
		t.Fatalf("unexpected first record %+v", got[0])
	}
	if got[1].ComplianceScore != nil || got[1].ErrorCategory != "auth" || got[1].Provider != "" {
		t.Fatalf("unexpected second record %+v", got[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("ExpectationsWereMet: %v", err)
	}
}

func TestPGStoreDeletesBySessionAndAge(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock.New: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	store := NewPGStore(db)
	cutoff := time.Date(2026, time.May, 1, 7, 0, 0, 0, time.UTC)

	mock.ExpectExec(`DELETE FROM validation_runs WHERE session_hash = \$1`).
		WithArgs("hash-1").
		WillReturnResult(sqlmock.NewResult(0, 2))
	mock.ExpectExec(`DELETE FROM validation_runs WHERE created_at < \$1`).
		WithArgs(cutoff).
		WillReturnResult(sqlmock.NewResult(0, 5))

	n, err := store.DeleteBySession(context.Background(), "hash-1")
	if err != nil {
		t.Fatalf("DeleteBySession: %v", err)
	}
	if n != 2 {
		t.Fatalf("expected 2 rows, got %d", n)
	}
	n, err = store.DeleteBefore(context.Background(), cutoff)
	if err != nil {
		t.Fatalf("DeleteBefore: %v", err)
	}
	if n != 5 {
		t.Fatalf("expected 5 rows, got %d", n)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}
