package audit

import (
	"context"
	"database/sql"
	"time"
)

// PGStore implements Store using Postgres.
type PGStore struct {
	DB *sql.DB
}

// NewPGStore constructs a Postgres-backed audit store.
func NewPGStore(db *sql.DB) *PGStore {
	return &PGStore{DB: db}
}

func (s *PGStore) Insert(ctx context.Context, rec Record) error {
	_, err := s.DB.ExecContext(ctx, `
INSERT INTO validation_runs (
	id, session_hash, document_id, regulation, detail_level, status,
	compliance_score, risk_level, error_category, schema_issue_count,
	prompt_sha256, document_chars, truncated, provider, model, duration_ms, created_at
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`,
		rec.ID,
		rec.SessionHash,
		nullString(rec.DocumentID),
		rec.Regulation,
		rec.DetailLevel,
		rec.Status,
		nullInt(rec.ComplianceScore),
		nullString(rec.RiskLevel),
		nullString(rec.ErrorCategory),
		rec.SchemaIssueCount,
		nullString(rec.PromptSHA256),
		rec.DocumentChars,
		rec.Truncated,
		nullString(rec.Provider),
		nullString(rec.Model),
		rec.DurationMs,
		rec.CreatedAt,
	)
	return err
}

func (s *PGStore) ListBySession(ctx context.Context, sessionHash string, limit int) ([]Record, error) {
	rows, err := s.DB.QueryContext(ctx, `
SELECT id, session_hash, document_id, regulation, detail_level, status,
	compliance_score, risk_level, error_category, schema_issue_count,
	prompt_sha256, document_chars, truncated, provider, model, duration_ms, created_at
FROM validation_runs
WHERE session_hash = $1
ORDER BY created_at DESC
LIMIT $2`, sessionHash, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Record
	for rows.Next() {
		var rec Record
		var documentID sql.NullString
		var score sql.NullInt64
		var riskLevel sql.NullString
		var errorCategory sql.NullString
		var promptSHA sql.NullString
		var provider sql.NullString
		var model sql.NullString
		if err := rows.Scan(
			&rec.ID,
			&rec.SessionHash,
			&documentID,
			&rec.Regulation,
			&rec.DetailLevel,
			&rec.Status,
			&score,
			&riskLevel,
			&errorCategory,
			&rec.SchemaIssueCount,
			&promptSHA,
			&rec.DocumentChars,
			&rec.Truncated,
			&provider,
			&model,
			&rec.DurationMs,
			&rec.CreatedAt,
		); err != nil {
			return nil, err
		}
		rec.DocumentID = documentID.String
		if score.Valid {
			v := int(score.Int64)
			rec.ComplianceScore = &v
		}
		rec.RiskLevel = riskLevel.String
		rec.ErrorCategory = errorCategory.String
		rec.PromptSHA256 = promptSHA.String
		rec.Provider = provider.String
		rec.Model = model.String
		out = append(out, rec)
	}
	return out, rows.Err()
}

func (s *PGStore) DeleteBySession(ctx context.Context, sessionHash string) (int, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM validation_runs WHERE session_hash = $1`, sessionHash)
	if err != nil {
		return 0, err
	}
	return affected(res)
}

func (s *PGStore) DeleteBefore(ctx context.Context, cutoff time.Time) (int, error) {
	res, err := s.DB.ExecContext(ctx, `DELETE FROM validation_runs WHERE created_at < $1`, cutoff)
	if err != nil {
		return 0, err
	}
	return affected(res)
}

func affected(res sql.Result) (int, error) {
	n, err := res.RowsAffected()
	if err != nil {
		return 0, err
	}
	return int(n), nil
}

func nullString(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func nullInt(v *int) any {
	if v == nil {
		return nil
	}
	return int64(*v)
}
