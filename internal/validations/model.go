package validations

import (
	"time"

	"meddoc-backend/internal/compliance"
)

// Status values reported for a stored validation.
const (
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
)

// Validation is one finished compliance run held for a session.
type Validation struct {
	ID          string
	SessionID   string
	DocumentID  string
	FileName    string
	Regulation  string
	DetailLevel compliance.DetailLevel
	Result      compliance.Result
	Meta        compliance.Meta
	CreatedAt   time.Time
}

// Status reports whether the result is full or degraded.
func (v Validation) Status() string {
	if v.Result.Degraded() {
		return StatusDegraded
	}
	return StatusCompleted
}
