// Package audit keeps a metadata trail of validation runs. Records never hold
// document text or result bodies.
package audit

import "time"

// Status values for a validation run.
const (
	StatusCompleted = "completed"
	StatusDegraded  = "degraded"
	StatusFailed    = "failed"
	StatusRejected  = "rejected"
)

// Record is one validation run.
type Record struct {
	ID               string    `json:"id"`
	SessionHash      string    `json:"-"`
	DocumentID       string    `json:"documentId,omitempty"`
	Regulation       string    `json:"regulation"`
	DetailLevel      string    `json:"detailLevel"`
	Status           string    `json:"status"`
	ComplianceScore  *int      `json:"complianceScore,omitempty"`
	RiskLevel        string    `json:"riskLevel,omitempty"`
	ErrorCategory    string    `json:"errorCategory,omitempty"`
	SchemaIssueCount int       `json:"schemaIssueCount"`
	PromptSHA256     string    `json:"promptSha256,omitempty"`
	DocumentChars    int       `json:"documentChars"`
	Truncated        bool      `json:"truncated"`
	Provider         string    `json:"provider,omitempty"`
	Model            string    `json:"model,omitempty"`
	DurationMs       int64     `json:"durationMs"`
	CreatedAt        time.Time `json:"createdAt"`
}
