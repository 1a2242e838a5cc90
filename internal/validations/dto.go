package validations

import (
	"time"

	"meddoc-backend/internal/compliance"
)

// ValidationResponse is the API view of a validation.
type ValidationResponse struct {
	ValidationID string            `json:"validationId"`
	DocumentID   string            `json:"documentId"`
	FileName     string            `json:"fileName"`
	Regulation   string            `json:"regulation"`
	DetailLevel  string            `json:"detailLevel"`
	Status       string            `json:"status"`
	Result       compliance.Result `json:"result"`
	Report       string            `json:"report"`
	Meta         MetaResponse      `json:"meta"`
	CreatedAt    time.Time         `json:"createdAt"`
}

// MetaResponse describes how a result was produced.
type MetaResponse struct {
	Provider      string   `json:"provider"`
	Model         string   `json:"model"`
	PromptSHA256  string   `json:"promptSha256"`
	DocumentChars int      `json:"documentChars"`
	Truncated     bool     `json:"truncated"`
	SchemaIssues  []string `json:"schemaIssues,omitempty"`
	DurationMs    int64    `json:"durationMs"`
}

// ValidationSummary is a list entry without the result body.
type ValidationSummary struct {
	ValidationID    string    `json:"validationId"`
	DocumentID      string    `json:"documentId"`
	Regulation      string    `json:"regulation"`
	DetailLevel     string    `json:"detailLevel"`
	Status          string    `json:"status"`
	ComplianceScore *int      `json:"complianceScore,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
}

func toResponse(v Validation) ValidationResponse {
	return ValidationResponse{
		ValidationID: v.ID,
		DocumentID:   v.DocumentID,
		FileName:     v.FileName,
		Regulation:   v.Regulation,
		DetailLevel:  string(v.DetailLevel),
		Status:       v.Status(),
		Result:       v.Result,
		Report:       compliance.FormatText(v.Result),
		Meta: MetaResponse{
			Provider:      v.Meta.Provider,
			Model:         v.Meta.Model,
			PromptSHA256:  v.Meta.PromptSHA256,
			DocumentChars: v.Meta.DocumentChars,
			Truncated:     v.Meta.Truncated,
			SchemaIssues:  v.Meta.SchemaIssues,
			DurationMs:    v.Meta.Duration.Milliseconds(),
		},
		CreatedAt: v.CreatedAt,
	}
}

func toSummary(v Validation) ValidationSummary {
	return ValidationSummary{
		ValidationID:    v.ID,
		DocumentID:      v.DocumentID,
		Regulation:      v.Regulation,
		DetailLevel:     string(v.DetailLevel),
		Status:          v.Status(),
		ComplianceScore: v.Result.OverallAssessment.ComplianceScore,
		CreatedAt:       v.CreatedAt,
	}
}
