// Package compliance turns document text into a normalized FDA 21 CFR Part
// 820 compliance result: it builds the prompt, makes the single model call,
// normalizes the reply and renders reports.
package compliance

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"meddoc-backend/internal/llm"
	"meddoc-backend/internal/shared/telemetry"
)

// Request is one validation action.
type Request struct {
	DocumentText string
	Regulation   string
	DetailLevel  DetailLevel
}

// Meta describes how a Result was produced. It never carries document text.
type Meta struct {
	PromptSHA256  string
	DocumentChars int
	Truncated     bool
	Provider      string
	Model         string
	SchemaIssues  []string
	Duration      time.Duration
}

// Validator runs the prompt, call and normalize pipeline.
type Validator struct {
	Client           llm.Client
	MaxDocumentChars int
}

// NewValidator constructs a Validator. maxChars <= 0 disables truncation.
func NewValidator(client llm.Client, maxChars int) *Validator {
	return &Validator{Client: client, MaxDocumentChars: maxChars}
}

// Validate returns either a full or a degraded Result, or an error and no
// Result. Errors are ErrNoExtractableText, ErrRegulationRequired or a wrapped
// *llm.ProviderError.
func (v *Validator) Validate(ctx context.Context, req Request) (Result, Meta, error) {
	start := time.Now()
	meta := Meta{}
	if v == nil || v.Client == nil {
		return Result{}, meta, ErrNoClient
	}
	meta.Provider = llm.ProviderName(v.Client)
	meta.Model = llm.ModelName(v.Client)

	if strings.TrimSpace(req.DocumentText) == "" {
		return Result{}, meta, ErrNoExtractableText
	}
	regulation := strings.TrimSpace(req.Regulation)
	if regulation == "" {
		return Result{}, meta, ErrRegulationRequired
	}

	text, truncated := Truncate(req.DocumentText, v.MaxDocumentChars)
	meta.DocumentChars = utf8.RuneCountInString(text)
	meta.Truncated = truncated

	prompt := BuildPrompt(text, regulation, req.DetailLevel)
	meta.PromptSHA256 = PromptHash(prompt)

	raw, err := v.Client.Complete(ctx, prompt)
	meta.Duration = time.Since(start)
	if err != nil {
		if _, ok := llm.AsProviderError(err); !ok {
			err = &llm.ProviderError{Provider: meta.Provider, Category: llm.CategoryUnknown, Err: err}
		}
		return Result{}, meta, fmt.Errorf("complete: %w", err)
	}
	if ctxErr := ctx.Err(); ctxErr != nil {
		return Result{}, meta, fmt.Errorf("complete: %w", llm.TransportError(meta.Provider, ctxErr))
	}

	meta.SchemaIssues = Conformance(raw)
	if len(meta.SchemaIssues) > 0 {
		telemetry.Warn("validation.schema_issues", map[string]any{
			"regulation":    regulation,
			"prompt_sha256": meta.PromptSHA256,
			"count":         len(meta.SchemaIssues),
			"first":         meta.SchemaIssues[0],
		})
	}

	res := Normalize(raw)
	meta.Duration = time.Since(start)
	return res, meta, nil
}

// Truncate caps text at limit runes. limit <= 0 means no cap.
func Truncate(text string, limit int) (string, bool) {
	if limit <= 0 || utf8.RuneCountInString(text) <= limit {
		return text, false
	}
	n := 0
	for i := range text {
		if n == limit {
			return text[:i], true
		}
		n++
	}
	return text, false
}

// PromptHash is the hex sha256 of prompt, used to correlate audit rows with
// a prompt without storing it.
func PromptHash(prompt string) string {
	sum := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(sum[:])
}
