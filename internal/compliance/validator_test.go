package compliance

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"meddoc-backend/internal/llm"
)

type stubClient struct {
	reply   string
	err     error
	prompts []string
}

func (s *stubClient) Complete(ctx context.Context, prompt string) (string, error) {
	s.prompts = append(s.prompts, prompt)
	return s.reply, s.err
}

func TestValidateEndToEnd(t *testing.T) {
	doc := "Sterilization SOP. Cycle parameters are set by the supervisor. No further records."
	require.NotContains(t, doc, "validation protocol")

	stub := &stubClient{reply: "```json\n" + `{
  "overall_assessment": {"compliance_score": 42, "overall_risk_level": "HIGH", "ready_for_fda_inspection": false, "executive_summary": "Sterilization is not validated."},
  "findings": [{"cfr_citation": "21 CFR 820.75(a)", "finding": "No validation protocol", "severity": "CRITICAL"}]
}` + "\n```"}
	v := NewValidator(stub, 0)

	res, meta, err := v.Validate(context.Background(), Request{
		DocumentText: doc,
		Regulation:   "21 CFR Part 820.75 - Process Validation",
		DetailLevel:  DetailStandard,
	})
	require.NoError(t, err)
	require.Len(t, stub.prompts, 1)
	prompt := stub.prompts[0]
	assert.Contains(t, prompt, "820.75(a)")
	assert.Contains(t, prompt, "high degree of assurance")
	assert.Equal(t, PromptHash(prompt), meta.PromptSHA256)

	require.False(t, res.Degraded())
	require.NotNil(t, res.OverallAssessment.ComplianceScore)
	assert.Equal(t, 42, *res.OverallAssessment.ComplianceScore)
	assert.Contains(t, FormatText(res), "Compliance Score: 42%")
}

func TestValidateRejectsEmptyText(t *testing.T) {
	stub := &stubClient{reply: "{}"}
	v := NewValidator(stub, 0)

	for _, text := range []string{"", "   \n\t "} {
		_, _, err := v.Validate(context.Background(), Request{DocumentText: text, Regulation: "820.70"})
		assert.ErrorIs(t, err, ErrNoExtractableText)
	}
	assert.Empty(t, stub.prompts, "provider must not be called")
}

func TestValidateRequiresRegulation(t *testing.T) {
	v := NewValidator(&stubClient{}, 0)
	_, _, err := v.Validate(context.Background(), Request{DocumentText: "text", Regulation: " "})
	assert.ErrorIs(t, err, ErrRegulationRequired)
}

func TestValidateProviderError(t *testing.T) {
	cause := &llm.ProviderError{Provider: "anthropic", Category: llm.CategoryAuth, StatusCode: 401, Err: errors.New("invalid x-api-key")}
	v := NewValidator(&stubClient{err: cause}, 0)

	res, _, err := v.Validate(context.Background(), Request{DocumentText: "text", Regulation: "820.70"})
	require.Error(t, err)
	pe, ok := llm.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, llm.CategoryAuth, pe.Category)
	assert.Equal(t, Result{}, res)
}

func TestValidateWrapsForeignErrors(t *testing.T) {
	v := NewValidator(&stubClient{err: errors.New("boom")}, 0)
	_, _, err := v.Validate(context.Background(), Request{DocumentText: "text", Regulation: "820.70"})
	pe, ok := llm.AsProviderError(err)
	require.True(t, ok)
	assert.Equal(t, llm.CategoryUnknown, pe.Category)
}

func TestValidateCancelledAfterReply(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	v := NewValidator(&stubClient{reply: `{"overall_assessment":{"compliance_score":90}}`}, 0)

	res, _, err := v.Validate(ctx, Request{DocumentText: "text", Regulation: "820.70"})
	require.Error(t, err)
	assert.Equal(t, Result{}, res)
}

func TestValidateDegradedIsNotAnError(t *testing.T) {
	v := NewValidator(&stubClient{reply: "I could not produce JSON, sorry."}, 0)
	res, meta, err := v.Validate(context.Background(), Request{DocumentText: "text", Regulation: "820.70"})
	require.NoError(t, err)
	assert.True(t, res.Degraded())
	assert.NotEmpty(t, meta.SchemaIssues)
}

func TestValidateTruncates(t *testing.T) {
	stub := &stubClient{reply: "{}"}
	v := NewValidator(stub, 10)
	doc := strings.Repeat("é", 25)

	_, meta, err := v.Validate(context.Background(), Request{DocumentText: doc, Regulation: "820.70"})
	require.NoError(t, err)
	assert.True(t, meta.Truncated)
	assert.Equal(t, 10, meta.DocumentChars)
	assert.Contains(t, stub.prompts[0], strings.Repeat("é", 10)+"\n")
	assert.NotContains(t, stub.prompts[0], strings.Repeat("é", 11))
}

func TestTruncate(t *testing.T) {
	out, cut := Truncate("abcdef", 3)
	assert.Equal(t, "abc", out)
	assert.True(t, cut)

	out, cut = Truncate("abc", 3)
	assert.Equal(t, "abc", out)
	assert.False(t, cut)

	out, cut = Truncate("abc", 0)
	assert.Equal(t, "abc", out)
	assert.False(t, cut)
}
