package llm

import (
	"time"

	"meddoc-backend/internal/shared/metrics"
	"meddoc-backend/internal/shared/telemetry"
)

// Observe records one provider call in logs and metrics.
func Observe(provider, model string, start time.Time, usage Usage, err error) {
	elapsed := time.Since(start)
	metrics.ObserveLLMDurationMs(provider, float64(elapsed.Milliseconds()))

	fields := map[string]any{
		"provider":      provider,
		"model":         model,
		"duration_ms":   elapsed.Milliseconds(),
		"input_tokens":  usage.InputTokens,
		"output_tokens": usage.OutputTokens,
	}
	if err != nil {
		fields["error"] = err.Error()
		if pe, ok := AsProviderError(err); ok {
			fields["category"] = string(pe.Category)
			fields["status"] = pe.StatusCode
		}
		telemetry.Error("llm.response", fields)
		return
	}
	telemetry.Info("llm.response", fields)
}
