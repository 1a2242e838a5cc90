package compliance

import (
	"bytes"
	"encoding/json"
	"strings"
)

const (
	degradedSummary = "Unable to parse structured results. See raw analysis below."
	degradedError   = "JSON parsing failed - response may not be properly structured"
)

const fence = "```"

// Normalize parses a raw model reply into a Result. It never fails: a reply
// that is not a JSON object becomes a degraded Result carrying the
// fence-stripped text. A parsed reply is stored as-is with no defaults filled.
func Normalize(raw string) Result {
	text := StripFences(raw)

	var res Result
	if !looksLikeObject(text) || json.Unmarshal([]byte(text), &res) != nil {
		return degradedResult(text)
	}
	// A parsed reply is never the degraded variant, even when the model
	// echoes an "error" key next to its findings.
	res.Error = ""
	res.RawAnalysis = ""
	res.compact()
	return res
}

func degradedResult(text string) Result {
	return Result{
		OverallAssessment: OverallAssessment{
			ComplianceScore:  intPtr(0),
			OverallRiskLevel: RiskUnknown,
			ExecutiveSummary: degradedSummary,
		},
		Error:       degradedError,
		RawAnalysis: text,
	}
}

func looksLikeObject(text string) bool {
	trimmed := bytes.TrimSpace([]byte(text))
	return len(trimmed) > 0 && trimmed[0] == '{'
}

// StripFences removes markdown code-fence lines around a reply.
//
// Text that does not start with a fence is returned trimmed and otherwise
// untouched. Otherwise lines are scanned and every line that is exactly a
// fence marker (``` plus an optional language tag) toggles an inside flag;
// only inside lines are kept. When the scan keeps nothing, for example an
// unterminated fence on a single line, a single outer fence is trimmed from
// the prefix and suffix instead.
func StripFences(raw string) string {
	text := strings.TrimSpace(raw)
	if !strings.HasPrefix(text, fence) {
		return text
	}
	if inner, ok := scanFences(text); ok {
		return inner
	}
	return trimOuterFence(text)
}

func scanFences(text string) (string, bool) {
	lines := strings.Split(text, "\n")
	kept := make([]string, 0, len(lines))
	inside := false
	for _, line := range lines {
		if isFenceLine(line) {
			inside = !inside
			continue
		}
		if inside {
			kept = append(kept, line)
		}
	}
	out := strings.TrimSpace(strings.Join(kept, "\n"))
	return out, out != ""
}

// isFenceLine matches ``` optionally followed by a bare language tag.
func isFenceLine(line string) bool {
	trimmed := strings.TrimSpace(line)
	if !strings.HasPrefix(trimmed, fence) {
		return false
	}
	tag := strings.TrimPrefix(trimmed, fence)
	for _, r := range tag {
		if !(r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z' || r >= '0' && r <= '9' || r == '-' || r == '_' || r == '+') {
			return false
		}
	}
	return true
}

func trimOuterFence(text string) string {
	out := strings.TrimPrefix(text, fence)
	if nl := strings.IndexByte(out, '\n'); nl >= 0 && isFenceLine(fence+out[:nl]) {
		out = out[nl+1:]
	} else {
		out = strings.TrimLeft(out, "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ")
	}
	out = strings.TrimSuffix(strings.TrimSpace(out), fence)
	return strings.TrimSpace(out)
}
