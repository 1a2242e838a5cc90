package compliance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"
)

const (
	notAvailable = "N/A"
	noneReported = "None reported."
)

var rule = strings.Repeat("=", 60)

// FormatText renders r as a plain-text report. Sections always appear in the
// same order and absent values print as N/A, so the layout does not depend on
// how much the model returned.
func FormatText(r Result) string {
	var b strings.Builder

	writeHeader(&b, "OVERALL COMPLIANCE ASSESSMENT", true)
	a := r.OverallAssessment
	fmt.Fprintf(&b, "Compliance Score: %s\n", percentOrNA(a.ComplianceScore))
	fmt.Fprintf(&b, "Overall Risk Level: %s\n", orNA(a.OverallRiskLevel))
	fmt.Fprintf(&b, "FDA Inspection Ready: %s\n", boolOrNA(a.ReadyForFDAInspection))
	fmt.Fprintf(&b, "\n%s\n", orNA(a.ExecutiveSummary))

	if r.Degraded() {
		writeHeader(&b, "ANALYSIS ERROR", false)
		fmt.Fprintf(&b, "Error: %s\n", r.Error)
		b.WriteString("\nRaw Analysis:\n")
		b.WriteString(orNA(r.RawAnalysis))
		b.WriteString("\n")
		return b.String()
	}

	writeInspectionReadiness(&b, r.InspectionReadiness)
	writeFindings(&b, r.Findings)
	writeStrengths(&b, r.Strengths)
	writePriorityActions(&b, r.PriorityActions)
	return b.String()
}

func writeHeader(b *strings.Builder, title string, first bool) {
	if !first {
		b.WriteString("\n")
	}
	b.WriteString(rule)
	b.WriteString("\n")
	b.WriteString(title)
	b.WriteString("\n")
	b.WriteString(rule)
	b.WriteString("\n")
}

func writeInspectionReadiness(b *strings.Builder, ir *InspectionReadiness) {
	writeHeader(b, "INSPECTION READINESS SUMMARY", false)
	if ir == nil {
		ir = &InspectionReadiness{}
	}
	fmt.Fprintf(b, "Critical Gaps: %s\n", intOrNA(ir.CriticalGapsCount))
	fmt.Fprintf(b, "Major Gaps: %s\n", intOrNA(ir.MajorGapsCount))
	fmt.Fprintf(b, "Minor Gaps: %s\n", intOrNA(ir.MinorGapsCount))
	fmt.Fprintf(b, "Estimated Time to Compliance: %s\n", orNA(ir.EstimatedTimeToCompliance))
	b.WriteString("\nHigh-Risk Areas for Inspection:\n")
	if len(ir.InspectionRiskAreas) == 0 {
		fmt.Fprintf(b, "  %s\n", noneReported)
		return
	}
	for _, area := range ir.InspectionRiskAreas {
		fmt.Fprintf(b, "  • %s\n", orNA(area))
	}
}

func writeFindings(b *strings.Builder, findings []Finding) {
	writeHeader(b, "DETAILED FINDINGS", false)
	if len(findings) == 0 {
		b.WriteString(noneReported + "\n")
		return
	}
	for i, f := range findings {
		fmt.Fprintf(b, "\n[%d] %s - %s\n", i+1, orNA(f.CFRCitation), orNA(f.Severity))
		fmt.Fprintf(b, "Requirement: %s\n", orNA(f.RequirementDescription))
		fmt.Fprintf(b, "Finding: %s\n", orNA(f.Finding))
		fmt.Fprintf(b, "Severity Justification: %s\n", orNA(f.SeverityJustification))
		fmt.Fprintf(b, "Evidence: %s\n", orNA(f.Evidence))
		fmt.Fprintf(b, "Risk: %s\n", orNA(f.RiskToCompliance))
		fmt.Fprintf(b, "Recommendation: %s\n", orNA(f.Recommendation))
		fmt.Fprintf(b, "Regulatory Precedent: %s\n", orNA(f.RegulatoryPrecedent))
	}
}

func writeStrengths(b *strings.Builder, strengths []Strength) {
	writeHeader(b, "COMPLIANCE STRENGTHS", false)
	if len(strengths) == 0 {
		b.WriteString(noneReported + "\n")
		return
	}
	for _, s := range strengths {
		fmt.Fprintf(b, "✓ %s: %s\n", orNA(s.CFRCitation), orNA(s.Description))
	}
}

func writePriorityActions(b *strings.Builder, actions []PriorityAction) {
	writeHeader(b, "PRIORITY ACTIONS", false)
	if len(actions) == 0 {
		b.WriteString(noneReported + "\n")
		return
	}
	for _, pa := range SortedPriorityActions(actions) {
		fmt.Fprintf(b, "\nPriority %s - %s\n", intOrNA(pa.Priority), orNA(pa.CFRCitation))
		fmt.Fprintf(b, "Action: %s\n", orNA(pa.Action))
		fmt.Fprintf(b, "Effort: %s | Impact: %s\n", orNA(pa.EstimatedEffort), orNA(pa.Impact))
	}
}

// SortedPriorityActions returns a copy ordered by ascending priority. Actions
// without a priority keep their relative order after all prioritized ones.
func SortedPriorityActions(actions []PriorityAction) []PriorityAction {
	out := make([]PriorityAction, len(actions))
	copy(out, actions)
	sort.SliceStable(out, func(i, j int) bool {
		pi, pj := out[i].Priority, out[j].Priority
		switch {
		case pi == nil:
			return false
		case pj == nil:
			return true
		default:
			return *pi < *pj
		}
	})
	return out
}

// ToJSON serializes r with keys in schema order.
func ToJSON(r Result) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(r); err != nil {
		return nil, fmt.Errorf("encode result: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// FromJSON is the inverse of ToJSON.
func FromJSON(data []byte) (Result, error) {
	if !looksLikeObject(string(data)) {
		return Result{}, fmt.Errorf("decode result: not a JSON object")
	}
	var r Result
	if err := json.Unmarshal(data, &r); err != nil {
		return Result{}, fmt.Errorf("decode result: %w", err)
	}
	r.compact()
	return r, nil
}

func orNA(s string) string {
	if strings.TrimSpace(s) == "" {
		return notAvailable
	}
	return s
}

func intOrNA(v *int) string {
	if v == nil {
		return notAvailable
	}
	return strconv.Itoa(*v)
}

func percentOrNA(v *int) string {
	if v == nil {
		return notAvailable
	}
	return strconv.Itoa(*v) + "%"
}

func boolOrNA(v *bool) string {
	switch {
	case v == nil:
		return notAvailable
	case *v:
		return "Yes"
	default:
		return "No"
	}
}
