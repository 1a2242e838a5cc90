package compliance

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Risk levels reported in OverallAssessment.
const (
	RiskHigh    = "HIGH"
	RiskMedium  = "MEDIUM"
	RiskLow     = "LOW"
	RiskUnknown = "UNKNOWN"
)

// Severities a Finding may carry.
const (
	SeverityCritical = "CRITICAL"
	SeverityMajor    = "MAJOR"
	SeverityMinor    = "MINOR"
)

// Result is the normalized model output. Field order is the JSON key order.
//
// A degraded result carries only OverallAssessment, Error and RawAnalysis.
type Result struct {
	OverallAssessment   OverallAssessment    `json:"overall_assessment"`
	Findings            []Finding            `json:"findings,omitempty"`
	Strengths           []Strength           `json:"strengths,omitempty"`
	PriorityActions     []PriorityAction     `json:"priority_actions,omitempty"`
	InspectionReadiness *InspectionReadiness `json:"inspection_readiness,omitempty"`
	Error               string               `json:"error,omitempty"`
	RawAnalysis         string               `json:"raw_analysis,omitempty"`
}

// OverallAssessment summarizes the document's compliance posture.
type OverallAssessment struct {
	ComplianceScore       *int   `json:"compliance_score,omitempty"`
	OverallRiskLevel      string `json:"overall_risk_level,omitempty"`
	ReadyForFDAInspection *bool  `json:"ready_for_fda_inspection,omitempty"`
	ExecutiveSummary      string `json:"executive_summary,omitempty"`
}

// Finding is one gap or observation tied to a CFR citation.
type Finding struct {
	CFRCitation            string `json:"cfr_citation,omitempty"`
	RequirementDescription string `json:"requirement_description,omitempty"`
	Finding                string `json:"finding,omitempty"`
	Severity               string `json:"severity,omitempty"`
	SeverityJustification  string `json:"severity_justification,omitempty"`
	Evidence               string `json:"evidence,omitempty"`
	RiskToCompliance       string `json:"risk_to_compliance,omitempty"`
	Recommendation         string `json:"recommendation,omitempty"`
	RegulatoryPrecedent    string `json:"regulatory_precedent,omitempty"`
}

// Strength is something the document does well.
type Strength struct {
	CFRCitation string `json:"cfr_citation,omitempty"`
	Description string `json:"description,omitempty"`
}

// PriorityAction is a remediation step. Priority is nil when the model
// omitted it or sent something that is not a number.
type PriorityAction struct {
	Priority        *int   `json:"priority,omitempty"`
	Action          string `json:"action,omitempty"`
	CFRCitation     string `json:"cfr_citation,omitempty"`
	EstimatedEffort string `json:"estimated_effort,omitempty"`
	Impact          string `json:"impact,omitempty"`
}

// InspectionReadiness counts gaps by severity.
type InspectionReadiness struct {
	CriticalGapsCount         *int     `json:"critical_gaps_count,omitempty"`
	MajorGapsCount            *int     `json:"major_gaps_count,omitempty"`
	MinorGapsCount            *int     `json:"minor_gaps_count,omitempty"`
	EstimatedTimeToCompliance string   `json:"estimated_time_to_compliance,omitempty"`
	InspectionRiskAreas       []string `json:"inspection_risk_areas,omitempty"`
}

// Degraded reports whether r is the parse-failure variant.
func (r Result) Degraded() bool {
	return r.Error != ""
}

// UnmarshalJSON accepts the score as a number or a numeric string and the
// readiness flag as a bool or a bool-like string.
func (a *OverallAssessment) UnmarshalJSON(data []byte) error {
	type plain OverallAssessment
	var aux struct {
		plain
		ComplianceScore       json.RawMessage `json:"compliance_score"`
		ReadyForFDAInspection json.RawMessage `json:"ready_for_fda_inspection"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*a = OverallAssessment(aux.plain)
	score, err := looseInt(aux.ComplianceScore)
	if err != nil {
		return fmt.Errorf("compliance_score: %w", err)
	}
	a.ComplianceScore = score
	a.ReadyForFDAInspection = looseBool(aux.ReadyForFDAInspection)
	return nil
}

// UnmarshalJSON accepts priority as a number or a numeric string. Models
// frequently echo the "1|2|3" template literally as a string.
func (p *PriorityAction) UnmarshalJSON(data []byte) error {
	type plain PriorityAction
	var aux struct {
		plain
		Priority json.RawMessage `json:"priority"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*p = PriorityAction(aux.plain)
	prio, err := looseInt(aux.Priority)
	if err != nil {
		// Unusable priorities sort last rather than failing the whole result.
		prio = nil
	}
	p.Priority = prio
	return nil
}

// UnmarshalJSON accepts gap counts as numbers or numeric strings. A count
// that cannot be read is left absent.
func (ir *InspectionReadiness) UnmarshalJSON(data []byte) error {
	type plain InspectionReadiness
	var aux struct {
		plain
		CriticalGapsCount json.RawMessage `json:"critical_gaps_count"`
		MajorGapsCount    json.RawMessage `json:"major_gaps_count"`
		MinorGapsCount    json.RawMessage `json:"minor_gaps_count"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	*ir = InspectionReadiness(aux.plain)
	ir.CriticalGapsCount, _ = looseInt(aux.CriticalGapsCount)
	ir.MajorGapsCount, _ = looseInt(aux.MajorGapsCount)
	ir.MinorGapsCount, _ = looseInt(aux.MinorGapsCount)
	return nil
}

// looseBool decodes true/false, their string forms and yes/no. Anything
// else is treated as absent.
func looseBool(raw json.RawMessage) *bool {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var b bool
	if json.Unmarshal(raw, &b) == nil {
		return &b
	}
	var s string
	if json.Unmarshal(raw, &s) != nil {
		return nil
	}
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "y":
		b = true
	case "false", "no", "n":
		b = false
	default:
		return nil
	}
	return &b
}

// looseInt decodes null, a number or a numeric string such as "42%".
// Fractions round to the nearest integer.
func looseInt(raw json.RawMessage) (*int, error) {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil, nil
	}
	var num json.Number
	if raw[0] == '"' {
		var s string
		if err := json.Unmarshal(raw, &s); err != nil {
			return nil, err
		}
		num = json.Number(strings.TrimSuffix(strings.TrimSpace(s), "%"))
	} else if err := json.Unmarshal(raw, &num); err != nil {
		return nil, err
	}
	if n, err := strconv.Atoi(num.String()); err == nil {
		return &n, nil
	}
	f, err := num.Float64()
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return nil, fmt.Errorf("not a number: %s", raw)
	}
	n := int(math.Round(f))
	return &n, nil
}

// compact drops zero-length collections so absent and empty lists compare
// equal after a JSON round trip.
func (r *Result) compact() {
	if len(r.Findings) == 0 {
		r.Findings = nil
	}
	if len(r.Strengths) == 0 {
		r.Strengths = nil
	}
	if len(r.PriorityActions) == 0 {
		r.PriorityActions = nil
	}
	if r.InspectionReadiness != nil && len(r.InspectionReadiness.InspectionRiskAreas) == 0 {
		r.InspectionReadiness.InspectionRiskAreas = nil
	}
}

func intPtr(v int) *int {
	return &v
}
