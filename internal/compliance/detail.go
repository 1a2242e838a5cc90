package compliance

import "strings"

// DetailLevel changes only the natural-language qualifier in the prompt.
type DetailLevel string

const (
	DetailBasic         DetailLevel = "Basic"
	DetailStandard      DetailLevel = "Standard"
	DetailComprehensive DetailLevel = "Comprehensive"
)

// ParseDetailLevel is case-insensitive; unknown or empty input yields Standard.
func ParseDetailLevel(raw string) DetailLevel {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "basic":
		return DetailBasic
	case "comprehensive":
		return DetailComprehensive
	default:
		return DetailStandard
	}
}

// DetailLevels lists the accepted levels in display order.
func DetailLevels() []DetailLevel {
	return []DetailLevel{DetailBasic, DetailStandard, DetailComprehensive}
}
