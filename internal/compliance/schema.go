package compliance

import (
	_ "embed"

	"github.com/xeipuuv/gojsonschema"
)

//go:embed schema/result.schema.json
var resultSchemaJSON string

var resultSchemaLoader = gojsonschema.NewStringLoader(resultSchemaJSON)

// Conformance checks a raw reply against the result schema and lists every
// deviation. It is advisory: Normalize accepts non-conforming replies, and
// the issues are only logged and counted.
func Conformance(raw string) []string {
	text := StripFences(raw)
	if !looksLikeObject(text) {
		return []string{"response is not a JSON object"}
	}
	result, err := gojsonschema.Validate(resultSchemaLoader, gojsonschema.NewStringLoader(text))
	if err != nil {
		return []string{err.Error()}
	}
	if result.Valid() {
		return nil
	}
	issues := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		issues = append(issues, desc.String())
	}
	return issues
}
