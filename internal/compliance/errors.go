package compliance

import "errors"

var (
	// ErrNoExtractableText means the document yielded no usable text. The
	// provider is never called for such input.
	ErrNoExtractableText = errors.New("no extractable text")

	ErrRegulationRequired = errors.New("regulation is required")
	ErrNoClient           = errors.New("no LLM client configured")
)
