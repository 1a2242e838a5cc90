package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"meddoc-backend/internal/compliance"
	"meddoc-backend/internal/extract"
	"meddoc-backend/internal/llm"
)

const providerHint = "check LLM_PROVIDER / API key configuration"

type runOptions struct {
	file       string
	regulation string
	detail     string
	format     string
	out        string
}

func newRunCmd(deps Deps) *cobra.Command {
	opts := &runOptions{}
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Validate a document and print the compliance report",
		Long: `Validate a document and print the compliance report.

Exit codes:
  0  report produced (full or degraded)
  1  provider or output failure
  2  unreadable document or no extractable text

Examples:
  validate run --file sop.pdf --regulation "21 CFR 820.75"
  validate run --file sop.docx --regulation 820.80 --detail Comprehensive --format json --out report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runValidate(cmd, deps, opts)
		},
	}
	cmd.Flags().StringVarP(&opts.file, "file", "f", "", "document to validate (PDF, DOCX or text)")
	cmd.Flags().StringVarP(&opts.regulation, "regulation", "r", "", "regulation identifier, e.g. \"21 CFR 820.75\"")
	cmd.Flags().StringVarP(&opts.detail, "detail", "d", string(compliance.DetailStandard), "Basic, Standard or Comprehensive")
	cmd.Flags().StringVar(&opts.format, "format", "text", "text or json")
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "write the report to this path instead of stdout")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("regulation")
	return cmd
}

func runValidate(cmd *cobra.Command, deps Deps, opts *runOptions) error {
	if opts.format != "text" && opts.format != "json" {
		return &ExitError{Code: ExitBadInput, Err: fmt.Errorf("unknown format %q", opts.format)}
	}
	text, err := readDocument(cmd, opts.file)
	if err != nil {
		return err
	}

	cfg := deps.Config()
	client, err := deps.NewClient(cfg)
	if err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("%w (%s)", err, providerHint)}
	}

	v := compliance.NewValidator(client, cfg.MaxDocumentChars)
	result, meta, err := v.Validate(cmd.Context(), compliance.Request{
		DocumentText: text,
		Regulation:   opts.regulation,
		DetailLevel:  compliance.ParseDetailLevel(opts.detail),
	})
	if err != nil {
		switch {
		case errors.Is(err, compliance.ErrNoExtractableText), errors.Is(err, compliance.ErrRegulationRequired):
			return &ExitError{Code: ExitBadInput, Err: err}
		}
		if pe, ok := llm.AsProviderError(err); ok {
			return &ExitError{Code: ExitFailure, Err: fmt.Errorf("provider error [%s]: %w (%s)", pe.Category, err, providerHint)}
		}
		return &ExitError{Code: ExitFailure, Err: err}
	}

	if meta.Truncated {
		fmt.Fprintf(cmd.ErrOrStderr(), "warning: document truncated to %d characters\n", meta.DocumentChars)
	}
	if result.Degraded() {
		fmt.Fprintln(cmd.ErrOrStderr(), "warning: model response was not valid JSON; showing raw analysis")
	}

	var body []byte
	if opts.format == "json" {
		body, err = compliance.ToJSON(result)
		if err != nil {
			return &ExitError{Code: ExitFailure, Err: err}
		}
		body = append(body, '\n')
	} else {
		body = []byte(compliance.FormatText(result) + "\n")
	}

	if opts.out == "" {
		_, err = cmd.OutOrStdout().Write(body)
		return err
	}
	if err := os.WriteFile(opts.out, body, 0o644); err != nil {
		return &ExitError{Code: ExitFailure, Err: fmt.Errorf("write report: %w", err)}
	}
	fmt.Fprintf(cmd.ErrOrStderr(), "report written to %s\n", opts.out)
	return nil
}

func readDocument(cmd *cobra.Command, path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", &ExitError{Code: ExitBadInput, Err: fmt.Errorf("read document: %w", err)}
	}
	name := filepath.Base(path)
	mimeType := extract.NormalizeMimeType("", name, data)
	text, err := extract.ExtractTextFromBytes(cmd.Context(), data, mimeType, name)
	if err != nil {
		if errors.Is(err, extract.ErrNoText) {
			fmt.Fprintf(cmd.ErrOrStderr(), "warning: %s contains no extractable text\n", name)
		}
		return "", &ExitError{Code: ExitBadInput, Err: err}
	}
	return text, nil
}
