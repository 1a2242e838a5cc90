// Package cli implements the validate command line tool.
package cli

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"meddoc-backend/internal/llm"
	"meddoc-backend/internal/llm/provider"
	"meddoc-backend/internal/shared/config"
)

// Exit codes.
const (
	ExitOK       = 0
	ExitFailure  = 1
	ExitBadInput = 2
)

// ExitError carries a process exit code out of a command.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string { return e.Err.Error() }

func (e *ExitError) Unwrap() error { return e.Err }

// Deps are the collaborators a command needs.
type Deps struct {
	Config    func() config.Config
	NewClient func(cfg config.Config) (llm.Client, error)
}

// DefaultDeps reads the environment and selects the configured provider.
func DefaultDeps() Deps {
	return Deps{Config: config.Load, NewClient: provider.New}
}

// NewRootCmd builds the command tree.
func NewRootCmd(deps Deps) *cobra.Command {
	root := &cobra.Command{
		Use:           "validate",
		Short:         "Check quality system documents against FDA 21 CFR Part 820",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newRunCmd(deps), newRegulationsCmd(), newPromptCmd(deps))
	return root
}

// Main runs the tool with args and returns the process exit code.
func Main(args []string, stdout, stderr io.Writer) int {
	return run(DefaultDeps(), args, stdout, stderr)
}

func run(deps Deps, args []string, stdout, stderr io.Writer) int {
	root := NewRootCmd(deps)
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	err := root.Execute()
	if err == nil {
		return ExitOK
	}
	fmt.Fprintf(stderr, "error: %v\n", err)
	var exitErr *ExitError
	if errors.As(err, &exitErr) {
		return exitErr.Code
	}
	return ExitFailure
}
