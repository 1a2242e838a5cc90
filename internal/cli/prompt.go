package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"meddoc-backend/internal/compliance"
)

func newPromptCmd(deps Deps) *cobra.Command {
	var file, regulation, detail string
	cmd := &cobra.Command{
		Use:   "prompt",
		Short: "Print the prompt that would be sent for a document, without calling a provider",
		RunE: func(cmd *cobra.Command, args []string) error {
			text, err := readDocument(cmd, file)
			if err != nil {
				return err
			}
			text, truncated := compliance.Truncate(text, deps.Config().MaxDocumentChars)
			if truncated {
				fmt.Fprintln(cmd.ErrOrStderr(), "warning: document truncated")
			}
			prompt := compliance.BuildPrompt(text, regulation, compliance.ParseDetailLevel(detail))
			fmt.Fprintln(cmd.OutOrStdout(), prompt)
			fmt.Fprintf(cmd.ErrOrStderr(), "sha256 %s\n", compliance.PromptHash(prompt))
			return nil
		},
	}
	cmd.Flags().StringVarP(&file, "file", "f", "", "document to read")
	cmd.Flags().StringVarP(&regulation, "regulation", "r", "", "regulation identifier")
	cmd.Flags().StringVarP(&detail, "detail", "d", string(compliance.DetailStandard), "Basic, Standard or Comprehensive")
	_ = cmd.MarkFlagRequired("file")
	_ = cmd.MarkFlagRequired("regulation")
	return cmd
}
