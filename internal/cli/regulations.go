package cli

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"

	"meddoc-backend/internal/regulations"
)

func newRegulationsCmd() *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "regulations",
		Short: "List the regulations with a dedicated prompt",
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()
			if asJSON {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(regulations.All())
			}
			for _, spec := range regulations.All() {
				fmt.Fprintf(out, "%s\n  %s (%d subsections)\n", spec.Key, spec.Citation, len(spec.Subsections))
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "print the full catalog as JSON")
	return cmd
}
