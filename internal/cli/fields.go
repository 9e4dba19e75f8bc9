package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-siggen/pkg/schema"
)

func newFieldsCommand(_ *app) *cobra.Command {
	return &cobra.Command{
		Use:   "fields",
		Short: "List the signature fields",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			specs, err := schema.FieldSpecs(cmd.Context())
			if err != nil {
				return err
			}
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "FIELD\tLABEL\tTYPE\tDEFAULT\tPLACEHOLDER")
			for _, spec := range specs {
				fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", spec.Name, spec.Label, spec.InputType, spec.Default, spec.Placeholder)
			}
			return w.Flush()
		},
	}
}
