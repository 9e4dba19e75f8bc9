package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	siggen "github.com/goliatone/go-siggen"
	"github.com/goliatone/go-siggen/pkg/renderers/email"
	"github.com/goliatone/go-siggen/pkg/renderers/tui"
	"github.com/goliatone/go-siggen/pkg/schema"
)

func newRenderCommand(a *app) *cobra.Command {
	var (
		input    recordInput
		renderer string
		output   string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the signature HTML",
		Example: `  siggen render --set name="Jane Doe" --set title=Director
  siggen render --data jane.yaml --output signature.html
  siggen render --renderer preview > page.html`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := input.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			opts, err := a.renderOptions()
			if err != nil {
				return err
			}
			specs, err := schema.FieldSpecs(cmd.Context())
			if err != nil {
				return err
			}

			registry, err := siggen.NewRegistry(
				siggen.WithEmailOptions(email.WithLogoWidth(a.cfg.Logo.Width)),
				siggen.WithTUIOptions(tui.WithPromptDriver(a.prompt), tui.WithFields(specs), tui.WithReview(true)),
			)
			if err != nil {
				return err
			}
			r, err := registry.Resolve(renderer)
			if err != nil {
				return fmt.Errorf("cli: %w (available: %v)", err, registry.List())
			}

			out, err := r.Render(cmd.Context(), data, opts)
			if err != nil {
				return err
			}
			return writeOutput(output, out, cmd.OutOrStdout())
		},
	}

	input.bind(cmd.Flags())
	cmd.Flags().StringVarP(&renderer, "renderer", "r", email.Name, "renderer to use (email, preview, tui)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	return cmd
}
