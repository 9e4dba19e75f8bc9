package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-siggen/pkg/renderers/email"
	"github.com/goliatone/go-siggen/pkg/renderers/tui"
	"github.com/goliatone/go-siggen/pkg/schema"
)

const formatHTML = "html"

func newEditCommand(a *app) *cobra.Command {
	var (
		input    recordInput
		format   string
		output   string
		copyHTML bool
		noReview bool
	)

	cmd := &cobra.Command{
		Use:   "edit",
		Short: "Fill in the signature details interactively",
		Long: `Prompts for each field, starting from the defaults (or --data/--set),
then prints the signature HTML, the record, or copies the HTML with --copy.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			data, err := input.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			specs, err := schema.FieldSpecs(ctx)
			if err != nil {
				return err
			}

			driver := a.prompt
			if driver == nil {
				driver = tui.NewSurveyDriver(cmd.ErrOrStderr())
			}
			format = strings.ToLower(strings.TrimSpace(format))
			editor, err := tui.New(
				tui.WithPromptDriver(driver),
				tui.WithFields(specs),
				tui.WithReview(!noReview),
				tui.WithOutputFormat(tui.ParseOutputFormat(format)),
			)
			if err != nil {
				return err
			}

			data, err = editor.Collect(ctx, data, specs)
			if err != nil {
				return err
			}

			if copyHTML {
				return a.copy(cmd, data)
			}

			if format == formatHTML {
				opts, err := a.renderOptions()
				if err != nil {
					return err
				}
				renderer, err := email.New(email.WithLogoWidth(a.cfg.Logo.Width))
				if err != nil {
					return err
				}
				out, err := renderer.Render(ctx, data, opts)
				if err != nil {
					return err
				}
				return writeOutput(output, out, cmd.OutOrStdout())
			}

			out, err := editor.Serialize(data, specs)
			if err != nil {
				return err
			}
			return writeOutput(output, out, cmd.OutOrStdout())
		},
	}

	input.bind(cmd.Flags())
	cmd.Flags().StringVarP(&format, "format", "f", formatHTML, fmt.Sprintf("output format (%s, json, yaml, pretty)", formatHTML))
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (stdout if empty)")
	cmd.Flags().BoolVar(&copyHTML, "copy", false, "copy the signature HTML to the clipboard instead of printing")
	cmd.Flags().BoolVar(&noReview, "no-review", false, "skip the summary confirmation")
	return cmd
}
