package cli

import (
	"github.com/spf13/cobra"

	"github.com/goliatone/go-siggen/pkg/export"
	"github.com/goliatone/go-siggen/pkg/model"
	"github.com/goliatone/go-siggen/pkg/renderers/email"
)

func newCopyCommand(a *app) *cobra.Command {
	var input recordInput

	cmd := &cobra.Command{
		Use:   "copy",
		Short: "Copy the signature HTML to the system clipboard",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			data, err := input.load(cmd.InOrStdin())
			if err != nil {
				return err
			}
			return a.copy(cmd, data)
		},
	}
	input.bind(cmd.Flags())
	return cmd
}

// copy renders data and places it on the clipboard, printing the outcome.
func (a *app) copy(cmd *cobra.Command, data model.SignatureData) error {
	opts, err := a.renderOptions()
	if err != nil {
		return err
	}
	renderer, err := email.New(email.WithLogoWidth(a.cfg.Logo.Width))
	if err != nil {
		return err
	}
	exporter, err := export.New(renderer, a.clipboard,
		export.WithRenderOptions(opts),
		export.WithNotifier(export.WriterNotifier{W: cmd.OutOrStdout()}),
	)
	if err != nil {
		return err
	}
	defer exporter.Close()

	return exporter.Copy(cmd.Context(), data)
}
