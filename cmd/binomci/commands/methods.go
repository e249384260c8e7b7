package commands

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binomci/internal/observability"
	"github.com/Sumatoshi-tech/binomci/internal/render"
	"github.com/Sumatoshi-tech/binomci/pkg/proportion"
)

func newMethodsCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "methods",
		Short: "List the interval methods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			rt, err := newRuntime(cmd, root, runtimeOptions{mode: observability.ModeCLI})
			if err != nil {
				return err
			}
			defer rt.close()

			return rt.run(cmd.Context(), "methods", func(context.Context) error {
				return render.Methods(cmd.OutOrStdout(), proportion.Methods(), rt.output)
			})
		},
	}
}
