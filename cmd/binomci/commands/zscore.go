package commands

import (
	"context"
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binomci/internal/estimate"
	"github.com/Sumatoshi-tech/binomci/internal/observability"
	"github.com/Sumatoshi-tech/binomci/internal/render"
)

func newZScoreCommand(root *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "zscore [confidence]",
		Short: "Convert a two-sided confidence level into a z-score",
		Long: `Print the standard normal z-score whose two-sided coverage equals the
given confidence level. Without an argument the configured confidence is used.

Examples:
  binomci zscore 0.95
  binomci zscore 0.999 -o json`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			rt, err := newRuntime(cmd, root, runtimeOptions{mode: observability.ModeCLI})
			if err != nil {
				return err
			}
			defer rt.close()

			confidence := rt.cfg.Estimate.Confidence

			if len(args) == 1 {
				confidence, err = strconv.ParseFloat(args[0], 64)
				if err != nil {
					return fmt.Errorf("%w: confidence %q is not a number", estimate.ErrInvalidRequest, args[0])
				}
			}

			return rt.run(cmd.Context(), "zscore", func(context.Context) error {
				res, zErr := estimate.ZScore(confidence)
				if zErr != nil {
					return zErr
				}

				return render.ZScore(cmd.OutOrStdout(), res, rt.output)
			})
		},
	}
}
