package commands

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binomci/internal/estimate"
	"github.com/Sumatoshi-tech/binomci/internal/observability"
	"github.com/Sumatoshi-tech/binomci/internal/render"
)

const stdinPath = "-"

type estimateOptions struct {
	input      string
	size       float64
	successes  float64
	proportion float64
	method     string
	z          float64
	confidence float64
}

func newEstimateCommand(root *rootOptions) *cobra.Command {
	opts := &estimateOptions{}

	cmd := &cobra.Command{
		Use:   "estimate",
		Short: "Compute a confidence interval for a binomial proportion",
		Long: `Compute a confidence interval from a sample of --size trials with either
--successes successes or an observed --proportion.

The request can also be read as JSON with --input (use - for stdin):
  {"size": 20, "successes": 8, "method": "wilson", "confidence": 0.95}

Examples:
  binomci estimate --size 20 --successes 8
  binomci estimate --size 1000 --proportion 0.12 --method agresti-coull --confidence 0.99
  echo '{"size": 50, "successes": 3}' | binomci estimate --input - -o json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			req, err := opts.request(cmd)
			if err != nil {
				return err
			}

			rt, err := newRuntime(cmd, root, runtimeOptions{mode: observability.ModeCLI})
			if err != nil {
				return err
			}
			defer rt.close()

			return rt.run(cmd.Context(), "estimate", func(ctx context.Context) error {
				res, estErr := rt.estimator.Estimate(ctx, req)
				if estErr != nil {
					return estErr
				}

				return render.Result(cmd.OutOrStdout(), res, rt.output)
			})
		},
	}

	flags := cmd.Flags()
	flags.StringVarP(&opts.input, "input", "i", "", "read a JSON request from a file (- for stdin)")
	flags.Float64VarP(&opts.size, "size", "n", 0, "number of trials")
	flags.Float64VarP(&opts.successes, "successes", "k", 0, "number of successes")
	flags.Float64VarP(&opts.proportion, "proportion", "p", 0, "observed proportion in [0, 1]")
	flags.StringVarP(&opts.method, "method", "m", "", "wald, wilson, wilson-cc or agresti-coull (default from config)")
	flags.Float64Var(&opts.z, "z", 0, "z-score multiplier")
	flags.Float64VarP(&opts.confidence, "confidence", "c", 0, "two-sided confidence level in (0, 1)")

	cmd.MarkFlagsMutuallyExclusive("successes", "proportion")
	cmd.MarkFlagsMutuallyExclusive("z", "confidence")
	cmd.MarkFlagsMutuallyExclusive("input", "size")
	cmd.MarkFlagsMutuallyExclusive("input", "successes")
	cmd.MarkFlagsMutuallyExclusive("input", "proportion")

	return cmd
}

// request builds the estimation request from --input or from the sample flags.
// Method and z flags override the corresponding fields of an input document.
func (o *estimateOptions) request(cmd *cobra.Command) (estimate.Request, error) {
	var (
		req estimate.Request
		err error
	)

	flags := cmd.Flags()

	if o.input != "" {
		req, err = o.readInput(cmd.InOrStdin())
		if err != nil {
			return estimate.Request{}, err
		}
	} else {
		if !flags.Changed("size") {
			return estimate.Request{}, fmt.Errorf("%w: --size is required", estimate.ErrInvalidRequest)
		}

		req.Size = o.size

		if flags.Changed("successes") {
			req.Successes = &o.successes
		}

		if flags.Changed("proportion") {
			req.Proportion = &o.proportion
		}
	}

	if o.method != "" {
		req.Method = o.method
	}

	if flags.Changed("z") {
		req.Z, req.Confidence = &o.z, nil
	}

	if flags.Changed("confidence") {
		req.Z, req.Confidence = nil, &o.confidence
	}

	return req, nil
}

func (o *estimateOptions) readInput(stdin io.Reader) (estimate.Request, error) {
	if o.input == stdinPath {
		return estimate.DecodeRequest(stdin)
	}

	f, err := os.Open(o.input)
	if err != nil {
		return estimate.Request{}, fmt.Errorf("open input: %w", err)
	}
	defer f.Close()

	return estimate.DecodeRequest(f)
}
