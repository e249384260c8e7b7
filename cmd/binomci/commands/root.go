// Package commands implements the binomci CLI commands.
package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/Sumatoshi-tech/binomci/pkg/version"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	configPath string
	format     string
	precision  int
	noColor    bool
}

// NewRootCommand builds the binomci command tree.
func NewRootCommand() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   "binomci",
		Short: "Confidence intervals for binomial proportions",
		Long: `binomci computes confidence intervals for a binomial proportion.

Commands:
  estimate  Compute an interval from a sample
  zscore    Convert a confidence level to a z-score
  methods   List the interval methods
  mcp       Serve the estimators over the Model Context Protocol`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&opts.configPath, "config", "", "path to a binomci.yaml config file")
	flags.StringVarP(&opts.format, "format", "o", "", "output format: table, json or yaml (default from config)")
	flags.IntVar(&opts.precision, "precision", -1, "digits after the decimal point (default from config)")
	flags.BoolVar(&opts.noColor, "no-color", false, "disable colored output")

	rootCmd.AddCommand(
		newEstimateCommand(opts),
		newZScoreCommand(opts),
		newMethodsCommand(opts),
		newMCPCommand(opts),
		newVersionCommand(),
	)

	return rootCmd
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "binomci %s\n", version.String())

			return err
		},
	}
}
