// Package render writes estimation results as tables, JSON, or YAML.
package render

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math/big"
	"strconv"

	"github.com/dustin/go-humanize"
	"github.com/fatih/color"
	"github.com/jedib0t/go-pretty/v6/table"
	"gopkg.in/yaml.v3"

	"github.com/Sumatoshi-tech/binomci/internal/config"
	"github.com/Sumatoshi-tech/binomci/internal/estimate"
	"github.com/Sumatoshi-tech/binomci/pkg/proportion"
)

// ErrUnknownFormat is returned for an output format other than table, json, or yaml.
var ErrUnknownFormat = errors.New("unknown output format")

const (
	yamlIndent = 2
	percent    = 100

	titleResult  = "Binomial proportion interval"
	titleZScore  = "Two-sided z-score"
	titleMethods = "Interval methods"
)

// Options controls how values are written.
type Options struct {
	Format    string
	Precision int
	Color     bool
}

// OptionsFrom builds Options from the output configuration section.
func OptionsFrom(cfg config.OutputConfig) Options {
	return Options{Format: cfg.Format, Precision: cfg.Precision, Color: cfg.Color}
}

// Result writes one estimation result.
func Result(w io.Writer, res estimate.Result, opts Options) error {
	return write(w, res, opts, func() string { return resultTable(res, opts) })
}

// ZScore writes a confidence level and its z-score.
func ZScore(w io.Writer, res estimate.ZScoreResult, opts Options) error {
	return write(w, res, opts, func() string {
		tbl := newTable()
		tbl.AppendRow(table.Row{"Confidence", formatPercent(float64(res.Confidence), opts.Precision)})
		tbl.AppendRow(table.Row{"z", formatFloat(float64(res.Z), opts.Precision)})

		return titled(titleZScore, tbl, opts)
	})
}

// MethodInfo describes one estimator in machine-readable output.
type MethodInfo struct {
	Name        string `json:"name"        yaml:"name"`
	Description string `json:"description" yaml:"description"`
}

// Methods writes the available estimators.
func Methods(w io.Writer, methods []proportion.Method, opts Options) error {
	infos := make([]MethodInfo, 0, len(methods))
	for _, m := range methods {
		infos = append(infos, MethodInfo{Name: m.String(), Description: m.Description()})
	}

	return write(w, infos, opts, func() string {
		tbl := newTable()
		tbl.AppendHeader(table.Row{"Name", "Description"})

		for _, info := range infos {
			tbl.AppendRow(table.Row{info.Name, info.Description})
		}

		return titled(titleMethods, tbl, opts)
	})
}

func write(w io.Writer, value any, opts Options, tableFn func() string) error {
	switch opts.Format {
	case config.FormatTable, "":
		_, err := fmt.Fprintln(w, tableFn())
		if err != nil {
			return fmt.Errorf("write table: %w", err)
		}

		return nil
	case config.FormatJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")

		err := enc.Encode(value)
		if err != nil {
			return fmt.Errorf("encode json: %w", err)
		}

		return nil
	case config.FormatYAML:
		enc := yaml.NewEncoder(w)
		enc.SetIndent(yamlIndent)

		err := enc.Encode(value)
		if err != nil {
			return fmt.Errorf("encode yaml: %w", err)
		}

		return enc.Close()
	default:
		return fmt.Errorf("%w: %q", ErrUnknownFormat, opts.Format)
	}
}

func resultTable(res estimate.Result, opts Options) string {
	tbl := newTable()

	tbl.AppendRow(table.Row{"Method", res.Method})
	tbl.AppendRow(table.Row{"Confidence", formatPercent(float64(res.Confidence), opts.Precision)})
	tbl.AppendRow(table.Row{"z", formatFloat(float64(res.Z), opts.Precision)})
	tbl.AppendRow(table.Row{"Sample size", humanize.Commaf(float64(res.Size))})

	if res.Successes != nil {
		tbl.AppendRow(table.Row{"Successes", humanize.BigComma(new(big.Int).SetUint64(*res.Successes))})
	}

	tbl.AppendRow(table.Row{"p̂", formatFloat(float64(res.PHat), opts.Precision)})
	tbl.AppendSeparator()
	tbl.AppendRow(table.Row{"Lower", formatFloat(float64(res.Lower), opts.Precision)})
	tbl.AppendRow(table.Row{"Upper", formatFloat(float64(res.Upper), opts.Precision)})
	tbl.AppendRow(table.Row{"Mean", formatFloat(float64(res.Mean), opts.Precision)})
	tbl.AppendRow(table.Row{"Margin", formatFloat(float64(res.Margin), opts.Precision)})

	return titled(titleResult, tbl, opts)
}

func newTable() table.Writer {
	tbl := table.NewWriter()
	tbl.SetStyle(table.StyleLight)

	return tbl
}

// titled renders the heading on its own line above tbl.
func titled(title string, tbl table.Writer, opts Options) string {
	heading := color.New(color.Bold, color.FgCyan)
	if !opts.Color {
		heading.DisableColor()
	}

	return heading.Sprint(title) + "\n" + tbl.Render()
}

func formatFloat(v float64, precision int) string {
	return strconv.FormatFloat(v, 'f', precision, 64)
}

func formatPercent(v float64, precision int) string {
	return formatFloat(v*percent, max(precision-2, 0)) + "%"
}
