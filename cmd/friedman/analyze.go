package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"runtime"
	"strings"

	"gofriedman/adapters/excel"
	"gofriedman/domain/friedman"
	"gofriedman/internal"
	analysis "gofriedman/internal/analysis/friedman"
	"gofriedman/internal/errors"
	"gofriedman/internal/report"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

type analyzeOptions struct {
	ascending    bool
	significance friedman.Significance
	format       report.Format
	sheet        string
	xlsx         string
}

func newAnalyzeCmd(a *app) *cobra.Command {
	var ascending bool
	var alpha float64
	var format, sheet, xlsx string

	cmd := &cobra.Command{
		Use:   "analyze <file>...",
		Short: "Run the Friedman test over CSV or XLSX result files",
		Long: `Run the Friedman test and Nemenyi post-hoc comparisons over one or more files.

Each file holds one row per block and one column per treatment. A first column
named "block" or "dataset" labels the blocks. Files are analysed concurrently
and reported in argument order.

Example: friedman analyze accuracy.csv --alpha 0.10 --format markdown`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := analyzeOptions{
				ascending:    a.cfg.Analysis.Ascending,
				significance: a.cfg.Analysis.Significance,
				format:       a.cfg.Output.Format,
				sheet:        a.cfg.Output.Sheet,
				xlsx:         xlsx,
			}
			flags := cmd.Flags()
			if flags.Changed("ascending") {
				opts.ascending = ascending
			}
			if flags.Changed("alpha") {
				s, err := analysis.ParseSignificance(alpha)
				if err != nil {
					return err
				}
				opts.significance = s
			}
			if flags.Changed("format") {
				f, err := report.ParseFormat(format)
				if err != nil {
					return err
				}
				opts.format = f
			}
			if flags.Changed("sheet") {
				opts.sheet = sheet
			}

			return runAnalyze(cmd.Context(), a.logger, opts, args, cmd.OutOrStdout())
		},
	}

	cmd.Flags().BoolVar(&ascending, "ascending", false, "Rank the lowest score first (errors, runtimes)")
	cmd.Flags().Float64Var(&alpha, "alpha", 0.05, "Nemenyi significance level: 0.05 or 0.10")
	cmd.Flags().StringVar(&format, "format", "text", "Output format: text, markdown, html or json")
	cmd.Flags().StringVar(&sheet, "sheet", "Sheet1", "Worksheet to read from xlsx input")
	cmd.Flags().StringVar(&xlsx, "xlsx", "", "Also write the table and comparisons to this xlsx file")

	return cmd
}

// runAnalyze analyses every file concurrently and renders the reports to w in
// argument order. The first failure cancels the remaining files.
func runAnalyze(ctx context.Context, logger *internal.Logger, opts analyzeOptions, files []string, w io.Writer) error {
	reports := make([]*analysis.Report, len(files))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.NumCPU())
	for i, file := range files {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			r, err := analyzeFile(logger, opts, file)
			if err != nil {
				return errors.Wrapf(err, "%s", file)
			}
			reports[i] = r
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	var outputs []string
	if opts.xlsx != "" {
		outputs = xlsxPaths(opts.xlsx, files)
	}
	for i, r := range reports {
		if len(files) > 1 {
			if i > 0 {
				fmt.Fprintln(w)
			}
			fmt.Fprintf(w, "== %s ==\n", files[i])
		}
		if err := report.Render(w, r, opts.format); err != nil {
			return err
		}
		if outputs != nil {
			if err := excel.WriteReport(outputs[i], r, excel.WithLogger(logger)); err != nil {
				return err
			}
		}
	}
	return nil
}

func analyzeFile(logger *internal.Logger, opts analyzeOptions, file string) (*analysis.Report, error) {
	reader := excel.NewDataReader(file, excel.WithSheet(opts.sheet), excel.WithLogger(logger))
	m, err := reader.ReadMatrix()
	if err != nil {
		return nil, err
	}

	a := analysis.NewFromMatrix(m, analysis.WithLogger(logger.With("file", file)))
	if _, err := a.BuildTable(analysis.BuildOptions{
		Ascending:    opts.ascending,
		Significance: opts.significance,
	}); err != nil {
		return nil, err
	}
	return a.Report()
}

// xlsxPaths gives each input its own workbook when several files are analysed:
// out.xlsx and results/acc.csv become out-acc.xlsx. Inputs sharing a file stem
// also get their argument position (out-acc-1.xlsx, out-acc-2.xlsx).
func xlsxPaths(out string, inputs []string) []string {
	if len(inputs) == 1 {
		return []string{out}
	}

	stems := make([]string, len(inputs))
	seen := make(map[string]int, len(inputs))
	for i, input := range inputs {
		stems[i] = strings.TrimSuffix(filepath.Base(input), filepath.Ext(input))
		seen[stems[i]]++
	}

	ext := filepath.Ext(out)
	base := strings.TrimSuffix(out, ext)
	paths := make([]string, len(inputs))
	for i, stem := range stems {
		if seen[stem] > 1 {
			stem = fmt.Sprintf("%s-%d", stem, i+1)
		}
		paths[i] = base + "-" + stem + ext
	}
	return paths
}
