package excel

import (
	"math"

	"gofriedman/domain/friedman"
	analysis "gofriedman/internal/analysis/friedman"
	"gofriedman/internal/errors"

	"github.com/xuri/excelize/v2"
)

// PairwiseSheet is the worksheet WriteReport adds for the Nemenyi comparisons.
const PairwiseSheet = "Nemenyi"

// WriteTable writes the Friedman table to an xlsx file: a header row, one
// "<score> (<rank>)" row per block and the numeric summary rows.
func WriteTable(path string, table *friedman.Table, opts ...Option) error {
	cfg := newConfig(opts)
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cfg.Sheet); err != nil {
		return errors.Wrap(err, "failed to name sheet")
	}
	if err := writeTableSheet(f, cfg.Sheet, table); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	cfg.Logger.Info("wrote Friedman table to %s", path)
	return nil
}

// WriteReport writes the table sheet plus a sheet of pairwise comparisons.
func WriteReport(path string, r *analysis.Report, opts ...Option) error {
	cfg := newConfig(opts)
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", cfg.Sheet); err != nil {
		return errors.Wrap(err, "failed to name sheet")
	}
	if err := writeTableSheet(f, cfg.Sheet, r.Table); err != nil {
		return err
	}
	if _, err := f.NewSheet(PairwiseSheet); err != nil {
		return errors.Wrap(err, "failed to add pairwise sheet")
	}
	if err := writePairwiseSheet(f, r); err != nil {
		return err
	}
	if err := f.SaveAs(path); err != nil {
		return errors.Wrapf(err, "failed to save %s", path)
	}
	cfg.Logger.Info("wrote Friedman report %s to %s", r.ID, path)
	return nil
}

func writeTableSheet(f *excelize.File, sheet string, table *friedman.Table) error {
	header := table.Header()
	if err := setRow(f, sheet, 1, header); err != nil {
		return err
	}

	labels := table.BlockLabels()
	for b := 0; b < table.Blocks(); b++ {
		row := []interface{}{labels[b]}
		for _, c := range table.Row(b) {
			row = append(row, c.String())
		}
		if err := setRow(f, sheet, b+2, row); err != nil {
			return err
		}
	}

	for i, label := range friedman.SummaryLabels {
		values, _ := table.Summary(label)
		row := []interface{}{label}
		for _, v := range values {
			row = append(row, excelValue(v))
		}
		if err := setRow(f, sheet, table.Blocks()+2+i, row); err != nil {
			return err
		}
	}

	return boldHeader(f, sheet)
}

func writePairwiseSheet(f *excelize.File, r *analysis.Report) error {
	if err := setRow(f, PairwiseSheet, 1, []interface{}{"A", "B", "Difference", "Significant"}); err != nil {
		return err
	}
	for i, c := range r.Pairwise.Comparisons() {
		if err := setRow(f, PairwiseSheet, i+2, []interface{}{c.A, c.B, c.Difference, c.Significant}); err != nil {
			return err
		}
	}
	next := len(r.Pairwise.Comparisons()) + 3
	if err := setRow(f, PairwiseSheet, next, []interface{}{"Critical difference", r.CriticalDifference}); err != nil {
		return err
	}
	if err := setRow(f, PairwiseSheet, next+1, []interface{}{"Alpha", r.Significance.Float64()}); err != nil {
		return err
	}
	return boldHeader(f, PairwiseSheet)
}

func setRow[T any](f *excelize.File, sheet string, row int, values []T) error {
	cell, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return errors.Wrap(err, "invalid cell")
	}
	if err := f.SetSheetRow(sheet, cell, &values); err != nil {
		return errors.Wrapf(err, "failed to write row %d of %s", row, sheet)
	}
	return nil
}

func boldHeader(f *excelize.File, sheet string) error {
	style, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		return errors.Wrap(err, "failed to create header style")
	}
	return f.SetRowStyle(sheet, 1, 1, style)
}

// excelValue keeps finite numbers numeric; NaN (std over one block) becomes text.
func excelValue(v float64) interface{} {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return friedman.FormatSummary(v)
	}
	return v
}
