package excel

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"gofriedman/domain/friedman"
	"gofriedman/internal/errors"

	"github.com/xuri/excelize/v2"
)

// DataReader handles reading Excel and CSV measurement files
type DataReader struct {
	filePath string
	fileType string // "xlsx" or "csv"
	config   Config
}

// NewDataReader creates a new data reader that handles both Excel and CSV files
func NewDataReader(filePath string, opts ...Option) *DataReader {
	ext := strings.ToLower(filepath.Ext(filePath))
	fileType := "xlsx"
	if ext == ".csv" {
		fileType = "csv"
	}
	return &DataReader{filePath: filePath, fileType: fileType, config: newConfig(opts)}
}

// ReadMatrix reads the file and converts it into a measurement matrix.
func (r *DataReader) ReadMatrix() (*friedman.MeasurementMatrix, error) {
	data, err := r.ReadData()
	if err != nil {
		return nil, err
	}
	m, err := ToMatrix(data)
	if err != nil {
		return nil, errors.Wrapf(err, "invalid measurements in %s", r.filePath)
	}
	r.config.Logger.Info("read %d blocks x %d treatments from %s", m.Blocks(), m.NumTreatments(), r.filePath)
	return m, nil
}

// ReadData reads the header and data rows from Excel or CSV files
func (r *DataReader) ReadData() (*RawData, error) {
	r.config.Logger.Debug("reading %s file: %s", r.fileType, r.filePath)

	if _, err := os.Stat(r.filePath); os.IsNotExist(err) {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file not found: %s", strings.ToUpper(r.fileType), r.filePath))
	}

	switch r.fileType {
	case "csv":
		return r.readCSVData()
	case "xlsx":
		return r.readExcelData()
	default:
		return nil, errors.InvalidInput(fmt.Sprintf("unsupported file type: %s", r.fileType))
	}
}

// readExcelData reads the configured sheet
func (r *DataReader) readExcelData() (*RawData, error) {
	startTime := time.Now()
	f, err := excelize.OpenFile(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open Excel file")
	}
	defer f.Close()

	rows, err := f.GetRows(r.config.Sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read sheet %q", r.config.Sheet)
	}
	r.config.Logger.Debug("sheet %s read in %.2fms (%d rows)", r.config.Sheet,
		float64(time.Since(startTime).Nanoseconds())/1e6, len(rows))

	lines := make([]int, len(rows))
	for i := range lines {
		lines[i] = i + 1
	}
	return r.processRows(rows, lines)
}

// readCSVData reads CSV data
func (r *DataReader) readCSVData() (*RawData, error) {
	file, err := os.Open(r.filePath)
	if err != nil {
		return nil, errors.Wrap(err, "failed to open CSV file")
	}
	defer file.Close()

	reader := csv.NewReader(file)
	// Ragged rows are reported by processRows with their position.
	reader.FieldsPerRecord = -1
	readStart := time.Now()
	var rows [][]string
	var lines []int
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.WithCode(errors.CodeInvalidInput, fmt.Errorf("failed to read CSV file: %w", err))
		}
		// The reader skips empty lines, so record order alone loses file positions.
		line, _ := reader.FieldPos(0)
		rows = append(rows, record)
		lines = append(lines, line)
	}
	r.config.Logger.Debug("CSV file read in %.2fms (%d rows)",
		float64(time.Since(readStart).Nanoseconds())/1e6, len(rows))

	return r.processRows(rows, lines)
}

// processRows trims cells and drops blank rows. lines holds the file line of
// each row and is carried through for error messages.
func (r *DataReader) processRows(rows [][]string, lines []int) (*RawData, error) {
	var kept [][]string
	var keptLines []int
	for i, row := range rows {
		trimmed := make([]string, len(row))
		blank := true
		for j, cell := range row {
			trimmed[j] = strings.TrimSpace(cell)
			if trimmed[j] != "" {
				blank = false
			}
		}
		if !blank {
			kept = append(kept, trimmed)
			keptLines = append(keptLines, lines[i])
		}
	}

	if len(kept) < 2 {
		return nil, errors.InvalidInput(fmt.Sprintf("%s file must have at least a header row and one data row", strings.ToUpper(r.fileType)))
	}

	return &RawData{
		Headers: kept[0],
		Rows:    kept[1:],
		Lines:   keptLines[1:],
	}, nil
}

// IsLabelColumn reports whether header marks a block label column.
func IsLabelColumn(header string) bool {
	for _, name := range LabelColumns {
		if strings.EqualFold(header, name) {
			return true
		}
	}
	return false
}

// ToMatrix converts raw rows into a measurement matrix. Each column is a
// treatment and each row a block; a leading "block" or "dataset" column
// supplies block labels. Treatments keep their column order.
func ToMatrix(data *RawData) (*friedman.MeasurementMatrix, error) {
	headers := data.Headers
	first := 0
	if len(headers) > 0 && IsLabelColumn(headers[0]) {
		first = 1
	}
	treatments := headers[first:]
	if len(treatments) == 0 {
		return nil, errors.InvalidInput("no treatment columns in header row")
	}

	scores := make(map[string][]float64, len(treatments))
	for _, name := range treatments {
		if _, dup := scores[name]; dup {
			return nil, errors.InvalidInput(fmt.Sprintf("duplicate treatment column %q", name))
		}
		scores[name] = make([]float64, len(data.Rows))
	}

	var labels []string
	for b, row := range data.Rows {
		line := data.Line(b)
		if len(row) > len(headers) {
			return nil, errors.InvalidInput(fmt.Sprintf("row %d has %d cells, header has %d", line, len(row), len(headers)))
		}
		if first == 1 {
			labels = append(labels, cellAt(row, 0))
		}
		for j, name := range treatments {
			cell := cellAt(row, j+first)
			if cell == "" {
				return nil, errors.InvalidInput(fmt.Sprintf("row %d: missing score for %q", line, name))
			}
			v, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, errors.InvalidInput(fmt.Sprintf("row %d: score %q for %q is not a number", line, cell, name))
			}
			scores[name][b] = v
		}
	}

	m, err := friedman.NewMeasurementMatrixOrdered(len(data.Rows), treatments, scores)
	if err != nil {
		return nil, errors.FromDomain(err)
	}
	if labels != nil {
		m, err = m.WithBlockLabels(labels)
		if err != nil {
			return nil, errors.FromDomain(err)
		}
	}
	return m, nil
}

func cellAt(row []string, i int) string {
	if i < len(row) {
		return row[i]
	}
	return ""
}
