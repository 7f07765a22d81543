package excel

// RawData is a sheet or CSV file as read: a header row and the data rows below
// it, cells trimmed, fully blank rows dropped.
type RawData struct {
	Headers []string   // Column headers
	Rows    [][]string // Data rows, in file order
	Lines   []int      // 1-based file line (or sheet row) of each entry in Rows
}

// Line returns the file line of data row i. Without recorded lines it assumes
// the header is line 1 and no rows were dropped.
func (d *RawData) Line(i int) int {
	if i < len(d.Lines) {
		return d.Lines[i]
	}
	return i + 2
}

// LabelColumns are header names (case-insensitive) that mark the first column
// as block labels instead of a treatment.
var LabelColumns = []string{"block", "dataset"}
