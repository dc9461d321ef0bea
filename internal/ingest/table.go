package ingest

// Table is one imported sheet: a header row plus data rows, as produced by
// the workbook readers. Rows may be ragged (trailing empty cells are dropped
// by the xlsx reader), so cell access is bounds-checked.
type Table struct {
	Headers []string
	Rows    [][]string
}

func (t *Table) cell(row []string, col int) string {
	if col < 0 || col >= len(row) {
		return ""
	}
	return row[col]
}
