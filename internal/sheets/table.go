package sheets

import (
	"fmt"
	"strings"

	"github.com/rotisserie/eris"
)

// Table is one tabular snapshot: a normalized header row plus raw data rows.
// Rows may be ragged; missing trailing cells read as empty strings.
type Table struct {
	Headers []string
	Rows    [][]string

	columns map[string]int
}

// NewTable builds a Table from a raw values grid, treating the first row as
// headers. Header names are normalized to lower snake case so that sheet
// columns line up with the API field names.
func NewTable(values [][]interface{}) (*Table, error) {
	if len(values) == 0 {
		return nil, eris.New("no values found in the sheet response")
	}

	headers := make([]string, 0, len(values[0]))
	columns := make(map[string]int, len(values[0]))
	for idx, cell := range values[0] {
		name := NormalizeHeader(cellString(cell))
		headers = append(headers, name)
		if _, ok := columns[name]; !ok {
			columns[name] = idx
		}
	}

	rows := make([][]string, 0, len(values)-1)
	for _, raw := range values[1:] {
		row := make([]string, len(raw))
		for idx, cell := range raw {
			row[idx] = cellString(cell)
		}
		rows = append(rows, row)
	}

	return &Table{Headers: headers, Rows: rows, columns: columns}, nil
}

// NormalizeHeader canonicalises a header cell: trimmed, lowercased, spaces
// replaced with underscores.
func NormalizeHeader(header string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(header)), " ", "_")
}

// MissingColumns returns the required column names absent from the header row.
func (t *Table) MissingColumns(required []string) []string {
	var missing []string
	for _, name := range required {
		if _, ok := t.columns[name]; !ok {
			missing = append(missing, name)
		}
	}

	return missing
}

// Value returns the trimmed cell value for the named column in the given
// row, or an empty string when the cell is absent.
func (t *Table) Value(row []string, column string) string {
	idx, ok := t.columns[column]
	if !ok || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func cellString(cell interface{}) string {
	if cell == nil {
		return ""
	}
	if s, ok := cell.(string); ok {
		return s
	}

	return fmt.Sprint(cell)
}
