package table

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns that are absent from the header row.
// Validation is fail-fast: no rows are accepted when the schema does not
// match.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// Validate checks a raw table (header row first) against the required column
// set and converts the data rows into ContactRows. Matching is exact and
// case-sensitive. Every cell is whitespace-trimmed; row order is preserved.
// A table with a valid header and zero data rows is valid and yields an
// empty slice.
func Validate(raw [][]string, required []string) ([]ContactRow, error) {
	var header []string
	if len(raw) > 0 {
		header = raw[0]
	}

	index := make(map[string]int, len(header))
	for i, column := range header {
		name := strings.TrimSpace(column)
		if _, seen := index[name]; !seen {
			index[name] = i
		}
	}

	var missing []string
	for _, column := range required {
		if _, ok := index[column]; !ok {
			missing = append(missing, column)
		}
	}
	if len(missing) > 0 {
		return nil, &SchemaError{Missing: missing}
	}

	if len(raw) == 0 {
		return []ContactRow{}, nil
	}

	rows := make([]ContactRow, 0, len(raw)-1)
	for _, record := range raw[1:] {
		fields := make(map[string]string, len(index))
		for name, pos := range index {
			if pos < len(record) {
				fields[name] = strings.TrimSpace(record[pos])
			} else {
				fields[name] = ""
			}
		}
		rows = append(rows, ContactRow{Fields: fields})
	}

	return rows, nil
}

// Columns returns the trimmed header names of a raw table in source order.
func Columns(raw [][]string) []string {
	if len(raw) == 0 {
		return nil
	}
	columns := make([]string, 0, len(raw[0]))
	for _, column := range raw[0] {
		columns = append(columns, strings.TrimSpace(column))
	}
	return columns
}
