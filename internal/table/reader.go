package table

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Read decodes an uploaded table file into raw rows, header row first.
// The format is chosen by the filename extension: .xlsx/.xlsm are read as
// spreadsheets (first sheet only), .csv as comma-separated text.
func Read(filename string, data []byte) ([][]string, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".xlsx", ".xlsm":
		return readSpreadsheet(data)
	case ".csv":
		return readCSV(data)
	default:
		return nil, fmt.Errorf("unsupported table format %q (expected .xlsx or .csv)", filepath.Ext(filename))
	}
}

func readSpreadsheet(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("failed to open spreadsheet: %w", err)
	}
	defer func() {
		_ = f.Close()
	}()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, fmt.Errorf("spreadsheet has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheet, err)
	}

	return rows, nil
}

func readCSV(data []byte) ([][]string, error) {
	// Excel exports prepend a UTF-8 BOM, which would otherwise glue itself
	// to the first header name and fail schema validation.
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))

	reader := csv.NewReader(bytes.NewReader(data))
	// Rows may be ragged; the validator pads short rows with empty cells.
	reader.FieldsPerRecord = -1

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to parse CSV: %w", err)
	}

	return rows, nil
}
