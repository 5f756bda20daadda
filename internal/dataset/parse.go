package dataset

import (
	"encoding/csv"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Parse reads an uploaded file into a Dataset, dispatching on the file
// extension. Supported: .csv, .xlsx, .xls. The first row is the header.
func Parse(filename string, r io.Reader) (*Dataset, error) {
	switch strings.ToLower(filepath.Ext(filename)) {
	case ".csv":
		return parseCSV(filename, r)
	case ".xlsx", ".xls":
		return parseSpreadsheet(filename, r)
	default:
		return nil, fmt.Errorf("unsupported file type %q", filepath.Ext(filename))
	}
}

func parseCSV(filename string, r io.Reader) (*Dataset, error) {
	reader := csv.NewReader(r)
	// FieldsPerRecord stays at its default: ragged rows are a parse error.
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("parse csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse csv: empty file")
	}
	return &Dataset{
		Filename: filename,
		Columns:  records[0],
		Rows:     records[1:],
	}, nil
}

func parseSpreadsheet(filename string, r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("parse spreadsheet: no sheets")
	}
	records, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("parse spreadsheet: empty sheet")
	}

	header := records[0]
	rows := make([][]string, 0, len(records)-1)
	for _, rec := range records[1:] {
		if blankRow(rec) {
			continue
		}
		// excelize trims trailing empty cells per row; pad back to the
		// header width so column indexing stays rectangular.
		for len(rec) < len(header) {
			rec = append(rec, "")
		}
		rows = append(rows, rec)
	}
	return &Dataset{
		Filename: filename,
		Columns:  header,
		Rows:     rows,
	}, nil
}

func blankRow(rec []string) bool {
	for _, cell := range rec {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
