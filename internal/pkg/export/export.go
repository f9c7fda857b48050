// Package export renders report rows as CSV or XLSX. Rows are slices of
// structs tagged with `csv:"..."`.
package export

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/xuri/excelize/v2"
)

type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

const sheetName = "Report"

var ErrUnsupportedFormat = errors.New("unsupported export format")

// ParseFormat accepts "csv" and "xlsx" in any case.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatCSV:
		return FormatCSV, nil
	case FormatXLSX:
		return FormatXLSX, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
}

func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv"
}

// Filename returns base with the format's extension.
func (f Format) Filename(base string) string {
	return base + "." + string(f)
}

// Write marshals rows to w in the given format.
func Write(w io.Writer, format Format, rows any) error {
	switch format {
	case FormatCSV:
		if err := gocsv.Marshal(rows, w); err != nil {
			return fmt.Errorf("failed to write csv: %w", err)
		}
		return nil
	case FormatXLSX:
		return writeXLSX(w, rows)
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
}

func writeXLSX(w io.Writer, rows any) error {
	text, err := gocsv.MarshalString(rows)
	if err != nil {
		return fmt.Errorf("failed to marshal rows: %w", err)
	}
	records, err := csv.NewReader(strings.NewReader(text)).ReadAll()
	if err != nil {
		return fmt.Errorf("failed to read marshalled rows: %w", err)
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return err
	}
	for i, record := range records {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}
		values := make([]any, len(record))
		for j, v := range record {
			values[j] = v
		}
		if err := f.SetSheetRow(sheetName, cell, &values); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	if err := f.Write(w); err != nil {
		return fmt.Errorf("failed to write xlsx: %w", err)
	}
	return nil
}
