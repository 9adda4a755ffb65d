// Package export renders query results as CSV or XLSX.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"sort"

	"github.com/xuri/excelize/v2"

	"github.com/kasuganosora/sqlbridge/pkg/domain"
)

// Format selects an export encoding.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat resolves a format name.
func ParseFormat(s string) (Format, error) {
	switch s {
	case "csv", "":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("unsupported export format %q", s)
	}
}

// Write renders the result in the given format.
func Write(w io.Writer, result *domain.QueryResult, format Format) error {
	switch format {
	case FormatXLSX:
		return WriteXLSX(w, result)
	default:
		return WriteCSV(w, result)
	}
}

// WriteCSV writes a header row followed by one record per result row.
func WriteCSV(w io.Writer, result *domain.QueryResult) error {
	writer := csv.NewWriter(w)

	names := columnNames(result)
	if err := writer.Write(names); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	record := make([]string, len(names))
	for _, row := range result.Rows {
		for i, name := range names {
			record[i] = cellString(row[name])
		}
		if err := writer.Write(record); err != nil {
			return fmt.Errorf("write record: %w", err)
		}
	}

	writer.Flush()
	return writer.Error()
}

// WriteXLSX writes the result as a single-sheet workbook with a header row.
func WriteXLSX(w io.Writer, result *domain.QueryResult) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetList()[0]
	names := columnNames(result)

	for i, name := range names {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, name); err != nil {
			return err
		}
	}

	for r, row := range result.Rows {
		for c, name := range names {
			cell, err := excelize.CoordinatesToCellName(c+1, r+2)
			if err != nil {
				return err
			}
			if err := f.SetCellValue(sheet, cell, row[name]); err != nil {
				return err
			}
		}
	}

	return f.Write(w)
}

// columnNames prefers the result's column metadata and falls back to the
// sorted keys of the first row.
func columnNames(result *domain.QueryResult) []string {
	if len(result.Columns) > 0 {
		names := make([]string, len(result.Columns))
		for i, c := range result.Columns {
			names[i] = c.Name
		}
		return names
	}
	if len(result.Rows) == 0 {
		return nil
	}
	names := make([]string, 0, len(result.Rows[0]))
	for name := range result.Rows[0] {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func cellString(v interface{}) string {
	if v == nil {
		return ""
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprintf("%v", v)
}
