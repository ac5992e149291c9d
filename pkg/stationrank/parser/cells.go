package parser

import (
	"math"
	"strconv"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/xuri/excelize/v2"
)

// ReadSheetRecords decodes a sheet into records, using the first non-empty
// row as headers. Cells are read raw so date cells keep their serial value.
func ReadSheetRecords(f *excelize.File, sheetName string) ([]models.Record, error) {
	records, _, _, err := ReadSheetTable(f, sheetName)
	return records, err
}

// ReadSheetTable is ReadSheetRecords that also returns the data region it
// read. The boolean is false for a blank sheet.
func ReadSheetTable(f *excelize.File, sheetName string) ([]models.Record, TableRange, bool, error) {
	rows, err := f.GetRows(sheetName, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, TableRange{}, false, err
	}
	table, ok := DetectTable(rows)
	if !ok {
		return nil, TableRange{}, false, nil
	}
	return tableRecords(rows, table), table, true, nil
}

// RowsToRecords converts a grid of cell text into records. The first
// non-empty row is the header; fully blank rows are skipped and missing
// cells become "".
func RowsToRecords(rows [][]string) []models.Record {
	table, ok := DetectTable(rows)
	if !ok {
		return nil
	}
	return tableRecords(rows, table)
}

func tableRecords(rows [][]string, table TableRange) []models.Record {
	header := BuildHeader(sliceRow(rows[table.MinRow], table.MinCol, table.Width()))

	var result []models.Record
	for rowIdx := table.MinRow + 1; rowIdx <= table.MaxRow; rowIdx++ {
		cells := sliceRow(rows[rowIdx], table.MinCol, table.Width())
		values := make([]interface{}, len(cells))
		hasData := false
		for colIdx, cellValue := range cells {
			if cellValue != "" {
				hasData = true
			}
			values[colIdx] = parseValue(cellValue)
		}
		if !hasData {
			continue
		}
		result = append(result, models.NewRecord(header, values))
	}
	return result
}

// sliceRow returns width cells starting at col, padding short rows with "".
func sliceRow(row []string, col, width int) []string {
	out := make([]string, width)
	for i := 0; i < width; i++ {
		if col+i < len(row) {
			out[i] = row[col+i]
		}
	}
	return out
}

// parseValue attempts to parse a string value as a number.
// Returns int64 for integers, float64 for decimals, or the original string.
func parseValue(s string) interface{} {
	// Try integer first
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	// Try float
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return f
	}
	// Return as string
	return s
}
