package parser

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

// TableRange is the bounding box of a sheet's data (0-based, inclusive).
type TableRange struct {
	MinRow int
	MaxRow int
	MinCol int
	MaxCol int
}

// String renders the range in Excel notation (e.g. "B2:F40").
func (r TableRange) String() string {
	start, _ := excelize.CoordinatesToCellName(r.MinCol+1, r.MinRow+1)
	end, _ := excelize.CoordinatesToCellName(r.MaxCol+1, r.MaxRow+1)
	return fmt.Sprintf("%s:%s", start, end)
}

// Width returns the number of columns in the range.
func (r TableRange) Width() int {
	return r.MaxCol - r.MinCol + 1
}

// DetectTable finds the region holding the sheet's data. The first non-empty
// row is the header row; leading blank columns are skipped.
// It returns false when the sheet has no non-empty cells.
func DetectTable(rows [][]string) (TableRange, bool) {
	minRow, maxRow, minCol, maxCol := findDataBounds(rows)
	if minRow < 0 {
		return TableRange{}, false
	}
	return TableRange{MinRow: minRow, MaxRow: maxRow, MinCol: minCol, MaxCol: maxCol}, true
}

// findDataBounds finds the bounding box of non-empty cells.
func findDataBounds(rows [][]string) (minRow, maxRow, minCol, maxCol int) {
	minRow, maxRow = -1, -1
	minCol, maxCol = -1, -1

	for rowIdx, row := range rows {
		for colIdx, cell := range row {
			if cell != "" {
				if minRow < 0 || rowIdx < minRow {
					minRow = rowIdx
				}
				if maxRow < 0 || rowIdx > maxRow {
					maxRow = rowIdx
				}
				if minCol < 0 || colIdx < minCol {
					minCol = colIdx
				}
				if maxCol < 0 || colIdx > maxCol {
					maxCol = colIdx
				}
			}
		}
	}

	return
}
