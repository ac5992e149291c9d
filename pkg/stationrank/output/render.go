// Package output serializes ranking results to JSON, CSV and XLSX.
package output

import (
	"strconv"

	"github.com/stationrank/stationrank-go/pkg/stationrank/columns"
	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/stationrank/stationrank-go/pkg/stationrank/parser"
	"github.com/stationrank/stationrank-go/pkg/stationrank/ranking"
)

// RankColumn is the header of the leading rank column in tabular exports.
const RankColumn = "#"

// Header returns the export header of p: the rank column followed by the
// partition's output columns.
func Header(p models.Partition) []string {
	return append([]string{RankColumn}, p.Columns...)
}

// CellText renders the display text of column for row.
func CellText(row models.RankedRow, column string) string {
	switch {
	case column == RankColumn:
		return strconv.Itoa(row.Rank)
	case column == ranking.SupplyCompletionColumn && row.SupplyDate != nil:
		return parser.FormatDate(*row.SupplyDate)
	case column == ranking.SupplyCompletionColumn:
		return row.Record.Text(column)
	}

	v, _ := row.Record.Get(column)
	switch {
	case columns.IsExpectedDateColumn(column):
		return parser.FormatDateValue(v)
	case columns.IsStandardTimeColumn(column):
		return parser.FormatStandardTime(v)
	}
	return models.ValueText(v)
}

// RowText renders row under header.
func RowText(row models.RankedRow, header []string) []string {
	out := make([]string, len(header))
	for i, col := range header {
		out[i] = CellText(row, col)
	}
	return out
}
