package ranking

import (
	"github.com/stationrank/stationrank-go/pkg/stationrank/columns"
	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

// SupplyCompletionColumn is the synthesized supply completion date column.
const SupplyCompletionColumn = "תאריך סיום אספקות"

// HiddenColumns are never shown in results or exports.
var HiddenColumns = []string{"איש הנדסה", "פעולה", "צוות", "תאור מוצר"}

// OutputColumns returns the visible columns of a partition whose first row is
// first. The supply completion column is placed right after the expected
// completion date column, or appended when there is none.
func OutputColumns(first models.Record) []string {
	out := make([]string, 0, first.Len()+1)
	inserted := first.Has(SupplyCompletionColumn)
	for _, col := range first.Columns {
		if isHidden(col) {
			continue
		}
		out = append(out, col)
		if !inserted && columns.IsExpectedDateColumn(col) {
			out = append(out, SupplyCompletionColumn)
			inserted = true
		}
	}
	if !inserted {
		out = append(out, SupplyCompletionColumn)
	}
	return out
}

func isHidden(col string) bool {
	for _, h := range HiddenColumns {
		if col == h {
			return true
		}
	}
	return false
}
