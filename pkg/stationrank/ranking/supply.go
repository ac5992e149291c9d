// Package ranking orders station rows within work-center partitions.
package ranking

import (
	"time"

	"github.com/stationrank/stationrank-go/pkg/stationrank/columns"
	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

const (
	// QuantityThreshold is the work-order quantity above which supplies
	// need extra lead time.
	QuantityThreshold = 30
	// LargeOrderLeadDays is added to the expected completion date of
	// orders above QuantityThreshold.
	LargeOrderLeadDays = 28
)

// SupplyCompletionDate derives the date supplies for the row are complete.
// It is absent when the row has no usable expected completion date.
func SupplyCompletionDate(rec models.Record) (time.Time, bool) {
	expected, ok := columns.ExpectedDateOf(rec)
	if !ok {
		return time.Time{}, false
	}
	qty, hasQty := columns.QuantityOf(rec)
	return supplyDate(expected, qty, hasQty), true
}

func supplyDate(expected time.Time, qty float64, hasQty bool) time.Time {
	if !hasQty || qty <= QuantityThreshold {
		return expected
	}
	return expected.AddDate(0, 0, LargeOrderLeadDays)
}
