package ranking

import (
	"math"
	"sort"
	"time"

	"github.com/stationrank/stationrank-go/pkg/stationrank/columns"
	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
)

// BalanceTolerance is the allowed difference between remaining-to-execute
// and quantity for a row to count as fully balanced.
const BalanceTolerance = 1e-4

// sortKey holds the comparator inputs derived from one row.
type sortKey struct {
	quantity     float64
	hasQuantity  bool
	remaining    float64
	hasRemaining bool
	supply       time.Time
	hasSupply    bool
	priority     int
	hasPriority  bool
}

func keyOf(rec models.Record) sortKey {
	var k sortKey
	k.quantity, k.hasQuantity = columns.QuantityOf(rec)
	k.remaining, k.hasRemaining = columns.RemainingOf(rec)
	k.priority, k.hasPriority = columns.PriorityOf(rec)
	if expected, ok := columns.ExpectedDateOf(rec); ok {
		k.supply, k.hasSupply = supplyDate(expected, k.quantity, k.hasQuantity), true
	}
	return k
}

// balanced reports whether the whole work order is still outstanding.
func (k sortKey) balanced() bool {
	return k.hasRemaining && k.hasQuantity && math.Abs(k.remaining-k.quantity) <= BalanceTolerance
}

// compareKeys orders rows by, in turn: balanced first, earlier supply date,
// smaller remaining balance, smaller priority number. Present values sort
// before absent ones at every step.
func compareKeys(a, b sortKey) int {
	if ab, bb := a.balanced(), b.balanced(); ab != bb {
		if ab {
			return -1
		}
		return 1
	}

	if c := comparePresence(a.hasSupply, b.hasSupply); c != 0 {
		return c
	}
	if a.hasSupply && !a.supply.Equal(b.supply) {
		if a.supply.Before(b.supply) {
			return -1
		}
		return 1
	}

	if c := comparePresence(a.hasRemaining, b.hasRemaining); c != 0 {
		return c
	}
	if a.hasRemaining && a.remaining != b.remaining {
		if a.remaining < b.remaining {
			return -1
		}
		return 1
	}

	if c := comparePresence(a.hasPriority, b.hasPriority); c != 0 {
		return c
	}
	if a.hasPriority && a.priority != b.priority {
		if a.priority < b.priority {
			return -1
		}
		return 1
	}

	return 0
}

func comparePresence(a, b bool) int {
	switch {
	case a && !b:
		return -1
	case !a && b:
		return 1
	}
	return 0
}

// Compare orders two rows of the same partition. It returns a negative
// number when a ranks first, positive when b ranks first, zero when tied.
func Compare(a, b models.Record) int {
	return compareKeys(keyOf(a), keyOf(b))
}

// SortRecords returns the rows in rank order. Ties keep their input order.
// The input slice is left untouched.
func SortRecords(records []models.Record) []models.Record {
	keys := make([]sortKey, len(records))
	order := make([]int, len(records))
	for i, rec := range records {
		keys[i] = keyOf(rec)
		order[i] = i
	}

	sort.SliceStable(order, func(i, j int) bool {
		return compareKeys(keys[order[i]], keys[order[j]]) < 0
	})

	out := make([]models.Record, len(records))
	for i, idx := range order {
		out[i] = records[idx]
	}
	return out
}
