package columns

import (
	"strings"
	"time"

	"github.com/stationrank/stationrank-go/pkg/stationrank/models"
	"github.com/stationrank/stationrank-go/pkg/stationrank/parser"
)

// Field is a logical attribute resolved from a row.
type Field string

const (
	WorkCenter   Field = "work_center"
	Team         Field = "team"
	Quantity     Field = "quantity"
	Remaining    Field = "remaining"
	PriorityNote Field = "priority_note"
	ExpectedDate Field = "expected_date"
)

// Fields lists every resolvable field.
var Fields = []Field{WorkCenter, Team, Quantity, Remaining, PriorityNote, ExpectedDate}

// Rule extracts a raw value from a record. The second result is false when
// the rule does not apply to the record.
type Rule func(rec models.Record) (interface{}, bool)

// Rules holds the ordered rule list for each field. The first rule that
// applies wins.
var Rules = map[Field][]Rule{
	WorkCenter:   {FirstNonEmpty(WorkCenterAliases...)},
	Team:         {FirstNonEmpty(TeamAliases...)},
	Quantity:     {QuantityColumn(QuantityTerm, QuantityQualifiers...)},
	Remaining:    {FirstNonEmpty(RemainingAliases...), ContainsAll(RemainingTerms...)},
	PriorityNote: {FirstNonEmpty(PriorityNoteAliases...)},
	ExpectedDate: {FirstNonEmpty(ExpectedDateAliases...)},
}

// Resolve runs the rules for field against rec and returns the raw value.
func Resolve(rec models.Record, field Field) (interface{}, bool) {
	for _, rule := range Rules[field] {
		if v, ok := rule(rec); ok {
			return v, true
		}
	}
	return nil, false
}

// FirstNonEmpty returns the first non-empty value among the named columns.
func FirstNonEmpty(names ...string) Rule {
	return func(rec models.Record) (interface{}, bool) {
		for _, name := range names {
			if v, ok := rec.Get(name); ok && !models.IsEmptyValue(v) {
				return v, true
			}
		}
		return nil, false
	}
}

// ContainsAll returns the value of the first column whose name contains
// every term. Empty values do not apply.
func ContainsAll(terms ...string) Rule {
	return func(rec models.Record) (interface{}, bool) {
		for _, col := range rec.Columns {
			if !containsAll(col, terms) {
				continue
			}
			v, _ := rec.Get(col)
			if models.IsEmptyValue(v) {
				return nil, false
			}
			return v, true
		}
		return nil, false
	}
}

// QuantityColumn matches columns containing term and any qualifier. It picks
// the first match holding a non-empty, non-zero value and otherwise falls back
// to the first match's raw value.
func QuantityColumn(term string, qualifiers ...string) Rule {
	return func(rec models.Record) (interface{}, bool) {
		var matches []string
		for _, col := range rec.Columns {
			if strings.Contains(col, term) && containsAny(col, qualifiers) {
				matches = append(matches, col)
			}
		}
		if len(matches) == 0 {
			return nil, false
		}
		for _, col := range matches {
			v, _ := rec.Get(col)
			if models.IsEmptyValue(v) {
				continue
			}
			if n, ok := parser.ParseNumber(v); ok && n == 0 {
				continue
			}
			return v, true
		}
		v, _ := rec.Get(matches[0])
		return v, true
	}
}

// WorkCenterOf returns the row's work center as text, or "".
func WorkCenterOf(rec models.Record) string {
	v, _ := Resolve(rec, WorkCenter)
	return models.ValueText(v)
}

// TeamOf returns the row's team as text, or "".
func TeamOf(rec models.Record) string {
	v, _ := Resolve(rec, Team)
	return models.ValueText(v)
}

// QuantityOf returns the row's work-order quantity.
func QuantityOf(rec models.Record) (float64, bool) {
	v, ok := Resolve(rec, Quantity)
	if !ok {
		return 0, false
	}
	return parser.ParseNumber(v)
}

// RemainingOf returns the row's remaining-to-execute balance.
func RemainingOf(rec models.Record) (float64, bool) {
	v, ok := Resolve(rec, Remaining)
	if !ok {
		return 0, false
	}
	return parser.ParseNumber(v)
}

// PriorityOf returns the integer embedded in the row's priority note.
func PriorityOf(rec models.Record) (int, bool) {
	v, ok := Resolve(rec, PriorityNote)
	if !ok {
		return 0, false
	}
	return parser.FirstInteger(v)
}

// ExpectedDateOf returns the row's normalized expected completion date.
func ExpectedDateOf(rec models.Record) (time.Time, bool) {
	v, ok := Resolve(rec, ExpectedDate)
	if !ok {
		return time.Time{}, false
	}
	return parser.NormalizeDate(v)
}

// IsExpectedDateColumn reports whether name is an expected completion date header.
func IsExpectedDateColumn(name string) bool {
	return contains(ExpectedDateAliases, name)
}

// IsStandardTimeColumn reports whether name is a standard-time header.
func IsStandardTimeColumn(name string) bool {
	return strings.Contains(name, StandardTimeTerm)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

func containsAll(s string, terms []string) bool {
	for _, term := range terms {
		if !strings.Contains(s, term) {
			return false
		}
	}
	return len(terms) > 0
}

func containsAny(s string, terms []string) bool {
	for _, term := range terms {
		if strings.Contains(s, term) {
			return true
		}
	}
	return false
}
