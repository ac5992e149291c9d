// Package models defines data structures for station ranking.
package models

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"
)

// Record is a single spreadsheet row keyed by its header names.
// Column order is preserved as declared by the source sheet.
type Record struct {
	// Columns lists header names in sheet order.
	Columns []string
	// Values maps header name to a raw cell value (string, int64, float64 or nil).
	Values map[string]interface{}
}

// NewRecord builds a Record from parallel header and value slices.
func NewRecord(columns []string, values []interface{}) Record {
	rec := Record{
		Columns: make([]string, 0, len(columns)),
		Values:  make(map[string]interface{}, len(columns)),
	}
	for i, col := range columns {
		var v interface{} = ""
		if i < len(values) {
			v = values[i]
		}
		rec.Set(col, v)
	}
	return rec
}

// Get returns the raw value stored under column and whether the column exists.
func (r Record) Get(column string) (interface{}, bool) {
	if r.Values == nil {
		return nil, false
	}
	v, ok := r.Values[column]
	return v, ok
}

// Has reports whether the record declares column.
func (r Record) Has(column string) bool {
	_, ok := r.Get(column)
	return ok
}

// Set stores value under column, appending the column if it is new.
func (r *Record) Set(column string, value interface{}) {
	if r.Values == nil {
		r.Values = make(map[string]interface{})
	}
	if _, ok := r.Values[column]; !ok {
		r.Columns = append(r.Columns, column)
	}
	r.Values[column] = value
}

// Len returns the number of columns.
func (r Record) Len() int {
	return len(r.Columns)
}

// Text returns the value of column rendered as text, or "" when absent.
func (r Record) Text(column string) string {
	v, _ := r.Get(column)
	return ValueText(v)
}

// IsEmptyValue reports whether v is a missing or blank cell.
func IsEmptyValue(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return true
	case string:
		return t == ""
	}
	return false
}

// ValueText renders a raw cell value as text.
func ValueText(v interface{}) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return t
	case int64:
		return strconv.FormatInt(t, 10)
	case int:
		return strconv.Itoa(t)
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(t)
	default:
		return fmt.Sprint(t)
	}
}

// MarshalJSON encodes the record as a JSON object with keys in column order.
func (r Record) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, col := range r.Columns {
		if i > 0 {
			buf.WriteByte(',')
		}
		key, err := json.Marshal(col)
		if err != nil {
			return nil, err
		}
		buf.Write(key)
		buf.WriteByte(':')
		val, err := json.Marshal(r.Values[col])
		if err != nil {
			return nil, fmt.Errorf("encode column %q: %w", col, err)
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes a JSON object, keeping key order and restoring
// integral numbers as int64.
func (r *Record) UnmarshalJSON(data []byte) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return fmt.Errorf("record: expected object, got %v", tok)
	}

	*r = Record{Values: make(map[string]interface{})}
	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("record: expected key, got %v", tok)
		}
		var raw interface{}
		if err := dec.Decode(&raw); err != nil {
			return fmt.Errorf("record: decode %q: %w", key, err)
		}
		r.Set(key, fromJSONValue(raw))
	}
	_, err = dec.Token()
	return err
}

func fromJSONValue(v interface{}) interface{} {
	n, ok := v.(json.Number)
	if !ok {
		return v
	}
	s := n.String()
	if !strings.ContainsAny(s, ".eE") {
		if i, err := n.Int64(); err == nil {
			return i
		}
	}
	if f, err := n.Float64(); err == nil {
		return f
	}
	return s
}
