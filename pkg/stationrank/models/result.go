package models

import (
	"encoding/json"
	"time"
)

// DateLayout is the ISO layout used for dates in JSON output.
const DateLayout = "2006-01-02"

// RankedRow is a source record annotated with its rank and supply completion date.
type RankedRow struct {
	// Rank is the 1-based position within the partition.
	Rank int `json:"rank"`
	// SupplyDate is the derived supply completion date (nil if it cannot be computed).
	SupplyDate *time.Time `json:"-"`
	// Record is the untouched source row.
	Record Record `json:"row"`
}

type rankedRowJSON struct {
	Rank       int    `json:"rank"`
	SupplyDate string `json:"supply_completion_date,omitempty"`
	Record     Record `json:"row"`
}

// MarshalJSON renders SupplyDate as a calendar date.
func (r RankedRow) MarshalJSON() ([]byte, error) {
	out := rankedRowJSON{Rank: r.Rank, Record: r.Record}
	if r.SupplyDate != nil {
		out.SupplyDate = r.SupplyDate.Format(DateLayout)
	}
	return json.Marshal(out)
}

// UnmarshalJSON parses the calendar-date form written by MarshalJSON.
func (r *RankedRow) UnmarshalJSON(data []byte) error {
	var in rankedRowJSON
	if err := json.Unmarshal(data, &in); err != nil {
		return err
	}
	r.Rank = in.Rank
	r.Record = in.Record
	r.SupplyDate = nil
	if in.SupplyDate != "" {
		d, err := time.Parse(DateLayout, in.SupplyDate)
		if err != nil {
			return err
		}
		r.SupplyDate = &d
	}
	return nil
}

// Partition is one independently ranked group of rows (one results tab).
type Partition struct {
	// Label is the work center, or "work center - team" for team subdivisions.
	Label string `json:"label"`
	// WorkCenter is the shared work center value.
	WorkCenter string `json:"work_center"`
	// Team is the team value for team subdivisions, empty otherwise.
	Team string `json:"team,omitempty"`
	// Columns is the ordered list of output column names.
	Columns []string `json:"columns"`
	// Rows holds the ranked rows in rank order.
	Rows []RankedRow `json:"rows"`
}

// Result is the full output of one ranking run.
type Result struct {
	// Source is the input file name (no path), if known.
	Source string `json:"source,omitempty"`
	// Partitions lists partitions in tab order.
	Partitions []Partition `json:"partitions"`
	// Unassigned counts rows that carried no work center.
	Unassigned int `json:"unassigned,omitempty"`
}

// RowCount returns the number of ranked rows across all partitions.
func (r *Result) RowCount() int {
	n := 0
	for _, p := range r.Partitions {
		n += len(p.Rows)
	}
	return n
}
