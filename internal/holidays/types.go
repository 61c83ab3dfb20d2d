// Package holidays loads and refreshes the public holiday table used by the
// holidays layer.
package holidays

import (
	"encoding/json"
	"strconv"
)

// HolidayEntry is one dated record from the holidays JSON.
type HolidayEntry struct {
	Holiday bool   `json:"holiday"`
	Name    string `json:"name"`
	Wage    int    `json:"wage"`
	Date    string `json:"date"`
	After   *bool  `json:"after,omitempty"`
	Target  string `json:"target,omitempty"`
	Rest    *int   `json:"rest,omitempty"`
}

// UnmarshalJSON accepts "holiday" as either a bool or a string; some
// upstream files carry the holiday name there instead.
func (h *HolidayEntry) UnmarshalJSON(data []byte) error {
	type alias HolidayEntry
	aux := &struct {
		Holiday any `json:"holiday"`
		*alias
	}{alias: (*alias)(h)}
	if err := json.Unmarshal(data, aux); err != nil {
		return err
	}
	switch v := aux.Holiday.(type) {
	case bool:
		h.Holiday = v
	case string:
		h.Holiday = v != ""
	default:
		h.Holiday = false
	}
	return nil
}

// File is the on-disk layout: one block per year.
type File []struct {
	Year    string                   `json:"year"`
	Holiday map[string]*HolidayEntry `json:"holiday"`
}

// Table indexes entries by year ("2024") and then by "MM-DD".
type Table map[string]map[string]*HolidayEntry

// Index converts the file layout into a lookup table.
func (f File) Index() Table {
	t := make(Table, len(f))
	for _, y := range f {
		t[y.Year] = y.Holiday
	}
	return t
}

// Years summarises which years a file covers.
type Years struct {
	Min   int
	Max   int
	Count int
}

// Years reports the year span of t, ignoring malformed keys.
func (t Table) Years() (Years, bool) {
	var ys Years
	for key := range t {
		y, err := strconv.Atoi(key)
		if err != nil {
			continue
		}
		if ys.Count == 0 || y < ys.Min {
			ys.Min = y
		}
		if ys.Count == 0 || y > ys.Max {
			ys.Max = y
		}
		ys.Count++
	}
	return ys, ys.Count > 0
}

// HolidayInfo is what the calendar shows for a dated entry.
type HolidayInfo struct {
	// IsHoliday is false for make-up workdays.
	IsHoliday bool
	Name      string
}
