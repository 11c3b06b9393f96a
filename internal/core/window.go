package core

import "time"

// Window is a predicate over record dates selecting which records take part
// in an aggregation. The two supported selections are "all time" and one
// calendar month; a window is never persisted.
type Window struct {
	year  int
	month time.Month
	all   bool
}

// AllTime returns a window matching every record.
func AllTime() Window {
	return Window{all: true}
}

// MonthOf returns a window matching the calendar month containing t.
func MonthOf(t time.Time) Window {
	return Window{year: t.Year(), month: t.Month()}
}

// Contains reports whether d falls inside the window.
func (w Window) Contains(d Date) bool {
	if w.all {
		return true
	}
	return d.Year() == w.year && d.Time.Month() == w.month
}

// Filter returns the records whose date falls inside the window,
// preserving their relative order.
func (w Window) Filter(records []Record) []Record {
	if w.all {
		return records
	}
	out := make([]Record, 0, len(records))
	for _, r := range records {
		if w.Contains(r.Date) {
			out = append(out, r)
		}
	}
	return out
}
