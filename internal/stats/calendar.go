package stats

import (
	"time"

	"github.com/runnerr0/treehole/internal/storage"
)

// CalendarDay holds the entries written on one day of a month view.
type CalendarDay struct {
	Date    time.Time       `json:"date"`
	Entries []storage.Entry `json:"entries"`
}

// CalendarMonth returns one CalendarDay per day of month in loc, with the
// entries created that day in input order.
func CalendarMonth(entries []storage.Entry, year int, month time.Month, loc *time.Location) []CalendarDay {
	first := time.Date(year, month, 1, 0, 0, 0, 0, loc)
	days := first.AddDate(0, 1, -1).Day()

	out := make([]CalendarDay, days)
	for i := range out {
		out[i] = CalendarDay{Date: first.AddDate(0, 0, i), Entries: []storage.Entry{}}
	}

	for _, e := range entries {
		local := e.CreatedAt.In(loc)
		if local.Year() != year || local.Month() != month {
			continue
		}
		d := local.Day() - 1
		out[d].Entries = append(out[d].Entries, e)
	}
	return out
}
