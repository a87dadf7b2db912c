package stats

import (
	"fmt"
	"time"

	"github.com/runnerr0/treehole/internal/storage"
)

// Window selects the time span the statistics cover.
type Window string

const (
	WindowWeek  Window = "week"
	WindowMonth Window = "month"
	WindowAll   Window = "all"
)

// ParseWindow converts a user-supplied name into a Window.
func ParseWindow(s string) (Window, error) {
	switch Window(s) {
	case WindowWeek, WindowMonth, WindowAll:
		return Window(s), nil
	default:
		return "", fmt.Errorf("unknown window %q (use week, month or all)", s)
	}
}

// Start returns the first instant of the window containing now, in now's
// location. Weeks start on Monday. WindowAll has no start and reports false.
func (w Window) Start(now time.Time) (time.Time, bool) {
	y, m, d := now.Date()
	switch w {
	case WindowWeek:
		offset := (int(now.Weekday()) + 6) % 7
		return time.Date(y, m, d-offset, 0, 0, 0, 0, now.Location()), true
	case WindowMonth:
		return time.Date(y, m, 1, 0, 0, 0, 0, now.Location()), true
	default:
		return time.Time{}, false
	}
}

// InWindow returns the entries created at or after the window's start. There
// is no upper bound. Input order is kept.
func InWindow(entries []storage.Entry, w Window, now time.Time) []storage.Entry {
	start, ok := w.Start(now)
	out := make([]storage.Entry, 0, len(entries))
	for _, e := range entries {
		if ok && e.CreatedAt.Before(start) {
			continue
		}
		out = append(out, e)
	}
	return out
}
