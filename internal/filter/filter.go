// Package filter derives the visible subset of journal entries from a set of
// search criteria. It never reorders or mutates its input.
package filter

import (
	"fmt"
	"strings"
	"time"

	"github.com/runnerr0/treehole/internal/storage"
)

// MoodFilter constrains entries to a single mood. The zero value matches
// every mood; any other value is one of storage.Moods.
type MoodFilter struct {
	mood storage.Mood
}

// AnyMood matches every entry.
var AnyMood = MoodFilter{}

// OnlyMood returns a filter matching exactly m. It rejects unknown moods.
func OnlyMood(m storage.Mood) (MoodFilter, error) {
	if !m.Valid() {
		return AnyMood, fmt.Errorf("unknown mood %q", m)
	}
	return MoodFilter{mood: m}, nil
}

// Mood returns the selected mood and whether one is selected.
func (f MoodFilter) Mood() (storage.Mood, bool) {
	return f.mood, f.mood != ""
}

func (f MoodFilter) match(m storage.Mood) bool {
	return f.mood == "" || f.mood == m
}

// WeatherFilter constrains entries to a single weather value. The zero value
// matches every entry, including those with no weather recorded.
type WeatherFilter struct {
	weather storage.Weather
}

// AnyWeather matches every entry.
var AnyWeather = WeatherFilter{}

// OnlyWeather returns a filter matching exactly w. It rejects unknown values.
func OnlyWeather(w storage.Weather) (WeatherFilter, error) {
	if !w.Valid() {
		return AnyWeather, fmt.Errorf("unknown weather %q", w)
	}
	return WeatherFilter{weather: w}, nil
}

// Weather returns the selected weather and whether one is selected.
func (f WeatherFilter) Weather() (storage.Weather, bool) {
	return f.weather, f.weather != ""
}

func (f WeatherFilter) match(w storage.Weather) bool {
	return f.weather == "" || f.weather == w
}

// Criteria is the set of active filters. Zero-valued fields are inactive and
// all active fields must match.
type Criteria struct {
	Query    string
	Category string
	Mood     MoodFilter
	Weather  WeatherFilter
	Start    time.Time
	End      time.Time
}

// Active reports whether any criterion is set.
func (c Criteria) Active() bool {
	return c.Query != "" || c.Category != "" || c.Mood != AnyMood ||
		c.Weather != AnyWeather || !c.Start.IsZero() || !c.End.IsZero()
}

// Match reports whether e satisfies every active criterion.
func (c Criteria) Match(e storage.Entry) bool {
	if c.Query != "" && !MatchesQuery(e, c.Query) {
		return false
	}
	if c.Category != "" && e.Category != c.Category {
		return false
	}
	if !c.Mood.match(e.Mood) || !c.Weather.match(e.Weather) {
		return false
	}
	if !c.Start.IsZero() && e.CreatedAt.Before(c.Start) {
		return false
	}
	if !c.End.IsZero() && e.CreatedAt.After(c.End) {
		return false
	}
	return true
}

// MatchesQuery reports whether the title, the content or any tag of e
// contains q, ignoring case. An empty query matches everything.
func MatchesQuery(e storage.Entry, q string) bool {
	if q == "" {
		return true
	}
	q = strings.ToLower(q)
	if strings.Contains(strings.ToLower(e.Title), q) ||
		strings.Contains(strings.ToLower(e.Content), q) {
		return true
	}
	for _, tag := range e.Tags {
		if strings.Contains(strings.ToLower(tag), q) {
			return true
		}
	}
	return false
}

// Apply returns the entries matching c, in input order. With no active
// criteria it returns a copy of the whole input.
func Apply(entries []storage.Entry, c Criteria) []storage.Entry {
	out := make([]storage.Entry, 0, len(entries))
	for _, e := range entries {
		if c.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// ByTag returns the entries carrying tag exactly, in input order.
func ByTag(entries []storage.Entry, tag string) []storage.Entry {
	out := []storage.Entry{}
	for _, e := range entries {
		for _, t := range e.Tags {
			if t == tag {
				out = append(out, e)
				break
			}
		}
	}
	return out
}

// DayRange returns the inclusive bounds covering the calendar days from and
// to in loc, suitable for Criteria.Start and Criteria.End.
func DayRange(from, to time.Time, loc *time.Location) (time.Time, time.Time) {
	start := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	end := time.Date(to.Year(), to.Month(), to.Day(), 0, 0, 0, 0, loc).
		AddDate(0, 0, 1).Add(-time.Nanosecond)
	return start, end
}
