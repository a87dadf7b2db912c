// Package stats computes aggregate views over journal entries: mood and
// weather distributions, daily trend buckets, tag frequency and the average
// mood score. All functions are pure and leave their input untouched.
package stats

import (
	"math"
	"sort"
	"time"

	"github.com/runnerr0/treehole/internal/storage"
)

// DateLayout is the key format of daily buckets.
const DateLayout = "2006-01-02"

// DefaultTopTags is the number of tags reported by TagFrequency.
const DefaultTopTags = 10

// moodScores weights the moods that pull the score away from neutral.
var moodScores = map[storage.Mood]float64{
	storage.MoodHappy: 5,
	storage.MoodSad:   2,
	storage.MoodAngry: 1,
}

// neutralScore is used for a mood without a weight.
const neutralScore = 3

// MoodCount is one bar of the mood distribution.
type MoodCount struct {
	Mood       storage.Mood `json:"mood"`
	Count      int          `json:"count"`
	Percentage int          `json:"percentage"`
}

// WeatherCount is one bar of the weather distribution.
type WeatherCount struct {
	Weather    storage.Weather `json:"weather"`
	Count      int             `json:"count"`
	Percentage int             `json:"percentage"`
}

// DailyCount is one day of the trend chart.
type DailyCount struct {
	Date  string       `json:"date"`
	Count int          `json:"count"`
	Mood  storage.Mood `json:"mood"`
}

// TagCount is one row of the tag ranking.
type TagCount struct {
	Tag   string `json:"tag"`
	Count int    `json:"count"`
}

// percentage rounds count/total to the nearest whole percent. A zero total
// yields zero.
func percentage(count, total int) int {
	if total == 0 {
		return 0
	}
	return int(math.Round(float64(count) * 100 / float64(total)))
}

// MoodDistribution counts entries per mood, for the moods present, in the
// order they are first seen.
func MoodDistribution(entries []storage.Entry) []MoodCount {
	counts := map[storage.Mood]int{}
	var order []storage.Mood
	for _, e := range entries {
		if _, ok := counts[e.Mood]; !ok {
			order = append(order, e.Mood)
		}
		counts[e.Mood]++
	}

	out := make([]MoodCount, 0, len(order))
	for _, m := range order {
		out = append(out, MoodCount{
			Mood:       m,
			Count:      counts[m],
			Percentage: percentage(counts[m], len(entries)),
		})
	}
	return out
}

// MostFrequentMood returns the mood with the highest count. Ties go to the
// mood seen first. It reports false for an empty input.
func MostFrequentMood(entries []storage.Entry) (storage.Mood, bool) {
	dist := MoodDistribution(entries)
	if len(dist) == 0 {
		return "", false
	}
	best := dist[0]
	for _, mc := range dist[1:] {
		if mc.Count > best.Count {
			best = mc
		}
	}
	return best.Mood, true
}

// WeatherDistribution counts entries per weather value. All six values are
// always present, zero-filled; percentages are of all entries, including
// those without weather.
func WeatherDistribution(entries []storage.Entry) []WeatherCount {
	counts := map[storage.Weather]int{}
	for _, e := range entries {
		if e.Weather != storage.WeatherNone {
			counts[e.Weather]++
		}
	}

	out := make([]WeatherCount, 0, len(storage.Weathers))
	for _, w := range storage.Weathers {
		out = append(out, WeatherCount{
			Weather:    w,
			Count:      counts[w],
			Percentage: percentage(counts[w], len(entries)),
		})
	}
	return out
}

// DailyCounts buckets entries by their local calendar date in loc, oldest
// day first. Each day's mood is the most frequent one that day; ties go to
// the mood seen first.
func DailyCounts(entries []storage.Entry, loc *time.Location) []DailyCount {
	type bucket struct {
		entries []storage.Entry
	}
	buckets := map[string]*bucket{}
	var dates []string
	for _, e := range entries {
		key := e.CreatedAt.In(loc).Format(DateLayout)
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
			dates = append(dates, key)
		}
		b.entries = append(b.entries, e)
	}
	sort.Strings(dates)

	out := make([]DailyCount, 0, len(dates))
	for _, d := range dates {
		b := buckets[d]
		mood, _ := MostFrequentMood(b.entries)
		out = append(out, DailyCount{Date: d, Count: len(b.entries), Mood: mood})
	}
	return out
}

// TagFrequency counts tag occurrences and returns the top limit tags by
// descending count. Ties keep first-seen order. A non-positive limit
// returns every tag.
func TagFrequency(entries []storage.Entry, limit int) []TagCount {
	counts := map[string]int{}
	var order []string
	for _, e := range entries {
		for _, tag := range e.Tags {
			if _, ok := counts[tag]; !ok {
				order = append(order, tag)
			}
			counts[tag]++
		}
	}

	out := make([]TagCount, 0, len(order))
	for _, tag := range order {
		out = append(out, TagCount{Tag: tag, Count: counts[tag]})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// MoodScore averages the mood weights of entries, rounded to one decimal.
// It is 0 for an empty input.
func MoodScore(entries []storage.Entry) float64 {
	if len(entries) == 0 {
		return 0
	}
	var total float64
	for _, e := range entries {
		score, ok := moodScores[e.Mood]
		if !ok {
			score = neutralScore
		}
		total += score
	}
	return math.Round(total/float64(len(entries))*10) / 10
}

// Summary bundles every aggregation for one window.
type Summary struct {
	Window      Window         `json:"window"`
	Total       int            `json:"total"`
	TopMood     storage.Mood   `json:"topMood,omitempty"`
	MoodScore   float64        `json:"moodScore"`
	Moods       []MoodCount    `json:"moods"`
	Weather     []WeatherCount `json:"weather"`
	Daily       []DailyCount   `json:"daily"`
	Tags        []TagCount     `json:"tags"`
	WindowStart *time.Time     `json:"windowStart,omitempty"`
}

// Summarize computes every aggregation over the entries inside w at now.
// Daily buckets use now's location.
func Summarize(entries []storage.Entry, w Window, now time.Time, topTags int) Summary {
	in := InWindow(entries, w, now)
	top, _ := MostFrequentMood(in)

	s := Summary{
		Window:    w,
		Total:     len(in),
		TopMood:   top,
		MoodScore: MoodScore(in),
		Moods:     MoodDistribution(in),
		Weather:   WeatherDistribution(in),
		Daily:     DailyCounts(in, now.Location()),
		Tags:      TagFrequency(in, topTags),
	}
	if start, ok := w.Start(now); ok {
		s.WindowStart = &start
	}
	return s
}
