package filter

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/treehole/internal/storage"
)

func day(d int) time.Time {
	return time.Date(2024, 1, d, 12, 0, 0, 0, time.UTC)
}

func sampleEntries() []storage.Entry {
	moods := []storage.Mood{
		storage.MoodHappy, storage.MoodHappy, storage.MoodSad, storage.MoodCalm,
		storage.MoodHappy, storage.MoodSad, storage.MoodCalm,
	}
	entries := make([]storage.Entry, 0, len(moods))
	for i, m := range moods {
		entries = append(entries, storage.Entry{
			ID:        string(rune('a' + i)),
			Content:   "day entry",
			Mood:      m,
			Category:  "life",
			CreatedAt: day(i + 1),
			UpdatedAt: day(i + 1),
		})
	}
	return entries
}

func ids(entries []storage.Entry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func TestApply_NoCriteriaIsIdentity(t *testing.T) {
	entries := sampleEntries()

	got := Apply(entries, Criteria{})
	assert.Equal(t, entries, got)
	assert.False(t, Criteria{}.Active())
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	entries := sampleEntries()
	orig := append([]storage.Entry(nil), entries...)

	mood, err := OnlyMood(storage.MoodSad)
	require.NoError(t, err)
	_ = Apply(entries, Criteria{Mood: mood})

	assert.Equal(t, orig, entries)
}

func TestApply_QueryMatchesTitleContentTags(t *testing.T) {
	entries := []storage.Entry{
		{ID: "title", Title: "Morning RUN", Content: "x"},
		{ID: "content", Content: "went for a run today"},
		{ID: "tag", Content: "x", Tags: []string{"Running"}},
		{ID: "none", Title: "walk", Content: "slow walk", Tags: []string{"park"}},
	}

	got := Apply(entries, Criteria{Query: "run"})
	assert.Equal(t, []string{"title", "content", "tag"}, ids(got))

	// Every output entry matches and no excluded entry does.
	for _, e := range entries {
		in := false
		for _, g := range got {
			if g.ID == e.ID {
				in = true
			}
		}
		hay := strings.ToLower(e.Title + "\x00" + e.Content + "\x00" + strings.Join(e.Tags, "\x00"))
		assert.Equal(t, strings.Contains(hay, "run"), in, "entry %s", e.ID)
	}
}

func TestApply_QueryUnicodeCaseInsensitive(t *testing.T) {
	entries := []storage.Entry{
		{ID: "zh", Content: "今天测试一下"},
		{ID: "de", Content: "ÄRGER"},
	}
	assert.Equal(t, []string{"zh"}, ids(Apply(entries, Criteria{Query: "测试"})))
	assert.Equal(t, []string{"de"}, ids(Apply(entries, Criteria{Query: "ärger"})))
}

func TestApply_Category(t *testing.T) {
	entries := []storage.Entry{
		{ID: "1", Category: "work"},
		{ID: "2", Category: "life"},
		{ID: "3", Category: "work"},
	}
	assert.Equal(t, []string{"1", "3"}, ids(Apply(entries, Criteria{Category: "work"})))
}

func TestApply_MoodAndWeather(t *testing.T) {
	entries := []storage.Entry{
		{ID: "1", Mood: storage.MoodHappy, Weather: storage.WeatherSunny},
		{ID: "2", Mood: storage.MoodHappy, Weather: storage.WeatherRainy},
		{ID: "3", Mood: storage.MoodSad, Weather: storage.WeatherSunny},
		{ID: "4", Mood: storage.MoodHappy},
	}

	happy, err := OnlyMood(storage.MoodHappy)
	require.NoError(t, err)
	sunny, err := OnlyWeather(storage.WeatherSunny)
	require.NoError(t, err)

	assert.Equal(t, []string{"1", "2", "4"}, ids(Apply(entries, Criteria{Mood: happy})))
	assert.Equal(t, []string{"1", "3"}, ids(Apply(entries, Criteria{Weather: sunny})))
	assert.Equal(t, []string{"1"}, ids(Apply(entries, Criteria{Mood: happy, Weather: sunny})))
}

func TestOnlyMood_RejectsUnknown(t *testing.T) {
	_, err := OnlyMood("meh")
	assert.Error(t, err)

	_, err = OnlyWeather(storage.WeatherNone)
	assert.Error(t, err)

	m, ok := AnyMood.Mood()
	assert.False(t, ok)
	assert.Empty(t, m)
}

func TestApply_DateRangeInclusive(t *testing.T) {
	entries := sampleEntries()
	start, end := DayRange(day(3), day(5), time.UTC)

	got := Apply(entries, Criteria{Start: start, End: end})
	require.Len(t, got, 3)
	assert.Equal(t, []string{"c", "d", "e"}, ids(got))
}

func TestApply_ExactBoundsInclusive(t *testing.T) {
	entries := sampleEntries()

	got := Apply(entries, Criteria{Start: day(2), End: day(4)})
	assert.Equal(t, []string{"b", "c", "d"}, ids(got))
}

func TestApply_OpenEndedRange(t *testing.T) {
	entries := sampleEntries()

	assert.Len(t, Apply(entries, Criteria{Start: day(6)}), 2)
	assert.Len(t, Apply(entries, Criteria{End: day(2)}), 2)
}

func TestApply_PreservesOrder(t *testing.T) {
	entries := sampleEntries()
	// reverse to a non-chronological order
	for i, j := 0, len(entries)-1; i < j; i, j = i+1, j-1 {
		entries[i], entries[j] = entries[j], entries[i]
	}

	got := Apply(entries, Criteria{Category: "life"})
	assert.Equal(t, ids(entries), ids(got))
}

func TestByTag(t *testing.T) {
	entries := []storage.Entry{
		{ID: "1", Tags: []string{"Work", "gym"}},
		{ID: "2", Tags: []string{"work"}},
		{ID: "3"},
	}
	assert.Equal(t, []string{"2"}, ids(ByTag(entries, "work")), "tags are case-sensitive")
	assert.Empty(t, ByTag(entries, "none"))
}
