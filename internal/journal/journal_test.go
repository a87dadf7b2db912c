package journal

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/treehole/internal/filter"
	"github.com/runnerr0/treehole/internal/storage"
)

func stepClock(start time.Time) func() time.Time {
	var mu sync.Mutex
	t := start
	return func() time.Time {
		mu.Lock()
		defer mu.Unlock()
		t = t.Add(time.Minute)
		return t
	}
}

func seqIDs() func() string {
	var mu sync.Mutex
	n := 0
	return func() string {
		mu.Lock()
		defer mu.Unlock()
		n++
		return fmt.Sprintf("id-%03d", n)
	}
}

func openTestStore(t *testing.T, clock func() time.Time) *storage.SQLiteStore {
	t.Helper()
	db, err := storage.Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	store := storage.NewSQLiteStore(db, storage.WithClock(clock), storage.WithJournalMode(""))
	require.NoError(t, store.Initialize(context.Background()))
	t.Cleanup(func() { store.Close() })
	return store
}

// openTestJournal returns a loaded journal over a fresh in-memory store. The
// store and the journal share one clock.
func openTestJournal(t *testing.T) (*Journal, *storage.SQLiteStore) {
	t.Helper()
	clock := stepClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	store := openTestStore(t, clock)
	j := New(store, WithClock(clock), WithIDGenerator(seqIDs()))
	require.NoError(t, j.LoadAll(context.Background()))
	return j, store
}

func draft(content string, mood storage.Mood, category string) Draft {
	return Draft{Content: content, Mood: mood, Category: category}
}

func mirrorCount(j *Journal, id string) int {
	c, _ := j.Category(id)
	return c.RecordCount
}

// failingStore wraps a real store and fails the configured operations.
type failingStore struct {
	storage.Store
	failCreate   bool
	failCategory bool
	failSettings bool
}

var errBoom = errors.New("boom")

func (f *failingStore) CreateEntry(ctx context.Context, e storage.Entry) error {
	if f.failCreate {
		return errBoom
	}
	return f.Store.CreateEntry(ctx, e)
}

func (f *failingStore) GetAllCategories(ctx context.Context) ([]storage.Category, error) {
	if f.failCategory {
		return nil, errBoom
	}
	return f.Store.GetAllCategories(ctx)
}

func (f *failingStore) SaveSettings(ctx context.Context, s storage.Settings) error {
	if f.failSettings {
		return errBoom
	}
	return f.Store.SaveSettings(ctx, s)
}

// --- LoadAll ---

func TestNew_StartsLoading(t *testing.T) {
	store := openTestStore(t, time.Now)
	j := New(store)
	assert.True(t, j.Loading())
	assert.Empty(t, j.Entries())
}

func TestLoadAll_PopulatesState(t *testing.T) {
	j, _ := openTestJournal(t)

	assert.False(t, j.Loading())
	assert.Empty(t, j.Entries())
	assert.Len(t, j.Categories(), 4)
	s, ok := j.Settings()
	require.True(t, ok)
	assert.Equal(t, storage.ThemeAuto, s.Theme)
}

func TestLoadAll_SortsNewestFirst(t *testing.T) {
	j, store := openTestJournal(t)
	ctx := context.Background()
	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, day := range []int{2, 5, 1} {
		e := storage.Entry{
			ID: fmt.Sprintf("e%d", i), Content: "x", Mood: storage.MoodCalm,
			Category: "work", CreatedAt: base.AddDate(0, 0, day),
		}
		require.NoError(t, store.CreateEntry(ctx, e))
	}
	require.NoError(t, j.LoadAll(ctx))

	var ids []string
	for _, e := range j.Entries() {
		ids = append(ids, e.ID)
	}
	assert.Equal(t, []string{"e1", "e0", "e2"}, ids)
}

func TestLoadAll_FailureKeepsPreviousState(t *testing.T) {
	clock := stepClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	fs := &failingStore{Store: openTestStore(t, clock)}
	j := New(fs, WithClock(clock), WithIDGenerator(seqIDs()))
	ctx := context.Background()
	require.NoError(t, j.LoadAll(ctx))
	_, err := j.CreateEntry(ctx, draft("今天很好", storage.MoodHappy, "life"))
	require.NoError(t, err)

	fs.failCategory = true
	err = j.LoadAll(ctx)
	require.ErrorIs(t, err, errBoom)
	assert.False(t, j.Loading())
	assert.Len(t, j.Entries(), 1)
	assert.Len(t, j.Categories(), 4)
}

func TestLoadAll_RepeatedLoadsAgree(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	for _, c := range []string{"散步", "加班", "失眠"} {
		_, err := j.CreateEntry(ctx, draft(c, storage.MoodTired, "health"))
		require.NoError(t, err)
	}

	require.NoError(t, j.LoadAll(ctx))
	entries, categories := j.Entries(), j.Categories()
	settings, ok := j.Settings()
	require.True(t, ok)

	require.NoError(t, j.LoadAll(ctx))
	assert.Equal(t, entries, j.Entries())
	assert.Equal(t, categories, j.Categories())
	again, ok := j.Settings()
	require.True(t, ok)
	assert.Equal(t, settings, again)
	assert.Len(t, entries, 3)
}

// --- Entries ---

func TestCreateEntry_AssignsIDTimestampsAndTitle(t *testing.T) {
	j, store := openTestJournal(t)
	ctx := context.Background()

	e, err := j.CreateEntry(ctx, Draft{
		Content: "  今天去公园散步，阳光很好，心情也跟着明亮起来了\n第二行  ",
		Mood:    storage.MoodHappy, Category: "life", Weather: storage.WeatherSunny,
		Tags: []string{" 散步 ", "公园", "散步", ""},
	})
	require.NoError(t, err)

	assert.Equal(t, "id-001", e.ID)
	assert.Equal(t, "今天去公园散步，阳光很好，心情也跟着明亮...", e.Title)
	assert.Equal(t, []string{"散步", "公园"}, e.Tags)
	assert.Equal(t, e.CreatedAt, e.UpdatedAt)
	assert.Equal(t, time.UTC, e.CreatedAt.Location())

	stored, err := store.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, e.Content, stored.Content)
	assert.Equal(t, 1, mirrorCount(j, "life"))

	entries := j.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, e.ID, entries[0].ID)
}

func TestCreateEntry_KeepsExplicitTitle(t *testing.T) {
	j, _ := openTestJournal(t)
	e, err := j.CreateEntry(context.Background(), Draft{
		Title: " 周末 ", Content: "休息", Mood: storage.MoodCalm, Category: "life",
	})
	require.NoError(t, err)
	assert.Equal(t, "周末", e.Title)
}

func TestCreateEntry_NewestFirst(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	for _, c := range []string{"first", "second", "third"} {
		_, err := j.CreateEntry(ctx, draft(c, storage.MoodCalm, "work"))
		require.NoError(t, err)
	}
	entries := j.Entries()
	require.Len(t, entries, 3)
	assert.Equal(t, "third", entries[0].Content)
	assert.Equal(t, "first", entries[2].Content)
	assert.Equal(t, 3, mirrorCount(j, "work"))
}

func TestCreateEntry_Validation(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	tooMany := make([]string, 11)
	for i := range tooMany {
		tooMany[i] = fmt.Sprintf("t%d", i)
	}

	tests := []struct {
		name  string
		draft Draft
		field string
	}{
		{"blank content", draft("   \n ", storage.MoodHappy, "work"), "content"},
		{"no mood", draft("x", "", "work"), "mood"},
		{"unknown mood", draft("x", "bored", "work"), "mood"},
		{"no category", draft("x", storage.MoodHappy, ""), "category"},
		{"unknown weather", Draft{Content: "x", Mood: storage.MoodHappy, Category: "work", Weather: "hail"}, "weather"},
		{"too many tags", Draft{Content: "x", Mood: storage.MoodHappy, Category: "work", Tags: tooMany}, "tags"},
		{"bad latitude", Draft{Content: "x", Mood: storage.MoodHappy, Category: "work", Location: &storage.Location{Latitude: 91}}, "location"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := j.CreateEntry(ctx, tt.draft)
			require.ErrorIs(t, err, ErrValidation)
			var ve *ValidationError
			require.ErrorAs(t, err, &ve)
			assert.Equal(t, tt.field, ve.Field)
		})
	}
	assert.Empty(t, j.Entries())
}

func TestCreateEntry_UsesDefaultCategory(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	def := "health"
	_, err := j.UpdateSettings(ctx, storage.SettingsPatch{DefaultCategory: &def})
	require.NoError(t, err)

	e, err := j.CreateEntry(ctx, draft("跑步", storage.MoodTired, ""))
	require.NoError(t, err)
	assert.Equal(t, "health", e.Category)
}

func TestCreateEntry_StoreFailureLeavesMirror(t *testing.T) {
	clock := stepClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	fs := &failingStore{Store: openTestStore(t, clock), failCreate: true}
	j := New(fs, WithClock(clock))
	ctx := context.Background()
	require.NoError(t, j.LoadAll(ctx))

	_, err := j.CreateEntry(ctx, draft("x", storage.MoodHappy, "work"))
	require.ErrorIs(t, err, errBoom)
	assert.Empty(t, j.Entries())
	assert.Equal(t, 0, mirrorCount(j, "work"))
}

func TestGetEntry_FallsBackToStore(t *testing.T) {
	j, store := openTestJournal(t)
	ctx := context.Background()
	require.NoError(t, store.CreateEntry(ctx, storage.Entry{
		ID: "direct", Content: "x", Mood: storage.MoodSad, Category: "emotion",
	}))

	e, err := j.GetEntry(ctx, "direct")
	require.NoError(t, err)
	assert.Equal(t, storage.MoodSad, e.Mood)

	_, err = j.GetEntry(ctx, "missing")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestUpdateEntry_MergesAndMovesCategory(t *testing.T) {
	j, store := openTestJournal(t)
	ctx := context.Background()
	e, err := j.CreateEntry(ctx, draft("原始内容", storage.MoodSad, "work"))
	require.NoError(t, err)

	content := "  新内容  "
	category := "life"
	updated, err := j.UpdateEntry(ctx, e.ID, storage.EntryPatch{Content: &content, Category: &category})
	require.NoError(t, err)
	require.NotNil(t, updated)

	assert.Equal(t, "新内容", updated.Content)
	assert.Equal(t, storage.MoodSad, updated.Mood)
	assert.Equal(t, e.CreatedAt, updated.CreatedAt)
	assert.True(t, updated.UpdatedAt.After(e.UpdatedAt))

	mirrored, err := j.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, *updated, *mirrored)

	assert.Equal(t, 0, mirrorCount(j, "work"))
	assert.Equal(t, 1, mirrorCount(j, "life"))
	c, err := store.GetCategory(ctx, "life")
	require.NoError(t, err)
	assert.Equal(t, 1, c.RecordCount)
}

func TestUpdateEntry_UnknownIDIsNoOp(t *testing.T) {
	j, _ := openTestJournal(t)
	mood := storage.MoodHappy
	updated, err := j.UpdateEntry(context.Background(), "missing", storage.EntryPatch{Mood: &mood})
	require.NoError(t, err)
	assert.Nil(t, updated)
}

func TestUpdateEntry_NotLoadedLeavesMirror(t *testing.T) {
	j, store := openTestJournal(t)
	ctx := context.Background()
	e := storage.Entry{ID: "x", Content: "外部写入", Mood: storage.MoodCalm, Category: "work"}
	require.NoError(t, store.CreateEntry(ctx, e))

	title := "new"
	category := "life"
	updated, err := j.UpdateEntry(ctx, "x", storage.EntryPatch{Title: &title, Category: &category})
	require.NoError(t, err)
	require.NotNil(t, updated)
	assert.Equal(t, "new", updated.Title)

	assert.Empty(t, j.Entries())
	assert.Equal(t, 0, mirrorCount(j, "work"))
	assert.Equal(t, 0, mirrorCount(j, "life"))

	stored, err := store.GetEntry(ctx, "x")
	require.NoError(t, err)
	assert.Equal(t, "life", stored.Category)
}

func TestUpdateEntry_RejectsBlankContent(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	e, err := j.CreateEntry(ctx, draft("原始", storage.MoodSad, "work"))
	require.NoError(t, err)

	blank := " "
	_, err = j.UpdateEntry(ctx, e.ID, storage.EntryPatch{Content: &blank})
	require.ErrorIs(t, err, ErrValidation)

	got, err := j.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "原始", got.Content)
}

func TestDeleteEntry(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	a, err := j.CreateEntry(ctx, draft("a", storage.MoodHappy, "work"))
	require.NoError(t, err)
	_, err = j.CreateEntry(ctx, draft("b", storage.MoodHappy, "work"))
	require.NoError(t, err)

	deleted, err := j.DeleteEntry(ctx, a.ID)
	require.NoError(t, err)
	assert.True(t, deleted)
	assert.Len(t, j.Entries(), 1)
	assert.Equal(t, 1, mirrorCount(j, "work"))

	deleted, err = j.DeleteEntry(ctx, a.ID)
	require.NoError(t, err)
	assert.False(t, deleted)
	assert.Len(t, j.Entries(), 1)
}

// --- Categories ---

func TestCreateCategory(t *testing.T) {
	j, store := openTestJournal(t)
	ctx := context.Background()

	c, err := j.CreateCategory(ctx, " 学习 ", "#8B5CF6")
	require.NoError(t, err)
	assert.Equal(t, "学习", c.Name)
	assert.Equal(t, 0, c.RecordCount)
	assert.Len(t, j.Categories(), 5)

	got, err := store.GetCategory(ctx, c.ID)
	require.NoError(t, err)
	assert.Equal(t, "学习", got.Name)

	_, err = j.CreateCategory(ctx, "", "#8B5CF6")
	assert.ErrorIs(t, err, ErrValidation)
	_, err = j.CreateCategory(ctx, "x", "red")
	assert.ErrorIs(t, err, ErrValidation)

	d, err := j.CreateCategory(ctx, "默认色", "")
	require.NoError(t, err)
	assert.Equal(t, defaultColor, d.Color)
}

func TestUpdateCategory(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	name := "职场"
	c, err := j.UpdateCategory(ctx, "work", storage.CategoryPatch{Name: &name})
	require.NoError(t, err)
	require.NotNil(t, c)
	assert.Equal(t, "职场", j.CategoryName("work"))

	c, err = j.UpdateCategory(ctx, "missing", storage.CategoryPatch{Name: &name})
	require.NoError(t, err)
	assert.Nil(t, c)
}

func TestDeleteCategory_LeavesDanglingEntries(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	e, err := j.CreateEntry(ctx, draft("x", storage.MoodCalm, "health"))
	require.NoError(t, err)

	deleted, err := j.DeleteCategory(ctx, "health")
	require.NoError(t, err)
	assert.True(t, deleted)

	got, err := j.GetEntry(ctx, e.ID)
	require.NoError(t, err)
	assert.Equal(t, "health", got.Category)
	assert.Equal(t, UnknownCategory, j.CategoryName(got.Category))
}

// --- Settings ---

func TestUpdateSettings_Merges(t *testing.T) {
	j, store := openTestJournal(t)
	ctx := context.Background()
	dark := storage.ThemeDark
	s, err := j.UpdateSettings(ctx, storage.SettingsPatch{Theme: &dark})
	require.NoError(t, err)
	assert.Equal(t, storage.ThemeDark, s.Theme)
	assert.Equal(t, storage.FontMedium, s.FontSize)
	assert.True(t, s.EnableNotifications)

	stored, err := store.GetSettings(ctx)
	require.NoError(t, err)
	assert.Equal(t, s, *stored)

	bad := storage.Theme("neon")
	_, err = j.UpdateSettings(ctx, storage.SettingsPatch{Theme: &bad})
	assert.ErrorIs(t, err, ErrValidation)
}

func TestUpdateSettings_FailureKeepsMirror(t *testing.T) {
	clock := stepClock(time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC))
	fs := &failingStore{Store: openTestStore(t, clock), failSettings: true}
	j := New(fs)
	ctx := context.Background()
	require.NoError(t, j.LoadAll(ctx))

	dark := storage.ThemeDark
	_, err := j.UpdateSettings(ctx, storage.SettingsPatch{Theme: &dark})
	require.ErrorIs(t, err, errBoom)
	s, _ := j.Settings()
	assert.Equal(t, storage.ThemeAuto, s.Theme)
}

// --- Tags ---

func TestRenameTag(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	a, err := j.CreateEntry(ctx, Draft{Content: "a", Mood: storage.MoodHappy, Category: "work", Tags: []string{"跑步", "晨练"}})
	require.NoError(t, err)
	_, err = j.CreateEntry(ctx, Draft{Content: "b", Mood: storage.MoodHappy, Category: "work", Tags: []string{"读书"}})
	require.NoError(t, err)

	n, err := j.RenameTag(ctx, "跑步", "晨练")
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := j.GetEntry(ctx, a.ID)
	require.NoError(t, err)
	assert.Equal(t, []string{"晨练"}, got.Tags)

	_, err = j.RenameTag(ctx, "读书", " ")
	assert.ErrorIs(t, err, ErrValidation)
}

func TestDeleteTag(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	for _, c := range []string{"a", "b"} {
		_, err := j.CreateEntry(ctx, Draft{Content: c, Mood: storage.MoodCalm, Category: "life", Tags: []string{"雨天"}})
		require.NoError(t, err)
	}

	n, err := j.DeleteTag(ctx, "雨天")
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	for _, e := range j.Entries() {
		assert.Empty(t, e.Tags)
	}
}

// --- Import / export / clear ---

func TestImportReloads(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	_, err := j.CreateEntry(ctx, draft("old", storage.MoodSad, "work"))
	require.NoError(t, err)

	at := time.Date(2023, 6, 1, 12, 0, 0, 0, time.UTC)
	snap := &storage.Snapshot{
		Entries: []storage.Entry{{
			ID: "imported", Title: "t", Content: "from backup", Mood: storage.MoodGrateful,
			Category: "c1", CreatedAt: at, UpdatedAt: at,
		}},
		Categories: []storage.Category{{ID: "c1", Name: "旅行", Color: "#000000", RecordCount: 1, CreatedAt: at}},
	}
	require.NoError(t, j.Import(ctx, snap))

	entries := j.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, "imported", entries[0].ID)
	assert.Equal(t, "旅行", j.CategoryName("c1"))

	exported, err := j.Export(ctx)
	require.NoError(t, err)
	assert.Len(t, exported.Entries, 1)
}

func TestClearAllReloadsDefaults(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	_, err := j.CreateEntry(ctx, draft("x", storage.MoodSad, "work"))
	require.NoError(t, err)
	_, err = j.CreateCategory(ctx, "extra", "#111111")
	require.NoError(t, err)

	require.NoError(t, j.ClearAll(ctx))
	assert.Empty(t, j.Entries())
	assert.Len(t, j.Categories(), 4)
	assert.Equal(t, 0, mirrorCount(j, "work"))
}

// --- Filters ---

func TestFiltered(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	_, err := j.CreateEntry(ctx, Draft{Content: "Morning run", Mood: storage.MoodHappy, Category: "health", Weather: storage.WeatherSunny})
	require.NoError(t, err)
	_, err = j.CreateEntry(ctx, Draft{Content: "rainy commute", Mood: storage.MoodTired, Category: "work", Weather: storage.WeatherRainy})
	require.NoError(t, err)
	_, err = j.CreateEntry(ctx, Draft{Content: "evening RUN", Mood: storage.MoodCalm, Category: "health"})
	require.NoError(t, err)

	assert.Len(t, j.Filtered(), 3)

	j.SetQuery("run")
	assert.Len(t, j.Filtered(), 2)

	happy, err := filter.OnlyMood(storage.MoodHappy)
	require.NoError(t, err)
	j.SetMood(happy)
	got := j.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "Morning run", got[0].Content)

	j.ClearFilters()
	assert.False(t, j.Criteria().Active())

	rainy, err := filter.OnlyWeather(storage.WeatherRainy)
	require.NoError(t, err)
	j.SetWeather(rainy)
	j.SetCategory("work")
	assert.Len(t, j.Filtered(), 1)

	j.ClearFilters()
	first := j.Entries()[2].CreatedAt
	j.SetDateRange(first, first)
	got = j.Filtered()
	require.Len(t, got, 1)
	assert.Equal(t, "Morning run", got[0].Content)
}

func TestFiltered_KeepsNewestFirst(t *testing.T) {
	j, _ := openTestJournal(t)
	ctx := context.Background()
	for _, c := range []string{"tag a", "tag b", "other", "tag c"} {
		_, err := j.CreateEntry(ctx, draft(c, storage.MoodCalm, "life"))
		require.NoError(t, err)
	}
	j.SetQuery("tag")
	got := j.Filtered()
	require.Len(t, got, 3)
	assert.Equal(t, "tag c", got[0].Content)
	assert.Equal(t, "tag a", got[2].Content)
}
