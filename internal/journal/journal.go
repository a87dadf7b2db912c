// Package journal holds the in-memory view of the mood journal and routes
// every mutation through the persistent store before updating it.
package journal

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/runnerr0/treehole/internal/filter"
	"github.com/runnerr0/treehole/internal/storage"
)

// UnknownCategory is shown for entries whose category no longer exists.
const UnknownCategory = "unknown category"

const (
	defaultMaxTags     = 10
	defaultTitleLength = 20
	defaultColor       = "#6B7280"
)

// Option configures a Journal.
type Option func(*Journal)

// WithLogger sets the logger used for load failures and dropped references.
func WithLogger(l *slog.Logger) Option {
	return func(j *Journal) { j.log = l }
}

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(j *Journal) { j.now = now }
}

// WithIDGenerator replaces the random id source.
func WithIDGenerator(gen func() string) Option {
	return func(j *Journal) { j.newID = gen }
}

// WithMaxTags caps the number of tags per entry. Zero disables the cap.
func WithMaxTags(n int) Option {
	return func(j *Journal) { j.maxTags = n }
}

// WithTitleLength sets how many runes a generated title keeps.
func WithTitleLength(n int) Option {
	return func(j *Journal) { j.titleLen = n }
}

// Draft is the input for a new entry. Title is generated from the content
// when empty and Category falls back to the default category in settings.
type Draft struct {
	Title    string
	Content  string
	Mood     storage.Mood
	Category string
	Weather  storage.Weather
	Location *storage.Location
	Images   []string
	Tags     []string
}

// Journal is the single source of truth the presentation layer reads from.
// Reads never touch the store except GetEntry's fallback; commands write
// through the store first and only update memory after the write succeeded.
type Journal struct {
	store    storage.Store
	log      *slog.Logger
	now      func() time.Time
	newID    func() string
	maxTags  int
	titleLen int

	// cmd serializes commands so store writes and mirror updates stay paired.
	cmd sync.Mutex

	mu         sync.RWMutex
	entries    []storage.Entry
	categories []storage.Category
	settings   *storage.Settings
	loading    bool
	criteria   filter.Criteria
}

// New creates a Journal over store. It starts in the loading state with no
// data until LoadAll succeeds.
func New(store storage.Store, opts ...Option) *Journal {
	j := &Journal{
		store:    store,
		log:      slog.Default(),
		now:      time.Now,
		newID:    uuid.NewString,
		maxTags:  defaultMaxTags,
		titleLen: defaultTitleLength,
		loading:  true,
	}
	for _, opt := range opts {
		opt(j)
	}
	return j
}

// LoadAll replaces the in-memory state with the store's content. The three
// collections are fetched concurrently. On failure the previous state is
// kept, loading is cleared and the error is logged and returned.
func (j *Journal) LoadAll(ctx context.Context) error {
	j.cmd.Lock()
	defer j.cmd.Unlock()
	return j.loadAll(ctx)
}

func (j *Journal) loadAll(ctx context.Context) error {
	j.mu.Lock()
	j.loading = true
	j.mu.Unlock()

	var (
		entries    []storage.Entry
		categories []storage.Category
		settings   *storage.Settings
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		entries, err = j.store.GetAllEntries(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		categories, err = j.store.GetAllCategories(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		settings, err = j.store.GetSettings(gctx)
		return err
	})
	err := g.Wait()

	j.mu.Lock()
	defer j.mu.Unlock()
	j.loading = false
	if err != nil {
		j.log.Error("load journal", "error", err)
		return fmt.Errorf("load journal: %w", err)
	}
	sortEntries(entries)
	j.entries = entries
	j.categories = categories
	j.settings = settings
	return nil
}

// Loading reports whether a load is in progress or has not completed yet.
func (j *Journal) Loading() bool {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.loading
}

// Entries returns every entry, newest first.
func (j *Journal) Entries() []storage.Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]storage.Entry(nil), j.entries...)
}

// Categories returns every category in store order.
func (j *Journal) Categories() []storage.Category {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return append([]storage.Category(nil), j.categories...)
}

// Settings returns the loaded settings, or false if none exist.
func (j *Journal) Settings() (storage.Settings, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	if j.settings == nil {
		return storage.Settings{}, false
	}
	return *j.settings, true
}

// Category returns the category with id from memory.
func (j *Journal) Category(id string) (storage.Category, bool) {
	j.mu.RLock()
	defer j.mu.RUnlock()
	for _, c := range j.categories {
		if c.ID == id {
			return c, true
		}
	}
	return storage.Category{}, false
}

// CategoryName resolves a category id for display. Dangling references
// resolve to UnknownCategory.
func (j *Journal) CategoryName(id string) string {
	if c, ok := j.Category(id); ok {
		return c.Name
	}
	return UnknownCategory
}

// GetEntry returns the entry with id, consulting memory first and the store
// second. A missing entry yields storage.ErrNotFound.
func (j *Journal) GetEntry(ctx context.Context, id string) (*storage.Entry, error) {
	j.mu.RLock()
	for _, e := range j.entries {
		if e.ID == id {
			j.mu.RUnlock()
			return &e, nil
		}
	}
	j.mu.RUnlock()
	return j.store.GetEntry(ctx, id)
}

// CreateEntry validates d, assigns an id and timestamps, persists the entry
// and inserts it into memory.
func (j *Journal) CreateEntry(ctx context.Context, d Draft) (*storage.Entry, error) {
	content, err := validateContent(d.Content)
	if err != nil {
		return nil, err
	}
	if err := validateMood(d.Mood); err != nil {
		return nil, err
	}
	if err := validateWeather(d.Weather); err != nil {
		return nil, err
	}
	if err := validateLocation(d.Location); err != nil {
		return nil, err
	}
	tags, err := NormalizeTags(d.Tags, j.maxTags)
	if err != nil {
		return nil, err
	}
	category := strings.TrimSpace(d.Category)
	if category == "" {
		if s, ok := j.Settings(); ok {
			category = s.DefaultCategory
		}
	}
	if category == "" {
		return nil, invalid("category", "a category must be selected")
	}
	title := strings.TrimSpace(d.Title)
	if title == "" {
		title = GenerateTitle(content, j.titleLen)
	}

	now := j.now().UTC()
	e := storage.Entry{
		ID:        j.newID(),
		Title:     title,
		Content:   content,
		Mood:      d.Mood,
		Category:  category,
		Weather:   d.Weather,
		Images:    append([]string(nil), d.Images...),
		Tags:      tags,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if d.Location != nil {
		loc := *d.Location
		e.Location = &loc
	}

	j.cmd.Lock()
	defer j.cmd.Unlock()
	if err := j.store.CreateEntry(ctx, e); err != nil {
		return nil, err
	}

	j.mu.Lock()
	j.entries = append([]storage.Entry{e}, j.entries...)
	sortEntries(j.entries)
	j.adjustCount(e.Category, +1)
	j.mu.Unlock()
	return &e, nil
}

// UpdateEntry validates and applies patch. It returns nil without error when
// no entry has id.
func (j *Journal) UpdateEntry(ctx context.Context, id string, patch storage.EntryPatch) (*storage.Entry, error) {
	if err := j.normalizePatch(&patch); err != nil {
		return nil, err
	}

	j.cmd.Lock()
	defer j.cmd.Unlock()
	return j.updateEntry(ctx, id, patch)
}

func (j *Journal) updateEntry(ctx context.Context, id string, patch storage.EntryPatch) (*storage.Entry, error) {
	j.mu.RLock()
	var prevCategory string
	for _, e := range j.entries {
		if e.ID == id {
			prevCategory = e.Category
			break
		}
	}
	j.mu.RUnlock()

	updated, err := j.store.UpdateEntry(ctx, id, patch)
	if err != nil || updated == nil {
		return updated, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.entries {
		if j.entries[i].ID != id {
			continue
		}
		// Only loaded entries are mirrored; the next LoadAll picks up the rest.
		j.entries[i] = *updated
		if prevCategory != updated.Category {
			j.adjustCount(prevCategory, -1)
			j.adjustCount(updated.Category, +1)
		}
		break
	}
	return updated, nil
}

func (j *Journal) normalizePatch(p *storage.EntryPatch) error {
	if p.Content != nil {
		content, err := validateContent(*p.Content)
		if err != nil {
			return err
		}
		p.Content = &content
	}
	if p.Title != nil {
		title := strings.TrimSpace(*p.Title)
		if title == "" && p.Content != nil {
			title = GenerateTitle(*p.Content, j.titleLen)
		}
		p.Title = &title
	}
	if p.Mood != nil {
		if err := validateMood(*p.Mood); err != nil {
			return err
		}
	}
	if p.Weather != nil {
		if err := validateWeather(*p.Weather); err != nil {
			return err
		}
	}
	if p.Category != nil {
		c := strings.TrimSpace(*p.Category)
		if c == "" {
			return invalid("category", "a category must be selected")
		}
		p.Category = &c
	}
	if err := validateLocation(p.Location); err != nil {
		return err
	}
	if p.Tags != nil {
		tags, err := NormalizeTags(*p.Tags, j.maxTags)
		if err != nil {
			return err
		}
		p.Tags = &tags
	}
	return nil
}

// DeleteEntry removes the entry with id. Deleting an unknown id is a no-op
// and reports false.
func (j *Journal) DeleteEntry(ctx context.Context, id string) (bool, error) {
	j.cmd.Lock()
	defer j.cmd.Unlock()

	deleted, err := j.store.DeleteEntry(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}

	j.mu.Lock()
	defer j.mu.Unlock()
	for i, e := range j.entries {
		if e.ID == id {
			j.entries = append(j.entries[:i:i], j.entries[i+1:]...)
			j.adjustCount(e.Category, -1)
			break
		}
	}
	return true, nil
}

// adjustCount mirrors the store's record count maintenance. Missing
// categories are skipped and counts never drop below zero. Callers hold mu.
func (j *Journal) adjustCount(categoryID string, delta int) {
	for i := range j.categories {
		if j.categories[i].ID == categoryID {
			n := j.categories[i].RecordCount + delta
			if n < 0 {
				n = 0
			}
			j.categories[i].RecordCount = n
			return
		}
	}
	j.log.Warn("entry references unknown category", "category", categoryID)
}

// CreateCategory adds a category with a fresh id and no entries.
func (j *Journal) CreateCategory(ctx context.Context, name, color string) (*storage.Category, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, invalid("name", "category name must not be empty")
	}
	if color == "" {
		color = defaultColor
	}
	if err := validateColor(color); err != nil {
		return nil, err
	}
	c := storage.Category{
		ID:        j.newID(),
		Name:      name,
		Color:     color,
		CreatedAt: j.now().UTC(),
	}

	j.cmd.Lock()
	defer j.cmd.Unlock()
	if err := j.store.CreateCategory(ctx, c); err != nil {
		return nil, err
	}
	j.mu.Lock()
	j.categories = append(j.categories, c)
	j.mu.Unlock()
	return &c, nil
}

// UpdateCategory renames or recolours a category. It returns nil without
// error when no category has id.
func (j *Journal) UpdateCategory(ctx context.Context, id string, patch storage.CategoryPatch) (*storage.Category, error) {
	if patch.Name != nil {
		name := strings.TrimSpace(*patch.Name)
		if name == "" {
			return nil, invalid("name", "category name must not be empty")
		}
		patch.Name = &name
	}
	if patch.Color != nil {
		if err := validateColor(*patch.Color); err != nil {
			return nil, err
		}
	}

	j.cmd.Lock()
	defer j.cmd.Unlock()
	updated, err := j.store.UpdateCategory(ctx, id, patch)
	if err != nil || updated == nil {
		return updated, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for i := range j.categories {
		if j.categories[i].ID == id {
			j.categories[i] = *updated
			break
		}
	}
	return updated, nil
}

// DeleteCategory removes a category. Entries referencing it are left
// untouched and resolve to UnknownCategory afterwards.
func (j *Journal) DeleteCategory(ctx context.Context, id string) (bool, error) {
	j.cmd.Lock()
	defer j.cmd.Unlock()
	deleted, err := j.store.DeleteCategory(ctx, id)
	if err != nil || !deleted {
		return deleted, err
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	for i, c := range j.categories {
		if c.ID == id {
			j.categories = append(j.categories[:i:i], j.categories[i+1:]...)
			break
		}
	}
	if j.settings != nil && j.settings.DefaultCategory == id {
		j.log.Warn("default category deleted", "category", id)
	}
	return true, nil
}

// UpdateSettings merges patch into the current settings, or into empty
// settings if none exist, and persists the result.
func (j *Journal) UpdateSettings(ctx context.Context, patch storage.SettingsPatch) (storage.Settings, error) {
	j.cmd.Lock()
	defer j.cmd.Unlock()

	current, _ := j.Settings()
	next := patch.Apply(current)
	if next.Theme == "" {
		next.Theme = storage.ThemeAuto
	}
	if next.FontSize == "" {
		next.FontSize = storage.FontMedium
	}
	if err := validateSettings(next); err != nil {
		return storage.Settings{}, err
	}
	if err := j.store.SaveSettings(ctx, next); err != nil {
		return storage.Settings{}, err
	}
	j.mu.Lock()
	j.settings = &next
	j.mu.Unlock()
	return next, nil
}

// RenameTag replaces tag from with to on every entry carrying it and
// returns how many entries changed.
func (j *Journal) RenameTag(ctx context.Context, from, to string) (int, error) {
	to = strings.TrimSpace(to)
	if to == "" {
		return 0, invalid("tag", "new tag must not be empty")
	}
	return j.rewriteTags(ctx, from, func(tags []string) []string {
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if t == from {
				t = to
			}
			out = append(out, t)
		}
		return out
	})
}

// DeleteTag strips tag from every entry carrying it and returns how many
// entries changed.
func (j *Journal) DeleteTag(ctx context.Context, tag string) (int, error) {
	return j.rewriteTags(ctx, tag, func(tags []string) []string {
		out := make([]string, 0, len(tags))
		for _, t := range tags {
			if t != tag {
				out = append(out, t)
			}
		}
		return out
	})
}

func (j *Journal) rewriteTags(ctx context.Context, tag string, rewrite func([]string) []string) (int, error) {
	j.cmd.Lock()
	defer j.cmd.Unlock()

	targets := filter.ByTag(j.Entries(), tag)
	changed := 0
	for _, e := range targets {
		// Normalizing without a cap: renaming never adds tags.
		tags, err := NormalizeTags(rewrite(e.Tags), 0)
		if err != nil {
			return changed, err
		}
		if tags == nil {
			tags = []string{}
		}
		updated, err := j.updateEntry(ctx, e.ID, storage.EntryPatch{Tags: &tags})
		if err != nil {
			return changed, fmt.Errorf("rewrite tags of %s: %w", e.ID, err)
		}
		if updated != nil {
			changed++
		}
	}
	return changed, nil
}

// Export returns the store's full content.
func (j *Journal) Export(ctx context.Context) (*storage.Snapshot, error) {
	return j.store.ExportSnapshot(ctx)
}

// Import replaces the store's content with snap and reloads.
func (j *Journal) Import(ctx context.Context, snap *storage.Snapshot) error {
	j.cmd.Lock()
	defer j.cmd.Unlock()
	if err := j.store.ImportSnapshot(ctx, snap); err != nil {
		return err
	}
	return j.loadAll(ctx)
}

// ClearAll wipes the store back to its defaults and reloads.
func (j *Journal) ClearAll(ctx context.Context) error {
	j.cmd.Lock()
	defer j.cmd.Unlock()
	if err := j.store.ClearAll(ctx); err != nil {
		return err
	}
	return j.loadAll(ctx)
}

// Criteria returns the active filter criteria.
func (j *Journal) Criteria() filter.Criteria {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return j.criteria
}

// SetQuery sets the free-text search.
func (j *Journal) SetQuery(q string) {
	j.setCriteria(func(c *filter.Criteria) { c.Query = q })
}

// SetCategory restricts to a category id; "" clears it.
func (j *Journal) SetCategory(id string) {
	j.setCriteria(func(c *filter.Criteria) { c.Category = id })
}

// SetMood restricts to a mood.
func (j *Journal) SetMood(m filter.MoodFilter) {
	j.setCriteria(func(c *filter.Criteria) { c.Mood = m })
}

// SetWeather restricts to a weather value.
func (j *Journal) SetWeather(w filter.WeatherFilter) {
	j.setCriteria(func(c *filter.Criteria) { c.Weather = w })
}

// SetDateRange restricts creation time to [start, end]. Zero bounds are open.
func (j *Journal) SetDateRange(start, end time.Time) {
	j.setCriteria(func(c *filter.Criteria) {
		c.Start = start
		c.End = end
	})
}

// ClearFilters resets every criterion.
func (j *Journal) ClearFilters() {
	j.setCriteria(func(c *filter.Criteria) { *c = filter.Criteria{} })
}

func (j *Journal) setCriteria(f func(*filter.Criteria)) {
	j.mu.Lock()
	defer j.mu.Unlock()
	f(&j.criteria)
}

// Filtered returns the entries matching the active criteria, newest first.
func (j *Journal) Filtered() []storage.Entry {
	j.mu.RLock()
	defer j.mu.RUnlock()
	return filter.Apply(j.entries, j.criteria)
}

func sortEntries(entries []storage.Entry) {
	sort.SliceStable(entries, func(a, b int) bool {
		return entries[a].CreatedAt.After(entries[b].CreatedAt)
	})
}
