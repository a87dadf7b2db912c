package storage

import "time"

// Mood is the subjective state recorded with an entry.
type Mood string

const (
	MoodHappy    Mood = "happy"
	MoodSad      Mood = "sad"
	MoodAngry    Mood = "angry"
	MoodCalm     Mood = "calm"
	MoodExcited  Mood = "excited"
	MoodTired    Mood = "tired"
	MoodAnxious  Mood = "anxious"
	MoodGrateful Mood = "grateful"
)

// Moods lists every mood in display order.
var Moods = []Mood{
	MoodHappy, MoodSad, MoodAngry, MoodCalm,
	MoodExcited, MoodTired, MoodAnxious, MoodGrateful,
}

// Valid reports whether m is one of the known moods.
func (m Mood) Valid() bool {
	for _, v := range Moods {
		if v == m {
			return true
		}
	}
	return false
}

// Weather is the environmental condition recorded with an entry. The zero
// value means no weather was recorded.
type Weather string

const (
	WeatherNone   Weather = ""
	WeatherSunny  Weather = "sunny"
	WeatherCloudy Weather = "cloudy"
	WeatherRainy  Weather = "rainy"
	WeatherSnowy  Weather = "snowy"
	WeatherWindy  Weather = "windy"
	WeatherFoggy  Weather = "foggy"
)

// Weathers lists every recordable weather value in display order.
var Weathers = []Weather{
	WeatherSunny, WeatherCloudy, WeatherRainy,
	WeatherSnowy, WeatherWindy, WeatherFoggy,
}

// Valid reports whether w is one of the known weather values.
// WeatherNone is not valid.
func (w Weather) Valid() bool {
	for _, v := range Weathers {
		if v == w {
			return true
		}
	}
	return false
}

// Location is where an entry was written.
type Location struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
	Address   string  `json:"address,omitempty"`
	City      string  `json:"city,omitempty"`
}

// Entry is a single journal record.
type Entry struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Mood      Mood      `json:"mood"`
	Category  string    `json:"category"`
	Weather   Weather   `json:"weather,omitempty"`
	Location  *Location `json:"location,omitempty"`
	Images    []string  `json:"images,omitempty"`
	Tags      []string  `json:"tags,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Edited reports whether the entry was modified after creation.
func (e Entry) Edited() bool {
	return e.UpdatedAt.After(e.CreatedAt)
}

// EntryPatch carries a partial entry update. Nil fields are left unchanged.
// A Weather pointing at WeatherNone clears the weather and ClearLocation
// removes the location.
type EntryPatch struct {
	Title         *string
	Content       *string
	Mood          *Mood
	Category      *string
	Weather       *Weather
	Location      *Location
	ClearLocation bool
	Images        *[]string
	Tags          *[]string
}

// Apply merges the patch into e and returns the result. Slices are copied.
func (p EntryPatch) Apply(e Entry) Entry {
	if p.Title != nil {
		e.Title = *p.Title
	}
	if p.Content != nil {
		e.Content = *p.Content
	}
	if p.Mood != nil {
		e.Mood = *p.Mood
	}
	if p.Category != nil {
		e.Category = *p.Category
	}
	if p.Weather != nil {
		e.Weather = *p.Weather
	}
	if p.ClearLocation {
		e.Location = nil
	}
	if p.Location != nil {
		loc := *p.Location
		e.Location = &loc
	}
	if p.Images != nil {
		e.Images = cloneStrings(*p.Images)
	}
	if p.Tags != nil {
		e.Tags = cloneStrings(*p.Tags)
	}
	return e
}

// Category is a named, coloured grouping referenced by entries.
type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Color       string    `json:"color"`
	RecordCount int       `json:"recordCount"`
	CreatedAt   time.Time `json:"createdAt"`
}

// CategoryPatch carries a partial category update. RecordCount is not
// patchable; it is maintained by entry writes.
type CategoryPatch struct {
	Name  *string
	Color *string
}

// Theme selects the colour scheme.
type Theme string

const (
	ThemeLight Theme = "light"
	ThemeDark  Theme = "dark"
	ThemeAuto  Theme = "auto"
)

// FontSize selects the text size.
type FontSize string

const (
	FontSmall  FontSize = "small"
	FontMedium FontSize = "medium"
	FontLarge  FontSize = "large"
)

// Settings is the application-wide settings singleton.
type Settings struct {
	Theme               Theme    `json:"theme"`
	FontSize            FontSize `json:"fontSize"`
	EnableNotifications bool     `json:"enableNotifications"`
	EnableLocation      bool     `json:"enableLocation"`
	EnableWeather       bool     `json:"enableWeather"`
	DefaultCategory     string   `json:"defaultCategory,omitempty"`
}

// SettingsPatch carries a partial settings update.
type SettingsPatch struct {
	Theme               *Theme
	FontSize            *FontSize
	EnableNotifications *bool
	EnableLocation      *bool
	EnableWeather       *bool
	DefaultCategory     *string
}

// Apply merges the patch into s and returns the result.
func (p SettingsPatch) Apply(s Settings) Settings {
	if p.Theme != nil {
		s.Theme = *p.Theme
	}
	if p.FontSize != nil {
		s.FontSize = *p.FontSize
	}
	if p.EnableNotifications != nil {
		s.EnableNotifications = *p.EnableNotifications
	}
	if p.EnableLocation != nil {
		s.EnableLocation = *p.EnableLocation
	}
	if p.EnableWeather != nil {
		s.EnableWeather = *p.EnableWeather
	}
	if p.DefaultCategory != nil {
		s.DefaultCategory = *p.DefaultCategory
	}
	return s
}

// Snapshot is the full content of the store, as written to a backup file.
type Snapshot struct {
	Entries    []Entry    `json:"records"`
	Categories []Category `json:"categories"`
	Settings   *Settings  `json:"settings,omitempty"`
}

// Stats holds aggregate figures about the database.
type Stats struct {
	TotalEntries    int64
	TotalCategories int64
	OldestEntry     time.Time
	NewestEntry     time.Time
	Drift           []CategoryDrift
}

// CategoryDrift reports a category whose stored record count disagrees with
// the number of entries referencing it.
type CategoryDrift struct {
	CategoryID string
	Stored     int
	Actual     int
}

func cloneStrings(in []string) []string {
	if in == nil {
		return nil
	}
	out := make([]string, len(in))
	copy(out, in)
	return out
}
