package journal

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/runnerr0/treehole/internal/storage"
)

// ErrValidation matches every ValidationError with errors.Is.
var ErrValidation = errors.New("validation failed")

// ValidationError rejects a command before anything is written.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrValidation) true for any ValidationError.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func invalid(field, format string, args ...any) error {
	return &ValidationError{Field: field, Reason: fmt.Sprintf(format, args...)}
}

var hexColor = regexp.MustCompile(`^#[0-9A-Fa-f]{6}$`)

// GenerateTitle derives a title from the first line of content, cut to
// limit runes with a trailing ellipsis.
func GenerateTitle(content string, limit int) string {
	first, _, _ := strings.Cut(strings.TrimSpace(content), "\n")
	first = strings.TrimSpace(first)
	if limit <= 0 || utf8.RuneCountInString(first) <= limit {
		return first
	}
	runes := []rune(first)
	return string(runes[:limit]) + "..."
}

// NormalizeTags trims tags, drops empty and repeated ones, and keeps input
// order. More than max distinct tags is an error; max <= 0 means no limit.
func NormalizeTags(tags []string, max int) ([]string, error) {
	if len(tags) == 0 {
		return nil, nil
	}
	seen := make(map[string]bool, len(tags))
	out := make([]string, 0, len(tags))
	for _, t := range tags {
		t = strings.TrimSpace(t)
		if t == "" || seen[t] {
			continue
		}
		seen[t] = true
		out = append(out, t)
	}
	if max > 0 && len(out) > max {
		return nil, invalid("tags", "at most %d tags allowed, got %d", max, len(out))
	}
	if len(out) == 0 {
		return nil, nil
	}
	return out, nil
}

func validateMood(m storage.Mood) error {
	if m == "" {
		return invalid("mood", "a mood must be selected")
	}
	if !m.Valid() {
		return invalid("mood", "unknown mood %q", m)
	}
	return nil
}

func validateWeather(w storage.Weather) error {
	if w != storage.WeatherNone && !w.Valid() {
		return invalid("weather", "unknown weather %q", w)
	}
	return nil
}

func validateContent(content string) (string, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return "", invalid("content", "content must not be empty")
	}
	return content, nil
}

func validateLocation(loc *storage.Location) error {
	if loc == nil {
		return nil
	}
	if loc.Latitude < -90 || loc.Latitude > 90 {
		return invalid("location", "latitude %v out of range", loc.Latitude)
	}
	if loc.Longitude < -180 || loc.Longitude > 180 {
		return invalid("location", "longitude %v out of range", loc.Longitude)
	}
	return nil
}

func validateColor(color string) error {
	if !hexColor.MatchString(color) {
		return invalid("color", "%q is not a #RRGGBB colour", color)
	}
	return nil
}

func validateSettings(s storage.Settings) error {
	switch s.Theme {
	case storage.ThemeLight, storage.ThemeDark, storage.ThemeAuto:
	default:
		return invalid("theme", "unknown theme %q", s.Theme)
	}
	switch s.FontSize {
	case storage.FontSmall, storage.FontMedium, storage.FontLarge:
	default:
		return invalid("fontSize", "unknown font size %q", s.FontSize)
	}
	return nil
}
