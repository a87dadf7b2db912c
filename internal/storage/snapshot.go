package storage

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
)

// EncodeSnapshot writes snap as an indented JSON backup document.
func EncodeSnapshot(w io.Writer, snap *Snapshot) error {
	if snap.Entries == nil {
		snap.Entries = []Entry{}
	}
	if snap.Categories == nil {
		snap.Categories = []Category{}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(snap); err != nil {
		return fmt.Errorf("encode snapshot: %w", err)
	}
	return nil
}

// DecodeSnapshot parses and validates a whole backup document. Nothing is
// returned unless the document is well formed.
func DecodeSnapshot(r io.Reader) (*Snapshot, error) {
	var raw struct {
		Entries    *[]Entry    `json:"records"`
		Categories *[]Category `json:"categories"`
		Settings   *Settings   `json:"settings"`
	}
	dec := json.NewDecoder(r)
	if err := dec.Decode(&raw); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSnapshot, err)
	}
	if raw.Entries == nil {
		return nil, fmt.Errorf("%w: missing records", ErrInvalidSnapshot)
	}
	if raw.Categories == nil {
		return nil, fmt.Errorf("%w: missing categories", ErrInvalidSnapshot)
	}

	snap := &Snapshot{
		Entries:    *raw.Entries,
		Categories: *raw.Categories,
		Settings:   raw.Settings,
	}
	if err := snap.Validate(); err != nil {
		return nil, err
	}
	return snap, nil
}

// Validate checks every record of the snapshot: required fields, enum values,
// timestamp order and id uniqueness.
func (snap *Snapshot) Validate() error {
	if snap == nil {
		return fmt.Errorf("%w: empty", ErrInvalidSnapshot)
	}

	seen := make(map[string]bool, len(snap.Entries))
	for i, e := range snap.Entries {
		switch {
		case e.ID == "":
			return fmt.Errorf("%w: record %d has no id", ErrInvalidSnapshot, i)
		case seen[e.ID]:
			return fmt.Errorf("%w: duplicate record id %s", ErrInvalidSnapshot, e.ID)
		case strings.TrimSpace(e.Content) == "":
			return fmt.Errorf("%w: record %s has no content", ErrInvalidSnapshot, e.ID)
		case !e.Mood.Valid():
			return fmt.Errorf("%w: record %s has unknown mood %q", ErrInvalidSnapshot, e.ID, e.Mood)
		case e.Category == "":
			return fmt.Errorf("%w: record %s has no category", ErrInvalidSnapshot, e.ID)
		case e.Weather != WeatherNone && !e.Weather.Valid():
			return fmt.Errorf("%w: record %s has unknown weather %q", ErrInvalidSnapshot, e.ID, e.Weather)
		case e.CreatedAt.IsZero():
			return fmt.Errorf("%w: record %s has no createdAt", ErrInvalidSnapshot, e.ID)
		case e.UpdatedAt.Before(e.CreatedAt):
			return fmt.Errorf("%w: record %s updatedAt precedes createdAt", ErrInvalidSnapshot, e.ID)
		}
		seen[e.ID] = true
	}

	seenCat := make(map[string]bool, len(snap.Categories))
	for i, c := range snap.Categories {
		switch {
		case c.ID == "":
			return fmt.Errorf("%w: category %d has no id", ErrInvalidSnapshot, i)
		case seenCat[c.ID]:
			return fmt.Errorf("%w: duplicate category id %s", ErrInvalidSnapshot, c.ID)
		case c.RecordCount < 0:
			return fmt.Errorf("%w: category %s has negative recordCount", ErrInvalidSnapshot, c.ID)
		}
		seenCat[c.ID] = true
	}

	if st := snap.Settings; st != nil {
		switch st.Theme {
		case ThemeLight, ThemeDark, ThemeAuto:
		default:
			return fmt.Errorf("%w: unknown theme %q", ErrInvalidSnapshot, st.Theme)
		}
		switch st.FontSize {
		case FontSmall, FontMedium, FontLarge:
		default:
			return fmt.Errorf("%w: unknown font size %q", ErrInvalidSnapshot, st.FontSize)
		}
	}

	return nil
}
