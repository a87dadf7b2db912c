package storage

import "time"

// SettingsKey is the fixed primary key of the settings singleton.
const SettingsKey = "app"

// DefaultCategories returns the categories seeded into an empty store.
func DefaultCategories(now time.Time) []Category {
	return []Category{
		{ID: "work", Name: "工作", Color: "#3B82F6", CreatedAt: now},
		{ID: "life", Name: "生活", Color: "#10B981", CreatedAt: now},
		{ID: "emotion", Name: "情感", Color: "#F59E0B", CreatedAt: now},
		{ID: "health", Name: "健康", Color: "#EF4444", CreatedAt: now},
	}
}

// DefaultSettings returns the settings written when none exist.
func DefaultSettings() Settings {
	return Settings{
		Theme:               ThemeAuto,
		FontSize:            FontMedium,
		EnableNotifications: true,
		EnableLocation:      false,
		EnableWeather:       false,
	}
}
