package config

// DefaultConfig returns a Config populated with all default values.
func DefaultConfig() *Config {
	return &Config{
		Storage: StorageConfig{
			Path:              "~/.config/treehole",
			SQLiteFile:        "treehole.db",
			SQLiteJournalMode: "wal",
		},
		Logging: LoggingConfig{
			Level: "info",
			File:  "",
		},
		Entries: EntriesConfig{
			MaxTags:     10,
			TitleLength: 20,
		},
		Stats: StatsConfig{
			DefaultWindow: "week",
			TopTags:       10,
		},
		Images: ImagesConfig{
			MaxWidth:  1200,
			MaxHeight: 1200,
			Quality:   80,
		},
		Weather: WeatherConfig{
			Fallback: "sunny",
		},
	}
}
