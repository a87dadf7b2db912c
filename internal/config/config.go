package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/mitchellh/go-homedir"
	"gopkg.in/yaml.v3"

	"github.com/runnerr0/treehole/internal/stats"
	"github.com/runnerr0/treehole/internal/storage"
)

// Default config file path.
const DefaultConfigPath = "~/.config/treehole/config.yaml"

// Config holds all treehole configuration.
type Config struct {
	Storage StorageConfig `yaml:"storage"`
	Logging LoggingConfig `yaml:"logging"`
	Entries EntriesConfig `yaml:"entries"`
	Stats   StatsConfig   `yaml:"stats"`
	Images  ImagesConfig  `yaml:"images"`
	Weather  WeatherConfig  `yaml:"weather"`
	Location LocationConfig `yaml:"location"`
}

type StorageConfig struct {
	Path              string `yaml:"path"`
	SQLiteFile        string `yaml:"sqlite_file"`
	SQLiteJournalMode string `yaml:"sqlite_journal_mode"`
}

type LoggingConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

type EntriesConfig struct {
	MaxTags     int `yaml:"max_tags"`
	TitleLength int `yaml:"title_length"`
}

type StatsConfig struct {
	DefaultWindow string `yaml:"default_window"`
	TopTags       int    `yaml:"top_tags"`
}

type ImagesConfig struct {
	MaxWidth  int `yaml:"max_width"`
	MaxHeight int `yaml:"max_height"`
	Quality   int `yaml:"quality"`
}

type WeatherConfig struct {
	Fallback string `yaml:"fallback"`
}

// LocationConfig is the position recorded on new entries when location is
// enabled in settings and none is given on the command line.
type LocationConfig struct {
	Latitude  float64 `yaml:"latitude"`
	Longitude float64 `yaml:"longitude"`
	City      string  `yaml:"city"`
	Address   string  `yaml:"address"`
}

// Configured reports whether any location field is set.
func (l LocationConfig) Configured() bool {
	return l != (LocationConfig{})
}

// Load reads a YAML config file at path and merges it with defaults.
// Returns an error if the file cannot be read, contains invalid YAML or
// holds values that fail Validate.
func Load(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot act on.
func (c *Config) Validate() error {
	if _, err := stats.ParseWindow(c.Stats.DefaultWindow); err != nil {
		return fmt.Errorf("stats.default_window: %w", err)
	}
	if c.Stats.TopTags < 0 {
		return fmt.Errorf("stats.top_tags: must not be negative")
	}
	if !storage.Weather(c.Weather.Fallback).Valid() {
		return fmt.Errorf("weather.fallback: unknown weather %q", c.Weather.Fallback)
	}
	if c.Location.Latitude < -90 || c.Location.Latitude > 90 {
		return fmt.Errorf("location.latitude: %v out of range", c.Location.Latitude)
	}
	if c.Location.Longitude < -180 || c.Location.Longitude > 180 {
		return fmt.Errorf("location.longitude: %v out of range", c.Location.Longitude)
	}
	if c.Entries.MaxTags < 0 {
		return fmt.Errorf("entries.max_tags: must not be negative")
	}
	if c.Entries.TitleLength <= 0 {
		return fmt.Errorf("entries.title_length: must be positive")
	}
	if c.Images.Quality < 1 || c.Images.Quality > 100 {
		return fmt.Errorf("images.quality: %d out of range 1-100", c.Images.Quality)
	}
	if _, err := ParseLevel(c.Logging.Level); err != nil {
		return fmt.Errorf("logging.level: %w", err)
	}
	switch strings.ToLower(c.Storage.SQLiteJournalMode) {
	case "", "delete", "truncate", "persist", "memory", "wal", "off":
	default:
		return fmt.Errorf("storage.sqlite_journal_mode: unknown mode %q", c.Storage.SQLiteJournalMode)
	}
	return nil
}

// DBPath returns the expanded path of the SQLite database file.
func (c *Config) DBPath() (string, error) {
	dir, err := ExpandPath(c.Storage.Path)
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, c.Storage.SQLiteFile), nil
}

// ExpandPath replaces a leading ~ with the user's home directory.
func ExpandPath(path string) (string, error) {
	expanded, err := homedir.Expand(path)
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return expanded, nil
}

// LoadOrCreate loads the config from the default path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreate() (*Config, error) {
	path, err := ExpandPath(DefaultConfigPath)
	if err != nil {
		return nil, err
	}
	return LoadOrCreateAt(path)
}

// LoadOrCreateAt loads the config from the given path. If the file does
// not exist, it creates the directory structure and writes defaults.
func LoadOrCreateAt(path string) (*Config, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		cfg := DefaultConfig()

		dir := filepath.Dir(path)
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("creating config directory: %w", err)
		}

		data, err := yaml.Marshal(cfg)
		if err != nil {
			return nil, fmt.Errorf("marshaling default config: %w", err)
		}

		if err := os.WriteFile(path, data, 0644); err != nil {
			return nil, fmt.Errorf("writing default config: %w", err)
		}

		return cfg, nil
	}

	return Load(path)
}
