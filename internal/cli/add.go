package cli

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/runnerr0/treehole/internal/journal"
	"github.com/runnerr0/treehole/internal/provider"
	"github.com/runnerr0/treehole/internal/storage"
)

// Execute implements the go-flags Commander interface for AddCommand.
func (c *AddCommand) Execute(args []string) error {
	return execute(c.globals, c, args)
}

func (c *AddCommand) run(ctx context.Context, e *env, args []string) error {
	content := strings.Join(args, " ")
	if c.ContentFile != "" {
		data, err := os.ReadFile(c.ContentFile)
		if err != nil {
			return fmt.Errorf("read content file: %w", err)
		}
		content = string(data)
	}

	loc, err := parseLocation(c.Location, c.City, c.Address)
	if err != nil {
		return err
	}
	if loc == nil {
		if loc, err = e.currentLocation(ctx); err != nil {
			return err
		}
	}

	weather := storage.Weather(c.Weather)
	if weather == storage.WeatherNone && c.Condition != "" {
		var lat, lon float64
		if loc != nil {
			lat, lon = loc.Latitude, loc.Longitude
		}
		resolver := provider.FallbackWeather{
			Resolver: provider.ConditionWeather{Condition: c.Condition, Fallback: storage.Weather(e.cfg.Weather.Fallback)},
			Fallback: storage.Weather(e.cfg.Weather.Fallback),
			Log:      e.log,
		}
		if weather, err = resolver.Weather(ctx, lat, lon); err != nil {
			return fmt.Errorf("resolve weather: %w", err)
		}
	}

	images, err := compressImages(ctx, e, c.Images)
	if err != nil {
		return err
	}

	entry, err := e.journal.CreateEntry(ctx, journal.Draft{
		Title:    c.Title,
		Content:  content,
		Mood:     storage.Mood(c.Mood),
		Category: c.Category,
		Weather:  weather,
		Location: loc,
		Images:   images,
		Tags:     c.Tags,
	})
	if err != nil {
		return fmt.Errorf("add entry: %w", err)
	}

	if c.jsonOutput() {
		return printJSON(entry)
	}

	fmt.Printf("Created entry %s\n", entry.ID)
	fmt.Printf("  Title:    %s\n", entry.Title)
	fmt.Printf("  Mood:     %s\n", moodText(entry.Mood))
	fmt.Printf("  Category: %s\n", e.journal.CategoryName(entry.Category))
	if entry.Weather != storage.WeatherNone {
		fmt.Printf("  Weather:  %s\n", weatherText(entry.Weather))
	}
	if len(entry.Images) > 0 {
		fmt.Printf("  Images:   %d\n", len(entry.Images))
	}
	printSuggestions(entry.Mood)
	return nil
}

// parseLocation parses "lat,lon". An empty string means no location.
func parseLocation(s, city, address string) (*storage.Location, error) {
	if s == "" {
		if city != "" || address != "" {
			return nil, fmt.Errorf("--city and --address need --location")
		}
		return nil, nil
	}
	latStr, lonStr, ok := strings.Cut(s, ",")
	if !ok {
		return nil, fmt.Errorf("invalid location %q: want lat,lon", s)
	}
	lat, err := strconv.ParseFloat(strings.TrimSpace(latStr), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid latitude %q: %w", latStr, err)
	}
	lon, err := strconv.ParseFloat(strings.TrimSpace(lonStr), 64)
	if err != nil {
		return nil, fmt.Errorf("invalid longitude %q: %w", lonStr, err)
	}
	return &storage.Location{Latitude: lat, Longitude: lon, City: city, Address: address}, nil
}

func compressImages(ctx context.Context, e *env, paths []string) ([]string, error) {
	if len(paths) == 0 {
		return nil, nil
	}
	c := provider.JPEGCompressor{
		MaxWidth:  e.cfg.Images.MaxWidth,
		MaxHeight: e.cfg.Images.MaxHeight,
		Quality:   e.cfg.Images.Quality,
	}
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		uri, err := c.CompressFile(ctx, p)
		if err != nil {
			return nil, fmt.Errorf("attach %s: %w", p, err)
		}
		out = append(out, uri)
	}
	return out, nil
}

// printSuggestions prints coping suggestions for moods that have specific
// advice.
func printSuggestions(m storage.Mood) {
	switch m {
	case storage.MoodSad, storage.MoodAngry, storage.MoodAnxious, storage.MoodTired:
	default:
		return
	}
	fmt.Println()
	fmt.Println(bold.Sprint("Suggestions:"))
	for _, s := range provider.Suggestions(m) {
		fmt.Printf("  - %s\n", s)
	}
}
