// Package provider holds the external sources an entry can be enriched
// from: location, weather, image compression and daily tips. The journal
// treats each of them as opaque.
package provider

import (
	"context"
	"log/slog"
	"time"

	"github.com/runnerr0/treehole/internal/storage"
)

// LocationResolver reports where the user currently is. A nil location
// without error means the position is unknown.
type LocationResolver interface {
	Locate(ctx context.Context) (*storage.Location, error)
}

// WeatherResolver reports the weather at a position.
type WeatherResolver interface {
	Weather(ctx context.Context, latitude, longitude float64) (storage.Weather, error)
}

// TipProvider returns the tip to show for a calendar day.
type TipProvider interface {
	Tip(day time.Time) string
}

// StaticLocation always resolves to the same location.
type StaticLocation struct {
	Location *storage.Location
}

// Locate returns a copy of the configured location.
func (s StaticLocation) Locate(context.Context) (*storage.Location, error) {
	if s.Location == nil {
		return nil, nil
	}
	loc := *s.Location
	return &loc, nil
}

// conditions maps OpenWeather "main" condition groups onto Weather.
var conditions = map[string]storage.Weather{
	"Clear":        storage.WeatherSunny,
	"Clouds":       storage.WeatherCloudy,
	"Rain":         storage.WeatherRainy,
	"Drizzle":      storage.WeatherRainy,
	"Thunderstorm": storage.WeatherRainy,
	"Snow":         storage.WeatherSnowy,
	"Mist":         storage.WeatherFoggy,
	"Fog":          storage.WeatherFoggy,
	"Wind":         storage.WeatherWindy,
}

// WeatherFromCondition maps a weather service condition name to Weather.
// Unknown conditions map to fallback.
func WeatherFromCondition(condition string, fallback storage.Weather) storage.Weather {
	if w, ok := conditions[condition]; ok {
		return w
	}
	return fallback
}

// ConditionWeather resolves to a fixed condition name, for example one
// supplied on the command line.
type ConditionWeather struct {
	Condition string
	Fallback  storage.Weather
}

func (c ConditionWeather) Weather(context.Context, float64, float64) (storage.Weather, error) {
	return WeatherFromCondition(c.Condition, c.Fallback), nil
}

// FallbackWeather wraps a resolver and substitutes Fallback when it fails.
type FallbackWeather struct {
	Resolver WeatherResolver
	Fallback storage.Weather
	Log      *slog.Logger
}

func (f FallbackWeather) Weather(ctx context.Context, latitude, longitude float64) (storage.Weather, error) {
	if f.Resolver == nil {
		return f.Fallback, nil
	}
	w, err := f.Resolver.Weather(ctx, latitude, longitude)
	if err != nil {
		if f.Log != nil {
			f.Log.Warn("weather lookup failed, using fallback", "error", err, "fallback", f.Fallback)
		}
		return f.Fallback, nil
	}
	return w, nil
}
