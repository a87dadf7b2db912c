package provider

import (
	"bytes"
	"context"
	"encoding/base64"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/runnerr0/treehole/internal/storage"
)

func TestWeatherFromCondition(t *testing.T) {
	tests := map[string]storage.Weather{
		"Clear":        storage.WeatherSunny,
		"Clouds":       storage.WeatherCloudy,
		"Rain":         storage.WeatherRainy,
		"Drizzle":      storage.WeatherRainy,
		"Thunderstorm": storage.WeatherRainy,
		"Snow":         storage.WeatherSnowy,
		"Mist":         storage.WeatherFoggy,
		"Fog":          storage.WeatherFoggy,
		"Wind":         storage.WeatherWindy,
		"Tornado":      storage.WeatherSunny,
		"clear":        storage.WeatherSunny,
	}
	for cond, want := range tests {
		assert.Equal(t, want, WeatherFromCondition(cond, storage.WeatherSunny), cond)
	}
	assert.Equal(t, storage.WeatherCloudy, WeatherFromCondition("Haze", storage.WeatherCloudy))
}

type brokenWeather struct{}

func (brokenWeather) Weather(context.Context, float64, float64) (storage.Weather, error) {
	return "", errors.New("offline")
}

func TestFallbackWeather(t *testing.T) {
	ctx := context.Background()

	w, err := FallbackWeather{Resolver: brokenWeather{}, Fallback: storage.WeatherSunny}.Weather(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, storage.WeatherSunny, w)

	ok := FallbackWeather{Resolver: ConditionWeather{Condition: "Snow"}, Fallback: storage.WeatherSunny}
	w, err = ok.Weather(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, storage.WeatherSnowy, w)

	w, err = FallbackWeather{Fallback: storage.WeatherWindy}.Weather(ctx, 0, 0)
	require.NoError(t, err)
	assert.Equal(t, storage.WeatherWindy, w)
}

func TestStaticLocation(t *testing.T) {
	ctx := context.Background()
	loc, err := StaticLocation{}.Locate(ctx)
	require.NoError(t, err)
	assert.Nil(t, loc)

	src := &storage.Location{Latitude: 31.2, Longitude: 121.5, City: "上海"}
	loc, err = StaticLocation{Location: src}.Locate(ctx)
	require.NoError(t, err)
	loc.City = "changed"
	assert.Equal(t, "上海", src.City)
}

func TestDailyTips_StablePerDay(t *testing.T) {
	tips := NewDailyTips()
	morning := time.Date(2024, 5, 20, 7, 0, 0, 0, time.UTC)
	evening := time.Date(2024, 5, 20, 23, 59, 0, 0, time.UTC)
	assert.Equal(t, tips.Tip(morning), tips.Tip(evening))
	assert.Contains(t, defaultTips, tips.Tip(morning))

	seen := map[string]bool{}
	for d := 0; d < 60; d++ {
		seen[tips.Tip(morning.AddDate(0, 0, d))] = true
	}
	assert.Greater(t, len(seen), 1)

	assert.Equal(t, "", DailyTips{}.Tip(morning))
}

func TestSuggestions(t *testing.T) {
	for _, m := range []storage.Mood{storage.MoodSad, storage.MoodAngry, storage.MoodAnxious, storage.MoodTired} {
		got := Suggestions(m)
		assert.Len(t, got, 4, m)
		assert.NotEqual(t, generalSuggestions, got, m)
	}
	assert.Equal(t, generalSuggestions, Suggestions(storage.MoodHappy))

	got := Suggestions(storage.MoodHappy)
	got[0] = "mutated"
	assert.NotEqual(t, "mutated", generalSuggestions[0])
}

func encodePNG(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for x := 0; x < w; x++ {
		for y := 0; y < h; y++ {
			img.Set(x, y, color.RGBA{R: uint8(x), G: uint8(y), B: 128, A: 255})
		}
	}
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func decodeJPEGDataURI(t *testing.T, uri string) image.Image {
	t.Helper()
	require.True(t, strings.HasPrefix(uri, "data:image/jpeg;base64,"))
	raw, err := base64.StdEncoding.DecodeString(strings.TrimPrefix(uri, "data:image/jpeg;base64,"))
	require.NoError(t, err)
	img, err := jpeg.Decode(bytes.NewReader(raw))
	require.NoError(t, err)
	return img
}

func TestJPEGCompressor_ScalesKeepingAspect(t *testing.T) {
	c := JPEGCompressor{MaxWidth: 100, MaxHeight: 100, Quality: 80}
	uri, err := c.Compress(context.Background(), bytes.NewReader(encodePNG(t, 400, 200)))
	require.NoError(t, err)

	img := decodeJPEGDataURI(t, uri)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 50, img.Bounds().Dy())
}

func TestJPEGCompressor_NoUpscale(t *testing.T) {
	uri, err := NewJPEGCompressor().Compress(context.Background(), bytes.NewReader(encodePNG(t, 40, 30)))
	require.NoError(t, err)
	img := decodeJPEGDataURI(t, uri)
	assert.Equal(t, 40, img.Bounds().Dx())
	assert.Equal(t, 30, img.Bounds().Dy())
}

func TestJPEGCompressor_FileAndDataURI(t *testing.T) {
	ctx := context.Background()
	c := JPEGCompressor{MaxWidth: 20, MaxHeight: 20}
	data := encodePNG(t, 60, 80)

	path := filepath.Join(t.TempDir(), "photo.png")
	require.NoError(t, os.WriteFile(path, data, 0o600))
	uri, err := c.CompressFile(ctx, path)
	require.NoError(t, err)
	img := decodeJPEGDataURI(t, uri)
	assert.Equal(t, 15, img.Bounds().Dx())
	assert.Equal(t, 20, img.Bounds().Dy())

	uri, err = c.CompressDataURI(ctx, "data:image/png;base64,"+base64.StdEncoding.EncodeToString(data))
	require.NoError(t, err)
	assert.Equal(t, 20, decodeJPEGDataURI(t, uri).Bounds().Dy())

	_, err = c.CompressDataURI(ctx, "not a uri")
	assert.Error(t, err)
	_, err = c.Compress(ctx, strings.NewReader("garbage"))
	assert.Error(t, err)
}

func TestFit(t *testing.T) {
	w, h := fit(2400, 1200, 1200, 1200)
	assert.Equal(t, []int{1200, 600}, []int{w, h})
	w, h = fit(1000, 3000, 1200, 1200)
	assert.Equal(t, []int{400, 1200}, []int{w, h})
	w, h = fit(5000, 1, 100, 100)
	assert.Equal(t, []int{100, 1}, []int{w, h})
	w, h = fit(500, 500, 0, 0)
	assert.Equal(t, []int{500, 500}, []int{w, h})
}
