package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/gosuri/uitable"

	"github.com/runnerr0/treehole/internal/storage"
)

const (
	dateLayout     = "2006-01-02"
	dateTimeLayout = "2006-01-02 15:04"
)

var (
	bold  = color.New(color.Bold)
	faint = color.New(color.Faint)
)

var moodColors = map[storage.Mood]*color.Color{
	storage.MoodHappy:    color.New(color.FgYellow),
	storage.MoodExcited:  color.New(color.FgHiYellow),
	storage.MoodGrateful: color.New(color.FgHiGreen),
	storage.MoodCalm:     color.New(color.FgGreen),
	storage.MoodTired:    color.New(color.FgHiBlack),
	storage.MoodAnxious:  color.New(color.FgMagenta),
	storage.MoodSad:      color.New(color.FgBlue),
	storage.MoodAngry:    color.New(color.FgRed),
}

var moodLabels = map[storage.Mood]string{
	storage.MoodHappy:    "开心",
	storage.MoodSad:      "难过",
	storage.MoodAngry:    "生气",
	storage.MoodCalm:     "平静",
	storage.MoodExcited:  "兴奋",
	storage.MoodTired:    "疲惫",
	storage.MoodAnxious:  "焦虑",
	storage.MoodGrateful: "感恩",
}

var weatherLabels = map[storage.Weather]string{
	storage.WeatherSunny:  "晴天",
	storage.WeatherCloudy: "多云",
	storage.WeatherRainy:  "雨天",
	storage.WeatherSnowy:  "雪天",
	storage.WeatherWindy:  "大风",
	storage.WeatherFoggy:  "雾天",
}

// moodText renders a mood as "happy 开心" in its colour.
func moodText(m storage.Mood) string {
	label := string(m)
	if l, ok := moodLabels[m]; ok {
		label += " " + l
	}
	if c, ok := moodColors[m]; ok {
		return c.Sprint(label)
	}
	return label
}

func weatherText(w storage.Weather) string {
	if w == storage.WeatherNone {
		return "-"
	}
	if l, ok := weatherLabels[w]; ok {
		return string(w) + " " + l
	}
	return string(w)
}

// printJSON writes v to stdout as indented JSON.
func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func newTable() *uitable.Table {
	tbl := uitable.New()
	tbl.Separator = "  "
	tbl.MaxColWidth = 48
	return tbl
}

func heading(s string) {
	fmt.Println(bold.Sprint(s))
	fmt.Println(strings.Repeat("=", len(s)))
}

// bar renders a percentage as a fixed-width bar.
func bar(pct int) string {
	const width = 20
	n := pct * width / 100
	return strings.Repeat("█", n) + faint.Sprint(strings.Repeat("░", width-n))
}

func localTime(t time.Time) string {
	return t.Local().Format(dateTimeLayout)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return fmt.Sprintf("%d %s", n, one)
	}
	return fmt.Sprintf("%d %s", n, many)
}
