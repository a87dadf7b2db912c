package stats

import (
	"sort"
	"strings"
	"time"

	"github.com/runnerr0/treehole/internal/storage"
)

// TagUsage describes how often a tag is used and when it was last used.
type TagUsage struct {
	Tag      string    `json:"tag"`
	Count    int       `json:"count"`
	LastUsed time.Time `json:"lastUsed"`
}

// TagUsages lists every tag by descending count, ties in first-seen order.
// A non-empty search keeps only tags containing it, ignoring case.
func TagUsages(entries []storage.Entry, search string) []TagUsage {
	index := map[string]int{}
	var out []TagUsage
	for _, e := range entries {
		for _, tag := range e.Tags {
			i, ok := index[tag]
			if !ok {
				i = len(out)
				index[tag] = i
				out = append(out, TagUsage{Tag: tag})
			}
			out[i].Count++
			if e.CreatedAt.After(out[i].LastUsed) {
				out[i].LastUsed = e.CreatedAt
			}
		}
	}

	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })

	if search == "" {
		if out == nil {
			out = []TagUsage{}
		}
		return out
	}
	search = strings.ToLower(search)
	filtered := []TagUsage{}
	for _, u := range out {
		if strings.Contains(strings.ToLower(u.Tag), search) {
			filtered = append(filtered, u)
		}
	}
	return filtered
}
