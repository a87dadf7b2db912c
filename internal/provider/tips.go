package provider

import (
	"hash/fnv"
	"time"

	"github.com/runnerr0/treehole/internal/storage"
)

var defaultTips = []string{
	"每一天都是新的开始，保持积极的心态！",
	"记录生活中的美好瞬间，让回忆更加珍贵。",
	"适当的运动能让心情更加愉悦。",
	"深呼吸，放松心情，一切都会好起来的。",
	"感恩身边的人和事，生活会更美好。",
	"保持规律的作息，身体和心理都会更健康。",
	"学会放下，才能拥抱更多可能。",
	"小确幸就在身边，用心去发现。",
	"与大自然接触，让心灵得到净化。",
	"记录情绪变化，更好地了解自己。",
}

// DailyTips picks one tip per calendar day. The same day always yields the
// same tip.
type DailyTips struct {
	Tips []string
}

// NewDailyTips returns a provider over the built-in tips.
func NewDailyTips() DailyTips {
	return DailyTips{Tips: defaultTips}
}

// Tip returns the tip for day's date in day's location.
func (d DailyTips) Tip(day time.Time) string {
	if len(d.Tips) == 0 {
		return ""
	}
	h := fnv.New32a()
	h.Write([]byte(day.Format("2006-01-02")))
	return d.Tips[h.Sum32()%uint32(len(d.Tips))]
}

var suggestions = map[storage.Mood][]string{
	storage.MoodSad: {
		"尝试听一些轻快的音乐",
		"与朋友聊聊天",
		"去户外走走，呼吸新鲜空气",
		"做一些自己喜欢的事情",
	},
	storage.MoodAngry: {
		"深呼吸，数到10",
		"尝试冥想或瑜伽",
		"写下来自己的感受",
		"找一个安静的地方冷静一下",
	},
	storage.MoodAnxious: {
		"练习深呼吸技巧",
		"列出让你焦虑的事情并制定计划",
		"听一些舒缓的音乐",
		"尝试渐进式肌肉放松",
	},
	storage.MoodTired: {
		"确保充足的睡眠",
		"适当休息，不要过度劳累",
		"喝一杯温水，补充水分",
		"做一些轻松的伸展运动",
	},
}

var generalSuggestions = []string{
	"保持当前的好状态",
	"记录下这个美好的时刻",
	"与他人分享你的快乐",
}

// Suggestions returns coping suggestions for a mood. Moods without specific
// advice get the general list.
func Suggestions(m storage.Mood) []string {
	s, ok := suggestions[m]
	if !ok {
		s = generalSuggestions
	}
	return append([]string(nil), s...)
}
