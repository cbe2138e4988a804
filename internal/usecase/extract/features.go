package extract

import (
	"regexp"
	"strings"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
)

// term maps a group of user phrasings onto one normalized catalog key.
type term struct {
	key string
	re  *regexp.Regexp
}

func terms(groups map[string][]string) []term {
	out := make([]term, 0, len(groups))
	for _, key := range mapKeys(groups) {
		out = append(out, term{key: key, re: compileTerms(groups[key])})
	}
	return out
}

// Keys match catalog.NormalizeKey of the provider's field labels.
var featureTerms = terms(map[string][]string{
	"backlit_keyboard":   {"backlit", "backlight", "backlit keyboard", "keyboard light", "illuminated keyboard", "rgb keyboard"},
	"touchscreen":        {"touchscreen", "touch screen", "touch-screen", "touch display"},
	"fingerprint_reader": {"fingerprint", "fingerprint reader", "fingerprint scanner"},
	"webcam":             {"webcam", "camera", "web cam"},
	"numeric_keypad":     {"numpad", "num pad", "number pad", "numeric keypad", "numeric keyboard"},
	"convertible":        {"2-in-1", "2 in 1", "convertible", "tablet mode", "flip screen"},
	"face_recognition":   {"windows hello", "face unlock", "face recognition"},
	"stylus_support":     {"stylus", "pen support", "pen input"},
})

var portTerms = terms(map[string][]string{
	"usb_c":          {"usb-c", "usb c", "usbc", "type-c", "type c"},
	"usb_a":          {"usb-a", "usb a", "usb 3", "usb3"},
	"hdmi":           {"hdmi"},
	"thunderbolt":    {"thunderbolt", "tb4", "tb3"},
	"ethernet":       {"ethernet", "rj45", "rj-45", "lan port"},
	"sd_card_reader": {"sd card", "sd-card", "card reader", "sd reader", "sd slot"},
	"headphone_jack": {"headphone jack", "headphone", "audio jack", "3.5mm", "3.5 mm"},
	"displayport":    {"displayport", "display port"},
})

// ParseFeatures returns the feature keys mentioned in text, sorted.
func ParseFeatures(text string) []string { return matchTerms(featureTerms, text) }

// ParsePorts returns the port keys mentioned in text, sorted.
func ParsePorts(text string) []string { return matchTerms(portTerms, text) }

func matchTerms(ts []term, text string) []string {
	t := strings.ToLower(text)
	var out []string
	for _, tm := range ts {
		if tm.re.MatchString(t) {
			out = append(out, tm.key)
		}
	}
	return out
}

// performanceTerms lists user phrasings per tier, strongest tier first.
var performanceTerms = []struct {
	tier preference.Tier
	re   *regexp.Regexp
}{
	{preference.TierHigh, compileTerms([]string{
		"high", "high-end", "high end", "powerful", "power", "fast", "fastest", "beast",
		"top", "top-end", "maximum", "best", "heavy", "demanding", "intensive",
		"workstation", "rendering", "video editing", "3d", "aaa",
	})},
	{preference.TierMedium, compileTerms([]string{
		"medium", "moderate", "mid", "mid-range", "midrange", "mid range", "decent",
		"average", "balanced", "reasonable", "good enough", "multitasking", "middle",
	})},
	{preference.TierBasic, compileTerms([]string{
		"basic", "light", "simple", "browsing", "email", "emails", "netflix", "documents",
		"everyday", "casual", "entry", "entry-level", "low-end", "minimal", "nothing fancy",
	})},
}

// ParsePerformance scores text against each tier's terms and returns the top
// scorer. Ties go to the stronger tier. matched is false when no term hit,
// in which case tier is preference.TierBasic.
func ParsePerformance(text string) (tier preference.Tier, matched bool) {
	t := strings.ToLower(text)
	best, bestCount := preference.TierBasic, 0
	for _, pt := range performanceTerms {
		if n := len(pt.re.FindAllStringIndex(t, -1)); n > bestCount {
			best, bestCount = pt.tier, n
		}
	}
	return best, bestCount > 0
}
