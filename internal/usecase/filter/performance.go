package filter

import (
	"regexp"
	"strings"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/catalog"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
)

// Hardware terms per tier. The lists share no term; the first tier with a hit wins.
var tierTerms = []struct {
	tier preference.Tier
	re   *regexp.Regexp
}{
	{preference.TierHigh, regexp.MustCompile(
		`\brtx\s?(?:20[6-8]0|30[6-8]0|40[6-9]0|50[6-9]0)\b|\bi9\b|\bultra 9\b|\bryzen 9\b|\b(?:32|64)\s?gb\b|\bm[1-4] (?:pro|max)\b|\bradeon rx\s?[67]\d{3}m?\b`,
	)},
	{preference.TierMedium, regexp.MustCompile(
		`\bi7\b|\bi5\b|\bultra [57]\b|\bryzen [57]\b|\b16\s?gb\b|\bm[1-4]\b|\bgtx\b|\brtx\s?(?:2050|3050|4050)\b|\barc\b|\bmx\s?\d{3}\b`,
	)},
	{preference.TierBasic, regexp.MustCompile(
		`\bi3\b|\bceleron\b|\bpentium\b|\bathlon\b|\bryzen 3\b|\b(?:4|8)\s?gb\b|\bmediatek\b|\bsnapdragon\b|\bchromebook\b`,
	)},
}

// Classify assigns an item a performance tier from its description.
// Items with no recognizable hardware are basic.
func Classify(it catalog.Item) preference.Tier {
	desc := strings.ToLower(it.Description())
	for _, tt := range tierTerms {
		if tt.re.MatchString(desc) {
			return tt.tier
		}
	}
	return preference.TierBasic
}
