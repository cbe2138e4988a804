package extract

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
)

const inchUnit = `\s*(?:"|''|-?\s?inch(?:es)?\b|in\b)`

var (
	sizeRangeRe  = regexp.MustCompile(`\b(\d{1,2}(?:\.\d)?)\s*(?:-|–|to)\s*(\d{1,2}(?:\.\d)?)` + inchUnit)
	sizeSingleRe = regexp.MustCompile(`\b(\d{1,2}(?:\.\d)?)` + inchUnit)
	bareSizeRe   = regexp.MustCompile(`^\s*(\d{1,2}(?:\.\d)?)\s*[.!]?\s*$`)

	smallWordsRe  = regexp.MustCompile(`\b(?:small|smaller|compact|portable|tiny|ultraportable|lightweight|light weight)\b`)
	mediumWordsRe = regexp.MustCompile(`\b(?:medium|mid-size|mid size|midsize|standard size|regular size)\b`)
	largeWordsRe  = regexp.MustCompile(`\b(?:large|larger|big|bigger|biggest|huge|desktop replacement)\b`)
	anySizeRe     = regexp.MustCompile(`\b(?:any size|size doesn'?t matter|no size preference|don'?t mind the size|any screen)\b`)
)

// Plausible laptop diagonals in inches.
const (
	minScreen = 10.0
	maxScreen = 20.0
)

// ParseSizes extracts screen-size requests. Explicit inch values win over
// size words. When bareNumbers is set, an utterance that is just a number
// is read as inches. anySize reports an explicit "any size" answer.
func ParseSizes(text string, bareNumbers bool) (sizes []preference.Size, anySize bool) {
	t := strings.ToLower(text)
	if anySizeRe.MatchString(t) {
		return nil, true
	}

	masked := t
	for _, m := range sizeRangeRe.FindAllStringSubmatch(t, -1) {
		lo, ok1 := screenValue(m[1])
		hi, ok2 := screenValue(m[2])
		if !ok1 || !ok2 {
			continue
		}
		sizes = append(sizes, preference.Range(lo, hi))
		masked = strings.Replace(masked, m[0], " ", 1)
	}
	for _, m := range sizeSingleRe.FindAllStringSubmatch(masked, -1) {
		if v, ok := screenValue(m[1]); ok {
			sizes = append(sizes, preference.Exact(v))
		}
	}
	if len(sizes) == 0 && bareNumbers {
		if m := bareSizeRe.FindStringSubmatch(t); m != nil {
			if v, ok := screenValue(m[1]); ok {
				sizes = append(sizes, preference.Exact(v))
			}
		}
	}
	if len(sizes) > 0 {
		return slices.Compact(sizes), false
	}

	switch {
	case smallWordsRe.MatchString(t):
		return slices.Clone(preference.SmallSizes), false
	case largeWordsRe.MatchString(t):
		return slices.Clone(preference.LargeSizes), false
	case mediumWordsRe.MatchString(t):
		return slices.Clone(preference.MediumSizes), false
	}
	return nil, false
}

func screenValue(s string) (float64, bool) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < minScreen || v > maxScreen {
		return 0, false
	}
	return v, true
}
