package extract

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
)

// amount matches one money-like number: optional currency symbol, digits with
// thousands separators, optional "k" multiplier and trailing currency word.
const amount = `(£|\$|€)?\s*(\d[\d,]*(?:\.\d+)?)(\s*k\b)?(\s*(?:pounds?|quid|dollars?|bucks|euros?|gbp|usd|eur)\b)?`

var (
	betweenRe    = regexp.MustCompile(`\bbetween\s+` + amount + `\s+(?:and|to|-)\s+` + amount)
	rangeRe      = regexp.MustCompile(amount + `\s*(?:-|–|to)\s*` + amount)
	underRe      = regexp.MustCompile(`(?:\bunder|\bbelow|\bless than|\bup to|\bupto|\bmax(?:imum)?|\bat most|\bwithin|\bcheaper than|<)\s*` + amount)
	overRe       = regexp.MustCompile(`(?:\bover|\babove|\bmore than|\bat least|\bmin(?:imum)?|\bstarting at|>)\s*` + amount)
	aroundRe     = regexp.MustCompile(`(?:\baround|\babout|\broughly|\bapproximately|\bapprox\.?|\bcirca|\bnear|\bclose to|~)\s*` + amount)
	onlyAmountRe = regexp.MustCompile(`^\s*(?:a budget of|budget|my budget is)?\s*` + amount + `\s*(?:max|tops|or so|ish)?\s*[.!]?\s*$`)
	bareRe       = regexp.MustCompile(amount)

	// negatedRe rewrites "no less than" and "not more than" into the bound they mean.
	negatedRe = regexp.MustCompile(`\bno(?:t)? (less|more) than\b`)
	// priceWordRe marks an utterance as talking about money.
	priceWordRe = regexp.MustCompile(`\b(?:budget|price[sd]?|cost(?:s|ing)?|spend(?:ing)?|pay(?:ing)?|afford|pounds?|quid|dollars?|bucks|euros?)\b`)
)

// unitRe rejects numbers that measure something other than money.
var unitRe = regexp.MustCompile(`^\s*(?:-?inch(?:es)?\b|"|''|gb\b|tb\b|mb\b|kg\b|g\b|lbs?\b|ghz\b|mhz\b|hz\b|w\b|wh\b|mah\b|hours?\b|hrs?\b|h\b|%|mp\b|fps\b|cores?\b|threads?\b|nits\b|p\b|th\b|st\b|nd\b|rd\b|x\d)`)

// groups per amount occurrence in a composed pattern.
const amountGroups = 4

// minPlainAmount is the smallest unmarked number read as a price.
const minPlainAmount = 50

// maxPlainRange is the largest unmarked range bound accepted without a
// price word in the utterance. Above it "2019 to 2023" reads as years.
const maxPlainRange = 1000

type money struct {
	value  float64
	marked bool
}

// ParseBudget extracts a price window from text. band sets the width of
// "around X" answers. ok is false when no budget expression was found.
func ParseBudget(text string, band float64) (preference.Budget, bool) {
	t := negatedRe.ReplaceAllStringFunc(strings.ToLower(text), func(m string) string {
		if strings.Contains(m, "less") {
			return "at least"
		}
		return "at most"
	})

	if lo, hi, ok := pair(t, betweenRe); ok && plainRange(t, lo, hi) {
		return preference.Between(lo.value, hi.value), true
	}
	if lo, hi, ok := pair(t, rangeRe); ok && plainRange(t, lo, hi) {
		return preference.Between(lo.value, hi.value), true
	}

	upper, hasUpper := single(t, underRe)
	lower, hasLower := single(t, overRe)
	switch {
	case hasUpper && hasLower && lower.value < upper.value:
		return preference.Between(lower.value, upper.value), true
	case hasUpper:
		return preference.Under(upper.value), true
	case hasLower:
		return preference.Over(lower.value), true
	}
	if m, ok := single(t, aroundRe); ok {
		return preference.Around(m.value, band), true
	}
	if m, ok := single(t, onlyAmountRe); ok {
		return preference.Around(m.value, band), true
	}
	for _, idx := range bareRe.FindAllStringSubmatchIndex(t, -1) {
		m, ok := readAmount(t, idx, 1)
		if ok && m.marked {
			return preference.Around(m.value, band), true
		}
	}
	return preference.Budget{}, false
}

// plainRange accepts a range when either bound carries a currency mark, or
// both bounds are small enough, or the utterance mentions money.
func plainRange(t string, lo, hi money) bool {
	if lo.marked || hi.marked {
		return true
	}
	if lo.value <= maxPlainRange && hi.value <= maxPlainRange {
		return true
	}
	return priceWordRe.MatchString(t)
}

func pair(t string, re *regexp.Regexp) (money, money, bool) {
	for _, idx := range re.FindAllStringSubmatchIndex(t, -1) {
		lo, ok1 := readAmount(t, idx, 1)
		hi, ok2 := readAmount(t, idx, 1+amountGroups)
		if ok1 && ok2 {
			return lo, hi, true
		}
	}
	return money{}, money{}, false
}

func single(t string, re *regexp.Regexp) (money, bool) {
	for _, idx := range re.FindAllStringSubmatchIndex(t, -1) {
		if m, ok := readAmount(t, idx, 1); ok {
			return m, true
		}
	}
	return money{}, false
}

// readAmount decodes the amount whose first capture group is group g of idx.
func readAmount(t string, idx []int, g int) (money, bool) {
	group := func(n int) (string, int) {
		s, e := idx[2*n], idx[2*n+1]
		if s < 0 {
			return "", -1
		}
		return t[s:e], e
	}

	symbol, _ := group(g)
	digits, digitsEnd := group(g + 1)
	kilo, kiloEnd := group(g + 2)
	word, wordEnd := group(g + 3)
	if digits == "" {
		return money{}, false
	}

	end := digitsEnd
	if kiloEnd > end {
		end = kiloEnd
	}
	if wordEnd > end {
		end = wordEnd
	}
	if kilo == "" && word == "" && unitRe.MatchString(t[end:]) {
		return money{}, false
	}

	v, err := strconv.ParseFloat(strings.ReplaceAll(digits, ",", ""), 64)
	if err != nil {
		return money{}, false
	}
	if kilo != "" {
		v *= 1000
	}

	m := money{value: v, marked: symbol != "" || word != "" || kilo != ""}
	if !m.marked && v < minPlainAmount {
		return money{}, false
	}
	return m, true
}
