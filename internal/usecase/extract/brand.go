package extract

import (
	"regexp"
	"slices"
	"strings"
)

// brandAliases maps user phrasing onto canonical lowercase brand names.
var brandAliases = map[string]string{
	"apple":           "apple",
	"macbook":         "apple",
	"mac":             "apple",
	"dell":            "dell",
	"xps":             "dell",
	"hp":              "hp",
	"hewlett packard": "hp",
	"hewlett-packard": "hp",
	"lenovo":          "lenovo",
	"thinkpad":        "lenovo",
	"ideapad":         "lenovo",
	"asus":            "asus",
	"zenbook":         "asus",
	"vivobook":        "asus",
	"rog":             "asus",
	"acer":            "acer",
	"predator":        "acer",
	"aspire":          "acer",
	"msi":             "msi",
	"microsoft":       "microsoft",
	"surface":         "microsoft",
	"razer":           "razer",
	"samsung":         "samsung",
	"galaxy book":     "samsung",
	"lg":              "lg",
	"huawei":          "huawei",
	"matebook":        "huawei",
	"toshiba":         "toshiba",
	"dynabook":        "toshiba",
	"gigabyte":        "gigabyte",
	"aorus":           "gigabyte",
	"alienware":       "alienware",
	"framework":       "framework",
	"chuwi":           "chuwi",
}

var (
	brandRe = compileTerms(mapKeys(brandAliases))

	// clauseSplitRe bounds how far a negation reaches.
	clauseSplitRe = regexp.MustCompile(`[,.;!?]|\bbut\b|\bhowever\b|\bthough\b|\bwhereas\b`)
	negationRe    = regexp.MustCompile(`\b(?:no|not|don'?t|do not|never|without|except|avoid|hate|dislike|excluding|besides|anything but|other than|apart from|rather not|no more)\b`)
	anythingButRe = regexp.MustCompile(`\b(?:anything|everything|all) but\b`)
	anyBrandRe    = regexp.MustCompile(`\b(?:any brand|any make|no brand preference|no preference|don'?t care|doesn'?t matter|not fussy|whatever|open to anything|any is fine|anything)\b`)
)

// negationWindow is how many words before a brand mention a negation cue may sit.
const negationWindow = 4

// Brands is the brand part of one utterance.
type Brands struct {
	Include []string
	Exclude []string
	Any     bool
}

// ParseBrands finds brand mentions and splits them into wanted and excluded
// by looking for a negation cue shortly before each mention in the same clause.
func ParseBrands(text string) Brands {
	// "anything but X" negates across what would otherwise be a clause break.
	t := anythingButRe.ReplaceAllString(strings.ToLower(text), "except")
	var out Brands

	for _, clause := range clauseSplitRe.Split(t, -1) {
		for _, idx := range brandRe.FindAllStringIndex(clause, -1) {
			brand := brandAliases[clause[idx[0]:idx[1]]]
			if negated(clause[:idx[0]]) {
				out.Exclude = append(out.Exclude, brand)
			} else {
				out.Include = append(out.Include, brand)
			}
		}
	}

	out.Exclude = uniqueSorted(out.Exclude)
	out.Include = uniqueSorted(slices.DeleteFunc(out.Include, func(b string) bool {
		return slices.Contains(out.Exclude, b)
	}))
	out.Any = len(out.Include) == 0 && anyBrandRe.MatchString(t)
	return out
}

func negated(before string) bool {
	words := strings.Fields(before)
	if len(words) > negationWindow {
		words = words[len(words)-negationWindow:]
	}
	return negationRe.MatchString(strings.Join(words, " "))
}

// compileTerms builds one word-bounded alternation, longest terms first.
func compileTerms(terms []string) *regexp.Regexp {
	sorted := slices.Clone(terms)
	slices.SortFunc(sorted, func(a, b string) int {
		if len(a) != len(b) {
			return len(b) - len(a)
		}
		return strings.Compare(a, b)
	})
	quoted := make([]string, len(sorted))
	for i, term := range sorted {
		quoted[i] = regexp.QuoteMeta(term)
	}
	return regexp.MustCompile(`\b(?:` + strings.Join(quoted, "|") + `)\b`)
}

func mapKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)
	return keys
}

func uniqueSorted(vals []string) []string {
	if len(vals) == 0 {
		return nil
	}
	out := slices.Clone(vals)
	slices.Sort(out)
	return slices.Compact(out)
}
