package extract

import (
	"regexp"
	"slices"
	"strings"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
)

// Source tags how a use case was decided.
type Source string

// Classification sources.
const (
	SourceEmbedding Source = "embedding"
	SourceKeyword   Source = "keyword"
)

// Classification is the result of use-case classification.
type Classification struct {
	Source Source
	Value  []preference.UseCase
	// Confidence is the prototype similarity for embedding results and the
	// winning share of keyword hits for keyword results. Zero means nothing
	// in the text pointed anywhere and Value holds the default.
	Confidence float64
}

// Matched reports whether the utterance carried any use-case signal.
func (c Classification) Matched() bool { return c.Confidence > 0 }

var useCaseKeywords = map[preference.UseCase]*regexp.Regexp{
	preference.Gaming: compileTerms([]string{
		"game", "games", "gaming", "gamer", "play", "playing", "fps", "esports", "steam",
		"fortnite", "valorant", "minecraft", "cyberpunk", "call of duty", "aaa",
	}),
	preference.Student: compileTerms([]string{
		"student", "students", "university", "uni", "college", "school", "study", "studying",
		"lecture", "lectures", "homework", "assignment", "assignments", "essay", "essays",
		"coursework", "campus", "revision", "notes",
	}),
	preference.Business: compileTerms([]string{
		"business", "work", "office", "meeting", "meetings", "presentation", "presentations",
		"spreadsheet", "spreadsheets", "excel", "corporate", "professional", "client", "clients",
		"travel", "zoom", "teams",
	}),
	preference.Programming: compileTerms([]string{
		"programming", "coding", "code", "coder", "developer", "development", "software",
		"python", "java", "javascript", "compile", "compiling", "ide", "docker", "linux",
		"web dev", "virtual machines",
	}),
	preference.Creative: compileTerms([]string{
		"creative", "design", "designer", "photo editing", "video editing", "editing",
		"photoshop", "premiere", "lightroom", "illustrator", "blender", "render", "rendering",
		"3d", "animation", "music production", "art", "drawing",
	}),
	preference.General: compileTerms([]string{
		"general", "browsing", "netflix", "youtube", "streaming", "everyday", "casual",
		"family", "home", "shopping", "social media", "email", "emails", "basic use",
	}),
}

// ClassifyKeywords counts keyword hits per use case and picks the highest.
// Equal counts prefer a use case already in current, then preference.UseCases
// order. With no hits the result is preference.DefaultUseCase at zero confidence.
func ClassifyKeywords(text string, current []preference.UseCase) Classification {
	t := strings.ToLower(text)
	best, bestCount, total := preference.DefaultUseCase, 0, 0

	for _, uc := range preference.UseCases() {
		n := len(useCaseKeywords[uc].FindAllStringIndex(t, -1))
		total += n
		switch {
		case n > bestCount:
			best, bestCount = uc, n
		case n > 0 && n == bestCount && slices.Contains(current, uc) && !slices.Contains(current, best):
			best = uc
		}
	}

	if bestCount == 0 {
		return Classification{Source: SourceKeyword, Value: []preference.UseCase{preference.DefaultUseCase}}
	}
	return Classification{
		Source:     SourceKeyword,
		Value:      []preference.UseCase{best},
		Confidence: float64(bestCount) / float64(total),
	}
}
