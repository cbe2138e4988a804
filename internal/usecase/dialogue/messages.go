package dialogue

import (
	"fmt"
	"strings"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/recommendation"
)

const (
	msgGreeting      = "Hi! I'm here to help you find a laptop."
	msgEmpty         = "Sorry, I didn't catch that."
	msgRestart       = "No problem, let's start over."
	msgOffTopic      = "I can only help with choosing a laptop. Let's get back to it."
	msgOffTopicReset = "We seem to have drifted off topic, so let's start over."
	msgRankFailed    = "Sorry, I couldn't rank laptops right now. Please try again, or say \"restart\" to begin again."
	msgNoResults     = "I couldn't find any laptops to show you. Try changing your preferences or say \"restart\"."
	msgNoReference   = "I don't have a price to compare against yet, so here are a few more options."
)

// describe summarizes the active preferences for acknowledgements.
func describe(p preference.Set, excluded []string) string {
	var parts []string
	if len(p.UseCases) > 0 {
		ucs := make([]string, len(p.UseCases))
		for i, uc := range p.UseCases {
			ucs[i] = string(uc)
		}
		parts = append(parts, "for "+strings.Join(ucs, " and "))
	}
	if len(p.Sizes) > 0 {
		sizes := make([]string, len(p.Sizes))
		for i, s := range p.Sizes {
			sizes[i] = s.String()
		}
		parts = append(parts, strings.Join(sizes, " or ")+" inch")
	}
	if b := describeBudget(p.Budget); b != "" {
		parts = append(parts, b)
	}
	if len(p.Brands) > 0 {
		parts = append(parts, "from "+strings.Join(p.Brands, " or "))
	}
	if len(excluded) > 0 {
		parts = append(parts, "not "+strings.Join(excluded, " or "))
	}
	if flags := append(append([]string(nil), p.Features...), p.Ports...); len(flags) > 0 {
		for i, f := range flags {
			flags[i] = strings.ReplaceAll(f, "_", " ")
		}
		parts = append(parts, "with "+strings.Join(flags, ", "))
	}
	if p.Performance != "" {
		parts = append(parts, string(p.Performance)+" performance")
	}
	return strings.Join(parts, ", ")
}

func describeBudget(b preference.Budget) string {
	switch {
	case b.Min != nil && b.Max != nil:
		return fmt.Sprintf("£%s-£%s", money(*b.Min), money(*b.Max))
	case b.Max != nil:
		return "up to £" + money(*b.Max)
	case b.Min != nil:
		return "from £" + money(*b.Min)
	}
	return ""
}

func money(v float64) string {
	if v == float64(int64(v)) {
		return fmt.Sprintf("%d", int64(v))
	}
	return fmt.Sprintf("%.2f", v)
}

func acknowledge(p preference.Set, excluded []string) string {
	if d := describe(p, excluded); d != "" {
		return "Got it: " + d + "."
	}
	return "Got it."
}

func listRecommendations(note string, recs []recommendation.Recommendation) string {
	var b strings.Builder
	if note != "" {
		b.WriteString(note)
		b.WriteString("\n")
	}
	b.WriteString("Here are some laptops you might like:")
	for i, r := range recs {
		fmt.Fprintf(&b, "\n%d. %s (%s)", i+1, r.Title(), r.PriceLabel())
	}
	return b.String()
}
