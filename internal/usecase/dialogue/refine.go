package dialogue

import (
	"fmt"
	"math"
	"regexp"
	"slices"
	"strings"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/session"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/extract"
)

// Refinement phrase sets, checked in this order.
var (
	cheaperRe = regexp.MustCompile(`\b(?:cheaper|less expensive|lower price|more affordable|too expensive|too pricey|cost less)\b`)
	pricierRe = regexp.MustCompile(`\b(?:pricier|more expensive|higher end|high end|premium|spend more|increase (?:the|my) budget|too cheap)\b`)
	smallerRe = regexp.MustCompile(`\b(?:smaller|more compact|more portable|too big|too large)\b`)
	largerRe  = regexp.MustCompile(`\b(?:larger|bigger|too small)\b`)
	moreRe    = regexp.MustCompile(`\b(?:more|another|others|other options|different ones|next|again|else)\b`)
)

// refine handles the terminal state: every branch re-runs filter and rank.
// Unchanged preferences keep the fingerprint, so the cached window is resampled.
// The use case only changes on a keyword hit.
func (e *Engine) refine(t *turn) (Response, error) {
	lower := strings.ToLower(t.text)
	prefs := &t.sess.Preferences
	var note string

	switch {
	case cheaperRe.MatchString(lower):
		note = e.cheaper(t.sess)
	case pricierRe.MatchString(lower):
		note = e.pricier(t.sess)
	case smallerRe.MatchString(lower):
		prefs.Sizes = slices.Clone(preference.SmallSizes)
		note = "Looking at smaller screens."
	case largerRe.MatchString(lower):
		prefs.Sizes = slices.Clone(preference.LargeSizes)
		note = "Looking at larger screens."
	default:
		u := t.res.Update
		u.UseCases = nil
		if kw := extract.ClassifyKeywords(t.text, prefs.UseCases); kw.Matched() && !slices.Equal(kw.Value, prefs.UseCases) {
			e.merge(t.sess, u)
			prefs.UseCases = kw.Value
			note = fmt.Sprintf("Switching to laptops for %s.", kw.Value[0])
			break
		}
		if moreRe.MatchString(lower) {
			note = "Here are a few more options."
			break
		}
		if !u.IsEmpty() {
			e.merge(t.sess, u)
			note = acknowledge(*prefs, t.sess.ExcludedBrands)
			break
		}
		if t.res.OffTopic {
			return e.offTopic(t), nil
		}
		note = "Here are a few more options."
	}

	t.sess.OffTopicStreak = 0
	e.count(t.sess.State, outcomeAnswered)
	return e.recommend(t, note)
}

// cheaper lowers the budget cap by CheaperRatio. Without a cap the average
// price of the last shown batch is the reference.
func (e *Engine) cheaper(sess *session.Session) string {
	b := sess.Preferences.Budget
	var (
		ref float64
		ok  bool
	)
	if b.Max != nil {
		ref, ok = *b.Max, true
	} else {
		ref, ok = sess.ShownAveragePrice(e.cfg.Count)
	}
	if !ok {
		return msgNoReference
	}

	limit := cents(ref * e.cfg.CheaperRatio)
	next := preference.Budget{Max: &limit}
	if b.Min != nil && *b.Min <= limit {
		lo := *b.Min
		next.Min = &lo
	}
	sess.Preferences.Budget = next
	return "Looking for something cheaper, up to £" + money(limit) + "."
}

// pricier raises the budget floor by PricierRatio. Without a floor the
// average shown price, then the current cap, is the reference.
func (e *Engine) pricier(sess *session.Session) string {
	b := sess.Preferences.Budget
	var (
		ref float64
		ok  bool
	)
	if b.Min != nil {
		ref, ok = *b.Min, true
	} else if ref, ok = sess.ShownAveragePrice(e.cfg.Count); !ok && b.Max != nil {
		ref, ok = *b.Max, true
	}
	if !ok {
		return msgNoReference
	}

	floor := cents(ref * e.cfg.PricierRatio)
	next := preference.Budget{Min: &floor}
	if b.Max != nil && *b.Max >= floor {
		hi := *b.Max
		next.Max = &hi
	}
	sess.Preferences.Budget = next
	return "Looking at pricier options, from £" + money(floor) + "."
}

func cents(v float64) float64 { return math.Round(v*100) / 100 }
