// Package dialogue drives the conversation: one utterance in, one reply out,
// advancing the session through the question states into refinement.
package dialogue

import (
	"context"
	"fmt"
	"regexp"
	"slices"
	"strings"

	"go.uber.org/zap"

	domdlg "github.com/Emberalive/laptop-chatbot-sub000/internal/domain/dialogue"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/recommendation"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/session"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/metrics"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/extract"
)

// Turn outcomes recorded in metrics.
const (
	outcomeAnswered    = "answered"
	outcomeSkipped     = "skipped"
	outcomeOffTopic    = "off_topic"
	outcomeReset       = "reset"
	outcomeRecommended = "recommended"
	outcomeError       = "error"
	outcomeEmpty       = "empty"
)

var restartRe = regexp.MustCompile(`\b(?:restart|start over|start again|reset|begin again|from scratch|new search)\b`)

// Config holds the conversation policy.
type Config struct {
	// Count is the number of recommendations shown per turn.
	Count int
	// OffTopicLimit is the consecutive off-topic turn that forces a reset.
	OffTopicLimit int
	// CheaperRatio scales the budget cap on "cheaper".
	CheaperRatio float64
	// PricierRatio scales the budget floor on "more expensive".
	PricierRatio float64
}

// DefaultConfig returns the production policy.
func DefaultConfig() Config {
	return Config{Count: 3, OffTopicLimit: 3, CheaperRatio: 0.75, PricierRatio: 1.25}
}

// Response is the reply to one turn.
type Response struct {
	Message             string
	Recommendations     []recommendation.Recommendation
	NextQuestion        string
	DetectedPreferences preference.Set
	ExcludedBrands      []string
	State               domdlg.State
}

// Engine runs turns against sessions. It holds no per-session state and is
// safe for concurrent use across sessions.
type Engine struct {
	catalog   Catalog
	extractor Extractor
	filter    Filter
	ranker    Ranker
	cfg       Config
	logger    *zap.Logger
}

// New creates an Engine.
func New(cat Catalog, ex Extractor, f Filter, r Ranker, cfg Config, logger *zap.Logger) *Engine {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Engine{catalog: cat, extractor: ex, filter: f, ranker: r, cfg: cfg, logger: logger}
}

// turn carries one utterance through the handlers.
type turn struct {
	ctx  context.Context
	sess *session.Session
	text string
	res  extract.Result
	log  *zap.Logger
}

// Greeting returns the opening reply for a session in its current state.
func (e *Engine) Greeting(sess *session.Session) Response {
	sess.Lock()
	defer sess.Unlock()
	return e.reply(sess, msgGreeting)
}

// Reset clears the conversation and returns the opening reply.
func (e *Engine) Reset(sess *session.Session) Response {
	sess.Lock()
	defer sess.Unlock()
	metrics.TurnsTotal.WithLabelValues(string(sess.State), outcomeReset).Inc()
	sess.Reset()
	return e.reply(sess, msgGreeting)
}

// ProcessInput handles one utterance. The Response is always populated with a
// user-safe message. The error is non-nil only when ranking failed, in which
// case the preferences are kept and the same answer can be retried.
func (e *Engine) ProcessInput(ctx context.Context, sess *session.Session, utterance string) (Response, error) {
	sess.Lock()
	defer sess.Unlock()

	if !sess.State.Valid() {
		sess.State = domdlg.Initial
	}
	log := e.logger.With(zap.String("session_id", sess.ID), zap.String("state", string(sess.State)))

	text := strings.TrimSpace(utterance)
	if text == "" {
		e.count(sess.State, outcomeEmpty)
		return e.reply(sess, msgEmpty), nil
	}
	if restartRe.MatchString(strings.ToLower(text)) {
		e.count(sess.State, outcomeReset)
		sess.Reset()
		log.Info("Conversation restarted")
		return e.reply(sess, msgRestart), nil
	}

	t := &turn{
		ctx:  ctx,
		sess: sess,
		text: text,
		res:  e.extractor.Extract(ctx, text, sess.Preferences),
		log:  log,
	}
	log.Debug("Utterance extracted",
		zap.String("use_case_source", string(t.res.UseCase.Source)),
		zap.Float64("use_case_confidence", t.res.UseCase.Confidence),
		zap.Bool("off_topic", t.res.OffTopic),
	)

	switch sess.State {
	case domdlg.Initial:
		return e.initial(t)
	case domdlg.Refine:
		return e.refine(t)
	default:
		return e.answer(t)
	}
}

// initial runs full extraction and jumps to the first question still open.
func (e *Engine) initial(t *turn) (Response, error) {
	if t.res.OffTopic {
		return e.offTopic(t), nil
	}
	t.sess.OffTopicStreak = 0
	e.merge(t.sess, t.res.Update)
	return e.advance(t, domdlg.Initial, !t.res.Update.IsEmpty())
}

// answer handles the question states. The state's own field is parsed with
// its dedicated rule; anything else the utterance says is merged as well.
// Outside Purpose only a keyword hit may change the use case.
// An unparsed answer counts as "no preference".
func (e *Engine) answer(t *turn) (Response, error) {
	state := t.sess.State
	u := t.res.Update
	var found bool

	if state != domdlg.Purpose {
		u.UseCases = keywordUseCases(t.text, t.sess.Preferences.UseCases)
	}

	switch state {
	case domdlg.Purpose:
		u.UseCases = t.res.UseCase.Value
		found = t.res.UseCase.Matched()
	case domdlg.Size:
		sizes, anySize := extract.ParseSizes(t.text, true)
		if len(sizes) > 0 {
			u.Sizes = sizes
		}
		u.AnySize = anySize
		found = len(sizes) > 0 || anySize
	case domdlg.Budget:
		found = !u.Budget.IsZero()
	case domdlg.Brand:
		u.AnyBrand = extract.ParseBrands(t.text).Any
		found = len(u.Brands) > 0 || len(u.ExcludedBrands) > 0 || u.AnyBrand
	case domdlg.Features:
		found = len(u.Features) > 0 || len(u.Ports) > 0
	case domdlg.Performance:
		tier, matched := extract.ParsePerformance(t.text)
		u.Performance = tier
		found = matched
	}

	if !found && t.res.OffTopic {
		return e.offTopic(t), nil
	}
	t.sess.OffTopicStreak = 0
	e.merge(t.sess, u)
	return e.advance(t, state, found)
}

// advance moves past from to the next open question, recommending once
// every question is answered.
func (e *Engine) advance(t *turn, from domdlg.State, found bool) (Response, error) {
	outcome := outcomeAnswered
	if !found {
		outcome = outcomeSkipped
	}
	e.count(from, outcome)

	next := nextOpen(from, t.sess)
	ack := acknowledge(t.sess.Preferences, t.sess.ExcludedBrands)
	if next == domdlg.Refine {
		return e.recommend(t, ack)
	}
	t.sess.State = next
	return e.reply(t.sess, ack), nil
}

// offTopic redirects, resetting the session on the OffTopicLimit-th turn in a row.
func (e *Engine) offTopic(t *turn) Response {
	metrics.OffTopicTotal.Inc()
	e.count(t.sess.State, outcomeOffTopic)
	t.sess.OffTopicStreak++
	t.log.Debug("Off-topic turn", zap.Int("streak", t.sess.OffTopicStreak))

	if t.sess.OffTopicStreak >= e.cfg.OffTopicLimit {
		t.sess.Reset()
		t.log.Info("Session reset after repeated off-topic turns")
		return e.reply(t.sess, msgOffTopicReset)
	}
	return e.reply(t.sess, msgOffTopic)
}

// recommend filters and ranks with the current preferences and moves to Refine.
func (e *Engine) recommend(t *turn, note string) (Response, error) {
	sess := t.sess
	candidates := e.filter.Apply(e.catalog.Items(), sess.Preferences, sess.ExcludedBrands)

	recs, err := e.ranker.RankAndSample(t.ctx, candidates, sess.Preferences.UseCases, sess, e.cfg.Count)
	if err != nil {
		e.count(sess.State, outcomeError)
		t.log.Error("Ranking failed", zap.Int("candidates", len(candidates)), zap.Error(err))
		return e.reply(sess, msgRankFailed), fmt.Errorf("recommend: %w", err)
	}

	e.count(sess.State, outcomeRecommended)
	sess.State = domdlg.Refine
	sess.RecordShown(recs)
	t.log.Debug("Recommendations served", zap.Int("candidates", len(candidates)), zap.Int("shown", len(recs)))

	if len(recs) == 0 {
		return e.reply(sess, msgNoResults), nil
	}
	resp := e.reply(sess, listRecommendations(note, recs))
	resp.Recommendations = recs
	return resp, nil
}

// keywordUseCases returns the keyword classification of text, or nil when no
// use case keyword occurs.
func keywordUseCases(text string, current []preference.UseCase) []preference.UseCase {
	if kw := extract.ClassifyKeywords(text, current); kw.Matched() {
		return kw.Value
	}
	return nil
}

func (e *Engine) merge(sess *session.Session, u preference.Update) {
	sess.Preferences.Merge(u)
	sess.ExcludeBrands(u.ExcludedBrands...)
}

func (e *Engine) reply(sess *session.Session, msg string) Response {
	return Response{
		Message:             msg,
		NextQuestion:        sess.State.Question(),
		DetectedPreferences: sess.Preferences.Clone(),
		ExcludedBrands:      slices.Clone(sess.ExcludedBrands),
		State:               sess.State,
	}
}

func (e *Engine) count(state domdlg.State, outcome string) {
	metrics.TurnsTotal.WithLabelValues(string(state), outcome).Inc()
}

// nextOpen returns the first state after from whose field is still unset.
func nextOpen(from domdlg.State, sess *session.Session) domdlg.State {
	for s := from.Next(); s != domdlg.Refine; s = s.Next() {
		if !answered(s, sess) {
			return s
		}
	}
	return domdlg.Refine
}

func answered(s domdlg.State, sess *session.Session) bool {
	p := sess.Preferences
	switch s {
	case domdlg.Purpose:
		return len(p.UseCases) > 0
	case domdlg.Size:
		return len(p.Sizes) > 0
	case domdlg.Budget:
		return !p.Budget.IsZero()
	case domdlg.Brand:
		return len(p.Brands) > 0 || len(sess.ExcludedBrands) > 0
	case domdlg.Features:
		return len(p.Features) > 0 || len(p.Ports) > 0
	case domdlg.Performance:
		return p.Performance != ""
	}
	return false
}
