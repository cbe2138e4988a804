// Package extract turns free-text utterances into preference updates.
//
// Budget, size, brand, feature, port and performance rules are pure
// functions over the lowercased text. Use-case classification compares the
// utterance embedding with the prototype table and falls back to keyword
// counts when the embedding is missing or not confident enough.
package extract

import (
	"context"
	"regexp"
	"strings"

	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/metrics"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/prototype"
)

// Config holds the extraction thresholds.
type Config struct {
	// ConfidenceThreshold is the minimum prototype similarity accepted from the embedding path.
	ConfidenceThreshold float64
	// SecondaryThreshold admits a second use case for multi-purpose requests.
	SecondaryThreshold float64
	// OffTopicThreshold is the domain similarity below which a turn without
	// domain keywords counts as off-topic.
	OffTopicThreshold float64
	// BudgetBand is the relative width of "around X" budgets.
	BudgetBand float64
}

// DefaultConfig returns the production thresholds.
func DefaultConfig() Config {
	return Config{
		ConfidenceThreshold: 0.3,
		SecondaryThreshold:  0.35,
		OffTopicThreshold:   0.2,
		BudgetBand:          0.2,
	}
}

// Result is everything one utterance says.
type Result struct {
	Update   preference.Update
	UseCase  Classification
	OffTopic bool
}

// Extractor runs the extraction rules and the embedding classifier.
type Extractor struct {
	embedder domain.Embedder
	table    *prototype.Table
	cfg      Config
	logger   *zap.Logger
}

// New creates an Extractor. embedder and table may be nil; classification
// then uses keywords only and off-topic detection uses keywords only.
func New(embedder domain.Embedder, table *prototype.Table, cfg Config, logger *zap.Logger) *Extractor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Extractor{embedder: embedder, table: table, cfg: cfg, logger: logger}
}

// Extract runs every rule over text. current is consulted for keyword ties.
// The utterance is embedded at most once.
func (e *Extractor) Extract(ctx context.Context, text string, current preference.Set) Result {
	vec := e.embed(ctx, text)

	var u preference.Update
	if budget, ok := ParseBudget(text, e.cfg.BudgetBand); ok {
		u.Budget = budget
	}
	u.Sizes, u.AnySize = ParseSizes(text, false)

	brands := ParseBrands(text)
	u.Brands = brands.Include
	u.ExcludedBrands = brands.Exclude

	u.Features = ParseFeatures(text)
	u.Ports = ParsePorts(text)
	if tier, ok := ParsePerformance(text); ok {
		u.Performance = tier
	}

	cls := e.classify(vec, text, current.UseCases)
	if cls.Matched() {
		u.UseCases = cls.Value
	}

	offTopic := u.IsEmpty() && e.offTopic(vec, text)
	return Result{Update: u, UseCase: cls, OffTopic: offTopic}
}

// ClassifyUseCase decides the use case of text.
func (e *Extractor) ClassifyUseCase(ctx context.Context, text string, current []preference.UseCase) Classification {
	return e.classify(e.embed(ctx, text), text, current)
}

// IsOffTopic reports whether text is unrelated to laptops. Embedding failures
// count as on-topic.
func (e *Extractor) IsOffTopic(ctx context.Context, text string) bool {
	if HasDomainSignal(text) {
		return false
	}
	return e.offTopic(e.embed(ctx, text), text)
}

func (e *Extractor) embed(ctx context.Context, text string) []float32 {
	if e.embedder == nil || e.table == nil || strings.TrimSpace(text) == "" {
		return nil
	}
	res, err := e.embedder.Embed(ctx, text)
	if err != nil {
		e.logger.Warn("Utterance embedding failed, using keyword rules", zap.Error(err))
		return nil
	}
	return res.Embedding
}

func (e *Extractor) classify(vec []float32, text string, current []preference.UseCase) Classification {
	if len(vec) > 0 {
		matches := e.table.Match(vec)
		if len(matches) > 0 && matches[0].Score >= e.cfg.ConfidenceThreshold {
			value := []preference.UseCase{matches[0].UseCase}
			if len(matches) > 1 && matches[1].Score >= e.cfg.SecondaryThreshold {
				value = append(value, matches[1].UseCase)
			}
			metrics.ClassificationsTotal.WithLabelValues(string(SourceEmbedding)).Inc()
			return Classification{Source: SourceEmbedding, Value: value, Confidence: matches[0].Score}
		}
	}
	metrics.ClassificationsTotal.WithLabelValues(string(SourceKeyword)).Inc()
	return ClassifyKeywords(text, current)
}

func (e *Extractor) offTopic(vec []float32, text string) bool {
	if HasDomainSignal(text) {
		return false
	}
	if len(vec) == 0 {
		// no vector: either the provider failed or nothing is configured.
		return e.embedder == nil || e.table == nil
	}
	sim := domain.Cosine(vec, e.table.Domain())
	return sim < e.cfg.OffTopicThreshold
}

var (
	domainRe = compileTerms([]string{
		"laptop", "laptops", "notebook", "computer", "pc", "chromebook", "ultrabook",
		"screen", "display", "inch", "inches", "size", "budget", "price", "cost", "cheap",
		"cheaper", "expensive", "pricier", "afford", "brand", "brands", "ram", "memory",
		"storage", "ssd", "cpu", "processor", "gpu", "graphics", "battery", "keyboard", "port",
		"ports", "usb", "weight", "specs", "spec", "performance", "recommend", "recommendation",
		"buy", "more", "options", "another", "different", "smaller", "larger", "bigger",
		"restart", "reset", "start over", "yes", "no", "ok", "okay", "sure", "thanks",
		"any", "anything", "whatever", "skip", "pass", "none", "nothing", "either", "fine",
		"no preference", "don't mind", "dont mind", "don't care", "dont care", "doesn't matter",
		"not sure", "no idea", "don't know", "dont know",
	})
	digitRe = regexp.MustCompile(`\d`)
)

// HasDomainSignal reports whether text mentions anything a laptop
// conversation would: hardware and shopping vocabulary, a brand, a
// use-case keyword, a feature or port, or a number.
func HasDomainSignal(text string) bool {
	t := strings.ToLower(text)
	if domainRe.MatchString(t) || digitRe.MatchString(t) || brandRe.MatchString(t) {
		return true
	}
	for _, re := range useCaseKeywords {
		if re.MatchString(t) {
			return true
		}
	}
	return len(ParseFeatures(t)) > 0 || len(ParsePorts(t)) > 0
}
