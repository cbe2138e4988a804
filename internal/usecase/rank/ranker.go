// Package rank scores candidates against use-case prototypes and serves
// distinct random samples from a per-session top-K window.
package rank

import (
	"context"
	"fmt"
	"math/rand/v2"
	"slices"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/catalog"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/recommendation"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/session"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/metrics"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/prototype"
)

// DefaultWindow is the number of top candidates kept per fingerprint.
const DefaultWindow = 15

// Ranker ranks candidates and samples from the session's diversity cache.
type Ranker struct {
	embedder domain.Embedder
	table    *prototype.Table
	window   int
	logger   *zap.Logger
}

// New creates a Ranker. window <= 0 uses DefaultWindow.
func New(embedder domain.Embedder, table *prototype.Table, window int, logger *zap.Logger) *Ranker {
	if window <= 0 {
		window = DefaultWindow
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Ranker{embedder: embedder, table: table, window: window, logger: logger}
}

// RankAndSample returns up to count distinct recommendations for candidates.
// When the session's cached fingerprint matches the current preferences the
// cached window is sampled without embedding anything. Otherwise candidates
// are embedded and scored, the best window is cached on sess and sampled.
// Incomplete items never surface. Callers hold the session lock.
func (r *Ranker) RankAndSample(ctx context.Context, candidates []catalog.Item, useCases []preference.UseCase, sess *session.Session, count int) ([]recommendation.Recommendation, error) {
	if len(useCases) == 0 {
		useCases = []preference.UseCase{preference.DefaultUseCase}
	}
	fp := preference.Fingerprint(sess.Preferences, useCases, sess.ExcludedBrands)

	if sess.Cache.Valid() && sess.Cache.Fingerprint == fp {
		metrics.RankCacheTotal.WithLabelValues("hit").Inc()
		r.logger.Debug("Rank cache hit", zap.String("fingerprint", fp), zap.Int("window", len(sess.Cache.Window)))
		return sample(sess.Cache.Window, count, sess.Rand), nil
	}
	metrics.RankCacheTotal.WithLabelValues("miss").Inc()

	window, err := r.rank(ctx, candidates, useCases)
	if err != nil {
		return nil, err
	}
	if len(window) == 0 {
		return nil, nil
	}

	sess.Cache = session.TopK{Fingerprint: fp, Window: window}
	r.logger.Debug("Rank cache stored", zap.String("fingerprint", fp), zap.Int("window", len(window)))
	return sample(window, count, sess.Rand), nil
}

// rank scores complete candidates and returns the best r.window, highest first.
func (r *Ranker) rank(ctx context.Context, candidates []catalog.Item, useCases []preference.UseCase) ([]recommendation.Scored, error) {
	items := slices.DeleteFunc(slices.Clone(candidates), func(it catalog.Item) bool { return !it.Complete() })
	if len(items) == 0 {
		return nil, nil
	}

	protos := make([][]float32, 0, len(useCases))
	for _, uc := range useCases {
		v, ok := r.table.Vector(uc)
		if !ok {
			return nil, fmt.Errorf("use case %q: %w", uc, domain.ErrPrototypeMissing)
		}
		protos = append(protos, v)
	}

	start := time.Now()
	texts := make([]string, len(items))
	for i, it := range items {
		texts[i] = it.Description()
	}
	vecs, err := domain.EmbedAll(ctx, r.embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("%w: embed %d candidates: %w", domain.ErrEmbeddingProviderError, len(texts), err)
	}

	scored := make([]recommendation.Scored, len(items))
	for i, it := range items {
		var sum float64
		for _, p := range protos {
			sum += domain.Cosine(vecs[i], p)
		}
		scored[i] = recommendation.Scored{Item: it, Score: sum / float64(len(protos))}
	}
	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	metrics.RankDuration.Observe(time.Since(start).Seconds())

	return scored[:min(r.window, len(scored))], nil
}

// sample draws count distinct entries uniformly from window and returns them
// in window order.
func sample(window []recommendation.Scored, count int, rng *rand.Rand) []recommendation.Recommendation {
	k := min(count, len(window))
	if k <= 0 {
		return nil
	}

	var perm []int
	if rng != nil {
		perm = rng.Perm(len(window))
	} else {
		perm = rand.Perm(len(window))
	}
	picked := perm[:k]
	sort.Ints(picked)

	out := make([]recommendation.Recommendation, k)
	for i, idx := range picked {
		out[i] = recommendation.FromScored(window[idx])
	}
	return out
}
