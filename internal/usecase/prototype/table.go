// Package prototype builds the use-case prototype vectors shared by extraction and ranking.
package prototype

import (
	"context"
	"fmt"
	"sort"

	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
)

// Match is the similarity of one vector to one use-case prototype.
type Match struct {
	UseCase preference.UseCase
	Score   float64
}

// Table holds one prototype per use case plus the aggregate domain vector.
// It is immutable after construction and safe for concurrent reads.
type Table struct {
	vectors map[preference.UseCase][]float32
	domain  []float32
}

// NewTable wraps precomputed vectors.
func NewTable(vectors map[preference.UseCase][]float32, domainVec []float32) *Table {
	cp := make(map[preference.UseCase][]float32, len(vectors))
	for k, v := range vectors {
		cp[k] = v
	}
	return &Table{vectors: cp, domain: domainVec}
}

// Build embeds every canonical sentence in one batch and averages per use case.
func Build(ctx context.Context, embedder domain.Embedder, logger *zap.Logger) (*Table, error) {
	type span struct {
		uc         preference.UseCase
		start, end int
	}

	var texts []string
	spans := make([]span, 0, len(canonicalSentences))
	for _, uc := range preference.UseCases() {
		start := len(texts)
		texts = append(texts, canonicalSentences[uc]...)
		spans = append(spans, span{uc: uc, start: start, end: len(texts)})
	}
	domainStart := len(texts)
	texts = append(texts, domainSentences...)

	vecs, err := domain.EmbedAll(ctx, embedder, texts)
	if err != nil {
		return nil, fmt.Errorf("embed prototype sentences: %w", err)
	}

	vectors := make(map[preference.UseCase][]float32, len(spans))
	for _, sp := range spans {
		mean, err := domain.Mean(vecs[sp.start:sp.end])
		if err != nil {
			return nil, fmt.Errorf("prototype %s: %w", sp.uc, err)
		}
		vectors[sp.uc] = mean
	}

	domainVec, err := domain.Mean(vecs[domainStart:])
	if err != nil {
		return nil, fmt.Errorf("domain prototype: %w", err)
	}

	logger.Info("Use-case prototypes built",
		zap.Int("use_cases", len(vectors)),
		zap.Int("sentences", len(texts)),
		zap.Int("dimensions", len(domainVec)),
	)

	return &Table{vectors: vectors, domain: domainVec}, nil
}

// Vector returns the prototype for uc.
func (t *Table) Vector(uc preference.UseCase) ([]float32, bool) {
	v, ok := t.vectors[uc]
	return v, ok
}

// Domain returns the aggregate laptop-domain vector.
func (t *Table) Domain() []float32 { return t.domain }

// Match scores vec against every prototype, best first.
// Equal scores keep preference.UseCases order.
func (t *Table) Match(vec []float32) []Match {
	out := make([]Match, 0, len(t.vectors))
	for _, uc := range preference.UseCases() {
		p, ok := t.vectors[uc]
		if !ok {
			continue
		}
		out = append(out, Match{UseCase: uc, Score: domain.Cosine(vec, p)})
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Score > out[j].Score })
	return out
}
