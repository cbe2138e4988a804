package prototype

import (
	"context"
	"errors"
	"testing"

	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
)

// axisEmbedder maps every text to a fixed 2-d vector and counts batch calls.
// The first failures batch calls return err; with failures at zero err is permanent.
type axisEmbedder struct {
	batchCalls int
	failures   int
	err        error
}

func (a *axisEmbedder) Embed(_ context.Context, _ string) (domain.EmbeddingResult, error) {
	return domain.EmbeddingResult{Embedding: []float32{1, 0}}, a.err
}

func (a *axisEmbedder) BatchEmbed(_ context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	a.batchCalls++
	if a.err != nil && (a.failures == 0 || a.batchCalls <= a.failures) {
		return domain.BatchEmbeddingResult{}, a.err
	}
	out := make([][]float32, len(texts))
	for i := range texts {
		out[i] = []float32{float32(i % 2), 1}
	}
	return domain.BatchEmbeddingResult{Embeddings: out}, nil
}

func TestBuild_OneBatchPerTable(t *testing.T) {
	emb := &axisEmbedder{}
	table, err := Build(context.Background(), emb, zap.NewNop())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if emb.batchCalls != 1 {
		t.Errorf("expected 1 batch call, got %d", emb.batchCalls)
	}
	for _, uc := range preference.UseCases() {
		if _, ok := table.Vector(uc); !ok {
			t.Errorf("missing prototype for %s", uc)
		}
	}
	if len(table.Domain()) != 2 {
		t.Errorf("domain vector dims = %d", len(table.Domain()))
	}
}

func TestBuild_EmbedError(t *testing.T) {
	emb := &axisEmbedder{err: domain.ErrEmbeddingProviderError}
	_, err := Build(context.Background(), emb, zap.NewNop())
	if !errors.Is(err, domain.ErrEmbeddingProviderError) {
		t.Fatalf("expected provider error, got %v", err)
	}
}

func TestMatch_SortedDescending(t *testing.T) {
	table := NewTable(map[preference.UseCase][]float32{
		preference.Gaming:   {1, 0},
		preference.Student:  {0, 1},
		preference.Business: {1, 1},
	}, []float32{1, 1})

	got := table.Match([]float32{1, 0.1})
	if len(got) != 3 {
		t.Fatalf("expected 3 matches, got %d", len(got))
	}
	if got[0].UseCase != preference.Gaming {
		t.Errorf("best = %s, want gaming", got[0].UseCase)
	}
	for i := 1; i < len(got); i++ {
		if got[i].Score > got[i-1].Score {
			t.Errorf("matches not sorted: %+v", got)
		}
	}
}

func TestCanonicalSentences_EveryUseCase(t *testing.T) {
	for _, uc := range preference.UseCases() {
		if len(CanonicalSentences(uc)) < 3 {
			t.Errorf("%s has too few canonical sentences", uc)
		}
	}
}
