package dialogue

import (
	"context"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/catalog"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/recommendation"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/session"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/extract"
)

// Catalog supplies the shared read-only item list.
type Catalog interface {
	Items() []catalog.Item
}

// Extractor turns one utterance into a preference update.
type Extractor interface {
	Extract(ctx context.Context, text string, current preference.Set) extract.Result
}

// Filter narrows the catalog to the items matching a preference set.
type Filter interface {
	Apply(items []catalog.Item, prefs preference.Set, excluded []string) []catalog.Item
}

// Ranker ranks candidates and samples from the session's diversity cache.
type Ranker interface {
	RankAndSample(ctx context.Context, candidates []catalog.Item, useCases []preference.UseCase,
		sess *session.Session, count int) ([]recommendation.Recommendation, error)
}
