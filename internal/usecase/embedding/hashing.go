package embedding

import (
	"context"
	"hash/fnv"
	"math"
	"strings"
	"unicode"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain"
)

// DefaultHashingDimensions is the vector size of the hashing embedder.
const DefaultHashingDimensions = 512

var stopwords = map[string]struct{}{
	"a": {}, "an": {}, "and": {}, "are": {}, "as": {}, "at": {}, "be": {}, "but": {},
	"by": {}, "for": {}, "from": {}, "i": {}, "in": {}, "is": {}, "it": {}, "me": {},
	"my": {}, "of": {}, "on": {}, "or": {}, "so": {}, "that": {}, "the": {}, "this": {},
	"to": {}, "want": {}, "need": {}, "with": {}, "would": {}, "like": {}, "some": {},
	"something": {}, "laptop": {}, "laptops": {}, "mostly": {}, "mainly": {}, "use": {},
	"using": {}, "will": {}, "can": {}, "do": {}, "im": {}, "i'm": {},
}

// HashingEmbedder maps text to a bag-of-words vector with FNV feature hashing.
// Every token also contributes its character trigrams, so inflections share
// dimensions. Vectors are L2-normalized; equal texts give equal vectors.
type HashingEmbedder struct {
	dims int
}

// NewHashingEmbedder creates a hashing embedder producing dims-sized vectors.
func NewHashingEmbedder(dims int) *HashingEmbedder {
	if dims <= 0 {
		dims = DefaultHashingDimensions
	}
	return &HashingEmbedder{dims: dims}
}

// Dimensions returns the vector size.
func (h *HashingEmbedder) Dimensions() int { return h.dims }

// Embed implements domain.Embedder. Token usage is the number of kept tokens.
func (h *HashingEmbedder) Embed(ctx context.Context, text string) (domain.EmbeddingResult, error) {
	if err := ctx.Err(); err != nil {
		return domain.EmbeddingResult{}, err
	}
	vec, tokens := h.vector(text)
	return domain.EmbeddingResult{Embedding: vec, PromptTokens: tokens, TotalTokens: tokens}, nil
}

// BatchEmbed implements domain.BatchEmbedder.
func (h *HashingEmbedder) BatchEmbed(ctx context.Context, texts []string) (domain.BatchEmbeddingResult, error) {
	if len(texts) == 0 {
		return domain.BatchEmbeddingResult{}, nil
	}
	if err := ctx.Err(); err != nil {
		return domain.BatchEmbeddingResult{}, err
	}
	out := domain.BatchEmbeddingResult{Embeddings: make([][]float32, len(texts))}
	for i, t := range texts {
		vec, tokens := h.vector(t)
		out.Embeddings[i] = vec
		out.PromptTokens += tokens
		out.TotalTokens += tokens
	}
	return out, nil
}

// HealthCheck always succeeds.
func (h *HashingEmbedder) HealthCheck(context.Context) error { return nil }

func (h *HashingEmbedder) vector(text string) ([]float32, int) {
	vec := make([]float32, h.dims)
	tokens := tokenize(text)
	for _, tok := range tokens {
		vec[h.bucket(tok)] += 1
		if len(tok) > 3 {
			for i := 0; i+3 <= len(tok); i++ {
				vec[h.bucket("#"+tok[i:i+3])] += 0.5
			}
		}
	}

	var norm float64
	for _, v := range vec {
		norm += float64(v) * float64(v)
	}
	if norm > 0 {
		inv := float32(1 / math.Sqrt(norm))
		for i := range vec {
			vec[i] *= inv
		}
	}
	return vec, len(tokens)
}

func (h *HashingEmbedder) bucket(s string) int {
	f := fnv.New32a()
	_, _ = f.Write([]byte(s))
	return int(f.Sum32() % uint32(h.dims))
}

func tokenize(text string) []string {
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r) && r != '\''
	})
	out := fields[:0]
	for _, f := range fields {
		f = strings.Trim(f, "'")
		if f == "" {
			continue
		}
		if _, stop := stopwords[f]; stop {
			continue
		}
		out = append(out, f)
	}
	return out
}
