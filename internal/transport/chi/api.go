package chi

import (
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/recommendation"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/dialogue"
	healthuc "github.com/Emberalive/laptop-chatbot-sub000/internal/usecase/health"
)

// ErrorCode is the machine-readable error code in error bodies.
type ErrorCode string

// Error codes.
const (
	ErrorCodeBadRequest             ErrorCode = "bad_request"
	ErrorCodeUnauthorized           ErrorCode = "unauthorized"
	ErrorCodeNotFound               ErrorCode = "not_found"
	ErrorCodeSessionNotFound        ErrorCode = "session_not_found"
	ErrorCodeEmbeddingProviderError ErrorCode = "embedding_provider_error"
	ErrorCodeCatalogEmpty           ErrorCode = "catalog_empty"
	ErrorCodeInternalError          ErrorCode = "internal_error"
)

// ErrorResponse is the body of every non-2xx reply except failed turns.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// MessageRequest is the body of POST /v1/sessions/{id}/messages.
type MessageRequest struct {
	Message string `json:"message"`
}

// TurnResponse is the reply to every conversation operation.
type TurnResponse struct {
	SessionID           string               `json:"session_id"`
	Message             string               `json:"message"`
	Recommendations     []RecommendationView `json:"recommendations"`
	NextQuestion        string               `json:"next_question,omitempty"`
	DetectedPreferences PreferencesView      `json:"detected_preferences"`
	State               string               `json:"state"`
	// Error is set when ranking failed; the message is still safe to show.
	Error ErrorCode `json:"error,omitempty"`
}

// RecommendationView is one recommended laptop.
type RecommendationView struct {
	Brand       string   `json:"brand"`
	Name        string   `json:"name"`
	Description string   `json:"description"`
	Price       *float64 `json:"price"`
	PriceLabel  string   `json:"price_label"`
	Score       float64  `json:"score"`
}

// PreferencesView is the accumulated preference set. ExcludedBrands stay
// excluded for the rest of the session.
type PreferencesView struct {
	UseCases       []string    `json:"use_cases"`
	Sizes          []string    `json:"sizes"`
	Brands         []string    `json:"brands"`
	ExcludedBrands []string    `json:"excluded_brands"`
	Budget         *BudgetView `json:"budget,omitempty"`
	Features       []string    `json:"features"`
	Ports          []string    `json:"ports"`
	Performance    string      `json:"performance,omitempty"`
}

// BudgetView is a price range; either bound may be absent.
type BudgetView struct {
	Min *float64 `json:"min,omitempty"`
	Max *float64 `json:"max,omitempty"`
}

// HealthResponse is the body of GET /health.
type HealthResponse struct {
	Status       string            `json:"status"`
	Checks       map[string]string `json:"checks"`
	CatalogItems int               `json:"catalog_items"`
}

func turnToAPI(sessionID string, resp dialogue.Response) TurnResponse {
	recs := make([]RecommendationView, len(resp.Recommendations))
	for i, r := range resp.Recommendations {
		recs[i] = recommendationToAPI(r)
	}
	return TurnResponse{
		SessionID:           sessionID,
		Message:             resp.Message,
		Recommendations:     recs,
		NextQuestion:        resp.NextQuestion,
		DetectedPreferences: preferencesToAPI(resp.DetectedPreferences, resp.ExcludedBrands),
		State:               string(resp.State),
	}
}

func recommendationToAPI(r recommendation.Recommendation) RecommendationView {
	v := RecommendationView{
		Brand:       r.Brand,
		Name:        r.Name,
		Description: r.Description,
		PriceLabel:  r.PriceLabel(),
		Score:       r.Score,
	}
	if r.HasPrice {
		p := r.Price
		v.Price = &p
	}
	return v
}

func preferencesToAPI(p preference.Set, excluded []string) PreferencesView {
	v := PreferencesView{
		UseCases:       make([]string, len(p.UseCases)),
		Sizes:          make([]string, len(p.Sizes)),
		Brands:         nonNil(p.Brands),
		ExcludedBrands: nonNil(excluded),
		Features:       nonNil(p.Features),
		Ports:          nonNil(p.Ports),
		Performance:    string(p.Performance),
	}
	for i, uc := range p.UseCases {
		v.UseCases[i] = string(uc)
	}
	for i, s := range p.Sizes {
		v.Sizes[i] = s.String()
	}
	if !p.Budget.IsZero() {
		v.Budget = &BudgetView{Min: p.Budget.Min, Max: p.Budget.Max}
	}
	return v
}

func healthToAPI(r healthuc.Report) HealthResponse {
	checks := make(map[string]string, len(r.Checks))
	for k, c := range r.Checks {
		checks[k] = string(c)
	}
	return HealthResponse{Status: string(r.Status), Checks: checks, CatalogItems: r.CatalogItems}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
