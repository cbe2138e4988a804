// Package recommendation holds scored candidates and the user-facing recommendation view.
package recommendation

import (
	"fmt"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/catalog"
)

// PriceUnavailable is shown when no retailer price is known.
const PriceUnavailable = "unavailable"

// Scored is a candidate with its similarity to the requested use case(s).
type Scored struct {
	Item  catalog.Item
	Score float64
}

// Recommendation is one item as returned to the user.
type Recommendation struct {
	Brand       string
	Name        string
	Description string
	Price       float64
	HasPrice    bool
	Score       float64
}

// FromScored builds the user-facing view of a scored candidate.
func FromScored(s Scored) Recommendation {
	price, ok := s.Item.LowestPrice()
	return Recommendation{
		Brand:       s.Item.Brand(),
		Name:        s.Item.Name(),
		Description: s.Item.Description(),
		Price:       price,
		HasPrice:    ok,
		Score:       s.Score,
	}
}

// PriceLabel renders the lowest known price or PriceUnavailable.
func (r Recommendation) PriceLabel() string {
	if !r.HasPrice {
		return PriceUnavailable
	}
	return fmt.Sprintf("£%.2f", r.Price)
}

// Title joins brand and name for display.
func (r Recommendation) Title() string {
	switch {
	case r.Brand == "":
		return r.Name
	case r.Name == "":
		return r.Brand
	default:
		return r.Brand + " " + r.Name
	}
}
