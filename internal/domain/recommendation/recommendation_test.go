package recommendation

import (
	"testing"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/catalog"
)

func TestFromScored(t *testing.T) {
	item := catalog.FromRaw(catalog.Raw{
		"Product Details": {"Brand": "Asus", "Name": "ROG Zephyrus G14"},
		"Prices":          {"Amazon": 1499.5, "Currys": 1599},
	})

	r := FromScored(Scored{Item: item, Score: 0.42})
	if r.Brand != "Asus" || r.Name != "ROG Zephyrus G14" {
		t.Errorf("unexpected identity %q %q", r.Brand, r.Name)
	}
	if !r.HasPrice || r.PriceLabel() != "£1499.50" {
		t.Errorf("PriceLabel = %q", r.PriceLabel())
	}
	if r.Score != 0.42 {
		t.Errorf("Score = %v", r.Score)
	}
	if r.Title() != "Asus ROG Zephyrus G14" {
		t.Errorf("Title = %q", r.Title())
	}
}

func TestPriceLabel_Unavailable(t *testing.T) {
	item := catalog.FromRaw(catalog.Raw{"Product Details": {"Name": "Mystery Book"}})
	r := FromScored(Scored{Item: item})
	if r.PriceLabel() != PriceUnavailable {
		t.Errorf("PriceLabel = %q, want %q", r.PriceLabel(), PriceUnavailable)
	}
}
