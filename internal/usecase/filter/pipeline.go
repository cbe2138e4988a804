// Package filter narrows the catalog to the items matching a preference set.
//
// Stages run in a fixed order: excluded brands, size window, brand inclusion,
// budget, features, ports, performance. Budget and performance relax instead
// of emptying the result; if everything is still filtered out, a bounded
// prefix of the non-excluded catalog is returned. Excluded brands never come
// back, so excluding every brand yields no candidates.
package filter

import (
	"slices"
	"strings"

	"go.uber.org/zap"

	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/catalog"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/domain/preference"
	"github.com/Emberalive/laptop-chatbot-sub000/internal/metrics"
)

// DefaultFallbackSize bounds relaxation samples.
const DefaultFallbackSize = 5

// Fallback stage labels used in logs and metrics.
const (
	StageBudget      = "budget"
	StagePerformance = "performance"
	StageAbsolute    = "absolute"
)

// Pipeline applies the filter stages. It holds no per-session state.
type Pipeline struct {
	fallbackSize int
	logger       *zap.Logger
}

// New creates a Pipeline. fallbackSize <= 0 uses DefaultFallbackSize.
func New(fallbackSize int, logger *zap.Logger) *Pipeline {
	if fallbackSize <= 0 {
		fallbackSize = DefaultFallbackSize
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Pipeline{fallbackSize: fallbackSize, logger: logger}
}

type stage struct {
	name  string
	apply func([]catalog.Item, preference.Set) []catalog.Item
}

// Apply filters items by prefs after removing excluded brands. The input is
// never modified and the relative order of items is preserved.
func (p *Pipeline) Apply(items []catalog.Item, prefs preference.Set, excluded []string) []catalog.Item {
	if len(items) == 0 {
		return nil
	}

	base := excludeBrands(items, excluded)
	if len(base) == 0 {
		p.logger.Debug("Every item is excluded by brand", zap.Int("items", len(items)))
		return nil
	}
	out := base
	for _, st := range p.stages() {
		if len(out) == 0 {
			break
		}
		out = st.apply(out, prefs)
	}
	if len(out) > 0 {
		return out
	}

	p.relaxed(StageAbsolute, len(base))
	return slices.Clone(base[:min(p.fallbackSize, len(base))])
}

func (p *Pipeline) stages() []stage {
	return []stage{
		{"size", bySize},
		{"brand", byBrand},
		{StageBudget, p.byBudget},
		{"features", byFeatures},
		{"ports", byPorts},
		{StagePerformance, p.byPerformance},
	}
}

func (p *Pipeline) relaxed(stage string, n int) {
	metrics.FilterFallbacksTotal.WithLabelValues(stage).Inc()
	p.logger.Debug("Filter relaxed", zap.String("stage", stage), zap.Int("items", n))
}

func excludeBrands(items []catalog.Item, excluded []string) []catalog.Item {
	if len(excluded) == 0 {
		return slices.Clone(items)
	}
	return keep(items, func(it catalog.Item) bool {
		return !containsFold(excluded, it.Brand())
	})
}

func bySize(items []catalog.Item, prefs preference.Set) []catalog.Item {
	lo, hi, ok := preference.Window(prefs.Sizes)
	if !ok {
		return items
	}
	return keep(items, func(it catalog.Item) bool {
		size, known := it.ScreenSize()
		return known && size >= lo && size <= hi
	})
}

func byBrand(items []catalog.Item, prefs preference.Set) []catalog.Item {
	if len(prefs.Brands) == 0 {
		return items
	}
	return keep(items, func(it catalog.Item) bool {
		return containsFold(prefs.Brands, it.Brand())
	})
}

// byBudget keeps priced items inside the window. When none qualify, a
// prefix of the price-unknown items stands in.
func (p *Pipeline) byBudget(items []catalog.Item, prefs preference.Set) []catalog.Item {
	if prefs.Budget.IsZero() {
		return items
	}
	var inRange, unpriced []catalog.Item
	for _, it := range items {
		price, ok := it.LowestPrice()
		switch {
		case !ok:
			unpriced = append(unpriced, it)
		case prefs.Budget.Contains(price):
			inRange = append(inRange, it)
		}
	}
	if len(inRange) > 0 || len(unpriced) == 0 {
		return inRange
	}
	p.relaxed(StageBudget, min(p.fallbackSize, len(unpriced)))
	return unpriced[:min(p.fallbackSize, len(unpriced))]
}

func byFeatures(items []catalog.Item, prefs preference.Set) []catalog.Item {
	if len(prefs.Features) == 0 {
		return items
	}
	return keep(items, func(it catalog.Item) bool {
		return allFlags(prefs.Features, it.Feature)
	})
}

func byPorts(items []catalog.Item, prefs preference.Set) []catalog.Item {
	if len(prefs.Ports) == 0 {
		return items
	}
	return keep(items, func(it catalog.Item) bool {
		return allFlags(prefs.Ports, it.Port)
	})
}

// byPerformance is advisory: an empty match keeps the input.
func (p *Pipeline) byPerformance(items []catalog.Item, prefs preference.Set) []catalog.Item {
	if prefs.Performance == "" {
		return items
	}
	out := keep(items, func(it catalog.Item) bool {
		return Classify(it) == prefs.Performance
	})
	if len(out) == 0 {
		p.relaxed(StagePerformance, len(items))
		return items
	}
	return out
}

// allFlags reports whether every requested flag is known and enabled.
func allFlags(keys []string, flag func(string) (bool, bool)) bool {
	for _, k := range keys {
		if v, known := flag(k); !known || !v {
			return false
		}
	}
	return true
}

func keep(items []catalog.Item, pred func(catalog.Item) bool) []catalog.Item {
	var out []catalog.Item
	for _, it := range items {
		if pred(it) {
			out = append(out, it)
		}
	}
	return out
}

func containsFold(list []string, v string) bool {
	return slices.ContainsFunc(list, func(s string) bool { return strings.EqualFold(s, v) })
}
