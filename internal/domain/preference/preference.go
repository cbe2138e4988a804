// Package preference models the structured filters accumulated over a conversation.
package preference

import (
	"slices"
	"strconv"
	"strings"
)

// UseCase is a categorical purpose tag.
type UseCase string

// Supported use cases.
const (
	Gaming      UseCase = "gaming"
	Student     UseCase = "student"
	Business    UseCase = "business"
	Programming UseCase = "programming"
	Creative    UseCase = "creative"
	General     UseCase = "general"
)

// DefaultUseCase is assumed when nothing in the utterance points anywhere.
const DefaultUseCase = Student

// UseCases lists every supported use case in classification order.
func UseCases() []UseCase {
	return []UseCase{Gaming, Student, Business, Programming, Creative, General}
}

// ParseUseCase maps a tag back to a UseCase.
func ParseUseCase(s string) (UseCase, bool) {
	uc := UseCase(strings.ToLower(strings.TrimSpace(s)))
	if slices.Contains(UseCases(), uc) {
		return uc, true
	}
	return "", false
}

// Tier is a performance class.
type Tier string

// Performance tiers.
const (
	TierHigh   Tier = "high"
	TierMedium Tier = "medium"
	TierBasic  Tier = "basic"
)

// Tiers lists the tiers from strongest to weakest.
func Tiers() []Tier { return []Tier{TierHigh, TierMedium, TierBasic} }

// Set is the session's accumulated preferences. Every field is optional;
// the zero Set filters nothing.
type Set struct {
	UseCases    []UseCase
	Sizes       []Size
	Brands      []string
	Budget      Budget
	Features    []string
	Ports       []string
	Performance Tier
}

// IsEmpty reports whether no filter field is set. UseCases only drive ranking.
func (s Set) IsEmpty() bool {
	return len(s.Sizes) == 0 && len(s.Brands) == 0 && s.Budget.IsZero() &&
		len(s.Features) == 0 && len(s.Ports) == 0 && s.Performance == ""
}

// Clone returns a deep copy.
func (s Set) Clone() Set {
	return Set{
		UseCases:    slices.Clone(s.UseCases),
		Sizes:       slices.Clone(s.Sizes),
		Brands:      slices.Clone(s.Brands),
		Budget:      s.Budget.Clone(),
		Features:    slices.Clone(s.Features),
		Ports:       slices.Clone(s.Ports),
		Performance: s.Performance,
	}
}

// Update is a partial set produced from one utterance. Empty fields leave the Set untouched.
type Update struct {
	UseCases       []UseCase
	Sizes          []Size
	Brands         []string
	ExcludedBrands []string
	Budget         Budget
	Features       []string
	Ports          []string
	Performance    Tier

	// AnyBrand clears the brand filter ("any brand is fine").
	AnyBrand bool
	// AnySize clears the size filter.
	AnySize bool
}

// IsEmpty reports whether the update carries nothing to merge.
func (u Update) IsEmpty() bool {
	return len(u.UseCases) == 0 && len(u.Sizes) == 0 && len(u.Brands) == 0 &&
		len(u.ExcludedBrands) == 0 && u.Budget.IsZero() && len(u.Features) == 0 &&
		len(u.Ports) == 0 && u.Performance == "" && !u.AnyBrand && !u.AnySize
}

// Merge applies the non-empty fields of u. Scalar fields and lists are replaced;
// feature and port requests accumulate. Excluded brands are owned by the session.
func (s *Set) Merge(u Update) {
	if len(u.UseCases) > 0 {
		s.UseCases = dedupe(u.UseCases)
	}
	if u.AnySize {
		s.Sizes = nil
	}
	if len(u.Sizes) > 0 {
		s.Sizes = slices.Clone(u.Sizes)
	}
	if u.AnyBrand {
		s.Brands = nil
	}
	if len(u.Brands) > 0 {
		s.Brands = dedupe(u.Brands)
	}
	if !u.Budget.IsZero() {
		s.Budget = u.Budget.Clone()
	}
	if len(u.Features) > 0 {
		s.Features = dedupe(append(slices.Clone(s.Features), u.Features...))
	}
	if len(u.Ports) > 0 {
		s.Ports = dedupe(append(slices.Clone(s.Ports), u.Ports...))
	}
	if u.Performance != "" {
		s.Performance = u.Performance
	}
}

// Fingerprint serializes use cases plus every active filter field deterministically.
// Order of list entries does not matter.
func Fingerprint(s Set, useCases []UseCase, excludedBrands []string) string {
	ucs := make([]string, len(useCases))
	for i, uc := range useCases {
		ucs[i] = string(uc)
	}
	sizes := make([]string, len(s.Sizes))
	for i, sz := range s.Sizes {
		sizes[i] = sz.String()
	}

	parts := []string{
		"use_case=" + sortedJoin(ucs),
		"size=" + sortedJoin(sizes),
		"brand=" + sortedJoin(lowerAll(s.Brands)),
		"budget=" + s.Budget.String(),
		"features=" + sortedJoin(s.Features),
		"ports=" + sortedJoin(s.Ports),
		"performance=" + string(s.Performance),
		"exclude=" + sortedJoin(lowerAll(excludedBrands)),
	}
	return strings.Join(parts, ";")
}

func sortedJoin(vals []string) string {
	c := dedupe(vals)
	slices.Sort(c)
	return strings.Join(c, ",")
}

func lowerAll(vals []string) []string {
	out := make([]string, len(vals))
	for i, v := range vals {
		out[i] = strings.ToLower(v)
	}
	return out
}

// dedupe keeps the first occurrence of each value, preserving order.
func dedupe[T comparable](vals []T) []T {
	seen := make(map[T]struct{}, len(vals))
	out := make([]T, 0, len(vals))
	for _, v := range vals {
		if _, ok := seen[v]; ok {
			continue
		}
		seen[v] = struct{}{}
		out = append(out, v)
	}
	return out
}

func formatNumber(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
