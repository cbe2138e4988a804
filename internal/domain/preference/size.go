package preference

import "math"

// Size is a requested screen diagonal in inches: one value (Min == Max) or a range.
type Size struct {
	Min float64
	Max float64
}

// Exact returns a single-value size.
func Exact(v float64) Size { return Size{Min: v, Max: v} }

// Range returns a size range, swapped if given out of order.
func Range(a, b float64) Size {
	if a > b {
		a, b = b, a
	}
	return Size{Min: a, Max: b}
}

// IsRange reports whether the size spans more than one value.
func (s Size) IsRange() bool { return s.Min != s.Max }

// String renders "15.6" for a value and "13-15" for a range.
func (s Size) String() string {
	if !s.IsRange() {
		return formatNumber(s.Min)
	}
	return formatNumber(s.Min) + "-" + formatNumber(s.Max)
}

// Fixed buckets used for the "small", "medium" and "large" answers and refinements.
var (
	SmallSizes  = []Size{Exact(13), Exact(14)}
	MediumSizes = []Size{Exact(15), Exact(15.6)}
	LargeSizes  = []Size{Exact(16), Exact(17.3)}
)

// Window collapses sizes into one aggregate [min, max]. ok is false for no sizes.
func Window(sizes []Size) (lo, hi float64, ok bool) {
	if len(sizes) == 0 {
		return 0, 0, false
	}
	lo, hi = math.Inf(1), math.Inf(-1)
	for _, s := range sizes {
		lo = math.Min(lo, s.Min)
		hi = math.Max(hi, s.Max)
	}
	return lo, hi, true
}
