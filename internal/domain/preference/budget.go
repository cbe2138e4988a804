package preference

import "math"

// Budget is a price window; either bound may be absent.
type Budget struct {
	Min *float64
	Max *float64
}

// Under returns a budget with only an upper bound.
func Under(v float64) Budget { return Budget{Max: &v} }

// Over returns a budget with only a lower bound.
func Over(v float64) Budget { return Budget{Min: &v} }

// Between returns a budget with both bounds, swapped if given out of order.
func Between(a, b float64) Budget {
	if a > b {
		a, b = b, a
	}
	return Budget{Min: &a, Max: &b}
}

// Around returns the band [v*(1-band), v*(1+band)], rounded to cents.
func Around(v, band float64) Budget {
	return Between(roundCents(v*(1-band)), roundCents(v*(1+band)))
}

func roundCents(v float64) float64 { return math.Round(v*100) / 100 }

// IsZero reports whether neither bound is set.
func (b Budget) IsZero() bool { return b.Min == nil && b.Max == nil }

// Contains reports whether price falls inside the window, bounds inclusive.
func (b Budget) Contains(price float64) bool {
	if b.Min != nil && price < *b.Min {
		return false
	}
	if b.Max != nil && price > *b.Max {
		return false
	}
	return true
}

// Clone copies the bounds so the result shares no pointers with b.
func (b Budget) Clone() Budget {
	var out Budget
	if b.Min != nil {
		v := *b.Min
		out.Min = &v
	}
	if b.Max != nil {
		v := *b.Max
		out.Max = &v
	}
	return out
}

// String renders "min-max" with empty sides for absent bounds, "" when unbounded.
func (b Budget) String() string {
	if b.IsZero() {
		return ""
	}
	var lo, hi string
	if b.Min != nil {
		lo = formatNumber(*b.Min)
	}
	if b.Max != nil {
		hi = formatNumber(*b.Max)
	}
	return lo + "-" + hi
}
