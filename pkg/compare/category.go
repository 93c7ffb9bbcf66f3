package compare

// Category classifies a value against a closed range.
type Category int

const (
	InRange Category = iota
	BelowRange
	AboveRange
)

// String returns the CSS-style class name of the category.
func (c Category) String() string {
	switch c {
	case InRange:
		return "in-range"
	case BelowRange:
		return "below-range"
	case AboveRange:
		return "above-range"
	default:
		return "unknown"
	}
}

// Categorize places v relative to [lo, hi]. Both bounds are inclusive, so
// exactly one category applies to every value.
func Categorize(v, lo, hi float64) Category {
	switch {
	case v < lo:
		return BelowRange
	case v > hi:
		return AboveRange
	default:
		return InRange
	}
}
