package orderindex

// BoundKind says how a Bound constrains one end of a range.
type BoundKind int

const (
	Unbounded BoundKind = iota
	Included
	Excluded
)

func (k BoundKind) String() string {
	switch k {
	case Included:
		return "included"
	case Excluded:
		return "excluded"
	default:
		return "unbounded"
	}
}

// Bound is one end of a range of order keys.
type Bound[O any] struct {
	Value O
	Kind  BoundKind
}

// Bounds is an interval of order keys. The zero value covers everything.
type Bounds[O any] struct {
	Lower Bound[O]
	Upper Bound[O]
}

// All returns bounds that admit every order key.
func All[O any]() Bounds[O] {
	return Bounds[O]{}
}

// From returns [lo, ∞).
func From[O any](lo O) Bounds[O] {
	return Bounds[O]{Lower: Bound[O]{Value: lo, Kind: Included}}
}

// After returns (lo, ∞).
func After[O any](lo O) Bounds[O] {
	return Bounds[O]{Lower: Bound[O]{Value: lo, Kind: Excluded}}
}

// To returns (-∞, hi].
func To[O any](hi O) Bounds[O] {
	return Bounds[O]{Upper: Bound[O]{Value: hi, Kind: Included}}
}

// Before returns (-∞, hi).
func Before[O any](hi O) Bounds[O] {
	return Bounds[O]{Upper: Bound[O]{Value: hi, Kind: Excluded}}
}

// Between returns the half open interval [lo, hi).
func Between[O any](lo, hi O) Bounds[O] {
	return Bounds[O]{
		Lower: Bound[O]{Value: lo, Kind: Included},
		Upper: Bound[O]{Value: hi, Kind: Excluded},
	}
}

// Closed returns [lo, hi].
func Closed[O any](lo, hi O) Bounds[O] {
	return Bounds[O]{
		Lower: Bound[O]{Value: lo, Kind: Included},
		Upper: Bound[O]{Value: hi, Kind: Included},
	}
}

// above reports whether o lies past the upper bound.
func (b Bounds[O]) above(o O, compare func(O, O) int) bool {
	switch b.Upper.Kind {
	case Included:
		return compare(o, b.Upper.Value) > 0
	case Excluded:
		return compare(o, b.Upper.Value) >= 0
	default:
		return false
	}
}

// below reports whether o lies before the lower bound.
func (b Bounds[O]) below(o O, compare func(O, O) int) bool {
	switch b.Lower.Kind {
	case Included:
		return compare(o, b.Lower.Value) < 0
	case Excluded:
		return compare(o, b.Lower.Value) <= 0
	default:
		return false
	}
}

// Contains reports whether o falls inside b.
func (b Bounds[O]) Contains(o O, compare func(O, O) int) bool {
	return !b.below(o, compare) && !b.above(o, compare)
}
