package valord

// OrdBy is implemented by values that carry their own order key. OrdBy
// must be pure and deterministic: the map calls it before and after every
// in-place mutation to find out whether the value moved.
type OrdBy[O any] interface {
	OrdBy() O
}

// Pair is one key and its value, as returned by First, Last and snapshots.
type Pair[K, V any] struct {
	Key   K
	Value V
}

func ordByMethod[O any, V OrdBy[O]](v V) O {
	return v.OrdBy()
}

func identity[V any](v V) V {
	return v
}
