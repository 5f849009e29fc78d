package valord

import (
	"errors"
	"fmt"
)

var ErrInvariant = errors.New("valord: index invariant violated")

// Check verifies that the key index and the order index agree: every key
// is registered exactly once, under the order key its value currently
// produces, and the order index holds no keys the map does not. It must not
// be called while a guard is live.
func (m *Map[K, O, V]) Check() error {
	if n, want := m.order.Len(), len(m.entries); n != want {
		return fmt.Errorf("%w: order index holds %d keys, map holds %d", ErrInvariant, n, want)
	}

	seen := make(map[K]struct{}, len(m.entries))
	for o, k := range m.order.Ascend() {
		e, ok := m.entries[k]
		if !ok {
			return fmt.Errorf("%w: orphan key %v under %v", ErrInvariant, k, o)
		}
		if _, dup := seen[k]; dup {
			return fmt.Errorf("%w: key %v registered more than once", ErrInvariant, k)
		}
		seen[k] = struct{}{}

		if m.order.Compare(o, e.order) != 0 {
			return fmt.Errorf("%w: key %v found under %v, entry says %v", ErrInvariant, k, o, e.order)
		}
		if now := m.ordBy(e.value); m.order.Compare(o, now) != 0 {
			return fmt.Errorf("%w: key %v registered under %v but value orders as %v", ErrInvariant, k, o, now)
		}
	}
	return nil
}
