package valord

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/jmorganca/valord/logutil"
	"github.com/jmorganca/valord/watch"
)

// ErrClosed is returned by [Watcher.HeadChanged] after [Map.Close].
var ErrClosed = watch.ErrClosed

// Snapshot captures the head of a map: the largest order key and every
// entry tied on it, in key order.
type Snapshot[K comparable, O comparable, V any] struct {
	Order   O
	Entries []Pair[K, V]
	At      time.Time
}

func newSnapshot[K comparable, O comparable, V any](o O, entries []Pair[K, V]) *Snapshot[K, O, V] {
	return &Snapshot[K, O, V]{Order: o, Entries: entries, At: time.Now()}
}

// Keys returns the keys of the head entries.
func (s *Snapshot[K, O, V]) Keys() []K {
	keys := make([]K, len(s.Entries))
	for i, p := range s.Entries {
		keys[i] = p.Key
	}
	return keys
}

// Watcher observes changes to the head of a map. The head is the bucket
// with the largest order key; it changes when that order key changes, when
// the set of keys tied on it changes, or when one of its values is
// replaced or released from a guard.
//
// Watchers are safe to use from any goroutine, but a single Watcher must
// not be shared by concurrent callers of HeadChanged.
type Watcher[K comparable, O comparable, V any] struct {
	id uuid.UUID
	rx *watch.Receiver[*Snapshot[K, O, V]]
}

// Watcher returns a new watcher. Head changes published before this call
// are not reported by HeadChanged; use Latest to read the current head.
func (m *Map[K, O, V]) Watcher() *Watcher[K, O, V] {
	w := &Watcher[K, O, V]{id: uuid.New(), rx: m.slot.Subscribe()}
	logutil.Trace("valord: watcher subscribed", "watcher", w.id)
	return w
}

func (w *Watcher[K, O, V]) ID() uuid.UUID {
	return w.id
}

// HeadChanged waits until the head has changed since the last snapshot
// this watcher returned, then returns the most recent one. Intermediate
// heads published while the caller was away are skipped. A nil snapshot
// means the map became empty.
//
// It returns [ErrClosed] once the map is closed, and ctx.Err() if ctx is
// done first.
func (w *Watcher[K, O, V]) HeadChanged(ctx context.Context) (*Snapshot[K, O, V], error) {
	s, err := w.rx.Changed(ctx)
	if err != nil {
		return nil, err
	}
	logutil.TraceContext(ctx, "valord: head observed", "watcher", w.id, "version", w.rx.Seen())
	return s, nil
}

// Latest returns the current head without waiting and without marking it
// observed. It is nil before the first publish and after the map empties.
func (w *Watcher[K, O, V]) Latest() *Snapshot[K, O, V] {
	return w.rx.Borrow()
}
