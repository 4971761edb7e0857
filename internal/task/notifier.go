package task

import (
	"sync"

	"github.com/google/uuid"
)

// ChangeNotifier fans a "data changed" signal out to subscribers. It is
// the explicit-callback replacement for a reactive cell: a source embeds
// it, calls Notify after mutating its data, and the inventory subscribes
// at registration time to forward the signal to its own observers.
//
// Subscriptions are keyed by uuid so cancellation is O(1) and
// unaffected by other subscribers coming and going.
type ChangeNotifier struct {
	mu        sync.Mutex
	observers map[uuid.UUID]func()
}

// Subscribe registers fn to run on every Notify. The returned cancel
// removes the subscription; calling it more than once is harmless.
func (n *ChangeNotifier) Subscribe(fn func()) (cancel func()) {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.observers == nil {
		n.observers = make(map[uuid.UUID]func())
	}
	token := uuid.New()
	n.observers[token] = fn

	return func() {
		n.mu.Lock()
		delete(n.observers, token)
		n.mu.Unlock()
	}
}

// Notify invokes every live subscriber. Callbacks run outside the lock,
// so a callback may subscribe or cancel without deadlocking.
func (n *ChangeNotifier) Notify() {
	n.mu.Lock()
	fns := make([]func(), 0, len(n.observers))
	for _, fn := range n.observers {
		fns = append(fns, fn)
	}
	n.mu.Unlock()

	for _, fn := range fns {
		fn()
	}
}
