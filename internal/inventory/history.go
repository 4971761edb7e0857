package inventory

import "taskdock/internal/task"

// maxUsageEntries bounds the scheduling log. Oldest entries are evicted
// first once the bound is exceeded.
const maxUsageEntries = 5000

// usageLog is a bounded FIFO of scheduled task identifiers: append at
// the tail, evict from the head. It is a recency log, not a set; an
// identifier may appear any number of times.
//
// Implemented as a head-indexed slice window: push appends, eviction
// advances the head, and the dead prefix is reclaimed once it dominates
// the backing array.
type usageLog struct {
	entries []task.ID
	head    int
}

func (l *usageLog) push(id task.ID) {
	l.entries = append(l.entries, id)
	if l.len() > maxUsageEntries {
		l.head++
		if l.head > len(l.entries)/2 {
			l.entries = append([]task.ID(nil), l.entries[l.head:]...)
			l.head = 0
		}
	}
}

func (l *usageLog) len() int {
	return len(l.entries) - l.head
}

// last returns the tail-most (most recently pushed) identifier.
func (l *usageLog) last() (task.ID, bool) {
	if l.len() == 0 {
		return "", false
	}
	return l.entries[len(l.entries)-1], true
}

// eachNewestFirst walks the log from most recent to least recent.
func (l *usageLog) eachNewestFirst(fn func(task.ID)) {
	for i := len(l.entries) - 1; i >= l.head; i-- {
		fn(l.entries[i])
	}
}
