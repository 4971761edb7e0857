// Package inventory tracks the tasks available in a project, aggregating
// them from a set of registered sources and serving a deterministically
// ordered, optionally recency-biased listing.
//
// One Inventory exists per project context. All mutating operations and
// the listing query are expected to run on a single logical owner; the
// registry itself takes no locks and performs no I/O.
package inventory

import (
	"sort"

	"taskdock/internal/logging"
	"taskdock/internal/task"
)

// SourcedTask pairs a task with the kind of the source that produced it.
type SourcedTask struct {
	Kind SourceKind
	Task task.Task
}

// registration pairs one source with its kind and the cancel handle of
// the change subscription installed at add time.
type registration struct {
	source task.Source
	kind   SourceKind
	cancel func()
}

// Inventory owns the ordered list of source registrations (insertion
// order, never re-sorted) and the bounded log of recently scheduled
// task identifiers.
type Inventory struct {
	sources  []registration
	history  usageLog
	notifier task.ChangeNotifier
}

// New creates an empty inventory.
func New() *Inventory {
	return &Inventory{}
}

// Subscribe registers an observer of the generic "registry changed"
// signal, emitted when a source is added or a source's data mutates.
// Consumers are expected to re-run ListTasks on receipt.
func (inv *Inventory) Subscribe(fn func()) (cancel func()) {
	return inv.notifier.Subscribe(fn)
}

// AddSource registers a new task source built by factory.
//
// If the kind carries a path and a registration with an equal path
// already exists, the call is a silent no-op: the factory is never
// invoked, the existing source survives untouched, and observers are
// not notified. Otherwise the source is constructed, subscribed so its
// internal mutations propagate as registry notifications, appended, and
// observers are notified.
func (inv *Inventory) AddSource(kind SourceKind, factory func() task.Source) {
	if absPath, ok := kind.AbsPath(); ok {
		for _, reg := range inv.sources {
			if existing, ok := reg.kind.AbsPath(); ok && existing == absPath {
				logging.InventoryDebug("Source for %s already exists, not adding", absPath)
				return
			}
		}
	}

	src := factory()
	inv.sources = append(inv.sources, registration{
		source: src,
		kind:   kind,
		cancel: src.Subscribe(inv.notifier.Notify),
	})
	inv.notifier.Notify()
}

// RemoveByPath removes every registration whose kind carries exactly
// this absolute path, making its tasks unavailable in fetch results.
// The slot becomes available for re-registration.
func (inv *Inventory) RemoveByPath(absPath string) {
	inv.removeIf(func(k SourceKind) bool {
		p, ok := k.AbsPath()
		return ok && p == absPath
	})
}

// RemoveByWorktree removes every registration whose kind is scoped to
// the given worktree id, regardless of its path.
func (inv *Inventory) RemoveByWorktree(id WorktreeID) {
	inv.removeIf(func(k SourceKind) bool {
		w, ok := k.Worktree()
		return ok && w == id
	})
}

func (inv *Inventory) removeIf(match func(SourceKind) bool) {
	kept := inv.sources[:0]
	for _, reg := range inv.sources {
		if match(reg.kind) {
			reg.cancel()
			continue
		}
		kept = append(kept, reg)
	}
	for i := len(kept); i < len(inv.sources); i++ {
		inv.sources[i] = registration{}
	}
	inv.sources = kept
}

// SourceAs returns the first registered source of concrete type T, in
// registration order, if any. Collaborators use this for
// provider-specific operations, such as building a task from free text.
func SourceAs[T task.Source](inv *Inventory) (T, bool) {
	for _, reg := range inv.sources {
		if src, ok := reg.source.(T); ok {
			return src, true
		}
	}
	var zero T
	return zero, false
}

// ListTasks pulls fresh results from every participating source and
// returns them in a single deterministic order.
//
// A registration participates when no worktree filter is given, when
// its kind carries no worktree id, or when its worktree id equals the
// filter; global sources stay visible inside any worktree context.
// The path is passed through to each source as-is.
//
// With recentFirst, distinct identifiers are ranked by a reverse walk
// over the usage log (0 = most recently scheduled); identifiers absent
// from the log rank one past the maximum and therefore sort after all
// ranked tasks. Ties break on origin specificity (worktree-scoped
// first), then numeric-prefix-aware name order, then the raw name.
func (inv *Inventory) ListTasks(path string, worktree *WorktreeID, recentFirst bool) []SourcedTask {
	ranks := make(map[task.ID]int)
	next := 0
	if recentFirst {
		inv.history.eachNewestFirst(func(id task.ID) {
			if _, seen := ranks[id]; !seen {
				ranks[id] = next
				next++
			}
		})
	}
	unranked := next

	type rankedTask struct {
		SourcedTask
		rank int
	}
	var candidates []rankedTask
	for _, reg := range inv.sources {
		if worktree != nil {
			if id, scoped := reg.kind.Worktree(); scoped && id != *worktree {
				continue
			}
		}
		for _, t := range reg.source.TasksForPath(path) {
			rank := unranked
			if r, ok := ranks[t.ID()]; ok {
				rank = r
			}
			candidates = append(candidates, rankedTask{
				SourcedTask: SourcedTask{Kind: reg.kind, Task: t},
				rank:        rank,
			})
		}
	}

	sort.SliceStable(candidates, func(i, j int) bool {
		a, b := candidates[i], candidates[j]
		if a.rank != b.rank {
			return a.rank < b.rank
		}
		if aw, bw := a.Kind.IsWorktree(), b.Kind.IsWorktree(); aw != bw {
			return aw
		}
		if c := compareTaskNames(a.Task.Name(), b.Task.Name()); c != 0 {
			return c < 0
		}
		return a.Task.Name() < b.Task.Name()
	})

	out := make([]SourcedTask, len(candidates))
	for i, c := range candidates {
		out[i] = c.SourcedTask
	}
	return out
}

// RecordScheduled registers a task "usage" as being scheduled, to bias
// future recency-ranked listings. Never fails.
func (inv *Inventory) RecordScheduled(id task.ID) {
	inv.history.push(id)
}

// LastScheduled resolves the most recently scheduled identifier against
// the current sources. Absent when the history is empty or no
// registered source still produces a task with that identifier.
func (inv *Inventory) LastScheduled() (task.Task, bool) {
	id, ok := inv.history.last()
	if !ok {
		return nil, false
	}
	for _, st := range inv.ListTasks("", nil, false) {
		if st.Task.ID() == id {
			return st.Task, true
		}
	}
	return nil, false
}
