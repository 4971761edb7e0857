// Package task defines the boundary types the inventory aggregates over:
// runnable task values, the provider interface that yields them, and the
// change-notification helper providers use to signal data mutations.
package task

// ID uniquely names a task instance within its source's lifetime. It is
// the key for usage tracking and for resolving a scheduled task back to
// a concrete Task.
type ID string

// Task is an immutable, named runnable definition. Implementations must
// be safe to share between the inventory and its consumers.
type Task interface {
	// ID returns the task's stable identifier.
	ID() ID
	// Name returns the display name used for sorting and presentation.
	Name() string
	// Cwd returns the task's working directory, or "" when it has none.
	Cwd() string
	// Spawn materializes an executable spawn specification. The cwd
	// argument overrides the task's own working directory when non-empty.
	// The second return is false when the task cannot be spawned.
	Spawn(cwd string) (SpawnSpec, bool)
}

// SpawnSpec describes everything needed to start a task in a terminal.
// Nothing in this module executes it.
type SpawnSpec struct {
	ID                  ID
	Label               string
	Command             string
	Args                []string
	Env                 map[string]string
	Cwd                 string
	UseNewTerminal      bool
	AllowConcurrentRuns bool
}

// Source is a provider of tasks relevant to an optional filesystem path.
// The path is advisory: each source decides how to use or ignore it,
// including returning a fixed list for "".
//
// Sources that mutate their internal data must notify subscribers so the
// inventory can signal downstream consumers to re-query.
type Source interface {
	TasksForPath(path string) []Task
	Subscribe(fn func()) (cancel func())
}
