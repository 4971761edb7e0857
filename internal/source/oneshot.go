// Package source holds the concrete task providers the inventory
// aggregates: ad-hoc one-shot tasks typed by the user and file-backed
// static definitions, plus the filesystem watcher that keeps the static
// ones fresh.
package source

import (
	"sync"

	"taskdock/internal/logging"
	"taskdock/internal/task"
)

// Oneshot serves ad-hoc tasks built from free-form user text. A task's
// identifier is the prompt itself, so spawning the same prompt twice
// reuses the original task and its recency rank.
type Oneshot struct {
	task.ChangeNotifier

	mu    sync.Mutex
	tasks []task.Task
}

// NewOneshot creates an empty one-shot source.
func NewOneshot() *Oneshot {
	return &Oneshot{}
}

// Spawn returns the task for the given prompt, creating it on first
// use. Creation notifies subscribers.
func (o *Oneshot) Spawn(prompt string) task.Task {
	o.mu.Lock()
	for _, t := range o.tasks {
		if t.ID() == task.ID(prompt) {
			o.mu.Unlock()
			return t
		}
	}
	t := oneshotTask{id: task.ID(prompt)}
	o.tasks = append(o.tasks, t)
	o.mu.Unlock()

	logging.SourceDebug("Oneshot: spawned task %q", prompt)
	o.Notify()
	return t
}

// TasksForPath returns every task spawned so far; the path is ignored,
// one-shot tasks are not tied to any location.
func (o *Oneshot) TasksForPath(string) []task.Task {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]task.Task, len(o.tasks))
	copy(out, o.tasks)
	return out
}

// oneshotTask runs its prompt verbatim as a shell command line.
type oneshotTask struct {
	id task.ID
}

func (t oneshotTask) ID() task.ID  { return t.id }
func (t oneshotTask) Name() string { return string(t.id) }
func (t oneshotTask) Cwd() string  { return "" }

func (t oneshotTask) Spawn(cwd string) (task.SpawnSpec, bool) {
	if t.id == "" {
		return task.SpawnSpec{}, false
	}
	return task.SpawnSpec{
		ID:      t.id,
		Label:   string(t.id),
		Command: string(t.id),
		Cwd:     cwd,
	}, true
}
