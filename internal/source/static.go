package source

import (
	"fmt"
	"os"
	"sync"

	"gopkg.in/yaml.v3"

	"taskdock/internal/logging"
	"taskdock/internal/task"
)

// Static serves task definitions parsed from one YAML file. Task
// identifiers are derived from the file path, the definition's position
// and its label, so they stay stable across reloads and the usage
// history keeps ranking them.
//
// A failed reload keeps the previous task list: the registry never sees
// an error from a source, only its last good data.
type Static struct {
	task.ChangeNotifier

	path string

	mu    sync.Mutex
	tasks []task.Task
}

// NewStatic reads and parses the task definition file at absPath.
func NewStatic(absPath string) (*Static, error) {
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("read task file %s: %w", absPath, err)
	}
	return NewStaticFromData(absPath, data)
}

// NewStaticFromData builds a static source from in-memory data; the
// path is used only for task identity.
func NewStaticFromData(absPath string, data []byte) (*Static, error) {
	s := &Static{path: absPath}
	if err := s.Reload(data); err != nil {
		return nil, err
	}
	return s, nil
}

// Path returns the absolute path of the backing definition file.
func (s *Static) Path() string {
	return s.path
}

// Reload reparses the definition data, replaces the task list and
// notifies subscribers. On error the previous list stays in place.
func (s *Static) Reload(data []byte) error {
	var defs []task.Definition
	if err := yaml.Unmarshal(data, &defs); err != nil {
		return fmt.Errorf("parse task definitions %s: %w", s.path, err)
	}

	tasks := make([]task.Task, 0, len(defs))
	for i, def := range defs {
		if err := def.Validate(); err != nil {
			return fmt.Errorf("task definition %d in %s: %w", i, s.path, err)
		}
		id := task.ID(fmt.Sprintf("static_%s_%d_%s", s.path, i, def.Label))
		tasks = append(tasks, task.NewStaticTask(id, def))
	}

	s.mu.Lock()
	s.tasks = tasks
	s.mu.Unlock()

	logging.SourceDebug("Static: loaded %d tasks from %s", len(tasks), s.path)
	s.Notify()
	return nil
}

// TasksForPath returns the full definition list; static definitions are
// fixed, the path is advisory only.
func (s *Static) TasksForPath(string) []task.Task {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]task.Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}
