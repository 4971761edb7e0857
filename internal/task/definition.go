package task

import (
	"errors"
	"fmt"
)

// Standard errors returned when validating task definitions.
var (
	ErrLabelEmpty   = errors.New("task label is empty")
	ErrCommandEmpty = errors.New("task command is empty")
)

// Definition is the declarative shape of a file-backed task. It is the
// unit parsed out of a task definition file by the static source.
type Definition struct {
	// Label is the human-readable name shown in listings.
	Label string `yaml:"label"`
	// Command is the executable to run.
	Command string `yaml:"command"`
	// Args are passed to Command verbatim.
	Args []string `yaml:"args,omitempty"`
	// Env is merged into the spawned process environment.
	Env map[string]string `yaml:"env,omitempty"`
	// Cwd is the working directory, empty for "wherever the consumer decides".
	Cwd string `yaml:"cwd,omitempty"`
	// UseNewTerminal requests a dedicated terminal for the run.
	UseNewTerminal bool `yaml:"use_new_terminal,omitempty"`
	// AllowConcurrentRuns permits overlapping runs of the same task.
	AllowConcurrentRuns bool `yaml:"allow_concurrent_runs,omitempty"`
}

// Validate checks the fields a definition cannot function without.
func (d Definition) Validate() error {
	if d.Label == "" {
		return ErrLabelEmpty
	}
	if d.Command == "" {
		return fmt.Errorf("%w: %s", ErrCommandEmpty, d.Label)
	}
	return nil
}

// StaticTask adapts a Definition to the Task interface under a stable
// identifier assigned by the owning source.
type StaticTask struct {
	id  ID
	def Definition
}

// NewStaticTask pairs a definition with its identifier.
func NewStaticTask(id ID, def Definition) StaticTask {
	return StaticTask{id: id, def: def}
}

func (t StaticTask) ID() ID       { return t.id }
func (t StaticTask) Name() string { return t.def.Label }
func (t StaticTask) Cwd() string  { return t.def.Cwd }

// Spawn materializes the definition. A non-empty cwd argument overrides
// the definition's own working directory.
func (t StaticTask) Spawn(cwd string) (SpawnSpec, bool) {
	if cwd == "" {
		cwd = t.def.Cwd
	}
	return SpawnSpec{
		ID:                  t.id,
		Label:               t.def.Label,
		Command:             t.def.Command,
		Args:                t.def.Args,
		Env:                 t.def.Env,
		Cwd:                 cwd,
		UseNewTerminal:      t.def.UseNewTerminal,
		AllowConcurrentRuns: t.def.AllowConcurrentRuns,
	}, true
}
