package inventory

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"taskdock/internal/task"
)

type testTask struct {
	id   task.ID
	name string
}

func (t testTask) ID() task.ID  { return t.id }
func (t testTask) Name() string { return t.name }
func (t testTask) Cwd() string  { return "" }
func (t testTask) Spawn(string) (task.SpawnSpec, bool) {
	return task.SpawnSpec{}, false
}

type testSource struct {
	task.ChangeNotifier
	tasks []task.Task
}

func newTestSource(names ...string) *testSource {
	s := &testSource{}
	s.setTasks(names...)
	return s
}

func (s *testSource) setTasks(names ...string) {
	s.tasks = nil
	for i, name := range names {
		s.tasks = append(s.tasks, testTask{
			id:   task.ID(fmt.Sprintf("task_%d_%s", i, name)),
			name: name,
		})
	}
	s.Notify()
}

func (s *testSource) TasksForPath(string) []task.Task {
	return append([]task.Task(nil), s.tasks...)
}

// otherSource exists to exercise typed lookup across concrete types.
type otherSource struct {
	testSource
}

func addUserSource(inv *Inventory, names ...string) {
	inv.AddSource(UserInput(), func() task.Source {
		return newTestSource(names...)
	})
}

func listNames(t *testing.T, inv *Inventory, path string, worktree *WorktreeID, recentFirst bool) []string {
	t.Helper()
	var names []string
	for _, st := range inv.ListTasks(path, worktree, recentFirst) {
		names = append(names, st.Task.Name())
	}
	return names
}

func scheduleByName(t *testing.T, inv *Inventory, name string) {
	t.Helper()
	for _, st := range inv.ListTasks("", nil, false) {
		if st.Task.Name() == name {
			inv.RecordScheduled(st.Task.ID())
			return
		}
	}
	t.Fatalf("failed to find task with name %q", name)
}

func TestTaskListSorting(t *testing.T) {
	inv := New()

	assert.Empty(t, listNames(t, inv, "", nil, true), "no tasks expected for empty inventory")
	assert.Empty(t, listNames(t, inv, "", nil, false), "no tasks expected for empty inventory")

	addUserSource(inv, "3_task")
	addUserSource(inv, "1_task", "2_task", "1_a_task")

	expectedInitial := []string{"1_a_task", "1_task", "2_task", "3_task"}
	assert.Equal(t, expectedInitial, listNames(t, inv, "", nil, false),
		"task list without recency should be sorted alphanumerically")
	assert.Equal(t, expectedInitial, listNames(t, inv, "", nil, true),
		"tasks with equal usage should be sorted alphanumerically")

	scheduleByName(t, inv, "2_task")
	assert.Equal(t, expectedInitial, listNames(t, inv, "", nil, false),
		"task list without recency should be sorted alphanumerically")
	assert.Equal(t,
		[]string{"2_task", "1_a_task", "1_task", "3_task"},
		listNames(t, inv, "", nil, true))

	scheduleByName(t, inv, "1_task")
	scheduleByName(t, inv, "1_task")
	scheduleByName(t, inv, "1_task")
	scheduleByName(t, inv, "3_task")
	assert.Equal(t, expectedInitial, listNames(t, inv, "", nil, false),
		"task list without recency should be sorted alphanumerically")
	assert.Equal(t,
		[]string{"3_task", "1_task", "2_task", "1_a_task"},
		listNames(t, inv, "", nil, true))

	addUserSource(inv, "10_hello", "11_hello")
	expectedUpdated := []string{"1_a_task", "1_task", "2_task", "3_task", "10_hello", "11_hello"}
	assert.Equal(t, expectedUpdated, listNames(t, inv, "", nil, false),
		"task list without recency should be sorted alphanumerically")
	assert.Equal(t,
		[]string{"3_task", "1_task", "2_task", "1_a_task", "10_hello", "11_hello"},
		listNames(t, inv, "", nil, true))

	scheduleByName(t, inv, "11_hello")
	assert.Equal(t, expectedUpdated, listNames(t, inv, "", nil, false),
		"task list without recency should be sorted alphanumerically")
	assert.Equal(t,
		[]string{"11_hello", "3_task", "1_task", "2_task", "1_a_task", "10_hello"},
		listNames(t, inv, "", nil, true))
}

func TestDuplicatePathIsNoOp(t *testing.T) {
	inv := New()

	inv.AddSource(AbsPath("/projects/app/tasks.yaml"), func() task.Source {
		return newTestSource("build")
	})

	secondInvoked := false
	inv.AddSource(AbsPath("/projects/app/tasks.yaml"), func() task.Source {
		secondInvoked = true
		return newTestSource("deploy")
	})

	assert.False(t, secondInvoked, "factory for the duplicate must never be invoked")
	assert.Equal(t, []string{"build"}, listNames(t, inv, "", nil, false),
		"original source's tasks must survive the duplicate registration")

	// A worktree kind at the same path occupies the same slot.
	inv.AddSource(Worktree(7, "/projects/app/tasks.yaml"), func() task.Source {
		secondInvoked = true
		return newTestSource("release")
	})
	assert.False(t, secondInvoked)
	assert.Equal(t, []string{"build"}, listNames(t, inv, "", nil, false))
}

func TestDuplicatePathDoesNotNotify(t *testing.T) {
	inv := New()
	notifications := 0
	cancel := inv.Subscribe(func() { notifications++ })
	defer cancel()

	inv.AddSource(AbsPath("/a/tasks.yaml"), func() task.Source {
		return newTestSource("one")
	})
	require.Equal(t, 1, notifications)

	inv.AddSource(AbsPath("/a/tasks.yaml"), func() task.Source {
		return newTestSource("two")
	})
	assert.Equal(t, 1, notifications, "duplicate rejection must not notify observers")
}

func TestRemovalReopensSlot(t *testing.T) {
	inv := New()

	inv.AddSource(AbsPath("/a/tasks.yaml"), func() task.Source {
		return newTestSource("old_task")
	})
	inv.RemoveByPath("/a/tasks.yaml")
	assert.Empty(t, listNames(t, inv, "", nil, false))

	inv.AddSource(AbsPath("/a/tasks.yaml"), func() task.Source {
		return newTestSource("new_task")
	})
	assert.Equal(t, []string{"new_task"}, listNames(t, inv, "", nil, false))
}

func TestRemoveByWorktree(t *testing.T) {
	inv := New()

	inv.AddSource(Worktree(1, "/w1/tasks.yaml"), func() task.Source {
		return newTestSource("w1_task")
	})
	inv.AddSource(Worktree(2, "/w2/tasks.yaml"), func() task.Source {
		return newTestSource("w2_task")
	})
	addUserSource(inv, "u_task")

	inv.RemoveByWorktree(1)
	assert.Equal(t, []string{"w2_task", "u_task"}, listNames(t, inv, "", nil, false))

	// The worktree slot reopens, path included.
	inv.AddSource(Worktree(1, "/w1/tasks.yaml"), func() task.Source {
		return newTestSource("w1_again")
	})
	assert.Equal(t, []string{"w1_again", "w2_task", "u_task"}, listNames(t, inv, "", nil, false))
}

func TestRemovedSourceSubscriptionDropped(t *testing.T) {
	inv := New()

	src := newTestSource("a_task")
	inv.AddSource(AbsPath("/a/tasks.yaml"), func() task.Source { return src })

	notifications := 0
	cancel := inv.Subscribe(func() { notifications++ })
	defer cancel()

	src.setTasks("b_task")
	require.Equal(t, 1, notifications, "source mutation must reach registry observers")

	inv.RemoveByPath("/a/tasks.yaml")
	src.setTasks("c_task")
	assert.Equal(t, 1, notifications, "mutations of a removed source must not notify")
}

func TestWorktreeFilter(t *testing.T) {
	inv := New()

	addUserSource(inv, "a_task")
	inv.AddSource(Worktree(1, "/w1/tasks.yaml"), func() task.Source {
		return newTestSource("z_task")
	})
	inv.AddSource(Worktree(2, "/w2/tasks.yaml"), func() task.Source {
		return newTestSource("m_task")
	})

	assert.Equal(t, []string{"m_task", "z_task", "a_task"}, listNames(t, inv, "", nil, false),
		"worktree-scoped origins sort before global ones at equal recency")

	w1 := WorktreeID(1)
	assert.Equal(t, []string{"z_task", "a_task"}, listNames(t, inv, "", &w1, false),
		"non-worktree sources must stay visible inside a worktree context")

	w3 := WorktreeID(3)
	assert.Equal(t, []string{"a_task"}, listNames(t, inv, "", &w3, false))
}

func TestSourceAs(t *testing.T) {
	inv := New()

	_, ok := SourceAs[*testSource](inv)
	assert.False(t, ok)

	first := newTestSource("first")
	second := newTestSource("second")
	other := &otherSource{}
	inv.AddSource(UserInput(), func() task.Source { return first })
	inv.AddSource(UserInput(), func() task.Source { return other })
	inv.AddSource(UserInput(), func() task.Source { return second })

	got, ok := SourceAs[*testSource](inv)
	require.True(t, ok)
	assert.Same(t, first, got, "first match in registration order wins")

	gotOther, ok := SourceAs[*otherSource](inv)
	require.True(t, ok)
	assert.Same(t, other, gotOther)
}

func TestLastScheduled(t *testing.T) {
	inv := New()

	_, ok := inv.LastScheduled()
	assert.False(t, ok, "empty history has no last scheduled task")

	inv.AddSource(AbsPath("/a/tasks.yaml"), func() task.Source {
		return newTestSource("1_task", "2_task")
	})

	scheduleByName(t, inv, "2_task")
	last, ok := inv.LastScheduled()
	require.True(t, ok)
	assert.Equal(t, "2_task", last.Name())

	scheduleByName(t, inv, "1_task")
	last, ok = inv.LastScheduled()
	require.True(t, ok)
	assert.Equal(t, "1_task", last.Name())

	inv.RemoveByPath("/a/tasks.yaml")
	_, ok = inv.LastScheduled()
	assert.False(t, ok, "identifier of a removed source must not resolve")
}

func TestLastScheduledStaleIdentifier(t *testing.T) {
	inv := New()

	src := newTestSource("ephemeral")
	inv.AddSource(UserInput(), func() task.Source { return src })

	scheduleByName(t, inv, "ephemeral")
	src.setTasks("replacement")

	_, ok := inv.LastScheduled()
	assert.False(t, ok, "identifier dropped by its source must not resolve")
}

func TestRecencySurvivesHistoryDuplicates(t *testing.T) {
	inv := New()
	addUserSource(inv, "1_task", "2_task", "3_task")

	// B scheduled three times, A once; B most recent.
	scheduleByName(t, inv, "3_task")
	scheduleByName(t, inv, "2_task")
	scheduleByName(t, inv, "2_task")
	scheduleByName(t, inv, "2_task")

	assert.Equal(t,
		[]string{"2_task", "3_task", "1_task"},
		listNames(t, inv, "", nil, true),
		"most recent distinct identifier ranks first, repeats are ignored")
}
