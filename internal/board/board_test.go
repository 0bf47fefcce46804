package board

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/dori/lanes/internal/model"
)

// counterIDs returns a deterministic id generator for tests
func counterIDs() func() string {
	n := 0
	return func() string {
		n++
		return fmt.Sprintf("t%d", n)
	}
}

func newTestBoard(t *testing.T, snap Snapshot) *Board {
	t.Helper()
	b, err := New(snap, WithIDFunc(counterIDs()))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return b
}

func twoLists() Snapshot {
	return Snapshot{
		Categories: []model.Category{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
		Tasks: []model.Task{
			{ID: "T1", Title: "one", Category: "A"},
			{ID: "T2", Title: "two", Category: "A"},
			{ID: "T3", Title: "three", Category: "B"},
		},
	}
}

func ids(tasks []model.Task) []string {
	out := make([]string, len(tasks))
	for i, t := range tasks {
		out[i] = t.ID
	}
	return out
}

func equalIDs(got []model.Task, want ...string) bool {
	g := ids(got)
	if len(g) != len(want) {
		return false
	}
	for i := range g {
		if g[i] != want[i] {
			return false
		}
	}
	return true
}

func TestNewRejectsInvalidSnapshot(t *testing.T) {
	tests := []struct {
		name string
		snap Snapshot
	}{
		{"duplicate category id", Snapshot{Categories: []model.Category{{ID: "a", Name: "A"}, {ID: "a", Name: "B"}}}},
		{"duplicate category name", Snapshot{Categories: []model.Category{{ID: "a", Name: "A"}, {ID: "b", Name: "A"}}}},
		{"unknown task category", Snapshot{
			Categories: []model.Category{{ID: "a", Name: "A"}},
			Tasks:      []model.Task{{ID: "1", Title: "x", Category: "Z"}},
		}},
		{"duplicate task id", Snapshot{
			Categories: []model.Category{{ID: "a", Name: "A"}},
			Tasks:      []model.Task{{ID: "1", Title: "x", Category: "A"}, {ID: "1", Title: "y", Category: "A"}},
		}},
		{"blank task title", Snapshot{
			Categories: []model.Category{{ID: "a", Name: "A"}},
			Tasks:      []model.Task{{ID: "1", Title: "  ", Category: "A"}},
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := New(tt.snap); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestSeedIsValid(t *testing.T) {
	b := newTestBoard(t, Seed())
	if got := len(b.TasksIn("Work")); got != 2 {
		t.Fatalf("Work has %d tasks, want 2", got)
	}
	if got := len(b.TasksIn("Personal")); got != 1 {
		t.Fatalf("Personal has %d tasks, want 1", got)
	}
}

func TestCreateAndDeleteTasks(t *testing.T) {
	b := newTestBoard(t, Seed())

	var created []string
	for i := 0; i < 5; i++ {
		res, err := b.Dispatch(CreateTask{Title: fmt.Sprintf("task %d", i), Category: "Work"})
		if err != nil {
			t.Fatalf("CreateTask: %v", err)
		}
		created = append(created, res.Task.ID)
	}

	for _, id := range []string{created[1], created[3], "1"} {
		if _, err := b.Dispatch(DeleteTask{ID: id}); err != nil {
			t.Fatalf("DeleteTask: %v", err)
		}
	}

	if !equalIDs(b.Tasks(), "2", "3", created[0], created[2], created[4]) {
		t.Fatalf("unexpected tasks %v", ids(b.Tasks()))
	}

	seen := map[string]bool{}
	for _, task := range b.Tasks() {
		if seen[task.ID] {
			t.Fatalf("duplicate id %s", task.ID)
		}
		seen[task.ID] = true
	}
}

func TestCreateTaskValidation(t *testing.T) {
	b := newTestBoard(t, Seed())

	if _, err := b.Dispatch(CreateTask{Title: "   ", Category: "Work"}); !model.IsValidation(err) {
		t.Fatalf("blank title: got %v, want validation error", err)
	}
	if _, err := b.Dispatch(CreateTask{Title: "x", Category: "Nope"}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("unknown category: got %v", err)
	}
	if len(b.Tasks()) != 3 {
		t.Fatalf("rejected creates changed the board")
	}
}

func TestUpdateTaskKeepsPosition(t *testing.T) {
	b := newTestBoard(t, Seed())

	task, _ := b.Task("2")
	task.Title = "Design sign-in page"
	task.Category = "Personal"
	if _, err := b.Dispatch(UpdateTask{Task: task}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}

	if !equalIDs(b.Tasks(), "1", "2", "3") {
		t.Fatalf("order changed: %v", ids(b.Tasks()))
	}
	got, _ := b.Task("2")
	if got.Title != "Design sign-in page" || got.Category != "Personal" {
		t.Fatalf("unexpected task %+v", got)
	}

	task.Category = "Missing"
	if _, err := b.Dispatch(UpdateTask{Task: task}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
}

func TestMissingIDsAreNoOps(t *testing.T) {
	b := newTestBoard(t, Seed())
	calls := 0
	b.Subscribe(func(Snapshot) { calls++ })

	intents := []Intent{
		UpdateTask{Task: model.Task{ID: "ghost", Title: "x", Category: "Work"}},
		DeleteTask{ID: "ghost"},
		UpdateCategory{ID: "ghost", Name: "Other"},
		DeleteCategory{ID: "ghost"},
		MoveTask{DraggedID: "1", TargetID: "ghost"},
		MoveTask{DraggedID: "1", TargetID: "1"},
		MoveTask{DraggedID: "1", TargetID: ""},
	}
	for _, in := range intents {
		res, err := b.Dispatch(in)
		if err != nil {
			t.Fatalf("%T: %v", in, err)
		}
		if res.Changed {
			t.Fatalf("%T reported a change", in)
		}
	}
	if calls != 0 {
		t.Fatalf("subscribers notified %d times", calls)
	}
	if !equalIDs(b.Tasks(), "1", "2", "3") {
		t.Fatalf("board changed: %v", ids(b.Tasks()))
	}
}

func TestCreateCategory(t *testing.T) {
	b := newTestBoard(t, Seed())

	res, err := b.Dispatch(CreateCategory{ID: "later", Name: " Later "})
	if err != nil {
		t.Fatalf("CreateCategory: %v", err)
	}
	if res.Category.Name != "Later" {
		t.Fatalf("name not trimmed: %q", res.Category.Name)
	}

	if _, err := b.Dispatch(CreateCategory{ID: "later", Name: "Other"}); !errors.Is(err, ErrDuplicateCategoryID) {
		t.Fatalf("expected ErrDuplicateCategoryID, got %v", err)
	}
	if _, err := b.Dispatch(CreateCategory{ID: "x", Name: "Work"}); !errors.Is(err, ErrDuplicateCategoryName) {
		t.Fatalf("expected ErrDuplicateCategoryName, got %v", err)
	}
	if _, err := b.Dispatch(CreateCategory{ID: "", Name: "Y"}); !model.IsValidation(err) {
		t.Fatalf("expected validation error, got %v", err)
	}
	if n := len(b.Categories()); n != 3 {
		t.Fatalf("got %d categories, want 3", n)
	}
}

func TestRenameCategoryCascades(t *testing.T) {
	b := newTestBoard(t, twoLists())

	var observed []Snapshot
	b.Subscribe(func(s Snapshot) { observed = append(observed, s) })

	if _, err := b.Dispatch(UpdateCategory{ID: "a", Name: "Doing"}); err != nil {
		t.Fatalf("UpdateCategory: %v", err)
	}

	if len(b.TasksIn("A")) != 0 {
		t.Fatal("tasks still reference the old name")
	}
	if got := b.TasksIn("Doing"); !equalIDs(got, "T1", "T2") {
		t.Fatalf("renamed list holds %v", ids(got))
	}
	if c, _ := b.Category("a"); c.Name != "Doing" {
		t.Fatalf("category name = %q", c.Name)
	}

	if len(observed) != 1 {
		t.Fatalf("got %d notifications, want 1", len(observed))
	}
	for _, task := range observed[0].Tasks {
		if task.Category == "A" {
			t.Fatal("snapshot references the old name")
		}
	}

	if _, err := b.Dispatch(UpdateCategory{ID: "a", Name: "B"}); !errors.Is(err, ErrDuplicateCategoryName) {
		t.Fatalf("expected ErrDuplicateCategoryName, got %v", err)
	}
}

func TestDeleteCategoryCascades(t *testing.T) {
	b := newTestBoard(t, twoLists())

	if _, err := b.Dispatch(DeleteCategory{ID: "a"}); err != nil {
		t.Fatalf("DeleteCategory: %v", err)
	}
	if !equalIDs(b.Tasks(), "T3") {
		t.Fatalf("unexpected tasks %v", ids(b.Tasks()))
	}
	if _, ok := b.Category("a"); ok {
		t.Fatal("category still present")
	}
}

func TestSetTasksRequiresPermutation(t *testing.T) {
	b := newTestBoard(t, twoLists())
	tasks := b.Tasks()

	tests := []struct {
		name  string
		tasks []model.Task
		err   error
	}{
		{"missing task", tasks[:2], ErrNotPermutation},
		{"foreign task", []model.Task{tasks[0], tasks[1], {ID: "T9", Title: "x", Category: "A"}}, ErrNotPermutation},
		{"duplicate task", []model.Task{tasks[0], tasks[0], tasks[2]}, ErrNotPermutation},
		{"unknown category", []model.Task{tasks[2], tasks[1], {ID: "T1", Title: "one", Category: "Z"}}, ErrUnknownCategory},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := b.Dispatch(SetTasks{Tasks: tt.tasks}); !errors.Is(err, tt.err) {
				t.Fatalf("got %v, want %v", err, tt.err)
			}
		})
	}

	rejected := []struct {
		name   string
		mutate func(*model.Task)
	}{
		{"title", func(t *model.Task) { t.Title = "renamed" }},
		{"details", func(t *model.Task) { t.Details = "rewritten" }},
		{"color", func(t *model.Task) { t.Color = "#000000" }},
		{"cover", func(t *model.Task) { t.CoverImage = "data:image/png;base64,AA==" }},
		{"due date", func(t *model.Task) {
			due := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
			t.DueDate = &due
		}},
	}
	for _, tt := range rejected {
		t.Run("changed "+tt.name, func(t *testing.T) {
			edited := b.Tasks()
			tt.mutate(&edited[1])
			if _, err := b.Dispatch(SetTasks{Tasks: edited}); !errors.Is(err, ErrNotPermutation) {
				t.Fatalf("got %v, want ErrNotPermutation", err)
			}
		})
	}

	blank := b.Tasks()
	blank[0].Title = ""
	if _, err := b.Dispatch(SetTasks{Tasks: blank}); !model.IsValidation(err) {
		t.Fatalf("blank title: got %v, want a validation error", err)
	}
	if task, _ := b.Task("T1"); task.Title != "one" {
		t.Fatalf("rejected SetTasks changed the board: %+v", task)
	}

	reordered := []model.Task{tasks[2], tasks[0], tasks[1]}
	reordered[1].Category = "B"
	if _, err := b.Dispatch(SetTasks{Tasks: reordered}); err != nil {
		t.Fatalf("SetTasks: %v", err)
	}
	if !equalIDs(b.Tasks(), "T3", "T1", "T2") {
		t.Fatalf("unexpected order %v", ids(b.Tasks()))
	}
}

func TestRestore(t *testing.T) {
	b := newTestBoard(t, Seed())

	if _, err := b.Dispatch(Restore{Snapshot: twoLists()}); err != nil {
		t.Fatalf("Restore: %v", err)
	}
	if !equalIDs(b.Tasks(), "T1", "T2", "T3") {
		t.Fatalf("unexpected tasks %v", ids(b.Tasks()))
	}

	bad := twoLists()
	bad.Tasks[0].Category = "Z"
	if _, err := b.Dispatch(Restore{Snapshot: bad}); !errors.Is(err, ErrUnknownCategory) {
		t.Fatalf("expected ErrUnknownCategory, got %v", err)
	}
	if !equalIDs(b.Tasks(), "T1", "T2", "T3") {
		t.Fatal("failed restore changed the board")
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	b := newTestBoard(t, twoLists())
	snap := b.Snapshot()
	snap.Tasks[0].Title = "changed"
	if task, _ := b.Task("T1"); task.Title != "one" {
		t.Fatal("snapshot aliases board state")
	}
}

func TestDueDatesAreNotShared(t *testing.T) {
	b := newTestBoard(t, twoLists())
	want := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	past := time.Date(1999, 1, 1, 0, 0, 0, 0, time.UTC)

	due := want
	res, err := b.Dispatch(CreateTask{Title: "dated", Category: "A", DueDate: &due})
	if err != nil {
		t.Fatalf("CreateTask: %v", err)
	}
	id := res.Task.ID

	check := func(step string) {
		t.Helper()
		task, _ := b.Task(id)
		if task.DueDate == nil || !task.DueDate.Equal(want) {
			t.Fatalf("%s: due date = %v, want %v", step, task.DueDate, want)
		}
	}

	due = past
	check("caller's pointer")

	*res.Task.DueDate = past
	check("result")

	snap := b.Snapshot()
	for _, task := range snap.Tasks {
		if task.ID == id {
			*task.DueDate = past
		}
	}
	check("snapshot")

	task, _ := b.Task(id)
	*task.DueDate = past
	check("Task")

	*b.TasksIn("A")[2].DueDate = past
	check("TasksIn")

	update, _ := b.Task(id)
	*update.DueDate = want
	if _, err := b.Dispatch(UpdateTask{Task: update}); err != nil {
		t.Fatalf("UpdateTask: %v", err)
	}
	*update.DueDate = past
	check("UpdateTask input")

	seen := make(chan Snapshot, 1)
	b.Subscribe(func(s Snapshot) { seen <- s })
	if _, err := b.Dispatch(MoveTask{DraggedID: id, TargetID: "b"}); err != nil {
		t.Fatalf("MoveTask: %v", err)
	}
	for _, task := range (<-seen).Tasks {
		if task.ID == id {
			*task.DueDate = past
		}
	}
	check("subscriber snapshot")
}
