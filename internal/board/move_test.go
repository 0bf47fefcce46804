package board

import (
	"testing"

	"github.com/dori/lanes/internal/model"
)

func TestMove(t *testing.T) {
	tests := []struct {
		name     string
		snap     Snapshot
		dragged  string
		target   string
		want     []string
		category string
	}{
		{
			name:     "drop on category appends past its run",
			snap:     twoLists(),
			dragged:  "T1",
			target:   "b",
			want:     []string{"T2", "T3", "T1"},
			category: "B",
		},
		{
			name:     "drop on task takes its index",
			snap:     twoLists(),
			dragged:  "T1",
			target:   "T3",
			want:     []string{"T2", "T3", "T1"},
			category: "B",
		},
		{
			name:     "drop on earlier task",
			snap:     twoLists(),
			dragged:  "T3",
			target:   "T1",
			want:     []string{"T3", "T1", "T2"},
			category: "A",
		},
		{
			name:     "reorder within a list",
			snap:     twoLists(),
			dragged:  "T2",
			target:   "T1",
			want:     []string{"T2", "T1", "T3"},
			category: "A",
		},
		{
			name:     "drop on own category moves to the end of its run",
			snap:     twoLists(),
			dragged:  "T1",
			target:   "a",
			want:     []string{"T2", "T1", "T3"},
			category: "A",
		},
		{
			name: "drop on empty category keeps index",
			snap: Snapshot{
				Categories: []model.Category{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}, {ID: "c", Name: "C"}},
				Tasks: []model.Task{
					{ID: "T1", Title: "one", Category: "A"},
					{ID: "T2", Title: "two", Category: "A"},
					{ID: "T3", Title: "three", Category: "B"},
				},
			},
			dragged:  "T2",
			target:   "c",
			want:     []string{"T1", "T2", "T3"},
			category: "C",
		},
		{
			name: "drop on category ahead of the dragged task",
			snap: Snapshot{
				Categories: []model.Category{{ID: "a", Name: "A"}, {ID: "b", Name: "B"}},
				Tasks: []model.Task{
					{ID: "T1", Title: "one", Category: "A"},
					{ID: "T2", Title: "two", Category: "B"},
					{ID: "T3", Title: "three", Category: "A"},
					{ID: "T4", Title: "four", Category: "B"},
				},
			},
			dragged:  "T4",
			target:   "a",
			want:     []string{"T1", "T2", "T3", "T4"},
			category: "A",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := newTestBoard(t, tt.snap)
			res, err := b.Dispatch(MoveTask{DraggedID: tt.dragged, TargetID: tt.target})
			if err != nil {
				t.Fatalf("MoveTask: %v", err)
			}
			if !res.Changed {
				t.Fatal("move reported no change")
			}
			if !equalIDs(b.Tasks(), tt.want...) {
				t.Fatalf("order = %v, want %v", ids(b.Tasks()), tt.want)
			}
			moved, _ := b.Task(tt.dragged)
			if moved.Category != tt.category {
				t.Fatalf("category = %q, want %q", moved.Category, tt.category)
			}
		})
	}
}

func TestMoveTargetTaskWinsOverCategoryID(t *testing.T) {
	snap := Snapshot{
		Categories: []model.Category{{ID: "a", Name: "A"}, {ID: "x", Name: "B"}},
		Tasks: []model.Task{
			{ID: "T1", Title: "one", Category: "A"},
			{ID: "x", Title: "shadow", Category: "A"},
			{ID: "T3", Title: "three", Category: "B"},
		},
	}
	next, ok := Move(snap.Tasks, snap.Categories, "T1", "x")
	if !ok {
		t.Fatal("expected a move")
	}
	if next[1].ID != "T1" || next[1].Category != "A" {
		t.Fatalf("target resolved as category: %v", next)
	}
}

func TestMovePreservesIDMultiset(t *testing.T) {
	snap := twoLists()
	for _, dragged := range []string{"T1", "T2", "T3"} {
		for _, target := range []string{"T1", "T2", "T3", "a", "b"} {
			next, ok := Move(snap.Tasks, snap.Categories, dragged, target)
			if !ok {
				continue
			}
			if len(next) != len(snap.Tasks) {
				t.Fatalf("%s->%s: length %d", dragged, target, len(next))
			}
			seen := map[string]int{}
			for _, task := range next {
				seen[task.ID]++
			}
			for _, task := range snap.Tasks {
				if seen[task.ID] != 1 {
					t.Fatalf("%s->%s: id %s appears %d times", dragged, target, task.ID, seen[task.ID])
				}
			}
		}
	}
	if snap.Tasks[0].Category != "A" || snap.Tasks[0].ID != "T1" {
		t.Fatal("Move modified its input")
	}
}

func TestMoveNoOps(t *testing.T) {
	snap := twoLists()
	cases := [][2]string{{"T1", ""}, {"T1", "T1"}, {"ghost", "T2"}, {"T1", "nowhere"}}
	for _, c := range cases {
		if _, ok := Move(snap.Tasks, snap.Categories, c[0], c[1]); ok {
			t.Errorf("Move(%q, %q) should be a no-op", c[0], c[1])
		}
	}
}
