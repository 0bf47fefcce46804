package board

import (
	"slices"

	"github.com/dori/lanes/internal/model"
)

// Move computes the task sequence that results from dropping draggedID on
// targetID. The target is looked up as a task first, then as a category id.
//
// Dropping on a task takes that task's category and its index in the full
// sequence. Dropping on a category appends the dragged task after the last
// task of that category; if the category holds no other task the dragged
// task keeps its index.
//
// ok is false when the gesture is a no-op: empty target, target equal to
// the dragged task, unknown dragged task or unresolvable target.
func Move(tasks []model.Task, categories []model.Category, draggedID, targetID string) (next []model.Task, ok bool) {
	if targetID == "" || targetID == draggedID {
		return nil, false
	}
	oldIndex := slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == draggedID })
	if oldIndex < 0 {
		return nil, false
	}

	var dest string
	newIndex := -1
	if ti := slices.IndexFunc(tasks, func(t model.Task) bool { return t.ID == targetID }); ti >= 0 {
		dest = tasks[ti].Category
		newIndex = ti
	} else if ci := slices.IndexFunc(categories, func(c model.Category) bool { return c.ID == targetID }); ci >= 0 {
		dest = categories[ci].Name
	} else {
		return nil, false
	}

	dragged := tasks[oldIndex]
	dragged.Category = dest

	rest := make([]model.Task, 0, len(tasks))
	rest = append(rest, tasks[:oldIndex]...)
	rest = append(rest, tasks[oldIndex+1:]...)

	if newIndex < 0 {
		newIndex = oldIndex
		for i, t := range rest {
			if t.Category == dest {
				newIndex = i + 1
			}
		}
	}
	newIndex = min(max(newIndex, 0), len(rest))

	return slices.Insert(rest, newIndex, dragged), true
}
