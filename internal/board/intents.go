package board

import (
	"fmt"
	"strings"
	"time"

	"github.com/dori/lanes/internal/model"
)

// Intent is a typed mutation request. Views build intents; only Dispatch
// applies them.
type Intent interface {
	Validate() error
	apply(b *Board) (Result, error)
}

// Result reports what a dispatched intent produced
type Result struct {
	Task     model.Task
	Category model.Category
	Changed  bool
}

// Dispatch validates and applies an intent. Subscribers are notified when
// the board changed.
func (b *Board) Dispatch(in Intent) (Result, error) {
	if err := in.Validate(); err != nil {
		return Result{}, err
	}
	res, err := in.apply(b)
	if err != nil {
		return Result{}, err
	}
	if res.Changed {
		b.notify()
	}
	return res, nil
}

// NewID returns a fresh id from the board's generator
func (b *Board) NewID() string {
	return b.newID()
}

// CreateTask appends a new task to the end of the sequence
type CreateTask struct {
	Title      string
	Category   string
	Color      string
	Details    string
	DueDate    *time.Time
	CoverImage string
}

func (c CreateTask) Validate() error {
	return model.ValidateTitle(c.Title)
}

func (c CreateTask) apply(b *Board) (Result, error) {
	if !b.hasCategoryName(c.Category) {
		return Result{}, fmt.Errorf("creating task: %w %q", ErrUnknownCategory, c.Category)
	}
	t := model.Task{
		ID:         b.newID(),
		Title:      strings.TrimSpace(c.Title),
		Details:    c.Details,
		Category:   c.Category,
		Color:      c.Color,
		DueDate:    c.DueDate,
		CoverImage: c.CoverImage,
	}.Clone()
	b.tasks = append(b.tasks, t)
	return Result{Task: t.Clone(), Changed: true}, nil
}

// UpdateTask replaces a task in place, keeping its position
type UpdateTask struct {
	Task model.Task
}

func (u UpdateTask) Validate() error {
	return model.ValidateTitle(u.Task.Title)
}

func (u UpdateTask) apply(b *Board) (Result, error) {
	i := b.taskIndex(u.Task.ID)
	if i < 0 {
		b.logger.Warn("update of unknown task ignored", "id", u.Task.ID)
		return Result{}, nil
	}
	if !b.hasCategoryName(u.Task.Category) {
		return Result{}, fmt.Errorf("updating task %s: %w %q", u.Task.ID, ErrUnknownCategory, u.Task.Category)
	}
	t := u.Task.Clone()
	t.Title = strings.TrimSpace(t.Title)
	b.tasks[i] = t
	return Result{Task: t.Clone(), Changed: true}, nil
}

// DeleteTask removes a task
type DeleteTask struct {
	ID string
}

func (d DeleteTask) Validate() error { return nil }

func (d DeleteTask) apply(b *Board) (Result, error) {
	i := b.taskIndex(d.ID)
	if i < 0 {
		b.logger.Warn("delete of unknown task ignored", "id", d.ID)
		return Result{}, nil
	}
	t := b.tasks[i]
	b.tasks = append(b.tasks[:i:i], b.tasks[i+1:]...)
	return Result{Task: t, Changed: true}, nil
}

// CreateCategory adds a list at the end of the board
type CreateCategory struct {
	ID   string
	Name string
}

func (c CreateCategory) Validate() error {
	if strings.TrimSpace(c.Name) == "" {
		return &model.ValidationError{Field: "list name", Message: "must not be empty"}
	}
	if c.ID == "" {
		return &model.ValidationError{Field: "list id", Message: "must not be empty"}
	}
	return nil
}

func (c CreateCategory) apply(b *Board) (Result, error) {
	name := strings.TrimSpace(c.Name)
	if b.categoryIndex(c.ID) >= 0 {
		return Result{}, fmt.Errorf("creating list %q: %w", c.ID, ErrDuplicateCategoryID)
	}
	if b.hasCategoryName(name) {
		return Result{}, fmt.Errorf("creating list %q: %w", name, ErrDuplicateCategoryName)
	}
	cat := model.Category{ID: c.ID, Name: name}
	b.categories = append(b.categories, cat)
	return Result{Category: cat, Changed: true}, nil
}

// UpdateCategory renames a list and every task that references it
type UpdateCategory struct {
	ID   string
	Name string
}

func (u UpdateCategory) Validate() error {
	if strings.TrimSpace(u.Name) == "" {
		return &model.ValidationError{Field: "list name", Message: "must not be empty"}
	}
	return nil
}

func (u UpdateCategory) apply(b *Board) (Result, error) {
	i := b.categoryIndex(u.ID)
	if i < 0 {
		b.logger.Warn("rename of unknown list ignored", "id", u.ID)
		return Result{}, nil
	}
	name := strings.TrimSpace(u.Name)
	old := b.categories[i].Name
	if name == old {
		return Result{Category: b.categories[i]}, nil
	}
	if b.hasCategoryName(name) {
		return Result{}, fmt.Errorf("renaming list %q: %w", name, ErrDuplicateCategoryName)
	}

	b.categories[i].Name = name
	for j := range b.tasks {
		if b.tasks[j].Category == old {
			b.tasks[j].Category = name
		}
	}
	return Result{Category: b.categories[i], Changed: true}, nil
}

// DeleteCategory removes a list together with all of its tasks
type DeleteCategory struct {
	ID string
}

func (d DeleteCategory) Validate() error { return nil }

func (d DeleteCategory) apply(b *Board) (Result, error) {
	i := b.categoryIndex(d.ID)
	if i < 0 {
		b.logger.Warn("delete of unknown list ignored", "id", d.ID)
		return Result{}, nil
	}
	cat := b.categories[i]

	kept := b.tasks[:0:0]
	for _, t := range b.tasks {
		if t.Category != cat.Name {
			kept = append(kept, t)
		}
	}
	b.tasks = kept
	b.categories = append(b.categories[:i:i], b.categories[i+1:]...)
	return Result{Category: cat, Changed: true}, nil
}

// SetTasks replaces the whole ordered sequence. The new list must hold
// exactly the current tasks; only order and category may differ.
type SetTasks struct {
	Tasks []model.Task
}

func (s SetTasks) Validate() error {
	for _, t := range s.Tasks {
		if err := model.ValidateTitle(t.Title); err != nil {
			return err
		}
	}
	return nil
}

func (s SetTasks) apply(b *Board) (Result, error) {
	if len(s.Tasks) != len(b.tasks) {
		return Result{}, fmt.Errorf("setting tasks: %w", ErrNotPermutation)
	}
	current := make(map[string]model.Task, len(b.tasks))
	for _, t := range b.tasks {
		current[t.ID] = t
	}

	next := make([]model.Task, len(s.Tasks))
	for i, t := range s.Tasks {
		stored, ok := current[t.ID]
		if !ok {
			return Result{}, fmt.Errorf("setting tasks: %w: %q", ErrNotPermutation, t.ID)
		}
		delete(current, t.ID)
		if !stored.SameContent(t) {
			return Result{}, fmt.Errorf("setting tasks: %w: %q changed beyond its category", ErrNotPermutation, t.ID)
		}
		if !b.hasCategoryName(t.Category) {
			return Result{}, fmt.Errorf("setting tasks: task %s: %w %q", t.ID, ErrUnknownCategory, t.Category)
		}
		next[i] = stored.Clone()
		next[i].Category = t.Category
	}

	b.tasks = next
	return Result{Changed: true}, nil
}

// MoveTask is a drag gesture: drop DraggedID onto TargetID, which names
// either a task or a category
type MoveTask struct {
	DraggedID string
	TargetID  string
}

func (m MoveTask) Validate() error { return nil }

func (m MoveTask) apply(b *Board) (Result, error) {
	next, ok := Move(b.tasks, b.categories, m.DraggedID, m.TargetID)
	if !ok {
		if m.TargetID != "" && m.TargetID != m.DraggedID {
			b.logger.Warn("drop ignored", "dragged", m.DraggedID, "target", m.TargetID)
		}
		return Result{}, nil
	}
	res, err := SetTasks{Tasks: next}.apply(b)
	if err != nil {
		return Result{}, err
	}
	res.Task, _ = b.Task(m.DraggedID)
	return res, nil
}

// Restore replaces the whole board with a validated snapshot
type Restore struct {
	Snapshot Snapshot
}

func (r Restore) Validate() error { return nil }

func (r Restore) apply(b *Board) (Result, error) {
	if err := b.restore(r.Snapshot); err != nil {
		return Result{}, err
	}
	return Result{Changed: true}, nil
}
