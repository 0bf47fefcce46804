// Package board holds the task and category state of a kanban board.
//
// Tasks live in one flat ordered sequence; a column is the subsequence of
// tasks whose Category equals the column's name. Moving a card between
// columns is therefore a single reorder plus a category reassignment.
package board

import (
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/dori/lanes/internal/model"
	"github.com/google/uuid"
)

// Store errors
var (
	ErrUnknownCategory       = errors.New("unknown category")
	ErrDuplicateCategoryID   = errors.New("category id already exists")
	ErrDuplicateCategoryName = errors.New("category name already exists")
	ErrNotPermutation        = errors.New("task list is not a permutation of the current tasks")
)

// Snapshot is the serializable board state
type Snapshot struct {
	Categories []model.Category `json:"categories"`
	Tasks      []model.Task     `json:"tasks"`
}

// Board owns every Task and Category record
type Board struct {
	tasks      []model.Task
	categories []model.Category

	newID     func() string
	logger    *log.Logger
	listeners []func(Snapshot)
}

// Option configures a Board
type Option func(*Board)

// WithIDFunc overrides the task id generator
func WithIDFunc(fn func() string) Option {
	return func(b *Board) { b.newID = fn }
}

// WithLogger sets the logger used for ignored operations
func WithLogger(l *log.Logger) Option {
	return func(b *Board) { b.logger = l }
}

// New creates a board from a snapshot. The snapshot is validated: category
// ids and names must be unique, task ids unique and every task must belong
// to a known category.
func New(snap Snapshot, opts ...Option) (*Board, error) {
	b := &Board{
		newID:  func() string { return uuid.New().String() },
		logger: log.New(io.Discard),
	}
	for _, opt := range opts {
		opt(b)
	}
	if err := b.restore(snap); err != nil {
		return nil, err
	}
	return b, nil
}

// Subscribe registers fn to be called with the new state after every
// successful dispatch
func (b *Board) Subscribe(fn func(Snapshot)) {
	b.listeners = append(b.listeners, fn)
}

func (b *Board) restore(snap Snapshot) error {
	ids := make(map[string]bool, len(snap.Categories))
	names := make(map[string]bool, len(snap.Categories))
	for _, c := range snap.Categories {
		if c.ID == "" || strings.TrimSpace(c.Name) == "" {
			return fmt.Errorf("restoring category %q: id and name are required", c.ID)
		}
		if ids[c.ID] {
			return fmt.Errorf("restoring category %q: %w", c.ID, ErrDuplicateCategoryID)
		}
		if names[c.Name] {
			return fmt.Errorf("restoring category %q: %w", c.Name, ErrDuplicateCategoryName)
		}
		ids[c.ID] = true
		names[c.Name] = true
	}

	seen := make(map[string]bool, len(snap.Tasks))
	for _, t := range snap.Tasks {
		if t.ID == "" || seen[t.ID] {
			return fmt.Errorf("restoring task %q: duplicate or empty id", t.ID)
		}
		if !names[t.Category] {
			return fmt.Errorf("restoring task %q: %w %q", t.ID, ErrUnknownCategory, t.Category)
		}
		if err := model.ValidateTitle(t.Title); err != nil {
			return fmt.Errorf("restoring task %q: %w", t.ID, err)
		}
		seen[t.ID] = true
	}

	b.categories = slices.Clone(snap.Categories)
	b.tasks = cloneTasks(snap.Tasks)
	return nil
}

// cloneTasks deep-copies tasks so callers and the board never share a
// due date
func cloneTasks(tasks []model.Task) []model.Task {
	if tasks == nil {
		return nil
	}
	out := make([]model.Task, len(tasks))
	for i, t := range tasks {
		out[i] = t.Clone()
	}
	return out
}

// Snapshot returns a copy of the current state
func (b *Board) Snapshot() Snapshot {
	return Snapshot{
		Categories: b.Categories(),
		Tasks:      b.Tasks(),
	}
}

// Tasks returns the full ordered task sequence
func (b *Board) Tasks() []model.Task {
	return cloneTasks(b.tasks)
}

// Categories returns categories in display order
func (b *Board) Categories() []model.Category {
	return slices.Clone(b.categories)
}

// Task looks up a task by id
func (b *Board) Task(id string) (model.Task, bool) {
	if i := b.taskIndex(id); i >= 0 {
		return b.tasks[i].Clone(), true
	}
	return model.Task{}, false
}

// Category looks up a category by id
func (b *Board) Category(id string) (model.Category, bool) {
	if i := b.categoryIndex(id); i >= 0 {
		return b.categories[i], true
	}
	return model.Category{}, false
}

// CategoryByName looks up a category by its current name
func (b *Board) CategoryByName(name string) (model.Category, bool) {
	for _, c := range b.categories {
		if c.Name == name {
			return c, true
		}
	}
	return model.Category{}, false
}

// TasksIn returns the tasks of one category in board order
func (b *Board) TasksIn(categoryName string) []model.Task {
	var out []model.Task
	for _, t := range b.tasks {
		if t.Category == categoryName {
			out = append(out, t.Clone())
		}
	}
	return out
}

func (b *Board) taskIndex(id string) int {
	return slices.IndexFunc(b.tasks, func(t model.Task) bool { return t.ID == id })
}

func (b *Board) categoryIndex(id string) int {
	return slices.IndexFunc(b.categories, func(c model.Category) bool { return c.ID == id })
}

func (b *Board) hasCategoryName(name string) bool {
	_, ok := b.CategoryByName(name)
	return ok
}

func (b *Board) notify() {
	if len(b.listeners) == 0 {
		return
	}
	snap := b.Snapshot()
	for _, fn := range b.listeners {
		fn(snap)
	}
}
