package model

import (
	"strings"
	"time"
)

// Palette holds the swatches a card can be tagged with
var Palette = []string{
	"#2dd4bf",
	"#f472b6",
	"#a78bfa",
	"#facc15",
	"#fb923c",
	"#60a5fa",
}

// DefaultColor is the swatch given to cards added inline
const DefaultColor = "#2dd4bf"

// Task represents a card on the board
type Task struct {
	ID         string     `json:"id"`
	Title      string     `json:"title"`
	Details    string     `json:"details,omitempty"`
	Category   string     `json:"category"` // name of the owning category
	Color      string     `json:"color,omitempty"`
	DueDate    *time.Time `json:"due_date,omitempty"`
	CoverImage string     `json:"cover_image,omitempty"` // data: URI
}

// Clone returns a copy of t that shares no memory with it
func (t Task) Clone() Task {
	if t.DueDate != nil {
		due := *t.DueDate
		t.DueDate = &due
	}
	return t
}

// SameContent reports whether t and o are equal in every field except
// Category
func (t Task) SameContent(o Task) bool {
	switch {
	case t.DueDate == nil && o.DueDate != nil, t.DueDate != nil && o.DueDate == nil:
		return false
	case t.DueDate != nil && !t.DueDate.Equal(*o.DueDate):
		return false
	}
	return t.ID == o.ID &&
		t.Title == o.Title &&
		t.Details == o.Details &&
		t.Color == o.Color &&
		t.CoverImage == o.CoverImage
}

// IsOverdue returns true once the due day has fully passed
func (t *Task) IsOverdue() bool {
	if t.DueDate == nil {
		return false
	}
	y, m, d := t.DueDate.Date()
	return !time.Now().Before(time.Date(y, m, d+1, 0, 0, 0, 0, t.DueDate.Location()))
}

// IsDueToday returns true if the task is due today
func (t *Task) IsDueToday() bool {
	if t.DueDate == nil {
		return false
	}
	now := time.Now()
	return t.DueDate.Year() == now.Year() &&
		t.DueDate.YearDay() == now.YearDay()
}

// HasCover reports whether a cover image is attached
func (t *Task) HasCover() bool {
	return strings.HasPrefix(t.CoverImage, "data:")
}

// Matches reports whether query is a case-insensitive substring of the
// title or the details. An empty query matches everything.
func (t *Task) Matches(query string) bool {
	if query == "" {
		return true
	}
	q := strings.ToLower(query)
	return strings.Contains(strings.ToLower(t.Title), q) ||
		strings.Contains(strings.ToLower(t.Details), q)
}
