package board

import "github.com/dori/lanes/internal/model"

// Seed is the board every fresh session starts from when nothing is
// persisted
func Seed() Snapshot {
	return Snapshot{
		Categories: []model.Category{
			{ID: "work", Name: "Work"},
			{ID: "personal", Name: "Personal"},
		},
		Tasks: []model.Task{
			{
				ID:       "1",
				Title:    "Setup project",
				Details:  "Initialize Vite project and install dependencies",
				Category: "Work",
				Color:    "#607d8b",
			},
			{
				ID:       "2",
				Title:    "Design login page",
				Details:  "Create a stunning login page UI",
				Category: "Work",
				Color:    "#ff9800",
			},
			{
				ID:       "3",
				Title:    "Buy groceries",
				Details:  "Milk, Bread, Cheese",
				Category: "Personal",
				Color:    "#4caf50",
			},
		},
	}
}
