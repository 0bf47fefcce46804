package board

import "github.com/dori/lanes/internal/model"

// Filter returns the tasks whose title or details contain query, ignoring
// case. An empty query returns every task. The input is never modified.
func Filter(tasks []model.Task, query string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	for _, t := range tasks {
		if t.Matches(query) {
			out = append(out, t)
		}
	}
	return out
}
