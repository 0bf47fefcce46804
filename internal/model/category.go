package model

// Category is a named column ("list") that tasks belong to.
// ID never changes once created; Name is unique and may be renamed.
type Category struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
