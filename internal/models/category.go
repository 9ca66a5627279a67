package models

// Category is a tag-like label attached to pets through the pet_categories pivot.
// Names are unique; category rows are created lazily on first use (find-or-create).
type Category struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}
