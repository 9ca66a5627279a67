package models

// Pet always has exactly one owning user (UserID).
type Pet struct {
	ID     int    `json:"id"`
	Name   string `json:"name"`
	Age    int    `json:"age"`
	UserID int    `json:"user_id"`
}
