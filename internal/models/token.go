package models

// Token is an opaque bearer credential tied to a user. A user may hold several
// valid tokens at once; deleting the row revokes the token.
type Token struct {
	ID     int    `json:"id"`
	Token  string `json:"token"`
	UserID int    `json:"userID"`
}
