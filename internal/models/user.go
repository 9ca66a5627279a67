package models

// User is an owner account. PasswordHash is a bcrypt hash and is never serialized.
type User struct {
	ID           int    `json:"id"`
	Name         string `json:"name"`
	Username     string `json:"username"`
	PasswordHash string `json:"-"`
}

// PublicUser is the response-safe projection of User used in every outward-facing payload.
type PublicUser struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Username string `json:"username"`
}

// Public returns the response-safe projection of u.
func (u User) Public() PublicUser {
	return PublicUser{ID: u.ID, Name: u.Name, Username: u.Username}
}
