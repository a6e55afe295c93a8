package core

import "time"

// User represents a registered jokester
//
// This is the "identity" - who someone is
type User struct {
	ID           string    `json:"id"`
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"` // Never expose in JSON
	CreatedAt    time.Time `json:"createdAt,omitzero"`
	UpdatedAt    time.Time `json:"updatedAt,omitzero"`
}

// Identity returns the minimal projection handed out to callers: id and username only.
func (u *User) Identity() *User {
	return &User{ID: u.ID, Username: u.Username}
}

// Joke is the single content entity of the site
type Joke struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Content    string    `json:"content"`
	JokesterID string    `json:"jokesterId"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// JokeListItem is what navigation lists need
type JokeListItem struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// SessionIssuance pairs a freshly encoded Set-Cookie value with the
// location the client should be sent to.
type SessionIssuance struct {
	SetCookie  string `json:"-"`
	RedirectTo string `json:"redirectTo"`
}
