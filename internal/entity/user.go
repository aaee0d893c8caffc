package entity

import "time"

type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Session identifies the logged-in user for everything that records history.
type Session struct {
	ID        string
	User      *User
	StartedAt time.Time
}

func NewSession(id string, user *User) *Session {
	return &Session{
		ID:        id,
		User:      user,
		StartedAt: time.Now().UTC(),
	}
}

func (that *Session) Username() string {
	if that == nil || that.User == nil {
		return ""
	}
	return that.User.Username
}
