package models

import (
	"fmt"
	"strings"
)

// UserState is the dialogue state a user is currently in
type UserState string

const (
	StateUnknown    UserState = "unknown_state"
	StateNewUser    UserState = "new_user" // only used to pick the greeting
	StateMainMenu   UserState = "main_menu"
	StateLearning   UserState = "learning"
	StateAddingCard UserState = "adding_card"
)

// User represents a Telegram user using the bot
type User struct {
	ID        int64     `json:"id" db:"id"` // Telegram User ID
	Username  string    `json:"username" db:"username"`
	FirstName string    `json:"first_name" db:"first_name"`
	LastName  string    `json:"last_name" db:"last_name"`
	State     UserState `json:"state" db:"state"`
}

// DisplayName returns a name suitable for output: "first last", then the
// username, then a placeholder built from the ID.
func (u *User) DisplayName() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{u.FirstName, u.LastName} {
		if p != "" {
			parts = append(parts, p)
		}
	}
	if name := strings.Join(parts, " "); name != "" {
		return name
	}
	if u.Username != "" {
		return u.Username
	}
	return fmt.Sprintf("user_%d", u.ID)
}

func (u *User) String() string {
	return u.DisplayName()
}
