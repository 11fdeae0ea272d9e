package models

import "time"

// User is the sole owner account of a Postforge installation.
// Identity fields are immutable after bootstrap; only name and avatar
// may be edited later.
type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	Avatar       string    `json:"avatar,omitempty"`
	Plan         string    `json:"plan"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}
