package models

import "time"

// Session is the server-side record behind a bearer token. The token
// itself is a JWT carrying this record's ID; deleting the record
// invalidates the token before its natural expiry.
type Session struct {
	ID        string
	UserID    string
	ExpiresAt time.Time
	CreatedAt time.Time
}
