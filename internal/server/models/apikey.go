package models

import "time"

// APIKey is a long-lived machine credential. Only the SHA-256 digest and
// the redacted preview are stored; the plaintext secret exists solely in
// the create response.
type APIKey struct {
	ID          string     `json:"id"`
	UserID      string     `json:"-"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	KeyPreview  string     `json:"key_preview"`
	Digest      string     `json:"-"`
	CreatedAt   time.Time  `json:"created_at"`
	LastUsed    *time.Time `json:"last_used"`
}
