package domain

import "time"

// TokenSession is the server-side record of an issued JWT, kept in redis so
// logout can revoke the token before it expires.
type TokenSession struct {
	StudentID string    `json:"npm_mahasiswa"`
	Role      string    `json:"role"`
	Token     string    `json:"token"`
	IssuedAt  time.Time `json:"issued_at"`
	ExpiresAt time.Time `json:"expires_at"`
	IPAddress string    `json:"ip_address,omitempty"`
	UserAgent string    `json:"user_agent,omitempty"`
}
