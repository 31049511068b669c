package id

import "crypto/rand"

// New creates a unique 16-character alphanumeric ID.
func New() string {
	return random("abcdefghijklmnopqrstuvwxyz0123456789", 16)
}

// NewJoinCode creates a 7-character uppercase code learners type to join a
// folder. Uniqueness is enforced by the store, not here.
func NewJoinCode() string {
	return random("ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789", 7)
}

func random(chars string, n int) string {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		panic("crypto/rand failed: " + err.Error())
	}
	for i := range b {
		b[i] = chars[b[i]%byte(len(chars))]
	}
	return string(b)
}
