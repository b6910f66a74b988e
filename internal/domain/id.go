package domain

import (
	"crypto/rand"
	"fmt"
)

// SessionIDLength matches the short, URL-safe ids handed to the browser.
const SessionIDLength = 10

const idAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789_-"

// NewSessionID returns a random URL-safe id. The alphabet has 64 symbols so
// masking a random byte to 6 bits keeps the distribution uniform.
func NewSessionID() (string, error) {
	buf := make([]byte, SessionIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = idAlphabet[b&63]
	}
	return string(buf), nil
}
