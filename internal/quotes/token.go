package quotes

import (
	"crypto/rand"
	"fmt"
)

const (
	shareTokenAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789-_"
	// DefaultShareTokenLength matches the length of tokens already handed out.
	DefaultShareTokenLength = 22
)

// NewShareToken returns a URL-safe random token of length characters.
func NewShareToken(length int) (string, error) {
	if length <= 0 {
		length = DefaultShareTokenLength
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("read random bytes: %w", err)
	}
	for i, b := range buf {
		buf[i] = shareTokenAlphabet[int(b)&(len(shareTokenAlphabet)-1)]
	}
	return string(buf), nil
}

// SharePath is the public path a customer opens to view a quote.
func SharePath(token string) string {
	return "/quotes/share/" + token
}
