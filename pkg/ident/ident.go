// Package ident mints identifiers for players, matches and moments.
package ident

import (
	"crypto/rand"
	"regexp"

	"github.com/google/uuid"
)

const shortIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"

// DefaultShortIDLength is used when ShortID is called with a non-positive length.
const DefaultShortIDLength = 8

var (
	v4Pattern   = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-4[0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
	uuidPattern = regexp.MustCompile(`(?i)^[0-9a-f]{8}-[0-9a-f]{4}-[1-5][0-9a-f]{3}-[89ab][0-9a-f]{3}-[0-9a-f]{12}$`)
)

// V4 returns a random RFC 4122 version 4 UUID string.
func V4() string {
	return uuid.NewString()
}

// IsValidV4 reports whether s is a canonical version 4 UUID.
func IsValidV4(s string) bool {
	return v4Pattern.MatchString(s)
}

// IsValidUUID reports whether s is a canonical UUID of version 1 to 5.
func IsValidUUID(s string) bool {
	return uuidPattern.MatchString(s)
}

// ShortID returns a URL-safe identifier of the given length. It is not a UUID.
func ShortID(length int) string {
	if length <= 0 {
		length = DefaultShortIDLength
	}
	buf := make([]byte, length)
	if _, err := rand.Read(buf); err != nil {
		// crypto/rand does not fail on supported platforms
		panic(err)
	}
	for i, b := range buf {
		buf[i] = shortIDAlphabet[int(b)%len(shortIDAlphabet)]
	}
	return string(buf)
}

// Nil returns the all-zero UUID.
func Nil() string {
	return uuid.Nil.String()
}
