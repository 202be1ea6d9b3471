package project

import (
	"encoding/hex"
	"regexp"

	"github.com/google/uuid"
)

var residPattern = regexp.MustCompile(`^[0-9a-f]{32}$`)

// NewResID returns a random 128-bit identifier as 32 lowercase hex characters.
func NewResID() string {
	id := uuid.New()
	return hex.EncodeToString(id[:])
}

// IsResID reports whether s has the shape of an identifier produced by NewResID.
func IsResID(s string) bool {
	return residPattern.MatchString(s)
}
