// Package id generates identifiers for boards, items and connections.
package id

import (
	"fmt"

	"github.com/google/uuid"
	gonanoid "github.com/matoous/go-nanoid/v2"
)

// New returns a random (version 4) UUID string. Boards and items use these.
func New() string {
	return uuid.NewString()
}

// IsUUID reports whether s is a well-formed UUID.
func IsUUID(s string) bool {
	return uuid.Validate(s) == nil
}

// Generate creates a prefixed NanoID such as "client-V1StGXR8_Z5jdHi6B-myT".
// It is used for short-lived handles that never reach persisted state.
func Generate(prefix string) (string, error) {
	id, err := gonanoid.New()
	if err != nil {
		return "", fmt.Errorf("generate nanoid: %w", err)
	}
	return prefix + "-" + id, nil
}
