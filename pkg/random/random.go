package random

import (
	"crypto/rand"
	"fmt"
)

const (
	// CollisionResistantLength is a byte length suitable for generating
	// random identifiers with a negligible collision probability, such as
	// the sibling names used during atomic artifact replacement.
	CollisionResistantLength = 16
)

// New returns a byte slice of the specified length with cryptographically
// random conents.
func New(length int) ([]byte, error) {
	// Create the buffer.
	result := make([]byte, length)

	// Read random data.
	if _, err := rand.Read(result[:]); err != nil {
		return nil, fmt.Errorf("unable to read random data: %w", err)
	}

	// Success.
	return result, nil
}
