// Package util provides identifier and clock helpers shared across bistro.
package util

import (
	"encoding/binary"
	"fmt"
	"sync"

	"github.com/google/uuid"
)

// IDSource issues record identifiers.
type IDSource interface {
	NewID() string
}

// IDGenerator issues time-ordered UUIDv7 identifiers.
type IDGenerator struct{}

// NewIDGenerator creates a new ID generator.
func NewIDGenerator() *IDGenerator {
	return &IDGenerator{}
}

// NewID generates a new UUIDv7 identifier.
func (g *IDGenerator) NewID() string {
	return NewID()
}

// NewID generates a new UUIDv7 identifier, falling back to a random UUIDv4
// if the system entropy source fails.
func NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.New().String()
	}
	return id.String()
}

// ParseID validates and canonicalises a UUID string.
func ParseID(s string) (string, error) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid ID format: %w", err)
	}
	return id.String(), nil
}

// IsValidID checks if a string is a valid UUID format.
func IsValidID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// SequenceIDs issues deterministic identifiers for tests and seeded data.
type SequenceIDs struct {
	mu   sync.Mutex
	next int64
}

// NewSequenceIDs returns a source whose first ID is derived from start.
func NewSequenceIDs(start int64) *SequenceIDs {
	return &SequenceIDs{next: start}
}

// NewID returns the next deterministic identifier.
func (s *SequenceIDs) NewID() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := DeterministicID(s.next)
	s.next++
	return id
}

// DeterministicID generates a deterministic UUID-shaped ID for a seed.
// DO NOT use for live records - use NewID() instead.
func DeterministicID(seed int64) string {
	var id [16]byte

	binary.BigEndian.PutUint64(id[0:8], uint64(seed))
	binary.BigEndian.PutUint64(id[8:16], uint64(seed*31))

	// Set version 4 and variant
	id[6] = (id[6] & 0x0F) | 0x40
	id[8] = (id[8] & 0x3F) | 0x80

	return uuid.UUID(id).String()
}
