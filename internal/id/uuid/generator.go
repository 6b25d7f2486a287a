// Package uuid provides record ID generation helpers.
package uuid

import (
	"github.com/google/uuid"
)

// Generator creates UUID strings for output records.
type Generator struct{}

// New creates a new Generator.
func New() *Generator {
	return &Generator{}
}

// NewID returns a time-ordered UUID7 string, falling back to a random
// UUID4 if the system clock misbehaves.
func (Generator) NewID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
