// Package system supplies the wall clock used outside of tests.
package system

import "time"

// Clock satisfies extractor.Clock with time.Now. Timestamps are
// normalized to UTC so extractedAt values compare across machines.
type Clock struct{}

// New returns the wall clock.
func New() Clock { return Clock{} }

// Now returns the current UTC time.
func (Clock) Now() time.Time { return time.Now().UTC() }
