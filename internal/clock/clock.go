// Package clock abstracts time and id generation so repositories and the
// workspace are deterministic in tests.
package clock

import (
	"time"

	"github.com/google/uuid"
)

// Clock abstracts time retrieval.
type Clock interface {
	Now() time.Time
}

// RealClock returns the actual current time.
type RealClock struct{}

// Now returns time.Now.
func (RealClock) Now() time.Time { return time.Now() }

// IDGenerator abstracts unique ID generation.
type IDGenerator interface {
	New() string
}

// UUIDGenerator produces random UUIDs.
type UUIDGenerator struct{}

// New returns a random UUID string.
func (UUIDGenerator) New() string { return uuid.New().String() }

// Stamp returns c.Now() in UTC truncated to the millisecond, the precision
// records are stored with. Stamped times survive a store round trip unchanged.
func Stamp(c Clock) time.Time {
	return Normalize(c.Now())
}

// Normalize converts t to UTC millisecond precision and drops its monotonic
// reading. The zero time stays zero.
func Normalize(t time.Time) time.Time {
	if t.IsZero() {
		return t
	}
	return t.UTC().Truncate(time.Millisecond)
}
