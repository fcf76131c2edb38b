package projection

import "time"

// Metadata records when a stored order was written. Timestamps are kept in UTC.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Stamp returns metadata for a row first written at createdAt and last changed at updatedAt.
// An update time earlier than the creation time is raised to it.
func Stamp(createdAt, updatedAt time.Time) Metadata {
	createdAt, updatedAt = createdAt.UTC(), updatedAt.UTC()
	if updatedAt.Before(createdAt) {
		updatedAt = createdAt
	}
	return Metadata{CreatedAt: createdAt, UpdatedAt: updatedAt}
}

// Touch returns a copy with UpdatedAt moved to at.
func (m Metadata) Touch(at time.Time) Metadata {
	return Stamp(m.CreatedAt, at)
}

// Projection pairs an entity read from storage with its write timestamps.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}
