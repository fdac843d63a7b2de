// Package projection pairs a registry entry with the timestamps the local
// directories order by.
package projection

import "time"

// Metadata captures persistence timestamps shared by projections.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Projection represents an aggregate view plus persistence metadata.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New stamps entity as created and updated at at.
func New[T any](entity T, at time.Time) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: Metadata{CreatedAt: at, UpdatedAt: at}}
}

// OlderFirst orders projections by creation time, then by update time.
func OlderFirst[T any](a, b *Projection[T]) bool {
	if a.Metadata.CreatedAt.Equal(b.Metadata.CreatedAt) {
		return a.Metadata.UpdatedAt.Before(b.Metadata.UpdatedAt)
	}
	return a.Metadata.CreatedAt.Before(b.Metadata.CreatedAt)
}
