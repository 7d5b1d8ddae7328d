// Package projection pairs an aggregate with the row timestamps its store keeps.
package projection

import "time"

// Metadata holds the creation and last-write times of a stored aggregate.
type Metadata struct {
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Created is the metadata of an aggregate first written at.
func Created(at time.Time) Metadata {
	return Metadata{CreatedAt: at, UpdatedAt: at}
}

// Touch keeps the creation time and moves the last write to at.
func (m Metadata) Touch(at time.Time) Metadata {
	m.UpdatedAt = at
	return m
}

// Projection is the read view of an aggregate.
type Projection[T any] struct {
	Entity   T
	Metadata Metadata
}

// New builds a projection of entity.
func New[T any](entity T, metadata Metadata) *Projection[T] {
	return &Projection[T]{Entity: entity, Metadata: metadata}
}
