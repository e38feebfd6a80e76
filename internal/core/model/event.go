package model

import "time"

// Op is the kind of change an EntityEvent describes.
type Op string

const (
	OpCreate Op = "create"
	OpUpdate Op = "update"
	OpDelete Op = "delete"
)

// EntityEvent collects an entity change. It can represent creation, update and deletion.
type EntityEvent struct {
	// ID is the event id.
	ID string

	// Kind is the kind of the changed entity.
	Kind Kind

	// EntityID is the id of the changed entity.
	EntityID string

	// Op is the change operation.
	Op Op

	// At is the time at which the change was committed.
	At time.Time

	// Before is the entity state before the event. It will be nil for creations.
	Before Record

	// After is the entity state after the event. It will be nil for deletions.
	After Record
}
