// Package model provides the SI-unit building-energy objects the library
// hydrates from canonical records: materials, constructions, construction
// sets, schedules and program types.
//
// Objects are built by their New* constructors and expose read-only
// accessors. Once locked an object rejects every mutation with ErrLocked.
package model

import (
	"errors"
	"fmt"
	"sync/atomic"
)

var (
	// ErrLocked is returned when mutating a locked object.
	ErrLocked = errors.New("object is locked")

	// ErrInvalid is returned when a constructor receives values it cannot
	// build an object from.
	ErrInvalid = errors.New("invalid object")
)

// Object is implemented by every hydrated object.
type Object interface {
	Identifier() string
	Lock()
	IsLocked() bool
}

type base struct {
	id          string
	displayName string
	locked      atomic.Bool
}

func checkID(id string) error {
	if id == "" {
		return fmt.Errorf("%w: empty identifier", ErrInvalid)
	}
	return nil
}

// Identifier returns the object's unique identifier.
func (b *base) Identifier() string {
	return b.id
}

// DisplayName returns the display name, or the identifier when unset.
func (b *base) DisplayName() string {
	if b.displayName == "" {
		return b.id
	}
	return b.displayName
}

// SetDisplayName changes the display name of an unlocked object.
func (b *base) SetDisplayName(name string) error {
	if b.locked.Load() {
		return fmt.Errorf("set display name of %s: %w", b.id, ErrLocked)
	}
	b.displayName = name
	return nil
}

// Lock makes the object read-only. Locking is permanent.
func (b *base) Lock() {
	b.locked.Store(true)
}

// IsLocked reports whether the object has been locked.
func (b *base) IsLocked() bool {
	return b.locked.Load()
}
