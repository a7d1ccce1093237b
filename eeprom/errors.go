package eeprom

import (
	"errors"
	"fmt"
)

// RangeError indicates an access outside the image bounds or a value that
// cannot be encoded within its field's size.
type RangeError struct {
	// Field is the field being encoded, empty for raw range access.
	Field string

	// Msg describes the violated constraint.
	Msg string
}

func (e *RangeError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("field %s: %s", e.Field, e.Msg)
	}
	return e.Msg
}

// TypeError indicates a value whose Go type does not match the field's
// declared type.
type TypeError struct {
	Field    string
	Expected string
	Value    any
}

func (e *TypeError) Error() string {
	return fmt.Sprintf("field %s: expected %s value, got %T", e.Field, e.Expected, e.Value)
}

// NoSuchFieldError indicates a field name that is not in the catalog.
type NoSuchFieldError struct {
	Name string
}

func (e *NoSuchFieldError) Error() string {
	return fmt.Sprintf("no such field: %q", e.Name)
}

// DescriptorError indicates a malformed string descriptor in the image.
type DescriptorError struct {
	// Offset is the descriptor's position in the image.
	Offset int

	// Msg describes what is malformed.
	Msg string
}

func (e *DescriptorError) Error() string {
	return fmt.Sprintf("invalid string descriptor at 0x%03X: %s", e.Offset, e.Msg)
}

// DeviceLockedError indicates a write refused because the lock byte holds
// the locked sentinel. Returned both by Image.Set and by device-level
// writes; a locked device cannot be unlocked.
type DeviceLockedError struct{}

func (e *DeviceLockedError) Error() string {
	return "device is locked"
}

// IsLocked returns true if the error is, or wraps, a *DeviceLockedError.
func IsLocked(err error) bool {
	var locked *DeviceLockedError
	return errors.As(err, &locked)
}
