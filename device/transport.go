package device

import (
	"context"
	"fmt"
)

// Transport issues register transfers to a CP210x. Implementations own
// the bus technology (libusb, a kernel interface, an in-memory fake); the
// Programmer never assumes one.
//
// The transport is an exclusively-held resource: calls are blocking with
// a single outstanding request, and implementations must release the
// device (restoring any previously-active kernel driver claim) on every
// exit path, error paths included.
type Transport interface {
	// ReadRegister reads length bytes from the register. A short read
	// fails with a *TransferError.
	ReadRegister(ctx context.Context, reg uint16, length int) ([]byte, error)

	// WriteRegister writes data to the register. A short write fails
	// with a *ShortWriteError.
	WriteRegister(ctx context.Context, reg uint16, data []byte) error

	// Reset forces a hard reset of the device, after which it re-reads
	// its EEPROM and presents the programmed descriptors.
	Reset(ctx context.Context) error
}

// TransferError reports a failed or short register transfer.
type TransferError struct {
	// Op names the failed operation, e.g. "read register 0x3709".
	Op string

	// Err is the transport's underlying error, if any.
	Err error
}

func (e *TransferError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Op, e.Err)
	}
	return fmt.Sprintf("%s failed", e.Op)
}

func (e *TransferError) Unwrap() error {
	return e.Err
}

// ShortWriteError reports a register write that transferred fewer bytes
// than requested. The device may be partially updated.
type ShortWriteError struct {
	Reg      uint16
	Wrote    int
	Expected int
}

func (e *ShortWriteError) Error() string {
	return fmt.Sprintf("short write to register 0x%04X (%d of %d bytes)", e.Reg, e.Wrote, e.Expected)
}
