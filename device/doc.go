// Package device programs CP210x configuration fields through an abstract
// register transport.
//
// # Overview
//
// The package separates what is written (field encodings, lock rules)
// from how bytes reach the chip. Callers supply a Transport that issues
// the actual vendor-request transfers; everything bus-specific stays on
// their side of the interface.
//
// # Basic Usage
//
//	// User provides the hardware communication (Transport).
//	tr := myusb.Open("10c4:ea60")
//
//	prog := device.New(tr,
//	    device.WithTimeout(300*time.Millisecond),
//	)
//
//	img, err := prog.ReadEEPROM(ctx)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// # Lock Semantics
//
// The chip refuses all configuration writes once its lock byte holds the
// locked sentinel, and it can never be unlocked again. The Programmer
// reads the lock value before the first write, caches it, and fails every
// write with *eeprom.DeviceLockedError without touching the bus while the
// device is locked.
//
// # Failure Model
//
// Transport calls are blocking with a single outstanding request. The
// Programmer never retries: a failed write may leave the device partially
// updated, and only the caller knows whether repeating the whole sequence
// is safe.
package device
