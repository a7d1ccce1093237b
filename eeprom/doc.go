// Package eeprom models the 1024-byte configuration EEPROM of Silabs
// CP210x USB-to-UART bridges (CP2101, CP2102, CP2103).
//
// # Image Layout
//
// The EEPROM is a fixed 1024-byte blob. Named configuration fields live at
// fixed offsets inside it:
//
//	0x000  baudrate table (32 entries x 10 bytes)
//	0x1FF  part number (1 byte)
//	0x208  product string descriptor (max 255 bytes)
//	0x307  serial number descriptor (max 128 bytes)
//	0x390  vendor ID (2 bytes, little-endian)
//	0x392  product ID (2 bytes, little-endian)
//	0x394  device version (2 BCD bytes)
//	0x3A1  power attributes (1 byte)
//	0x3A2  max power in 2 mA units (1 byte)
//	0x3C3  vendor string descriptor (max 50 bytes)
//	0x3FF  lock byte (0xF0 = locked, 0xFF = unlocked)
//
// String fields use USB string descriptor encoding: a total-length byte, a
// fixed 0x03 marker, then the UTF-16 little-endian payload.
//
// # Usage
//
// Decode a field from a captured image:
//
//	img, err := eeprom.FromBytes(dump)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	v, err := img.Get(eeprom.FieldProductString)
//
// Or work with the whole field set at once:
//
//	vs, err := img.Snapshot()
//	vs[eeprom.FieldVendorID] = uint16(0x10C4)
//	err = img.Apply(vs)
//
// # Lock Semantics
//
// Once the lock byte decodes as locked, Set and Apply refuse every field
// write and return *DeviceLockedError before touching the buffer. Raw Write
// is not gated: the lock models the device's field-programming contract,
// not buffer access.
package eeprom
