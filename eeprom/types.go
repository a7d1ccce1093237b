package eeprom

import "fmt"

// Version is a device version number stored as two BCD-encoded bytes.
// Major and Minor must each be in the range 0-99.
type Version struct {
	Major int
	Minor int
}

// Word packs the version as two BCD bytes with the major number in the
// high byte. Returns a *RangeError if either half is outside 0-99.
func (v Version) Word() (uint16, error) {
	hi, err := encodeBCD(v.Major)
	if err != nil {
		return 0, err
	}
	lo, err := encodeBCD(v.Minor)
	if err != nil {
		return 0, err
	}
	return uint16(hi)<<8 | uint16(lo), nil
}

// VersionFromWord unpacks a BCD-encoded version word.
func VersionFromWord(w uint16) Version {
	return Version{
		Major: decodeBCD(byte(w >> 8)),
		Minor: decodeBCD(byte(w)),
	}
}

func (v Version) String() string {
	return fmt.Sprintf("%02d.%02d", v.Major, v.Minor)
}

// BaudEntry is one slot of the device's baudrate table.
//
//	BaudGen      generates the baudrate: baud = 24 MHz / prescaler / (0x10000 - BaudGen)
//	Timer0Reload generates the timeout: timeout = (0x10000 - Timer0Reload) * 2 us
//	Prescaler    down-scales the baudrate
//	Baudrate     the requested rate that activates this entry
type BaudEntry struct {
	BaudGen      uint16
	Timer0Reload uint16
	Prescaler    uint8
	Baudrate     uint32
}

// BaudTable is a complete baudrate table. The device always carries exactly
// 32 entries; each position corresponds to one fixed descending rate-range
// bucket.
type BaudTable [BaudEntries]BaudEntry

// Entries returns the table as a slice, for use where a ValueSet carries a
// partial entry list.
func (t BaudTable) Entries() []BaudEntry {
	return t[:]
}

// ValueSet maps field names to typed values. It is the interchange format
// between the Image, the value-file codec, and the device setter API.
//
// Value types by field type: string fields hold string, id fields uint16,
// int fields int, boolean fields bool, the version field Version, and the
// baudrate table either a full BaudTable or a partial []BaudEntry.
type ValueSet map[string]any

// Clone returns a shallow copy of the set.
func (vs ValueSet) Clone() ValueSet {
	out := make(ValueSet, len(vs))
	for k, v := range vs {
		out[k] = v
	}
	return out
}
