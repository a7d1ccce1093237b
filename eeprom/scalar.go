package eeprom

import (
	"encoding/binary"
	"fmt"
	"unicode/utf16"
)

// Scalar encoding constants.
const (
	// Size is the EEPROM size in bytes.
	Size = 0x0400

	// BaudEntries is the number of entries in the baudrate table.
	BaudEntries = 32

	// BaudEntrySize is the encoded size of one baudrate table entry.
	BaudEntrySize = 10

	// BaudTableSize is the encoded size of the full baudrate table.
	BaudTableSize = BaudEntries * BaudEntrySize

	// LockLocked and LockUnlocked are the two lock byte sentinels.
	LockLocked   = 0xF0
	LockUnlocked = 0xFF

	// MaxPower is the highest accepted max_power value in mA.
	MaxPower = 500

	// attrBusPowered and attrSelfPowered are the power-attributes bytes
	// written for bus_powered = true / false. Bit 0x40 is the one read
	// back.
	attrBusPowered    = 0xC0
	attrSelfPowered   = 0x80
	attrBusPoweredBit = 0x40

	// stringDescriptorType is the fixed marker byte of a string
	// descriptor (USB DT_STRING).
	stringDescriptorType = 0x03
)

// encodeUint packs value into size bytes (1-4) with the given byte order.
// Returns a *RangeError if the value does not fit in size bytes.
func encodeUint(value uint32, size int, bigEndian bool) ([]byte, error) {
	if size < 4 && value>>(8*size) != 0 {
		return nil, &RangeError{Msg: fmt.Sprintf("value 0x%X does not fit in %d bytes", value, size)}
	}
	data := make([]byte, size)
	for i := 0; i < size; i++ {
		b := byte(value >> (8 * i))
		if bigEndian {
			data[size-1-i] = b
		} else {
			data[i] = b
		}
	}
	return data, nil
}

// decodeUint unpacks up to 4 bytes with the given byte order. There is no
// sign extension.
func decodeUint(data []byte, bigEndian bool) uint32 {
	var v uint32
	if bigEndian {
		for _, b := range data {
			v = v<<8 | uint32(b)
		}
	} else {
		for i := len(data) - 1; i >= 0; i-- {
			v = v<<8 | uint32(data[i])
		}
	}
	return v
}

// encodeBCD packs a 0-99 value as two decimal digits in one byte.
func encodeBCD(n int) (byte, error) {
	if n < 0 || n > 99 {
		return 0, &RangeError{Msg: fmt.Sprintf("BCD value %d outside 0-99", n)}
	}
	return byte(n/10)<<4 | byte(n%10), nil
}

// decodeBCD unpacks a BCD byte. Digits above 9 are taken at face value.
func decodeBCD(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// EncodeMaxPower converts a max power in mA to the stored 2 mA unit,
// rounding up.
func EncodeMaxPower(mA int) (byte, error) {
	if mA < 0 || mA > MaxPower {
		return 0, &RangeError{Field: FieldMaxPower, Msg: fmt.Sprintf("max power %d mA outside 0-%d", mA, MaxPower)}
	}
	return byte((mA + 1) / 2), nil
}

// DecodeMaxPower converts the stored 2 mA unit back to mA.
func DecodeMaxPower(b byte) int {
	return int(b) * 2
}

// EncodeBusPowered returns the power-attributes byte for the flag.
func EncodeBusPowered(busPowered bool) byte {
	if busPowered {
		return attrBusPowered
	}
	return attrSelfPowered
}

// DecodeBusPowered reads the bus-powered flag out of a power-attributes
// byte.
func DecodeBusPowered(b byte) bool {
	return b&attrBusPoweredBit != 0
}

// EncodeDescriptor encodes s as a USB string descriptor:
// [total_len][0x03][UTF-16LE payload]. maxSize is the field's total
// descriptor budget including the 2-byte header; a string that would
// exceed it is rejected with a *RangeError.
func EncodeDescriptor(s string, maxSize int) ([]byte, error) {
	units := utf16.Encode([]rune(s))
	descSize := len(units)*2 + 2
	if descSize > maxSize {
		return nil, &RangeError{Msg: fmt.Sprintf("encoded string descriptor is %d bytes, limit is %d", descSize, maxSize)}
	}
	data := make([]byte, 2, descSize)
	data[0] = byte(descSize)
	data[1] = stringDescriptorType
	for _, u := range units {
		data = append(data, byte(u), byte(u>>8))
	}
	return data, nil
}

// DecodeDescriptor decodes a USB string descriptor from the start of data.
// data must span the field's full window; maxSize bounds the declared
// descriptor length.
func DecodeDescriptor(data []byte, maxSize int) (string, error) {
	return decodeDescriptorAt(data, maxSize, 0)
}

func decodeDescriptorAt(data []byte, maxSize, offset int) (string, error) {
	if len(data) < 2 {
		return "", &DescriptorError{Offset: offset, Msg: "shorter than the 2-byte header"}
	}
	descSize := int(data[0])
	if descSize < 2 || descSize > maxSize || descSize > len(data) {
		return "", &DescriptorError{Offset: offset, Msg: fmt.Sprintf("declared length %d outside 2-%d", descSize, maxSize)}
	}
	if data[1] != stringDescriptorType {
		return "", &DescriptorError{Offset: offset, Msg: fmt.Sprintf("marker byte is 0x%02X, expected 0x%02X", data[1], stringDescriptorType)}
	}
	payload := data[2:descSize]
	if len(payload)%2 != 0 {
		return "", &DescriptorError{Offset: offset, Msg: "odd UTF-16 payload length"}
	}
	units := make([]uint16, len(payload)/2)
	for i := range units {
		units[i] = binary.LittleEndian.Uint16(payload[2*i:])
	}
	for i := 0; i < len(units); i++ {
		switch u := units[i]; {
		case u >= 0xD800 && u < 0xDC00:
			if i+1 >= len(units) || units[i+1] < 0xDC00 || units[i+1] >= 0xE000 {
				return "", &DescriptorError{Offset: offset, Msg: "unpaired UTF-16 surrogate"}
			}
			i++
		case u >= 0xDC00 && u < 0xE000:
			return "", &DescriptorError{Offset: offset, Msg: "unpaired UTF-16 surrogate"}
		}
	}
	return string(utf16.Decode(units)), nil
}

// EncodeBaudEntry packs one baudrate table entry:
// [BaudGen:2 BE][Timer0Reload:2 BE][Prescaler:1][reserved:1][Baudrate:4 LE].
func EncodeBaudEntry(e BaudEntry) []byte {
	data := make([]byte, BaudEntrySize)
	binary.BigEndian.PutUint16(data[0:], e.BaudGen)
	binary.BigEndian.PutUint16(data[2:], e.Timer0Reload)
	data[4] = e.Prescaler
	binary.LittleEndian.PutUint32(data[6:], e.Baudrate)
	return data
}

// DecodeBaudEntry unpacks one baudrate table entry.
func DecodeBaudEntry(data []byte) BaudEntry {
	return BaudEntry{
		BaudGen:      binary.BigEndian.Uint16(data[0:]),
		Timer0Reload: binary.BigEndian.Uint16(data[2:]),
		Prescaler:    data[4],
		Baudrate:     binary.LittleEndian.Uint32(data[6:]),
	}
}

// EncodeBaudTable packs a full 32-entry table.
func EncodeBaudTable(t BaudTable) []byte {
	data := make([]byte, 0, BaudTableSize)
	for _, e := range t {
		data = append(data, EncodeBaudEntry(e)...)
	}
	return data
}

// DecodeBaudTable unpacks a full 32-entry table. Returns a *RangeError
// unless data is exactly BaudTableSize bytes.
func DecodeBaudTable(data []byte) (BaudTable, error) {
	var t BaudTable
	if len(data) != BaudTableSize {
		return t, &RangeError{Msg: fmt.Sprintf("baudrate table is %d bytes, expected %d", len(data), BaudTableSize)}
	}
	for i := range t {
		t[i] = DecodeBaudEntry(data[i*BaudEntrySize:])
	}
	return t, nil
}
