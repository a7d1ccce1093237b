package hexfile

import "fmt"

// MissingMarkerError indicates a line that does not start with ':'.
type MissingMarkerError struct {
	Line int
}

func (e *MissingMarkerError) Error() string {
	return fmt.Sprintf("line %d: record does not start with ':'", e.Line)
}

// InvalidHexError indicates a record body that is not valid hex.
type InvalidHexError struct {
	Line int
	Err  error
}

func (e *InvalidHexError) Error() string {
	return fmt.Sprintf("line %d: invalid hex data: %v", e.Line, e.Err)
}

func (e *InvalidHexError) Unwrap() error {
	return e.Err
}

// ShortRecordError indicates a record with fewer than the 5 bytes of
// length, address, type and checksum.
type ShortRecordError struct {
	Line  int
	Bytes int
}

func (e *ShortRecordError) Error() string {
	return fmt.Sprintf("line %d: record too short: got %d bytes, minimum is %d", e.Line, e.Bytes, minRecordBytes)
}

// ChecksumError indicates a record whose bytes do not sum to zero.
type ChecksumError struct {
	Line int

	// Sum is the record sum modulo 256; zero means valid.
	Sum byte
}

func (e *ChecksumError) Error() string {
	return fmt.Sprintf("line %d: checksum mismatch: record sums to 0x%02X, want 0x00", e.Line, e.Sum)
}

// AddressError indicates a data record whose address breaks the strictly
// sequential, contiguous record stream.
type AddressError struct {
	Line int
	Want int
	Got  int
}

func (e *AddressError) Error() string {
	return fmt.Sprintf("line %d: expected address 0x%04X but found 0x%04X", e.Line, e.Want, e.Got)
}

// RecordTypeError indicates a record type byte other than data (0x00) or
// end (0x01).
type RecordTypeError struct {
	Line int
	Type byte
}

func (e *RecordTypeError) Error() string {
	return fmt.Sprintf("line %d: unknown record type 0x%02X", e.Line, e.Type)
}

// EndRecordError indicates an end record carrying a length or payload.
type EndRecordError struct {
	Line int
}

func (e *EndRecordError) Error() string {
	return fmt.Sprintf("line %d: malformed end record", e.Line)
}

// TruncatedError indicates a stream that ended without an end record.
type TruncatedError struct{}

func (e *TruncatedError) Error() string {
	return "truncated file: no end record"
}

// ImageSizeError indicates a record stream whose payload does not total
// exactly the EEPROM size.
type ImageSizeError struct {
	Bytes int
}

func (e *ImageSizeError) Error() string {
	return fmt.Sprintf("image payload is %d bytes, expected 1024", e.Bytes)
}
