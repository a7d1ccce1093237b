package hexfile

import (
	"bufio"
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/moffa90/go-cp210x/eeprom"
)

// Constants of the record format.
const (
	// BaseAddress is the address of the first data record. The EEPROM
	// image is addressed from 0x3600 in hex files.
	BaseAddress = 0x3600

	// recordPayload is the payload size of emitted data records
	recordPayload = 0x10

	// minRecordBytes is length + address (2) + type + checksum
	minRecordBytes = 5

	recordTypeData = 0x00
	recordTypeEnd  = 0x01

	// endRecord is the fixed end-of-file record
	endRecord = ":00000001FF"
)

// Parse parses an EEPROM hex file from the given file path.
func Parse(path string) (*eeprom.Image, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open file: %w", err)
	}
	defer func() { _ = f.Close() }()

	return ParseReader(f)
}

// ParseReader parses an EEPROM hex file from any io.Reader.
//
// Each line is one record: ':' followed by hex-encoded
// [len:1][address:2 BE][type:1][payload:len][checksum:1]. All record bytes
// including the checksum must sum to zero modulo 256. Data records must be
// strictly sequential from BaseAddress; the end record terminates parsing
// and any further lines are discarded.
func ParseReader(r io.Reader) (*eeprom.Image, error) {
	scanner := bufio.NewScanner(r)
	content := make([]byte, 0, eeprom.Size)
	address := BaseAddress

	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := scanner.Text()

		if !strings.HasPrefix(line, ":") {
			return nil, &MissingMarkerError{Line: lineNum}
		}

		record, err := hex.DecodeString(line[1:])
		if err != nil {
			return nil, &InvalidHexError{Line: lineNum, Err: err}
		}
		if len(record) < minRecordBytes {
			return nil, &ShortRecordError{Line: lineNum, Bytes: len(record)}
		}

		var sum byte
		for _, b := range record {
			sum += b
		}
		if sum != 0 {
			return nil, &ChecksumError{Line: lineNum, Sum: sum}
		}

		size := int(record[0])
		recAddress := int(record[1])<<8 | int(record[2])
		recType := record[3]
		payload := record[4 : len(record)-1]

		switch recType {
		case recordTypeData:
			if recAddress != address {
				return nil, &AddressError{Line: lineNum, Want: address, Got: recAddress}
			}
			content = append(content, payload...)
			address += len(payload)

		case recordTypeEnd:
			if size != 0 || len(payload) != 0 {
				return nil, &EndRecordError{Line: lineNum}
			}
			if len(content) != eeprom.Size {
				return nil, &ImageSizeError{Bytes: len(content)}
			}
			return eeprom.FromBytes(content)

		default:
			return nil, &RecordTypeError{Line: lineNum, Type: recType}
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}
	return nil, &TruncatedError{}
}

// Build serializes the image into hex record text: one 16-byte data record
// per chunk starting at BaseAddress, then the fixed end record. The output
// always round-trips: ParseReader(Build(img)) restores img exactly.
func Build(img *eeprom.Image) string {
	var sb strings.Builder
	content := img.Bytes()

	record := make([]byte, 0, recordPayload+minRecordBytes)
	for offset := 0; offset < len(content); offset += recordPayload {
		chunk := content[offset : offset+recordPayload]
		address := BaseAddress + offset

		record = record[:0]
		record = append(record, byte(len(chunk)), byte(address>>8), byte(address), recordTypeData)
		record = append(record, chunk...)

		var sum byte
		for _, b := range record {
			sum += b
		}
		record = append(record, -sum)

		sb.WriteByte(':')
		sb.WriteString(strings.ToUpper(hex.EncodeToString(record)))
		sb.WriteByte('\n')
	}

	sb.WriteString(endRecord)
	sb.WriteByte('\n')
	return sb.String()
}

// Write emits the image as hex record text to w.
func Write(w io.Writer, img *eeprom.Image) error {
	_, err := io.WriteString(w, Build(img))
	return err
}

// WriteFile emits the image as hex record text to the named file.
func WriteFile(path string, img *eeprom.Image) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	if err := Write(f, img); err != nil {
		_ = f.Close()
		return err
	}
	return f.Close()
}
