// Package hexfile reads and writes the hex record files used to store
// CP210x EEPROM images on disk.
//
// # File Format
//
// The file is a text stream of records, one per line. A data record is ':'
// followed by hex-encoded bytes:
//
//	[len(1)][address(2, big-endian)][type(1) = 0x00][payload(len)][checksum(1)]
//
// The checksum makes every byte of the record, itself included, sum to
// zero modulo 256. Data records are strictly sequential: the first record
// carries address 0x3600 and each record's address is the previous
// address plus the previous payload length. The file ends with the fixed
// end record:
//
//	:00000001FF
//
// Example data record (16 bytes of payload at 0x3600):
//
//	:10360000410072006400750069006E006F002000C8
//
// # Usage
//
// Parse a hex file from disk:
//
//	img, err := hexfile.Parse("eeprom.hex")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// Serialize an image back out:
//
//	err = hexfile.WriteFile("eeprom.hex", img)
//
// # Error Handling
//
// ParseReader returns a typed error carrying the 1-based line number for
// every malformed record: missing ':' marker, invalid hex, short record,
// checksum mismatch, address out of sequence, unknown record type,
// malformed end record, and a stream that ends without an end record.
// Parsing never recovers silently; the first malformed record aborts the
// whole file.
package hexfile
