// Package values reads and writes the human-editable value files used to
// describe CP210x EEPROM settings, and merges partial baudrate tables into
// complete ones.
//
// # File Format
//
// A value file has two sections. The [usb device] section carries one
// "name = value" line per scalar field:
//
//	[usb device]
//	product_string = CP2102 USB to UART Bridge Controller
//	serial_number = 0001
//	vendor_id = 10C4
//	product_id = EA60
//	version = 01.00
//	bus_powered = no
//	max_power = 100
//	locked = no
//
// Values are encoded by field type: id fields as four hex digits, booleans
// as yes/no (true/false accepted on read), ints as decimals, versions as
// two dot-separated decimal numbers, strings as raw text. The optional
// [baudrate table] section carries up to 32 entries, keyed by target rate:
//
//	[baudrate table]
//	 921600 = FFE6, FF9A, 1 #  923077 Baud, 204 us
//	   9600 = F63C, B0F0, 1 #    9600 Baud, 40.480 ms
//
// Each value is baud generator (hex), timer0 reload (hex) and prescaler
// (decimal). The trailing comment is documentation derived from the entry
// (AN205 formulas) and is ignored on read, as is everything after '#' or
// ';' in any line.
//
// # Baudrate Table Merging
//
// A value file usually carries only the handful of entries to change.
// Merge folds such a partial list into a full 32-entry table using the
// fixed AN205 rate-range buckets; see Merge for the exact rules.
package values
