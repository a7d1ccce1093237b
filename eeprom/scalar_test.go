package eeprom

import (
	"bytes"
	"errors"
	"strings"
	"testing"
)

func TestEncodeUint(t *testing.T) {
	tests := []struct {
		name      string
		value     uint32
		size      int
		bigEndian bool
		want      []byte
		wantErr   bool
	}{
		{name: "u16 little-endian", value: 0x10C4, size: 2, want: []byte{0xC4, 0x10}},
		{name: "u16 big-endian", value: 0x10C4, size: 2, bigEndian: true, want: []byte{0x10, 0xC4}},
		{name: "u8", value: 0x7F, size: 1, want: []byte{0x7F}},
		{name: "u32 little-endian", value: 921600, size: 4, want: []byte{0x00, 0x10, 0x0E, 0x00}},
		{name: "zero", value: 0, size: 2, want: []byte{0x00, 0x00}},
		{name: "max for size", value: 0xFFFF, size: 2, want: []byte{0xFF, 0xFF}},
		{name: "does not fit", value: 0x10000, size: 2, wantErr: true},
		{name: "does not fit in one byte", value: 0x100, size: 1, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := encodeUint(tt.value, tt.size, tt.bigEndian)
			if tt.wantErr {
				var rangeErr *RangeError
				if !errors.As(err, &rangeErr) {
					t.Fatalf("encodeUint() error = %v, want *RangeError", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("encodeUint() unexpected error: %v", err)
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("encodeUint() = % X, want % X", got, tt.want)
			}
			if back := decodeUint(got, tt.bigEndian); back != tt.value {
				t.Errorf("decodeUint() = 0x%X, want 0x%X", back, tt.value)
			}
		})
	}
}

func TestBCD(t *testing.T) {
	tests := []struct {
		value   int
		want    byte
		wantErr bool
	}{
		{value: 0, want: 0x00},
		{value: 9, want: 0x09},
		{value: 10, want: 0x10},
		{value: 42, want: 0x42},
		{value: 99, want: 0x99},
		{value: 100, wantErr: true},
		{value: -1, wantErr: true},
	}

	for _, tt := range tests {
		got, err := encodeBCD(tt.value)
		if tt.wantErr {
			if err == nil {
				t.Errorf("encodeBCD(%d) expected error", tt.value)
			}
			continue
		}
		if err != nil {
			t.Fatalf("encodeBCD(%d) unexpected error: %v", tt.value, err)
		}
		if got != tt.want {
			t.Errorf("encodeBCD(%d) = 0x%02X, want 0x%02X", tt.value, got, tt.want)
		}
		if back := decodeBCD(got); back != tt.value {
			t.Errorf("decodeBCD(0x%02X) = %d, want %d", got, back, tt.value)
		}
	}
}

func TestVersionWord(t *testing.T) {
	w, err := Version{Major: 12, Minor: 34}.Word()
	if err != nil {
		t.Fatalf("Word() unexpected error: %v", err)
	}
	if w != 0x1234 {
		t.Errorf("Word() = 0x%04X, want 0x1234", w)
	}
	if got := VersionFromWord(0x1234); got != (Version{Major: 12, Minor: 34}) {
		t.Errorf("VersionFromWord() = %+v", got)
	}
	if _, err := (Version{Major: 100, Minor: 0}).Word(); err == nil {
		t.Error("Word() expected error for major 100")
	}
}

func TestMaxPower(t *testing.T) {
	tests := []struct {
		mA      int
		want    byte
		wantErr bool
	}{
		{mA: 0, want: 0},
		{mA: 1, want: 1}, // rounds up to the next 2 mA unit
		{mA: 100, want: 50},
		{mA: 101, want: 51},
		{mA: 500, want: 250},
		{mA: 501, wantErr: true},
		{mA: -2, wantErr: true},
	}

	for _, tt := range tests {
		got, err := EncodeMaxPower(tt.mA)
		if tt.wantErr {
			if err == nil {
				t.Errorf("EncodeMaxPower(%d) expected error", tt.mA)
			}
			continue
		}
		if err != nil {
			t.Fatalf("EncodeMaxPower(%d) unexpected error: %v", tt.mA, err)
		}
		if got != tt.want {
			t.Errorf("EncodeMaxPower(%d) = %d, want %d", tt.mA, got, tt.want)
		}
	}

	if got := DecodeMaxPower(50); got != 100 {
		t.Errorf("DecodeMaxPower(50) = %d, want 100", got)
	}
}

func TestBusPowered(t *testing.T) {
	if got := EncodeBusPowered(true); got != 0xC0 {
		t.Errorf("EncodeBusPowered(true) = 0x%02X, want 0xC0", got)
	}
	if got := EncodeBusPowered(false); got != 0x80 {
		t.Errorf("EncodeBusPowered(false) = 0x%02X, want 0x80", got)
	}
	if !DecodeBusPowered(0xC0) {
		t.Error("DecodeBusPowered(0xC0) = false, want true")
	}
	if DecodeBusPowered(0x80) {
		t.Error("DecodeBusPowered(0x80) = true, want false")
	}
}

func TestDescriptorRoundTrip(t *testing.T) {
	tests := []struct {
		name    string
		text    string
		maxSize int
	}{
		{name: "ascii", text: "CP2102 USB to UART Bridge Controller", maxSize: SizeProductString},
		{name: "empty", text: "", maxSize: SizeVendorString},
		{name: "non-ascii", text: "Brücke Nr. 5 ©", maxSize: SizeVendorString},
		{name: "astral plane", text: "chip \U0001F50C", maxSize: SizeVendorString},
		{name: "exactly max", text: strings.Repeat("x", (SizeVendorString-2)/2), maxSize: SizeVendorString},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data, err := EncodeDescriptor(tt.text, tt.maxSize)
			if err != nil {
				t.Fatalf("EncodeDescriptor() unexpected error: %v", err)
			}
			if data[1] != 0x03 {
				t.Errorf("marker byte = 0x%02X, want 0x03", data[1])
			}
			if int(data[0]) != len(data) {
				t.Errorf("length byte = %d, descriptor is %d bytes", data[0], len(data))
			}
			// Pad to the field window size like the image does.
			window := make([]byte, tt.maxSize)
			copy(window, data)
			got, err := DecodeDescriptor(window, tt.maxSize)
			if err != nil {
				t.Fatalf("DecodeDescriptor() unexpected error: %v", err)
			}
			if got != tt.text {
				t.Errorf("round trip = %q, want %q", got, tt.text)
			}
		})
	}
}

func TestEncodeDescriptorTooLong(t *testing.T) {
	text := strings.Repeat("x", (SizeVendorString-2)/2+1)
	_, err := EncodeDescriptor(text, SizeVendorString)
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("EncodeDescriptor() error = %v, want *RangeError", err)
	}
}

func TestDecodeDescriptorErrors(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{name: "too short", data: []byte{0x04}},
		{name: "length below header", data: []byte{0x01, 0x03, 0x00, 0x00}},
		{name: "length above max", data: []byte{0xFF, 0x03, 0x00, 0x00}},
		{name: "missing marker", data: []byte{0x04, 0x00, 0x41, 0x00}},
		{name: "odd payload", data: []byte{0x05, 0x03, 0x41, 0x00, 0x42}},
		{name: "unpaired high surrogate", data: []byte{0x04, 0x03, 0x00, 0xD8}},
		{name: "lone low surrogate", data: []byte{0x04, 0x03, 0x00, 0xDC}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := DecodeDescriptor(tt.data, 50)
			var descErr *DescriptorError
			if !errors.As(err, &descErr) {
				t.Fatalf("DecodeDescriptor() error = %v, want *DescriptorError", err)
			}
		})
	}
}

func TestBaudEntryRoundTrip(t *testing.T) {
	e := BaudEntry{BaudGen: 0xF63C, Timer0Reload: 0xFFB0, Prescaler: 1, Baudrate: 9600}
	data := EncodeBaudEntry(e)
	want := []byte{0xF6, 0x3C, 0xFF, 0xB0, 0x01, 0x00, 0x80, 0x25, 0x00, 0x00}
	if !bytes.Equal(data, want) {
		t.Fatalf("EncodeBaudEntry() = % X, want % X", data, want)
	}
	if got := DecodeBaudEntry(data); got != e {
		t.Errorf("DecodeBaudEntry() = %+v, want %+v", got, e)
	}
}

func TestDecodeBaudTableSize(t *testing.T) {
	_, err := DecodeBaudTable(make([]byte, BaudTableSize-1))
	var rangeErr *RangeError
	if !errors.As(err, &rangeErr) {
		t.Fatalf("DecodeBaudTable() error = %v, want *RangeError", err)
	}
}
