package device

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/moffa90/go-cp210x/eeprom"
)

// mockTransport keeps a full EEPROM image in memory and serves register
// transfers against it. Field registers map onto their image offsets so
// a written value is visible through a subsequent ReadEEPROM.
type mockTransport struct {
	buf    [eeprom.Size]byte
	writes []uint16

	failReads  bool
	shortReads bool
	resets     int
}

func newMockTransport() *mockTransport {
	m := &mockTransport{}
	for i := range m.buf {
		m.buf[i] = 0xFF
	}
	return m
}

func (m *mockTransport) regOffset(reg uint16) (int, int) {
	switch reg {
	case RegVendorID:
		return 0x0390, 2
	case RegProductID:
		return 0x0392, 2
	case RegProductString:
		return 0x0208, 255
	case RegSerialNumber:
		return 0x0307, 128
	case RegCfgAttributes:
		return 0x03A1, 1
	case RegMaxPower:
		return 0x03A2, 1
	case RegVersion:
		return 0x0394, 2
	case RegEEPROM:
		return 0x0000, eeprom.Size
	case RegLockValue:
		return 0x03FF, 1
	case RegPartNumber:
		return 0x01FF, 1
	default:
		return -1, 0
	}
}

func (m *mockTransport) ReadRegister(ctx context.Context, reg uint16, length int) ([]byte, error) {
	if m.failReads {
		return nil, errors.New("pipe error")
	}
	off, max := m.regOffset(reg)
	if off < 0 || length > max {
		return nil, errors.New("invalid register read")
	}
	if m.shortReads {
		length /= 2
	}
	out := make([]byte, length)
	copy(out, m.buf[off:off+length])
	return out, nil
}

func (m *mockTransport) WriteRegister(ctx context.Context, reg uint16, data []byte) error {
	off, max := m.regOffset(reg)
	if off < 0 || len(data) > max {
		return errors.New("invalid register write")
	}
	m.writes = append(m.writes, reg)
	// Word registers arrive big-endian on the wire but land little-endian
	// in the EEPROM, matching the chip's storage layout.
	switch reg {
	case RegVendorID, RegProductID, RegVersion:
		if len(data) == 2 {
			m.buf[off] = data[1]
			m.buf[off+1] = data[0]
			return nil
		}
	}
	copy(m.buf[off:], data)
	return nil
}

func (m *mockTransport) Reset(ctx context.Context) error {
	m.resets++
	return nil
}

func TestEEPROMRoundTrip(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr)
	ctx := context.Background()

	img := eeprom.New()
	require.NoError(t, img.Set(eeprom.FieldProductString, "Widget Bridge"))
	require.NoError(t, img.Set(eeprom.FieldVendorID, uint16(0x10C4)))

	require.NoError(t, prog.WriteEEPROM(ctx, img))

	got, err := prog.ReadEEPROM(ctx)
	require.NoError(t, err)
	assert.Equal(t, img.Bytes(), got.Bytes())

	s, err := got.Get(eeprom.FieldProductString)
	require.NoError(t, err)
	assert.Equal(t, "Widget Bridge", s)
}

func TestFieldSettersEncode(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr)
	ctx := context.Background()

	require.NoError(t, prog.SetVendorID(ctx, 0x10C4))
	require.NoError(t, prog.SetProductID(ctx, 0xEA60))
	require.NoError(t, prog.SetVersion(ctx, eeprom.Version{Major: 12, Minor: 34}))
	require.NoError(t, prog.SetBusPowered(ctx, false))
	assert.Equal(t, byte(0x80), tr.buf[0x03A1], "self-powered attribute byte")
	require.NoError(t, prog.SetBusPowered(ctx, true))
	assert.Equal(t, byte(0xC0), tr.buf[0x03A1], "bus-powered attribute byte")

	require.NoError(t, prog.SetMaxPower(ctx, 101))
	require.NoError(t, prog.SetSerialNumber(ctx, "0001"))

	assert.Equal(t, byte(51), tr.buf[0x03A2], "101 mA rounds up to 51 units")
	assert.Equal(t, byte(10), tr.buf[0x0307], "descriptor length byte")
	assert.Equal(t, byte(0x03), tr.buf[0x0308], "descriptor type marker")

	img, err := prog.ReadEEPROM(ctx)
	require.NoError(t, err)
	for name, want := range map[string]any{
		eeprom.FieldVendorID:     uint16(0x10C4),
		eeprom.FieldProductID:    uint16(0xEA60),
		eeprom.FieldVersion:      eeprom.Version{Major: 12, Minor: 34},
		eeprom.FieldBusPowered:   true,
		eeprom.FieldMaxPower:     102,
		eeprom.FieldSerialNumber: "0001",
	} {
		got, err := img.Get(name)
		require.NoError(t, err, name)
		assert.Equal(t, want, got, name)
	}
}

func TestSetVendorIDReserved(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr)
	ctx := context.Background()

	for _, vid := range []uint16{0x0000, 0xFFFF} {
		err := prog.SetVendorID(ctx, vid)
		var rangeErr *eeprom.RangeError
		require.ErrorAs(t, err, &rangeErr)
	}
	assert.Empty(t, tr.writes, "reserved IDs must be rejected before the bus")
}

func TestLockedDeviceRefusesWrites(t *testing.T) {
	tr := newMockTransport()
	tr.buf[0x03FF] = eeprom.LockLocked
	prog := New(tr)
	ctx := context.Background()

	locked, err := prog.Locked(ctx)
	require.NoError(t, err)
	assert.True(t, locked)

	err = prog.SetVendorID(ctx, 0x10C4)
	assert.True(t, eeprom.IsLocked(err))
	err = prog.WriteEEPROM(ctx, eeprom.New())
	assert.True(t, eeprom.IsLocked(err))
	err = prog.SetLocked(ctx, false)
	assert.True(t, eeprom.IsLocked(err))

	assert.Empty(t, tr.writes, "no write may reach a locked device")

	// Reads still work against a locked device.
	_, err = prog.ReadEEPROM(ctx)
	assert.NoError(t, err)
}

func TestLockedIsCached(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr)
	ctx := context.Background()

	locked, err := prog.Locked(ctx)
	require.NoError(t, err)
	assert.False(t, locked)

	// Later read failures must not matter once the value is cached.
	tr.failReads = true
	locked, err = prog.Locked(ctx)
	require.NoError(t, err)
	assert.False(t, locked)
}

func TestSetLockedUpdatesCache(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr)
	ctx := context.Background()

	require.NoError(t, prog.SetLocked(ctx, true))
	assert.Equal(t, byte(eeprom.LockLocked), tr.buf[0x03FF])

	err := prog.SetVendorID(ctx, 0x10C4)
	assert.True(t, eeprom.IsLocked(err))
}

func TestSetValues(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr)
	ctx := context.Background()

	vs := eeprom.ValueSet{
		eeprom.FieldVendorID:      uint16(0x10C4),
		eeprom.FieldProductID:     uint16(0xEA60),
		eeprom.FieldProductString: "Widget Bridge",
		eeprom.FieldMaxPower:      100,
		eeprom.FieldPartNumber:    2,
		eeprom.FieldVendorString:  "Silicon Labs",
	}
	require.NoError(t, prog.SetValues(ctx, vs))

	for _, reg := range tr.writes {
		assert.NotEqual(t, uint16(RegPartNumber), reg, "part_number is read-only")
	}
	assert.Equal(t, []byte{0xC4, 0x10}, tr.buf[0x0390:0x0392])
	assert.Equal(t, byte(50), tr.buf[0x03A2])
}

func TestSetValuesUnknownField(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr)

	err := prog.SetValues(context.Background(), eeprom.ValueSet{"bogus": 1})
	var nsf *eeprom.NoSuchFieldError
	require.ErrorAs(t, err, &nsf)
	assert.Empty(t, tr.writes, "unknown fields must be rejected before any write")
}

func TestSetValuesLocksLast(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr)
	ctx := context.Background()

	vs := eeprom.ValueSet{
		eeprom.FieldLocked:   true,
		eeprom.FieldVendorID: uint16(0x10C4),
	}
	require.NoError(t, prog.SetValues(ctx, vs))

	require.NotEmpty(t, tr.writes)
	assert.Equal(t, uint16(RegLockValue), tr.writes[len(tr.writes)-1])
	assert.Equal(t, []byte{0xC4, 0x10}, tr.buf[0x0390:0x0392])
}

func TestShortReadFails(t *testing.T) {
	tr := newMockTransport()
	tr.shortReads = true
	prog := New(tr)

	_, err := prog.ReadEEPROM(context.Background())
	var transfer *TransferError
	require.ErrorAs(t, err, &transfer)
	assert.Contains(t, err.Error(), "short read")
}

func TestResetAfterWrite(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr, WithResetAfterWrite(true))

	require.NoError(t, prog.WriteEEPROM(context.Background(), eeprom.New()))
	assert.Equal(t, 1, tr.resets)
}

func TestBaudTableRoundTrip(t *testing.T) {
	tr := newMockTransport()
	prog := New(tr)
	ctx := context.Background()

	var table eeprom.BaudTable
	for i := range table {
		table[i] = eeprom.BaudEntry{
			BaudGen:      uint16(0xF000 + i),
			Timer0Reload: 0xFFB0,
			Prescaler:    1,
			Baudrate:     uint32(9600 + i),
		}
	}
	require.NoError(t, prog.SetBaudTable(ctx, table))

	got, err := prog.BaudTable(ctx)
	require.NoError(t, err)
	assert.Equal(t, table, got)
}

func TestPartNumber(t *testing.T) {
	tr := newMockTransport()
	tr.buf[0x01FF] = PartCP2102
	prog := New(tr)

	part, err := prog.PartNumber(context.Background())
	require.NoError(t, err)
	assert.Equal(t, PartCP2102, part)
}

func TestNewPanicsOnNilTransport(t *testing.T) {
	assert.Panics(t, func() { New(nil) })
}
