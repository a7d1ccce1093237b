package device

import (
	"context"
	"fmt"

	"github.com/moffa90/go-cp210x/eeprom"
)

// Programmer provides field-level and image-level access to a CP210x
// configuration EEPROM over a Transport.
//
// A Programmer holds its device exclusively; callers must not run two
// operations on the same device concurrently.
type Programmer struct {
	transport Transport
	config    Config

	// locked caches the device lock value after the first read. The
	// device can never transition from locked to unlocked, so the cache
	// only ever goes stale in the unlocked-to-locked direction, which
	// SetLocked updates itself.
	locked *bool
}

// New creates a Programmer over the given transport.
//
// Example:
//
//	prog := device.New(tr, device.WithTimeout(time.Second))
func New(transport Transport, opts ...Option) *Programmer {
	if transport == nil {
		panic("transport cannot be nil")
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	return &Programmer{
		transport: transport,
		config:    cfg,
	}
}

// Locked reports whether the device lock byte holds the locked sentinel.
// The value is read once and cached.
func (p *Programmer) Locked(ctx context.Context) (bool, error) {
	if p.locked != nil {
		return *p.locked, nil
	}
	data, err := p.read(ctx, RegLockValue, 1)
	if err != nil {
		return false, err
	}
	locked := data[0] == eeprom.LockLocked
	p.locked = &locked
	return locked, nil
}

// ReadEEPROM reads the full 1024-byte EEPROM content.
func (p *Programmer) ReadEEPROM(ctx context.Context) (*eeprom.Image, error) {
	data, err := p.read(ctx, RegEEPROM, eeprom.Size)
	if err != nil {
		return nil, err
	}
	return eeprom.FromBytes(data)
}

// WriteEEPROM writes a full image to the EEPROM and, if configured,
// resets the device afterwards.
func (p *Programmer) WriteEEPROM(ctx context.Context, img *eeprom.Image) error {
	if err := p.write(ctx, RegEEPROM, img.Bytes()); err != nil {
		return err
	}
	p.logInfo("eeprom written", "bytes", eeprom.Size)
	if p.config.ResetAfterWrite {
		return p.Reset(ctx)
	}
	return nil
}

// BaudTable reads the device's baudrate table.
func (p *Programmer) BaudTable(ctx context.Context) (eeprom.BaudTable, error) {
	data, err := p.read(ctx, RegEEPROM, eeprom.BaudTableSize)
	if err != nil {
		return eeprom.BaudTable{}, err
	}
	return eeprom.DecodeBaudTable(data)
}

// SetBaudTable writes a full 32-entry baudrate table.
func (p *Programmer) SetBaudTable(ctx context.Context, table eeprom.BaudTable) error {
	return p.write(ctx, RegEEPROM, eeprom.EncodeBaudTable(table))
}

// PartNumber reads the device part number: 1 for a CP2101, 2 for a
// CP2102, 3 for a CP2103.
func (p *Programmer) PartNumber(ctx context.Context) (int, error) {
	data, err := p.read(ctx, RegPartNumber, 1)
	if err != nil {
		return 0, err
	}
	return int(data[0]), nil
}

// SetVendorID sets the USB vendor ID.
func (p *Programmer) SetVendorID(ctx context.Context, vid uint16) error {
	if vid == 0x0000 || vid == 0xFFFF {
		return &eeprom.RangeError{Field: eeprom.FieldVendorID, Msg: fmt.Sprintf("vendor id 0x%04X is reserved", vid)}
	}
	return p.writeWord(ctx, RegVendorID, vid)
}

// SetProductID sets the USB product ID.
func (p *Programmer) SetProductID(ctx context.Context, pid uint16) error {
	if pid == 0x0000 || pid == 0xFFFF {
		return &eeprom.RangeError{Field: eeprom.FieldProductID, Msg: fmt.Sprintf("product id 0x%04X is reserved", pid)}
	}
	return p.writeWord(ctx, RegProductID, pid)
}

// SetProductString sets the product descriptor string.
func (p *Programmer) SetProductString(ctx context.Context, s string) error {
	data, err := eeprom.EncodeDescriptor(s, eeprom.SizeProductString)
	if err != nil {
		return err
	}
	return p.write(ctx, RegProductString, data)
}

// SetSerialNumber sets the serial number descriptor string.
func (p *Programmer) SetSerialNumber(ctx context.Context, s string) error {
	data, err := eeprom.EncodeDescriptor(s, eeprom.SizeSerialNumber)
	if err != nil {
		return err
	}
	return p.write(ctx, RegSerialNumber, data)
}

// SetVersion sets the BCD device version.
func (p *Programmer) SetVersion(ctx context.Context, v eeprom.Version) error {
	w, err := v.Word()
	if err != nil {
		return err
	}
	return p.writeWord(ctx, RegVersion, w)
}

// SetBusPowered sets the bus-powered flag in the power attributes.
func (p *Programmer) SetBusPowered(ctx context.Context, busPowered bool) error {
	return p.write(ctx, RegCfgAttributes, []byte{eeprom.EncodeBusPowered(busPowered)})
}

// SetMaxPower sets the maximum power consumption in mA.
func (p *Programmer) SetMaxPower(ctx context.Context, mA int) error {
	b, err := eeprom.EncodeMaxPower(mA)
	if err != nil {
		return err
	}
	return p.write(ctx, RegMaxPower, []byte{b})
}

// SetLocked writes the lock value. Locking is permanent: once the device
// reports locked, no further write reaches it, this call included.
func (p *Programmer) SetLocked(ctx context.Context, locked bool) error {
	sentinel := byte(eeprom.LockUnlocked)
	if locked {
		sentinel = eeprom.LockLocked
	}
	if err := p.write(ctx, RegLockValue, []byte{sentinel}); err != nil {
		return err
	}
	p.locked = &locked
	return nil
}

// SetValues applies a ValueSet through the per-field setters, in
// canonical catalog order with locked last. The part_number and
// vendor_string fields are read-only on the device and are skipped.
func (p *Programmer) SetValues(ctx context.Context, vs eeprom.ValueSet) error {
	for name := range vs {
		if _, err := eeprom.Lookup(name); err != nil {
			return err
		}
	}
	for _, field := range eeprom.Fields() {
		if field.Name == eeprom.FieldLocked {
			continue
		}
		v, ok := vs[field.Name]
		if !ok {
			continue
		}
		if err := p.setValue(ctx, field, v); err != nil {
			return err
		}
	}
	if v, ok := vs[eeprom.FieldLocked]; ok {
		locked, valid := v.(bool)
		if !valid {
			return &eeprom.TypeError{Field: eeprom.FieldLocked, Expected: "bool", Value: v}
		}
		return p.SetLocked(ctx, locked)
	}
	return nil
}

func (p *Programmer) setValue(ctx context.Context, field eeprom.Field, v any) error {
	mismatch := func(expected string) error {
		return &eeprom.TypeError{Field: field.Name, Expected: expected, Value: v}
	}

	switch field.Name {
	case eeprom.FieldPartNumber, eeprom.FieldVendorString:
		// Read-only on the device; exposed by the image only.
		return nil
	case eeprom.FieldProductString:
		s, ok := v.(string)
		if !ok {
			return mismatch("string")
		}
		return p.SetProductString(ctx, s)
	case eeprom.FieldSerialNumber:
		s, ok := v.(string)
		if !ok {
			return mismatch("string")
		}
		return p.SetSerialNumber(ctx, s)
	case eeprom.FieldVendorID:
		id, ok := v.(uint16)
		if !ok {
			return mismatch("uint16")
		}
		return p.SetVendorID(ctx, id)
	case eeprom.FieldProductID:
		id, ok := v.(uint16)
		if !ok {
			return mismatch("uint16")
		}
		return p.SetProductID(ctx, id)
	case eeprom.FieldVersion:
		ver, ok := v.(eeprom.Version)
		if !ok {
			return mismatch("Version")
		}
		return p.SetVersion(ctx, ver)
	case eeprom.FieldBusPowered:
		b, ok := v.(bool)
		if !ok {
			return mismatch("bool")
		}
		return p.SetBusPowered(ctx, b)
	case eeprom.FieldMaxPower:
		mA, ok := v.(int)
		if !ok {
			return mismatch("int")
		}
		return p.SetMaxPower(ctx, mA)
	case eeprom.FieldBaudTable:
		switch t := v.(type) {
		case eeprom.BaudTable:
			return p.SetBaudTable(ctx, t)
		case []eeprom.BaudEntry:
			if len(t) != eeprom.BaudEntries {
				return &eeprom.RangeError{
					Field: eeprom.FieldBaudTable,
					Msg:   "partial table: a persisted baudrate table must have exactly 32 entries",
				}
			}
			var full eeprom.BaudTable
			copy(full[:], t)
			return p.SetBaudTable(ctx, full)
		default:
			return mismatch("BaudTable or []BaudEntry")
		}
	default:
		return &eeprom.NoSuchFieldError{Name: field.Name}
	}
}

// Reset forces the device to reset and re-read its EEPROM.
func (p *Programmer) Reset(ctx context.Context) error {
	ctx, cancel := p.deadline(ctx)
	defer cancel()
	if err := p.transport.Reset(ctx); err != nil {
		return fmt.Errorf("reset device: %w", err)
	}
	p.logInfo("device reset")
	return nil
}

// read performs one bounded register read.
func (p *Programmer) read(ctx context.Context, reg uint16, length int) ([]byte, error) {
	ctx, cancel := p.deadline(ctx)
	defer cancel()

	p.logDebug("read register", "reg", fmt.Sprintf("0x%04X", reg), "len", length)
	data, err := p.transport.ReadRegister(ctx, reg, length)
	if err != nil {
		return nil, fmt.Errorf("read register 0x%04X: %w", reg, err)
	}
	if len(data) != length {
		return nil, &TransferError{Op: fmt.Sprintf("read register 0x%04X", reg),
			Err: fmt.Errorf("short read (%d of %d bytes)", len(data), length)}
	}
	return data, nil
}

// write performs one bounded register write, refusing it up front when
// the device is locked. No byte reaches the bus on a locked device.
func (p *Programmer) write(ctx context.Context, reg uint16, data []byte) error {
	locked, err := p.Locked(ctx)
	if err != nil {
		return err
	}
	if locked {
		return &eeprom.DeviceLockedError{}
	}

	ctx, cancel := p.deadline(ctx)
	defer cancel()

	p.logDebug("write register", "reg", fmt.Sprintf("0x%04X", reg), "len", len(data))
	if err := p.transport.WriteRegister(ctx, reg, data); err != nil {
		return fmt.Errorf("write register 0x%04X: %w", reg, err)
	}
	return nil
}

// writeWord writes a 16-bit register value, big-endian on the wire.
func (p *Programmer) writeWord(ctx context.Context, reg uint16, value uint16) error {
	return p.write(ctx, reg, []byte{byte(value >> 8), byte(value)})
}

func (p *Programmer) deadline(ctx context.Context) (context.Context, context.CancelFunc) {
	if p.config.Timeout <= 0 {
		return ctx, func() {}
	}
	return context.WithTimeout(ctx, p.config.Timeout)
}

// logDebug logs a debug message if a logger is configured.
func (p *Programmer) logDebug(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Debug(msg, keysAndValues...)
	}
}

// logInfo logs an info message if a logger is configured.
func (p *Programmer) logInfo(msg string, keysAndValues ...interface{}) {
	if p.config.Logger != nil {
		p.config.Logger.Info(msg, keysAndValues...)
	}
}
