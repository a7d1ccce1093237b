package eeprom

// Field offsets inside the image.
const (
	posBaudTable     = 0x0000
	posPartNumber    = 0x01FF
	posProductString = 0x0208
	posSerialNumber  = 0x0307
	posVendorID      = 0x0390
	posProductID     = 0x0392
	posVersion       = 0x0394
	posPowerAttrs    = 0x03A1
	posMaxPower      = 0x03A2
	posVendorString  = 0x03C3
	posLockValue     = 0x03FF
)

// Maximum string descriptor sizes, header included
// (AN721: CP210x/CP211x Device Customization Guide).
const (
	SizeProductString = 255
	SizeSerialNumber  = 128
	SizeVendorString  = 50
)

// Field names, in no particular order. The catalog defines the canonical
// order.
const (
	FieldProductString = "product_string"
	FieldSerialNumber  = "serial_number"
	FieldVendorID      = "vendor_id"
	FieldProductID     = "product_id"
	FieldVersion       = "version"
	FieldBusPowered    = "bus_powered"
	FieldMaxPower      = "max_power"
	FieldLocked        = "locked"
	FieldPartNumber    = "part_number"
	FieldVendorString  = "vendor_string"
	FieldBaudTable     = "baudrate_table"
)

// FieldType is the semantic type of a field's value.
type FieldType int

const (
	// TypeString is a UTF-16LE string descriptor field; values are string.
	TypeString FieldType = iota

	// TypeID is an unsigned 16-bit identifier; values are uint16.
	TypeID

	// TypeInt is a small unsigned integer; values are int.
	TypeInt

	// TypeBoolean is a one-byte flag with two sentinel encodings; values
	// are bool.
	TypeBoolean

	// TypeVersion is a two-byte BCD version; values are Version.
	TypeVersion

	// TypeList is the baudrate table; values are BaudTable or []BaudEntry.
	TypeList
)

func (t FieldType) String() string {
	switch t {
	case TypeString:
		return "string"
	case TypeID:
		return "id"
	case TypeInt:
		return "int"
	case TypeBoolean:
		return "boolean"
	case TypeVersion:
		return "version"
	case TypeList:
		return "list"
	default:
		return "unknown"
	}
}

// Field is a named, typed view into the image: a fixed offset and size plus
// the decode/encode pair for the field's value.
type Field struct {
	Name   string
	Type   FieldType
	Offset int
	Size   int

	get func(img *Image) (any, error)
	set func(img *Image, v any) error
}

// catalog lists every known field in canonical order. The order is the one
// the value-file codec emits and the one Snapshot/Apply iterate in.
var catalog = []Field{
	stringField(FieldProductString, posProductString, SizeProductString),
	stringField(FieldSerialNumber, posSerialNumber, SizeSerialNumber),
	idField(FieldVendorID, posVendorID),
	idField(FieldProductID, posProductID),
	{
		Name: FieldVersion, Type: TypeVersion, Offset: posVersion, Size: 2,
		get: func(img *Image) (any, error) {
			return VersionFromWord(uint16(decodeUint(img.buf[posVersion:posVersion+2], false))), nil
		},
		set: func(img *Image, v any) error {
			ver, ok := v.(Version)
			if !ok {
				return &TypeError{Field: FieldVersion, Expected: "Version", Value: v}
			}
			w, err := ver.Word()
			if err != nil {
				return err
			}
			data, err := encodeUint(uint32(w), 2, false)
			if err != nil {
				return err
			}
			return img.Write(posVersion, data)
		},
	},
	{
		Name: FieldBusPowered, Type: TypeBoolean, Offset: posPowerAttrs, Size: 1,
		get: func(img *Image) (any, error) {
			return DecodeBusPowered(img.buf[posPowerAttrs]), nil
		},
		set: func(img *Image, v any) error {
			b, ok := v.(bool)
			if !ok {
				return &TypeError{Field: FieldBusPowered, Expected: "bool", Value: v}
			}
			return img.Write(posPowerAttrs, []byte{EncodeBusPowered(b)})
		},
	},
	{
		Name: FieldMaxPower, Type: TypeInt, Offset: posMaxPower, Size: 1,
		get: func(img *Image) (any, error) {
			return DecodeMaxPower(img.buf[posMaxPower]), nil
		},
		set: func(img *Image, v any) error {
			mA, ok := v.(int)
			if !ok {
				return &TypeError{Field: FieldMaxPower, Expected: "int", Value: v}
			}
			b, err := EncodeMaxPower(mA)
			if err != nil {
				return err
			}
			return img.Write(posMaxPower, []byte{b})
		},
	},
	{
		Name: FieldLocked, Type: TypeBoolean, Offset: posLockValue, Size: 1,
		get: func(img *Image) (any, error) {
			return img.buf[posLockValue] == LockLocked, nil
		},
		set: func(img *Image, v any) error {
			locked, ok := v.(bool)
			if !ok {
				return &TypeError{Field: FieldLocked, Expected: "bool", Value: v}
			}
			sentinel := byte(LockUnlocked)
			if locked {
				sentinel = LockLocked
			}
			return img.Write(posLockValue, []byte{sentinel})
		},
	},
	{
		Name: FieldPartNumber, Type: TypeInt, Offset: posPartNumber, Size: 1,
		get: func(img *Image) (any, error) {
			return int(img.buf[posPartNumber]), nil
		},
		set: func(img *Image, v any) error {
			n, ok := v.(int)
			if !ok {
				return &TypeError{Field: FieldPartNumber, Expected: "int", Value: v}
			}
			data, err := encodeUint(uint32(n), 1, false)
			if err != nil {
				return &RangeError{Field: FieldPartNumber, Msg: err.Error()}
			}
			return img.Write(posPartNumber, data)
		},
	},
	stringField(FieldVendorString, posVendorString, SizeVendorString),
	{
		Name: FieldBaudTable, Type: TypeList, Offset: posBaudTable, Size: BaudTableSize,
		get: func(img *Image) (any, error) {
			t, err := DecodeBaudTable(img.buf[posBaudTable : posBaudTable+BaudTableSize])
			if err != nil {
				return nil, err
			}
			return t, nil
		},
		set: func(img *Image, v any) error {
			t, err := fullBaudTable(v)
			if err != nil {
				return err
			}
			return img.Write(posBaudTable, EncodeBaudTable(t))
		},
	},
}

var catalogIndex = func() map[string]*Field {
	idx := make(map[string]*Field, len(catalog))
	for i := range catalog {
		idx[catalog[i].Name] = &catalog[i]
	}
	return idx
}()

// Fields returns the field catalog in canonical order.
func Fields() []Field {
	out := make([]Field, len(catalog))
	copy(out, catalog)
	return out
}

// Lookup returns the named field, or a *NoSuchFieldError.
func Lookup(name string) (Field, error) {
	f, ok := catalogIndex[name]
	if !ok {
		return Field{}, &NoSuchFieldError{Name: name}
	}
	return *f, nil
}

func stringField(name string, offset, maxSize int) Field {
	return Field{
		Name: name, Type: TypeString, Offset: offset, Size: maxSize,
		get: func(img *Image) (any, error) {
			return decodeDescriptorAt(img.buf[offset:offset+maxSize], maxSize, offset)
		},
		set: func(img *Image, v any) error {
			s, ok := v.(string)
			if !ok {
				return &TypeError{Field: name, Expected: "string", Value: v}
			}
			data, err := EncodeDescriptor(s, maxSize)
			if err != nil {
				return &RangeError{Field: name, Msg: err.Error()}
			}
			return img.Write(offset, data)
		},
	}
}

func idField(name string, offset int) Field {
	return Field{
		Name: name, Type: TypeID, Offset: offset, Size: 2,
		get: func(img *Image) (any, error) {
			return uint16(decodeUint(img.buf[offset:offset+2], false)), nil
		},
		set: func(img *Image, v any) error {
			id, ok := v.(uint16)
			if !ok {
				return &TypeError{Field: name, Expected: "uint16", Value: v}
			}
			data, err := encodeUint(uint32(id), 2, false)
			if err != nil {
				return err
			}
			return img.Write(offset, data)
		},
	}
}

// fullBaudTable coerces a ValueSet baudrate table value into a complete
// table. A partial entry list must be resolved through values.Merge first.
func fullBaudTable(v any) (BaudTable, error) {
	switch t := v.(type) {
	case BaudTable:
		return t, nil
	case []BaudEntry:
		if len(t) != BaudEntries {
			var zero BaudTable
			return zero, &RangeError{
				Field: FieldBaudTable,
				Msg:   "partial table: a persisted baudrate table must have exactly 32 entries",
			}
		}
		var full BaudTable
		copy(full[:], t)
		return full, nil
	default:
		var zero BaudTable
		return zero, &TypeError{Field: FieldBaudTable, Expected: "BaudTable or []BaudEntry", Value: v}
	}
}
