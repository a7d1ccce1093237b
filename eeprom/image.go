package eeprom

import "fmt"

// Image is an exclusively-owned copy of the 1024-byte EEPROM content.
// The length is always exactly Size; all mutation goes through
// bounds-checked range writes.
//
// An Image is not safe for concurrent use; callers must not run two
// logical operations on the same Image at the same time.
type Image struct {
	buf [Size]byte
}

// New returns a blank image in the erased state: every byte 0xFF, which
// also leaves the lock byte at the unlocked sentinel.
func New() *Image {
	img := &Image{}
	for i := range img.buf {
		img.buf[i] = 0xFF
	}
	return img
}

// FromBytes copies data into a new image. Returns a *RangeError unless
// data is exactly Size bytes.
func FromBytes(data []byte) (*Image, error) {
	if len(data) != Size {
		return nil, &RangeError{Msg: fmt.Sprintf("image is %d bytes, expected %d", len(data), Size)}
	}
	img := &Image{}
	copy(img.buf[:], data)
	return img, nil
}

// FromValues builds a blank image and applies the given values to it.
func FromValues(vs ValueSet) (*Image, error) {
	img := New()
	if err := img.Apply(vs); err != nil {
		return nil, err
	}
	return img, nil
}

// Bytes returns a copy of the full image content.
func (img *Image) Bytes() []byte {
	out := make([]byte, Size)
	copy(out, img.buf[:])
	return out
}

// Read returns a copy of the byte range [offset, offset+length).
func (img *Image) Read(offset, length int) ([]byte, error) {
	if offset < 0 || length < 0 || offset+length > Size {
		return nil, &RangeError{Msg: fmt.Sprintf("read of %d bytes at 0x%03X exceeds image size %d", length, offset, Size)}
	}
	out := make([]byte, length)
	copy(out, img.buf[offset:])
	return out, nil
}

// Write replaces the byte range [offset, offset+len(data)).
func (img *Image) Write(offset int, data []byte) error {
	if offset < 0 || offset+len(data) > Size {
		return &RangeError{Msg: fmt.Sprintf("write of %d bytes at 0x%03X exceeds image size %d", len(data), offset, Size)}
	}
	copy(img.buf[offset:], data)
	return nil
}

// Locked reports whether the lock byte holds the locked sentinel.
func (img *Image) Locked() bool {
	return img.buf[posLockValue] == LockLocked
}

// Get decodes the named field's current value.
func (img *Image) Get(name string) (any, error) {
	f, ok := catalogIndex[name]
	if !ok {
		return nil, &NoSuchFieldError{Name: name}
	}
	return f.get(img)
}

// Set encodes value into the named field. The value is validated and
// encoded before any byte of the image changes. Fails with
// *DeviceLockedError for every field once the image is locked.
func (img *Image) Set(name string, value any) error {
	f, ok := catalogIndex[name]
	if !ok {
		return &NoSuchFieldError{Name: name}
	}
	if img.Locked() {
		return &DeviceLockedError{}
	}
	return f.set(img, value)
}

// Snapshot reads every known field into a ValueSet.
func (img *Image) Snapshot() (ValueSet, error) {
	vs := make(ValueSet, len(catalog))
	for _, f := range catalog {
		v, err := f.get(img)
		if err != nil {
			return nil, fmt.Errorf("read field %s: %w", f.Name, err)
		}
		vs[f.Name] = v
	}
	return vs, nil
}

// Apply writes every entry of the set through Set, in canonical catalog
// order, except that the locked field is always applied last so a set that
// both writes data and locks the image behaves like the device would.
// Unknown names are rejected before anything is written.
func (img *Image) Apply(vs ValueSet) error {
	for name := range vs {
		if _, ok := catalogIndex[name]; !ok {
			return &NoSuchFieldError{Name: name}
		}
	}
	for _, f := range catalog {
		if f.Name == FieldLocked {
			continue
		}
		v, ok := vs[f.Name]
		if !ok {
			continue
		}
		if err := img.Set(f.Name, v); err != nil {
			return err
		}
	}
	if v, ok := vs[FieldLocked]; ok {
		return img.Set(FieldLocked, v)
	}
	return nil
}
