package values

import (
	"bufio"
	"fmt"
	"io"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"github.com/moffa90/go-cp210x/eeprom"
)

// Section names of the value file.
const (
	SectionDevice    = "usb device"
	SectionBaudTable = "baudrate table"
)

// FileError reports a malformed value file, naming the offending key when
// one is known.
type FileError struct {
	Key string
	Msg string
}

func (e *FileError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("key '%s': %s", e.Key, e.Msg)
	}
	return e.Msg
}

var versionPattern = regexp.MustCompile(`^(\d\d?)\.(\d\d?)$`)

// Read parses a value file into a ValueSet. Keys the catalog does not know
// are ignored; a malformed value aborts the whole file with a *FileError
// naming the key. A present [baudrate table] section yields a
// []eeprom.BaudEntry under eeprom.FieldBaudTable, sorted by descending
// target rate; it is usually partial and resolved via Merge or Update
// before being applied to an image or device.
func Read(r io.Reader) (eeprom.ValueSet, error) {
	vs := eeprom.ValueSet{}
	var overrides []eeprom.BaudEntry
	sawTable := false
	section := ""

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || line[0] == '#' || line[0] == ';' {
			continue
		}

		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.ToLower(strings.TrimSpace(line[1 : len(line)-1]))
			if section == SectionBaudTable {
				sawTable = true
			}
			continue
		}

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			return nil, &FileError{Msg: fmt.Sprintf("expected 'name = value', got %q", line)}
		}
		key = strings.ToLower(strings.TrimSpace(key))
		value = stripInlineComment(strings.TrimSpace(value))

		switch section {
		case SectionDevice:
			field, err := eeprom.Lookup(key)
			if err != nil || field.Type == eeprom.TypeList {
				continue // unknown keys are ignored, like unknown options
			}
			v, err := parseValue(field.Type, value)
			if err != nil {
				return nil, &FileError{Key: key, Msg: err.Error()}
			}
			vs[key] = v

		case SectionBaudTable:
			rate, err := strconv.ParseUint(key, 10, 32)
			if err != nil {
				return nil, &FileError{Key: key, Msg: "key names in 'baudrate table' must be baudrate numbers"}
			}
			entry, err := ReadBaudInfo(value)
			if err != nil {
				return nil, &FileError{Key: key, Msg: fmt.Sprintf("wrong baudrate info %d: %s", rate, err)}
			}
			entry.Baudrate = uint32(rate)
			overrides = append(overrides, entry)

		default:
			return nil, &FileError{Key: key, Msg: "value outside of a section"}
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read file: %w", err)
	}

	if sawTable {
		sort.SliceStable(overrides, func(i, j int) bool {
			return overrides[i].Baudrate > overrides[j].Baudrate
		})
		vs[eeprom.FieldBaudTable] = overrides
	}
	return vs, nil
}

// Write emits the set as value-file text: the device section in canonical
// field order (absent fields skipped), then the baudrate table sorted by
// descending target rate, each entry annotated with its derived rate and
// timeout.
func Write(w io.Writer, vs eeprom.ValueSet) error {
	if _, err := fmt.Fprintf(w, "[%s]\n", SectionDevice); err != nil {
		return err
	}
	for _, field := range eeprom.Fields() {
		if field.Type == eeprom.TypeList {
			continue
		}
		v, ok := vs[field.Name]
		if !ok {
			continue
		}
		s, err := formatValue(field, v)
		if err != nil {
			return err
		}
		if _, err := fmt.Fprintf(w, "%s = %s\n", field.Name, s); err != nil {
			return err
		}
	}

	entries, ok := tableEntries(vs[eeprom.FieldBaudTable])
	if !ok {
		return nil
	}
	sorted := make([]eeprom.BaudEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Baudrate > sorted[j].Baudrate
	})

	if _, err := fmt.Fprintf(w, "\n[%s]\n", SectionBaudTable); err != nil {
		return err
	}
	for _, e := range sorted {
		_, err := fmt.Fprintf(w, "%7d = %04X, %04X, %d # %s\n",
			e.Baudrate, e.BaudGen, e.Timer0Reload, e.Prescaler, DescribeBaudEntry(e))
		if err != nil {
			return err
		}
	}
	return nil
}

func parseValue(typ eeprom.FieldType, s string) (any, error) {
	switch typ {
	case eeprom.TypeString:
		return s, nil

	case eeprom.TypeID:
		id, err := strconv.ParseUint(strings.TrimSpace(s), 16, 16)
		if err != nil {
			return nil, fmt.Errorf("%q is not a hex value", s)
		}
		return uint16(id), nil

	case eeprom.TypeInt:
		n, err := strconv.Atoi(s)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", s)
		}
		return n, nil

	case eeprom.TypeBoolean:
		switch strings.ToLower(strings.TrimSpace(s)) {
		case "true", "yes":
			return true, nil
		case "false", "no":
			return false, nil
		default:
			return nil, fmt.Errorf("boolean must be either 'true', 'yes', 'false' or 'no', got %q", s)
		}

	case eeprom.TypeVersion:
		m := versionPattern.FindStringSubmatch(strings.TrimSpace(s))
		if m == nil {
			return nil, fmt.Errorf("version %q does not match 'xx.yy'", s)
		}
		major, _ := strconv.Atoi(m[1])
		minor, _ := strconv.Atoi(m[2])
		return eeprom.Version{Major: major, Minor: minor}, nil

	default:
		return nil, fmt.Errorf("unsupported field type %s", typ)
	}
}

func formatValue(field eeprom.Field, v any) (string, error) {
	switch typed := v.(type) {
	case string:
		if field.Type == eeprom.TypeString {
			return typed, nil
		}
	case uint16:
		if field.Type == eeprom.TypeID {
			return fmt.Sprintf("%04X", typed), nil
		}
	case int:
		if field.Type == eeprom.TypeInt {
			return strconv.Itoa(typed), nil
		}
	case bool:
		if field.Type == eeprom.TypeBoolean {
			if typed {
				return "yes", nil
			}
			return "no", nil
		}
	case eeprom.Version:
		if field.Type == eeprom.TypeVersion {
			return typed.String(), nil
		}
	}
	return "", &eeprom.TypeError{Field: field.Name, Expected: field.Type.String(), Value: v}
}

// stripInlineComment cuts the value at an inline '#' or ';' comment. The
// comment marker only counts when it opens the value or follows
// whitespace, so strings may contain either character.
func stripInlineComment(s string) string {
	for i, c := range s {
		if c != '#' && c != ';' {
			continue
		}
		if i == 0 || s[i-1] == ' ' || s[i-1] == '\t' {
			return strings.TrimRight(s[:i], " \t")
		}
	}
	return s
}
