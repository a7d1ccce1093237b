package values

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/moffa90/go-cp210x/eeprom"
)

// ErrPrescalerZero reports a baudrate entry whose prescaler is zero; the
// effective rate is undefined for it.
var ErrPrescalerZero = errors.New("prescaler is 0")

// clockHz is the CP210x baud clock (AN205 page 5).
const clockHz = 24000000.0

// baudRange is one rate-range bucket: Low <= rate <= High, both inclusive.
// High == 0 means unbounded.
type baudRange struct {
	High uint32
	Low  uint32
}

// requestRanges are the fixed descending rate-range buckets from AN205
// Table 1, paired one-to-one with baudrate table slots 0 to 30. Slot 31 is
// the catch-all: it has no range and always keeps the base entry.
var requestRanges = [eeprom.BaudEntries - 1]baudRange{
	//  High     Low        Default rate
	{0, 2457601},       // undefined
	{2457600, 1474561}, // undefined
	{1474560, 1053258}, // undefined
	{1053257, 670255},  // 921600
	{670254, 567139},   // 576000
	{567138, 491521},   // 500000
	{491520, 273067},   // 460800
	{273066, 254235},   // 256000
	{254234, 237833},   // 250000
	{237832, 156869},   // 230400
	{156868, 129348},   // 153600
	{129347, 117029},   // 128000
	{117028, 77609},    // 115200
	{77608, 64112},     // 76800
	{64111, 58054},     // 64000
	{58053, 56281},     // 57600
	{56280, 51559},     // 56000
	{51558, 38602},     // 51200
	{38601, 28913},     // 38400
	{28912, 19251},     // 28800
	{19250, 16063},     // 19200
	{16062, 14429},     // 16000
	{14428, 9613},      // 14400
	{9612, 7208},       // 9600
	{7207, 4804},       // 7200
	{4803, 4001},       // 4800
	{4000, 2401},       // 4000
	{2400, 1801},       // 2400
	{1800, 1201},       // 1800
	{1200, 601},        // 1200
	{600, 301},         // 600
}

func (r baudRange) contains(rate uint32) bool {
	return (r.High == 0 || rate <= r.High) && rate >= r.Low
}

// Merge combines a base table with a partial override list into a full
// table. Each range bucket takes the first override whose target rate it
// contains; a bucket with no matching override keeps the base entry.
// Overrides outside every bucket are dropped. The catch-all slot 31 always
// keeps the base entry.
func Merge(base eeprom.BaudTable, overrides []eeprom.BaudEntry) eeprom.BaudTable {
	merged := base
	for slot, rng := range requestRanges {
		for _, o := range overrides {
			if rng.contains(o.Baudrate) {
				merged[slot] = o
				break
			}
		}
	}
	return merged
}

// Update overlays updates onto current and resolves the baudrate table to
// a full 32 entries against base (the table currently on the image or
// device). Partial tables in current or updates are merged in that order;
// a full table replaces outright. Neither input set is modified.
func Update(current, updates eeprom.ValueSet, base eeprom.BaudTable) eeprom.ValueSet {
	out := current.Clone()
	for name, v := range updates {
		out[name] = v
	}

	cur, curOK := tableEntries(current[eeprom.FieldBaudTable])
	upd, updOK := tableEntries(updates[eeprom.FieldBaudTable])
	if !curOK && !updOK {
		return out
	}

	merged := base
	if curOK {
		merged = resolve(merged, cur)
	}
	if updOK {
		merged = resolve(merged, upd)
	}
	out[eeprom.FieldBaudTable] = merged
	return out
}

func resolve(base eeprom.BaudTable, entries []eeprom.BaudEntry) eeprom.BaudTable {
	if len(entries) == eeprom.BaudEntries {
		var full eeprom.BaudTable
		copy(full[:], entries)
		return full
	}
	return Merge(base, entries)
}

func tableEntries(v any) ([]eeprom.BaudEntry, bool) {
	switch t := v.(type) {
	case eeprom.BaudTable:
		return t.Entries(), true
	case []eeprom.BaudEntry:
		return t, true
	default:
		return nil, false
	}
}

// CalcBaudrate derives the effective rate in baud and the timeout in
// microseconds from an entry (AN205 page 5). Fails with ErrPrescalerZero
// instead of dividing by zero.
func CalcBaudrate(e eeprom.BaudEntry) (baud float64, timeoutUS int, err error) {
	if e.Prescaler == 0 {
		return 0, 0, ErrPrescalerZero
	}
	baud = (clockHz / float64(e.Prescaler)) / float64(0x10000-int(e.BaudGen))
	timeoutUS = (0x10000 - int(e.Timer0Reload)) * 2
	return baud, timeoutUS, nil
}

// DescribeBaudEntry renders the derived rate and timeout of an entry for
// the value-file comment column.
func DescribeBaudEntry(e eeprom.BaudEntry) string {
	baud, timeoutUS, err := CalcBaudrate(e)
	if err != nil {
		return "Wrong data, Prescaler is 0."
	}
	var timeout string
	if timeoutUS >= 1000 {
		timeout = fmt.Sprintf("%1.3f ms", float64(timeoutUS)/1000)
	} else {
		timeout = fmt.Sprintf("%d us", timeoutUS)
	}
	return fmt.Sprintf("%7.0f Baud, %s", baud, timeout)
}

// ReadBaudInfo parses the value part of a baudrate table line: baud
// generator (hex), timer0 reload (hex) and prescaler (decimal), separated
// by commas. The entry's target rate is the line's key and is left zero
// here.
func ReadBaudInfo(s string) (eeprom.BaudEntry, error) {
	parts := strings.Split(s, ",")
	if len(parts) != 3 {
		return eeprom.BaudEntry{}, errors.New("baudrate info must be three comma-separated items")
	}
	gen, err := strconv.ParseUint(strings.TrimSpace(parts[0]), 16, 16)
	if err != nil {
		return eeprom.BaudEntry{}, errors.New("the first baudrate info must be a hex value")
	}
	timer0, err := strconv.ParseUint(strings.TrimSpace(parts[1]), 16, 16)
	if err != nil {
		return eeprom.BaudEntry{}, errors.New("the second baudrate info must be a hex value")
	}
	prescaler, err := strconv.ParseUint(strings.TrimSpace(parts[2]), 10, 8)
	if err != nil {
		return eeprom.BaudEntry{}, errors.New("the third baudrate info must be a number")
	}
	return eeprom.BaudEntry{
		BaudGen:      uint16(gen),
		Timer0Reload: uint16(timer0),
		Prescaler:    uint8(prescaler),
	}, nil
}
