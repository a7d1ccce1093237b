package cmd

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-cp210x/eeprom"
	"github.com/moffa90/go-cp210x/hexfile"
	"github.com/moffa90/go-cp210x/values"
)

var setFlags struct {
	valuesFile    string
	output        string
	productString string
	serialNumber  string
	vendorID      string
	productID     string
	version       string
	busPowered    bool
	maxPower      int
	lock          bool
}

// setCmd represents the set command
var setCmd = &cobra.Command{
	Use:   "set <image.hex>",
	Short: "Change fields of an EEPROM image",
	Long: `Set applies field values to a hex record image and writes the
updated image back. Values come from a value file (--values), from
flags, or both; a flag wins over the file for the same field.

A partial baudrate table in the value file is merged into the image's
table: each of the 31 request ranges takes the first new entry whose
target rate falls inside it, and untouched slots keep their entries.

Example:
  cp210x-program set eeprom.hex --values custom.txt -o custom.hex
  cp210x-program set eeprom.hex --serial-number 0042`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := hexfile.Parse(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}
		if img.Locked() {
			return fmt.Errorf("image %s is locked and cannot be changed", args[0])
		}

		current, err := img.Snapshot()
		if err != nil {
			return fmt.Errorf("decode image: %w", err)
		}

		updates := eeprom.ValueSet{}
		if setFlags.valuesFile != "" {
			f, err := os.Open(setFlags.valuesFile)
			if err != nil {
				return err
			}
			updates, err = values.Read(f)
			f.Close()
			if err != nil {
				return fmt.Errorf("read values %s: %w", setFlags.valuesFile, err)
			}
		}
		if err := applyFieldFlags(cmd, updates); err != nil {
			return err
		}
		if len(updates) == 0 {
			return fmt.Errorf("nothing to set: give --values or field flags")
		}

		base, _ := current[eeprom.FieldBaudTable].(eeprom.BaudTable)
		if err := img.Apply(values.Update(current, updates, base)); err != nil {
			return err
		}

		output := setFlags.output
		if output == "" {
			output = args[0]
		}
		if err := hexfile.WriteFile(output, img); err != nil {
			return fmt.Errorf("write image: %w", err)
		}
		fmt.Printf("Wrote %s\n", output)
		return nil
	},
}

// applyFieldFlags folds the per-field flags into updates, overriding any
// value-file entry for the same field.
func applyFieldFlags(cmd *cobra.Command, updates eeprom.ValueSet) error {
	flags := cmd.Flags()

	if flags.Changed("product-string") {
		updates[eeprom.FieldProductString] = setFlags.productString
	}
	if flags.Changed("serial-number") {
		updates[eeprom.FieldSerialNumber] = setFlags.serialNumber
	}
	if flags.Changed("vendor-id") {
		id, err := parseID("vendor-id", setFlags.vendorID)
		if err != nil {
			return err
		}
		updates[eeprom.FieldVendorID] = id
	}
	if flags.Changed("product-id") {
		id, err := parseID("product-id", setFlags.productID)
		if err != nil {
			return err
		}
		updates[eeprom.FieldProductID] = id
	}
	if flags.Changed("version") {
		v, err := parseVersion(setFlags.version)
		if err != nil {
			return err
		}
		updates[eeprom.FieldVersion] = v
	}
	if flags.Changed("bus-powered") {
		updates[eeprom.FieldBusPowered] = setFlags.busPowered
	}
	if flags.Changed("max-power") {
		updates[eeprom.FieldMaxPower] = setFlags.maxPower
	}
	if flags.Changed("lock") {
		updates[eeprom.FieldLocked] = setFlags.lock
	}
	return nil
}

// parseID reads a hexadecimal USB ID, with or without an 0x prefix.
func parseID(flag, s string) (uint16, error) {
	raw := strings.TrimPrefix(strings.TrimPrefix(s, "0x"), "0X")
	id, err := strconv.ParseUint(raw, 16, 16)
	if err != nil {
		return 0, fmt.Errorf("--%s: %q is not a 16-bit hex number", flag, s)
	}
	return uint16(id), nil
}

// parseVersion reads a MM.mm version string, e.g. "01.24".
func parseVersion(s string) (eeprom.Version, error) {
	major, minor, ok := strings.Cut(s, ".")
	if !ok {
		return eeprom.Version{}, fmt.Errorf("--version: %q is not in MM.mm form", s)
	}
	ma, err1 := strconv.Atoi(major)
	mi, err2 := strconv.Atoi(minor)
	if err1 != nil || err2 != nil || ma < 0 || ma > 99 || mi < 0 || mi > 99 {
		return eeprom.Version{}, fmt.Errorf("--version: %q is not in MM.mm form", s)
	}
	return eeprom.Version{Major: ma, Minor: mi}, nil
}

func init() {
	rootCmd.AddCommand(setCmd)

	setCmd.Flags().StringVarP(&setFlags.valuesFile, "values", "f", "", "Value file to apply")
	setCmd.Flags().StringVarP(&setFlags.output, "output", "o", "", "Output hex file (default: overwrite the input)")
	setCmd.Flags().StringVar(&setFlags.productString, "product-string", "", "USB product string")
	setCmd.Flags().StringVar(&setFlags.serialNumber, "serial-number", "", "USB serial number")
	setCmd.Flags().StringVar(&setFlags.vendorID, "vendor-id", "", "USB vendor ID (hex, e.g. 10C4)")
	setCmd.Flags().StringVar(&setFlags.productID, "product-id", "", "USB product ID (hex, e.g. EA60)")
	setCmd.Flags().StringVar(&setFlags.version, "version", "", "Device version as MM.mm")
	setCmd.Flags().BoolVar(&setFlags.busPowered, "bus-powered", false, "Device draws power from the bus")
	setCmd.Flags().IntVar(&setFlags.maxPower, "max-power", 0, "Maximum power consumption in mA")
	setCmd.Flags().BoolVar(&setFlags.lock, "lock", false, "Permanently lock the configuration")
}
