package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/moffa90/go-cp210x/hexfile"
	"github.com/moffa90/go-cp210x/values"
)

// showCmd represents the show command
var showCmd = &cobra.Command{
	Use:   "show <image.hex>",
	Short: "Print the fields of an EEPROM image",
	Long: `Show decodes every configuration field of a hex record image and
prints it as key = value text, the same format the set command accepts.

Example:
  cp210x-program show eeprom.hex`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		img, err := hexfile.Parse(args[0])
		if err != nil {
			return fmt.Errorf("read image: %w", err)
		}

		vs, err := img.Snapshot()
		if err != nil {
			return fmt.Errorf("decode image: %w", err)
		}

		return values.Write(os.Stdout, vs)
	},
}

func init() {
	rootCmd.AddCommand(showCmd)
}
