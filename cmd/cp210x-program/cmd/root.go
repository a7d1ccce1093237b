package cmd

import (
	"os"

	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "cp210x-program",
	Short: "CP210x EEPROM image tool",
	Long: `cp210x-program inspects and edits CP210x configuration EEPROM
images stored as hex record files.

Images are read and written in the checksummed hex record format; field
values use a readable key = value text format that round-trips through
the show and set commands.`,
	SilenceUsage: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
