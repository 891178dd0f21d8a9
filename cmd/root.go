// Package cmd provides the command-line interface for rbdb, a reader for
// the binary files Rekordbox writes to a USB/SD export: export.pdb, the
// per-track ANLZ analysis files, and the *SETTING.DAT device preference
// files.
package cmd

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/rbtoolkit/rbdb/internal/rblog"
)

var verbose bool

// rootCmd represents the base command when called without any subcommands.
var rootCmd = &cobra.Command{
	Use:   "rbdb",
	Short: "Inspect Rekordbox export.pdb, ANLZ and setting files",
	Long: `rbdb reads the binary files Rekordbox writes when exporting a
library to a USB/SD device for CDJ/XDJ hardware: the paged export.pdb
database, the per-track ANLZ analysis files, and the *SETTING.DAT device
preference files.

Examples:
  rbdb dump-pdb /Volumes/DJSTICK/PIONEER/rekordbox/export.pdb
  rbdb dump-anlz /Volumes/DJSTICK/PIONEER/USBANLZ/P001/ANLZ0000.DAT
  rbdb dump-setting /Volumes/DJSTICK/PIONEER/MYSETTING.DAT
  rbdb list-playlists /Volumes/DJSTICK/PIONEER/rekordbox/export.pdb

Use 'rbdb [command] --help' for more information about a command.`,
}

// Execute adds all child commands to the root command and runs it. This is
// called by main.main() and is the entry point for command execution.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
	cobra.OnInitialize(func() {
		rblog.SetVerbose(verbose)
	})
}
