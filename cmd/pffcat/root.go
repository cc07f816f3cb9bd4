package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/vound-software/libpff-20120802-sub001/internal/config"
)

// Global output flags, matching go-apfs's cmd/root.go split between
// persistent output flags and per-command selection flags.
var (
	verbose bool
	cfg     *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "pffcat",
	Short: "Read-only explorer for Outlook PST/OST/PAB files",
	Long: `pffcat is a read-only command-line tool for exploring Personal Folder
Files (PST, OST, PAB) without Outlook: dump the file header, walk the folder
tree, print an item's decoded properties, or run the recovery scanner over
unallocated space.

Commands:
  header   Print the decoded file header (variant, encryption, codepage)
  tree     Walk the folder/message hierarchy from the root folder
  props    Print an item's decoded property set
  recover  Scan unallocated space for deleted items`,
	Version:       "0.1.0-dev",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose diagnostic output")
}

// Execute runs the root command, loading pffcat-config.yaml (internal/config,
// the same Viper-layering shape as go-apfs's internal/device.LoadDMGConfig)
// once before any subcommand runs.
func Execute() {
	cobra.OnInitialize(func() {
		loaded, err := config.Load()
		if err != nil {
			fmt.Fprintf(os.Stderr, "pffcat: config: %v\n", err)
			os.Exit(1)
		}
		cfg = loaded
	})
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
