package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

var recoverUnallocatedOnly bool

var recoverCmd = &cobra.Command{
	Use:   "recover <path>",
	Short: "Scan unallocated space for deleted items (spec.md §4.10, §6)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var flags types.RecoverFlags
		if recoverUnallocatedOnly {
			flags |= types.RecoverUnallocatedOnly
		}

		n, err := f.RecoverItems(flags)
		if err != nil {
			fmt.Printf("recovery stopped early after %d items: %v\n", n, err)
		}
		fmt.Printf("recovered %d item(s)\n", f.NumberOfRecoveredItems())
		for i := 0; i < f.NumberOfRecoveredItems(); i++ {
			it, err := f.RecoveredItem(i)
			if err != nil {
				continue
			}
			fmt.Printf("  id=%d type=%s recovered=%v\n", it.Identifier(), it.Type(), it.Recovered())
		}
		return nil
	},
}

func init() {
	recoverCmd.Flags().BoolVar(&recoverUnallocatedOnly, "unallocated-only", false, "skip allocated regions while scanning (spec.md §6 RecoverUnallocatedOnly)")
	rootCmd.AddCommand(recoverCmd)
}
