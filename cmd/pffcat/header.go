package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var headerCmd = &cobra.Command{
	Use:   "header <path>",
	Short: "Print the decoded file header (spec.md §4.1, §6)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		fmt.Printf("variant:          %s\n", f.Variant())
		fmt.Printf("content type:     %s\n", f.ContentType())
		fmt.Printf("encryption:       %s\n", f.EncryptionType())
		fmt.Printf("ascii codepage:   %d\n", f.ASCIICodepage())
		fmt.Printf("size:             %d bytes\n", f.Size())
		return nil
	},
}

func init() {
	rootCmd.AddCommand(headerCmd)
}
