package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vound-software/libpff-20120802-sub001/pkg/pff"
)

var (
	treeMaxDepth   int
	treeShowRecips bool
)

var treeCmd = &cobra.Command{
	Use:   "tree <path>",
	Short: "Walk the folder/message hierarchy from the root folder (spec.md §4.9, §6)",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		root, err := f.RootFolder()
		if err != nil {
			return err
		}
		return printFolder(root, 0)
	},
}

func init() {
	treeCmd.Flags().IntVar(&treeMaxDepth, "depth", 8, "maximum folder nesting depth to walk")
	treeCmd.Flags().BoolVar(&treeShowRecips, "recipients", false, "print each message's recipients table (spec.md §9 supplement #2)")
	rootCmd.AddCommand(treeCmd)
}

func printFolder(folder *pff.Folder, depth int) error {
	indent := strings.Repeat("  ", depth)
	name, err := folder.DisplayName()
	if err != nil {
		name = fmt.Sprintf("(unnamed, id=%d)", folder.Identifier())
	}
	fmt.Printf("%s%s/ [%d]\n", indent, name, folder.Identifier())

	if depth >= treeMaxDepth {
		return nil
	}

	messages, err := folder.Messages()
	if err != nil {
		return err
	}
	for _, m := range messages {
		subject, err := m.Subject()
		if err != nil {
			subject = "(no subject)"
		}
		fmt.Printf("%s  - %s [%d] (%s)\n", indent, subject, m.Identifier(), m.Type())
		if treeShowRecips {
			recipients, err := m.Recipients()
			if err != nil {
				continue
			}
			for _, r := range recipients {
				fmt.Printf("%s      to: %s <%s>\n", indent, r.DisplayName, r.EmailAddress)
			}
		}
	}

	subs, err := folder.SubFolders()
	if err != nil {
		return err
	}
	for _, sub := range subs {
		if err := printFolder(sub, depth+1); err != nil {
			return err
		}
	}
	return nil
}
