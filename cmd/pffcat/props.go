package main

import (
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

var propsSet int

var propsCmd = &cobra.Command{
	Use:   "props <path> <descriptor-id>",
	Short: "Print an item's decoded property set (spec.md §4.8, §6)",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := openFile(args[0])
		if err != nil {
			return err
		}
		defer f.Close()

		var id uint32
		if _, err := fmt.Sscanf(args[1], "%d", &id); err != nil {
			if _, err := fmt.Sscanf(args[1], "0x%x", &id); err != nil {
				return fmt.Errorf("pffcat: %q is not a valid descriptor id: %w", args[1], err)
			}
		}

		it, err := f.ItemByIdentifier(id)
		if err != nil {
			return err
		}

		fmt.Printf("item %d: type=%s sets=%d entries=%d\n", it.Identifier(), it.Type(), it.NumberOfSets(), it.NumberOfEntries())
		for i := 0; i < it.NumberOfEntries(); i++ {
			info, err := it.EntryType(i)
			if err != nil {
				return err
			}
			propertyID := uint16(info.Tag >> 16)
			v, err := it.Value(propsSet, propertyID, info.ValueType, types.FlagMatchAnyValueType)
			if err != nil {
				fmt.Printf("  0x%04x (type 0x%04x): <%v>\n", propertyID, info.ValueType, err)
				continue
			}
			fmt.Printf("  0x%04x (type 0x%04x): %s\n", propertyID, info.ValueType, formatValue(v))
		}
		return nil
	},
}

func init() {
	propsCmd.Flags().IntVar(&propsSet, "set", 0, "table row index to read (0 for a single-row property-context item)")
	rootCmd.AddCommand(propsCmd)
}

// formatValue renders a Value for display the way a debug dump would,
// without claiming to be the full typed API (spec.md §4.8 typed projectors).
func formatValue(v types.Value) string {
	if v.Type&types.MultiValueFlag != 0 {
		out := make([]string, len(v.Multi))
		for i, inner := range v.Multi {
			out[i] = formatValue(inner)
		}
		return fmt.Sprintf("%v", out)
	}
	switch v.Type {
	case types.ValueTypeBoolean:
		return fmt.Sprintf("%v", v.Bool)
	case types.ValueTypeInteger16:
		return fmt.Sprintf("%d", v.I16)
	case types.ValueTypeInteger32:
		return fmt.Sprintf("%d", v.I32)
	case types.ValueTypeInteger64:
		return fmt.Sprintf("%d", v.I64)
	case types.ValueTypeFloat32:
		return fmt.Sprintf("%g", v.F32)
	case types.ValueTypeFloat64:
		return fmt.Sprintf("%g", v.F64)
	case types.ValueTypeFiletime:
		return v.Time.Format("2006-01-02T15:04:05.999999999Z")
	case types.ValueTypeGUID:
		return hex.EncodeToString(v.GUID[:])
	case types.ValueTypeStringASCII, types.ValueTypeStringUnicode:
		return v.Str
	case types.ValueTypeBinary:
		if len(v.Bin) > 32 {
			return fmt.Sprintf("%s... (%d bytes)", hex.EncodeToString(v.Bin[:32]), len(v.Bin))
		}
		return hex.EncodeToString(v.Bin)
	default:
		return fmt.Sprintf("<unprintable type 0x%04x>", v.Type)
	}
}
