// Package properties implements L8 (spec.md §4.8): resolving a (set_index,
// entry_tag) query against a decoded table/heap into a typed Value.
package properties

import (
	"fmt"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
	"golang.org/x/text/encoding/unicode"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
)

// CodepageRegistry maps Windows codepage identifiers to x/text encodings,
// the way other_examples' outlook-msg-parser decodes Outlook property
// strings with golang.org/x/text/encoding + charmap (spec.md §9 "string
// codepage precedence").
type CodepageRegistry struct {
	byCodepage map[int32]encoding.Encoding
}

var _ interfaces.CodepageDecoder = (*CodepageRegistry)(nil)

// NewCodepageRegistry builds the registry with the Windows codepages this
// implementation supports.
func NewCodepageRegistry() *CodepageRegistry {
	return &CodepageRegistry{byCodepage: map[int32]encoding.Encoding{
		1252:  charmap.Windows1252,
		1250:  charmap.Windows1250,
		1251:  charmap.Windows1251,
		1253:  charmap.Windows1253,
		1254:  charmap.Windows1254,
		1255:  charmap.Windows1255,
		1256:  charmap.Windows1256,
		28591: charmap.ISO8859_1,
		932:   japanese.ShiftJIS,
		20127: encoding.Nop, // US-ASCII
	}}
}

// Decode implements interfaces.CodepageDecoder.
func (r *CodepageRegistry) Decode(codepage int32, raw []byte) (string, error) {
	enc, ok := r.byCodepage[codepage]
	if !ok {
		// spec.md §4.8 (d): fall back to the system default, which for an
		// ASCII-oriented format is Windows-1252.
		enc = charmap.Windows1252
	}
	out, err := enc.NewDecoder().Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("properties: decode codepage %d: %w", codepage, err)
	}
	return string(out), nil
}

// DecodeUTF16LE decodes a UTF-16LE byte string (spec.md §4.8 "String
// (Unicode)").
func DecodeUTF16LE(raw []byte) (string, error) {
	dec := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder()
	out, err := dec.Bytes(raw)
	if err != nil {
		return "", fmt.Errorf("properties: decode utf-16le: %w", err)
	}
	return string(out), nil
}

// CodepagePrecedence resolves the effective ASCII codepage for a string
// property per spec.md §4.8 step 5 "String (ASCII)": column hint, else
// message codepage, else file codepage, else system default.
func CodepagePrecedence(columnHint, messageCodepage, fileCodepage int32) int32 {
	if columnHint != 0 {
		return columnHint
	}
	if messageCodepage != 0 {
		return messageCodepage
	}
	if fileCodepage != 0 {
		return fileCodepage
	}
	return 1252
}
