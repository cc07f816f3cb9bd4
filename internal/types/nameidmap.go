package types

import "github.com/google/uuid"

// NamedPropertyKey identifies a named property either by a 32-bit numeric
// name or a UTF-16 string name, scoped to a namespace GUID (spec.md §3
// NameToIdMap).
type NamedPropertyKey struct {
	Namespace  uuid.UUID
	NumericName uint32
	StringName  string
	IsString    bool
}

// Well-known named-property namespace GUIDs (PS_MAPI, PS_PUBLIC_STRINGS,
// ...), reproduced byte-for-byte as MS-OXPROPS defines them.
var (
	NamespacePublicStrings = uuid.MustParse("00020329-0000-0000-c000-000000000046")
	NamespaceCommon        = uuid.MustParse("00062008-0000-0000-c000-000000000046")
	NamespaceAddress       = uuid.MustParse("00062004-0000-0000-c000-000000000046")
	NamespaceInternetHeaders = uuid.MustParse("00020386-0000-0000-c000-000000000046")
)

// Flags for property lookups (spec.md §6 "Flags").
type EntryFlags uint32

const (
	FlagIgnoreNameToIdMap EntryFlags = 1 << iota
	FlagMatchAnyValueType
)

// RecoverFlags configures file.recover_items (spec.md §6).
type RecoverFlags uint32

const (
	RecoverUnallocatedOnly RecoverFlags = 1 << iota
)
