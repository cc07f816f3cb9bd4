package items

import (
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/cache"
	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/properties"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// tableEntry bundles a descriptor's decoded table together with the
// PropertySource it was decoded against: a HeapRef cell still needs the
// backing heap bytes at property-access time, and types.Table itself keeps
// none of that (spec.md §4.11 "Table cache").
type tableEntry struct {
	table  *types.Table
	source interfaces.PropertySource
}

// Builder materializes Item views over a descriptor Tree, decoding each
// descriptor's own Heap-on-Node/table on first visit and caching the result
// (spec.md §4.9 step 7, §4.11 Table cache).
type Builder struct {
	tree         *Tree
	assembler    interfaces.StreamAssembler
	decoder      interfaces.TableDecoder
	materializer *properties.Materializer
	tables       *cache.Cache[uint32, *tableEntry]
	fileCodepage int32
}

// NewBuilder wires a Builder from the already-assembled tree, stream
// assembler, table decoder and property materializer (spec.md §4.9, §4.11).
func NewBuilder(tree *Tree, assembler interfaces.StreamAssembler, decoder interfaces.TableDecoder, materializer *properties.Materializer, tableCacheCapacity int, fileCodepage int32) *Builder {
	return &Builder{
		tree:         tree,
		assembler:    assembler,
		decoder:      decoder,
		materializer: materializer,
		tables:       cache.New[uint32, *tableEntry](tableCacheCapacity),
		fileCodepage: fileCodepage,
	}
}

// Open builds an Item for the descriptor id, or ErrDescriptorNotFound if no
// such descriptor exists (spec.md §6 item_by_identifier).
func (b *Builder) Open(id uint32) (*Item, error) {
	node, ok := b.tree.Lookup(id)
	if !ok {
		return nil, fmt.Errorf("items: descriptor %d: %w", id, types.ErrDescriptorNotFound)
	}
	return b.openNode(node)
}

// OpenNode builds an Item directly from an already-resolved descriptor
// node, bypassing the tree lookup Open does. Used by the recovery scanner's
// caller (pkg/pff) to open a recovered descriptor that may or may not also
// live in the tree's ByID index.
func (b *Builder) OpenNode(node *types.DescriptorNode) (*Item, error) {
	return b.openNode(node)
}

func (b *Builder) openNode(node *types.DescriptorNode) (*Item, error) {
	entry, err := b.tables.GetOrInsert(node.ID, func() (*tableEntry, error) {
		return b.loadTable(node)
	})
	if err != nil {
		return nil, err
	}
	return &Item{
		builder: b,
		node:    node,
		kind:    b.classify(node),
		table:   entry.table,
		source:  entry.source,
	}, nil
}

func (b *Builder) loadTable(node *types.DescriptorNode) (*tableEntry, error) {
	if node.DataIdentifier == 0 {
		// Navigation-only nodes (the synthetic root, orphans with no payload)
		// still open, they just expose an empty table.
		return &tableEntry{table: &types.Table{}, source: &descriptorSource{assembler: b.assembler, localDescriptorsID: node.LocalDescriptorsID}}, nil
	}

	h, err := loadHeap(b.assembler, node.DataIdentifier)
	if err != nil {
		return nil, err
	}
	table, err := b.decoder.Decode(h)
	if err != nil {
		return nil, fmt.Errorf("items: decode table for descriptor %d: %w", node.ID, err)
	}
	source := &descriptorSource{
		assembler:          b.assembler,
		localDescriptorsID: node.LocalDescriptorsID,
		heapResolver:       h,
	}
	return &tableEntry{table: table, source: source}, nil
}

// classify assigns the item's ItemType from its descriptor node type
// (spec.md §4.9 step 6), consulting the parent folder's container class for
// messages (spec.md §4.9 "message kind").
func (b *Builder) classify(node *types.DescriptorNode) types.ItemType {
	switch node.ID {
	case types.DescriptorIDRootFolder, types.DescriptorIDMessageStore:
		return types.ItemTypeFolder
	}
	switch types.NodeTypeOf(node.ID) {
	case types.NodeTypeFolder, types.NodeTypeMessageStore:
		return types.ItemTypeFolder
	case types.NodeTypeMessage:
		return b.messageKind(node)
	case types.NodeTypeAttachment:
		return types.ItemTypeAttachment
	case types.NodeTypeAttachmentsTable:
		return types.ItemTypeAttachments
	case types.NodeTypeRecipientsTable:
		return types.ItemTypeRecipients
	case types.NodeTypeHierarchyTable:
		return types.ItemTypeSubFolders
	case types.NodeTypeContentsTable:
		return types.ItemTypeSubMessages
	case types.NodeTypeAssociatedContents:
		return types.ItemTypeSubAssociatedContents
	default:
		return types.ItemTypeUnknown
	}
}

// messageKind derives the message's ItemType from its parent folder's
// PidTagContainerClass (spec.md §4.9): the format carries no per-message
// classification of its own.
func (b *Builder) messageKind(node *types.DescriptorNode) types.ItemType {
	parent := node.Parent
	if parent == nil || parent == b.tree.Root {
		return types.ItemTypeEmail
	}
	if types.NodeTypeOf(parent.ID) != types.NodeTypeFolder && types.NodeTypeOf(parent.ID) != types.NodeTypeMessageStore {
		// Not filed directly under a folder (e.g. an embedded message hung
		// off an attachment descriptor): no container class to inherit.
		return types.ItemTypeEmail
	}
	folderItem, err := b.openNode(parent)
	if err != nil {
		return types.ItemTypeEmail
	}
	cc, err := folderItem.String(0, types.PidTagContainerClass)
	if err != nil {
		return types.ItemTypeEmail
	}
	if kind := types.ContainerClassItemType(cc); kind != types.ItemTypeUnknown {
		return kind
	}
	return types.ItemTypeEmail
}
