// Package pff is the public facade (spec.md §6): file_open/file_close and
// the typed item/folder/message/attachment accessors, wiring together every
// layer from the raw ByteSource (L1) up through the item tree builder (L9)
// and recovery scanner (L10).
package pff

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vound-software/libpff-20120802-sub001/internal/blocks"
	"github.com/vound-software/libpff-20120802-sub001/internal/btrees"
	"github.com/vound-software/libpff-20120802-sub001/internal/cache"
	"github.com/vound-software/libpff-20120802-sub001/internal/datastreams"
	"github.com/vound-software/libpff-20120802-sub001/internal/diagnostics"
	"github.com/vound-software/libpff-20120802-sub001/internal/header"
	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/items"
	"github.com/vound-software/libpff-20120802-sub001/internal/localdescriptors"
	"github.com/vound-software/libpff-20120802-sub001/internal/properties"
	"github.com/vound-software/libpff-20120802-sub001/internal/recovery"
	"github.com/vound-software/libpff-20120802-sub001/internal/tables"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// Item, Folder, Message, Attachment and Recipient are the typed item views
// (spec.md §6, §9 supplements #1/#2). The facade re-exports internal/items'
// types directly rather than wrapping each one a second time.
type (
	Item       = items.Item
	Folder     = items.Folder
	Message    = items.Message
	Attachment = items.Attachment
	Recipient  = items.Recipient
)

// ItemType, EntryFlags, RecoverFlags and ValueType are re-exported the same
// way, since every File method that takes or returns one needs the caller
// to spell the same name the core uses.
type (
	ItemType     = types.ItemType
	EntryFlags   = types.EntryFlags
	RecoverFlags = types.RecoverFlags
	ValueType    = types.ValueType
)

// options bundles the tunables internal/config loads for the CLI and a
// library caller can also set directly through Open.
type options struct {
	sizes       cache.Sizes
	sink        diagnostics.Sink
	recoveryCap int
}

// Option configures Open.
type Option func(*options)

// WithCacheSizes overrides the default L11 cache capacities (spec.md §4.11).
func WithCacheSizes(sizes cache.Sizes) Option {
	return func(o *options) { o.sizes = sizes }
}

// WithDiagnostics wires a sink for decode-time diagnostic events (spec.md §9
// "Global mutable state → explicit sink").
func WithDiagnostics(sink diagnostics.Sink) Option {
	return func(o *options) { o.sink = sink }
}

// WithRecoveryCap bounds a later call to RecoverItems (spec.md §4.10 step 5).
func WithRecoveryCap(n int) Option {
	return func(o *options) { o.recoveryCap = n }
}

// File is the root aggregate (spec.md §3 File): immutable post-open except
// for ascii_codepage, which SetASCIICodepage may override, and the
// recovered-item list RecoverItems populates.
type File struct {
	src    interfaces.ByteSource
	closer io.Closer // non-nil only when OpenPath owns the underlying handle

	variant     types.FormatVariant
	contentType types.ContentType
	encryption  types.EncryptionType
	profile     types.FormatProfile
	size        int64

	nodeIndex interfaces.NodeBTreeIndex
	assembler interfaces.StreamAssembler

	builder *items.Builder
	tree    *items.Tree
	scanner *recovery.Scanner
	sink    diagnostics.Sink

	ctx    context.Context
	cancel context.CancelFunc

	mu            sync.RWMutex
	asciiCodepage int32
	recovered     []*types.DescriptorNode
}

// Open assembles every layer (L1-L9) over src and builds the descriptor
// tree, ready for ItemByIdentifier/RootFolder/MessageStore calls (spec.md
// §4.1-§4.9). Cancellation is modeled with a context.Context/CancelFunc pair
// the way the teacher's pkg/app.Context does: SignalAbort cancels it, and
// long-running operations (RecoverItems) poll it at loop boundaries.
func Open(src interfaces.ByteSource, opts ...Option) (*File, error) {
	o := options{sizes: cache.DefaultSizes(), sink: diagnostics.NoopSink{}, recoveryCap: recovery.DefaultCap}
	for _, apply := range opts {
		apply(&o)
	}

	size, err := src.Size()
	if err != nil {
		return nil, fmt.Errorf("pff: source size: %w", err)
	}

	headerLen := types.HeaderSizeUnicode
	if size < int64(headerLen) {
		headerLen = types.HeaderSizeANSI
	}
	headerBytes, err := src.ReadAt(0, headerLen)
	if err != nil {
		return nil, fmt.Errorf("pff: read header: %w", err)
	}
	hr, err := header.NewFileHeaderReader(headerBytes)
	if err != nil {
		return nil, err
	}
	profile := hr.Profile()

	// A B-tree root page's back-pointer is never recorded anywhere but the
	// page itself (spec.md §4.1 only names the root's file offset); root
	// pages are self-referential, so the offset doubles as the expected
	// back-pointer, exactly like a 32-bit branch entry's child pointer does.
	nodeIndex := btrees.NewNodeBTreeIndex(src, hr.RootNodeBTreeOffset(), hr.RootNodeBTreeOffset(), profile)
	blockIndex := btrees.NewBlockBTreeIndex(src, hr.RootBlockBTreeOffset(), hr.RootBlockBTreeOffset(), profile)

	rawBlockReader := blocks.NewReader(src, blockIndex, hr.Encryption(), profile)
	blockReader := cache.NewBlockReader(rawBlockReader, o.sizes.Blocks)

	rawAssembler := datastreams.NewAssembler(blockReader)
	assembler := cache.NewStreamAssembler(rawAssembler, o.sizes.Streams)

	tree, err := items.Build(nodeIndex)
	if err != nil {
		return nil, fmt.Errorf("pff: build item tree: %w", err)
	}

	// The table decoder itself is stateless; internal/items' Builder already
	// wraps every descriptor's decoded table in the L11 table cache keyed by
	// descriptor id (spec.md §4.11), so no second cache wrapper belongs here.
	decoder := tables.NewDecoder()

	nameToID, err := loadNameToIDMap(tree, assembler)
	if err != nil {
		o.sink.Notify(diagnostics.Event{Layer: "L8", Message: "nameidmap unavailable, named properties will not resolve", Fields: map[string]any{"error": err.Error()}})
	}

	materializer := properties.NewMaterializer(nameToID, properties.NewCodepageRegistry(), properties.PassthroughRTFCodec{})
	builder := items.NewBuilder(tree, assembler, decoder, materializer, o.sizes.Tables, hr.AsciiCodepage())

	ctx, cancel := context.WithCancel(context.Background())

	f := &File{
		src:           src,
		variant:       hr.Variant(),
		contentType:   hr.ContentType(),
		encryption:    hr.Encryption(),
		profile:       profile,
		size:          size,
		nodeIndex:     nodeIndex,
		assembler:     assembler,
		builder:       builder,
		tree:          tree,
		sink:          o.sink,
		ctx:           ctx,
		cancel:        cancel,
		asciiCodepage: hr.AsciiCodepage(),
	}
	f.scanner = recovery.NewScanner(src, profile, nodeIndex, assembler, decoder, o.recoveryCap)
	return f, nil
}

// loadNameToIDMap builds the File-wide NameToIdMap from its well-known
// descriptor (spec.md §3 NameToIdMap: "built once at file open"). A file
// with no name-id-map descriptor, or one whose sub-streams are empty, opens
// fine with named-property lookups simply never resolving.
func loadNameToIDMap(tree *items.Tree, assembler interfaces.StreamAssembler) (*properties.NameToIDMap, error) {
	if tree.NameToIDMap == nil {
		return nil, fmt.Errorf("pff: file has no name-id-map descriptor (0x%x): %w", types.DescriptorIDNameToIDMap, types.ErrDescriptorNotFound)
	}
	if tree.NameToIDMap.LocalDescriptorsID == 0 {
		return nil, fmt.Errorf("pff: name-id-map descriptor carries no local-descriptor tree: %w", types.ErrDescriptorNotFound)
	}
	localTree, err := localdescriptors.Load(assembler, tree.NameToIDMap.LocalDescriptorsID)
	if err != nil {
		return nil, err
	}
	return properties.Load(localTree, assembler)
}

// Close releases the underlying ByteSource, if OpenPath opened it, and
// cancels the file's abort context. Idempotent (spec.md §3 File lifecycle
// "Close is idempotent").
func (f *File) Close() error {
	f.cancel()
	if f.closer != nil {
		err := f.closer.Close()
		f.closer = nil
		return err
	}
	return nil
}

// SignalAbort trips the file's cancellation context (spec.md §5
// "signal_abort"). Safe to call concurrently with any other File method;
// an in-flight RecoverItems call observes it at its next loop boundary and
// returns ErrAborted plus whatever it had already found.
func (f *File) SignalAbort() { f.cancel() }

// Size reports the underlying source's byte length (spec.md §6 file.size()).
func (f *File) Size() int64 { return f.size }

// ContentType reports PST/OST/PAB (spec.md §6 file.content_type()).
func (f *File) ContentType() types.ContentType { return f.contentType }

// EncryptionType reports the block-payload obfuscation in effect (spec.md §6
// file.encryption_type()).
func (f *File) EncryptionType() types.EncryptionType { return f.encryption }

// Variant reports the full format/bitness combination decoded from the
// header (spec.md §4.1).
func (f *File) Variant() types.FormatVariant { return f.variant }

// ASCIICodepage returns the file-level ASCII codepage: the header's value,
// or the last value given to SetASCIICodepage (spec.md §6
// file.ascii_codepage()).
func (f *File) ASCIICodepage() int32 {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.asciiCodepage
}

// SetASCIICodepage replaces the value ASCIICodepage reports (spec.md §6
// file.set_ascii_codepage()). It does not change how items decode ASCII
// strings: the item builder keeps the header's codepage captured at Open.
func (f *File) SetASCIICodepage(codepage int32) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.asciiCodepage = codepage
}

// RootItem opens the file's root descriptor as a generic Item (spec.md §3
// File.root_descriptor_id, §6 file.root_item()). For every PFF variant this
// resolves does the message-store descriptor: the one node every other
// reachable descriptor in the file is a transitive child of.
func (f *File) RootItem() (*Item, error) {
	if f.tree.MessageStore == nil {
		return nil, fmt.Errorf("pff: file has no root descriptor (0x%x): %w", types.DescriptorIDMessageStore, types.ErrDescriptorNotFound)
	}
	return f.builder.Open(f.tree.MessageStore.ID)
}

// RootFolder opens the top-level folder a user navigates from (spec.md §6
// file.root_folder()).
func (f *File) RootFolder() (*Folder, error) { return f.builder.RootFolder() }

// MessageStore opens the file's message store (spec.md §6
// file.message_store()).
func (f *File) MessageStore() (*Folder, error) { return f.builder.MessageStore() }

// ItemByIdentifier opens any descriptor by id (spec.md §6
// file.item_by_identifier(id)).
func (f *File) ItemByIdentifier(id uint32) (*Item, error) { return f.builder.Open(id) }

// FolderByIdentifier opens id as a Folder, failing if it does not classify
// as one.
func (f *File) FolderByIdentifier(id uint32) (*Folder, error) { return f.builder.OpenFolder(id) }

// MessageByIdentifier opens id as a Message.
func (f *File) MessageByIdentifier(id uint32) (*Message, error) { return f.builder.OpenMessage(id) }

// AttachmentByIdentifier opens id as an Attachment.
func (f *File) AttachmentByIdentifier(id uint32) (*Attachment, error) {
	return f.builder.OpenAttachment(id)
}

// RecoverItems runs the recovery scanner (L10, spec.md §4.10) over the
// whole file and replaces the file's recovered-item list with whatever it
// finds. Recovered descriptors are also linked into the live tree (so
// ItemByIdentifier can open them directly) but never replace an entry that
// is still reachable through the allocated Node-BTree (spec.md §3 invariant
// 8: recovered and allocated trees never merge).
func (f *File) RecoverItems(flags types.RecoverFlags) (int, error) {
	found, scanErr := f.scanner.Scan(f.ctx, flags)
	f.mu.Lock()
	f.recovered = found
	f.mu.Unlock()
	for _, node := range found {
		f.tree.ByID[node.ID] = node
	}
	if scanErr != nil {
		return len(found), scanErr
	}
	return len(found), nil
}

// NumberOfRecoveredItems reports how many descriptors the most recent
// RecoverItems call found (spec.md §6 file.number_of_recovered_items()).
func (f *File) NumberOfRecoveredItems() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.recovered)
}

// RecoveredItem opens the i-th recovered descriptor from the most recent
// RecoverItems call (spec.md §6 file.recovered_item(i)).
func (f *File) RecoveredItem(i int) (*Item, error) {
	f.mu.RLock()
	defer f.mu.RUnlock()
	if i < 0 || i >= len(f.recovered) {
		return nil, fmt.Errorf("pff: recovered item %d out of range (have %d): %w", i, len(f.recovered), types.ErrPropertyNotPresent)
	}
	return f.builder.OpenNode(f.recovered[i])
}
