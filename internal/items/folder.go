package items

import (
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/properties"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// Folder is a typed view over a folder or the message store (spec.md §6
// folder.*).
type Folder struct{ *Item }

// OpenFolder opens descriptor id as a Folder (spec.md §6
// file.item_by_identifier combined with a Folder cast).
func (b *Builder) OpenFolder(id uint32) (*Folder, error) {
	it, err := b.Open(id)
	if err != nil {
		return nil, err
	}
	return asFolder(it)
}

func asFolder(it *Item) (*Folder, error) {
	if it.kind != types.ItemTypeFolder {
		return nil, fmt.Errorf("items: descriptor %d is a %s, not a folder: %w", it.Identifier(), it.kind, types.ErrNotADirectory)
	}
	return &Folder{Item: it}, nil
}

// RootFolder opens the file's root folder (spec.md §6 file.root_folder()).
func (b *Builder) RootFolder() (*Folder, error) {
	if b.tree.RootFolder == nil {
		return nil, fmt.Errorf("items: file has no root folder descriptor (0x%x): %w", types.DescriptorIDRootFolder, types.ErrDescriptorNotFound)
	}
	it, err := b.openNode(b.tree.RootFolder)
	if err != nil {
		return nil, err
	}
	return asFolder(it)
}

// MessageStore opens the file's message store (spec.md §6
// file.message_store()).
func (b *Builder) MessageStore() (*Folder, error) {
	if b.tree.MessageStore == nil {
		return nil, fmt.Errorf("items: file has no message store descriptor (0x%x): %w", types.DescriptorIDMessageStore, types.ErrDescriptorNotFound)
	}
	it, err := b.openNode(b.tree.MessageStore)
	if err != nil {
		return nil, err
	}
	return &Folder{Item: it}, nil
}

// DisplayName reads PidTagDisplayName (spec.md §8 scenario 4).
func (f *Folder) DisplayName() (string, error) { return f.String(0, types.PidTagDisplayName) }

// ContentCount reads PidTagContentCount.
func (f *Folder) ContentCount() (int32, error) { return f.Int32(0, types.PidTagContentCount) }

// ContentUnreadCount reads PidTagContentUnreadCount.
func (f *Folder) ContentUnreadCount() (int32, error) { return f.Int32(0, types.PidTagContentUnreadCount) }

// HasSubfolders reads PidTagSubfolders.
func (f *Folder) HasSubfolders() (bool, error) { return f.Bool(0, types.PidTagSubfolders) }

// SubFolders enumerates the folder's children via the well-known hierarchy
// sub-table descriptor id (spec.md §4.9 step 6, §6 folder.sub_folder(i)).
func (f *Folder) SubFolders() ([]*Folder, error) {
	nodes, err := f.children(SubFolderTableID(f.Identifier()))
	if err != nil {
		return nil, err
	}
	out := make([]*Folder, 0, len(nodes))
	for _, n := range nodes {
		it, err := f.builder.openNode(n)
		if err != nil {
			return nil, err
		}
		sub, err := asFolder(it)
		if err != nil {
			continue // a hierarchy-table child that doesn't classify as a folder is skipped, not fatal
		}
		out = append(out, sub)
	}
	return out, nil
}

// Messages enumerates the folder's contents via the well-known contents
// sub-table descriptor id (spec.md §6 folder.sub_message(i)).
func (f *Folder) Messages() ([]*Message, error) {
	return f.messagesUnder(SubMessageTableID(f.Identifier()))
}

// AssociatedContents enumerates the folder's associated-content messages
// (rules, forms, views) via the +13 sub-table offset (spec.md §4.9 step 6,
// §6 folder.sub_associated_content(i)).
func (f *Folder) AssociatedContents() ([]*Message, error) {
	return f.messagesUnder(SubAssociatedContentTableID(f.Identifier()))
}

func (f *Folder) messagesUnder(tableID uint32) ([]*Message, error) {
	nodes, err := f.children(tableID)
	if err != nil {
		return nil, err
	}
	out := make([]*Message, 0, len(nodes))
	for _, n := range nodes {
		it, err := f.builder.openNode(n)
		if err != nil {
			return nil, err
		}
		msg, err := asMessage(it)
		if err != nil {
			continue
		}
		out = append(out, msg)
	}
	return out, nil
}

// children returns the on-disk children of the well-known sub-table
// descriptor, or nil if the folder never allocated one (an empty
// associated-contents table, for instance).
func (f *Folder) children(tableID uint32) ([]*types.DescriptorNode, error) {
	node, ok := f.builder.tree.Lookup(tableID)
	if !ok {
		return nil, nil
	}
	return node.Children, nil
}

// FindByUTF16Name performs the deterministic left-to-right first-match scan
// spec.md §5 requires, comparing PidTagDisplayName as decoded UTF-16
// against utf16Name exactly - no partial matches (spec.md §8 scenario 4).
func (f *Folder) FindByUTF16Name(utf16Name []byte) (*Folder, error) {
	name, err := properties.DecodeUTF16LE(utf16Name)
	if err != nil {
		return nil, err
	}
	return f.findByName(name)
}

// FindByUTF8Name is the UTF-8 counterpart of FindByUTF16Name.
func (f *Folder) FindByUTF8Name(name []byte) (*Folder, error) {
	return f.findByName(string(name))
}

func (f *Folder) findByName(name string) (*Folder, error) {
	subs, err := f.SubFolders()
	if err != nil {
		return nil, err
	}
	for _, sub := range subs {
		got, err := sub.DisplayName()
		if err != nil {
			continue
		}
		if got == name {
			return sub, nil
		}
	}
	return nil, types.ErrPropertyNotPresent
}
