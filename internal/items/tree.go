// Package items implements L9 (spec.md §4.9): building the descriptor tree
// from Node-BTree leaves and exposing typed folder/message/attachment
// views over it.
package items

import (
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// syntheticRootID is the tree root's synthetic parent (spec.md §4.9 step 3:
// "under a synthetic root (parent_id = 0)"). 0 is never a valid descriptor
// id (the low 5 bits would have to encode a node type and every real
// descriptor has a nonzero id), so it is free to repurpose as the root
// marker.
const syntheticRootID = 0

// Tree is the descriptor hierarchy built from every Node-BTree leaf
// (spec.md §4.9 steps 1-4).
type Tree struct {
	Root *types.DescriptorNode

	// ByID indexes every descriptor node, orphans included, by descriptor
	// id for O(1) lookup.
	ByID map[uint32]*types.DescriptorNode

	// Orphans holds nodes whose parent_id named an unknown descriptor
	// (spec.md §4.9 step 4: "attached to an orphans list, not dropped").
	Orphans []*types.DescriptorNode

	MessageStore *types.DescriptorNode
	RootFolder   *types.DescriptorNode
	NameToIDMap  *types.DescriptorNode
}

// Build enumerates every Node-BTree leaf and links it into a parent_id tree
// (spec.md §4.9 steps 1-5).
func Build(index interfaces.NodeBTreeIndex) (*Tree, error) {
	descriptors, err := index.All()
	if err != nil {
		return nil, fmt.Errorf("items: enumerate node-btree: %w", err)
	}

	t := &Tree{
		Root: &types.DescriptorNode{ID: syntheticRootID},
		ByID: make(map[uint32]*types.DescriptorNode, len(descriptors)),
	}

	for _, d := range descriptors {
		t.ByID[d.ID] = &types.DescriptorNode{
			ID:                 d.ID,
			DataIdentifier:     d.DataIdentifier,
			LocalDescriptorsID: d.LocalDescriptorsID,
			ParentID:           d.ParentID,
		}
	}

	for _, d := range descriptors {
		node := t.ByID[d.ID]
		switch {
		case d.ParentID == syntheticRootID:
			node.Parent = t.Root
			t.Root.Children = append(t.Root.Children, node)
		default:
			parent, ok := t.ByID[d.ParentID]
			if !ok {
				t.Orphans = append(t.Orphans, node)
				continue
			}
			node.Parent = parent
			parent.Children = append(parent.Children, node)
		}

		switch d.ID {
		case types.DescriptorIDMessageStore:
			t.MessageStore = node
		case types.DescriptorIDRootFolder:
			t.RootFolder = node
		case types.DescriptorIDNameToIDMap:
			t.NameToIDMap = node
		}
	}

	return t, nil
}

// Lookup finds a node by descriptor id, including orphans.
func (t *Tree) Lookup(id uint32) (*types.DescriptorNode, bool) {
	n, ok := t.ByID[id]
	return n, ok
}

// SubFolderTableID, SubMessageTableID, and SubAssociatedContentTableID
// compute a folder's well-known sub-table descriptor ids (spec.md §4.9
// step 6: "adding fixed offsets (+11, +12, +13) to the folder's id").
func SubFolderTableID(folderID uint32) uint32            { return folderID + types.SubFolderTableOffset }
func SubMessageTableID(folderID uint32) uint32            { return folderID + types.SubMessageTableOffset }
func SubAssociatedContentTableID(folderID uint32) uint32  { return folderID + types.SubAssociatedContentTableOffset }
