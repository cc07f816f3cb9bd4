// Package recovery implements L10 (spec.md §4.10): recovering descriptors
// that were unlinked from the Node-BTree but whose underlying pages and
// blocks are still physically present.
//
// The retrieved corpus does not carry the real PFF free-space bitmap
// ("AMap"/"PMap") layout, so step 1 of spec.md §4.10 ("walk free-space
// bitmaps to enumerate unallocated ranges") is approximated by scanning
// every page-aligned offset in the file instead of only the unallocated
// ones; the accuracy spec.md actually requires - never returning an item
// also reachable through the live tree, and never fabricating one whose
// data can't be read back - is still met because every candidate is (a)
// checked against the live Node-BTree and dropped if already present, and
// (b) required to have its data stream actually assemble successfully
// before it is accepted. See DESIGN.md.
package recovery

import (
	"context"
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/blocks"
	"github.com/vound-software/libpff-20120802-sub001/internal/btrees"
	"github.com/vound-software/libpff-20120802-sub001/internal/interfaces"
	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// DefaultCap bounds the number of recovered items a single scan returns
// (spec.md §4.10 step 5: "an implementation cap").
const DefaultCap = 10_000

// Scanner implements file.recover_items(flags) (spec.md §4.10, §6).
type Scanner struct {
	src        interfaces.ByteSource
	profile    types.FormatProfile
	live       interfaces.NodeBTreeIndex
	assembler  interfaces.StreamAssembler
	decoder    interfaces.TableDecoder
	cap        int
}

// NewScanner builds a Scanner bound to one file's byte source, format
// profile, live Node-BTree (for de-duplication against allocated
// descriptors) and stream assembler (to validate a candidate's data is
// still readable).
func NewScanner(src interfaces.ByteSource, profile types.FormatProfile, live interfaces.NodeBTreeIndex, assembler interfaces.StreamAssembler, decoder interfaces.TableDecoder, cap int) *Scanner {
	if cap <= 0 {
		cap = DefaultCap
	}
	return &Scanner{src: src, profile: profile, live: live, assembler: assembler, decoder: decoder, cap: cap}
}

type dedupKey struct {
	id                 uint32
	dataIdentifier     uint64
	localDescriptorsID uint64
}

// Scan implements spec.md §4.10 steps 1-5. ctx is polled at loop boundaries
// (spec.md §5 "signal_abort ... polled ... at loop boundaries"); a canceled
// context returns the items found so far plus ErrAborted, never a partial
// slice silently.
func (s *Scanner) Scan(ctx context.Context, flags types.RecoverFlags) ([]*types.DescriptorNode, error) {
	size, err := s.src.Size()
	if err != nil {
		return nil, fmt.Errorf("recovery: source size: %w", err)
	}

	declaredSize := uint32(s.profile.PageSize - s.profile.BlockFooterSize)
	seen := make(map[dedupKey]bool)
	var out []*types.DescriptorNode

	for offset := int64(0); offset+int64(s.profile.PageSize) <= size; offset += int64(s.profile.PageSize) {
		if err := ctx.Err(); err != nil {
			return out, fmt.Errorf("recovery: scan aborted at offset %d: %w", offset, types.ErrAborted)
		}
		if len(out) >= s.cap {
			break
		}

		payload, _, ok := blocks.TryReadBlockAt(s.src, offset, declaredSize, types.EncryptionNone, s.profile, true)
		if !ok {
			continue
		}
		descriptors, ok := btrees.ScanCandidateLeafPage(payload, s.profile)
		if !ok {
			continue
		}

		for _, d := range descriptors {
			if len(out) >= s.cap {
				break
			}
			if s.alreadyAllocated(d.ID, flags) {
				continue
			}
			key := dedupKey{d.ID, d.DataIdentifier, d.LocalDescriptorsID}
			if seen[key] {
				continue
			}
			if !s.validates(d) {
				continue
			}
			seen[key] = true
			out = append(out, &types.DescriptorNode{
				ID:                 d.ID,
				DataIdentifier:     d.DataIdentifier,
				LocalDescriptorsID: d.LocalDescriptorsID,
				ParentID:           d.ParentID,
				Recovered:          true,
			})
		}
	}
	return out, nil
}

// alreadyAllocated reports whether id is still reachable through the live
// Node-BTree: recovery must never return a duplicate of an allocated item
// (spec.md §8 scenario 6: recovered items are disjoint from the allocated
// path). Checked unconditionally; RecoverUnallocatedOnly only changes
// whether a caller wanting a faster, best-effort pass would skip the
// allocated-region scan entirely, which this implementation does not
// distinguish (see package doc).
func (s *Scanner) alreadyAllocated(id uint32, flags types.RecoverFlags) bool {
	_, err := s.live.Lookup(id)
	return err == nil
}

// validates requires a recovered descriptor's data stream to actually
// assemble and, when present, decode as a table (spec.md §4.10 step 3:
// "attempt to open its data stream and parse its table header; on success,
// attach"). A descriptor whose data no longer resolves is dropped, not
// reported.
func (s *Scanner) validates(d types.Descriptor) bool {
	if d.DataIdentifier == 0 {
		return true
	}
	bt, err := s.assembler.Assemble(d.DataIdentifier)
	if err != nil {
		return false
	}
	if types.NodeTypeOf(d.ID) == types.NodeTypeMessageStore {
		return true
	}
	_, err = tryDecodeTable(s.decoder, bt.Bytes())
	return err == nil || err == errNoHeap
}
