package types

import "sort"

// StreamChunk is one physical block's contribution to an assembled logical
// stream: its decrypted bytes and the absolute offset they start at
// (spec.md §4.4 "a list of (absolute offset in logical stream, underlying
// decrypted block, length)").
type StreamChunk struct {
	Offset uint64
	Data   []byte
}

// BlockTree is the assembled representation of a data stream (spec.md §4.4).
type BlockTree struct {
	TotalSize uint64
	Chunks    []StreamChunk
}

// ReadAt copies length bytes starting at offset out of the assembled
// stream, locating the containing chunk with a binary search over chunk
// start offsets (spec.md §4.4 "random access is O(log child_count)").
func (bt *BlockTree) ReadAt(offset, length uint64) ([]byte, error) {
	if offset+length > bt.TotalSize {
		return nil, ErrBufferTooSmall
	}
	out := make([]byte, 0, length)
	remaining := length
	pos := offset
	for remaining > 0 {
		i := sort.Search(len(bt.Chunks), func(i int) bool {
			return bt.Chunks[i].Offset+uint64(len(bt.Chunks[i].Data)) > pos
		})
		if i >= len(bt.Chunks) {
			return nil, ErrBufferTooSmall
		}
		c := bt.Chunks[i]
		within := pos - c.Offset
		avail := uint64(len(c.Data)) - within
		take := avail
		if take > remaining {
			take = remaining
		}
		out = append(out, c.Data[within:within+take]...)
		pos += take
		remaining -= take
	}
	return out, nil
}

// Bytes concatenates every chunk into one contiguous buffer, for callers
// that want the whole stream (most property values are small).
func (bt *BlockTree) Bytes() []byte {
	out := make([]byte, 0, bt.TotalSize)
	for _, c := range bt.Chunks {
		out = append(out, c.Data...)
	}
	return out
}
