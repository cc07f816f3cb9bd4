package items

import (
	"bytes"
	"fmt"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// Attachment is a typed view over an attachment descriptor (spec.md §6
// attachment.*, §9 supplement #1).
type Attachment struct{ *Item }

// OpenAttachment opens descriptor id as an Attachment.
func (b *Builder) OpenAttachment(id uint32) (*Attachment, error) {
	it, err := b.Open(id)
	if err != nil {
		return nil, err
	}
	if it.kind != types.ItemTypeAttachment {
		return nil, fmt.Errorf("items: descriptor %d is a %s, not an attachment: %w", it.Identifier(), it.kind, types.ErrPropertyNotPresent)
	}
	return &Attachment{Item: it}, nil
}

// Kind reads PidTagAttachMethod (spec.md §9 supplement #1 AttachMethod).
func (a *Attachment) Kind() (uint32, error) {
	v, err := a.Value(0, types.PidTagAttachMethod, types.ValueTypeInteger32, 0)
	return uint32(v.I32), err
}

// Filename prefers PidTagAttachLongFilename over the legacy 8.3
// PidTagAttachFilename (spec.md §9 supplement #1).
func (a *Attachment) Filename() (string, error) {
	if name, err := a.String(0, types.PidTagAttachLongFilename); err == nil {
		return name, nil
	}
	return a.String(0, types.PidTagAttachFilename)
}

// DataSize reads PidTagAttachSize (spec.md §6 attachment.data_size()).
func (a *Attachment) DataSize() (int32, error) { return a.Int32(0, types.PidTagAttachSize) }

// Open resolves PidTagAttachDataBinary's bytes (wherever stored: inline,
// heap, or a sub-node stream) and returns a seekable reader over them
// (spec.md §6 attachment.read()/seek()).
func (a *Attachment) Open() (*bytes.Reader, error) {
	data, err := a.Binary(0, types.PidTagAttachDataBinary)
	if err != nil {
		return nil, err
	}
	return bytes.NewReader(data), nil
}

// EmbeddedMessage opens the attachment's nested message (spec.md §6
// attachment.item(), §9 supplement #1 afEmbeddedMessage). The embedded
// message is the attachment descriptor's single Node-BTree child.
func (a *Attachment) EmbeddedMessage() (*Message, error) {
	for _, child := range a.node.Children {
		if types.NodeTypeOf(child.ID) == types.NodeTypeMessage {
			it, err := a.builder.openNode(child)
			if err != nil {
				return nil, err
			}
			return &Message{Item: it}, nil
		}
	}
	return nil, fmt.Errorf("items: attachment %d has no embedded message: %w", a.Identifier(), types.ErrPropertyNotPresent)
}
