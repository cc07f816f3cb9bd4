package items

import (
	"fmt"
	"time"

	"github.com/vound-software/libpff-20120802-sub001/internal/types"
)

// Message is a typed view over an email, appointment, contact, task, note
// or journal-activity item - anything the parent folder's container class
// classifies as a message (spec.md §4.9 "message kind", §6 message.*).
type Message struct{ *Item }

// OpenMessage opens descriptor id as a Message.
func (b *Builder) OpenMessage(id uint32) (*Message, error) {
	it, err := b.Open(id)
	if err != nil {
		return nil, err
	}
	return asMessage(it)
}

func asMessage(it *Item) (*Message, error) {
	switch it.kind {
	case types.ItemTypeEmail, types.ItemTypeAppointment, types.ItemTypeContact,
		types.ItemTypeTask, types.ItemTypeNote, types.ItemTypeActivity:
		return &Message{Item: it}, nil
	default:
		return nil, fmt.Errorf("items: descriptor %d is a %s, not a message: %w", it.Identifier(), it.kind, types.ErrNotAMessage)
	}
}

// Subject reads PidTagSubject.
func (m *Message) Subject() (string, error) { return m.String(0, types.PidTagSubject) }

// SenderName reads PidTagSenderName.
func (m *Message) SenderName() (string, error) { return m.String(0, types.PidTagSenderName) }

// ClientSubmitTime reads PidTagClientSubmitTime.
func (m *Message) ClientSubmitTime() (time.Time, error) { return m.Filetime(0, types.PidTagClientSubmitTime) }

// DeliveryTime reads PidTagMessageDeliveryTime.
func (m *Message) DeliveryTime() (time.Time, error) { return m.Filetime(0, types.PidTagMessageDeliveryTime) }

// PlainTextBody decodes PidTagBody (spec.md §8 scenario 5).
func (m *Message) PlainTextBody() (string, error) { return m.String(0, types.PidTagBody) }

// HTMLBody reads PidTagHtml as raw bytes (the property stores the page's
// own declared charset, which the caller is expected to honor).
func (m *Message) HTMLBody() ([]byte, error) { return m.Binary(0, types.PidTagHtml) }

// RTFBody reads PidTagRtfCompressed and runs it through the wired RTFCodec
// (spec.md §4.8/§9 "LZFU decompression is a pluggable concern").
func (m *Message) RTFBody() ([]byte, error) {
	compressed, err := m.Binary(0, types.PidTagRtfCompressed)
	if err != nil {
		return nil, err
	}
	return m.builder.materializer.DecompressRTF(compressed)
}

// Attachments enumerates the message's attachment descriptors. Unlike
// sub-folders/sub-messages, attachments are direct Node-BTree children of
// the message itself (parent_id = the message's own descriptor id), not
// reached through a +offset sub-table (spec.md §4.9 "message kind" gives no
// separate attachments table offset; §9 supplement #1).
func (m *Message) Attachments() ([]*Attachment, error) {
	var out []*Attachment
	for _, child := range m.node.Children {
		if types.NodeTypeOf(child.ID) != types.NodeTypeAttachment {
			continue
		}
		it, err := m.builder.openNode(child)
		if err != nil {
			return nil, err
		}
		out = append(out, &Attachment{Item: it})
	}
	return out, nil
}

// Recipients decodes the message's recipients table, hung off the
// message's local-descriptor tree at the well-known sub id
// LocalDescriptorIDRecipients (spec.md §4.5, §9 supplement #2): a real PST
// never gives a recipient its own Node-BTree descriptor.
func (m *Message) Recipients() ([]Recipient, error) {
	return loadRecipients(m.Item)
}
