package eventbus

import (
	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-nats/v2/pkg/nats"
	"github.com/ThreeDotsLabs/watermill/message"
	nc "github.com/nats-io/nats.go"
)

// watermillUUIDHeader is the header watermill-nats stores the message UUID in.
const watermillUUIDHeader = "_watermill_message_uuid"

// RawJSONMarshaler keeps message bodies as-is on the wire so plain NATS
// publishers and subscribers can share subjects with the sidecar. Metadata
// travels in NATS headers. Messages published without watermill headers get a
// fresh UUID.
type RawJSONMarshaler struct {
	nats.NATSMarshaler
}

var _ nats.MarshalerUnmarshaler = (*RawJSONMarshaler)(nil)

// Unmarshal converts a NATS message into a watermill message.
func (m *RawJSONMarshaler) Unmarshal(natsMsg *nc.Msg) (*message.Message, error) {
	if natsMsg.Header.Get(watermillUUIDHeader) != "" {
		return m.NATSMarshaler.Unmarshal(natsMsg)
	}
	msg := message.NewMessage(watermill.NewUUID(), natsMsg.Data)
	for k := range natsMsg.Header {
		msg.Metadata.Set(k, natsMsg.Header.Get(k))
	}
	return msg, nil
}
