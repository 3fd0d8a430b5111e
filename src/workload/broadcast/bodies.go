package broadcast

import (
	"github.com/mosaicnetworks/murmur/src/gossip"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/peers"
)

// Tags of the broadcast workload.
const (
	TypeTopology    = "topology"
	TypeTopologyOK  = "topology_ok"
	TypeBroadcast   = "broadcast"
	TypeBroadcastOK = "broadcast_ok"
	TypeRead        = "read"
	TypeReadOK      = "read_ok"
)

// Topology tells every node who its neighbours are.
type Topology struct {
	message.Tag
	MsgID    uint64         `codec:"msg_id"`
	Topology peers.Topology `codec:"topology"`
}

// Broadcast introduces Message into the network.
type Broadcast struct {
	message.Tag
	MsgID   uint64      `codec:"msg_id"`
	Message interface{} `codec:"message"`
}

// ReadOK lists every distinct message the node has observed.
type ReadOK struct {
	message.Tag
	InReplyTo uint64        `codec:"in_reply_to"`
	Messages  []interface{} `codec:"messages"`
}

// Vocabulary returns every variant a broadcast node can receive.
func Vocabulary() message.Registry {
	return message.NewRegistry().
		Register(TypeTopology, Topology{}).
		Register(TypeTopologyOK, message.Ack{}).
		Register(TypeBroadcast, Broadcast{}).
		Register(TypeBroadcastOK, message.Ack{}).
		Register(TypeRead, message.Request{}).
		Register(TypeReadOK, ReadOK{}).
		Merge(gossip.Vocabulary[interface{}]())
}
