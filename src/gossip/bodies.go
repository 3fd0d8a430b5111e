package gossip

import (
	"github.com/mosaicnetworks/murmur/src/message"
)

// Tags of the gossip messages. A tick is only ever sent by a node to itself.
const (
	TypeGossip     = "gossip"
	TypeGossipOK   = "gossip_ok"
	TypeGossipTick = "gossip_tick"
)

// Gossip carries deltas the recipient is not known to have.
type Gossip[T any] struct {
	message.Tag
	Payload Batch[T] `codec:"payload"`
}

// GossipOK lists every id the sender has observed.
type GossipOK struct {
	message.Tag
	Seen []ID `codec:"seen"`
}

// Tick triggers a round of gossip.
type Tick struct {
	message.Tag
}

// NewGossip returns a Gossip body.
func NewGossip[T any](deltas []Delta[T]) Gossip[T] {
	return Gossip[T]{
		Tag:     message.Tag{Type: TypeGossip},
		Payload: NewBatch(deltas),
	}
}

// NewGossipOK returns a GossipOK body.
func NewGossipOK(seen []ID) GossipOK {
	if seen == nil {
		seen = []ID{}
	}
	return GossipOK{
		Tag:  message.Tag{Type: TypeGossipOK},
		Seen: seen,
	}
}

// NewTick returns a Tick body.
func NewTick() Tick {
	return Tick{Tag: message.Tag{Type: TypeGossipTick}}
}

// Vocabulary returns the gossip variants for values of type T.
func Vocabulary[T any]() message.Registry {
	return message.NewRegistry().
		Register(TypeGossip, Gossip[T]{}).
		Register(TypeGossipOK, GossipOK{}).
		Register(TypeGossipTick, Tick{})
}
