// Package broadcast implements an actor replicating arbitrary values to every
// node of the network. Values are introduced with broadcast, spread by the
// gossip engine, and listed with read.
package broadcast

import (
	"time"

	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/gossip"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/sirupsen/logrus"
)

// Actor is the broadcast actor.
type Actor struct {
	engine   *gossip.Engine[interface{}]
	interval time.Duration
	logger   *logrus.Entry
}

// New returns a broadcast Actor keeping its values in store and gossiping
// every interval. A zero interval disables the gossip timer; ticks must then
// be delivered by the caller.
func New(store gossip.Store[interface{}], interval time.Duration, logger *logrus.Entry) *Actor {
	return &Actor{
		engine:   gossip.NewEngine(store, logger.WithField("workload", "broadcast")),
		interval: interval,
		logger:   logger,
	}
}

// Vocabulary implements actor.Actor.
func (a *Actor) Vocabulary() message.Registry {
	return Vocabulary()
}

// Init implements actor.Actor. Until a topology message says otherwise, the
// node gossips with every other node.
func (a *Actor) Init(inbox actor.Inbox, self string, peers []string) error {
	if err := a.engine.Init(self, peers); err != nil {
		return err
	}
	if a.interval > 0 {
		a.engine.StartGossip(inbox, a.interval)
	}
	return nil
}

// Receive implements actor.Actor.
func (a *Actor) Receive(env message.Envelope) ([]message.Envelope, error) {
	if out, ok, err := a.engine.Handle(env); ok {
		return out, err
	}

	switch body := env.Body.(type) {
	case Topology:
		a.setTopology(body)
		return []message.Envelope{
			message.Reply(env, message.NewAck(TypeTopologyOK, body.MsgID)),
		}, nil
	case Broadcast:
		if _, err := a.engine.Add(body.Message); err != nil {
			return nil, err
		}
		return []message.Envelope{
			message.Reply(env, message.NewAck(TypeBroadcastOK, body.MsgID)),
		}, nil
	case message.Request:
		return []message.Envelope{
			message.Reply(env, ReadOK{
				Tag:       message.Tag{Type: TypeReadOK},
				InReplyTo: body.MsgID,
				Messages:  a.Messages(),
			}),
		}, nil
	case message.Ack, ReadOK:
		return nil, nil
	}

	return nil, actor.Unsupported(env.Kind(), env.Src)
}

// Messages returns the distinct values observed so far.
func (a *Actor) Messages() []interface{} {
	return gossip.Read(a.engine, gossip.Collect[interface{}])
}

// Peers returns the nodes the actor gossips with.
func (a *Actor) Peers() []string {
	return a.engine.Peers()
}

// Stats implements actor.Stater.
func (a *Actor) Stats() map[string]string {
	return a.engine.Stats()
}

// Close stops gossiping and releases the store.
func (a *Actor) Close() error {
	return a.engine.Close()
}

func (a *Actor) setTopology(body Topology) {
	neighbours, ok := body.Topology.Neighbours(a.engine.Self())
	if !ok {
		a.logger.WithField("nodes", body.Topology.Nodes()).
			Warn("Topology does not mention this node, keeping current peers")
		return
	}
	a.engine.SetPeers(neighbours.IDs())
}
