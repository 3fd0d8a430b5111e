// Package gcounter implements a grow-only counter. Every add is a delta
// replicated by the gossip engine, and the value of the counter is the sum of
// the deltas a node has observed.
package gcounter

import (
	"strconv"
	"time"

	"github.com/mosaicnetworks/murmur/src/actor"
	"github.com/mosaicnetworks/murmur/src/gossip"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Tags of the g-counter workload.
const (
	TypeAdd    = "add"
	TypeAddOK  = "add_ok"
	TypeRead   = "read"
	TypeReadOK = "read_ok"
)

// Add increments the counter by Delta.
type Add struct {
	message.Tag
	MsgID uint64 `codec:"msg_id"`
	Delta int64  `codec:"delta"`
}

// ReadOK carries the value of the counter.
type ReadOK struct {
	message.Tag
	InReplyTo uint64 `codec:"in_reply_to"`
	Value     int64  `codec:"value"`
}

// Vocabulary returns every variant a g-counter node can receive.
func Vocabulary() message.Registry {
	return message.NewRegistry().
		Register(TypeAdd, Add{}).
		Register(TypeAddOK, message.Ack{}).
		Register(TypeRead, message.Request{}).
		Register(TypeReadOK, ReadOK{}).
		Merge(gossip.Vocabulary[int64]())
}

// Actor is the g-counter actor.
type Actor struct {
	engine   *gossip.Engine[int64]
	interval time.Duration
	logger   *logrus.Entry
}

// New returns a g-counter Actor keeping its deltas in store and gossiping
// every interval. A zero interval disables the gossip timer.
func New(store gossip.Store[int64], interval time.Duration, logger *logrus.Entry) *Actor {
	return &Actor{
		engine:   gossip.NewEngine(store, logger.WithField("workload", "g-counter")),
		interval: interval,
		logger:   logger,
	}
}

// Vocabulary implements actor.Actor.
func (a *Actor) Vocabulary() message.Registry {
	return Vocabulary()
}

// Init implements actor.Actor.
func (a *Actor) Init(inbox actor.Inbox, self string, peers []string) error {
	if err := a.engine.Init(self, peers); err != nil {
		return err
	}
	if a.interval > 0 {
		a.engine.StartGossip(inbox, a.interval)
	}
	return nil
}

// Receive implements actor.Actor. A negative delta is refused and left
// unanswered.
func (a *Actor) Receive(env message.Envelope) ([]message.Envelope, error) {
	if out, ok, err := a.engine.Handle(env); ok {
		return out, err
	}

	switch body := env.Body.(type) {
	case Add:
		if body.Delta < 0 {
			return nil, errors.Errorf("negative delta %d from %s", body.Delta, env.Src)
		}
		if _, err := a.engine.Add(body.Delta); err != nil {
			return nil, err
		}
		return []message.Envelope{
			message.Reply(env, message.NewAck(TypeAddOK, body.MsgID)),
		}, nil
	case message.Request:
		return []message.Envelope{
			message.Reply(env, ReadOK{
				Tag:       message.Tag{Type: TypeReadOK},
				InReplyTo: body.MsgID,
				Value:     a.Value(),
			}),
		}, nil
	case message.Ack, ReadOK:
		return nil, nil
	}

	return nil, actor.Unsupported(env.Kind(), env.Src)
}

// Value returns the sum of the deltas observed so far.
func (a *Actor) Value() int64 {
	return gossip.Read(a.engine, gossip.Sum[int64])
}

// Stats implements actor.Stater.
func (a *Actor) Stats() map[string]string {
	s := a.engine.Stats()
	s["value"] = strconv.FormatInt(a.Value(), 10)
	return s
}

// Close stops gossiping and releases the store.
func (a *Actor) Close() error {
	return a.engine.Close()
}
