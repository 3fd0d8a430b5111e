package gossip

import (
	"strconv"
	"time"

	multierror "github.com/hashicorp/go-multierror"
	"github.com/mosaicnetworks/murmur/src/actor"
	cm "github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/mosaicnetworks/murmur/src/node"
	"github.com/mosaicnetworks/murmur/src/peers"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Engine replicates values of type T with its peers. It is not safe for
// concurrent use: it is meant to live inside an actor, and be driven by the
// runtime's event loop only.
type Engine[T any] struct {
	self  string
	peers *peers.PeerSet
	seq   uint64

	store Store[T]
	known *KnownSet

	ticker *node.Ticker

	logger *logrus.Entry
}

// NewEngine returns an Engine keeping its deltas in store.
func NewEngine[T any](store Store[T], logger *logrus.Entry) *Engine[T] {
	if logger == nil {
		logger = logrus.New().WithField("prefix", "gossip")
	}
	return &Engine[T]{
		peers:  peers.NewPeerSet(nil),
		store:  store,
		known:  NewKnownSet(),
		logger: logger,
	}
}

// Init sets the identity of the local node and the nodes to gossip with. ids
// may include self, which is left out. Deltas already in the Store, such as
// those replayed from a database, count as observed by the local node, and the
// local sequence resumes after the highest one the local node issued.
func (e *Engine[T]) Init(self string, ids []string) error {
	if self == "" {
		return errors.New("empty node id")
	}

	e.self = self
	e.peers = peers.NewPeerSet(ids).WithRemovedPeer(self)
	e.logger = e.logger.WithField("this_id", self)

	for _, d := range e.store.Deltas() {
		e.known.Add(self, d.ID)
		if d.ID.Origin == self && d.ID.Seq > e.seq {
			e.seq = d.ID.Seq
		}
	}

	e.logger.WithFields(logrus.Fields{
		"peers":  e.peers.IDs(),
		"deltas": e.store.Len(),
		"seq":    e.seq,
	}).Debug("Init")

	return nil
}

// Self returns the id of the local node.
func (e *Engine[T]) Self() string {
	return e.self
}

// Peers returns the nodes the engine gossips with.
func (e *Engine[T]) Peers() []string {
	return e.peers.IDs()
}

// SetPeers replaces the nodes the engine gossips with. What is known about
// former peers is kept.
func (e *Engine[T]) SetPeers(ids []string) {
	e.peers = peers.NewPeerSet(ids).WithRemovedPeer(e.self)
	e.logger.WithField("peers", e.peers.IDs()).Debug("SetPeers")
}

// StartGossip starts a goroutine which, every interval, pushes a tick into
// inbox. It stops by itself once the inbox is closed.
func (e *Engine[T]) StartGossip(inbox actor.Inbox, interval time.Duration) {
	self := e.self
	e.ticker = node.NewTicker(interval, inbox, func() message.Envelope {
		return message.Envelope{Src: self, Dest: self, Body: NewTick()}
	}, e.logger)
	go e.ticker.Run()
}

// StopGossip stops the goroutine started by StartGossip and waits for it to
// return.
func (e *Engine[T]) StopGossip() {
	if e.ticker != nil {
		e.ticker.Shutdown()
		<-e.ticker.Done()
	}
}

// Add introduces a new value on behalf of the local node and returns its ID.
func (e *Engine[T]) Add(v T) (ID, error) {
	if e.self == "" {
		return ID{}, errors.New("engine not initialised")
	}

	id := ID{Origin: e.self, Seq: e.seq + 1}

	if err := e.store.Append(Delta[T]{ID: id, Value: v}); err != nil {
		return ID{}, errors.Wrapf(err, "adding %s", id)
	}

	e.seq = id.Seq
	e.known.Add(e.self, id)

	return id, nil
}

// Tick returns one gossip envelope for every peer not known to have observed
// every delta in the Store. Deltas are listed in Store order.
func (e *Engine[T]) Tick() []message.Envelope {
	deltas := e.store.Deltas()
	out := []message.Envelope{}

	for _, p := range e.peers.Peers {
		unsent := []Delta[T]{}
		for _, d := range deltas {
			if !e.known.Contains(p, d.ID) {
				unsent = append(unsent, d)
			}
		}

		if len(unsent) == 0 {
			continue
		}

		out = append(out, message.Envelope{
			Src:  e.self,
			Dest: p,
			Body: NewGossip(unsent),
		})
	}

	if len(out) > 0 {
		e.logger.WithField("messages", len(out)).Debug("Tick")
	}

	return out
}

// Merge appends the deltas of batch that are not in the Store yet and returns
// the GossipOK to send back to from, along with the number of new deltas.
// Deltas that failed to decode were already left out of batch; they, and any
// delta that could not be appended, are reported in the returned error, which
// does not prevent the other deltas from being merged.
func (e *Engine[T]) Merge(from string, batch Batch[T]) (GossipOK, int, error) {
	var errs []error
	if err := batch.Err(); err != nil {
		errs = append(errs, err)
	}

	added := 0
	for _, d := range batch.Deltas {
		// from has obviously observed what it sends
		e.known.Add(from, d.ID)

		if e.store.Contains(d.ID) {
			continue
		}

		if err := e.store.Append(d); err != nil {
			if !cm.IsStore(err, cm.KeyAlreadyExists) {
				errs = append(errs, errors.Wrapf(err, "merging %s", d.ID))
			}
			continue
		}

		e.known.Add(e.self, d.ID)
		added++
	}

	if added > 0 {
		e.logger.WithFields(logrus.Fields{
			"from":  from,
			"added": added,
			"total": e.store.Len(),
		}).Debug("Merge")
	}

	return NewGossipOK(e.known.IDs(e.self)), added, combine(errs)
}

// Acknowledge records that from has observed every id in seen.
func (e *Engine[T]) Acknowledge(from string, seen []ID) int {
	return e.known.Add(from, seen...)
}

// Handle processes the gossip messages of env. The second result is false if
// env is not a gossip message, in which case the caller should handle it.
func (e *Engine[T]) Handle(env message.Envelope) ([]message.Envelope, bool, error) {
	switch body := env.Body.(type) {
	case Tick:
		if !env.IsLoopback() || env.Src != e.self {
			return nil, true, actor.Unsupported(body.Kind(), env.Src)
		}
		return e.Tick(), true, nil
	case Gossip[T]:
		ok, _, err := e.Merge(env.Src, body.Payload)
		if err != nil {
			e.logger.WithError(err).WithField("from", env.Src).Warn("Skipped gossip items")
		}
		return []message.Envelope{message.Reply(env, ok)}, true, nil
	case GossipOK:
		e.Acknowledge(env.Src, body.Seen)
		return nil, true, nil
	}
	return nil, false, nil
}

// Deltas returns every delta of the Store, in Store order.
func (e *Engine[T]) Deltas() []Delta[T] {
	return e.store.Deltas()
}

// KnownIDs returns the ids peer is known to have observed.
func (e *Engine[T]) KnownIDs(peer string) []ID {
	return e.known.IDs(peer)
}

// Stats describes the state of the engine.
func (e *Engine[T]) Stats() map[string]string {
	s := map[string]string{
		"deltas": strconv.Itoa(e.store.Len()),
		"seq":    strconv.FormatUint(e.seq, 10),
		"peers":  strconv.Itoa(e.peers.Len()),
	}
	for _, p := range e.peers.Peers {
		s["known."+p] = strconv.Itoa(e.known.Len(p))
	}
	return s
}

// Close releases the Store.
func (e *Engine[T]) Close() error {
	e.StopGossip()
	return e.store.Close()
}

func combine(errs []error) error {
	if len(errs) == 0 {
		return nil
	}
	return multierror.Append(nil, errs...).ErrorOrNil()
}
