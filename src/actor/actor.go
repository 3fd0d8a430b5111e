// Package actor defines the contract between the node runtime and the
// pluggable behaviour it drives.
//
// The runtime calls Init exactly once, then Receive once per event, and never
// two calls at the same time. An actor therefore owns its state outright and
// needs no locks. Events an actor wants to deliver to itself later, such as
// gossip ticks, are pushed into the Inbox it is given at Init and come back
// through Receive like any other message.
package actor

import (
	"github.com/mosaicnetworks/murmur/src/message"
)

// Inbox accepts envelopes for later delivery to the actor. Push never blocks;
// it fails with ErrClosed once the runtime has stopped consuming.
type Inbox interface {
	Push(env message.Envelope) error
}

// Actor is implemented by every kind of node.
type Actor interface {
	// Vocabulary lists the message variants the actor can receive after the
	// initialisation handshake.
	Vocabulary() message.Registry

	// Init assigns the node its identity and the ids of every node of the
	// network. It is called once, before any call to Receive.
	Init(inbox Inbox, self string, peers []string) error

	// Receive handles one envelope and returns the envelopes to transmit, in
	// order. It must not block on I/O.
	Receive(env message.Envelope) ([]message.Envelope, error)
}

// Stater is implemented by actors that can describe their state. The runtime
// calls Stats from the event loop, after each Receive.
type Stater interface {
	Stats() map[string]string
}
