// Package node implements the runtime that drives an actor.
//
// A Node reads envelopes from a line-oriented transport, one JSON envelope per
// line, usually the standard input of the process, and writes the envelopes
// produced by its actor to another, usually the standard output. Logs never go
// to that stream.
//
// Lifecycle
//
// A Node starts Uninitialized. Init blocks until the first line arrives, which
// must be an init message assigning the node its id and listing the ids of
// every node of the network. The actor is initialised with them and the node
// replies init_ok. A failed handshake is fatal: there is no retry.
//
// Once Running, two producers feed a single unbounded Queue: a reader goroutine
// decoding lines from the transport, and the actor itself, through the Inbox it
// was given at initialisation, typically with a Ticker pushing periodic
// self-addressed events. One loop pops envelopes one at a time, hands them to
// the actor and writes whatever the actor returns, in order. The actor's state
// is therefore only ever touched by that loop and needs no locking.
//
// Lines that cannot be decoded, and messages the actor fails to handle, are
// logged and dropped; they never stop the loop. When the transport is closed
// the reader closes the Queue, the loop drains it and the node is Shutdown.
// Tickers notice on their next push and exit.
package node
