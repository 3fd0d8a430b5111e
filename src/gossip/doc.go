// Package gossip implements anti-entropy replication of append-only values.
//
// Every value introduced anywhere in the network is identified by the node
// that introduced it and a sequence number local to that node. An Engine keeps
// every value it has observed in a Store, and a KnownSet recording, for each
// peer, which ids that peer is believed to have observed.
//
// Gossip
//
// On every tick the engine sends each peer a gossip message with the values
// that peer is not known to have. It does not wait for an acknowledgement
// before sending the same values again on the next tick: a lost gossip or
// gossip_ok heals itself. A node receiving gossip appends the values it did not
// have and answers with gossip_ok, which lists every id it now knows. The
// sender adds those ids to what it knows about the replier.
//
// Merging is idempotent and commutative, so as long as the peer graph stays
// connected and ticks keep coming, every node ends up with the same values in
// its Store, whatever the order of delivery. What a workload reads is a
// projection of the Store: the distinct values for broadcast, their sum for a
// grow-only counter.
//
// Persistence
//
// The Store is append-only and never compacted. InmemStore keeps it in memory;
// BadgerStore also writes every delta to a badger database and replays it when
// the node restarts, after which the engine rebuilds its own knowledge and its
// local sequence from the Store.
package gossip
