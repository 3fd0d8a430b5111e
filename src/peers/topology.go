package peers

import "sort"

// Topology maps each node id to the ids of its neighbours, as sent by the
// test harness.
type Topology map[string][]string

// Neighbours returns the PeerSet self should gossip with according to t. The
// second result is false when t does not mention self, in which case the
// returned set is nil. self never belongs to the result.
func (t Topology) Neighbours(self string) (*PeerSet, bool) {
	ids, ok := t[self]
	if !ok {
		return nil, false
	}
	return NewPeerSet(ids).WithRemovedPeer(self), true
}

// Nodes returns every node id the topology mentions, keys and neighbours,
// in first-seen order of the sorted keys.
func (t Topology) Nodes() []string {
	keys := make([]string, 0, len(t))
	for k := range t {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	all := []string{}
	for _, k := range keys {
		all = append(all, k)
		all = append(all, t[k]...)
	}
	return NewPeerSet(all).IDs()
}
