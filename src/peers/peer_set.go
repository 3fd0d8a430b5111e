package peers

//PeerSet is an ordered set of node ids
type PeerSet struct {
	Peers []string       `codec:"peers"`
	ByID  map[string]int `codec:"-"`
}

/* Constructors */

//NewPeerSet creates a new PeerSet from a list of node ids. Duplicates and
//empty ids are dropped; the first occurrence fixes the order.
func NewPeerSet(ids []string) *PeerSet {
	peerSet := &PeerSet{
		Peers: make([]string, 0, len(ids)),
		ByID:  make(map[string]int),
	}

	for _, id := range ids {
		if id == "" {
			continue
		}
		if _, ok := peerSet.ByID[id]; ok {
			continue
		}
		peerSet.ByID[id] = len(peerSet.Peers)
		peerSet.Peers = append(peerSet.Peers, id)
	}

	return peerSet
}

//WithRemovedPeer returns a new PeerSet with a list of peers excluding the
//provided one
func (peerSet *PeerSet) WithRemovedPeer(id string) *PeerSet {
	_, others := ExcludePeer(peerSet.Peers, id)
	return NewPeerSet(others)
}

/* ToSlice Methods */

//IDs returns a copy of the PeerSet's ordered ids
func (peerSet *PeerSet) IDs() []string {
	res := make([]string, len(peerSet.Peers))
	copy(res, peerSet.Peers)
	return res
}

/* Utilities */

//Len returns the number of Peers in the PeerSet
func (peerSet *PeerSet) Len() int {
	return len(peerSet.Peers)
}

// ExcludePeer is used to exclude a single peer from a list of peers. It
// returns the index of the excluded peer, or -1, and the other peers.
func ExcludePeer(peers []string, peer string) (int, []string) {
	index := -1
	otherPeers := make([]string, 0, len(peers))
	for i, p := range peers {
		if p != peer {
			otherPeers = append(otherPeers, p)
		} else {
			index = i
		}
	}
	return index, otherPeers
}
