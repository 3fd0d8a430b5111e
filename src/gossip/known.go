package gossip

// KnownSet records, for each peer, the ids that peer is believed to have
// observed. Sets only grow: there is no way to remove an id.
type KnownSet struct {
	byPeer map[string]map[ID]struct{}
}

// NewKnownSet returns an empty KnownSet.
func NewKnownSet() *KnownSet {
	return &KnownSet{
		byPeer: make(map[string]map[ID]struct{}),
	}
}

// Add records that peer has observed ids and returns how many of them were
// not recorded yet.
func (k *KnownSet) Add(peer string, ids ...ID) int {
	set, ok := k.byPeer[peer]
	if !ok {
		set = make(map[ID]struct{}, len(ids))
		k.byPeer[peer] = set
	}

	added := 0
	for _, id := range ids {
		if _, ok := set[id]; !ok {
			set[id] = struct{}{}
			added++
		}
	}
	return added
}

// Contains reports whether peer is known to have observed id.
func (k *KnownSet) Contains(peer string, id ID) bool {
	_, ok := k.byPeer[peer][id]
	return ok
}

// Len returns the number of ids peer is known to have observed.
func (k *KnownSet) Len(peer string) int {
	return len(k.byPeer[peer])
}

// IDs returns the ids peer is known to have observed, sorted.
func (k *KnownSet) IDs(peer string) []ID {
	set := k.byPeer[peer]
	ids := make([]ID, 0, len(set))
	for id := range set {
		ids = append(ids, id)
	}
	SortIDs(ids)
	return ids
}
