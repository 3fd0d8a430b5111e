package gossip

import (
	"fmt"
	"sort"
)

// ID identifies a value network-wide: the node that introduced it and a
// sequence number that is only unique on that node. It is encoded as the
// tuple [origin, seq].
type ID struct {
	_struct bool `codec:",toarray"`

	Origin string `codec:"origin"`
	Seq    uint64 `codec:"seq"`
}

// String returns origin/seq.
func (id ID) String() string {
	return fmt.Sprintf("%s/%d", id.Origin, id.Seq)
}

// Less orders ids by origin, then sequence.
func (id ID) Less(other ID) bool {
	if id.Origin != other.Origin {
		return id.Origin < other.Origin
	}
	return id.Seq < other.Seq
}

// SortIDs sorts ids in place.
func SortIDs(ids []ID) {
	sort.Slice(ids, func(i, j int) bool {
		return ids[i].Less(ids[j])
	})
}

// Delta is a value together with its ID, encoded as [[origin, seq], value].
type Delta[T any] struct {
	_struct bool `codec:",toarray"`

	ID    ID `codec:"id"`
	Value T  `codec:"value"`
}
