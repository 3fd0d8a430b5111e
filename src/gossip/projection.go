package gossip

import (
	"fmt"

	"github.com/mosaicnetworks/murmur/src/message"
	"golang.org/x/exp/constraints"
)

// Projection turns the deltas of a Store into what a workload reads.
type Projection[T, R any] func(deltas []Delta[T]) R

// Read applies p to the deltas of e. It does not modify e.
func Read[T, R any](e *Engine[T], p Projection[T, R]) R {
	return p(e.Deltas())
}

// Collect returns the distinct values of deltas in the order they were first
// seen. Values are compared by their canonical JSON encoding, so any value,
// maps and slices included, can be collected.
func Collect[T any](deltas []Delta[T]) []T {
	seen := make(map[string]struct{}, len(deltas))
	res := make([]T, 0, len(deltas))

	for _, d := range deltas {
		k := canonicalKey(d.Value)
		if _, ok := seen[k]; ok {
			continue
		}
		seen[k] = struct{}{}
		res = append(res, d.Value)
	}

	return res
}

// Number is satisfied by the types a counter can sum.
type Number interface {
	constraints.Integer | constraints.Float
}

// Sum returns the sum of the values of deltas.
func Sum[T Number](deltas []Delta[T]) T {
	var total T
	for _, d := range deltas {
		total += d.Value
	}
	return total
}

func canonicalKey(v interface{}) string {
	b, err := message.Marshal(v)
	if err != nil {
		return fmt.Sprintf("%T:%#v", v, v)
	}
	return string(b)
}
