package gossip

import (
	cm "github.com/mosaicnetworks/murmur/src/common"
)

// InmemStore keeps deltas in memory.
type InmemStore[T any] struct {
	deltas []Delta[T]
	index  map[ID]int
}

// NewInmemStore returns an empty InmemStore.
func NewInmemStore[T any]() *InmemStore[T] {
	return &InmemStore[T]{
		index: make(map[ID]int),
	}
}

// Append implements the Store interface.
func (s *InmemStore[T]) Append(d Delta[T]) error {
	if _, ok := s.index[d.ID]; ok {
		return cm.NewStoreErr("Delta", cm.KeyAlreadyExists, d.ID.String())
	}
	s.index[d.ID] = len(s.deltas)
	s.deltas = append(s.deltas, d)
	return nil
}

// Contains implements the Store interface.
func (s *InmemStore[T]) Contains(id ID) bool {
	_, ok := s.index[id]
	return ok
}

// Get implements the Store interface.
func (s *InmemStore[T]) Get(id ID) (Delta[T], error) {
	i, ok := s.index[id]
	if !ok {
		return Delta[T]{}, cm.NewStoreErr("Delta", cm.KeyNotFound, id.String())
	}
	return s.deltas[i], nil
}

// Deltas implements the Store interface.
func (s *InmemStore[T]) Deltas() []Delta[T] {
	res := make([]Delta[T], len(s.deltas))
	copy(res, s.deltas)
	return res
}

// Len implements the Store interface.
func (s *InmemStore[T]) Len() int {
	return len(s.deltas)
}

// Close implements the Store interface.
func (s *InmemStore[T]) Close() error {
	return nil
}
