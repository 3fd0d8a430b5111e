package gossip

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/dgraph-io/badger"
	cm "github.com/mosaicnetworks/murmur/src/common"
	"github.com/mosaicnetworks/murmur/src/message"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	deltaPrefix = "delta"
)

// BadgerStore is a Store backed by a badger database. Reads are served by an
// InmemStore which is kept in sync with the database.
type BadgerStore[T any] struct {
	inmemStore    *InmemStore[T]
	db            *badger.DB
	path          string
	needBootstrap bool
}

//NewBadgerStore creates a brand new Store with a new database
func NewBadgerStore[T any](path string, logger *logrus.Entry) (*BadgerStore[T], error) {
	handle, err := openBadger(path, logger)
	if err != nil {
		return nil, err
	}
	store := &BadgerStore[T]{
		inmemStore: NewInmemStore[T](),
		db:         handle,
		path:       path,
	}
	return store, nil
}

//LoadBadgerStore creates a Store from an existing database and replays every
//persisted delta into memory.
func LoadBadgerStore[T any](path string, logger *logrus.Entry) (*BadgerStore[T], error) {

	if _, err := os.Stat(path); err != nil {
		return nil, err
	}

	handle, err := openBadger(path, logger)
	if err != nil {
		return nil, err
	}
	store := &BadgerStore[T]{
		inmemStore:    NewInmemStore[T](),
		db:            handle,
		path:          path,
		needBootstrap: true,
	}

	deltas, err := store.dbGetDeltas()
	if err != nil {
		handle.Close()
		return nil, err
	}

	for _, d := range deltas {
		if err := store.inmemStore.Append(d); err != nil {
			handle.Close()
			return nil, err
		}
	}

	return store, nil
}

//LoadOrCreateBadgerStore loads the database under path if there is one, and
//creates it otherwise.
func LoadOrCreateBadgerStore[T any](path string, logger *logrus.Entry) (*BadgerStore[T], error) {
	store, err := LoadBadgerStore[T](path, logger)

	if err != nil {
		if !os.IsNotExist(errors.Cause(err)) {
			return nil, err
		}

		store, err = NewBadgerStore[T](path, logger)

		if err != nil {
			return nil, err
		}
	}

	return store, nil
}

func openBadger(path string, logger *logrus.Entry) (*badger.DB, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return nil, err
	}

	opts := badger.DefaultOptions(path).
		WithSyncWrites(false).
		WithTruncate(true)

	if logger != nil {
		opts = opts.WithLogger(logger.WithField("ns", "badger"))
	}

	handle, err := badger.Open(opts)
	if err != nil {
		return nil, errors.Wrapf(err, "opening badger database in %s", path)
	}
	return handle, nil
}

//==============================================================================
//Keys

func deltaKey(index int) []byte {
	return []byte(fmt.Sprintf("%s_%020d", deltaPrefix, index))
}

//==============================================================================
//Implement the Store interface

// Append implements the Store interface. The delta is written to the database
// before it becomes visible in memory.
func (s *BadgerStore[T]) Append(d Delta[T]) error {
	if s.inmemStore.Contains(d.ID) {
		return cm.NewStoreErr("Delta", cm.KeyAlreadyExists, d.ID.String())
	}
	if err := s.dbSetDelta(s.inmemStore.Len(), d); err != nil {
		return err
	}
	return s.inmemStore.Append(d)
}

// Contains implements the Store interface.
func (s *BadgerStore[T]) Contains(id ID) bool {
	return s.inmemStore.Contains(id)
}

// Get implements the Store interface.
func (s *BadgerStore[T]) Get(id ID) (Delta[T], error) {
	return s.inmemStore.Get(id)
}

// Deltas implements the Store interface.
func (s *BadgerStore[T]) Deltas() []Delta[T] {
	return s.inmemStore.Deltas()
}

// Len implements the Store interface.
func (s *BadgerStore[T]) Len() int {
	return s.inmemStore.Len()
}

// Close implements the Store interface.
func (s *BadgerStore[T]) Close() error {
	return s.db.Close()
}

// NeedBootstrap reports whether the Store was loaded from an existing
// database.
func (s *BadgerStore[T]) NeedBootstrap() bool {
	return s.needBootstrap
}

// StorePath returns the directory of the database.
func (s *BadgerStore[T]) StorePath() string {
	return s.path
}

//==============================================================================
//DB Methods

func (s *BadgerStore[T]) dbSetDelta(index int, d Delta[T]) error {
	val, err := message.Marshal(d)
	if err != nil {
		return err
	}
	return s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(deltaKey(index), val)
	})
}

func (s *BadgerStore[T]) dbGetDeltas() ([]Delta[T], error) {
	res := []Delta[T]{}
	prefix := []byte(deltaPrefix + "_")

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			item := it.Item()

			val, err := item.ValueCopy(nil)
			if err != nil {
				return err
			}

			var d Delta[T]
			if err := message.Unmarshal(val, &d); err != nil {
				return cm.NewStoreErr("Delta", cm.Corrupted, string(item.Key()))
			}

			res = append(res, d)
		}
		return nil
	})

	return res, err
}
