// Package cache persists decoded binary descriptors in a badger store so
// that repeated runs skip class path scanning and class file decoding.
package cache

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/vmihailenco/msgpack/v5"

	"github.com/groovy/groovy-eclipse-sub042/internal/binary"
)

// SchemaVersion is bumped whenever the descriptor layout changes.
const SchemaVersion uint16 = 1

const keyPrefix = "desc:"

func keyFor(name string) []byte {
	return []byte(fmt.Sprintf("%sv%d:%s", keyPrefix, SchemaVersion, name))
}

type record struct {
	Schema uint16             `msgpack:"v"`
	Desc   *binary.Descriptor `msgpack:"d"`
}

// Stats summarizes the store contents.
type Stats struct {
	Entries int
	Bytes   int64
	Stale   int
}

// Store is a badger-backed descriptor store.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) a store in dir. An empty dir opens an in-memory
// store.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	if dir == "" {
		opts = opts.WithInMemory(true)
	}
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open descriptor cache %q: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close flushes and closes the store.
func (s *Store) Close() error {
	return s.db.Close()
}

// Get returns the cached descriptor for a binary name.
func (s *Store) Get(name string) (*binary.Descriptor, bool, error) {
	var rec record
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(keyFor(name))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return msgpack.Unmarshal(val, &rec)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("read cached %s: %w", name, err)
	}
	if rec.Schema != SchemaVersion || rec.Desc == nil {
		return nil, false, nil
	}
	return rec.Desc, true, nil
}

// Put stores one descriptor.
func (s *Store) Put(d *binary.Descriptor) error {
	data, err := msgpack.Marshal(record{Schema: SchemaVersion, Desc: d})
	if err != nil {
		return fmt.Errorf("encode %s: %w", d.Name, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(keyFor(d.Name), data)
	})
	if err != nil {
		return fmt.Errorf("store %s: %w", d.Name, err)
	}
	return nil
}

// PutAll stores descriptors in one write batch.
func (s *Store) PutAll(ds []*binary.Descriptor) error {
	wb := s.db.NewWriteBatch()
	defer wb.Cancel()
	for _, d := range ds {
		data, err := msgpack.Marshal(record{Schema: SchemaVersion, Desc: d})
		if err != nil {
			return fmt.Errorf("encode %s: %w", d.Name, err)
		}
		if err := wb.Set(keyFor(d.Name), data); err != nil {
			return fmt.Errorf("batch %s: %w", d.Name, err)
		}
	}
	if err := wb.Flush(); err != nil {
		return fmt.Errorf("flush descriptor batch: %w", err)
	}
	return nil
}

// Stats counts current-schema entries and entries left by older schemas.
func (s *Store) Stats() (Stats, error) {
	var st Stats
	current := keyFor("")
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		opts.Prefix = []byte(keyPrefix)
		it := txn.NewIterator(opts)
		defer it.Close()
		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			if hasPrefix(item.Key(), current) {
				st.Entries++
				st.Bytes += item.ValueSize()
			} else {
				st.Stale++
			}
		}
		return nil
	})
	if err != nil {
		return Stats{}, fmt.Errorf("scan descriptor cache: %w", err)
	}
	return st, nil
}

// Clear drops every cached descriptor.
func (s *Store) Clear() error {
	if err := s.db.DropPrefix([]byte(keyPrefix)); err != nil {
		return fmt.Errorf("clear descriptor cache: %w", err)
	}
	return nil
}

func hasPrefix(b, prefix []byte) bool {
	return len(b) >= len(prefix) && string(b[:len(prefix)]) == string(prefix)
}
