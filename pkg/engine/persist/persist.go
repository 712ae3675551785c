// Package persist gives a search.TranspositionTable optional durability across engine
// restarts, backed by Badger. It is opt-in: an engine that never calls Open keeps the
// in-memory-only table from spec §4.5 as-is.
package persist

import (
	"bytes"
	"context"
	"encoding/binary"
	"encoding/gob"
	"fmt"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"

	"github.com/seekerror/logw"

	"github.com/rookery-chess/pinion/pkg/board"
	"github.com/rookery-chess/pinion/pkg/search"
)

// Store snapshots a TranspositionTable to and from an on-disk Badger database, for an
// engine run as a long-lived analysis daemon across restarts. Each record's value is
// prefixed with an xxhash signature of its payload, so a record whose stored bytes were
// damaged is detected and skipped on load. The signature does not detect a payload
// written by an incompatible Entry encoding; a payload that fails to decode fails the
// whole load.
type Store struct {
	db *badger.DB
}

// Open opens (creating if necessary) a Badger database rooted at dir.
func Open(dir string) (*Store, error) {
	opts := badger.DefaultOptions(dir).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("persist: open %v: %w", dir, err)
	}
	return &Store{db: db}, nil
}

// Close releases the underlying database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// Save snapshots every entry currently in tt, overwriting whatever was previously
// stored under the same hash.
func (s *Store) Save(ctx context.Context, tt *search.TranspositionTable) error {
	entries := tt.Snapshot()

	err := s.db.Update(func(txn *badger.Txn) error {
		for _, e := range entries {
			var payload bytes.Buffer
			if err := gob.NewEncoder(&payload).Encode(e); err != nil {
				return fmt.Errorf("encode entry %v: %w", e.Hash, err)
			}

			sig := xxhash.Sum64(payload.Bytes())
			val := make([]byte, 8+payload.Len())
			binary.BigEndian.PutUint64(val, sig)
			copy(val[8:], payload.Bytes())

			if err := txn.Set(encodeKey(e.Hash), val); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist: save: %w", err)
	}

	logw.Infof(ctx, "Persisted %v transposition entries", len(entries))
	return nil
}

// Load restores every record in the database into tt. A record whose stored signature
// doesn't match its payload is skipped with a warning rather than failing the load,
// since the database may outlive the binary that wrote it.
func (s *Store) Load(ctx context.Context, tt *search.TranspositionTable) error {
	var entries []search.Entry

	err := s.db.View(func(txn *badger.Txn) error {
		it := txn.NewIterator(badger.DefaultIteratorOptions)
		defer it.Close()

		for it.Rewind(); it.Valid(); it.Next() {
			item := it.Item()
			key := item.KeyCopy(nil)

			err := item.Value(func(val []byte) error {
				if len(val) < 8 {
					return nil
				}
				sig := binary.BigEndian.Uint64(val[:8])
				payload := val[8:]
				if xxhash.Sum64(payload) != sig {
					logw.Warningf(ctx, "persist: signature mismatch for key %x, skipping", key)
					return nil
				}

				var e search.Entry
				if err := gob.NewDecoder(bytes.NewReader(payload)).Decode(&e); err != nil {
					return fmt.Errorf("decode entry: %w", err)
				}
				entries = append(entries, e)
				return nil
			})
			if err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("persist: load: %w", err)
	}

	tt.Restore(entries)
	logw.Infof(ctx, "Restored %v transposition entries", len(entries))
	return nil
}

func encodeKey(hash board.ZobristHash) []byte {
	key := make([]byte, 8)
	binary.BigEndian.PutUint64(key, uint64(hash))
	return key
}
