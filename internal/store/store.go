package store

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/gsales/gsales/internal/domain"
	bolt "go.etcd.io/bbolt"
)

// Bucket names
var (
	bucketSales = []byte(domain.CollectionSales)
	bucketLogs  = []byte(domain.CollectionLogs)
)

// Store is the durable local store backed by BoltDB. It owns two independent
// collections: sales (keyed by sale id) and the activity log (append-only,
// keyed by bucket sequence number so insertion order is the retrieval order).
// All mutation goes through these methods; writes are atomic per transaction.
type Store struct {
	db *bolt.DB
}

// Open opens (or creates) the database at path and ensures both collections
// exist.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := bolt.Open(path, 0600, &bolt.Options{Timeout: 1 * time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open bolt db: %w", err)
	}

	err = db.Update(func(tx *bolt.Tx) error {
		for _, bucket := range [][]byte{bucketSales, bucketLogs} {
			if _, err := tx.CreateBucketIfNotExists(bucket); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create collections: %w", err)
	}

	return &Store{db: db}, nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// bucketFor maps a collection name to its bucket, rejecting names that were
// never declared.
func bucketFor(collection string) ([]byte, error) {
	switch collection {
	case domain.CollectionSales:
		return bucketSales, nil
	case domain.CollectionLogs:
		return bucketLogs, nil
	default:
		return nil, fmt.Errorf("%w: %q", domain.ErrUnknownCollection, collection)
	}
}

// InsertSale adds a new sale. A sale whose id is already present is rejected
// with ErrDuplicateSale.
func (s *Store) InsertSale(sale *domain.Sale) error {
	data, err := json.Marshal(sale)
	if err != nil {
		return fmt.Errorf("failed to encode sale: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketSales)
		if b.Get([]byte(sale.ID)) != nil {
			return fmt.Errorf("%w: %s", domain.ErrDuplicateSale, sale.ID)
		}
		return b.Put([]byte(sale.ID), data)
	})
}

// UpsertSale inserts or replaces a sale by id. Used to flip the synced flag.
func (s *Store) UpsertSale(sale *domain.Sale) error {
	data, err := json.Marshal(sale)
	if err != nil {
		return fmt.Errorf("failed to encode sale: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSales).Put([]byte(sale.ID), data)
	})
}

// Sales returns every sale in storage order. Display and sync ordering is
// the caller's responsibility.
func (s *Store) Sales() ([]domain.Sale, error) {
	var sales []domain.Sale
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketSales).ForEach(func(_, v []byte) error {
			var sale domain.Sale
			if err := json.Unmarshal(v, &sale); err != nil {
				return fmt.Errorf("failed to decode sale: %w", err)
			}
			sales = append(sales, sale)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return sales, nil
}

// AppendLog appends an activity log entry under the next sequence number.
// Log entries have no natural id, so duplicates are never possible.
func (s *Store) AppendLog(entry domain.LogEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to encode log entry: %w", err)
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		b := tx.Bucket(bucketLogs)
		seq, err := b.NextSequence()
		if err != nil {
			return err
		}
		key := make([]byte, 8)
		binary.BigEndian.PutUint64(key, seq)
		return b.Put(key, data)
	})
}

// Logs returns every activity log entry in insertion order.
func (s *Store) Logs() ([]domain.LogEntry, error) {
	var entries []domain.LogEntry
	err := s.db.View(func(tx *bolt.Tx) error {
		return tx.Bucket(bucketLogs).ForEach(func(_, v []byte) error {
			var entry domain.LogEntry
			if err := json.Unmarshal(v, &entry); err != nil {
				return fmt.Errorf("failed to decode log entry: %w", err)
			}
			entries = append(entries, entry)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}

// Clear deletes every record in the named collection. Irreversible.
func (s *Store) Clear(collection string) error {
	name, err := bucketFor(collection)
	if err != nil {
		return err
	}

	return s.db.Update(func(tx *bolt.Tx) error {
		if err := tx.DeleteBucket(name); err != nil {
			return err
		}
		_, err := tx.CreateBucket(name)
		return err
	})
}
