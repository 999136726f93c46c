package store

import (
	"context"
	"errors"
	"fmt"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a file-backed Store over a Badger database, for hosts that need
// the enabled flag to survive restarts without an external service.
type Badger struct {
	db *badger.DB
}

// NewBadger opens (or creates) a Badger database at path.
func NewBadger(path string) (*Badger, error) {
	opts := badger.DefaultOptions(path).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &Badger{db: db}, nil
}

// NewBadgerInMemory opens an ephemeral Badger database, useful in tests.
func NewBadgerInMemory() (*Badger, error) {
	opts := badger.DefaultOptions("").WithInMemory(true).WithLogger(nil)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger store: %w", err)
	}
	return &Badger{db: db}, nil
}

func (b *Badger) GetBool(_ context.Context, key string) (bool, bool, error) {
	if b.db.IsClosed() {
		return false, false, ErrClosed
	}
	var value, found bool
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		found = true
		return item.Value(func(val []byte) error {
			value = len(val) == 1 && val[0] == 1
			return nil
		})
	})
	if err != nil {
		return false, false, fmt.Errorf("badger get %q: %w", key, err)
	}
	return value, found, nil
}

func (b *Badger) SetBool(_ context.Context, key string, value bool) error {
	if b.db.IsClosed() {
		return ErrClosed
	}
	raw := []byte{0}
	if value {
		raw[0] = 1
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), raw)
	})
	if err != nil {
		return fmt.Errorf("badger set %q: %w", key, err)
	}
	return nil
}

func (b *Badger) Delete(_ context.Context, key string) error {
	if b.db.IsClosed() {
		return ErrClosed
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if err != nil {
		return fmt.Errorf("badger delete %q: %w", key, err)
	}
	return nil
}

func (b *Badger) Close() error {
	if b.db.IsClosed() {
		return nil
	}
	return b.db.Close()
}

var _ Store = (*Badger)(nil)
