// Package store defines the persisted key-value port behind the ads-enabled
// gate, with memory, Badger, and Redis adapters. The gate only ever stores
// booleans, so the port is deliberately narrow.
package store

import (
	"context"
	"errors"
)

// ErrClosed is returned by adapters after Close.
var ErrClosed = errors.New("store: closed")

// Store is the durable boolean store the gate persists into.
// Error Contract:
// - GetBool returns (value, true, nil) when the key exists and
//   (false, false, nil) when it does not
// - SetBool and Delete return nil on success or a wrapped backend error
// - All methods return ErrClosed after Close
type Store interface {
	GetBool(ctx context.Context, key string) (value bool, found bool, err error)
	SetBool(ctx context.Context, key string, value bool) error
	Delete(ctx context.Context, key string) error
	Close() error
}
