// Package store defines the persistence interface for transactions and
// settings. Implementations live in the memory and sqlite subpackages.
package store

import (
	"context"
	"errors"

	"github.com/robinvdvleuten/bookkeeper/ledger"
)

// ErrNotFound is returned when no transaction exists under the requested id.
var ErrNotFound = errors.New("transaction not found")

// Store persists transactions keyed by id and string settings keyed by name.
// Writes replace whole records; there is no partial update.
type Store interface {
	// Transactions returns a snapshot of all transactions in no particular
	// order.
	Transactions(ctx context.Context) ([]ledger.Transaction, error)

	// Get returns the transaction stored under id, or ErrNotFound.
	Get(ctx context.Context, id string) (ledger.Transaction, error)

	// Put inserts txn or replaces the record with the same id. It reports
	// whether a new record was created.
	Put(ctx context.Context, txn ledger.Transaction) (created bool, err error)

	// Delete removes the transaction stored under id, or returns ErrNotFound.
	Delete(ctx context.Context, id string) error

	// Settings returns all settings.
	Settings(ctx context.Context) (map[string]string, error)

	// PutSetting stores a setting, replacing any previous value.
	PutSetting(ctx context.Context, key, value string) error

	Close() error
}
