// Package memory provides an in-process Store used for CSV and ZIP data
// files and in tests.
package memory

import (
	"context"
	"maps"
	"sync"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/store"
)

// Store keeps transactions and settings in maps guarded by a mutex. Reads
// return copies.
type Store struct {
	mu           sync.RWMutex
	transactions map[string]ledger.Transaction
	settings     map[string]string
}

var _ store.Store = (*Store)(nil)

// New creates a store seeded with txns. Later duplicates of an id replace
// earlier ones.
func New(txns ...ledger.Transaction) *Store {
	s := &Store{
		transactions: make(map[string]ledger.Transaction, len(txns)),
		settings:     make(map[string]string),
	}
	for _, t := range txns {
		s.transactions[t.ID] = t
	}
	return s
}

func (s *Store) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]ledger.Transaction, 0, len(s.transactions))
	for _, t := range s.transactions {
		out = append(out, t)
	}
	return out, nil
}

func (s *Store) Get(ctx context.Context, id string) (ledger.Transaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	t, ok := s.transactions[id]
	if !ok {
		return ledger.Transaction{}, store.ErrNotFound
	}
	return t, nil
}

func (s *Store) Put(ctx context.Context, txn ledger.Transaction) (bool, error) {
	if err := ledger.ValidateRecord(txn); err != nil {
		return false, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	_, exists := s.transactions[txn.ID]
	s.transactions[txn.ID] = txn
	return !exists, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.transactions[id]; !ok {
		return store.ErrNotFound
	}
	delete(s.transactions, id)
	return nil
}

func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return maps.Clone(s.settings), nil
}

func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.settings[key] = value
	return nil
}

// Close is a no-op.
func (s *Store) Close() error {
	return nil
}
