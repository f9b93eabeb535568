// Package storetest provides a conformance suite run against every
// store.Store implementation.
package storetest

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/store"
)

// Transaction returns a valid transaction dated on day of January 2024.
func Transaction(id string, day int, amount int64, debit, credit string) ledger.Transaction {
	date := time.Date(2024, time.January, day, 0, 0, 0, 0, time.UTC)
	return ledger.Transaction{
		ID:            id,
		Date:          date,
		Description:   "entry " + id,
		Amount:        decimal.NewFromInt(amount),
		DebitAccount:  debit,
		CreditAccount: credit,
		CreatedAt:     date,
		UpdatedAt:     date,
	}
}

// Run exercises the store returned by open. Each subtest gets a fresh store.
func Run(t *testing.T, open func(t *testing.T) store.Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("EmptyStore", func(t *testing.T) {
		s := open(t)
		txns, err := s.Transactions(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(txns))

		_, err = s.Get(ctx, "missing")
		assert.True(t, errors.Is(err, store.ErrNotFound))
		assert.True(t, errors.Is(s.Delete(ctx, "missing"), store.ErrNotFound))
	})

	t.Run("PutInsertsThenReplaces", func(t *testing.T) {
		s := open(t)

		txn := Transaction("t1", 15, 100000, ledger.Cash, ledger.Sales)
		txn.Memo = "invoice 42"
		created, err := s.Put(ctx, txn)
		assert.NoError(t, err)
		assert.True(t, created)

		got, err := s.Get(ctx, "t1")
		assert.NoError(t, err)
		assert.Equal(t, "invoice 42", got.Memo)
		assert.True(t, got.Amount.Equal(txn.Amount))
		assert.True(t, got.Date.Equal(txn.Date))

		txn.Amount = decimal.RequireFromString("1234.56")
		txn.Memo = ""
		created, err = s.Put(ctx, txn)
		assert.NoError(t, err)
		assert.False(t, created)

		got, err = s.Get(ctx, "t1")
		assert.NoError(t, err)
		assert.Equal(t, "1234.56", got.Amount.String())
		assert.Equal(t, "", got.Memo)

		txns, err := s.Transactions(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(txns))
	})

	t.Run("PutRejectsInvalidRecords", func(t *testing.T) {
		s := open(t)

		txn := Transaction("t1", 15, 10, ledger.Cash, ledger.Sales)
		txn.Amount = decimal.NewFromInt(-10)
		_, err := s.Put(ctx, txn)
		assert.Error(t, err)

		txns, err := s.Transactions(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(txns))
	})

	t.Run("Delete", func(t *testing.T) {
		s := open(t)

		_, err := s.Put(ctx, Transaction("t1", 15, 10, ledger.Cash, ledger.Sales))
		assert.NoError(t, err)
		_, err = s.Put(ctx, Transaction("t2", 16, 20, ledger.Rent, ledger.Cash))
		assert.NoError(t, err)

		assert.NoError(t, s.Delete(ctx, "t1"))

		txns, err := s.Transactions(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 1, len(txns))
		assert.Equal(t, "t2", txns[0].ID)
	})

	t.Run("Settings", func(t *testing.T) {
		s := open(t)

		settings, err := s.Settings(ctx)
		assert.NoError(t, err)
		assert.Equal(t, 0, len(settings))

		assert.NoError(t, s.PutSetting(ctx, "period.tax_keywords", "tax"))
		assert.NoError(t, s.PutSetting(ctx, "period.tax_keywords", "tax,税"))

		settings, err = s.Settings(ctx)
		assert.NoError(t, err)
		assert.Equal(t, map[string]string{"period.tax_keywords": "tax,税"}, settings)
	})
}
