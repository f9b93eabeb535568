// Package sqlite provides a Store backed by a SQLite database file.
package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/store"

	_ "modernc.org/sqlite"
)

// timeLayout keeps nanoseconds and the zone offset so dates read back equal.
const timeLayout = time.RFC3339Nano

// Store is a SQLite-backed store.Store.
type Store struct {
	db   *sql.DB
	path string
}

var _ store.Store = (*Store)(nil)

// Open opens the database at path, creating the file and its directory if
// needed, and runs pending migrations.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create db directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite database: %w", err)
	}

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}

	if err := RunMigrations(path); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("run migrations: %w", err)
	}

	return &Store{db: db, path: path}, nil
}

// Path returns the database file path.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

const selectColumns = `id, date, description, amount, debit_account, credit_account, memo, created_at, updated_at`

type scanner interface {
	Scan(dest ...any) error
}

func scanTransaction(row scanner) (ledger.Transaction, error) {
	var (
		t                             ledger.Transaction
		date, amount, created, updated string
	)
	if err := row.Scan(&t.ID, &date, &t.Description, &amount, &t.DebitAccount, &t.CreditAccount, &t.Memo, &created, &updated); err != nil {
		return ledger.Transaction{}, err
	}

	var err error
	if t.Date, err = time.Parse(timeLayout, date); err != nil {
		return ledger.Transaction{}, &ledger.MalformedRecordError{ID: t.ID, Field: "date", Reason: err.Error()}
	}
	if t.Amount, err = decimal.NewFromString(amount); err != nil {
		return ledger.Transaction{}, &ledger.MalformedRecordError{ID: t.ID, Field: "amount", Reason: err.Error()}
	}
	if t.CreatedAt, err = time.Parse(timeLayout, created); err != nil {
		return ledger.Transaction{}, &ledger.MalformedRecordError{ID: t.ID, Field: "createdAt", Reason: err.Error()}
	}
	if t.UpdatedAt, err = time.Parse(timeLayout, updated); err != nil {
		return ledger.Transaction{}, &ledger.MalformedRecordError{ID: t.ID, Field: "updatedAt", Reason: err.Error()}
	}
	return t, nil
}

func (s *Store) Transactions(ctx context.Context) ([]ledger.Transaction, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT `+selectColumns+` FROM transactions`)
	if err != nil {
		return nil, fmt.Errorf("query transactions: %w", err)
	}
	defer rows.Close()

	var txns []ledger.Transaction
	for rows.Next() {
		t, err := scanTransaction(rows)
		if err != nil {
			return nil, fmt.Errorf("scan transaction: %w", err)
		}
		txns = append(txns, t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate transactions: %w", err)
	}

	return txns, nil
}

func (s *Store) Get(ctx context.Context, id string) (ledger.Transaction, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+selectColumns+` FROM transactions WHERE id = ?`, id)

	t, err := scanTransaction(row)
	if errors.Is(err, sql.ErrNoRows) {
		return ledger.Transaction{}, store.ErrNotFound
	}
	if err != nil {
		return ledger.Transaction{}, fmt.Errorf("get transaction %s: %w", id, err)
	}
	return t, nil
}

func (s *Store) Put(ctx context.Context, txn ledger.Transaction) (bool, error) {
	if err := ledger.ValidateRecord(txn); err != nil {
		return false, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	var exists int
	if err := tx.QueryRowContext(ctx, `SELECT COUNT(1) FROM transactions WHERE id = ?`, txn.ID).Scan(&exists); err != nil {
		return false, fmt.Errorf("check transaction %s: %w", txn.ID, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO transactions (`+selectColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(id) DO UPDATE SET
			date = excluded.date,
			description = excluded.description,
			amount = excluded.amount,
			debit_account = excluded.debit_account,
			credit_account = excluded.credit_account,
			memo = excluded.memo,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at`,
		txn.ID,
		txn.Date.Format(timeLayout),
		txn.Description,
		txn.Amount.String(),
		txn.DebitAccount,
		txn.CreditAccount,
		txn.Memo,
		txn.CreatedAt.Format(timeLayout),
		txn.UpdatedAt.Format(timeLayout),
	)
	if err != nil {
		return false, fmt.Errorf("put transaction %s: %w", txn.ID, err)
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit transaction: %w", err)
	}

	return exists == 0, nil
}

func (s *Store) Delete(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, `DELETE FROM transactions WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete transaction %s: %w", id, err)
	}
	if n == 0 {
		return store.ErrNotFound
	}
	return nil
}

func (s *Store) Settings(ctx context.Context) (map[string]string, error) {
	rows, err := s.db.QueryContext(ctx, `SELECT key, value FROM settings`)
	if err != nil {
		return nil, fmt.Errorf("query settings: %w", err)
	}
	defer rows.Close()

	settings := make(map[string]string)
	for rows.Next() {
		var key, value string
		if err := rows.Scan(&key, &value); err != nil {
			return nil, fmt.Errorf("scan setting: %w", err)
		}
		settings[key] = value
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate settings: %w", err)
	}

	return settings, nil
}

func (s *Store) PutSetting(ctx context.Context, key, value string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO settings (key, value) VALUES (?, ?)
		ON CONFLICT(key) DO UPDATE SET value = excluded.value`, key, value)
	if err != nil {
		return fmt.Errorf("put setting %s: %w", key, err)
	}
	return nil
}
