package ledger

import (
	"cmp"
	"slices"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// DateLayout is the calendar-day layout used for transaction dates on the
// command line, in query strings and in CSV files.
const DateLayout = "2006-01-02"

// Transaction is a single posting: one amount applied to a debit account and
// a credit account. Records are replaced as a whole, never patched.
type Transaction struct {
	ID            string          `json:"id"`
	Date          time.Time       `json:"date"`
	Description   string          `json:"description"`
	Amount        decimal.Decimal `json:"amount"`
	DebitAccount  string          `json:"debitAccount"`
	CreditAccount string          `json:"creditAccount"`
	Memo          string          `json:"memo,omitempty"`
	CreatedAt     time.Time       `json:"createdAt"`
	UpdatedAt     time.Time       `json:"updatedAt"`
}

// TransactionOption configures a new Transaction.
type TransactionOption func(*Transaction)

// WithMemo sets the memo of a new transaction.
func WithMemo(memo string) TransactionOption {
	return func(t *Transaction) {
		t.Memo = memo
	}
}

// WithID overrides the generated id.
func WithID(id string) TransactionOption {
	return func(t *Transaction) {
		t.ID = id
	}
}

// WithCreatedAt overrides the creation timestamp.
func WithCreatedAt(at time.Time) TransactionOption {
	return func(t *Transaction) {
		t.CreatedAt = at
		t.UpdatedAt = at
	}
}

// NewTransaction creates a transaction with a fresh random id and the
// current time as creation timestamp.
//
// Example:
//
//	txn := ledger.NewTransaction(date, "Office rent", decimal.NewFromInt(40000),
//	    ledger.Rent, ledger.Cash, ledger.WithMemo("March"))
func NewTransaction(date time.Time, description string, amount decimal.Decimal, debit, credit string, opts ...TransactionOption) Transaction {
	now := time.Now()
	t := Transaction{
		ID:            uuid.NewString(),
		Date:          date,
		Description:   description,
		Amount:        amount,
		DebitAccount:  debit,
		CreditAccount: credit,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	for _, opt := range opts {
		opt(&t)
	}
	return t
}

// Touches reports whether the transaction posts to account on either side.
func (t Transaction) Touches(account string) bool {
	return t.DebitAccount == account || t.CreditAccount == account
}

// StartOfDay returns midnight of the day of t, in t's location.
func StartOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}

// EndOfDay returns the last representable instant of the day of t, in t's
// location. Cutoffs and range ends compare against this value so that every
// posting made on that day is included.
func EndOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 23, 59, 59, int(time.Second-time.Nanosecond), t.Location())
}

// ParseDate parses a YYYY-MM-DD date in the local time zone.
func ParseDate(s string) (time.Time, error) {
	return time.ParseInLocation(DateLayout, s, time.Local)
}

// SortTransactions sorts transactions in place by date, then id.
func SortTransactions(txns []Transaction) {
	slices.SortStableFunc(txns, func(a, b Transaction) int {
		if c := a.Date.Compare(b.Date); c != 0 {
			return c
		}
		return cmp.Compare(a.ID, b.ID)
	})
}

// FilterUntil returns the transactions dated on or before the end of the
// cutoff day. The input is not modified.
func FilterUntil(txns []Transaction, cutoff time.Time) []Transaction {
	end := EndOfDay(cutoff)
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if !t.Date.After(end) {
			out = append(out, t)
		}
	}
	return out
}

// FilterBetween returns the transactions dated within [start, end of the end
// day]. Callers validate the range first.
func FilterBetween(txns []Transaction, start, end time.Time) []Transaction {
	last := EndOfDay(end)
	out := make([]Transaction, 0, len(txns))
	for _, t := range txns {
		if t.Date.Before(start) || t.Date.After(last) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// CheckRange returns an InvalidDateRangeError when start lies after the end
// of the end day.
func CheckRange(start, end time.Time) error {
	if start.After(EndOfDay(end)) {
		return &InvalidDateRangeError{Start: start, End: end}
	}
	return nil
}
