package ledger

import (
	"fmt"
	"time"
)

// Error types returned by the ledger and the layers built on it

// StorageUnavailableError is returned when the transaction source cannot be
// read or written.
type StorageUnavailableError struct {
	Op  string
	Err error
}

func (e *StorageUnavailableError) Error() string {
	return fmt.Sprintf("storage unavailable: %s: %v", e.Op, e.Err)
}

func (e *StorageUnavailableError) Unwrap() error {
	return e.Err
}

// NewStorageUnavailableError wraps a failed storage operation.
func NewStorageUnavailableError(op string, err error) *StorageUnavailableError {
	return &StorageUnavailableError{Op: op, Err: err}
}

// MalformedRecordError is returned for a transaction with a missing or
// unusable field.
type MalformedRecordError struct {
	ID     string
	Field  string
	Reason string
}

func (e *MalformedRecordError) Error() string {
	id := e.ID
	if id == "" {
		id = "<no id>"
	}
	return fmt.Sprintf("transaction %s: invalid %s: %s", id, e.Field, e.Reason)
}

// NewMalformedRecordError creates a MalformedRecordError for txn.
func NewMalformedRecordError(txn Transaction, field, reason string) *MalformedRecordError {
	return &MalformedRecordError{ID: txn.ID, Field: field, Reason: reason}
}

// UnknownAccountError is returned when a transaction references an account
// that is not part of the chart.
type UnknownAccountError struct {
	ID      string
	Date    time.Time
	Account string
	Side    string
}

func (e *UnknownAccountError) Error() string {
	return fmt.Sprintf("%s: transaction %s: %s account %q is not in the chart of accounts",
		e.Date.Format(DateLayout), e.ID, e.Side, e.Account)
}

// NewUnknownAccountError creates an UnknownAccountError for one side of txn.
func NewUnknownAccountError(txn Transaction, side, account string) *UnknownAccountError {
	return &UnknownAccountError{ID: txn.ID, Date: txn.Date, Account: account, Side: side}
}

// InvalidDateRangeError is returned when a report range starts after it ends.
type InvalidDateRangeError struct {
	Start time.Time
	End   time.Time
}

func (e *InvalidDateRangeError) Error() string {
	return fmt.Sprintf("invalid date range: start %s is after end %s",
		e.Start.Format(DateLayout), e.End.Format(DateLayout))
}
