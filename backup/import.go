package backup

import (
	"context"
	"fmt"
	"io"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/logger"
	"github.com/robinvdvleuten/bookkeeper/store"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

// ImportResult counts what an import did. Errors holds one *RowError per
// rejected row.
type ImportResult struct {
	Added   int
	Updated int
	Errors  []error
}

// Messages returns the row errors as strings.
func (r *ImportResult) Messages() []string {
	msgs := make([]string, len(r.Errors))
	for i, err := range r.Errors {
		msgs[i] = err.Error()
	}
	return msgs
}

// Import reads a transaction CSV from r and writes every valid row to s,
// replacing records with the same id. Invalid rows are reported in the
// result and do not stop the import; storage failures do.
func Import(ctx context.Context, s store.Store, r io.Reader) (*ImportResult, error) {
	timer := telemetry.StartTimer(ctx, "backup.import")
	defer timer.End()

	readTimer := timer.Child("backup.read_csv")
	txns, rowErrs, err := ReadCSV(r)
	readTimer.End()
	if err != nil {
		return nil, err
	}

	result := &ImportResult{Errors: rowErrs}
	writeTimer := timer.Child(fmt.Sprintf("backup.write (%d transactions)", len(txns)))
	defer writeTimer.End()

	for _, t := range txns {
		select {
		case <-ctx.Done():
			return result, ctx.Err()
		default:
		}

		created, err := s.Put(ctx, t)
		if err != nil {
			return result, ledger.NewStorageUnavailableError("write transaction "+t.ID, err)
		}
		if created {
			result.Added++
		} else {
			result.Updated++
		}
	}

	log := logger.FromContext(ctx)
	log.Info().
		Int("added", result.Added).
		Int("updated", result.Updated).
		Int("errors", len(result.Errors)).
		Msg("transactions imported")

	return result, nil
}

// Export writes all transactions of s as CSV. It returns ErrNothingToExport
// when the store is empty.
func Export(ctx context.Context, s store.Store, w io.Writer) (int, error) {
	timer := telemetry.StartTimer(ctx, "backup.export")
	defer timer.End()

	txns, err := s.Transactions(ctx)
	if err != nil {
		return 0, ledger.NewStorageUnavailableError("read transactions", err)
	}
	if len(txns) == 0 {
		return 0, ErrNothingToExport
	}

	if err := WriteCSV(w, txns); err != nil {
		return 0, fmt.Errorf("write csv: %w", err)
	}
	return len(txns), nil
}
