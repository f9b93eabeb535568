// Package backup reads and writes transaction backups: CSV files with one
// transaction per row, and ZIP archives bundling transactions and settings.
package backup

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"
	"strings"
	"time"

	"github.com/robinvdvleuten/bookkeeper/ledger"
)

// Header is the column layout written by WriteCSV.
var Header = []string{"id", "date", "description", "amount", "debitAccount", "creditAccount", "memo", "createdAt", "updatedAt"}

// requiredHeaders must all be present for a file to be importable.
var requiredHeaders = Header[:8]

// ErrNothingToExport is returned when there is no data to write.
var ErrNothingToExport = errors.New("nothing to export")

// ErrNoData is returned when an import file has no data rows.
var ErrNoData = errors.New("no data to import")

// MissingHeadersError is returned when an import file lacks required columns.
type MissingHeadersError struct {
	Headers []string
}

func (e *MissingHeadersError) Error() string {
	return fmt.Sprintf("missing required headers: %s", strings.Join(e.Headers, ", "))
}

// RowError describes a row that could not be imported. Row is the 1-based
// line number in the file, the header being row 1.
type RowError struct {
	Row    int
	Reason string
}

func (e *RowError) Error() string {
	return fmt.Sprintf("row %d: %s", e.Row, e.Reason)
}

// WriteCSV writes txns as CSV sorted by date, then id. The input is not
// modified.
func WriteCSV(w io.Writer, txns []ledger.Transaction) error {
	sorted := slices.Clone(txns)
	ledger.SortTransactions(sorted)

	cw := csv.NewWriter(w)
	if err := cw.Write(Header); err != nil {
		return err
	}

	for _, t := range sorted {
		record := []string{
			t.ID,
			formatDate(t.Date),
			t.Description,
			t.Amount.String(),
			t.DebitAccount,
			t.CreditAccount,
			t.Memo,
			formatTimestamp(t.CreatedAt),
			formatTimestamp(t.UpdatedAt),
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}

	cw.Flush()
	return cw.Error()
}

// ReadCSV parses a transaction CSV. Rows that cannot be parsed are skipped
// and reported as *RowError values; the returned error is reserved for
// unreadable input and missing headers.
func ReadCSV(r io.Reader) ([]ledger.Transaction, []error, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, ErrNoData
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read header: %w", err)
	}

	columns := make(map[string]int, len(header))
	for i, name := range header {
		columns[strings.TrimSpace(strings.TrimPrefix(name, "\ufeff"))] = i
	}

	var missing []string
	for _, name := range requiredHeaders {
		if _, ok := columns[name]; !ok {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return nil, nil, &MissingHeadersError{Headers: missing}
	}

	var (
		txns    []ledger.Transaction
		rowErrs []error
		rows    int
	)

	for {
		record, err := cr.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				rows++
				rowErrs = append(rowErrs, &RowError{Row: parseErr.StartLine, Reason: parseErr.Err.Error()})
				continue
			}
			return nil, nil, fmt.Errorf("read row: %w", err)
		}
		rows++
		line, _ := cr.FieldPos(0)

		if len(record) < len(requiredHeaders) {
			rowErrs = append(rowErrs, &RowError{Row: line, Reason: "missing values"})
			continue
		}

		t, reason := parseRecord(record, columns)
		if reason != "" {
			rowErrs = append(rowErrs, &RowError{Row: line, Reason: reason})
			continue
		}
		txns = append(txns, t)
	}

	if rows == 0 {
		return nil, nil, ErrNoData
	}

	return txns, rowErrs, nil
}

func parseRecord(record []string, columns map[string]int) (ledger.Transaction, string) {
	field := func(name string) string {
		i, ok := columns[name]
		if !ok || i >= len(record) {
			return ""
		}
		return strings.TrimSpace(record[i])
	}

	t := ledger.Transaction{
		ID:            field("id"),
		Description:   field("description"),
		DebitAccount:  field("debitAccount"),
		CreditAccount: field("creditAccount"),
		Memo:          field("memo"),
	}

	if t.ID == "" || field("date") == "" || t.Description == "" || field("amount") == "" ||
		t.DebitAccount == "" || t.CreditAccount == "" {
		return t, "missing required fields"
	}

	var err error
	if t.Amount, err = ledger.ParseAmount(field("amount")); err != nil {
		return t, fmt.Sprintf("invalid amount %q", field("amount"))
	}
	if t.Date, err = parseDate(field("date")); err != nil {
		return t, fmt.Sprintf("invalid date %q", field("date"))
	}

	if created := field("createdAt"); created != "" {
		if t.CreatedAt, err = time.Parse(time.RFC3339Nano, created); err != nil {
			return t, fmt.Sprintf("invalid createdAt %q", created)
		}
	}
	t.UpdatedAt = t.CreatedAt
	if updated := field("updatedAt"); updated != "" {
		if t.UpdatedAt, err = time.Parse(time.RFC3339Nano, updated); err != nil {
			return t, fmt.Sprintf("invalid updatedAt %q", updated)
		}
	}

	return t, ""
}

// formatDate writes midnight dates as plain days.
func formatDate(d time.Time) string {
	if d.Equal(ledger.StartOfDay(d)) {
		return d.Format(ledger.DateLayout)
	}
	return d.Format(time.RFC3339Nano)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}

func parseDate(s string) (time.Time, error) {
	if d, err := ledger.ParseDate(s); err == nil {
		return d, nil
	}
	return time.Parse(time.RFC3339Nano, s)
}
