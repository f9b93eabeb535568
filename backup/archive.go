package backup

import (
	"archive/zip"
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"slices"

	"golang.org/x/exp/maps"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/store"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

// Archive entry names.
const (
	TransactionsFile = "transactions.csv"
	SettingsFile     = "settings.csv"
)

// ArchiveResult reports what ImportArchive did.
type ArchiveResult struct {
	Transactions ImportResult
	Settings     int
}

// WriteArchive writes a ZIP archive with every transaction and setting of s.
// Empty parts are left out; an entirely empty store yields
// ErrNothingToExport.
func WriteArchive(ctx context.Context, w io.Writer, s store.Store) error {
	timer := telemetry.StartTimer(ctx, "backup.write_archive")
	defer timer.End()

	txns, err := s.Transactions(ctx)
	if err != nil {
		return ledger.NewStorageUnavailableError("read transactions", err)
	}
	settings, err := s.Settings(ctx)
	if err != nil {
		return ledger.NewStorageUnavailableError("read settings", err)
	}
	if len(txns) == 0 && len(settings) == 0 {
		return ErrNothingToExport
	}

	zw := zip.NewWriter(w)

	if len(txns) > 0 {
		f, err := zw.Create(TransactionsFile)
		if err != nil {
			return fmt.Errorf("create %s: %w", TransactionsFile, err)
		}
		if err := WriteCSV(f, txns); err != nil {
			return fmt.Errorf("write %s: %w", TransactionsFile, err)
		}
	}

	if len(settings) > 0 {
		f, err := zw.Create(SettingsFile)
		if err != nil {
			return fmt.Errorf("create %s: %w", SettingsFile, err)
		}
		if err := writeSettings(f, settings); err != nil {
			return fmt.Errorf("write %s: %w", SettingsFile, err)
		}
	}

	return zw.Close()
}

// ImportArchive restores a ZIP archive written by WriteArchive into s.
// Missing entries are skipped.
func ImportArchive(ctx context.Context, s store.Store, r io.ReaderAt, size int64) (*ArchiveResult, error) {
	timer := telemetry.StartTimer(ctx, "backup.import_archive")
	defer timer.End()

	zr, err := zip.NewReader(r, size)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	result := &ArchiveResult{}

	if f, err := zr.Open(TransactionsFile); err == nil {
		res, err := Import(ctx, s, f)
		_ = f.Close()
		if err != nil && !errors.Is(err, ErrNoData) {
			return nil, fmt.Errorf("%s: %w", TransactionsFile, err)
		}
		if res != nil {
			result.Transactions = *res
		}
	}

	if f, err := zr.Open(SettingsFile); err == nil {
		settings, err := readSettings(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("%s: %w", SettingsFile, err)
		}
		for _, key := range sortedKeys(settings) {
			if err := s.PutSetting(ctx, key, settings[key]); err != nil {
				return nil, ledger.NewStorageUnavailableError("write setting "+key, err)
			}
			result.Settings++
		}
	}

	return result, nil
}

func writeSettings(w io.Writer, settings map[string]string) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{"id", "value"}); err != nil {
		return err
	}
	for _, key := range sortedKeys(settings) {
		if err := cw.Write([]string{key, settings[key]}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

func sortedKeys(settings map[string]string) []string {
	keys := maps.Keys(settings)
	slices.Sort(keys)
	return keys
}

func readSettings(r io.Reader) (map[string]string, error) {
	records, err := csv.NewReader(r).ReadAll()
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, ErrNoData
	}
	if !slices.Equal(records[0], []string{"id", "value"}) {
		return nil, &MissingHeadersError{Headers: []string{"id", "value"}}
	}

	settings := make(map[string]string, len(records)-1)
	for _, rec := range records[1:] {
		settings[rec[0]] = rec[1]
	}
	return settings, nil
}
