// Package loader opens a bookkeeping data source by path and returns a
// ready-to-use store.
//
// Three kinds of sources are supported, chosen by file extension:
//   - SQLite databases (.db, .sqlite, .sqlite3) are opened in place
//   - CSV backups (.csv) are read into an in-memory store
//   - ZIP archives (.zip) with transactions and settings are read into an
//     in-memory store
//
// In-memory sources are written back with Result.Persist after changes.
//
// Example usage:
//
//	res, err := loader.New(loader.WithCreate()).Load(ctx, "books.db")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer res.Store.Close()
package loader

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/robinvdvleuten/bookkeeper/backup"
	"github.com/robinvdvleuten/bookkeeper/store"
	"github.com/robinvdvleuten/bookkeeper/store/memory"
	"github.com/robinvdvleuten/bookkeeper/store/sqlite"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

// Kind identifies the format of a data source.
type Kind int

const (
	KindSQLite Kind = iota
	KindCSV
	KindArchive
)

func (k Kind) String() string {
	switch k {
	case KindSQLite:
		return "sqlite"
	case KindCSV:
		return "csv"
	case KindArchive:
		return "zip"
	default:
		return "unknown"
	}
}

// UnsupportedFormatError is returned for paths with an unknown extension.
type UnsupportedFormatError struct {
	Path string
}

func (e *UnsupportedFormatError) Error() string {
	return fmt.Sprintf("unsupported data file %s: expected .db, .sqlite, .csv or .zip", e.Path)
}

// DetectKind returns the kind of source for path based on its extension.
func DetectKind(path string) (Kind, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".db", ".sqlite", ".sqlite3":
		return KindSQLite, nil
	case ".csv":
		return KindCSV, nil
	case ".zip":
		return KindArchive, nil
	default:
		return 0, &UnsupportedFormatError{Path: path}
	}
}

// Loader opens data sources.
//
// Configure the loader using functional options passed to New:
//
//	loader := New(WithCreate())
type Loader struct {
	// Create allows opening a path that does not exist yet. SQLite files
	// are created; CSV and ZIP sources start empty and are written on
	// Persist.
	Create bool
}

// Option configures how sources are opened.
type Option func(*Loader)

// WithCreate allows missing data files.
func WithCreate() Option {
	return func(l *Loader) {
		l.Create = true
	}
}

// New creates a new Loader with the given options.
func New(opts ...Option) *Loader {
	l := &Loader{}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Result is an opened data source.
type Result struct {
	Store store.Store

	// Path is the absolute path of the source.
	Path string
	Kind Kind

	// RowErrors holds rows of a CSV or ZIP source that could not be read.
	RowErrors []error
}

// Watchable reports whether the source is a plain file that can be
// reloaded when it changes on disk.
func (r *Result) Watchable() bool {
	return r.Kind != KindSQLite
}

// Persist writes an in-memory source back to its file. It is a no-op for
// SQLite sources.
func (r *Result) Persist(ctx context.Context) error {
	timer := telemetry.StartTimer(ctx, "loader.persist")
	defer timer.End()

	var buf bytes.Buffer
	switch r.Kind {
	case KindSQLite:
		return nil
	case KindCSV:
		txns, err := r.Store.Transactions(ctx)
		if err != nil {
			return err
		}
		if err := backup.WriteCSV(&buf, txns); err != nil {
			return err
		}
	case KindArchive:
		if err := backup.WriteArchive(ctx, &buf, r.Store); err != nil && !errors.Is(err, backup.ErrNothingToExport) {
			return err
		}
	}

	return writeFileAtomic(r.Path, buf.Bytes())
}

// Load opens the source at path.
func (l *Loader) Load(ctx context.Context, path string) (*Result, error) {
	timer := telemetry.StartTimer(ctx, "loader.load "+filepath.Base(path))
	defer timer.End()

	kind, err := DetectKind(path)
	if err != nil {
		return nil, err
	}

	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve absolute path for %s: %w", path, err)
	}

	if _, err := os.Stat(absPath); err != nil {
		if !errors.Is(err, os.ErrNotExist) || !l.Create {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		if kind != KindSQLite {
			return &Result{Store: memory.New(), Path: absPath, Kind: kind}, nil
		}
	}

	res := &Result{Path: absPath, Kind: kind}

	switch kind {
	case KindSQLite:
		s, err := sqlite.Open(absPath)
		if err != nil {
			return nil, err
		}
		res.Store = s

	case KindCSV:
		f, err := os.Open(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		defer f.Close()

		txns, rowErrs, err := backup.ReadCSV(f)
		if err != nil && !errors.Is(err, backup.ErrNoData) {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		res.Store = memory.New(txns...)
		res.RowErrors = rowErrs

	case KindArchive:
		data, err := os.ReadFile(absPath)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}

		s := memory.New()
		archive, err := backup.ImportArchive(ctx, s, bytes.NewReader(data), int64(len(data)))
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		res.Store = s
		res.RowErrors = archive.Transactions.Errors
	}

	return res, nil
}

// Load opens the source at path with a Loader configured by opts.
func Load(ctx context.Context, path string, opts ...Option) (*Result, error) {
	return New(opts...).Load(ctx, path)
}

func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}

	return os.Rename(tmp.Name(), path)
}
