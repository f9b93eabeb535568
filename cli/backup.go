package cli

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/backup"
	"github.com/robinvdvleuten/bookkeeper/loader"
)

type ImportCmd struct {
	File string `help:"CSV file or ZIP backup to import." arg:"" type:"existingfile"`
}

func (cmd *ImportCmd) Run(ctx *kong.Context, globals *Globals) error {
	kind, err := loader.DetectKind(cmd.File)
	if err != nil || kind == loader.KindSQLite {
		return fmt.Errorf("cannot import %s: expected a .csv or .zip file", cmd.File)
	}

	s, err := openSession(ctx, globals, "import", loader.WithCreate())
	if err != nil {
		return err
	}
	defer s.Close()

	f, err := os.Open(cmd.File)
	if err != nil {
		return fmt.Errorf("failed to open %s: %w", cmd.File, err)
	}
	defer f.Close()

	var result backup.ImportResult
	settings := 0

	if kind == loader.KindArchive {
		info, err := f.Stat()
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", cmd.File, err)
		}
		res, err := backup.ImportArchive(s.ctx, s.result.Store, f, info.Size())
		if err != nil {
			return err
		}
		result, settings = res.Transactions, res.Settings
	} else {
		res, err := backup.Import(s.ctx, s.result.Store, f)
		if err != nil {
			if errors.Is(err, backup.ErrNoData) {
				printInfof(ctx.Stdout, "No transactions in %s", pathStyle.Render(cmd.File))
				return nil
			}
			return err
		}
		result = *res
	}

	if err := s.persist(); err != nil {
		return err
	}

	for _, msg := range result.Messages() {
		printError(ctx.Stderr, msg)
	}

	summary := fmt.Sprintf("Imported %d new and %d updated transactions", result.Added, result.Updated)
	if settings > 0 {
		summary += fmt.Sprintf(" and %d settings", settings)
	}
	printSuccess(ctx.Stdout, summary)

	if len(result.Errors) > 0 {
		printError(ctx.Stderr, fmt.Sprintf("%d row(s) skipped", len(result.Errors)))
		return NewCommandError(1)
	}
	return nil
}

type ExportCmd struct {
	File string `help:"CSV file or ZIP backup to write (use '-' for CSV on stdout)." arg:""`
}

func (cmd *ExportCmd) Run(ctx *kong.Context, globals *Globals) error {
	kind := loader.KindCSV
	if cmd.File != "-" {
		k, err := loader.DetectKind(cmd.File)
		if err != nil || k == loader.KindSQLite {
			return fmt.Errorf("cannot export to %s: expected a .csv or .zip file", cmd.File)
		}
		kind = k
	}

	s, err := openSession(ctx, globals, "export")
	if err != nil {
		return err
	}
	defer s.Close()

	var buf bytes.Buffer
	count := 0
	if kind == loader.KindArchive {
		err = backup.WriteArchive(s.ctx, &buf, s.result.Store)
	} else {
		count, err = backup.Export(s.ctx, s.result.Store, &buf)
	}
	if errors.Is(err, backup.ErrNothingToExport) {
		printInfof(ctx.Stderr, "Nothing to export")
		return NewCommandError(1)
	}
	if err != nil {
		return err
	}

	if cmd.File == "-" {
		_, err := ctx.Stdout.Write(buf.Bytes())
		return err
	}

	if err := os.WriteFile(cmd.File, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write %s: %w", cmd.File, err)
	}

	if kind == loader.KindArchive {
		printSuccess(ctx.Stdout, fmt.Sprintf("Wrote backup to %s", pathStyle.Render(cmd.File)))
	} else {
		printSuccess(ctx.Stdout, fmt.Sprintf("Exported %d transactions to %s", count, pathStyle.Render(cmd.File)))
	}
	return nil
}
