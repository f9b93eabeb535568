package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/loader"
	"github.com/robinvdvleuten/bookkeeper/logger"
	"github.com/robinvdvleuten/bookkeeper/output"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
	"github.com/robinvdvleuten/bookkeeper/web"
)

type WebCmd struct {
	Port     int  `help:"Port to listen on." default:"8080"`
	Create   bool `help:"Automatically create the data file if it doesn't exist (no confirmation prompt)." short:"c"`
	ReadOnly bool `help:"Enable read-only mode (no write operations allowed)." short:"r"`
	Watch    bool `help:"Reload CSV and ZIP data files when they change on disk." default:"true" negatable:""`
}

func (cmd *WebCmd) Run(ctx *kong.Context, globals *Globals) error {
	runCtx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	log, err := logger.New(ctx.Stderr, globals.LogLevel)
	if err != nil {
		return err
	}
	runCtx = logger.WithContext(runCtx, log)

	if globals.Telemetry {
		collector := telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, collector)

		defer func() {
			_, _ = fmt.Fprintln(ctx.Stderr)
			collector.Report(ctx.Stderr, output.NewStyles(ctx.Stderr))
		}()
	}

	dataFile, err := filepath.Abs(globals.Data)
	if err != nil {
		return fmt.Errorf("failed to resolve absolute path: %w", err)
	}

	var opts []loader.Option
	if _, err := os.Stat(dataFile); err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("failed to access file: %w", err)
		}

		shouldCreate := cmd.Create
		if !shouldCreate {
			confirmed, err := promptYesNo(ctx, fmt.Sprintf("File %q does not exist. Create it?", dataFile))
			if err != nil {
				return fmt.Errorf("failed to read confirmation: %w", err)
			}
			shouldCreate = confirmed
		}

		if !shouldCreate {
			return fmt.Errorf("file does not exist: %s", dataFile)
		}

		opts = append(opts, loader.WithCreate())
		printInfof(ctx.Stdout, "Creating data file: %s", pathStyle.Render(dataFile))
	}

	version := Version
	if version == "" {
		version = "dev"
	}
	commitSHA := CommitSHA
	if commitSHA == "" {
		commitSHA = "local"
	}

	server := web.NewWithVersion(cmd.Port, dataFile, version, commitSHA)
	server.ReadOnly = cmd.ReadOnly
	server.WatchEnabled = cmd.Watch
	server.Loader = loader.New(opts...)

	printInfof(ctx.Stdout, "Starting server on %s:%d", server.Host, cmd.Port)
	printInfof(ctx.Stdout, "Serving data: %s", pathStyle.Render(dataFile))

	if cmd.ReadOnly {
		printInfof(ctx.Stdout, "Server running in READ-ONLY mode")
	}

	return server.Start(runCtx)
}
