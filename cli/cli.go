// Package cli provides the bookkeeper commands and the helpers they share.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/alecthomas/kong"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/loader"
	"github.com/robinvdvleuten/bookkeeper/logger"
	"github.com/robinvdvleuten/bookkeeper/output"
	"github.com/robinvdvleuten/bookkeeper/report"
	"github.com/robinvdvleuten/bookkeeper/telemetry"
)

var (
	successSymbol = "✓"
	errorSymbol   = "✗"
	infoSymbol    = "→"

	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D787", Dark: "#00D787"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#5FAFFF", Dark: "#5FAFFF"})
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#00D7D7", Dark: "#00D7D7"})
)

func printSuccess(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		successStyle.Render(successSymbol),
		message,
	)
}

func printError(w io.Writer, message string) {
	_, _ = fmt.Fprintf(w, "%s %s\n",
		errorStyle.Render(errorSymbol),
		errorStyle.Render(message),
	)
}

func printInfof(w io.Writer, format string, args ...interface{}) {
	formatted := fmt.Sprintf(format, args...)
	_, _ = fmt.Fprintf(w, "%s %s\n",
		infoStyle.Render(infoSymbol),
		formatted,
	)
}

// promptYesNo prompts the user with a yes/no question.
// Returns false by default if stdin is not a terminal.
func promptYesNo(ctx *kong.Context, question string) (bool, error) {
	if !isTerminal() {
		return false, nil
	}

	var confirm bool

	form := huh.NewConfirm().
		Title(question).
		WithButtonAlignment(lipgloss.Left).
		Value(&confirm)

	err := form.Run()
	if err != nil {
		return false, fmt.Errorf("failed to read response: %w", err)
	}

	return confirm, nil
}

func isTerminal() bool {
	fileInfo, err := os.Stdin.Stat()
	if err != nil {
		return false
	}
	return (fileInfo.Mode() & os.ModeCharDevice) != 0
}

// Date accepts a calendar day in YYYY-MM-DD form, interpreted in the local
// time zone.
type Date struct {
	time.Time
}

// Decode implements kong.MapperValue.
func (d *Date) Decode(ctx *kong.DecodeContext) error {
	var value string
	if err := ctx.Scan.PopValueInto("date", &value); err != nil {
		return err
	}

	t, err := ledger.ParseDate(value)
	if err != nil {
		return fmt.Errorf("invalid date %q: expected YYYY-MM-DD", value)
	}
	d.Time = t
	return nil
}

// Or returns the date, or fallback when the flag was not given.
func (d Date) Or(fallback time.Time) time.Time {
	if d.IsZero() {
		return fallback
	}
	return d.Time
}

func today() time.Time {
	return ledger.StartOfDay(time.Now())
}

func startOfYear(t time.Time) time.Time {
	return time.Date(t.Year(), time.January, 1, 0, 0, 0, 0, t.Location())
}

// session is an opened data source together with the context a command
// runs in: logger, report config and, with --telemetry, a timing collector.
type session struct {
	ctx     context.Context
	result  *loader.Result
	service *report.Service
	config  *report.Config

	stderr    io.Writer
	collector *telemetry.TimingCollector
	timer     telemetry.Timer
}

// openSession loads the data source named by --data. The root timer is
// named after the command.
func openSession(kctx *kong.Context, globals *Globals, name string, opts ...loader.Option) (*session, error) {
	runCtx := context.Background()

	log, err := logger.New(kctx.Stderr, globals.LogLevel)
	if err != nil {
		return nil, err
	}
	runCtx = logger.WithContext(runCtx, log)

	s := &session{stderr: kctx.Stderr}
	if globals.Telemetry {
		s.collector = telemetry.NewTimingCollector()
		runCtx = telemetry.WithCollector(runCtx, s.collector)
		s.timer = s.collector.Start(name)
	}

	res, err := loader.Load(runCtx, globals.Data, opts...)
	if err != nil {
		s.Close()
		return nil, err
	}
	s.result = res

	for _, rowErr := range res.RowErrors {
		log.Warn().Err(rowErr).Str("path", res.Path).Msg("skipped unreadable row")
	}

	settings, err := res.Store.Settings(runCtx)
	if err != nil {
		s.Close()
		return nil, ledger.NewStorageUnavailableError("read settings", err)
	}
	cfg, err := report.ConfigFromSettings(settings)
	if err != nil {
		s.Close()
		return nil, err
	}

	s.config = cfg
	s.ctx = cfg.WithContext(runCtx)
	s.service = report.NewService(res.Store)

	return s, nil
}

// Close releases the store and prints the telemetry report, if enabled.
func (s *session) Close() {
	if s.result != nil {
		_ = s.result.Store.Close()
	}
	if s.collector != nil {
		s.timer.End()
		_, _ = fmt.Fprintln(s.stderr)
		s.collector.Report(s.stderr, output.NewStyles(s.stderr))
		s.collector = nil
	}
}

// persist writes file-backed sources back to disk after a change.
func (s *session) persist() error {
	if err := s.result.Persist(s.ctx); err != nil {
		return fmt.Errorf("failed to write %s: %w", s.result.Path, err)
	}
	return nil
}

// validate rejects incomplete records. Account problems are printed as
// warnings; the transaction is still written.
func (s *session) validate(txn ledger.Transaction) error {
	if err := ledger.ValidateRecord(txn); err != nil {
		return err
	}
	for _, problem := range ledger.CheckAccounts(s.service.Chart(), txn,
		ledger.WithKnownAccounts(s.config.Accounts()...)) {
		printInfof(s.stderr, "Warning: %s", problem)
	}
	return nil
}
