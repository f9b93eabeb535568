package cli

import (
	"github.com/alecthomas/kong"
	"github.com/alecthomas/repr"

	"github.com/robinvdvleuten/bookkeeper/ledger"
)

// DoctorCmd provides doctor utilities for debugging data files.
type DoctorCmd struct {
	Dump  DumpCmd  `cmd:"" help:"Print the stored transactions as Go values."`
	Chart ChartCmd `cmd:"" help:"Print the chart of accounts."`
}

// DumpCmd prints every stored record exactly as it was loaded.
type DumpCmd struct {
	Settings bool `help:"Also print the stored settings."`
}

// Run executes the dump command.
func (cmd *DumpCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "doctor dump")
	if err != nil {
		return err
	}
	defer s.Close()

	txns, err := s.service.Snapshot(s.ctx)
	if err != nil {
		return err
	}
	ledger.SortTransactions(txns)

	printer := repr.New(ctx.Stdout, repr.Indent("  "))
	for _, t := range txns {
		printer.Println(t)
	}

	if cmd.Settings {
		settings, err := s.result.Store.Settings(s.ctx)
		if err != nil {
			return ledger.NewStorageUnavailableError("read settings", err)
		}
		printer.Println(settings)
	}

	return nil
}

// ChartCmd prints the classification table in report order.
type ChartCmd struct{}

// Run executes the chart command.
func (cmd *ChartCmd) Run(ctx *kong.Context, globals *Globals) error {
	printer := repr.New(ctx.Stdout, repr.Indent("  "))
	for _, acc := range ledger.DefaultChart().Accounts() {
		printer.Println(acc)
	}
	return nil
}
