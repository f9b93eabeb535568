package cli

import (
	stdErrors "errors"
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/report"
)

// CheckCmd runs the validation pass over every stored transaction. Reports
// never reject data, so this is where problems surface.
type CheckCmd struct {
	AsOf Date `help:"Day to compare assets with liabilities and equity (default: today)." placeholder:"YYYY-MM-DD"`
}

func (cmd *CheckCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "check")
	if err != nil {
		return err
	}
	defer s.Close()

	txns, err := s.service.Snapshot(s.ctx)
	if err != nil {
		return err
	}

	failed := false

	for _, rowErr := range s.result.RowErrors {
		printError(ctx.Stderr, rowErr.Error())
		failed = true
	}

	chart := s.service.Chart()
	if err := ledger.Validate(chart, txns, ledger.WithKnownAccounts(s.config.Accounts()...)); err != nil {
		var validationErrors *ledger.ValidationErrors
		if !stdErrors.As(err, &validationErrors) {
			return err
		}

		renderer := NewErrorRenderer(txns)
		_, _ = fmt.Fprintln(ctx.Stderr, renderer.RenderAll(validationErrors.Errors))
		_, _ = fmt.Fprintln(ctx.Stderr)
		printError(ctx.Stderr, fmt.Sprintf("%d validation error(s) found", len(validationErrors.Errors)))
		failed = true
	}

	sheet := report.ComputeBalanceSheet(chart, txns, cmd.AsOf.Or(today()))
	if !sheet.Balanced() {
		printInfof(ctx.Stderr, "Balance sheet does not balance as of %s: assets %s, liabilities and equity %s",
			sheet.AsOf.Format(ledger.DateLayout), amount(sheet.Assets.Total), amount(sheet.LiabilitiesAndEquity()))
	}

	if failed {
		return NewCommandError(1)
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Check passed (%d transactions)", len(txns)))
	return nil
}
