package cli

import (
	"fmt"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/output"
	"github.com/robinvdvleuten/bookkeeper/report"
)

type BalancesCmd struct {
	Category string `help:"Only show accounts of this category (asset, liability, equity, revenue, expense)." short:"c"`
	JSON     bool   `help:"Print balances as JSON."`
}

func (cmd *BalancesCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "balances")
	if err != nil {
		return err
	}
	defer s.Close()

	lines, err := s.service.Balances(s.ctx)
	if err != nil {
		return err
	}

	if cmd.Category != "" {
		category, err := ledger.ParseCategory(cmd.Category)
		if err != nil {
			return err
		}
		filtered := lines[:0:0]
		for _, line := range lines {
			if line.Category == category {
				filtered = append(filtered, line)
			}
		}
		lines = filtered
	}

	if cmd.JSON {
		return writeJSON(ctx.Stdout, lines)
	}
	if len(lines) == 0 {
		printInfof(ctx.Stdout, "No balances")
		return nil
	}
	return renderBalances(ctx.Stdout, output.NewStyles(ctx.Stdout), lines)
}

type BalanceSheetCmd struct {
	AsOf Date `help:"Include transactions up to the end of this day (default: today)." placeholder:"YYYY-MM-DD"`
	JSON bool `help:"Print the balance sheet as JSON."`
}

func (cmd *BalanceSheetCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "balance-sheet")
	if err != nil {
		return err
	}
	defer s.Close()

	sheet, err := s.service.BalanceSheet(s.ctx, cmd.AsOf.Or(today()))
	if err != nil {
		return err
	}

	if cmd.JSON {
		return writeJSON(ctx.Stdout, sheet)
	}
	return renderBalanceSheet(ctx.Stdout, output.NewStyles(ctx.Stdout), sheet)
}

type IncomeStatementCmd struct {
	Start Date `help:"First day of the period (default: January 1st of this year)." placeholder:"YYYY-MM-DD"`
	End   Date `help:"Last day of the period (default: today)." placeholder:"YYYY-MM-DD"`
	JSON  bool `help:"Print the income statement as JSON."`
}

func (cmd *IncomeStatementCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "income-statement")
	if err != nil {
		return err
	}
	defer s.Close()

	end := cmd.End.Or(today())
	stmt, err := s.service.IncomeStatement(s.ctx, cmd.Start.Or(startOfYear(end)), end)
	if err != nil {
		return err
	}

	if cmd.JSON {
		return writeJSON(ctx.Stdout, stmt)
	}
	return renderIncomeStatement(ctx.Stdout, output.NewStyles(ctx.Stdout), stmt)
}

type ReportCmd struct {
	Start    Date   `help:"First day of the period (default: first day of this month)." placeholder:"YYYY-MM-DD"`
	End      Date   `help:"Last day of the period (default: today)." placeholder:"YYYY-MM-DD"`
	Category string `help:"Transactions to include: ${enum}." enum:"all,income,expense,tax" default:"all" short:"c"`
	JSON     bool   `help:"Print the report as JSON."`
}

func (cmd *ReportCmd) Run(ctx *kong.Context, globals *Globals) error {
	category, err := report.ParseCategory(cmd.Category)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, globals, fmt.Sprintf("report %s", category))
	if err != nil {
		return err
	}
	defer s.Close()

	end := cmd.End.Or(today())
	start := cmd.Start.Or(end.AddDate(0, 0, 1-end.Day()))

	rep, err := s.service.PeriodReport(s.ctx, start, end, category)
	if err != nil {
		return err
	}

	if cmd.JSON {
		return writeJSON(ctx.Stdout, rep)
	}
	return renderPeriodReport(ctx.Stdout, output.NewStyles(ctx.Stdout), rep)
}
