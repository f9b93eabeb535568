package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/output"
	"github.com/robinvdvleuten/bookkeeper/report"
	"github.com/shopspring/decimal"
)

func amount(d decimal.Decimal) string {
	return output.FormatAmount(d)
}

func heading(styles *output.Styles, text string) string {
	if styles == nil {
		return text
	}
	return styles.Heading(text)
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func renderBalances(w io.Writer, styles *output.Styles, lines []ledger.AccountBalance) error {
	table := output.NewTable("Account", "Category", "Balance").AlignRight(2)
	for _, line := range lines {
		table.AddRow(line.Account, line.Category.String(), amount(line.Balance))
	}
	return table.Render(w, styles)
}

func renderBalanceSheet(w io.Writer, styles *output.Styles, sheet *report.BalanceSheet) error {
	_, _ = fmt.Fprintf(w, "%s\n\n", heading(styles, "Balance sheet as of "+sheet.AsOf.Format(ledger.DateLayout)))

	table := output.NewTable("", "").AlignRight(1)
	for i, section := range []report.Section{sheet.Assets, sheet.Liabilities, sheet.Equity} {
		if i > 0 {
			table.AddRow()
		}
		table.AddHeading(section.Title)
		for _, line := range section.Lines {
			table.AddRow("  "+line.Account, amount(line.Balance))
		}
		table.AddTotal("Total "+strings.ToLower(section.Title), amount(section.Total))
	}
	table.AddSeparator()
	table.AddTotal("Total liabilities and equity", amount(sheet.LiabilitiesAndEquity()))

	if err := table.Render(w, styles); err != nil {
		return err
	}

	if !sheet.Balanced() {
		diff := sheet.Assets.Total.Sub(sheet.LiabilitiesAndEquity())
		_, _ = fmt.Fprintln(w)
		printError(w, fmt.Sprintf("Assets differ from liabilities and equity by %s", amount(diff)))
	}
	return nil
}

func renderIncomeStatement(w io.Writer, styles *output.Styles, stmt *report.IncomeStatement) error {
	_, _ = fmt.Fprintf(w, "%s\n\n", heading(styles, fmt.Sprintf("Income statement %s to %s",
		stmt.Start.Format(ledger.DateLayout), stmt.End.Format(ledger.DateLayout))))

	table := output.NewTable("", "").AlignRight(1)
	addSection := func(section report.StatementSection) {
		table.AddHeading(section.Title)
		for _, line := range section.Lines {
			table.AddRow("  "+line.Account, amount(line.Amount))
		}
		table.AddTotal("Total "+strings.ToLower(section.Title), amount(section.Total))
		table.AddRow()
	}

	addSection(stmt.Revenue)
	addSection(stmt.Expense)
	table.AddTotal("Operating income", amount(stmt.OperatingIncome))
	table.AddRow()
	addSection(stmt.OtherIncome)
	addSection(stmt.OtherExpense)
	table.AddSeparator()
	table.AddTotal("Net income", amount(stmt.NetIncome))

	return table.Render(w, styles)
}

func renderTransactions(w io.Writer, styles *output.Styles, txns []ledger.Transaction) error {
	table := output.NewTable("Date", "ID", "Description", "Debit", "Credit", "Amount").AlignRight(5)
	for _, t := range txns {
		table.AddRow(
			t.Date.Format(ledger.DateLayout),
			shortID(t.ID),
			t.Description,
			t.DebitAccount,
			t.CreditAccount,
			amount(t.Amount),
		)
	}
	return table.Render(w, styles)
}

func renderPeriodReport(w io.Writer, styles *output.Styles, rep *report.PeriodReport) error {
	_, _ = fmt.Fprintf(w, "%s\n\n", heading(styles, fmt.Sprintf("Transactions %s to %s (%s)",
		rep.Start.Format(ledger.DateLayout), rep.End.Format(ledger.DateLayout), rep.Category)))

	if len(rep.Transactions) > 0 {
		if err := renderTransactions(w, styles, rep.Transactions); err != nil {
			return err
		}
		_, _ = fmt.Fprintln(w)
	}

	summary := output.NewTable("", "").AlignRight(1)
	summary.AddRow("Transactions", fmt.Sprintf("%d", rep.Summary.TotalTransactions))
	summary.AddRow("Income", amount(rep.Summary.TotalIncome))
	summary.AddRow("Expense", amount(rep.Summary.TotalExpense))
	summary.AddSeparator()
	summary.AddTotal("Net", amount(rep.Summary.NetAmount))
	return summary.Render(w, styles)
}

// shortID abbreviates generated ids for tables. Ids of eight characters or
// fewer are printed as they are.
func shortID(id string) string {
	if len(id) <= 8 {
		return id
	}
	return id[:8]
}
