// Package report builds the read-time projections over a set of
// transactions: the balance sheet, the income statement and the period
// report. Builders are pure functions over a snapshot; Service wires them to
// a transaction source.
package report

import (
	"time"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/shopspring/decimal"
)

// NetIncomeLine is the account name of the synthetic equity line carrying
// the net income of the period.
const NetIncomeLine = "Net income for the period"

// Section is one classified block of the balance sheet.
type Section struct {
	Title    string                  `json:"title"`
	Category ledger.Category         `json:"category"`
	Lines    []ledger.AccountBalance `json:"lines"`
	Total    decimal.Decimal         `json:"total"`
}

// BalanceSheet is the classified statement of position as of a cutoff day.
type BalanceSheet struct {
	AsOf        time.Time       `json:"asOf"`
	Assets      Section         `json:"assets"`
	Liabilities Section         `json:"liabilities"`
	Equity      Section         `json:"equity"`
	NetIncome   decimal.Decimal `json:"netIncome"`
}

// Balanced reports whether assets equal liabilities plus equity. It is
// informative only; unbalanced input is never rejected.
func (b *BalanceSheet) Balanced() bool {
	return b.Assets.Total.Equal(b.Liabilities.Total.Add(b.Equity.Total))
}

// LiabilitiesAndEquity returns the sum of the liabilities and equity totals.
func (b *BalanceSheet) LiabilitiesAndEquity() decimal.Decimal {
	return b.Liabilities.Total.Add(b.Equity.Total)
}

// ComputeBalanceSheet builds the balance sheet from all transactions dated
// on or before the end of the asOf day. Net income of revenue and expense
// accounts is rolled into equity as a synthetic line when non-zero.
func ComputeBalanceSheet(chart *ledger.Chart, txns []ledger.Transaction, asOf time.Time) *BalanceSheet {
	balances := ledger.AggregateBalances(chart, ledger.FilterUntil(txns, asOf))

	sheet := &BalanceSheet{
		AsOf:        asOf,
		Assets:      newSection("Assets", ledger.CategoryAsset, chart, balances),
		Liabilities: newSection("Liabilities", ledger.CategoryLiability, chart, balances),
		Equity:      newSection("Equity", ledger.CategoryEquity, chart, balances),
	}

	revenue := ledger.SumBalances(ledger.FilterCategory(chart, balances, ledger.CategoryRevenue))
	expense := ledger.SumBalances(ledger.FilterCategory(chart, balances, ledger.CategoryExpense))
	sheet.NetIncome = revenue.Sub(expense)

	if !sheet.NetIncome.IsZero() {
		sheet.Equity.Lines = append(sheet.Equity.Lines, ledger.AccountBalance{
			Account:  NetIncomeLine,
			Category: ledger.CategoryEquity,
			Balance:  sheet.NetIncome,
		})
		sheet.Equity.Total = sheet.Equity.Total.Add(sheet.NetIncome)
	}

	return sheet
}

func newSection(title string, category ledger.Category, chart *ledger.Chart, balances map[string]ledger.AccountBalance) Section {
	lines := ledger.FilterCategory(chart, balances, category)
	if lines == nil {
		lines = []ledger.AccountBalance{}
	}
	return Section{
		Title:    title,
		Category: category,
		Lines:    lines,
		Total:    ledger.SumBalances(lines),
	}
}
