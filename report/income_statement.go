package report

import (
	"time"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/shopspring/decimal"
)

// StatementLine is one account amount of an income statement section.
type StatementLine struct {
	Account string          `json:"account"`
	Amount  decimal.Decimal `json:"amount"`
}

// StatementSection is one section of the income statement.
type StatementSection struct {
	Title string          `json:"title"`
	Lines []StatementLine `json:"lines"`
	Total decimal.Decimal `json:"total"`
}

// IncomeStatement summarizes revenue and expenses over a date range.
type IncomeStatement struct {
	Start           time.Time        `json:"startDate"`
	End             time.Time        `json:"endDate"`
	Revenue         StatementSection `json:"revenue"`
	Expense         StatementSection `json:"expense"`
	OtherIncome     StatementSection `json:"otherIncome"`
	OtherExpense    StatementSection `json:"otherExpense"`
	OperatingIncome decimal.Decimal  `json:"operatingIncome"`
	NetIncome       decimal.Decimal  `json:"netIncome"`
}

// ComputeIncomeStatement builds the income statement for transactions dated
// from start through the end of the end day.
//
// Each section sums the amounts of the transactions that touch one of its
// accounts. Revenue and other income look at the credit side first, expenses
// and other expenses at the debit side first. Amounts are not signed by side.
// An account listed in several sections is counted in each of them.
func ComputeIncomeStatement(cfg *Config, txns []ledger.Transaction, start, end time.Time) (*IncomeStatement, error) {
	if err := ledger.CheckRange(start, end); err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = NewConfig()
	}

	period := ledger.FilterBetween(txns, start, end)
	accounts := cfg.IncomeStatement

	stmt := &IncomeStatement{
		Start:        start,
		End:          end,
		Revenue:      classify("Revenue", accounts.Revenue, creditFirst, period),
		Expense:      classify("Expenses", accounts.Expense, debitFirst, period),
		OtherIncome:  classify("Other income", accounts.OtherIncome, creditFirst, period),
		OtherExpense: classify("Other expenses", accounts.OtherExpense, debitFirst, period),
	}

	stmt.OperatingIncome = stmt.Revenue.Total.Sub(stmt.Expense.Total)
	stmt.NetIncome = stmt.OperatingIncome.Add(stmt.OtherIncome.Total).Sub(stmt.OtherExpense.Total)

	return stmt, nil
}

// side selects which account of a transaction a section checks first.
type side int

const (
	creditFirst side = iota
	debitFirst
)

// classify buckets the transactions by the listed accounts. A transaction
// lands in the bucket of its preferred side's account if listed, else of the
// other side's account if listed. Only strictly positive buckets become
// lines, in list order.
func classify(title string, list []string, prefer side, txns []ledger.Transaction) StatementSection {
	listed := make(map[string]bool, len(list))
	for _, name := range list {
		listed[name] = true
	}

	buckets := make(map[string]decimal.Decimal, len(list))
	for _, t := range txns {
		first, second := t.CreditAccount, t.DebitAccount
		if prefer == debitFirst {
			first, second = second, first
		}
		switch {
		case listed[first]:
			buckets[first] = buckets[first].Add(t.Amount)
		case listed[second]:
			buckets[second] = buckets[second].Add(t.Amount)
		}
	}

	section := StatementSection{Title: title, Lines: []StatementLine{}}
	seen := make(map[string]bool, len(list))
	for _, name := range list {
		if seen[name] {
			continue
		}
		seen[name] = true

		amount := buckets[name]
		if !amount.IsPositive() {
			continue
		}
		section.Lines = append(section.Lines, StatementLine{Account: name, Amount: amount})
		section.Total = section.Total.Add(amount)
	}

	return section
}
