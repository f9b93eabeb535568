package report

import (
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/shopspring/decimal"
)

// Category selects the transactions of a period report.
type Category string

const (
	CategoryAll     Category = "all"
	CategoryIncome  Category = "income"
	CategoryExpense Category = "expense"
	CategoryTax     Category = "tax"
)

// Categories lists the accepted period report categories.
var Categories = []Category{CategoryAll, CategoryIncome, CategoryExpense, CategoryTax}

// UnknownCategoryError is returned for a category outside Categories.
type UnknownCategoryError struct {
	Category string
}

func (e *UnknownCategoryError) Error() string {
	return fmt.Sprintf("unknown report category %q (expected one of all, income, expense, tax)", e.Category)
}

// ParseCategory parses a period report category. The empty string selects
// CategoryAll.
func ParseCategory(s string) (Category, error) {
	if s == "" {
		return CategoryAll, nil
	}
	c := Category(strings.ToLower(strings.TrimSpace(s)))
	if !slices.Contains(Categories, c) {
		return "", &UnknownCategoryError{Category: s}
	}
	return c, nil
}

// PeriodSummary aggregates the filtered transactions of a period report.
type PeriodSummary struct {
	TotalTransactions int             `json:"totalTransactions"`
	TotalIncome       decimal.Decimal `json:"totalIncome"`
	TotalExpense      decimal.Decimal `json:"totalExpense"`
	NetAmount         decimal.Decimal `json:"netAmount"`
}

// PeriodReport lists the transactions of a date range matching a category.
type PeriodReport struct {
	Start        time.Time            `json:"startDate"`
	End          time.Time            `json:"endDate"`
	Category     Category             `json:"category"`
	Transactions []ledger.Transaction `json:"transactions"`
	Summary      PeriodSummary        `json:"summary"`
}

// ComputePeriodReport filters the transactions dated from start through the
// end of the end day by category and summarizes them. The returned
// transactions are sorted by date, then id; the input is not modified.
func ComputePeriodReport(cfg *Config, txns []ledger.Transaction, start, end time.Time, category Category) (*PeriodReport, error) {
	if err := ledger.CheckRange(start, end); err != nil {
		return nil, err
	}
	if !slices.Contains(Categories, category) {
		return nil, &UnknownCategoryError{Category: string(category)}
	}
	if cfg == nil {
		cfg = NewConfig()
	}

	income := toSet(cfg.Period.Income)
	expense := toSet(cfg.Period.Expense)

	matches := func(t ledger.Transaction) bool {
		switch category {
		case CategoryIncome:
			return income[t.DebitAccount] || income[t.CreditAccount]
		case CategoryExpense:
			return expense[t.DebitAccount]
		case CategoryTax:
			return mentionsAny(t, cfg.Period.TaxKeywords)
		default:
			return true
		}
	}

	rpt := &PeriodReport{
		Start:        start,
		End:          end,
		Category:     category,
		Transactions: []ledger.Transaction{},
	}

	for _, t := range ledger.FilterBetween(txns, start, end) {
		if !matches(t) {
			continue
		}
		rpt.Transactions = append(rpt.Transactions, t)

		if income[t.DebitAccount] || income[t.CreditAccount] {
			rpt.Summary.TotalIncome = rpt.Summary.TotalIncome.Add(t.Amount)
		}
		if expense[t.DebitAccount] || expense[t.CreditAccount] {
			rpt.Summary.TotalExpense = rpt.Summary.TotalExpense.Add(t.Amount)
		}
	}

	ledger.SortTransactions(rpt.Transactions)
	rpt.Summary.TotalTransactions = len(rpt.Transactions)
	rpt.Summary.NetAmount = rpt.Summary.TotalIncome.Sub(rpt.Summary.TotalExpense)

	return rpt, nil
}

// mentionsAny reports whether the description or memo contains one of the
// keywords, ignoring case.
func mentionsAny(t ledger.Transaction, keywords []string) bool {
	description := strings.ToLower(t.Description)
	memo := strings.ToLower(t.Memo)
	for _, kw := range keywords {
		kw = strings.ToLower(kw)
		if kw == "" {
			continue
		}
		if strings.Contains(description, kw) || strings.Contains(memo, kw) {
			return true
		}
	}
	return false
}

func toSet(names []string) map[string]bool {
	set := make(map[string]bool, len(names))
	for _, name := range names {
		set[name] = true
	}
	return set
}
