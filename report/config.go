package report

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/robinvdvleuten/bookkeeper/ledger"
)

// Setting keys read by ConfigFromSettings. Values are comma-separated
// account names or keywords.
const (
	SettingRevenueAccounts       = "income_statement.revenue"
	SettingExpenseAccounts       = "income_statement.expense"
	SettingOtherIncomeAccounts   = "income_statement.other_income"
	SettingOtherExpenseAccounts  = "income_statement.other_expense"
	SettingPeriodIncomeAccounts  = "period.income"
	SettingPeriodExpenseAccounts = "period.expense"
	SettingTaxKeywords           = "period.tax_keywords"
)

// IncomeStatementAccounts are the four account lists the income statement
// classifies by. The lists are independent; an account may appear in more
// than one of them.
type IncomeStatementAccounts struct {
	Revenue      []string
	Expense      []string
	OtherIncome  []string
	OtherExpense []string
}

// PeriodAccounts configures the period report filter.
type PeriodAccounts struct {
	Income      []string
	Expense     []string
	TaxKeywords []string
}

// Config holds the account lists used by the reports, keyed by report type.
type Config struct {
	IncomeStatement IncomeStatementAccounts
	Period          PeriodAccounts
}

// NewConfig creates a Config with the built-in account lists.
func NewConfig() *Config {
	return &Config{
		IncomeStatement: IncomeStatementAccounts{
			Revenue: []string{ledger.Sales, ledger.OwnersCapital, ledger.InterestIncome, ledger.OtherIncome},
			Expense: []string{
				ledger.Purchases, ledger.Travel, ledger.Communication, ledger.Supplies,
				ledger.Utilities, ledger.Rent, ledger.Miscellaneous, ledger.Depreciation,
			},
			OtherIncome:  []string{ledger.InterestIncome, ledger.OtherIncome},
			OtherExpense: []string{ledger.InterestExpense, ledger.OtherExpenses},
		},
		Period: PeriodAccounts{
			Income: []string{ledger.Sales, ledger.OwnersCapital},
			Expense: []string{
				ledger.Purchases, ledger.Travel, ledger.Communication, ledger.Supplies,
				ledger.Utilities, ledger.Rent, ledger.Miscellaneous,
			},
			TaxKeywords: []string{"tax", "税"},
		},
	}
}

// ConfigFromSettings builds a Config from stored settings. Keys that are
// absent keep their defaults; unknown keys are ignored.
func ConfigFromSettings(settings map[string]string) (*Config, error) {
	cfg := NewConfig()

	targets := map[string]*[]string{
		SettingRevenueAccounts:       &cfg.IncomeStatement.Revenue,
		SettingExpenseAccounts:       &cfg.IncomeStatement.Expense,
		SettingOtherIncomeAccounts:   &cfg.IncomeStatement.OtherIncome,
		SettingOtherExpenseAccounts:  &cfg.IncomeStatement.OtherExpense,
		SettingPeriodIncomeAccounts:  &cfg.Period.Income,
		SettingPeriodExpenseAccounts: &cfg.Period.Expense,
		SettingTaxKeywords:           &cfg.Period.TaxKeywords,
	}

	for key, target := range targets {
		value, ok := settings[key]
		if !ok {
			continue
		}
		list := splitList(value)
		if len(list) == 0 {
			return nil, fmt.Errorf("invalid setting %q: list must not be empty", key)
		}
		*target = list
	}

	return cfg, nil
}

// Settings returns the config as settings records, the inverse of
// ConfigFromSettings.
func (c *Config) Settings() map[string]string {
	return map[string]string{
		SettingRevenueAccounts:       strings.Join(c.IncomeStatement.Revenue, ","),
		SettingExpenseAccounts:       strings.Join(c.IncomeStatement.Expense, ","),
		SettingOtherIncomeAccounts:   strings.Join(c.IncomeStatement.OtherIncome, ","),
		SettingOtherExpenseAccounts:  strings.Join(c.IncomeStatement.OtherExpense, ","),
		SettingPeriodIncomeAccounts:  strings.Join(c.Period.Income, ","),
		SettingPeriodExpenseAccounts: strings.Join(c.Period.Expense, ","),
		SettingTaxKeywords:           strings.Join(c.Period.TaxKeywords, ","),
	}
}

// Accounts returns every account name referenced by the lists, sorted and
// without duplicates.
func (c *Config) Accounts() []string {
	var names []string
	names = append(names, c.IncomeStatement.Revenue...)
	names = append(names, c.IncomeStatement.Expense...)
	names = append(names, c.IncomeStatement.OtherIncome...)
	names = append(names, c.IncomeStatement.OtherExpense...)
	names = append(names, c.Period.Income...)
	names = append(names, c.Period.Expense...)
	slices.Sort(names)
	return slices.Compact(names)
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

// contextKey is a private type to avoid key collisions in context.
type contextKey struct{}

// WithContext returns a new context with the Config attached.
func (c *Config) WithContext(ctx context.Context) context.Context {
	return context.WithValue(ctx, contextKey{}, c)
}

// ConfigFromContext retrieves the Config from context.
// Returns a default Config if not found.
func ConfigFromContext(ctx context.Context) *Config {
	if cfg, ok := ctx.Value(contextKey{}).(*Config); ok {
		return cfg
	}
	return NewConfig()
}
