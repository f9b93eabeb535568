// Package ledger provides the double-entry core of the bookkeeper: the
// account classification table, transactions, and the balance aggregator that
// folds transactions into per-account balances.
//
// Every transaction moves one amount from a credit account to a debit account.
// Balances follow the normal-balance rule of each account: debit-normal accounts
// (assets, expenses) grow with debits, credit-normal accounts (liabilities,
// equity, revenue) grow with credits. All arithmetic uses decimal amounts.
//
// Example usage:
//
//	chart := ledger.DefaultChart()
//	balances := ledger.AggregateBalances(chart, txns)
//	for _, b := range ledger.SortedBalances(chart, balances) {
//	    fmt.Println(b.Account, b.Balance)
//	}
//
// Aggregation never fails. Use Validate to find transactions that reference
// unknown accounts or carry invalid amounts:
//
//	if err := ledger.Validate(chart, txns); err != nil {
//	    if verr, ok := err.(*ledger.ValidationErrors); ok {
//	        for _, e := range verr.Errors {
//	            fmt.Println(e)
//	        }
//	    }
//	}
package ledger

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// ValidationErrors wraps multiple validation errors
type ValidationErrors struct {
	Errors []error
}

func (e *ValidationErrors) Error() string {
	if len(e.Errors) == 1 {
		return e.Errors[0].Error()
	}
	return fmt.Sprintf("%d validation errors occurred", len(e.Errors))
}

// Unwrap returns the underlying errors for error unwrapping
func (e *ValidationErrors) Unwrap() []error {
	return e.Errors
}

// Totals holds the raw debit and credit sums per account name. Unknown
// accounts are tracked as well so that callers can report on them; the
// aggregator drops them from its result.
type Totals struct {
	Debits  map[string]decimal.Decimal
	Credits map[string]decimal.Decimal
}

// SumTotals folds transactions into per-account debit and credit sums.
// The input is not modified.
func SumTotals(txns []Transaction) Totals {
	totals := Totals{
		Debits:  make(map[string]decimal.Decimal),
		Credits: make(map[string]decimal.Decimal),
	}

	for _, t := range txns {
		totals.Debits[t.DebitAccount] = totals.Debits[t.DebitAccount].Add(t.Amount)
		totals.Credits[t.CreditAccount] = totals.Credits[t.CreditAccount].Add(t.Amount)
	}

	return totals
}

// Debit returns the total debited to account.
func (t Totals) Debit(account string) decimal.Decimal {
	return t.Debits[account]
}

// Credit returns the total credited to account.
func (t Totals) Credit(account string) decimal.Decimal {
	return t.Credits[account]
}

// Net returns the signed balance of account following its normal-balance
// side: debits minus credits for debit-normal accounts, the opposite otherwise.
func (t Totals) Net(acc Account) decimal.Decimal {
	if acc.DebitNormal {
		return t.Debit(acc.Name).Sub(t.Credit(acc.Name))
	}
	return t.Credit(acc.Name).Sub(t.Debit(acc.Name))
}

// Unknown returns the account names referenced by the totals that are not
// registered in chart.
func (t Totals) Unknown(chart *Chart) []string {
	seen := make(map[string]bool)
	var names []string
	collect := func(m map[string]decimal.Decimal) {
		for name := range m {
			if _, ok := chart.Lookup(name); ok || seen[name] {
				continue
			}
			seen[name] = true
			names = append(names, name)
		}
	}
	collect(t.Debits)
	collect(t.Credits)
	return sortedStrings(names)
}
