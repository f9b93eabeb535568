package ledger

import (
	"cmp"
	"slices"

	"github.com/shopspring/decimal"
	"golang.org/x/exp/maps"
)

// AccountBalance is the signed balance of one classified account.
type AccountBalance struct {
	Account  string          `json:"account"`
	Category Category        `json:"category"`
	Balance  decimal.Decimal `json:"balance"`
}

// AggregateBalances folds transactions into per-account balances using the
// normal-balance rule of each account in chart.
//
// The result is a fresh map keyed by account name. It only contains accounts
// registered in chart whose balance is non-zero. Transactions referencing
// unknown accounts still contribute to the known side.
func AggregateBalances(chart *Chart, txns []Transaction) map[string]AccountBalance {
	totals := SumTotals(txns)
	result := make(map[string]AccountBalance)

	names := append(maps.Keys(totals.Debits), maps.Keys(totals.Credits)...)

	for _, name := range sortedStrings(names) {
		acc, ok := chart.Lookup(name)
		if !ok {
			continue
		}
		balance := totals.Net(acc)
		if balance.IsZero() {
			continue
		}
		result[name] = AccountBalance{
			Account:  name,
			Category: acc.Category,
			Balance:  balance,
		}
	}

	return result
}

// SortedBalances returns the balances in chart registration order.
func SortedBalances(chart *Chart, balances map[string]AccountBalance) []AccountBalance {
	out := maps.Values(balances)
	slices.SortFunc(out, func(a, b AccountBalance) int {
		if c := cmp.Compare(chart.Position(a.Account), chart.Position(b.Account)); c != 0 {
			return c
		}
		return cmp.Compare(a.Account, b.Account)
	})
	return out
}

// FilterCategory returns the balances of a single category in chart order.
func FilterCategory(chart *Chart, balances map[string]AccountBalance, category Category) []AccountBalance {
	var out []AccountBalance
	for _, b := range SortedBalances(chart, balances) {
		if b.Category == category {
			out = append(out, b)
		}
	}
	return out
}

// SumBalances adds the balances of the given lines.
func SumBalances(lines []AccountBalance) decimal.Decimal {
	total := decimal.Zero
	for _, l := range lines {
		total = total.Add(l.Balance)
	}
	return total
}

func sortedStrings(names []string) []string {
	slices.Sort(names)
	return slices.Compact(names)
}
