package ledger

import (
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"
)

func newTxn(id, date, amount, debit, credit string) Transaction {
	d, err := ParseDate(date)
	if err != nil {
		panic(err)
	}
	return Transaction{
		ID:            id,
		Date:          d,
		Description:   "test " + id,
		Amount:        MustParseAmount(amount),
		DebitAccount:  debit,
		CreditAccount: credit,
	}
}

func TestAggregateBalances(t *testing.T) {
	chart := DefaultChart()

	t.Run("AssetToAssetTransfer", func(t *testing.T) {
		txns := []Transaction{
			newTxn("1", "2024-01-10", "1000", BankDeposits, Cash),
		}

		balances := AggregateBalances(chart, txns)
		assert.Equal(t, 2, len(balances))
		assert.Equal(t, "1000", balances[BankDeposits].Balance.String())
		assert.Equal(t, "-1000", balances[Cash].Balance.String())
		assert.Equal(t, CategoryAsset, balances[Cash].Category)
	})

	t.Run("SalesAndRent", func(t *testing.T) {
		txns := []Transaction{
			newTxn("1", "2024-01-15", "100000", Cash, Sales),
			newTxn("2", "2024-01-20", "40000", Rent, Cash),
		}

		balances := AggregateBalances(chart, txns)
		assert.Equal(t, "60000", balances[Cash].Balance.String())
		assert.Equal(t, "100000", balances[Sales].Balance.String())
		assert.Equal(t, "40000", balances[Rent].Balance.String())
		assert.Equal(t, CategoryRevenue, balances[Sales].Category)
		assert.Equal(t, CategoryExpense, balances[Rent].Category)
	})

	t.Run("CreditNormalAccounts", func(t *testing.T) {
		txns := []Transaction{
			newTxn("1", "2024-02-01", "500000", BankDeposits, LoansPayable),
			newTxn("2", "2024-02-10", "100000", LoansPayable, BankDeposits),
		}

		balances := AggregateBalances(chart, txns)
		assert.Equal(t, "400000", balances[LoansPayable].Balance.String())
		assert.Equal(t, "400000", balances[BankDeposits].Balance.String())
	})

	t.Run("ZeroBalancesExcluded", func(t *testing.T) {
		txns := []Transaction{
			newTxn("1", "2024-01-10", "250", Cash, Capital),
			newTxn("2", "2024-01-11", "250", Capital, Cash),
		}

		balances := AggregateBalances(chart, txns)
		assert.Equal(t, 0, len(balances))
	})

	t.Run("SameAccountBothSides", func(t *testing.T) {
		txns := []Transaction{
			newTxn("1", "2024-01-10", "300", Cash, Cash),
		}

		balances := AggregateBalances(chart, txns)
		_, ok := balances[Cash]
		assert.False(t, ok)
	})

	t.Run("UnknownAccountsExcluded", func(t *testing.T) {
		txns := []Transaction{
			newTxn("1", "2024-01-10", "700", Cash, "Mystery"),
			newTxn("2", "2024-01-11", "50", "", Cash),
		}

		balances := AggregateBalances(chart, txns)
		assert.Equal(t, 1, len(balances))
		assert.Equal(t, "650", balances[Cash].Balance.String())
		_, ok := balances["Mystery"]
		assert.False(t, ok)
	})

	t.Run("EmptyInput", func(t *testing.T) {
		balances := AggregateBalances(chart, nil)
		assert.True(t, balances != nil)
		assert.Equal(t, 0, len(balances))
	})

	t.Run("Idempotent", func(t *testing.T) {
		txns := []Transaction{
			newTxn("1", "2024-01-15", "100000", Cash, Sales),
			newTxn("2", "2024-01-20", "40000", Rent, Cash),
			newTxn("3", "2024-01-21", "1234.56", Supplies, AccountsPayable),
		}

		first := AggregateBalances(chart, txns)
		second := AggregateBalances(chart, txns)
		assert.Equal(t, len(first), len(second))
		for name, b := range first {
			assert.True(t, b.Balance.Equal(second[name].Balance), "balance of %s differs", name)
		}
	})

	t.Run("FreshMapPerCall", func(t *testing.T) {
		txns := []Transaction{newTxn("1", "2024-01-15", "10", Cash, Sales)}

		first := AggregateBalances(chart, txns)
		delete(first, Cash)
		second := AggregateBalances(chart, txns)
		_, ok := second[Cash]
		assert.True(t, ok)
	})

	t.Run("InputNotModified", func(t *testing.T) {
		txns := []Transaction{
			newTxn("b", "2024-03-01", "10", Cash, Sales),
			newTxn("a", "2024-01-01", "20", Rent, Cash),
		}

		AggregateBalances(chart, txns)
		assert.Equal(t, "b", txns[0].ID)
		assert.Equal(t, "a", txns[1].ID)
	})

	t.Run("OrderIndependent", func(t *testing.T) {
		a := newTxn("1", "2024-01-15", "100000", Cash, Sales)
		b := newTxn("2", "2024-01-20", "40000", Rent, Cash)

		forward := AggregateBalances(chart, []Transaction{a, b})
		backward := AggregateBalances(chart, []Transaction{b, a})
		for name, bal := range forward {
			assert.True(t, bal.Balance.Equal(backward[name].Balance))
		}
	})
}

func TestSumTotalsTracksUnknownAccounts(t *testing.T) {
	chart := DefaultChart()
	txns := []Transaction{
		newTxn("1", "2024-01-10", "700", Cash, "Mystery"),
		newTxn("2", "2024-01-11", "5", "Other Mystery", Sales),
	}

	totals := SumTotals(txns)
	assert.Equal(t, "700", totals.Credit("Mystery").String())
	assert.Equal(t, "0", totals.Debit("Mystery").String())
	assert.Equal(t, []string{"Mystery", "Other Mystery"}, totals.Unknown(chart))
}

func TestSortedBalancesUsesChartOrder(t *testing.T) {
	chart := DefaultChart()
	txns := []Transaction{
		newTxn("1", "2024-01-15", "100", Rent, Sales),
		newTxn("2", "2024-01-16", "100", Cash, Capital),
		newTxn("3", "2024-01-17", "50", Inventory, AccountsPayable),
	}

	sorted := SortedBalances(chart, AggregateBalances(chart, txns))
	var names []string
	for _, b := range sorted {
		names = append(names, b.Account)
	}
	assert.Equal(t, []string{Cash, Inventory, AccountsPayable, Capital, Sales, Rent}, names)

	assets := FilterCategory(chart, AggregateBalances(chart, txns), CategoryAsset)
	assert.Equal(t, 2, len(assets))
	assert.True(t, SumBalances(assets).Equal(decimal.NewFromInt(150)))
}

func TestEndOfDay(t *testing.T) {
	loc := time.FixedZone("JST", 9*60*60)
	day := time.Date(2024, 3, 31, 8, 15, 0, 0, loc)

	end := EndOfDay(day)
	assert.Equal(t, time.Date(2024, 3, 31, 23, 59, 59, 999999999, loc), end)
	assert.Equal(t, loc, end.Location())
	assert.True(t, end.Add(time.Nanosecond).Day() == 1)
	assert.Equal(t, time.Date(2024, 3, 31, 0, 0, 0, 0, loc), StartOfDay(day))
}
