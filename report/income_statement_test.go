package report

import (
	"errors"
	"testing"

	"github.com/alecthomas/assert/v2"

	"github.com/robinvdvleuten/bookkeeper/ledger"
)

func TestComputeIncomeStatement(t *testing.T) {
	cfg := NewConfig()

	t.Run("SalesAndRent", func(t *testing.T) {
		stmt, err := ComputeIncomeStatement(cfg, salesAndRent(), day("2024-01-01"), day("2024-01-31"))
		assert.NoError(t, err)

		assert.Equal(t, 1, len(stmt.Revenue.Lines))
		assert.Equal(t, ledger.Sales, stmt.Revenue.Lines[0].Account)
		assert.Equal(t, "100000", stmt.Revenue.Lines[0].Amount.String())
		assert.Equal(t, "100000", stmt.Revenue.Total.String())
		assert.Equal(t, 1, len(stmt.Expense.Lines))
		assert.Equal(t, ledger.Rent, stmt.Expense.Lines[0].Account)
		assert.Equal(t, "40000", stmt.Expense.Total.String())
		assert.Equal(t, 0, len(stmt.OtherIncome.Lines))
		assert.Equal(t, 0, len(stmt.OtherExpense.Lines))
		assert.Equal(t, "60000", stmt.OperatingIncome.String())
		assert.Equal(t, "60000", stmt.NetIncome.String())
	})

	t.Run("RangeBoundsInclusive", func(t *testing.T) {
		txns := []ledger.Transaction{
			txn("before", "2023-12-31", "1", ledger.Cash, ledger.Sales),
			txn("first", "2024-01-01", "10", ledger.Cash, ledger.Sales),
			txn("last", "2024-01-31", "100", ledger.Cash, ledger.Sales),
			txn("after", "2024-02-01", "1000", ledger.Cash, ledger.Sales),
		}

		stmt, err := ComputeIncomeStatement(cfg, txns, day("2024-01-01"), day("2024-01-31"))
		assert.NoError(t, err)
		assert.Equal(t, "110", stmt.Revenue.Total.String())
	})

	t.Run("SingleDayRange", func(t *testing.T) {
		stmt, err := ComputeIncomeStatement(cfg, salesAndRent(), day("2024-01-15"), day("2024-01-15"))
		assert.NoError(t, err)
		assert.Equal(t, "100000", stmt.NetIncome.String())
	})

	t.Run("InvalidRange", func(t *testing.T) {
		stmt, err := ComputeIncomeStatement(cfg, salesAndRent(), day("2024-02-01"), day("2024-01-31"))
		assert.Error(t, err)
		assert.Zero(t, stmt)
		assert.Contains(t, err.Error(), "after")

		var rangeErr *ledger.InvalidDateRangeError
		assert.True(t, errors.As(err, &rangeErr))
	})

	t.Run("CreditSideWins", func(t *testing.T) {
		// Sales is credited, Purchases debited: the revenue section takes the
		// credit side, the expense section finds Purchases on the debit side.
		txns := []ledger.Transaction{txn("t1", "2024-01-10", "500", ledger.Purchases, ledger.Sales)}

		stmt, err := ComputeIncomeStatement(cfg, txns, day("2024-01-01"), day("2024-01-31"))
		assert.NoError(t, err)
		assert.Equal(t, "500", stmt.Revenue.Total.String())
		assert.Equal(t, "500", stmt.Expense.Total.String())
		assert.True(t, stmt.OperatingIncome.IsZero())
	})

	t.Run("SidePreferencePerSection", func(t *testing.T) {
		// Both sides listed in one section: expenses take the debit account,
		// revenue takes the credit account.
		txns := []ledger.Transaction{
			txn("t1", "2024-01-10", "100", ledger.Rent, ledger.Purchases),
			txn("t2", "2024-01-11", "300", ledger.OwnersCapital, ledger.Sales),
			txn("t3", "2024-01-12", "20", ledger.InterestExpense, ledger.OtherExpenses),
		}

		stmt, err := ComputeIncomeStatement(cfg, txns, day("2024-01-01"), day("2024-01-31"))
		assert.NoError(t, err)
		assert.Equal(t, 1, len(stmt.Expense.Lines))
		assert.Equal(t, ledger.Rent, stmt.Expense.Lines[0].Account)
		assert.Equal(t, "100", stmt.Expense.Lines[0].Amount.String())
		assert.Equal(t, 1, len(stmt.Revenue.Lines))
		assert.Equal(t, ledger.Sales, stmt.Revenue.Lines[0].Account)
		assert.Equal(t, 1, len(stmt.OtherExpense.Lines))
		assert.Equal(t, ledger.InterestExpense, stmt.OtherExpense.Lines[0].Account)
	})

	t.Run("NoSignLogic", func(t *testing.T) {
		// A refund debiting Sales still adds to the Sales bucket.
		txns := []ledger.Transaction{
			txn("t1", "2024-01-10", "1000", ledger.Cash, ledger.Sales),
			txn("t2", "2024-01-11", "200", ledger.Sales, ledger.Cash),
		}

		stmt, err := ComputeIncomeStatement(cfg, txns, day("2024-01-01"), day("2024-01-31"))
		assert.NoError(t, err)
		assert.Equal(t, "1200", stmt.Revenue.Total.String())
	})

	t.Run("OverlappingListsCountOncePerSection", func(t *testing.T) {
		txns := []ledger.Transaction{
			txn("t1", "2024-01-10", "300", ledger.BankDeposits, ledger.InterestIncome),
			txn("t2", "2024-01-12", "50", ledger.InterestExpense, ledger.Cash),
		}

		stmt, err := ComputeIncomeStatement(cfg, txns, day("2024-01-01"), day("2024-01-31"))
		assert.NoError(t, err)
		assert.Equal(t, "300", stmt.Revenue.Total.String())
		assert.Equal(t, "300", stmt.OtherIncome.Total.String())
		assert.Equal(t, ledger.InterestIncome, stmt.OtherIncome.Lines[0].Account)
		assert.Equal(t, "50", stmt.OtherExpense.Total.String())
		assert.Equal(t, "300", stmt.OperatingIncome.String())
		assert.Equal(t, "550", stmt.NetIncome.String())
	})

	t.Run("LinesInConfiguredOrder", func(t *testing.T) {
		txns := []ledger.Transaction{
			txn("t1", "2024-01-10", "10", ledger.Rent, ledger.Cash),
			txn("t2", "2024-01-10", "20", ledger.Purchases, ledger.Cash),
			txn("t3", "2024-01-10", "0", ledger.Travel, ledger.Cash),
		}

		stmt, err := ComputeIncomeStatement(cfg, txns, day("2024-01-01"), day("2024-01-31"))
		assert.NoError(t, err)
		assert.Equal(t, 2, len(stmt.Expense.Lines))
		assert.Equal(t, ledger.Purchases, stmt.Expense.Lines[0].Account)
		assert.Equal(t, ledger.Rent, stmt.Expense.Lines[1].Account)
	})

	t.Run("NilConfigUsesDefaults", func(t *testing.T) {
		stmt, err := ComputeIncomeStatement(nil, salesAndRent(), day("2024-01-01"), day("2024-01-31"))
		assert.NoError(t, err)
		assert.Equal(t, "60000", stmt.NetIncome.String())
	})
}
