package report

import (
	"time"

	"github.com/robinvdvleuten/bookkeeper/ledger"
)

func day(s string) time.Time {
	d, err := ledger.ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func txn(id, date, amount, debit, credit string) ledger.Transaction {
	return ledger.Transaction{
		ID:            id,
		Date:          day(date),
		Description:   "entry " + id,
		Amount:        ledger.MustParseAmount(amount),
		DebitAccount:  debit,
		CreditAccount: credit,
	}
}

// salesAndRent is the reference fixture: one sale and one rent payment.
func salesAndRent() []ledger.Transaction {
	return []ledger.Transaction{
		txn("t1", "2024-01-15", "100000", ledger.Cash, ledger.Sales),
		txn("t2", "2024-01-20", "40000", ledger.Rent, ledger.Cash),
	}
}
