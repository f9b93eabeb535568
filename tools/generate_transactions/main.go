// Transaction File Generator
//
// This tool generates a large transaction CSV for performance testing and profiling.
// It creates realistic transactions over the default chart of accounts to stress-test
// loading, aggregation and the reports.
//
// Usage:
//
//	go run main.go > large.csv
//	go run main.go 200000 > large.csv  # Specify number of transactions
package main

import (
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/bookkeeper/backup"
	"github.com/robinvdvleuten/bookkeeper/ledger"
)

const (
	defaultCount = 100_000
)

// template is a plausible pairing of debit and credit accounts.
type template struct {
	debit, credit string
	min, max      int64
	descriptions  []string
}

var templates = []template{
	{ledger.Cash, ledger.Sales, 1_000, 500_000, []string{"Consulting", "Product sale", "Workshop", "License fee"}},
	{ledger.AccountsReceivable, ledger.Sales, 10_000, 1_000_000, []string{"Invoice", "Monthly retainer"}},
	{ledger.BankDeposits, ledger.AccountsReceivable, 10_000, 1_000_000, []string{"Invoice payment"}},
	{ledger.Rent, ledger.BankDeposits, 50_000, 200_000, []string{"Office rent"}},
	{ledger.Utilities, ledger.Cash, 2_000, 30_000, []string{"Electricity", "Water", "Gas"}},
	{ledger.Communication, ledger.Cash, 1_000, 20_000, []string{"Phone bill", "Internet"}},
	{ledger.Travel, ledger.Cash, 500, 80_000, []string{"Train ticket", "Taxi", "Hotel", "Flight"}},
	{ledger.Supplies, ledger.Cash, 100, 15_000, []string{"Printer paper", "Stationery", "Toner"}},
	{ledger.Purchases, ledger.AccountsPayable, 5_000, 300_000, []string{"Stock purchase", "Materials"}},
	{ledger.AccountsPayable, ledger.BankDeposits, 5_000, 300_000, []string{"Supplier payment"}},
	{ledger.Salaries, ledger.BankDeposits, 200_000, 600_000, []string{"Payroll"}},
	{ledger.Miscellaneous, ledger.Cash, 100, 10_000, []string{"Bank fee", "Stamp tax", "Coffee"}},
	{ledger.Cash, ledger.OwnersCapital, 100_000, 1_000_000, []string{"Owner contribution"}},
}

func main() {
	count := defaultCount
	if len(os.Args) > 1 {
		if n, err := strconv.Atoi(os.Args[1]); err == nil && n > 0 {
			count = n
		}
	}

	currentDate := time.Date(2020, 1, 1, 0, 0, 0, 0, time.Local)
	createdAt := time.Now().UTC()

	txns := make([]ledger.Transaction, 0, count)
	for i := 0; i < count; i++ {
		tpl := templates[rand.Intn(len(templates))]
		amount := decimal.NewFromInt(tpl.min + rand.Int63n(tpl.max-tpl.min+1))
		description := tpl.descriptions[rand.Intn(len(tpl.descriptions))]

		var opts []ledger.TransactionOption
		opts = append(opts, ledger.WithCreatedAt(createdAt))
		if rand.Intn(5) == 0 {
			opts = append(opts, ledger.WithMemo(fmt.Sprintf("Ref %06d", rand.Intn(1_000_000))))
		}

		txns = append(txns, ledger.NewTransaction(currentDate, description, amount, tpl.debit, tpl.credit, opts...))

		// Roughly ten transactions per day
		if rand.Intn(10) == 0 {
			currentDate = currentDate.AddDate(0, 0, 1)
		}
	}

	if err := backup.WriteCSV(os.Stdout, txns); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write transactions: %v\n", err)
		os.Exit(1)
	}

	fmt.Fprintf(os.Stderr, "\nGenerated %d transactions from %s to %s\n",
		len(txns), txns[0].Date.Format(ledger.DateLayout), currentDate.Format(ledger.DateLayout))
}
