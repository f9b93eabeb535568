package cli

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/alecthomas/assert/v2"
	"github.com/alecthomas/kong"
)

const testData = `id,date,description,amount,debitAccount,creditAccount,memo,createdAt
t1,2024-01-15,Consulting,100000,Cash,Sales,,
t2,2024-01-20,Office rent,40000,Rent,Cash,,
`

// run parses args like main does and runs the selected command.
func run(t *testing.T, args ...string) (string, string, error) {
	t.Helper()

	var cli struct {
		Commands
	}
	var stdout, stderr bytes.Buffer

	parser, err := kong.New(&cli,
		kong.Name("bookkeeper"),
		kong.Vars{"settings": SettingKeys()},
		kong.Bind(&cli.Globals),
		kong.Writers(&stdout, &stderr),
		kong.Exit(func(int) { t.Fatalf("unexpected exit running %v", args) }),
	)
	assert.NoError(t, err)

	ctx, err := parser.Parse(args)
	if err != nil {
		return stdout.String(), stderr.String(), err
	}
	err = ctx.Run()
	return stdout.String(), stderr.String(), err
}

func writeData(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	assert.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func readData(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	assert.NoError(t, err)
	return string(content)
}

func TestReportCommands(t *testing.T) {
	data := writeData(t, "books.csv", testData)

	t.Run("Balances", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "balances")
		assert.NoError(t, err)
		assert.Contains(t, out, "Cash")
		assert.Contains(t, out, "60,000")
		assert.Contains(t, out, "100,000")
	})

	t.Run("BalancesByCategory", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "balances", "--category", "expense")
		assert.NoError(t, err)
		assert.Contains(t, out, "Rent")
		assert.False(t, strings.Contains(out, "Sales"))
	})

	t.Run("BalanceSheet", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "balance-sheet", "--as-of", "2024-01-31")
		assert.NoError(t, err)
		assert.Contains(t, out, "Balance sheet as of 2024-01-31")
		assert.Contains(t, out, "Net income for the period")
		assert.Contains(t, out, "Total liabilities and equity  60,000")
	})

	t.Run("BalanceSheetJSON", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "balance-sheet", "--as-of", "2024-01-31", "--json")
		assert.NoError(t, err)
		assert.Contains(t, out, `"netIncome": "60000"`)
	})

	t.Run("IncomeStatement", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "income-statement", "--start", "2024-01-01", "--end", "2024-01-31")
		assert.NoError(t, err)
		assert.Contains(t, out, "Operating income")
		assert.Contains(t, out, "60,000")
	})

	t.Run("IncomeStatementInvalidRange", func(t *testing.T) {
		_, _, err := run(t, "--data", data, "income-statement", "--start", "2024-02-01", "--end", "2024-01-01")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "after")
	})

	t.Run("InvalidDateFlag", func(t *testing.T) {
		_, _, err := run(t, "--data", data, "balance-sheet", "--as-of", "31/01/2024")
		assert.Error(t, err)
		assert.Contains(t, err.Error(), "YYYY-MM-DD")
	})

	t.Run("PeriodReport", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "report", "--start", "2024-01-01", "--end", "2024-01-31", "--category", "expense")
		assert.NoError(t, err)
		assert.Contains(t, out, "Office rent")
		assert.False(t, strings.Contains(out, "Consulting"))
	})

	t.Run("PeriodReportUnknownCategory", func(t *testing.T) {
		_, _, err := run(t, "--data", data, "report", "--category", "bogus")
		assert.Error(t, err)
	})

	t.Run("MissingDataFile", func(t *testing.T) {
		_, _, err := run(t, "--data", filepath.Join(t.TempDir(), "missing.csv"), "balances")
		assert.Error(t, err)
	})
}

func TestEntryCommands(t *testing.T) {
	data := writeData(t, "books.csv", testData)

	t.Run("Add", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "add",
			"--date", "2024-01-25", "--description", "Train ticket", "--amount", "1,200",
			"--debit", "Travel", "--credit", "Cash", "--memo", "Client visit")
		assert.NoError(t, err)
		assert.Contains(t, out, "Recorded")

		content := readData(t, data)
		assert.Contains(t, content, "Train ticket")
		assert.Contains(t, content, "Client visit")
	})

	t.Run("AddUnknownAccountWarns", func(t *testing.T) {
		out, stderr, err := run(t, "--data", data, "add",
			"--description", "Lunch", "--amount", "900", "--debit", "Meals", "--credit", "Cash")
		assert.NoError(t, err)
		assert.Contains(t, out, "Recorded")
		assert.Contains(t, stderr, "Warning")
		assert.Contains(t, stderr, `debit account "Meals"`)
		assert.Contains(t, readData(t, data), "Lunch")
	})

	t.Run("AddSameAccountBothSides", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "add",
			"--date", "2024-01-26", "--description", "Cash count", "--amount", "100", "--debit", "Cash", "--credit", "Cash")
		assert.NoError(t, err)
		assert.Contains(t, out, "Recorded")
		assert.Contains(t, readData(t, data), "Cash count")
	})

	t.Run("AddMissingDescription", func(t *testing.T) {
		_, _, err := run(t, "--data", data, "add",
			"--description", " ", "--amount", "900", "--debit", "Travel", "--credit", "Cash")
		assert.Error(t, err)
	})

	t.Run("AddNegativeAmount", func(t *testing.T) {
		_, _, err := run(t, "--data", data, "add",
			"--description", "Refund", "--amount=-900", "--debit", "Cash", "--credit", "Sales")
		assert.Error(t, err)
	})

	t.Run("Edit", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "edit", "t2", "--amount", "45000")
		assert.NoError(t, err)
		assert.Contains(t, out, "Updated t2")
		assert.Contains(t, readData(t, data), "t2,2024-01-20,Office rent,45000,Rent,Cash,")
	})

	t.Run("List", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "list", "--account", "Cash")
		assert.NoError(t, err)
		assert.Contains(t, out, "Consulting")
		assert.Contains(t, out, "Train ticket")
		assert.True(t, strings.Index(out, "Consulting") < strings.Index(out, "Office rent"))
	})

	t.Run("ListRange", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "list", "--start", "2024-01-16", "--end", "2024-01-20")
		assert.NoError(t, err)
		assert.Contains(t, out, "Office rent")
		assert.False(t, strings.Contains(out, "Consulting"))
	})

	t.Run("Delete", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "delete", "t1", "--yes")
		assert.NoError(t, err)
		assert.Contains(t, out, "Deleted t1")
		assert.False(t, strings.Contains(readData(t, data), "Consulting"))
	})

	t.Run("DeleteMissing", func(t *testing.T) {
		_, _, err := run(t, "--data", data, "delete", "nope", "--yes")
		assert.Error(t, err)
	})
}

func TestFindTransactionAmbiguousPrefix(t *testing.T) {
	data := writeData(t, "books.csv", testData)

	_, _, err := run(t, "--data", data, "delete", "t", "--yes")
	var ambiguous *AmbiguousIDError
	assert.True(t, errors.As(err, &ambiguous))
	matches := slices.Clone(ambiguous.Matches)
	slices.Sort(matches)
	assert.Equal(t, []string{"t1", "t2"}, matches)
}

func TestBackupCommands(t *testing.T) {
	data := writeData(t, "books.csv", testData)
	dir := t.TempDir()

	t.Run("ExportCSV", func(t *testing.T) {
		target := filepath.Join(dir, "export.csv")
		out, _, err := run(t, "--data", data, "export", target)
		assert.NoError(t, err)
		assert.Contains(t, out, "Exported 2 transactions")
		assert.Contains(t, readData(t, target), "Office rent")
	})

	t.Run("ExportToStdout", func(t *testing.T) {
		out, _, err := run(t, "--data", data, "export", "-")
		assert.NoError(t, err)
		assert.True(t, strings.HasPrefix(out, "id,date,description,amount"))
	})

	t.Run("ExportArchiveAndImport", func(t *testing.T) {
		archive := filepath.Join(dir, "backup.zip")
		_, _, err := run(t, "--data", data, "export", archive)
		assert.NoError(t, err)

		restored := filepath.Join(dir, "restored.db")
		out, _, err := run(t, "--data", restored, "import", archive)
		assert.NoError(t, err)
		assert.Contains(t, out, "Imported 2 new and 0 updated transactions")

		out, _, err = run(t, "--data", restored, "import", archive)
		assert.NoError(t, err)
		assert.Contains(t, out, "Imported 0 new and 2 updated transactions")
	})

	t.Run("ImportRowErrors", func(t *testing.T) {
		broken := writeData(t, "broken.csv", testData+"t3,2024-01-21,Broken,,Rent,Cash,,\n")
		target := filepath.Join(dir, "target.csv")

		out, stderr, err := run(t, "--data", target, "import", broken)
		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, 1, cmdErr.ExitCode())
		assert.Contains(t, out, "Imported 2 new")
		assert.Contains(t, stderr, "row 4: missing required fields")
		assert.Contains(t, readData(t, target), "Consulting")
	})

	t.Run("ExportEmpty", func(t *testing.T) {
		empty := writeData(t, "empty.csv", "id,date,description,amount,debitAccount,creditAccount,memo,createdAt\n")
		_, _, err := run(t, "--data", empty, "export", filepath.Join(dir, "nothing.csv"))
		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
	})
}

func TestCheckCommand(t *testing.T) {
	t.Run("Passes", func(t *testing.T) {
		data := writeData(t, "books.csv", testData)
		out, _, err := run(t, "--data", data, "check")
		assert.NoError(t, err)
		assert.Contains(t, out, "Check passed (2 transactions)")
	})

	t.Run("ReportsUnknownAccounts", func(t *testing.T) {
		data := writeData(t, "books.csv", testData+"t3,2024-01-22,Lunch,900,Meals,Cash,,\n")
		_, stderr, err := run(t, "--data", data, "check")

		var cmdErr *CommandError
		assert.True(t, errors.As(err, &cmdErr))
		assert.Equal(t, 1, cmdErr.ExitCode())
		assert.Contains(t, stderr, `debit account "Meals"`)
		assert.Contains(t, stderr, "1 validation error(s) found")
	})

	t.Run("AcceptsReportListAccounts", func(t *testing.T) {
		data := writeData(t, "books.csv", testData+"t3,2024-01-22,Interest,50,Cash,Interest Income,,\n")
		_, _, err := run(t, "--data", data, "check")
		assert.NoError(t, err)
	})
}

func TestConfigCommands(t *testing.T) {
	archive := filepath.Join(t.TempDir(), "books.zip")

	_, _, err := run(t, "--data", archive, "config", "set", "period.tax_keywords", "VAT, 税")
	assert.NoError(t, err)

	out, _, err := run(t, "--data", archive, "config", "show")
	assert.NoError(t, err)
	assert.Contains(t, out, "period.tax_keywords")
	assert.Contains(t, out, "VAT,税")

	t.Run("RejectsEmptyList", func(t *testing.T) {
		_, _, err := run(t, "--data", archive, "config", "set", "period.income", " , ")
		assert.Error(t, err)
	})

	t.Run("RejectsCSVSource", func(t *testing.T) {
		data := writeData(t, "books.csv", testData)
		_, _, err := run(t, "--data", data, "config", "set", "period.income", "Sales")
		assert.Error(t, err)
	})
}

func TestDoctorDump(t *testing.T) {
	data := writeData(t, "books.csv", testData)

	out, _, err := run(t, "--data", data, "doctor", "dump")
	assert.NoError(t, err)
	assert.Contains(t, out, "Consulting")
	assert.True(t, strings.Index(out, "Consulting") < strings.Index(out, "Office rent"))
}
