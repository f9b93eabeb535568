package backup

import (
	"archive/zip"
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/alecthomas/assert/v2"
	"github.com/shopspring/decimal"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/store/memory"
	"github.com/robinvdvleuten/bookkeeper/store/storetest"
)

const header = "id,date,description,amount,debitAccount,creditAccount,memo,createdAt\n"

func TestReadCSV(t *testing.T) {
	t.Run("ValidRows", func(t *testing.T) {
		input := header +
			"t1,2024-01-15,Consulting,100000,Cash,Sales,,2024-01-15T09:00:00Z\n" +
			"t2,2024-01-20,\"Rent, January\",\"40,000\",Rent,Cash,\"says \"\"hi\"\"\",\n"

		txns, rowErrs, err := ReadCSV(strings.NewReader(input))
		assert.NoError(t, err)
		assert.Equal(t, 0, len(rowErrs))
		assert.Equal(t, 2, len(txns))

		assert.Equal(t, "t1", txns[0].ID)
		assert.Equal(t, "100000", txns[0].Amount.String())
		assert.Equal(t, 2024, txns[0].Date.Year())
		assert.Equal(t, time.January, txns[0].Date.Month())
		assert.Equal(t, 15, txns[0].Date.Day())
		assert.True(t, txns[0].CreatedAt.Equal(time.Date(2024, 1, 15, 9, 0, 0, 0, time.UTC)))

		assert.Equal(t, "Rent, January", txns[1].Description)
		assert.Equal(t, "40000", txns[1].Amount.String())
		assert.Equal(t, `says "hi"`, txns[1].Memo)
	})

	t.Run("RowErrorsCountHeaderAsRowOne", func(t *testing.T) {
		input := header +
			"t1,2024-01-15,Consulting,100000,Cash,Sales,,\n" +
			"t2,2024-01-16,,5,Cash,Sales,,\n" +
			"t3,2024-01-17,Refund,-5,Cash,Sales,,\n" +
			"t4,2024-01-18,Short\n" +
			"\n" +
			"t5,someday,Bad date,5,Cash,Sales,,\n"

		txns, rowErrs, err := ReadCSV(strings.NewReader(input))
		assert.NoError(t, err)
		assert.Equal(t, 1, len(txns))

		msgs := make([]string, len(rowErrs))
		for i, e := range rowErrs {
			msgs[i] = e.Error()
		}
		assert.Equal(t, []string{
			"row 3: missing required fields",
			`row 4: invalid amount "-5"`,
			"row 5: missing values",
			`row 7: invalid date "someday"`,
		}, msgs)
	})

	t.Run("MissingHeaders", func(t *testing.T) {
		_, _, err := ReadCSV(strings.NewReader("id,date,amount\nt1,2024-01-01,5\n"))

		var headersErr *MissingHeadersError
		assert.True(t, errors.As(err, &headersErr))
		assert.Equal(t, []string{"description", "debitAccount", "creditAccount", "memo", "createdAt"}, headersErr.Headers)
	})

	t.Run("NoData", func(t *testing.T) {
		_, _, err := ReadCSV(strings.NewReader(""))
		assert.True(t, errors.Is(err, ErrNoData))

		_, _, err = ReadCSV(strings.NewReader(header))
		assert.True(t, errors.Is(err, ErrNoData))
	})
}

func TestWriteCSVThenRead(t *testing.T) {
	txns := []ledger.Transaction{
		storetest.Transaction("b", 20, 40000, ledger.Rent, ledger.Cash),
		storetest.Transaction("a", 15, 100000, ledger.Cash, ledger.Sales),
	}
	txns[0].Memo = "line one\nline two"
	txns[0].Amount = decimal.RequireFromString("40000.5")

	var buf bytes.Buffer
	assert.NoError(t, WriteCSV(&buf, txns))
	assert.True(t, strings.HasPrefix(buf.String(), strings.Join(Header, ",")+"\n"))
	assert.Equal(t, "b", txns[0].ID, "input must not be reordered")

	got, rowErrs, err := ReadCSV(&buf)
	assert.NoError(t, err)
	assert.Equal(t, 0, len(rowErrs))
	assert.Equal(t, 2, len(got))
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "line one\nline two", got[1].Memo)
	assert.Equal(t, "40000.5", got[1].Amount.String())
	assert.True(t, got[1].UpdatedAt.Equal(txns[0].UpdatedAt))
}

func TestImport(t *testing.T) {
	ctx := context.Background()
	s := memory.New(storetest.Transaction("t1", 1, 1, ledger.Cash, ledger.Sales))

	input := header +
		"t1,2024-01-15,Consulting,100000,Cash,Sales,,\n" +
		"t2,2024-01-20,Rent,40000,Rent,Cash,,\n" +
		"t3,2024-01-21,Broken,,Rent,Cash,,\n"

	result, err := Import(ctx, s, strings.NewReader(input))
	assert.NoError(t, err)
	assert.Equal(t, 1, result.Added)
	assert.Equal(t, 1, result.Updated)
	assert.Equal(t, []string{"row 4: missing required fields"}, result.Messages())

	got, err := s.Get(ctx, "t1")
	assert.NoError(t, err)
	assert.Equal(t, "100000", got.Amount.String())
}

func TestExport(t *testing.T) {
	ctx := context.Background()

	var buf bytes.Buffer
	_, err := Export(ctx, memory.New(), &buf)
	assert.True(t, errors.Is(err, ErrNothingToExport))

	n, err := Export(ctx, memory.New(storetest.Transaction("t1", 1, 5, ledger.Cash, ledger.Sales)), &buf)
	assert.NoError(t, err)
	assert.Equal(t, 1, n)
	assert.Contains(t, buf.String(), "t1,2024-01-01,entry t1,5,Cash,Sales,")
}

func TestArchive(t *testing.T) {
	ctx := context.Background()

	src := memory.New(
		storetest.Transaction("t1", 15, 100000, ledger.Cash, ledger.Sales),
		storetest.Transaction("t2", 20, 40000, ledger.Rent, ledger.Cash),
	)
	assert.NoError(t, src.PutSetting(ctx, "period.tax_keywords", "tax,税"))

	var buf bytes.Buffer
	assert.NoError(t, WriteArchive(ctx, &buf, src))

	dst := memory.New()
	result, err := ImportArchive(ctx, dst, bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.NoError(t, err)
	assert.Equal(t, 2, result.Transactions.Added)
	assert.Equal(t, 1, result.Settings)

	settings, err := dst.Settings(ctx)
	assert.NoError(t, err)
	assert.Equal(t, "tax,税", settings["period.tax_keywords"])

	txns, err := dst.Transactions(ctx)
	assert.NoError(t, err)
	assert.Equal(t, 2, len(txns))
}

func TestWriteArchiveEmptyStore(t *testing.T) {
	var buf bytes.Buffer
	err := WriteArchive(context.Background(), &buf, memory.New())
	assert.True(t, errors.Is(err, ErrNothingToExport))
}

func TestWriteArchiveSortsSettings(t *testing.T) {
	ctx := context.Background()

	src := memory.New()
	assert.NoError(t, src.PutSetting(ctx, "period.tax_keywords", "tax"))
	assert.NoError(t, src.PutSetting(ctx, "income.revenue", "Sales"))
	assert.NoError(t, src.PutSetting(ctx, "period.expense", "Rent"))

	var buf bytes.Buffer
	assert.NoError(t, WriteArchive(ctx, &buf, src))

	zr, err := zip.NewReader(bytes.NewReader(buf.Bytes()), int64(buf.Len()))
	assert.NoError(t, err)
	f, err := zr.Open(SettingsFile)
	assert.NoError(t, err)
	defer f.Close()

	content, err := io.ReadAll(f)
	assert.NoError(t, err)
	assert.Equal(t, "id,value\nincome.revenue,Sales\nperiod.expense,Rent\nperiod.tax_keywords,tax\n", string(content))
}
