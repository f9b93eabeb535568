package cli

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/loader"
	"github.com/robinvdvleuten/bookkeeper/output"
	"github.com/robinvdvleuten/bookkeeper/store"
)

type AddCmd struct {
	Date        Date   `help:"Transaction day (default: today)." placeholder:"YYYY-MM-DD"`
	Description string `help:"What the transaction is for." required:"" short:"d"`
	Amount      string `help:"Amount, without currency. Thousands separators are allowed." required:"" short:"a"`
	Debit       string `help:"Account debited." required:""`
	Credit      string `help:"Account credited." required:""`
	Memo        string `help:"Optional note." short:"m"`
}

func (cmd *AddCmd) Run(ctx *kong.Context, globals *Globals) error {
	value, err := ledger.ParseAmount(cmd.Amount)
	if err != nil {
		return err
	}

	s, err := openSession(ctx, globals, "add", loader.WithCreate())
	if err != nil {
		return err
	}
	defer s.Close()

	var opts []ledger.TransactionOption
	if cmd.Memo != "" {
		opts = append(opts, ledger.WithMemo(cmd.Memo))
	}
	txn := ledger.NewTransaction(cmd.Date.Or(today()), cmd.Description, value, cmd.Debit, cmd.Credit, opts...)

	if err := s.validate(txn); err != nil {
		return err
	}
	if _, err := s.result.Store.Put(s.ctx, txn); err != nil {
		return ledger.NewStorageUnavailableError("write transaction", err)
	}
	if err := s.persist(); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Recorded %s (%s %s → %s)",
		txn.ID, output.FormatAmount(txn.Amount), txn.DebitAccount, txn.CreditAccount))
	return nil
}

type EditCmd struct {
	ID string `help:"Id of the transaction, or an unambiguous prefix." arg:""`

	Date        Date    `help:"New transaction day." placeholder:"YYYY-MM-DD"`
	Description string  `help:"New description." short:"d"`
	Amount      string  `help:"New amount." short:"a"`
	Debit       string  `help:"New debit account."`
	Credit      string  `help:"New credit account."`
	Memo        *string `help:"New memo. Pass an empty string to clear it." short:"m"`
}

func (cmd *EditCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "edit")
	if err != nil {
		return err
	}
	defer s.Close()

	txn, err := findTransaction(s.ctx, s.result.Store, cmd.ID)
	if err != nil {
		return err
	}

	if !cmd.Date.IsZero() {
		txn.Date = cmd.Date.Time
	}
	if cmd.Description != "" {
		txn.Description = cmd.Description
	}
	if cmd.Amount != "" {
		value, err := ledger.ParseAmount(cmd.Amount)
		if err != nil {
			return err
		}
		txn.Amount = value
	}
	if cmd.Debit != "" {
		txn.DebitAccount = cmd.Debit
	}
	if cmd.Credit != "" {
		txn.CreditAccount = cmd.Credit
	}
	if cmd.Memo != nil {
		txn.Memo = *cmd.Memo
	}
	txn.UpdatedAt = time.Now()

	if err := s.validate(txn); err != nil {
		return err
	}
	if _, err := s.result.Store.Put(s.ctx, txn); err != nil {
		return ledger.NewStorageUnavailableError("write transaction", err)
	}
	if err := s.persist(); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Updated %s", txn.ID))
	return nil
}

type DeleteCmd struct {
	ID  string `help:"Id of the transaction, or an unambiguous prefix." arg:""`
	Yes bool   `help:"Delete without asking for confirmation." short:"y"`
}

func (cmd *DeleteCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "delete")
	if err != nil {
		return err
	}
	defer s.Close()

	txn, err := findTransaction(s.ctx, s.result.Store, cmd.ID)
	if err != nil {
		return err
	}

	if !cmd.Yes {
		confirmed, err := promptYesNo(ctx, fmt.Sprintf("Delete %q of %s (%s)?",
			txn.Description, txn.Date.Format(ledger.DateLayout), output.FormatAmount(txn.Amount)))
		if err != nil {
			return fmt.Errorf("failed to read confirmation: %w", err)
		}
		if !confirmed {
			printInfof(ctx.Stdout, "Nothing deleted")
			return nil
		}
	}

	if err := s.result.Store.Delete(s.ctx, txn.ID); err != nil {
		return ledger.NewStorageUnavailableError("delete transaction", err)
	}
	if err := s.persist(); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Deleted %s", txn.ID))
	return nil
}

type ListCmd struct {
	Start   Date   `help:"Only list transactions on or after this day." placeholder:"YYYY-MM-DD"`
	End     Date   `help:"Only list transactions on or before this day." placeholder:"YYYY-MM-DD"`
	Account string `help:"Only list transactions posting to this account."`
	JSON    bool   `help:"Print transactions as JSON."`
}

func (cmd *ListCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "list")
	if err != nil {
		return err
	}
	defer s.Close()

	txns, err := s.service.Snapshot(s.ctx)
	if err != nil {
		return err
	}
	txns = cmd.filter(txns)
	ledger.SortTransactions(txns)

	if cmd.JSON {
		return writeJSON(ctx.Stdout, txns)
	}
	if len(txns) == 0 {
		printInfof(ctx.Stdout, "No transactions")
		return nil
	}
	return renderTransactions(ctx.Stdout, output.NewStyles(ctx.Stdout), txns)
}

func (cmd *ListCmd) filter(txns []ledger.Transaction) []ledger.Transaction {
	var out []ledger.Transaction
	for _, t := range txns {
		if !cmd.Start.IsZero() && t.Date.Before(cmd.Start.Time) {
			continue
		}
		if !cmd.End.IsZero() && t.Date.After(ledger.EndOfDay(cmd.End.Time)) {
			continue
		}
		if cmd.Account != "" && !t.Touches(cmd.Account) {
			continue
		}
		out = append(out, t)
	}
	return out
}

// AmbiguousIDError is returned when an id prefix matches more than one
// transaction.
type AmbiguousIDError struct {
	Prefix  string
	Matches []string
}

func (e *AmbiguousIDError) Error() string {
	return fmt.Sprintf("id %q matches %d transactions: %s", e.Prefix, len(e.Matches), strings.Join(e.Matches, ", "))
}

// findTransaction looks up a transaction by id, falling back to a unique id
// prefix as printed by the list command.
func findTransaction(ctx context.Context, s store.Store, id string) (ledger.Transaction, error) {
	txn, err := s.Get(ctx, id)
	if err == nil {
		return txn, nil
	}
	if !errors.Is(err, store.ErrNotFound) {
		return ledger.Transaction{}, ledger.NewStorageUnavailableError("read transaction", err)
	}

	txns, err := s.Transactions(ctx)
	if err != nil {
		return ledger.Transaction{}, ledger.NewStorageUnavailableError("read transactions", err)
	}

	var matches []ledger.Transaction
	for _, t := range txns {
		if strings.HasPrefix(t.ID, id) {
			matches = append(matches, t)
		}
	}

	switch len(matches) {
	case 0:
		return ledger.Transaction{}, fmt.Errorf("transaction %s: %w", id, store.ErrNotFound)
	case 1:
		return matches[0], nil
	default:
		ids := make([]string, len(matches))
		for i, m := range matches {
			ids[i] = m.ID
		}
		return ledger.Transaction{}, &AmbiguousIDError{Prefix: id, Matches: ids}
	}
}
