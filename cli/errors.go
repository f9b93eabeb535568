package cli

import (
	"errors"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/output"
)

var (
	errCaretStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#FF5F87", Dark: "#FF5F87"})
	errContextStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "#808080", Dark: "#808080"})
)

// ErrorRenderer renders ledger errors with the offending transaction as
// context.
type ErrorRenderer struct {
	txns map[string]ledger.Transaction
}

// NewErrorRenderer creates a renderer that looks up transactions by id.
func NewErrorRenderer(txns []ledger.Transaction) *ErrorRenderer {
	byID := make(map[string]ledger.Transaction, len(txns))
	for _, t := range txns {
		byID[t.ID] = t
	}
	return &ErrorRenderer{txns: byID}
}

// Render formats a single error with styling and context.
func (r *ErrorRenderer) Render(err error) string {
	var unknown *ledger.UnknownAccountError
	if errors.As(err, &unknown) {
		return r.renderWithContext(unknown.ID, unknown.Side+"Account", err.Error())
	}

	var malformed *ledger.MalformedRecordError
	if errors.As(err, &malformed) {
		return r.renderWithContext(malformed.ID, malformed.Field, err.Error())
	}

	return err.Error()
}

// RenderAll formats multiple errors, separating them with blank lines.
func (r *ErrorRenderer) RenderAll(errs []error) string {
	if len(errs) == 0 {
		return ""
	}

	var buf strings.Builder
	for i, err := range errs {
		buf.WriteString(r.Render(err))

		if i < len(errs)-1 {
			buf.WriteString("\n\n")
		}
	}

	return buf.String()
}

// renderWithContext prints the message followed by the transaction as one
// line of fields, with a caret under the field at fault.
func (r *ErrorRenderer) renderWithContext(id, field, message string) string {
	txn, ok := r.txns[id]
	if !ok {
		return message
	}

	var buf strings.Builder

	buf.WriteString(errorStyle.Render(message))
	buf.WriteString("\n\n")

	fields := []struct {
		name  string
		value string
	}{
		{"date", txn.Date.Format(ledger.DateLayout)},
		{"description", txn.Description},
		{"debitAccount", txn.DebitAccount},
		{"creditAccount", txn.CreditAccount},
		{"amount", output.FormatAmount(txn.Amount)},
	}

	var line strings.Builder
	offset, width := -1, 0
	for i, f := range fields {
		if i > 0 {
			line.WriteString("  ")
		}
		value := f.value
		if value == "" {
			value = "-"
		}
		if f.name == field {
			offset = runewidth.StringWidth(line.String())
			width = runewidth.StringWidth(value)
		}
		line.WriteString(value)
	}

	buf.WriteString("   ")
	buf.WriteString(errContextStyle.Render(line.String()))
	buf.WriteByte('\n')

	if offset >= 0 {
		buf.WriteString("   ")
		buf.WriteString(strings.Repeat(" ", offset))
		buf.WriteString(errCaretStyle.Render(strings.Repeat("^", max(width, 1))))
		buf.WriteByte('\n')
	}

	return buf.String()
}
