package ledger

import "strings"

// ValidateOption configures Validate.
type ValidateOption func(*validator)

type validator struct {
	chart *Chart
	known map[string]bool
}

// WithKnownAccounts accepts the given account names in addition to the
// chart. Report account lists name accounts that are not classified, such as
// "Interest Income", and those are not errors.
func WithKnownAccounts(names ...string) ValidateOption {
	return func(v *validator) {
		for _, name := range names {
			v.known[name] = true
		}
	}
}

// Validate checks every transaction against chart and collects all problems
// it finds. It returns nil or a *ValidationErrors.
//
// Validation is separate from aggregation: the aggregator and the reports
// accept any input, so callers decide whether problems are fatal.
func Validate(chart *Chart, txns []Transaction, opts ...ValidateOption) error {
	v := newValidator(chart, opts)

	var errs []error
	for _, t := range txns {
		errs = append(errs, validateRecord(t)...)
		errs = append(errs, v.validateAccounts(t)...)
	}

	if len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

// CheckAccounts returns the account problems of t: names missing from chart
// and the same account on both sides. Writes accept such transactions, so
// callers report these as warnings.
func CheckAccounts(chart *Chart, t Transaction, opts ...ValidateOption) []error {
	return newValidator(chart, opts).validateAccounts(t)
}

func newValidator(chart *Chart, opts []ValidateOption) *validator {
	v := &validator{chart: chart, known: make(map[string]bool)}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// ValidateRecord checks that a transaction carries every required field and
// a non-negative amount. Stores run it before writing; account names are not
// checked.
func ValidateRecord(t Transaction) error {
	if errs := validateRecord(t); len(errs) > 0 {
		return &ValidationErrors{Errors: errs}
	}
	return nil
}

func validateRecord(t Transaction) []error {
	var errs []error

	if t.ID == "" {
		errs = append(errs, NewMalformedRecordError(t, "id", "id is required"))
	}
	if t.Date.IsZero() {
		errs = append(errs, NewMalformedRecordError(t, "date", "date is required"))
	}
	if strings.TrimSpace(t.Description) == "" {
		errs = append(errs, NewMalformedRecordError(t, "description", "description is required"))
	}
	if t.Amount.IsNegative() {
		errs = append(errs, NewMalformedRecordError(t, "amount", "amount must not be negative"))
	}
	if t.DebitAccount == "" {
		errs = append(errs, NewMalformedRecordError(t, "debitAccount", "debit account is required"))
	}
	if t.CreditAccount == "" {
		errs = append(errs, NewMalformedRecordError(t, "creditAccount", "credit account is required"))
	}

	return errs
}

func (v *validator) validateAccounts(t Transaction) []error {
	var errs []error

	if t.DebitAccount != "" && !v.isKnown(t.DebitAccount) {
		errs = append(errs, NewUnknownAccountError(t, "debit", t.DebitAccount))
	}
	if t.CreditAccount != "" && !v.isKnown(t.CreditAccount) {
		errs = append(errs, NewUnknownAccountError(t, "credit", t.CreditAccount))
	}
	if t.DebitAccount != "" && t.DebitAccount == t.CreditAccount {
		errs = append(errs, NewMalformedRecordError(t, "creditAccount", "debit and credit account must differ"))
	}

	return errs
}

func (v *validator) isKnown(name string) bool {
	if v.known[name] {
		return true
	}
	_, ok := v.chart.Lookup(name)
	return ok
}
