package ledger

import (
	"fmt"
	"strings"
)

// Category represents the category of an account
type Category int

const (
	CategoryUnknown Category = iota
	CategoryAsset
	CategoryLiability
	CategoryEquity
	CategoryRevenue
	CategoryExpense
)

// String returns the string representation of the category
func (c Category) String() string {
	switch c {
	case CategoryAsset:
		return "asset"
	case CategoryLiability:
		return "liability"
	case CategoryEquity:
		return "equity"
	case CategoryRevenue:
		return "revenue"
	case CategoryExpense:
		return "expense"
	default:
		return "unknown"
	}
}

// MarshalText implements encoding.TextMarshaler so categories serialize by name.
func (c Category) MarshalText() ([]byte, error) {
	return []byte(c.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (c *Category) UnmarshalText(text []byte) error {
	parsed, err := ParseCategory(string(text))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}

// ParseCategory parses a category name. Matching is case-insensitive.
func ParseCategory(name string) (Category, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "asset", "assets":
		return CategoryAsset, nil
	case "liability", "liabilities":
		return CategoryLiability, nil
	case "equity":
		return CategoryEquity, nil
	case "revenue", "income":
		return CategoryRevenue, nil
	case "expense", "expenses":
		return CategoryExpense, nil
	default:
		return CategoryUnknown, fmt.Errorf("unknown account category %q", name)
	}
}

// Account is an entry of the classification table.
type Account struct {
	Name     string
	Category Category

	// DebitNormal is true when the balance increases on the debit side
	// (assets and expenses).
	DebitNormal bool
}

// Chart is an immutable classification table mapping account names to their
// category and normal-balance side. Build one with NewChart and pass it to
// the aggregator; there is no package-level table.
type Chart struct {
	accounts []Account
	index    map[string]int
}

// NewChart builds a chart from the given accounts. The order of the accounts
// is kept and used as display order by reports.
func NewChart(accounts ...Account) (*Chart, error) {
	c := &Chart{
		accounts: make([]Account, 0, len(accounts)),
		index:    make(map[string]int, len(accounts)),
	}

	for _, acc := range accounts {
		if acc.Name == "" {
			return nil, fmt.Errorf("account name must not be empty")
		}
		if acc.Category == CategoryUnknown {
			return nil, fmt.Errorf("account %q has no category", acc.Name)
		}
		if _, exists := c.index[acc.Name]; exists {
			return nil, fmt.Errorf("account %q is registered twice", acc.Name)
		}
		c.index[acc.Name] = len(c.accounts)
		c.accounts = append(c.accounts, acc)
	}

	return c, nil
}

// MustNewChart is like NewChart but panics on error.
// Use only in tests or for static tables.
func MustNewChart(accounts ...Account) *Chart {
	c, err := NewChart(accounts...)
	if err != nil {
		panic(err)
	}
	return c
}

// Lookup returns the account registered under name.
// The second return value is false for unknown accounts.
func (c *Chart) Lookup(name string) (Account, bool) {
	if c == nil {
		return Account{}, false
	}
	i, ok := c.index[name]
	if !ok {
		return Account{}, false
	}
	return c.accounts[i], true
}

// Position returns the registration index of an account, or -1 if unknown.
func (c *Chart) Position(name string) int {
	if c == nil {
		return -1
	}
	if i, ok := c.index[name]; ok {
		return i
	}
	return -1
}

// Accounts returns a copy of all accounts in registration order.
func (c *Chart) Accounts() []Account {
	if c == nil {
		return nil
	}
	out := make([]Account, len(c.accounts))
	copy(out, c.accounts)
	return out
}

// Len returns the number of registered accounts.
func (c *Chart) Len() int {
	if c == nil {
		return 0
	}
	return len(c.accounts)
}

// Account names of the default chart.
const (
	Cash               = "Cash"
	BankDeposits       = "Bank Deposits"
	AccountsReceivable = "Accounts Receivable"
	Inventory          = "Inventory"
	FixedAssets        = "Fixed Assets"
	AccountsPayable    = "Accounts Payable"
	LoansPayable       = "Loans Payable"
	OtherPayables      = "Other Payables"
	AccruedExpenses    = "Accrued Expenses"
	Capital            = "Capital"
	OwnersCapital      = "Owner's Capital"
	RetainedEarnings   = "Retained Earnings"
	Sales              = "Sales"
	Purchases          = "Purchases"
	Salaries           = "Salaries"
	Rent               = "Rent"
	Utilities          = "Utilities"
	Communication      = "Communication"
	Travel             = "Travel"
	Supplies           = "Supplies"
	Miscellaneous      = "Miscellaneous"

	// Names used only by the report account lists, not by the chart.
	InterestIncome  = "Interest Income"
	OtherIncome     = "Other Income"
	InterestExpense = "Interest Expense"
	OtherExpenses   = "Other Expenses"
	Depreciation    = "Depreciation"
)

// DefaultChart returns the built-in classification table.
func DefaultChart() *Chart {
	asset := func(name string) Account {
		return Account{Name: name, Category: CategoryAsset, DebitNormal: true}
	}
	liability := func(name string) Account {
		return Account{Name: name, Category: CategoryLiability}
	}
	equity := func(name string) Account {
		return Account{Name: name, Category: CategoryEquity}
	}
	expense := func(name string) Account {
		return Account{Name: name, Category: CategoryExpense, DebitNormal: true}
	}

	return MustNewChart(
		asset(Cash),
		asset(BankDeposits),
		asset(AccountsReceivable),
		asset(Inventory),
		asset(FixedAssets),
		liability(AccountsPayable),
		liability(LoansPayable),
		liability(OtherPayables),
		liability(AccruedExpenses),
		equity(Capital),
		equity(OwnersCapital),
		equity(RetainedEarnings),
		Account{Name: Sales, Category: CategoryRevenue},
		expense(Purchases),
		expense(Salaries),
		expense(Rent),
		expense(Utilities),
		expense(Communication),
		expense(Travel),
		expense(Supplies),
		expense(Miscellaneous),
	)
}
