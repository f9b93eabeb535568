package cli

var (
	Version   = ""
	CommitSHA = ""
)

// Globals defines global flags available to all commands.
type Globals struct {
	Data      string `help:"Data file to read and write (.db, .sqlite, .csv or .zip)." env:"BOOKKEEPER_DATA" default:"bookkeeper.db" type:"path" short:"f"`
	Telemetry bool   `help:"Show timing telemetry for operations."`
	LogLevel  string `help:"Log level (debug, info, warn, error, disabled)." env:"BOOKKEEPER_LOG_LEVEL" default:"warn"`
}

type Commands struct {
	Globals

	Balances        BalancesCmd        `cmd:"" help:"Show the balance of every account."`
	BalanceSheet    BalanceSheetCmd    `cmd:"" help:"Show the balance sheet as of a day."`
	IncomeStatement IncomeStatementCmd `cmd:"" help:"Show the income statement of a date range."`
	Report          ReportCmd          `cmd:"" help:"List the transactions of a period by category."`

	Add    AddCmd    `cmd:"" help:"Record a transaction."`
	Edit   EditCmd   `cmd:"" help:"Change a recorded transaction."`
	Delete DeleteCmd `cmd:"" help:"Delete a transaction."`
	List   ListCmd   `cmd:"" help:"List transactions by date."`

	Import ImportCmd `cmd:"" help:"Import transactions from a CSV file or ZIP backup."`
	Export ExportCmd `cmd:"" help:"Export transactions to a CSV file or ZIP backup."`
	Config ConfigCmd `cmd:"" help:"Show or change the report account lists."`

	Check  CheckCmd  `cmd:"" help:"Validate every recorded transaction."`
	Doctor DoctorCmd `cmd:"" help:"Doctor utilities for debugging data files."`
	Web    WebCmd    `cmd:"" help:"Start the JSON API server."`
}
