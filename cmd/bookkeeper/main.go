package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/alecthomas/kong"
	"github.com/joho/godotenv"

	"github.com/robinvdvleuten/bookkeeper/cli"
)

var (
	// Version contains the application version number. It's set via ldflags
	// when building.
	Version = ""

	// CommitSHA contains the SHA of the commit that this application was built
	// against. It's set via ldflags when building.
	CommitSHA = ""

	commands struct {
		Version kong.VersionFlag `help:"Show version information"`
		cli.Commands
	}
)

func main() {
	// A .env file next to the data is optional.
	_ = godotenv.Load()

	ctx := kong.Parse(&commands,
		kong.Vars{
			"version":  buildVersion(),
			"settings": cli.SettingKeys(),
		},
		kong.Name("bookkeeper"),
		kong.Description("A double-entry bookkeeping ledger with balance sheet, income statement and period reports."),
		kong.UsageOnError(),
		kong.Bind(&commands.Globals),
	)

	cli.Version = Version
	cli.CommitSHA = CommitSHA

	err := ctx.Run()

	var cmdErr *cli.CommandError
	if errors.As(err, &cmdErr) {
		os.Exit(cmdErr.ExitCode())
	}
	ctx.FatalIfErrorf(err)
}

func buildVersion() string {
	if Version == "" {
		Version = "dev"
	}
	if CommitSHA == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, CommitSHA)
}
