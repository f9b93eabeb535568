package cli

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/robinvdvleuten/bookkeeper/ledger"
	"github.com/robinvdvleuten/bookkeeper/loader"
	"github.com/robinvdvleuten/bookkeeper/output"
	"github.com/robinvdvleuten/bookkeeper/report"
)

// ConfigCmd shows and changes the report account lists stored with the data.
type ConfigCmd struct {
	Show ConfigShowCmd `cmd:"" default:"1" help:"Print the account lists in effect."`
	Set  ConfigSetCmd  `cmd:"" help:"Change one account list."`
}

type ConfigShowCmd struct{}

func (cmd *ConfigShowCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "config show")
	if err != nil {
		return err
	}
	defer s.Close()

	settings := s.config.Settings()
	table := output.NewTable("Setting", "Value")
	for _, key := range slices.Sorted(maps.Keys(settings)) {
		table.AddRow(key, settings[key])
	}
	return table.Render(ctx.Stdout, output.NewStyles(ctx.Stdout))
}

type ConfigSetCmd struct {
	Key   string `help:"Setting to change." arg:"" enum:"${settings}"`
	Value string `help:"Comma-separated account names or keywords." arg:""`
}

func (cmd *ConfigSetCmd) Run(ctx *kong.Context, globals *Globals) error {
	s, err := openSession(ctx, globals, "config set", loader.WithCreate())
	if err != nil {
		return err
	}
	defer s.Close()

	if s.result.Kind == loader.KindCSV {
		return fmt.Errorf("cannot store settings in %s: use a .db or .zip data file", s.result.Path)
	}

	settings := s.config.Settings()
	settings[cmd.Key] = cmd.Value
	if _, err := report.ConfigFromSettings(settings); err != nil {
		return err
	}

	if err := s.result.Store.PutSetting(s.ctx, cmd.Key, cmd.Value); err != nil {
		return ledger.NewStorageUnavailableError("write setting", err)
	}
	if err := s.persist(); err != nil {
		return err
	}

	printSuccess(ctx.Stdout, fmt.Sprintf("Set %s", cmd.Key))
	return nil
}

// SettingKeys lists the settings accepted by "config set", for the
// ${settings} kong variable.
func SettingKeys() string {
	return strings.Join(slices.Sorted(maps.Keys(report.NewConfig().Settings())), ",")
}
