package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/pflag"

	"github.com/go-drift/notifykit/pkg/settings"
)

func init() {
	RegisterCommand(&Command{
		Name:  "settings",
		Short: "List, read and change notification settings",
		Long: `List, read and change the notification settings of the project.

Settings are stored per platform (android, ios). Dependent settings are
shown indented under the setting that enables them. Values are parsed
according to the setting's type: true/false for toggles, integers for
flag sets, free text otherwise.

Subcommands:
  list [platform] [--tooltips]   Show settings and current values
  get <platform> <key>           Print one value
  set <platform> <key> <value>   Change one value`,
		Usage: "notifykit settings <list|get|set> [args]",
		Run:   runSettings,
	})
}

func runSettings(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("settings requires a subcommand (list, get, set)")
	}
	switch args[0] {
	case "list":
		return runSettingsList(args[1:])
	case "get":
		return runSettingsGet(args[1:])
	case "set":
		return runSettingsSet(args[1:])
	default:
		return fmt.Errorf("unknown settings subcommand %q", args[0])
	}
}

func runSettingsList(args []string) error {
	fs := pflag.NewFlagSet("settings list", pflag.ContinueOnError)
	fs.SetOutput(stdout)
	tooltips := fs.Bool("tooltips", false, "show the description of each setting")
	if err := fs.Parse(args); err != nil {
		return err
	}

	platforms := settings.Platforms()
	if fs.NArg() > 0 {
		p, err := settings.ParsePlatform(fs.Arg(0))
		if err != nil {
			return err
		}
		platforms = []settings.Platform{p}
	}

	proj, err := openProject()
	if err != nil {
		return err
	}

	for i, p := range platforms {
		if i > 0 {
			fmt.Fprintln(stdout)
		}
		fmt.Fprintf(stdout, "%s:\n", p)
		list := proj.store.Settings(p)
		for _, s := range list {
			indent := strings.Repeat("  ", settings.Depth(list, s.Key)+1)
			fmt.Fprintf(stdout, "%s%s = %s  (%s)\n", indent, s.Key, s.Value, s.Label)
			if *tooltips && s.Tooltip != "" {
				fmt.Fprintf(stdout, "%s  %s\n", indent, s.Tooltip)
			}
		}
	}
	return nil
}

func runSettingsGet(args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: notifykit settings get <platform> <key>")
	}
	p, err := settings.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	proj, err := openProject()
	if err != nil {
		return err
	}

	v, ok := proj.store.Get(p, args[1])
	if !ok {
		return fmt.Errorf("%w: %s/%s", settings.ErrUnknownSetting, p, args[1])
	}
	fmt.Fprintln(stdout, v)
	return nil
}

func runSettingsSet(args []string) error {
	if len(args) != 3 {
		return fmt.Errorf("usage: notifykit settings set <platform> <key> <value>")
	}
	p, err := settings.ParsePlatform(args[0])
	if err != nil {
		return err
	}

	proj, err := openProject()
	if err != nil {
		return err
	}

	setting, ok := proj.store.Lookup(p, args[1])
	if !ok {
		return fmt.Errorf("%w: %s/%s", settings.ErrUnknownSetting, p, args[1])
	}
	v, err := settings.Parse(setting.Kind(), args[2])
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", setting.Key, err)
	}
	if err := proj.store.Set(p, setting.Key, v); err != nil {
		return err
	}

	fmt.Fprintf(stdout, "%s/%s = %s\n", p, setting.Key, v)
	return nil
}
