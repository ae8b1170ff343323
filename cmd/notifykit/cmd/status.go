package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/go-drift/notifykit/pkg/icons"
	"github.com/go-drift/notifykit/pkg/settings"
)

func init() {
	RegisterCommand(&Command{
		Name:  "status",
		Short: "Show project status",
		Long: `Show the current status of the notifykit project.

Displays the resolved project root, the settings file and its format
version, how many settings each platform stores, the drawable resources
and the export targets used by postprocess.`,
		Usage: "notifykit status",
		Run:   runStatus,
	})
}

func runStatus(args []string) error {
	cfg, err := resolveProject()
	if err != nil {
		return err
	}

	_, statErr := os.Stat(cfg.SettingsPath)
	existed := statErr == nil

	proj, err := openProject()
	if err != nil {
		return err
	}

	rel, err := filepath.Rel(cfg.Root, cfg.SettingsPath)
	if err != nil {
		rel = cfg.SettingsPath
	}

	fmt.Fprintf(stdout, "Project:  %s\n", cfg.Root)
	state := "format " + settings.FormatVersion
	if !existed {
		state = "created with defaults"
	}
	fmt.Fprintf(stdout, "Settings: %s (%s)\n", filepath.ToSlash(rel), state)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Platforms:")
	for _, p := range settings.Platforms() {
		fmt.Fprintf(stdout, "  %-8s %d settings\n", string(p)+":", proj.store.Collection(p).Len())
	}
	fmt.Fprintln(stdout)

	small, large := 0, 0
	for _, d := range proj.store.Drawables() {
		if d.Type == icons.Large {
			large++
		} else {
			small++
		}
	}
	fmt.Fprintf(stdout, "Drawables: %d small, %d large\n", small, large)
	fmt.Fprintln(stdout)

	fmt.Fprintln(stdout, "Targets:")
	fmt.Fprintf(stdout, "  ios:     %s (frameworks), %s (push, %s)\n", cfg.FrameworkTarget, cfg.MainTarget, cfg.Entitlements)
	fmt.Fprintf(stdout, "  android: %s\n", cfg.LibraryModule)
	if len(cfg.Checkout) > 0 {
		fmt.Fprintf(stdout, "  checkout: %v\n", cfg.Checkout)
	}

	return nil
}
