package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/spf13/pflag"

	"github.com/go-drift/notifykit/pkg/icons"
)

func init() {
	RegisterCommand(&Command{
		Name:  "drawable",
		Short: "Manage Android notification icons",
		Long: `Manage the drawable resources exported as Android notification icons.

Small icons are rendered as white silhouettes and must be at least 48x48.
Large icons keep their colors and must be at least 192x192. Images must be
square. Identifiers use lowercase letters, digits and underscores and need
not be unique; on export the later resource wins.

Subcommands:
  list                                  Show resources with their index
  add <id> <image> [--type small|large] Append a resource
  remove <index>                        Remove the resource at index
  remove -- <index>                     Same, for an index starting with -
  remove --id <id>                      Remove the first resource with id
  clear                                 Remove every resource
  export <dir>                          Render icons into an Android res dir`,
		Usage: "notifykit drawable <list|add|remove|clear|export> [args]",
		Run:   runDrawable,
	})
}

func runDrawable(args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("drawable requires a subcommand (list, add, remove, clear, export)")
	}
	switch args[0] {
	case "list":
		return runDrawableList()
	case "add":
		return runDrawableAdd(args[1:])
	case "remove":
		return runDrawableRemove(args[1:])
	case "clear":
		return runDrawableClear()
	case "export":
		return runDrawableExport(args[1:])
	default:
		return fmt.Errorf("unknown drawable subcommand %q", args[0])
	}
}

func runDrawableList() error {
	proj, err := openProject()
	if err != nil {
		return err
	}

	list := proj.store.Drawables()
	if len(list) == 0 {
		fmt.Fprintln(stdout, "No drawable resources.")
		return nil
	}
	for i, d := range list {
		fmt.Fprintf(stdout, "  %2d  %-20s %-6s %s\n", i, d.ID, d.Type, d.Image)
	}
	return nil
}

func runDrawableAdd(args []string) error {
	fs := pflag.NewFlagSet("drawable add", pflag.ContinueOnError)
	fs.SetOutput(stdout)
	typeName := fs.StringP("type", "t", "small", "icon type: small or large")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() != 2 {
		return fmt.Errorf("usage: notifykit drawable add <id> <image> [--type small|large]")
	}
	typ, err := icons.ParseType(*typeName)
	if err != nil {
		return err
	}

	proj, err := openProject()
	if err != nil {
		return err
	}

	id, image := fs.Arg(0), filepath.ToSlash(fs.Arg(1))
	if err := proj.store.AddDrawable(id, typ, image); err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Added %s icon %q (%s)\n", typ, id, image)
	return nil
}

func runDrawableRemove(args []string) error {
	fs := pflag.NewFlagSet("drawable remove", pflag.ContinueOnError)
	fs.SetOutput(stdout)
	id := fs.String("id", "", "remove the first resource with this identifier")
	if err := fs.Parse(indexArgs(args)); err != nil {
		return err
	}

	proj, err := openProject()
	if err != nil {
		return err
	}

	if fs.Changed("id") {
		if fs.NArg() != 0 {
			return fmt.Errorf("remove takes either an index or --id, not both")
		}
		return proj.store.RemoveDrawable(*id)
	}

	if fs.NArg() != 1 {
		return fmt.Errorf("usage: notifykit drawable remove <index> | --id <id>")
	}
	index, err := strconv.Atoi(fs.Arg(0))
	if err != nil {
		return fmt.Errorf("invalid index %q", fs.Arg(0))
	}
	return proj.store.RemoveDrawableAt(index)
}

// indexArgs moves negative numbers behind "--" so they parse as an index
// rather than a shorthand flag.
func indexArgs(args []string) []string {
	var flags, indexes []string
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if arg == "--" {
			indexes = append(indexes, args[i+1:]...)
			break
		}
		if _, err := strconv.Atoi(arg); err == nil && strings.HasPrefix(arg, "-") {
			indexes = append(indexes, arg)
			continue
		}
		flags = append(flags, arg)
		if arg == "--id" && i+1 < len(args) {
			i++
			flags = append(flags, args[i])
		}
	}
	if len(indexes) == 0 {
		return flags
	}
	return append(append(flags, "--"), indexes...)
}

func runDrawableClear() error {
	proj, err := openProject()
	if err != nil {
		return err
	}
	return proj.store.ClearDrawables()
}

func runDrawableExport(args []string) error {
	if len(args) != 1 {
		return fmt.Errorf("usage: notifykit drawable export <dir>")
	}
	proj, err := openProject()
	if err != nil {
		return err
	}

	files := proj.store.ExportDrawables(proj.cfg.Root)
	names := make([]string, 0, len(files))
	for name := range files {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		dst := filepath.Join(args[0], filepath.FromSlash(name))
		if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
		if err := os.WriteFile(dst, files[name], 0o644); err != nil {
			return fmt.Errorf("failed to write %s: %w", dst, err)
		}
	}
	fmt.Fprintf(stdout, "Exported %d files to %s\n", len(names), args[0])
	return nil
}
