// Package cmd implements the notifykit CLI commands.
//
// The command structure follows standard Go CLI patterns with a root command
// that dispatches to subcommands (settings, drawable, postprocess, status).
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	notifyerrors "github.com/go-drift/notifykit/pkg/errors"
)

// Version information set at build time.
var (
	Version   = "0.1.0-dev"
	BuildTime = "unknown"
)

// Command represents a CLI command.
type Command struct {
	Name        string
	Short       string
	Long        string
	Usage       string
	Run         func(args []string) error
	SubCommands []*Command
}

var rootCmd = &Command{
	Name:  "notifykit",
	Short: "notifykit - notification settings for Unity builds",
	Long: `notifykit edits the mobile notification settings stored in a Unity
project and patches exported iOS and Android builds to match them.

Use "notifykit <command> --help" for more information about a command.`,
	Usage: "notifykit <command> [flags]",
}

// Commands registered with the CLI.
var commands = make(map[string]*Command)

// Global flag values, reset on every Execute.
var (
	projectDir string
	verbose    bool
)

// stdout receives command output.
var stdout io.Writer = os.Stdout

// RegisterCommand adds a command to the CLI.
func RegisterCommand(cmd *Command) {
	commands[cmd.Name] = cmd
	rootCmd.SubCommands = append(rootCmd.SubCommands, cmd)
}

// Execute runs the CLI with the process arguments.
func Execute() error {
	return execute(os.Args[1:])
}

func execute(args []string) error {
	projectDir = os.Getenv("NOTIFYKIT_PROJECT")
	verbose = false

	// Handle no arguments
	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	// Handle global flags up to the command name; everything after it
	// belongs to the command.
	i := 0
flags:
	for ; i < len(args); i++ {
		arg := args[i]
		switch {
		case arg == "-h" || arg == "--help" || arg == "help":
			printHelp(rootCmd)
			return nil
		case arg == "-v" || arg == "--version" || arg == "version":
			fmt.Fprintf(stdout, "notifykit version %s (built %s)\n", Version, BuildTime)
			return nil
		case arg == "--verbose":
			verbose = true
			continue
		case arg == "--project":
			if i+1 >= len(args) {
				return fmt.Errorf("--project requires a directory path")
			}
			projectDir = args[i+1]
			i++
			continue
		case strings.HasPrefix(arg, "--project="):
			projectDir = strings.TrimPrefix(arg, "--project=")
			continue
		}
		break flags
	}
	args = args[i:]

	if len(args) == 0 {
		printHelp(rootCmd)
		return nil
	}

	notifyerrors.SetHandler(&notifyerrors.LogHandler{Verbose: verbose})

	// Find and execute the command
	cmdName := args[0]
	cmd, ok := commands[cmdName]
	if !ok {
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmdName)
		printHelp(rootCmd)
		return fmt.Errorf("unknown command: %s", cmdName)
	}

	// Check for help flag on subcommand. A bare "help" counts only in first
	// position so it can still be passed as a value.
	cmdArgs := args[1:]
	if len(cmdArgs) > 0 && cmdArgs[0] == "help" {
		printCommandHelp(cmd)
		return nil
	}
	for _, arg := range cmdArgs {
		if arg == "--" {
			break
		}
		if arg == "-h" || arg == "--help" {
			printCommandHelp(cmd)
			return nil
		}
	}

	return cmd.Run(cmdArgs)
}

func printHelp(cmd *Command) {
	w := stdout
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	for _, sub := range cmd.SubCommands {
		fmt.Fprintf(w, "  %-14s %s\n", sub.Name, sub.Short)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Flags:")
	fmt.Fprintln(w, "  -h, --help           Show help for a command")
	fmt.Fprintln(w, "  -v, --version        Show version information")
	fmt.Fprintln(w, "  --project DIR        Unity project root (default: search upward)")
	fmt.Fprintln(w, "  --verbose            Include kind and time in warnings")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Environment:")
	fmt.Fprintln(w, "  NOTIFYKIT_PROJECT    Project root (lower priority than --project)")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Examples:")
	fmt.Fprintln(w, "  notifykit settings list ios                       Show iOS settings")
	fmt.Fprintln(w, "  notifykit drawable add bell Assets/bell.png       Add a small icon")
	fmt.Fprintln(w, "  notifykit postprocess ios Builds/iOS              Patch an Xcode export")
}

func printCommandHelp(cmd *Command) {
	w := stdout
	fmt.Fprintln(w, cmd.Long)
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Usage:")
	fmt.Fprintf(w, "  %s\n", cmd.Usage)
}
