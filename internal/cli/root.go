// Package cli implements the cobra-based CLI commands for archscaffold.
//
// Each subcommand (create, patterns, serve) is defined in its own file
// within this package. This file defines the root command that serves as
// the parent for all subcommands and handles global flags, logging,
// configuration and error reporting.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/shinji-kodama/archscaffold/internal/config"
	"github.com/shinji-kodama/archscaffold/internal/model"
)

// Global flag variables shared across all subcommands.
// These are bound to cobra persistent flags on the root command,
// which makes them available to every subcommand automatically.
var (
	// jsonOutput controls whether command output is formatted as JSON.
	jsonOutput bool

	// verbose lowers the log level to debug.
	verbose bool

	// configPath points at an explicit config file. When empty, the working
	// directory is searched for one of config.FileNames.
	configPath string

	// baseDirFlag overrides the authorized root from the config file.
	baseDirFlag string

	// colorFlag is one of auto, always, never. Empty means "use config".
	colorFlag string
)

// State prepared by the root command before any subcommand runs.
var (
	// logger is replaced in PersistentPreRunE; the no-op default keeps
	// helpers safe when a command is run without the root.
	logger = zap.NewNop()

	// settings is the loaded configuration file (possibly empty).
	settings = &config.Config{}

	// colored reports whether human-readable output uses ANSI colors.
	colored bool
)

// Version, Commit, and Date are set at build time via ldflags.
// They are injected from the main package to display version information.
var (
	// Version is the semantic version of the binary (e.g., "1.0.0").
	Version = "dev"

	// Commit is the Git commit hash the binary was built from.
	Commit = "none"

	// Date is the build timestamp.
	Date = "unknown"
)

// NewRootCommand creates and configures the root cobra command.
//
// The root command itself does not perform any action. It provides help
// text and global flags; subcommands do the work.
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "archscaffold",
		Short: "Scaffold project layouts for common architecture patterns",
		Long: `archscaffold creates the directory structure and starter files of a
well-known architecture pattern (clean architecture, hexagonal, MVC, ...)
inside a target directory.

Targets must resolve inside the base directory (the working directory by
default). Existing files are never overwritten; they are reported as skipped,
so running the same command twice is safe.`,

		// We handle error output ourselves (text or JSON based on --json).
		SilenceUsage:  true,
		SilenceErrors: true,

		Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, Commit, Date),

		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return prepare(cmd)
		},
	}

	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Config file (default: .archscaffold.{yaml,yml,json,jsonc} in the working directory)")
	rootCmd.PersistentFlags().StringVar(&baseDirFlag, "base-dir", "", "Authorized root for target paths (default: working directory)")
	rootCmd.PersistentFlags().StringVar(&colorFlag, "color", "", "Color output: auto, always or never (default: auto)")

	rootCmd.AddCommand(NewCreateCommand())
	rootCmd.AddCommand(NewPatternsCommand())
	rootCmd.AddCommand(NewServeCommand())

	return rootCmd
}

// prepare builds the logger, loads configuration and decides on colors.
func prepare(cmd *cobra.Command) error {
	l, err := newLogger(verbose)
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to initialize logger", err)
	}
	logger = l

	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	settings = cfg
	if cfg.Source != "" {
		VerboseLog("Loaded config: %s", cfg.Source)
	}

	mode := colorFlag
	if mode == "" {
		mode = cfg.Color
	}
	enabled, err := useColor(mode, os.Getenv("NO_COLOR") != "", isTerminal(cmd.OutOrStdout()))
	if err != nil {
		return err
	}
	colored = enabled
	return nil
}

// newLogger builds the stderr logger. Warnings and errors are always shown;
// --verbose adds debug output.
func newLogger(debug bool) (*zap.Logger, error) {
	cfg := zap.NewProductionConfig()
	cfg.Encoding = "console"
	cfg.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	cfg.DisableStacktrace = true
	cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
	if debug {
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	}
	return cfg.Build()
}

// loadConfig loads --config or discovers a file in the working directory.
func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.Load(configPath)
	}
	cwd, err := os.Getwd()
	if err != nil {
		return nil, model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
	}
	return config.Discover(cwd)
}

// resolveBaseDir applies flag > config > working directory precedence.
func resolveBaseDir() (string, error) {
	switch {
	case baseDirFlag != "":
		abs, err := filepath.Abs(baseDirFlag)
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to resolve --base-dir", err)
		}
		return abs, nil
	case settings.BaseDir != "":
		return settings.BaseDir, nil
	default:
		cwd, err := os.Getwd()
		if err != nil {
			return "", model.WrapCLIError(model.ExitGeneralError, "failed to get current directory", err)
		}
		return cwd, nil
	}
}

// useColor decides whether to emit ANSI colors for the given mode.
// NO_COLOR (https://no-color.org) disables auto mode only.
func useColor(mode string, noColorEnv, terminal bool) (bool, error) {
	switch mode {
	case "", config.ColorAuto:
		return terminal && !noColorEnv, nil
	case config.ColorAlways:
		return true, nil
	case config.ColorNever:
		return false, nil
	default:
		return false, model.NewCLIError(
			model.ExitGeneralError,
			fmt.Sprintf("invalid color mode %q (valid: auto, always, never)", mode),
		)
	}
}

// isTerminal reports whether w is a terminal (including Cygwin/MSYS ptys).
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Execute runs the root command and handles exit codes.
// This is the main entry point called from main.go.
func Execute(rootCmd *cobra.Command) {
	err := rootCmd.Execute()
	_ = logger.Sync()
	if err != nil {
		os.Exit(int(reportError(os.Stderr, err)))
	}
}

// reportError writes err in the format selected by --json and returns the
// exit code for it. CLIErrors carry their own code; scaffolding errors are
// mapped by kind.
func reportError(w io.Writer, err error) model.ExitCode {
	message := err.Error()
	var underlying error
	if cliErr, ok := err.(*model.CLIError); ok {
		message = cliErr.Message
		underlying = cliErr.Err
	}
	printError(w, message, model.ErrorKind(err), underlying)
	return model.ExitCodeFor(err)
}

// printError outputs an error message in the appropriate format
// (JSON or text) based on the --json global flag.
func printError(w io.Writer, message, kind string, underlying error) {
	if jsonOutput {
		errMap := map[string]any{
			"message": message,
			"kind":    kind,
		}
		if underlying != nil {
			errMap["detail"] = underlying.Error()
		}
		// Errors go to stderr even in JSON mode; stdout is reserved for
		// successful command output.
		data, _ := json.MarshalIndent(map[string]any{"error": errMap}, "", "  ")
		fmt.Fprintln(w, string(data))
		return
	}

	if underlying != nil {
		fmt.Fprintf(w, "Error: %s: %v\n", message, underlying)
	} else {
		fmt.Fprintf(w, "Error: %s\n", message)
	}
}

// printJSON writes v as indented JSON to w.
func printJSON(w io.Writer, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return model.WrapCLIError(model.ExitGeneralError, "failed to marshal JSON", err)
	}
	fmt.Fprintln(w, string(data))
	return nil
}

// VerboseLog writes a debug message through the CLI logger. It is only
// visible with --verbose.
func VerboseLog(format string, args ...any) {
	logger.Sugar().Debugf(format, args...)
}

// IsJSONOutput returns whether the --json flag is set.
// Subcommands use this to decide their output format.
func IsJSONOutput() bool {
	return jsonOutput
}
