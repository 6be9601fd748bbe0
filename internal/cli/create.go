// Package cli: create.go implements the "archscaffold create" command.
//
// Orchestration steps:
//  1. Pick the pattern (--pattern, else defaultPattern from config)
//  2. Resolve the base directory (--base-dir, config, working directory)
//  3. Run the scaffolder
//  4. Optionally initialize a Git repository in the target
//  5. Output results (text or JSON)
package cli

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/archscaffold/internal/gitrepo"
	"github.com/shinji-kodama/archscaffold/internal/model"
	"github.com/shinji-kodama/archscaffold/internal/render"
	"github.com/shinji-kodama/archscaffold/internal/scaffold"
)

// createFlags holds the flag values for the create command.
type createFlags struct {
	pattern string // --pattern: pattern key
	git     bool   // --git: run git init after scaffolding
	gitSet  bool   // whether --git was given explicitly
}

// createOutput is the JSON shape of a successful create.
type createOutput struct {
	*model.Result

	// GitInitialized is true when a new repository was created.
	GitInitialized bool `json:"gitInitialized"`
}

// NewCreateCommand creates the "create" cobra command.
func NewCreateCommand() *cobra.Command {
	flags := &createFlags{}

	cmd := &cobra.Command{
		Use:   "create <path>",
		Short: "Scaffold an architecture pattern into a directory",
		Long: `Create the directories and starter files of an architecture pattern.

The target path is resolved against the base directory and must stay inside
it. Missing directories are created; files that already exist are left
untouched and reported as skipped.

Examples:
  archscaffold create services/billing --pattern hexagonal
  archscaffold create web -p mvc --git
  archscaffold create . --pattern clean-architecture --json`,

		Args: cobra.ExactArgs(1),

		RunE: func(cmd *cobra.Command, args []string) error {
			flags.gitSet = cmd.Flags().Changed("git")
			return runCreate(cmd.Context(), cmd.OutOrStdout(), args[0], flags)
		},
	}

	cmd.Flags().StringVarP(&flags.pattern, "pattern", "p", "", "Pattern key (default: defaultPattern from config)")
	cmd.Flags().BoolVar(&flags.git, "git", false, "Initialize a Git repository in the target unless it is already inside one")

	_ = cmd.RegisterFlagCompletionFunc("pattern", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return model.PatternKeyStrings(), cobra.ShellCompDirectiveNoFileComp
	})

	return cmd
}

// runCreate is the main orchestration function for the create command.
func runCreate(ctx context.Context, out io.Writer, target string, flags *createFlags) error {
	key, err := selectPattern(flags.pattern, settings.DefaultPattern)
	if err != nil {
		return err
	}
	VerboseLog("Pattern: %s", key)

	baseDir, err := resolveBaseDir()
	if err != nil {
		return err
	}
	VerboseLog("Base directory: %s", baseDir)

	s := scaffold.New(scaffold.WithLogger(logger))
	res, err := s.Scaffold(ctx, target, key, baseDir)
	if err != nil {
		return err
	}

	gitInit := settings.GitInit
	if flags.gitSet {
		gitInit = flags.git
	}

	initialized := false
	if gitInit {
		VerboseLog("Initializing Git repository in %s", res.ResolvedTarget)
		initialized, err = gitrepo.NewManager().Init(ctx, res.ResolvedTarget)
		if err != nil {
			return err
		}
		if !initialized {
			VerboseLog("Target is already inside a Git repository, skipping init")
		}
	}

	if IsJSONOutput() {
		return printJSON(out, createOutput{Result: res, GitInitialized: initialized})
	}

	render.NewPrinter(colored).Result(out, res)
	if initialized {
		fmt.Fprintln(out)
		fmt.Fprintf(out, "Initialized empty Git repository in %s\n", res.ResolvedTarget)
	}
	return nil
}

// selectPattern returns the pattern named by the flag, falling back to the
// configured default.
func selectPattern(flagValue, configured string) (model.PatternKey, error) {
	raw := flagValue
	if raw == "" {
		raw = configured
	}
	if raw == "" {
		return "", model.WrapCLIError(
			model.ExitInvalidPattern,
			"no pattern selected: use --pattern or set defaultPattern in the config file",
			model.ErrUnknownPattern,
		)
	}
	return model.ParsePatternKey(raw)
}
