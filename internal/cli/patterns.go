package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/shinji-kodama/archscaffold/internal/catalog"
	"github.com/shinji-kodama/archscaffold/internal/model"
	"github.com/shinji-kodama/archscaffold/internal/render"
)

// NewPatternsCommand creates the "patterns" command group.
func NewPatternsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "patterns",
		Short: "Inspect the built-in architecture patterns",
	}
	cmd.AddCommand(newPatternsListCommand())
	cmd.AddCommand(newPatternsShowCommand())
	return cmd
}

func newPatternsListCommand() *cobra.Command {
	return &cobra.Command{
		Use:     "list",
		Aliases: []string{"ls"},
		Short:   "List available patterns",
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPatternsList(cmd.OutOrStdout(), catalog.Default())
		},
	}
}

func newPatternsShowCommand() *cobra.Command {
	return &cobra.Command{
		Use:       "show <pattern>",
		Short:     "Show the layout a pattern creates",
		Args:      cobra.ExactArgs(1),
		ValidArgs: model.PatternKeyStrings(),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPatternsShow(cmd.OutOrStdout(), catalog.Default(), args[0])
		},
	}
}

func runPatternsList(out io.Writer, c *catalog.Catalog) error {
	patterns := c.Patterns()
	if IsJSONOutput() {
		return printJSON(out, patterns)
	}
	render.NewPrinter(colored).PatternList(out, patterns)
	return nil
}

func runPatternsShow(out io.Writer, c *catalog.Catalog, raw string) error {
	key, err := model.ParsePatternKey(raw)
	if err != nil {
		return err
	}
	pat, ok := c.Lookup(key)
	if !ok {
		// Every valid key is in the built-in catalog; this guards custom ones.
		return fmt.Errorf("%w: %q", model.ErrUnknownPattern, raw)
	}

	if IsJSONOutput() {
		return printJSON(out, pat)
	}
	render.NewPrinter(colored).PatternTree(out, pat)
	return nil
}
