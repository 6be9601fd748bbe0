package cli

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/shinji-kodama/archscaffold/internal/mcpserver"
)

// NewServeCommand creates the "serve" command, which runs the MCP server
// on stdin/stdout.
func NewServeCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run as an MCP server over stdio",
		Long: `Run a Model Context Protocol server on stdin/stdout.

The server offers two tools: scaffold_project (path, pattern_type) and
list_patterns. Target paths are resolved against the base directory.
Logs go to stderr so they never mix with protocol traffic.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			baseDir, err := resolveBaseDir()
			if err != nil {
				return err
			}

			s := mcpserver.New(
				mcpserver.Config{BaseDir: baseDir, Version: Version},
				mcpserver.WithLogger(logger),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			logger.Debug("starting mcp server", zap.String("baseDir", baseDir))
			err = mcpserver.Serve(ctx, s, cmd.InOrStdin(), cmd.OutOrStdout(), logger)
			if errors.Is(err, context.Canceled) {
				return nil
			}
			return err
		},
	}
}
