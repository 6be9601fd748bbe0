// Package mcpserver exposes the scaffolder as Model Context Protocol tools.
//
// This is the composition root for the request/response surface: it builds
// the tools, registers them on an mcp-go server and runs the stdio
// transport. No scaffolding logic lives here; the tools validate arguments,
// call the scaffolder and render the outcome as text.
package mcpserver

import (
	"context"
	"io"

	"github.com/mark3labs/mcp-go/server"
	"go.uber.org/zap"

	"github.com/shinji-kodama/archscaffold/internal/catalog"
	"github.com/shinji-kodama/archscaffold/internal/scaffold"
)

// ServerName is the name advertised during the MCP handshake.
const ServerName = "archscaffold"

// Config holds the values the server needs from the host process.
type Config struct {
	// BaseDir is the authorized root every target path is resolved against.
	BaseDir string

	// Version is advertised to clients.
	Version string
}

type options struct {
	logger     *zap.Logger
	scaffolder *scaffold.Scaffolder
	catalog    *catalog.Catalog
}

// Option configures New.
type Option func(*options)

// WithLogger sets the logger used for tool calls.
func WithLogger(l *zap.Logger) Option {
	return func(o *options) { o.logger = l }
}

// WithScaffolder replaces the default scaffolder.
func WithScaffolder(s *scaffold.Scaffolder) Option {
	return func(o *options) { o.scaffolder = s }
}

// WithCatalog replaces the catalog used by list_patterns.
func WithCatalog(c *catalog.Catalog) Option {
	return func(o *options) { o.catalog = c }
}

// New creates the MCP server with every tool registered.
func New(cfg Config, opts ...Option) *server.MCPServer {
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	if o.catalog == nil {
		o.catalog = catalog.Default()
	}
	if o.scaffolder == nil {
		o.scaffolder = scaffold.New(scaffold.WithLogger(o.logger), scaffold.WithPatterns(o.catalog))
	}
	version := cfg.Version
	if version == "" {
		version = "dev"
	}

	s := server.NewMCPServer(
		ServerName,
		version,
		server.WithToolCapabilities(false),
		server.WithRecovery(),
		server.WithInstructions(instructions),
	)

	scaffoldTool := NewScaffoldTool(o.scaffolder, cfg.BaseDir, o.logger)
	s.AddTool(scaffoldTool.Definition(), scaffoldTool.Handle)

	listTool := NewListPatternsTool(o.catalog)
	s.AddTool(listTool.Definition(), listTool.Handle)

	return s
}

// Serve runs s over stdio until in is closed or ctx is cancelled.
// Protocol traffic uses in/out; diagnostics go to the logger.
func Serve(ctx context.Context, s *server.MCPServer, in io.Reader, out io.Writer, logger *zap.Logger) error {
	if logger == nil {
		logger = zap.NewNop()
	}
	stdio := server.NewStdioServer(s)
	stdio.SetErrorLogger(zap.NewStdLog(logger))

	logger.Info("mcp server listening on stdio")
	return stdio.Listen(ctx, in, out)
}

const instructions = `archscaffold creates project directory layouts for well-known architecture patterns.

Use list_patterns to see the available pattern_type values, then call
scaffold_project with a target path (relative to the server's working
directory) and a pattern_type. Existing files are never overwritten; they are
reported as skipped. Paths that resolve outside the working directory are
rejected.`
