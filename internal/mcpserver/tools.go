package mcpserver

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	"go.uber.org/zap"

	"github.com/shinji-kodama/archscaffold/internal/catalog"
	"github.com/shinji-kodama/archscaffold/internal/model"
	"github.com/shinji-kodama/archscaffold/internal/render"
	"github.com/shinji-kodama/archscaffold/internal/scaffold"
)

// Tool names.
const (
	ScaffoldToolName     = "scaffold_project"
	ListPatternsToolName = "list_patterns"
)

// ScaffoldTool handles scaffold_project.
type ScaffoldTool struct {
	scaffolder *scaffold.Scaffolder
	baseDir    string
	logger     *zap.Logger
}

// NewScaffoldTool creates the tool. baseDir is the authorized root.
func NewScaffoldTool(s *scaffold.Scaffolder, baseDir string, logger *zap.Logger) *ScaffoldTool {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ScaffoldTool{scaffolder: s, baseDir: baseDir, logger: logger}
}

// Definition returns the tool schema. pattern_type is a closed enum so
// clients can validate before calling.
func (t *ScaffoldTool) Definition() mcp.Tool {
	return mcp.NewTool(ScaffoldToolName,
		mcp.WithDescription("Create the directory structure and starter files of an architecture pattern. "+
			"Existing files are left untouched and reported as skipped."),
		mcp.WithString("path",
			mcp.Required(),
			mcp.Description("Target directory, relative to the server's working directory"),
		),
		mcp.WithString("pattern_type",
			mcp.Required(),
			mcp.Enum(model.PatternKeyStrings()...),
			mcp.Description("Architecture pattern to apply"),
		),
	)
}

// Handle validates the arguments and runs the scaffold. Failures are
// returned as tool error results, never as protocol errors.
func (t *ScaffoldTool) Handle(ctx context.Context, req mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	path, err := req.RequireString("path")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	rawKey, err := req.RequireString("pattern_type")
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}
	key, err := model.ParsePatternKey(rawKey)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	log := t.logger.With(zap.String("path", path), zap.Stringer("pattern", key))
	log.Debug("scaffold_project called")

	res, err := t.scaffolder.Scaffold(ctx, path, key, t.baseDir)
	if err != nil {
		log.Warn("scaffold_project failed", zap.String("kind", model.ErrorKind(err)), zap.Error(err))
		return mcp.NewToolResultError(errorText(err)), nil
	}

	return mcp.NewToolResultText(render.Summary(res)), nil
}

// errorText prefixes the error with a readable name for its kind.
func errorText(err error) string {
	switch model.ErrorKind(err) {
	case "security_violation":
		return fmt.Sprintf("Security violation: %v", err)
	case "directory_creation":
		return fmt.Sprintf("Directory creation failed: %v", err)
	case "file_creation":
		return fmt.Sprintf("File creation failed: %v", err)
	case "invalid_pattern":
		return fmt.Sprintf("Invalid pattern: %v", err)
	case "invalid_argument":
		return fmt.Sprintf("Invalid argument: %v", err)
	default:
		return fmt.Sprintf("Scaffold failed: %v", err)
	}
}

// ListPatternsTool handles list_patterns.
type ListPatternsTool struct {
	catalog *catalog.Catalog
}

// NewListPatternsTool creates the tool.
func NewListPatternsTool(c *catalog.Catalog) *ListPatternsTool {
	return &ListPatternsTool{catalog: c}
}

// Definition returns the tool schema. The tool takes no arguments.
func (t *ListPatternsTool) Definition() mcp.Tool {
	return mcp.NewTool(ListPatternsToolName,
		mcp.WithDescription("List the architecture patterns accepted by scaffold_project"),
	)
}

// Handle returns the pattern listing as text.
func (t *ListPatternsTool) Handle(_ context.Context, _ mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return mcp.NewToolResultText(render.PatternSummary(t.catalog.Patterns())), nil
}
