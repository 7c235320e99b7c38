// Package mcp provides the cronrun MCP server, registering the run and
// inspection tools and publishing model instructions.
package mcp

import (
	"context"
	_ "embed"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/deixis/cronrun"
	"github.com/deixis/cronrun/internal/report"
	"github.com/deixis/cronrun/internal/workflow"
)

//go:embed instructions.md
var Instructions string

// handler holds shared dependencies for all tool handlers.
type handler struct {
	engine *workflow.Engine
	store  report.Store
	log    *zap.Logger
}

// NewServer creates an MCP server with all cronrun tools registered.
func NewServer(engine *workflow.Engine, store report.Store, log *zap.Logger) *mcp.Server {
	if log == nil {
		log = zap.NewNop()
	}
	h := &handler{
		engine: engine,
		store:  store,
		log:    log,
	}

	s := mcp.NewServer(&mcp.Implementation{Name: "cronrun", Version: cronrun.Version}, &mcp.ServerOptions{
		Instructions: Instructions,
		Capabilities: &mcp.ServerCapabilities{
			Tools: &mcp.ToolCapabilities{ListChanged: false},
		},
	})

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cron_check",
		Description: "Read-only preflight: working directory, interpreter, script and log writability. Stops at the first failure.",
	}, h.checkHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name: "cron_run",
		Description: `Run the configured program once, now, exactly as cron would.

Enters the working directory (aborting if that fails), launches the interpreter with the script,
and appends the program's merged stdout/stderr to cron.log. Blocks until the program exits.
The program's exit code is reported but does not make this tool fail. Inspect with cron_inspect.`,
	}, h.runHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cron_inspect",
		Description: "Show a run started by cron_run and the bytes it appended to cron.log.",
	}, h.inspectHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cron_history",
		Description: "List runs started by this server, newest first.",
	}, h.historyHandler)

	mcp.AddTool(s, &mcp.Tool{
		Name:        "cron_log",
		Description: "Show the end of cron.log, including output from runs triggered by cron.",
	}, h.logHandler)

	return s
}

// Run serves s over stdio until ctx is done.
func Run(ctx context.Context, s *mcp.Server) error {
	return s.Run(ctx, &mcp.StdioTransport{})
}

// textResult is a helper to build a text-only tool result.
func textResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
	}, nil, nil
}

// errorResult is a helper to build an error tool result.
func errorResult(text string) (*mcp.CallToolResult, any, error) {
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: text}},
		IsError: true,
	}, nil, nil
}
