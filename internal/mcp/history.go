package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deixis/cronrun/internal/cronlog"
)

type historyParams struct{}

func (h *handler) historyHandler(ctx context.Context, req *mcp.CallToolRequest, _ historyParams) (*mcp.CallToolResult, any, error) {
	runs := h.store.List()
	if len(runs) == 0 {
		return textResult("No runs yet.")
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Runs (%d):\n", len(runs))
	for _, r := range runs {
		fmt.Fprintf(&b, "  %s  %s  exit=%d  +%d bytes\n",
			r.RunID, r.Started.Format("2006-01-02 15:04:05"), r.ExitCode, r.Appended())
	}
	return textResult(b.String())
}

type logParams struct {
	Bytes int `json:"bytes,omitempty" jsonschema:"number of bytes to show from the end of cron.log; defaults to and is capped at the configured max_output"`
}

func (h *handler) logHandler(ctx context.Context, req *mcp.CallToolRequest, params logParams) (*mcp.CallToolResult, any, error) {
	limit := h.engine.Config.MaxOutputBytes()
	n := params.Bytes
	if n <= 0 || n > limit {
		n = limit
	}

	path := h.engine.Config.LogPath()
	data, err := cronlog.Tail(path, n)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to read %s: %v", path, err))
	}
	if len(data) == 0 {
		return textResult(fmt.Sprintf("%s is empty or does not exist yet.", path))
	}
	return textResult(string(data))
}
