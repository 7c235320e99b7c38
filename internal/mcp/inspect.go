package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deixis/cronrun/internal/cronlog"
	"github.com/deixis/cronrun/internal/runner"
)

type inspectParams struct {
	RunID string `json:"run_id" jsonschema:"the run ID from a cron_run result"`
}

func (h *handler) inspectHandler(ctx context.Context, req *mcp.CallToolRequest, params inspectParams) (*mcp.CallToolResult, any, error) {
	if params.RunID == "" {
		return errorResult("run_id is required")
	}

	res, err := h.store.Load(params.RunID)
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to load run %s: %v", params.RunID, err))
	}

	data, truncated, err := cronlog.ReadRange(res.LogPath, res.LogStart, res.LogEnd, h.engine.Config.MaxOutputBytes())
	if err != nil {
		return errorResult(fmt.Sprintf("Failed to read %s: %v", res.LogPath, err))
	}
	return textResult(formatInspect(res, data, truncated))
}

func formatInspect(res *runner.Result, output []byte, truncated bool) string {
	var b strings.Builder

	b.WriteString(formatRun(res))
	fmt.Fprintln(&b)

	if len(output) == 0 {
		fmt.Fprintln(&b, "Output: (none)")
		return b.String()
	}

	fmt.Fprintln(&b, "Output:")
	for _, line := range strings.Split(strings.TrimRight(string(output), "\n"), "\n") {
		fmt.Fprintf(&b, "    %s\n", line)
	}
	if truncated {
		fmt.Fprintf(&b, "    ... (truncated, %d of %d bytes shown)\n", len(output), res.Appended())
	}
	return b.String()
}
