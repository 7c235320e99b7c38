package mcp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"go.uber.org/zap"

	"github.com/deixis/cronrun/internal/runner"
)

type runParams struct{}

func (h *handler) runHandler(ctx context.Context, req *mcp.CallToolRequest, _ runParams) (*mcp.CallToolResult, any, error) {
	res, err := h.engine.Runner.Run(ctx)
	if res != nil {
		if saveErr := h.store.Save(res); saveErr != nil {
			h.log.Warn("saving run", zap.Error(saveErr))
		}
	}
	if err != nil {
		var wdErr *runner.WorkDirError
		if errors.As(err, &wdErr) {
			return errorResult(fmt.Sprintf("Aborted: cannot enter working directory %s: %v\nNothing was launched and cron.log was not touched.", wdErr.Dir, wdErr.Err))
		}
		return errorResult(fmt.Sprintf("Run failed: %v", err))
	}
	return textResult(formatRun(res))
}

func formatRun(res *runner.Result) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Run: %s\n", res.RunID)
	if res.ExitCode < 0 {
		fmt.Fprintf(&b, "Exit: killed by signal\n")
	} else {
		fmt.Fprintf(&b, "Exit: %d\n", res.ExitCode)
	}
	fmt.Fprintf(&b, "Command: %s\n", strings.Join(res.Argv, " "))
	fmt.Fprintf(&b, "Directory: %s\n", res.WorkDir)
	fmt.Fprintf(&b, "Started: %s\n", res.Started.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(&b, "Duration: %s\n", res.Duration().Round(time.Millisecond))
	fmt.Fprintf(&b, "Log: %s bytes [%d, %d) (+%d)\n", res.LogPath, res.LogStart, res.LogEnd, res.Appended())
	fmt.Fprintln(&b)
	fmt.Fprintf(&b, "Inspect with cron_inspect(run_id=%q).\n", res.RunID)

	return b.String()
}
