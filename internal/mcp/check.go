package mcp

import (
	"context"
	"fmt"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/deixis/cronrun/internal/workflow"
)

type checkParams struct{}

func (h *handler) checkHandler(ctx context.Context, req *mcp.CallToolRequest, _ checkParams) (*mcp.CallToolResult, any, error) {
	return textResult(formatCheck(h.engine.Check(ctx)))
}

func formatCheck(res *workflow.CheckResult) string {
	var b strings.Builder

	if res.OK() {
		fmt.Fprintln(&b, "Status: PASS")
	} else {
		fmt.Fprintln(&b, "Status: FAIL")
	}
	fmt.Fprintln(&b)

	for _, s := range res.Steps {
		if s.Detail != "" {
			fmt.Fprintf(&b, "%s: %s (%s)\n", s.Name, s.Status, s.Detail)
		} else {
			fmt.Fprintf(&b, "%s: %s\n", s.Name, s.Status)
		}
	}
	return b.String()
}
