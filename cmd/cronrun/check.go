package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/deixis/cronrun/internal/workflow"
)

var errCheckFailed = errors.New("preflight failed")

func newCheckCmd(opts *options) *cobra.Command {
	var jsonOut bool

	cmd := &cobra.Command{
		Use:   "check",
		Short: "Verify the work dir, interpreter, script and log without running anything",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := setup(opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			result := workflow.NewEngine(cfg, log).Check(ctx)

			out := cmd.OutOrStdout()
			if jsonOut {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(result); err != nil {
					return err
				}
			} else {
				writeCheck(out, result)
			}

			if !result.OK() {
				return errCheckFailed
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOut, "json", false, "output results as JSON")
	return cmd
}

func writeCheck(w io.Writer, result *workflow.CheckResult) {
	if result.OK() {
		fmt.Fprint(w, "ok\n\n")
	} else {
		fmt.Fprint(w, "FAIL\n\n")
	}

	for _, s := range result.Steps {
		switch s.Status {
		case workflow.StatusPass:
			fmt.Fprintf(w, "  %-12s ok    %s\n", s.Name, s.Detail)
		case workflow.StatusFail:
			fmt.Fprintf(w, "  %-12s FAIL  %s\n", s.Name, s.Detail)
		case workflow.StatusUnavailable:
			fmt.Fprintf(w, "  %-12s unavailable  %s\n", s.Name, s.Detail)
		case workflow.StatusSkipped:
			fmt.Fprintf(w, "  %-12s -\n", s.Name)
		}
	}
}
