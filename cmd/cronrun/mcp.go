package main

import (
	"context"
	"fmt"
	"net/http"

	mcpsdk "github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	cronmcp "github.com/deixis/cronrun/internal/mcp"
	"github.com/deixis/cronrun/internal/report"
	"github.com/deixis/cronrun/internal/workflow"
)

func newMCPCmd(opts *options) *cobra.Command {
	var (
		httpAddr     string
		instructions bool
	)

	cmd := &cobra.Command{
		Use:   "mcp",
		Short: "Serve the run and inspection tools over MCP (stdio by default)",
		Args:  noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if instructions {
				fmt.Fprint(cmd.OutOrStdout(), cronmcp.Instructions)
				return nil
			}

			cfg, log, err := setup(opts)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, stop := signalContext(cmd.Context())
			defer stop()

			store := report.NewLRUStore(cfg.History())
			server := cronmcp.NewServer(workflow.NewEngine(cfg, log), store, log)

			if httpAddr != "" {
				return serveHTTP(ctx, server, httpAddr, log)
			}
			return cronmcp.Run(ctx, server)
		},
	}
	cmd.Flags().StringVar(&httpAddr, "http", "", "start HTTP server on address (e.g. :9090)")
	cmd.Flags().BoolVar(&instructions, "instructions", false, "print model instructions and exit")
	return cmd
}

func serveHTTP(ctx context.Context, server *mcpsdk.Server, addr string, log *zap.Logger) error {
	handler := mcpsdk.NewStreamableHTTPHandler(
		func(_ *http.Request) *mcpsdk.Server { return server },
		nil,
	)

	httpServer := &http.Server{
		Addr:    addr,
		Handler: handler,
	}

	go func() {
		<-ctx.Done()
		_ = httpServer.Close()
	}()

	log.Info("listening", zap.String("addr", addr))
	if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}
