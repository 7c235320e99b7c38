// Package workflow holds the operations shared by the CLI and the MCP
// server: a single run of the configured program and the read-only
// preflight that checks a run could succeed.
package workflow

import (
	"context"
	"os/exec"

	"go.uber.org/zap"

	"github.com/deixis/cronrun/internal/config"
	"github.com/deixis/cronrun/internal/runner"
)

// CommandRunner performs one invocation.
// Implemented by runner.Runner.
type CommandRunner interface {
	Run(ctx context.Context) (*runner.Result, error)
}

// Engine holds shared dependencies for all workflow operations.
type Engine struct {
	Config *config.Config
	Runner CommandRunner

	// LookPath resolves the interpreter; exec.LookPath when nil.
	LookPath func(file string) (string, error)
}

// NewEngine wires a Runner for cfg.
func NewEngine(cfg *config.Config, log *zap.Logger) *Engine {
	return &Engine{
		Config: cfg,
		Runner: NewRunner(cfg, log),
	}
}

// NewRunner builds the Runner described by cfg.
func NewRunner(cfg *config.Config, log *zap.Logger) *runner.Runner {
	return &runner.Runner{
		WorkDir:     cfg.WorkDir(),
		Interpreter: cfg.Interpreter(),
		Script:      cfg.Script(),
		LogName:     cfg.LogName(),
		Env:         cfg.Environ(),
		Logger:      log,
	}
}

// Run performs one invocation. The child's exit code only becomes an
// error when the config opts into propagating it.
func (e *Engine) Run(ctx context.Context) (*runner.Result, error) {
	res, err := e.Runner.Run(ctx)
	if err != nil {
		return res, err
	}
	if e.Config.PropagateExitCode {
		return res, res.Err()
	}
	return res, nil
}

func (e *Engine) lookPath(file string) (string, error) {
	if e.LookPath != nil {
		return e.LookPath(file)
	}
	return exec.LookPath(file)
}
