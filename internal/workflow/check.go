package workflow

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// Step names, in the order they run.
const (
	StepWorkDir     = "workdir"
	StepInterpreter = "interpreter"
	StepScript      = "script"
	StepLog         = "log"
)

// Step statuses.
const (
	StatusPass        = "pass"
	StatusFail        = "fail"
	StatusUnavailable = "unavailable"
	StatusSkipped     = "skipped"
)

// Steps lists the preflight steps in execution order.
var Steps = []string{StepWorkDir, StepInterpreter, StepScript, StepLog}

// CheckResult holds the full outcome of a preflight.
type CheckResult struct {
	Steps     []StepResult `json:"steps"`
	FailedIdx int          `json:"failed_idx"` // -1 if all passed
}

// OK reports whether every step passed.
func (r *CheckResult) OK() bool {
	return r.FailedIdx < 0
}

// StepResult holds the outcome of a single preflight step.
type StepResult struct {
	Name   string `json:"name"`
	Status string `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Check verifies that a run could enter the working directory, launch
// the interpreter with the script and append to the log. It never writes
// anything. Steps run in order and stop at the first failure.
func (e *Engine) Check(ctx context.Context) *CheckResult {
	results := make([]StepResult, len(Steps))
	for i, step := range Steps {
		results[i] = StepResult{Name: step, Status: StatusSkipped}
	}

	failedIdx := -1
	for i, step := range Steps {
		if err := ctx.Err(); err != nil {
			results[i] = StepResult{Name: step, Status: StatusFail, Detail: err.Error()}
			failedIdx = i
			break
		}

		var res StepResult
		switch step {
		case StepWorkDir:
			res = e.checkWorkDir()
		case StepInterpreter:
			res = e.checkInterpreter()
		case StepScript:
			res = e.checkScript()
		case StepLog:
			res = e.checkLog()
		}
		res.Name = step
		results[i] = res

		if res.Status != StatusPass {
			failedIdx = i
			break
		}
	}

	return &CheckResult{Steps: results, FailedIdx: failedIdx}
}

func (e *Engine) checkWorkDir() StepResult {
	dir := e.Config.WorkDir()
	fi, err := os.Stat(dir)
	if err != nil {
		return StepResult{Status: StatusFail, Detail: err.Error()}
	}
	if !fi.IsDir() {
		return StepResult{Status: StatusFail, Detail: fmt.Sprintf("%s is not a directory", dir)}
	}
	return StepResult{Status: StatusPass, Detail: dir}
}

func (e *Engine) checkInterpreter() StepResult {
	interp := e.Config.Interpreter()
	if !filepath.IsAbs(interp) && filepath.Base(interp) != interp {
		interp = filepath.Join(e.Config.WorkDir(), interp)
	}
	path, err := e.lookPath(interp)
	if err != nil {
		return StepResult{Status: StatusUnavailable, Detail: err.Error()}
	}
	return StepResult{Status: StatusPass, Detail: path}
}

func (e *Engine) checkScript() StepResult {
	script := e.Config.Script()
	if !filepath.IsAbs(script) {
		script = filepath.Join(e.Config.WorkDir(), script)
	}
	fi, err := os.Stat(script)
	if err != nil {
		return StepResult{Status: StatusFail, Detail: err.Error()}
	}
	if fi.IsDir() {
		return StepResult{Status: StatusFail, Detail: fmt.Sprintf("%s is a directory", script)}
	}
	return StepResult{Status: StatusPass, Detail: script}
}

func (e *Engine) checkLog() StepResult {
	path := e.Config.LogPath()
	fi, err := os.Stat(path)
	switch {
	case err == nil:
		if fi.IsDir() {
			return StepResult{Status: StatusFail, Detail: fmt.Sprintf("%s is a directory", path)}
		}
		if err := writable(path); err != nil {
			return StepResult{Status: StatusFail, Detail: fmt.Sprintf("%s is not writable: %v", path, err)}
		}
		return StepResult{Status: StatusPass, Detail: fmt.Sprintf("%s (%d bytes)", path, fi.Size())}
	case errors.Is(err, fs.ErrNotExist):
		if err := writable(e.Config.WorkDir()); err != nil {
			return StepResult{Status: StatusFail, Detail: fmt.Sprintf("cannot create %s: %v", path, err)}
		}
		return StepResult{Status: StatusPass, Detail: fmt.Sprintf("%s will be created", path)}
	default:
		return StepResult{Status: StatusFail, Detail: err.Error()}
	}
}
