// Package runner performs one invocation of the external program: enter
// the working directory or abort, launch the interpreter with the script,
// and append the child's merged output to the log file.
package runner

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"sync"
	"syscall"
	"time"

	"github.com/deixis/cronrun/internal/cronlog"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultLogName is used when LogName is empty.
const DefaultLogName = "cron.log"

// chdirMu serializes runs within one process; the working directory is
// process-wide state.
var chdirMu sync.Mutex

// Runner executes the configured program inside its working directory.
type Runner struct {
	WorkDir     string
	Interpreter string
	Script      string
	LogName     string   // log file name inside WorkDir
	Env         []string  // KEY=VALUE pairs added to the inherited environment
	Stdin       io.Reader // child's stdin; nil reads from the null device
	Logger      *zap.Logger
}

// Run performs a single invocation and blocks until the child exits.
//
// A *WorkDirError means nothing was launched and the log was not touched.
// A *LaunchError means the log was opened but the child never started.
// Once the child has started, its exit code is recorded in the Result and
// never reported as an error.
//
// Cancelling ctx after launch sends the child SIGTERM and keeps waiting for
// it to exit; the child is never killed outright. Callers that must let the
// child run to completion pass a context that cannot be cancelled.
func (r *Runner) Run(ctx context.Context) (*Result, error) {
	log := r.Logger
	if log == nil {
		log = zap.NewNop()
	}

	chdirMu.Lock()
	defer chdirMu.Unlock()

	dir, err := r.enterDir()
	if err != nil {
		return nil, err
	}

	name := r.LogName
	if name == "" {
		name = DefaultLogName
	}
	logPath := filepath.Join(dir, name)
	out, err := cronlog.Open(logPath)
	if err != nil {
		return nil, fmt.Errorf("opening log: %w", err)
	}
	defer out.Close()

	res := &Result{
		RunID:    uuid.New().String(),
		WorkDir:  dir,
		Argv:     []string{r.Interpreter, r.Script},
		LogPath:  logPath,
		LogStart: out.Start(),
	}
	log = log.With(zap.String("run_id", res.RunID))

	cmd := exec.CommandContext(ctx, r.Interpreter, r.Script)
	cmd.Dir = dir
	cmd.Stdout = out.File
	cmd.Stderr = out.File
	cmd.Stdin = r.Stdin
	cmd.Cancel = func() error {
		return cmd.Process.Signal(syscall.SIGTERM)
	}
	if len(r.Env) > 0 {
		cmd.Env = append(os.Environ(), r.Env...)
	}

	res.Started = time.Now()
	if err := cmd.Start(); err != nil {
		return nil, &LaunchError{Path: r.Interpreter, Err: err}
	}
	res.PID = cmd.Process.Pid
	log.Info("started", zap.Strings("argv", res.Argv), zap.String("dir", dir), zap.Int("pid", res.PID))

	waitErr := cmd.Wait()
	res.Ended = time.Now()
	if end, err := out.Size(); err == nil {
		res.LogEnd = end
	} else {
		res.LogEnd = res.LogStart
	}

	if waitErr != nil {
		var exitErr *exec.ExitError
		if !errors.As(waitErr, &exitErr) {
			return res, fmt.Errorf("waiting for %s: %w", r.Interpreter, waitErr)
		}
		res.ExitCode = exitErr.ExitCode()
	}

	log.Info("finished",
		zap.Int("exit_code", res.ExitCode),
		zap.Duration("duration", res.Duration()),
		zap.Int64("appended", res.Appended()),
	)
	return res, nil
}

// enterDir makes WorkDir the process's current directory and returns its
// absolute form.
func (r *Runner) enterDir() (string, error) {
	dir, err := filepath.Abs(r.WorkDir)
	if err != nil {
		return "", &WorkDirError{Dir: r.WorkDir, Err: err}
	}
	if err := os.Chdir(dir); err != nil {
		return "", &WorkDirError{Dir: dir, Err: err}
	}
	return dir, nil
}
