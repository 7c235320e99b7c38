package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/deixis/cronrun"
	"github.com/deixis/cronrun/internal/config"
)

// envMain makes the test binary behave as cronrun, with the remaining
// arguments taken from envMainArgs.
const (
	envMain     = "CRONRUN_TEST_MAIN"
	envMainArgs = "CRONRUN_TEST_ARGS"
)

func TestMain(m *testing.M) {
	if os.Getenv(envMain) == "1" {
		os.Args = append([]string{"cronrun"}, strings.Fields(os.Getenv(envMainArgs))...)
		main()
		os.Exit(0)
	}
	os.Exit(m.Run())
}

// project creates a work dir with main.sh and a config file pointing at it.
func project(t *testing.T, script string, extra string) (dir, cfgPath string) {
	t.Helper()
	t.Chdir(t.TempDir())
	t.Setenv(config.EnvVar, "")

	dir = t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.sh"), []byte(script), 0o644))

	cfgPath = filepath.Join(t.TempDir(), "cronrun.yaml")
	body := "work_dir: " + dir + "\ninterpreter: /bin/sh\nscript: main.sh\n" + extra
	require.NoError(t, os.WriteFile(cfgPath, []byte(body), 0o644))
	return dir, cfgPath
}

// execute runs the command tree and returns stdout and the process exit code.
func execute(t *testing.T, args ...string) (string, int) {
	t.Helper()
	cmd := newRootCmd()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		return out.String(), exitCode(err)
	}
	return out.String(), 0
}

func readLog(t *testing.T, dir string) string {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, "cron.log"))
	require.NoError(t, err)
	return string(data)
}

func TestRun_Hello(t *testing.T) {
	dir, cfg := project(t, "echo hello\n", "")

	_, code := execute(t, "--config", cfg)
	require.Equal(t, 0, code)
	require.Equal(t, "hello\n", readLog(t, dir))
}

func TestRun_MissingWorkDir(t *testing.T) {
	dir, cfg := project(t, "echo hello\n", "")
	require.NoError(t, os.RemoveAll(dir))

	_, code := execute(t, "--config", cfg)
	require.Equal(t, 1, code)
	_, err := os.Stat(dir)
	require.True(t, os.IsNotExist(err))
}

func TestRun_ChildFailureIgnored(t *testing.T) {
	dir, cfg := project(t, "echo out\necho err 1>&2\nexit 1\n", "")

	_, code := execute(t, "--config", cfg)
	require.Equal(t, 0, code)
	require.Equal(t, "out\nerr\n", readLog(t, dir))
}

func TestRun_ChildFailurePropagated(t *testing.T) {
	_, cfg := project(t, "exit 5\n", "propagate_exit_code: true\n")

	_, code := execute(t, "--config", cfg)
	require.Equal(t, 5, code)
}

func TestRun_TwoRunsAppend(t *testing.T) {
	dir, cfg := project(t, "echo run1\n", "")

	_, code := execute(t, "--config", cfg)
	require.Equal(t, 0, code)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "main.sh"), []byte("echo run2\n"), 0o644))
	_, code = execute(t, "--config", cfg)
	require.Equal(t, 0, code)

	require.Equal(t, "run1\nrun2\n", readLog(t, dir))
}

func TestRun_InterpreterNotFound(t *testing.T) {
	_, cfg := project(t, "echo hello\n", "")
	require.NoError(t, os.WriteFile(cfg, []byte("work_dir: "+filepath.Dir(cfg)+"\ninterpreter: nonexistent-interpreter-xyz-123\n"), 0o644))

	_, code := execute(t, "--config", cfg)
	require.Equal(t, 127, code)
}

func TestRun_ConfigViaEnv(t *testing.T) {
	dir, cfg := project(t, "echo env\n", "")
	t.Setenv(config.EnvVar, cfg)

	_, code := execute(t)
	require.Equal(t, 0, code)
	require.Equal(t, "env\n", readLog(t, dir))
}

func TestRun_BadConfig(t *testing.T) {
	_, code := execute(t, "--config", filepath.Join(t.TempDir(), "missing.yaml"))
	require.Equal(t, ExitCodeUsage, code)
}

func TestRun_BadFlag(t *testing.T) {
	_, code := execute(t, "--no-such-flag")
	require.Equal(t, ExitCodeUsage, code)
}

func TestRun_RejectsArgs(t *testing.T) {
	_, code := execute(t, "extra")
	require.Equal(t, ExitCodeUsage, code)

	_, code = execute(t, "version", "extra")
	require.Equal(t, ExitCodeUsage, code)
}

func TestRunOnce_IgnoresCancellation(t *testing.T) {
	dir, cfg := project(t, "echo started\nsleep 1\necho finished\n", "")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	require.NoError(t, runOnce(ctx, &options{configPath: cfg}))
	require.Equal(t, "started\nfinished\n", readLog(t, dir))
}

func TestRunOnce_PassesStdin(t *testing.T) {
	dir, cfg := project(t, "cat\n", "")

	stdin, err := os.Open(cfg)
	require.NoError(t, err)
	defer stdin.Close()
	orig := os.Stdin
	os.Stdin = stdin
	t.Cleanup(func() { os.Stdin = orig })

	require.NoError(t, runOnce(context.Background(), &options{configPath: cfg}))
	want, err := os.ReadFile(cfg)
	require.NoError(t, err)
	require.Equal(t, string(want), readLog(t, dir))
}

func TestCheck(t *testing.T) {
	dir, cfg := project(t, "echo hello\n", "")

	out, code := execute(t, "check", "--config", cfg)
	require.Equal(t, 0, code)
	require.Contains(t, out, "ok")

	require.NoError(t, os.Remove(filepath.Join(dir, "main.sh")))
	out, code = execute(t, "check", "--config", cfg)
	require.Equal(t, ExitCodeFailed, code)
	require.Contains(t, out, "FAIL")

	// The preflight never creates the log.
	_, err := os.Stat(filepath.Join(dir, "cron.log"))
	require.True(t, os.IsNotExist(err))
}

func TestCheck_JSON(t *testing.T) {
	_, cfg := project(t, "echo hello\n", "")

	out, code := execute(t, "check", "--json", "--config", cfg)
	require.Equal(t, 0, code)
	require.Contains(t, out, `"failed_idx": -1`)
	require.Contains(t, out, `"name": "workdir"`)
}

func TestVersion(t *testing.T) {
	out, code := execute(t, "version")
	require.Equal(t, 0, code)
	require.Equal(t, cronrun.Version+"\n", out)
}

func TestMCPInstructions(t *testing.T) {
	out, code := execute(t, "mcp", "--instructions")
	require.Equal(t, 0, code)
	require.Contains(t, out, "cron_run")
}

func TestExitCode(t *testing.T) {
	require.Equal(t, ExitCodeFailed, exitCode(errors.New("boom")))
	require.Equal(t, ExitCodeUsage, exitCode(&usageError{err: errors.New("bad")}))
}
