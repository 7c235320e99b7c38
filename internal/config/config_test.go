package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "cronrun.yaml")
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv(EnvVar, "")

	res, err := Load("")
	require.NoError(t, err)
	require.Empty(t, res.Path)

	cfg := res.Config
	require.Equal(t, DefaultWorkDir, cfg.WorkDir())
	require.Equal(t, DefaultInterpreter, cfg.Interpreter())
	require.Equal(t, DefaultScript, cfg.Script())
	require.Equal(t, "cron.log", cfg.LogName())
	require.Equal(t, filepath.Join(DefaultWorkDir, "cron.log"), cfg.LogPath())
	require.Equal(t, DefaultMaxOutput, cfg.MaxOutputBytes())
	require.Equal(t, DefaultHistory, cfg.History())
	require.Equal(t, DefaultLogLevel, cfg.LogLevel())
	require.False(t, cfg.PropagateExitCode)
	require.Nil(t, cfg.Environ())
	require.NoError(t, cfg.Validate())
}

func TestLoad_FromFile(t *testing.T) {
	path := writeConfig(t, `
work_dir: /srv/trendradar
interpreter: /opt/venv/bin/python
script: main.py
log_file: run.log
propagate_exit_code: true
max_output: 4096
history: 3
log_level: info
env:
  REPORT_MODE: daily
  CONFIG_PATH: config/config.yaml
`)

	res, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, path, res.Path)

	cfg := res.Config
	require.Equal(t, "/srv/trendradar", cfg.WorkDir())
	require.Equal(t, "/opt/venv/bin/python", cfg.Interpreter())
	require.Equal(t, "/srv/trendradar/run.log", cfg.LogPath())
	require.True(t, cfg.PropagateExitCode)
	require.Equal(t, 4096, cfg.MaxOutputBytes())
	require.Equal(t, 3, cfg.History())
	require.Equal(t, "info", cfg.LogLevel())
	require.Equal(t, []string{"CONFIG_PATH=config/config.yaml", "REPORT_MODE=daily"}, cfg.Environ())
}

func TestLoad_FromEnv(t *testing.T) {
	path := writeConfig(t, "work_dir: /srv/other\n")
	t.Setenv(EnvVar, path)

	res, err := Load("")
	require.NoError(t, err)
	require.Equal(t, path, res.Path)
	require.Equal(t, "/srv/other", res.Config.WorkDir())
}

func TestLoad_FlagBeatsEnv(t *testing.T) {
	t.Setenv(EnvVar, writeConfig(t, "work_dir: /srv/env\n"))
	flagPath := writeConfig(t, "work_dir: /srv/flag\n")

	res, err := Load(flagPath)
	require.NoError(t, err)
	require.Equal(t, "/srv/flag", res.Config.WorkDir())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorContains(t, err, "not found")
}

func TestLoad_ParseError(t *testing.T) {
	_, err := Load(writeConfig(t, "work_dir: [unclosed\n"))
	require.ErrorContains(t, err, "parsing")
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		cfg  Config
		want string
	}{
		{name: "relative work dir", cfg: Config{RawWorkDir: "proj"}, want: "absolute"},
		{name: "log outside work dir", cfg: Config{RawLogName: "../cron.log"}, want: "log_file"},
		{name: "log in subdir", cfg: Config{RawLogName: "logs/cron.log"}, want: "log_file"},
		{name: "blank interpreter", cfg: Config{RawInterpreter: "  "}, want: "interpreter"},
		{name: "bad env name", cfg: Config{Env: map[string]string{"A=B": "x"}}, want: "env"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.ErrorContains(t, tt.cfg.Validate(), tt.want)
		})
	}
}
