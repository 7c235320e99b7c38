// Package config holds the fixed invocation parameters and loads the
// optional YAML file that overrides them.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"
)

// Default invocation parameters. With no config file these are the whole
// configuration.
const (
	DefaultWorkDir     = "/root/TrendRadar"
	DefaultInterpreter = "/usr/bin/python3"
	DefaultScript      = "main.py"
	DefaultLogName     = "cron.log"
	DefaultMaxOutput   = 1 << 20 // 1 MB
	DefaultHistory     = 20
	DefaultLogLevel    = "warn"
)

// EnvVar names the environment variable consulted when no --config flag
// is given.
const EnvVar = "CRONRUN_CONFIG"

// Config holds the parsed configuration.
// All fields are optional; zero values represent defaults.
type Config struct {
	RawWorkDir        string            `yaml:"work_dir"`
	RawInterpreter    string            `yaml:"interpreter"`
	RawScript         string            `yaml:"script"`
	RawLogName        string            `yaml:"log_file"` // file name inside work_dir
	Env               map[string]string `yaml:"env"`      // extra variables for the child
	PropagateExitCode bool              `yaml:"propagate_exit_code"`
	RawMaxOutput      int               `yaml:"max_output"` // bytes shown by tooling
	RawHistory        int               `yaml:"history"`    // runs remembered by the MCP server
	RawLogLevel       string            `yaml:"log_level"`
}

// WorkDir returns the configured working directory or the default.
func (c *Config) WorkDir() string {
	if c.RawWorkDir != "" {
		return c.RawWorkDir
	}
	return DefaultWorkDir
}

// Interpreter returns the configured interpreter or the default.
func (c *Config) Interpreter() string {
	if c.RawInterpreter != "" {
		return c.RawInterpreter
	}
	return DefaultInterpreter
}

// Script returns the configured script path or the default.
func (c *Config) Script() string {
	if c.RawScript != "" {
		return c.RawScript
	}
	return DefaultScript
}

// LogName returns the configured log file name or the default.
func (c *Config) LogName() string {
	if c.RawLogName != "" {
		return c.RawLogName
	}
	return DefaultLogName
}

// LogPath returns the log file location inside the working directory.
func (c *Config) LogPath() string {
	return filepath.Join(c.WorkDir(), c.LogName())
}

// MaxOutputBytes returns the configured max output size or the default.
func (c *Config) MaxOutputBytes() int {
	if c.RawMaxOutput > 0 {
		return c.RawMaxOutput
	}
	return DefaultMaxOutput
}

// History returns how many runs the MCP server remembers.
func (c *Config) History() int {
	if c.RawHistory > 0 {
		return c.RawHistory
	}
	return DefaultHistory
}

// LogLevel returns the configured log level or the default.
func (c *Config) LogLevel() string {
	if c.RawLogLevel != "" {
		return c.RawLogLevel
	}
	return DefaultLogLevel
}

// Environ returns Env as sorted KEY=VALUE pairs.
func (c *Config) Environ() []string {
	if len(c.Env) == 0 {
		return nil
	}
	keys := make([]string, 0, len(c.Env))
	for k := range c.Env {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		out = append(out, k+"="+c.Env[k])
	}
	return out
}

// Validate reports the first invalid setting.
func (c *Config) Validate() error {
	if !filepath.IsAbs(c.WorkDir()) {
		return fmt.Errorf("work_dir %q must be an absolute path", c.WorkDir())
	}
	name := c.LogName()
	if name != filepath.Base(name) || name == "." || name == ".." {
		return fmt.Errorf("log_file %q must be a file name inside work_dir", name)
	}
	if strings.TrimSpace(c.Interpreter()) == "" {
		return errors.New("interpreter is empty")
	}
	if strings.TrimSpace(c.Script()) == "" {
		return errors.New("script is empty")
	}
	for k := range c.Env {
		if k == "" || strings.ContainsAny(k, "=\x00") {
			return fmt.Errorf("env: invalid variable name %q", k)
		}
	}
	return nil
}

// LoadResult holds the parsed config and the file it came from.
type LoadResult struct {
	Config *Config
	Path   string // empty when running on defaults
}

// Load reads the config file at path. An empty path falls back to
// $CRONRUN_CONFIG; if that is unset too, the defaults are returned.
// A named file that does not exist is an error.
func Load(path string) (*LoadResult, error) {
	if path == "" {
		path = os.Getenv(EnvVar)
	}
	if path == "" {
		return &LoadResult{Config: &Config{}}, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("config file %s not found", path)
		}
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}

	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return &LoadResult{Config: cfg, Path: path}, nil
}
