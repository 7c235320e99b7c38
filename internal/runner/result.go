package runner

import "time"

// Result describes one invocation of the external program.
type Result struct {
	RunID    string    `json:"run_id"`   // unique identifier for this run
	WorkDir  string    `json:"work_dir"` // absolute directory the child ran in
	Argv     []string  `json:"argv"`     // interpreter followed by script
	LogPath  string    `json:"log_path"`
	PID      int       `json:"pid"`
	Started  time.Time `json:"started"`
	Ended    time.Time `json:"ended"`
	ExitCode int       `json:"exit_code"` // child's code; -1 if killed by a signal
	LogStart int64     `json:"log_start"` // log size when opened
	LogEnd   int64     `json:"log_end"`   // log size after the child exited
}

// Duration returns how long the child ran.
func (r *Result) Duration() time.Duration {
	return r.Ended.Sub(r.Started)
}

// Appended returns the number of bytes the log grew by during the run.
func (r *Result) Appended() int64 {
	return r.LogEnd - r.LogStart
}
