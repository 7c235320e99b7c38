// Package report keeps the records of recent runs so they can be listed
// and inspected after the fact. Records live in memory only; the sole
// file a run writes is cron.log.
package report

import (
	"fmt"

	"github.com/deixis/cronrun/internal/runner"
)

// Store persists and retrieves run records.
type Store interface {
	Save(result *runner.Result) error
	Load(runID string) (*runner.Result, error)
	List() []*runner.Result
}

// ErrNotFound is returned by Load for an unknown or evicted run.
type ErrNotFound struct {
	RunID string
}

func (e ErrNotFound) Error() string {
	return fmt.Sprintf("run %s not found", e.RunID)
}
