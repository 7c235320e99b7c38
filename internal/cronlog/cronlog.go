// Package cronlog owns the append-only cron.log file. Writes only ever go
// to the end of the file; reads are used by tooling to show what a run
// produced.
package cronlog

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
)

// File is cron.log opened for appending.
type File struct {
	*os.File
	start int64
}

// Open opens path for appending, creating it if absent. Existing content
// is never truncated.
func Open(path string) (*File, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, err
	}
	fi, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("stat %s: %w", path, err)
	}
	return &File{File: f, start: fi.Size()}, nil
}

// Start returns the file size observed when it was opened.
func (f *File) Start() int64 {
	return f.start
}

// Size returns the current file size. Other processes may append to the
// same file concurrently, so the value can include their bytes too.
func (f *File) Size() (int64, error) {
	fi, err := f.Stat()
	if err != nil {
		return 0, err
	}
	return fi.Size(), nil
}

// ReadRange returns the bytes in [start, end) of the file at path, capped
// at limit bytes. The bool reports whether the range was cut short.
func ReadRange(path string, start, end int64, limit int) ([]byte, bool, error) {
	if start < 0 || end < start {
		return nil, false, fmt.Errorf("invalid range [%d, %d)", start, end)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, false, err
	}
	defer f.Close()

	n := end - start
	truncated := false
	if limit > 0 && n > int64(limit) {
		n = int64(limit)
		truncated = true
	}
	data, err := io.ReadAll(io.NewSectionReader(f, start, n))
	if err != nil {
		return nil, false, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, truncated, nil
}

// Tail returns the last n bytes of the file at path. A missing file
// yields no bytes and no error.
func Tail(path string, n int) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, err
	}
	defer f.Close()

	fi, err := f.Stat()
	if err != nil {
		return nil, err
	}
	size := fi.Size()
	start := int64(0)
	if n > 0 && size > int64(n) {
		start = size - int64(n)
	}
	data, err := io.ReadAll(io.NewSectionReader(f, start, size-start))
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	return data, nil
}
