//go:build unix

package workflow

import "golang.org/x/sys/unix"

// writable reports whether the real user may write to path.
func writable(path string) error {
	return unix.Access(path, unix.W_OK)
}
