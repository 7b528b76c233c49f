//go:build windows

package singleinstance

import "testing"

// Named mutexes live in the kernel namespace; there is no directory to isolate.
func isolateLockDir(t *testing.T) {
	t.Helper()
}
