package testutil

import (
	"testing"
	"time"
)

// Ptr returns a pointer to the given value.
//
//	testutil.Ptr(true) // *bool
//	testutil.Ptr(42)   // *int
func Ptr[T any](v T) *T { return &v }

// WaitFor polls cond every few milliseconds until it returns true or timeout
// elapses, then fails the test with msg.
func WaitFor(t *testing.T, timeout time.Duration, msg string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(timeout)
	for {
		if cond() {
			return
		}
		if time.Now().After(deadline) {
			t.Fatalf("timed out after %s: %s", timeout, msg)
		}
		time.Sleep(5 * time.Millisecond)
	}
}
