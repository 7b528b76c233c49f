package singleinstance

import (
	"errors"
	"os"
	"os/user"
	"regexp"
	"strings"
)

// ErrAlreadyRunning is returned by TryLock when another instance holds the lock.
var ErrAlreadyRunning = errors.New("another instance is already running")

const lockPrefix = "StreamCounter-"

var invalidNameRune = regexp.MustCompile(`[^a-zA-Z0-9._-]+`)

var currentUsernameFn = func() string {
	for _, key := range []string{"USERNAME", "USER"} {
		if v := strings.TrimSpace(os.Getenv(key)); v != "" {
			return v
		}
	}
	if current, err := user.Current(); err == nil {
		return current.Username
	}
	return ""
}

// DefaultLockName returns the per-user lock name. Two users on one machine
// each get their own counter window.
func DefaultLockName() string {
	return lockPrefix + sanitizeUsername(currentUsernameFn())
}

// sanitizeUsername makes value safe for mutex and file names.
func sanitizeUsername(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return "unknown"
	}
	return invalidNameRune.ReplaceAllString(value, "_")
}
