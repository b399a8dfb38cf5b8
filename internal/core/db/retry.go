package db

import (
	"math/rand"
	"strings"
	"time"
)

// retryConfig controls retry behavior for transient SQLite errors.
// busy_timeout handles SQLITE_BUSY at the connection level; the retry
// loop in WithTx covers the remaining transient cases.
type retryConfig struct {
	maxRetries int
	baseDelay  time.Duration
	maxDelay   time.Duration
}

var defaultRetry = retryConfig{
	maxRetries: 3,
	baseDelay:  50 * time.Millisecond,
	maxDelay:   500 * time.Millisecond,
}

// isTransientErr returns true for SQLite errors that can be resolved by
// retrying: SQLITE_BUSY (5), SQLITE_LOCKED (6), and lock-contention text
// variants surfaced by modernc.org/sqlite.
func isTransientErr(err error) bool {
	if err == nil {
		return false
	}
	msg := err.Error()
	for _, pattern := range []string{
		"SQLITE_BUSY",
		"SQLITE_LOCKED",
		"database is locked",
		"database table is locked",
		"(5)",
		"(6)",
	} {
		if strings.Contains(msg, pattern) {
			return true
		}
	}
	return false
}

// sleepBackoff sleeps for an exponentially growing delay with jitter.
func sleepBackoff(attempt int) {
	delay := defaultRetry.baseDelay << (attempt - 1)
	if delay > defaultRetry.maxDelay {
		delay = defaultRetry.maxDelay
	}
	jitter := time.Duration(rand.Int63n(int64(delay) / 2))
	time.Sleep(delay + jitter)
}
