package todo

import (
	"io"
	"time"

	"github.com/sirupsen/logrus"
)

const (
	// DefaultLockTimeout How long a mutation waits for the write lock before failing
	// with [ErrStorageUnavailable]
	DefaultLockTimeout = 5 * time.Second

	// maxIDAttempts How many times Insert asks the generator for an id before giving up
	maxIDAttempts = 8
)

// Option Configures a [Store]
type Option func(*Store)

// WithLockTimeout Sets the bounded wait for the write lock. Non positive values
// fall back to [DefaultLockTimeout]
func WithLockTimeout(timeout time.Duration) Option {
	return func(s *Store) {
		if timeout > 0 {
			s.lockTimeout = timeout
		}
	}
}

// WithLogger Sets the logger used for mutations and storage failures
func WithLogger(logger *logrus.Entry) Option {
	return func(s *Store) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithIDGenerator Replaces the default uuid based generator, mainly useful for tests
func WithIDGenerator(generator IDGenerator) Option {
	return func(s *Store) {
		if generator != nil {
			s.newID = generator
		}
	}
}

func discardLogger() *logrus.Entry {
	logger := logrus.New()
	logger.SetOutput(io.Discard)

	return logrus.NewEntry(logger)
}
