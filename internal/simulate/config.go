// Package simulate drives a running valuescore server with generated
// questionnaires and checks every returned score against a local scorer.
package simulate

import (
	"errors"
	"time"
)

// Errors returned by Run.
var (
	ErrInvalidConfig = errors.New("invalid simulate config")
	ErrScoreMismatch = errors.New("server score differs from expected")
	ErrUnexpected    = errors.New("unexpected server response")
)

// Config holds the simulation parameters.
type Config struct {
	BaseURL     string        // Base URL of the service
	Submissions int           // Number of questionnaires to submit
	Timeout     time.Duration // HTTP request timeout
	Verbose     bool          // Log every submission
}

// Stats summarizes a run.
type Stats struct {
	Submitted  int
	Persisted  int
	Mismatches int
	MinScore   int
	MaxScore   int
	Duration   time.Duration
}

func (c *Config) validate() error {
	switch {
	case c.BaseURL == "":
		return errors.Join(ErrInvalidConfig, errors.New("base url is required"))
	case c.Submissions < 1:
		return errors.Join(ErrInvalidConfig, errors.New("submissions must be positive"))
	}
	if c.Timeout <= 0 {
		c.Timeout = 10 * time.Second
	}
	return nil
}
