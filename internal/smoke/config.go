package smoke

import (
	"errors"
	"time"
)

// DefaultBody is the pokemon created when no -body is given.
const DefaultBody = `{"name":"Pikachu","type":"electric","hp":35}`

// ErrChecksFailed is returned by Run when at least one check failed.
var ErrChecksFailed = errors.New("smoke checks failed")

// Config holds configuration for a smoke run
type Config struct {
	BaseURL string        // Base URL of the service
	Timeout time.Duration // HTTP request timeout
	Body    string        // JSON object used to create the pokemon
	Verbose bool          // Log every request
}

// Check is the outcome of one named check.
type Check struct {
	Name     string
	Passed   bool
	Skipped  bool
	Detail   string
	Duration time.Duration
}

// Report collects the checks of one run.
type Report struct {
	RunID     string
	Checks    []Check
	StartTime time.Time
	Duration  time.Duration
}

// Failed counts failed checks.
func (r *Report) Failed() int {
	n := 0
	for _, c := range r.Checks {
		if !c.Passed && !c.Skipped {
			n++
		}
	}
	return n
}
