// Package smoke runs an end-to-end CRUD pass against a live pokemons API.
package smoke

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/okian/pokeapi/pkg/logger"
)

// ErrInvalidBody is returned when Config.Body is not a non-empty JSON object.
var ErrInvalidBody = errors.New("smoke body must be a non-empty JSON object")

type step struct {
	name string
	fn   func(context.Context, *state) error
}

// chain steps depend on the ones before them; a failure skips the rest.
var chain = []step{
	{"health", checkHealth},
	{"create", checkCreate},
	{"list contains created", checkListContains},
	{"get by id", checkGet},
	{"update", checkUpdate},
	{"get reflects update", checkGetReflectsUpdate},
	{"delete", checkDelete},
	{"get after delete is 404", checkGone},
}

var independent = []step{
	{"update and delete of missing id succeed", checkMissingID},
	{"docs list five operations", checkDocs},
}

// Run executes every check and returns the report. The error wraps
// ErrChecksFailed when any check failed.
func Run(ctx context.Context, config *Config) (*Report, error) {
	body, err := parseBody(config.Body)
	if err != nil {
		return nil, err
	}

	report := &Report{RunID: "smoke-" + uuid.NewString(), StartTime: time.Now()}
	log := logger.Named("smoke")
	log.Info(ctx, "starting pokemons smoke run",
		logger.String("baseURL", config.BaseURL),
		logger.String("runID", report.RunID),
		logger.String("timeout", config.Timeout.String()))

	s := &state{
		client: newHTTPClient(strings.TrimRight(config.BaseURL, "/"), report.RunID, config.Timeout),
		body:   body,
	}

	broken := false
	for _, st := range chain {
		if broken {
			report.Checks = append(report.Checks, Check{Name: st.name, Skipped: true, Detail: "skipped after earlier failure"})
			continue
		}
		c := runStep(ctx, log, config.Verbose, st, s)
		report.Checks = append(report.Checks, c)
		broken = !c.Passed
	}
	for _, st := range independent {
		report.Checks = append(report.Checks, runStep(ctx, log, config.Verbose, st, s))
	}

	report.Duration = time.Since(report.StartTime)
	displayReport(ctx, log, report)

	if n := report.Failed(); n > 0 {
		return report, fmt.Errorf("%w: %d of %d", ErrChecksFailed, n, len(report.Checks))
	}
	return report, nil
}

func runStep(ctx context.Context, log logger.Logger, verbose bool, st step, s *state) Check {
	start := time.Now()
	err := st.fn(ctx, s)
	c := Check{Name: st.name, Passed: err == nil, Duration: time.Since(start)}
	if err != nil {
		c.Detail = err.Error()
		log.Error(ctx, "check failed", logger.String("check", st.name), logger.Error(err))
	} else if verbose {
		log.Info(ctx, "check passed", logger.String("check", st.name), logger.String("took", c.Duration.String()))
	}
	return c
}

func parseBody(raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		raw = DefaultBody
	}
	var body map[string]any
	if err := json.Unmarshal([]byte(raw), &body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidBody, err)
	}
	if len(body) == 0 {
		return nil, ErrInvalidBody
	}
	return body, nil
}

func displayReport(ctx context.Context, log logger.Logger, r *Report) {
	for _, c := range r.Checks {
		status := "PASS"
		switch {
		case c.Skipped:
			status = "SKIP"
		case !c.Passed:
			status = "FAIL"
		}
		log.Info(ctx, status+" "+c.Name, logger.String("detail", c.Detail))
	}
	log.Info(ctx, "smoke summary",
		logger.Int("checks", len(r.Checks)),
		logger.Int("failed", r.Failed()),
		logger.String("duration", r.Duration.String()))
}
