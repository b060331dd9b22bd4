// Package doctor provides diagnostic checks for Perch health.
//
// This package implements a check framework that validates:
//   - git availability and version
//   - whether the working directory is a repository
//   - configuration readability
//   - log file writability
package doctor

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/perch-dev/perch/internal/config"
	clierrors "github.com/perch-dev/perch/internal/errors"
	"github.com/perch-dev/perch/internal/gitstat"
)

// Status represents the result of a diagnostic check.
type Status int

const (
	// StatusPass indicates the check passed.
	StatusPass Status = iota
	// StatusWarn indicates a non-critical issue.
	StatusWarn
	// StatusFail indicates a critical failure.
	StatusFail
)

// Symbol returns the display symbol for a status.
func (s Status) Symbol() string {
	switch s {
	case StatusPass:
		return "✓"
	case StatusWarn:
		return "⚠"
	case StatusFail:
		return "✗"
	default:
		return "?"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name    string
	Status  Status
	Message string
	Detail  string // Optional additional detail
}

// Check is a diagnostic check function.
type Check func(ctx context.Context) Result

// Runner executes diagnostic checks.
type Runner struct {
	checks []namedCheck
}

type namedCheck struct {
	name  string
	check Check
}

// New creates a diagnostic runner with the default checks.
func New() *Runner {
	r := &Runner{}

	r.AddCheck("Git", checkGitBinary)
	r.AddCheck("Repository", checkRepository)
	r.AddCheck("Configuration", checkConfiguration)
	r.AddCheck("Log file", checkLogFile)

	return r
}

// AddCheck registers a diagnostic check.
func (r *Runner) AddCheck(name string, check Check) {
	r.checks = append(r.checks, namedCheck{name: name, check: check})
}

// Run executes all registered checks and returns the results.
func (r *Runner) Run(ctx context.Context) []Result {
	results := make([]Result, 0, len(r.checks))

	for _, nc := range r.checks {
		result := nc.check(ctx)
		result.Name = nc.name
		results = append(results, result)
	}

	return results
}

// Summary tallies results by status.
func Summary(results []Result) (passed, failed, warnings int) {
	for _, r := range results {
		switch r.Status {
		case StatusPass:
			passed++
		case StatusFail:
			failed++
		case StatusWarn:
			warnings++
		}
	}

	return passed, failed, warnings
}

func checkGitBinary(ctx context.Context) Result {
	if _, err := exec.LookPath("git"); err != nil {
		return Result{
			Status:  StatusWarn,
			Message: "git not found on PATH",
			Detail:  "Branch and diff readouts will stay blank",
		}
	}

	out, err := exec.CommandContext(ctx, "git", "--version").Output()
	if err != nil {
		return Result{Status: StatusWarn, Message: "git --version failed"}
	}

	return Result{
		Status:  StatusPass,
		Message: strings.TrimSpace(string(out)),
	}
}

func checkRepository(ctx context.Context) Result {
	cwd, err := os.Getwd()
	if err != nil {
		return Result{Status: StatusFail, Message: "cannot determine working directory"}
	}

	top := gitstat.New(cwd, nil).TopLevel(ctx)
	if top == "" {
		return Result{
			Status:  StatusWarn,
			Message: "not inside a git repository",
			Detail:  "The widget renders without branch or diff info here",
		}
	}

	return Result{Status: StatusPass, Message: top}
}

func checkConfiguration(_ context.Context) Result {
	cfg := config.Load()

	if err := cfg.ReadError(); err != nil {
		cfgErr := clierrors.ConfigInvalid(err)

		return Result{
			Status:  StatusWarn,
			Message: fmt.Sprintf("%s: %v", cfgErr.Message, err),
			Detail:  cfgErr.Hint,
		}
	}

	state := "disabled"
	if cfg.WidgetEnabled() {
		state = "enabled"
	}

	return Result{
		Status:  StatusPass,
		Message: fmt.Sprintf("widget %s, theme %q", state, cfg.Theme()),
	}
}

func checkLogFile(_ context.Context) Result {
	dir, err := config.Dir()
	if err != nil {
		return Result{Status: StatusWarn, Message: "no home directory; file logging unavailable"}
	}

	probe := filepath.Join(dir, ".doctor-probe")
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return Result{Status: StatusWarn, Message: fmt.Sprintf("config dir not writable: %v", err)}
	}

	if err := os.WriteFile(probe, []byte("ok"), 0o600); err != nil {
		return Result{Status: StatusWarn, Message: fmt.Sprintf("config dir not writable: %v", err)}
	}

	_ = os.Remove(probe)

	return Result{Status: StatusPass, Message: dir + " writable"}
}
