// Package gitstat shells out to git for the status widget's repository
// readout: branch name, diff line counts, working-tree dirtiness, and
// worktree position.
//
// Every call is bounded by a short timeout and every failure (git missing,
// not a repository, non-zero exit, timeout) degrades to a zero value. A
// broken git never surfaces as a widget error; it only blanks the next
// rendered frame.
package gitstat

import (
	"context"
	"log/slog"
	"os/exec"
	"strconv"
	"strings"
	"time"
)

// CommandTimeout bounds each git invocation.
const CommandTimeout = 2 * time.Second

// runner executes a git subcommand in dir and returns its stdout.
type runner func(ctx context.Context, dir string, args ...string) ([]byte, error)

func execGit(ctx context.Context, dir string, args ...string) ([]byte, error) {
	cmdArgs := append([]string{"-C", dir}, args...)
	return exec.CommandContext(ctx, "git", cmdArgs...).Output()
}

// Client queries git state for one working directory.
type Client struct {
	dir     string
	timeout time.Duration
	run     runner
	logger  *slog.Logger
}

// New creates a Client for the given working directory.
func New(dir string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}

	return &Client{
		dir:     dir,
		timeout: CommandTimeout,
		run:     execGit,
		logger:  logger,
	}
}

// Dir returns the working directory the client queries.
func (c *Client) Dir() string {
	return c.dir
}

func (c *Client) output(ctx context.Context, args ...string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	out, err := c.run(ctx, c.dir, args...)
	if err != nil {
		c.logger.Debug("git command failed", "args", strings.Join(args, " "), "error", err)
		return nil, false
	}

	return out, true
}

// Diff holds insertion/deletion counts against the last commit plus
// working-tree dirtiness.
type Diff struct {
	Added   int
	Removed int
	Dirty   bool
}

// Diff computes line counts versus HEAD and whether the tree is dirty.
// Any failure yields the zero Diff.
func (c *Client) Diff(ctx context.Context) Diff {
	var d Diff

	if out, ok := c.output(ctx, "diff", "--numstat", "HEAD"); ok {
		d.Added, d.Removed = parseNumstat(out)
	}

	if out, ok := c.output(ctx, "status", "--porcelain"); ok {
		d.Dirty = len(strings.TrimSpace(string(out))) > 0
	}

	return d
}

// Branch returns the current branch name, or "" when detached or on failure.
func (c *Client) Branch(ctx context.Context) string {
	out, ok := c.output(ctx, "branch", "--show-current")
	if !ok {
		return ""
	}

	return strings.TrimSpace(string(out))
}

// TopLevel returns the repository root, or "" on failure.
func (c *Client) TopLevel(ctx context.Context) string {
	out, ok := c.output(ctx, "rev-parse", "--show-toplevel")
	if !ok {
		return ""
	}

	return strings.TrimSpace(string(out))
}

func (c *Client) gitDir(ctx context.Context) string {
	out, ok := c.output(ctx, "rev-parse", "--git-dir")
	if !ok {
		return ""
	}

	return strings.TrimSpace(string(out))
}

// parseNumstat sums the added/removed columns of `git diff --numstat`.
// Binary files report "-" columns and are skipped.
func parseNumstat(out []byte) (added, removed int) {
	for _, line := range strings.Split(string(out), "\n") {
		fields := strings.Fields(line)
		if len(fields) < 3 {
			continue
		}

		a, errA := strconv.Atoi(fields[0])
		r, errR := strconv.Atoi(fields[1])
		if errA != nil || errR != nil {
			continue
		}

		added += a
		removed += r
	}

	return added, removed
}
