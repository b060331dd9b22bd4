package gitstat

import (
	"context"
	"path/filepath"
	"strings"
)

// Worktree describes the current checkout's position among the
// repository's worktrees. The zero value means "unknown" and hides the
// worktree marker.
type Worktree struct {
	Count int
	Name  string
	Index int // 1-based position in `git worktree list` order
}

// Worktree lists the repository's worktrees and resolves the current one.
// Resolution tries an exact path match first, then a basename match that is
// only accepted when unambiguous. When the current worktree is the main
// checkout its name is reported as "main" instead of the directory
// basename. Any failure yields the zero Worktree.
func (c *Client) Worktree(ctx context.Context) Worktree {
	out, ok := c.output(ctx, "worktree", "list", "--porcelain")
	if !ok {
		return Worktree{}
	}

	paths := parseWorktreePaths(out)
	if len(paths) == 0 {
		return Worktree{}
	}

	top := c.TopLevel(ctx)
	if top == "" {
		top = c.dir
	}

	idx := matchWorktree(paths, top)
	if idx < 0 {
		// Current checkout not resolvable; marker stays hidden.
		return Worktree{Count: len(paths)}
	}

	name := filepath.Base(paths[idx])

	// Linked worktrees keep their git dir under <main>/.git/worktrees/<name>;
	// a git dir without that segment marks the main checkout.
	if gitDir := c.gitDir(ctx); gitDir != "" && !strings.Contains(filepath.ToSlash(gitDir), "/worktrees/") {
		name = "main"
	}

	return Worktree{
		Count: len(paths),
		Name:  name,
		Index: idx + 1,
	}
}

// parseWorktreePaths extracts worktree paths from
// `git worktree list --porcelain` output, preserving list order.
func parseWorktreePaths(out []byte) []string {
	var paths []string

	for _, line := range strings.Split(string(out), "\n") {
		if rest, ok := strings.CutPrefix(line, "worktree "); ok {
			paths = append(paths, strings.TrimSpace(rest))
		}
	}

	return paths
}

// matchWorktree resolves current against the listed worktree paths.
// Exact path match wins; otherwise a basename match is used only when
// exactly one worktree shares the basename. Returns -1 when unresolved.
func matchWorktree(paths []string, current string) int {
	cleaned := filepath.Clean(current)

	for i, p := range paths {
		if filepath.Clean(p) == cleaned {
			return i
		}
	}

	base := filepath.Base(cleaned)
	found := -1

	for i, p := range paths {
		if filepath.Base(filepath.Clean(p)) != base {
			continue
		}

		if found >= 0 {
			// Two or more candidates share the basename; stay unresolved
			// rather than guess.
			return -1
		}

		found = i
	}

	return found
}
