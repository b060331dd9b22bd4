package gitstat

import (
	"context"
	"strings"
	"testing"
)

const worktreeListing = `worktree /repo
HEAD 1111111111111111111111111111111111111111
branch refs/heads/main

worktree /repo-wt/hotfix
HEAD 2222222222222222222222222222222222222222
branch refs/heads/hotfix

worktree /repo-wt/experiment
HEAD 3333333333333333333333333333333333333333
branch refs/heads/experiment
`

func worktreeRunner(toplevel, gitDir string) runner {
	return func(_ context.Context, _ string, args ...string) ([]byte, error) {
		switch strings.Join(args, " ") {
		case "worktree list --porcelain":
			return []byte(worktreeListing), nil
		case "rev-parse --show-toplevel":
			return []byte(toplevel + "\n"), nil
		case "rev-parse --git-dir":
			return []byte(gitDir + "\n"), nil
		default:
			return nil, nil
		}
	}
}

func TestParseWorktreePaths(t *testing.T) {
	paths := parseWorktreePaths([]byte(worktreeListing))

	want := []string{"/repo", "/repo-wt/hotfix", "/repo-wt/experiment"}
	if len(paths) != len(want) {
		t.Fatalf("parsed %d paths, want %d: %v", len(paths), len(want), paths)
	}

	for i := range want {
		if paths[i] != want[i] {
			t.Errorf("paths[%d] = %q, want %q", i, paths[i], want[i])
		}
	}
}

func TestMatchWorktree(t *testing.T) {
	paths := []string{"/repo", "/repo-wt/hotfix", "/elsewhere/hotfix2"}

	cases := []struct {
		name    string
		current string
		want    int
	}{
		{"exact", "/repo-wt/hotfix", 1},
		{"exact with trailing slash", "/repo/", 0},
		{"basename", "/mnt/other/hotfix2", 2},
		{"no match", "/somewhere/else", -1},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := matchWorktree(paths, tc.current); got != tc.want {
				t.Errorf("matchWorktree(%q) = %d, want %d", tc.current, got, tc.want)
			}
		})
	}

	t.Run("ambiguous basename", func(t *testing.T) {
		ambiguous := []string{"/a/feature", "/b/feature"}
		if got := matchWorktree(ambiguous, "/c/feature"); got != -1 {
			t.Errorf("matchWorktree = %d, want -1 for ambiguous basename", got)
		}
	})
}

func TestWorktreeLinkedCheckout(t *testing.T) {
	c := stubClient(worktreeRunner("/repo-wt/hotfix", "/repo/.git/worktrees/hotfix"))

	wt := c.Worktree(context.Background())

	want := Worktree{Count: 3, Name: "hotfix", Index: 2}
	if wt != want {
		t.Errorf("Worktree = %+v, want %+v", wt, want)
	}
}

func TestWorktreeMainCheckout(t *testing.T) {
	c := stubClient(worktreeRunner("/repo", "/repo/.git"))

	wt := c.Worktree(context.Background())

	want := Worktree{Count: 3, Name: "main", Index: 1}
	if wt != want {
		t.Errorf("Worktree = %+v, want %+v", wt, want)
	}
}

func TestWorktreeUnresolvedHidesName(t *testing.T) {
	c := stubClient(worktreeRunner("/not/in/the/list", "/repo/.git"))

	wt := c.Worktree(context.Background())

	want := Worktree{Count: 3}
	if wt != want {
		t.Errorf("Worktree = %+v, want %+v", wt, want)
	}
}

func TestWorktreeFailure(t *testing.T) {
	c := stubClient(failingRunner)

	if wt := c.Worktree(context.Background()); wt != (Worktree{}) {
		t.Errorf("Worktree = %+v, want zero value on failure", wt)
	}
}
