package main

import (
	"context"
	"io"
	"testing"

	"github.com/perch-dev/perch/internal/config"
	clierrors "github.com/perch-dev/perch/internal/errors"
)

func runToggle(t *testing.T, args ...string) error {
	t.Helper()

	out, _, _ := testWriter()

	cmd := newToggleCmd()
	cmd.SetContext(out.WithContext(context.Background()))
	cmd.SetOut(io.Discard)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)

	return cmd.Execute()
}

func TestToggleFlipsAndPersists(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if !config.Load().WidgetEnabled() {
		t.Fatal("widget not enabled by default")
	}

	if err := runToggle(t); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	if config.Load().WidgetEnabled() {
		t.Error("first toggle did not disable the widget")
	}

	if err := runToggle(t); err != nil {
		t.Fatalf("toggle: %v", err)
	}

	// Two toggles land back where we started.
	if !config.Load().WidgetEnabled() {
		t.Error("second toggle did not restore the enabled state")
	}
}

func TestToggleExplicitFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	if err := runToggle(t, "--off"); err != nil {
		t.Fatalf("toggle --off: %v", err)
	}

	if config.Load().WidgetEnabled() {
		t.Error("--off did not disable the widget")
	}

	// --off is idempotent, not a flip.
	if err := runToggle(t, "--off"); err != nil {
		t.Fatalf("toggle --off: %v", err)
	}

	if config.Load().WidgetEnabled() {
		t.Error("repeated --off re-enabled the widget")
	}

	if err := runToggle(t, "--on"); err != nil {
		t.Fatalf("toggle --on: %v", err)
	}

	if !config.Load().WidgetEnabled() {
		t.Error("--on did not enable the widget")
	}
}

func TestToggleRejectsConflictingFlags(t *testing.T) {
	t.Setenv("HOME", t.TempDir())

	err := runToggle(t, "--on", "--off")

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || cliErr.Code != clierrors.ExitUsage {
		t.Errorf("toggle --on --off = %v, want usage CLIError", err)
	}

	// A rejected invocation must not touch the persisted state.
	if !config.Load().WidgetEnabled() {
		t.Error("conflicting flags changed the persisted state")
	}
}
