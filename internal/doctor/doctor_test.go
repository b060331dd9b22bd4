package doctor

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCheckConfiguration(t *testing.T) {
	t.Run("healthy config", func(t *testing.T) {
		t.Setenv("HOME", t.TempDir())

		res := checkConfiguration(context.Background())

		if res.Status != StatusPass {
			t.Errorf("Status = %v (%s), want pass", res.Status, res.Message)
		}

		if !strings.Contains(res.Message, "enabled") {
			t.Errorf("Message = %q, want widget state", res.Message)
		}
	})

	t.Run("malformed config warns", func(t *testing.T) {
		home := t.TempDir()
		t.Setenv("HOME", home)

		dir := filepath.Join(home, ".config", "perch")
		if err := os.MkdirAll(dir, 0o700); err != nil {
			t.Fatal(err)
		}

		if err := os.WriteFile(filepath.Join(dir, "config.yaml"), []byte("widget: [broken\n"), 0o600); err != nil {
			t.Fatal(err)
		}

		res := checkConfiguration(context.Background())

		if res.Status != StatusWarn {
			t.Errorf("Status = %v (%s), want warn", res.Status, res.Message)
		}

		if res.Detail == "" {
			t.Error("warn result carries no hint")
		}
	})
}

func TestRunnerAndSummary(t *testing.T) {
	r := &Runner{}
	r.AddCheck("A", func(context.Context) Result { return Result{Status: StatusPass} })
	r.AddCheck("B", func(context.Context) Result { return Result{Status: StatusWarn} })
	r.AddCheck("C", func(context.Context) Result { return Result{Status: StatusFail} })

	results := r.Run(context.Background())

	if len(results) != 3 || results[1].Name != "B" {
		t.Fatalf("unexpected results: %+v", results)
	}

	passed, failed, warnings := Summary(results)
	if passed != 1 || failed != 1 || warnings != 1 {
		t.Errorf("Summary = (%d, %d, %d), want (1, 1, 1)", passed, failed, warnings)
	}
}

func TestStatusSymbol(t *testing.T) {
	cases := map[Status]string{
		StatusPass: "✓",
		StatusWarn: "⚠",
		StatusFail: "✗",
	}

	for status, want := range cases {
		if got := status.Symbol(); got != want {
			t.Errorf("Symbol(%v) = %q, want %q", status, got, want)
		}
	}
}
