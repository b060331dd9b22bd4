package main

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	clierrors "github.com/perch-dev/perch/internal/errors"
	"github.com/perch-dev/perch/internal/output"
	"github.com/perch-dev/perch/internal/terminal"
)

func testWriter() (*output.Writer, *bytes.Buffer, *bytes.Buffer) {
	var stdout, stderr bytes.Buffer
	w := output.NewWriter(&stdout, &stderr, &terminal.Info{})

	return w, &stdout, &stderr
}

func TestHandleError(t *testing.T) {
	t.Run("cli error with hint", func(t *testing.T) {
		out, stdout, stderr := testWriter()

		err := clierrors.New(clierrors.ExitConfig, "Bad config").WithHint("Check the file")

		if code := handleError(out, err); code != clierrors.ExitConfig {
			t.Errorf("exit code = %d, want %d", code, clierrors.ExitConfig)
		}

		if !strings.Contains(stderr.String(), "Bad config") {
			t.Errorf("stderr missing message: %q", stderr.String())
		}

		if !strings.Contains(stdout.String(), "Check the file") {
			t.Errorf("stdout missing hint: %q", stdout.String())
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		out, stdout, _ := testWriter()

		err := errors.New(`unknown command "togle" for "perch"`)

		if code := handleError(out, err); code != clierrors.ExitUsage {
			t.Errorf("exit code = %d, want %d", code, clierrors.ExitUsage)
		}

		if !strings.Contains(stdout.String(), "--help") {
			t.Errorf("stdout missing help pointer: %q", stdout.String())
		}
	})

	t.Run("plain error", func(t *testing.T) {
		out, _, _ := testWriter()

		if code := handleError(out, errors.New("boom")); code != clierrors.ExitGeneral {
			t.Errorf("exit code = %d, want %d", code, clierrors.ExitGeneral)
		}
	})
}

func TestRootCommandLayout(t *testing.T) {
	out, _, _ := testWriter()
	root := newRootCmd(out)

	wantCommands := []string{"run", "toggle", "preview", "config", "doctor", "version"}

	for _, name := range wantCommands {
		cmd, _, err := root.Find([]string{name})
		if err != nil || cmd.Name() != name {
			t.Errorf("command %q not registered: %v", name, err)
		}
	}
}

func TestToggleAliases(t *testing.T) {
	out, _, _ := testWriter()
	root := newRootCmd(out)

	for _, alias := range []string{"statusline", "bar"} {
		cmd, _, err := root.Find([]string{alias})
		if err != nil || cmd.Name() != "toggle" {
			t.Errorf("alias %q does not resolve to toggle: got %v, %v", alias, cmd, err)
		}
	}
}

func TestNoArgs(t *testing.T) {
	out, _, _ := testWriter()
	root := newRootCmd(out)

	cmd, _, err := root.Find([]string{"version"})
	if err != nil {
		t.Fatal(err)
	}

	if err := noArgs(cmd, nil); err != nil {
		t.Errorf("noArgs rejected empty args: %v", err)
	}

	err = noArgs(cmd, []string{"extra"})

	var cliErr *clierrors.CLIError
	if !clierrors.As(err, &cliErr) || cliErr.Code != clierrors.ExitUsage {
		t.Errorf("noArgs = %v, want usage CLIError", err)
	}
}

func TestPickFlagOrEnv(t *testing.T) {
	t.Setenv("PERCH_TEST_VALUE", "from-env")

	if got := pickFlagOrEnv("from-flag", "PERCH_TEST_VALUE", "fallback"); got != "from-flag" {
		t.Errorf("flag did not win: %q", got)
	}

	if got := pickFlagOrEnv("", "PERCH_TEST_VALUE", "fallback"); got != "from-env" {
		t.Errorf("env did not win: %q", got)
	}

	if got := pickFlagOrEnv("", "PERCH_TEST_UNSET", "fallback"); got != "fallback" {
		t.Errorf("fallback did not apply: %q", got)
	}
}

func TestCoerceValue(t *testing.T) {
	if v, ok := coerceValue("true").(bool); !ok || !v {
		t.Errorf("coerceValue(true) = %v", coerceValue("true"))
	}

	if v, ok := coerceValue("45").(int); !ok || v != 45 {
		t.Errorf("coerceValue(45) = %v", coerceValue("45"))
	}

	if v, ok := coerceValue("dusk").(string); !ok || v != "dusk" {
		t.Errorf("coerceValue(dusk) = %v", coerceValue("dusk"))
	}
}
