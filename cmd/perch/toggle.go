package main

import (
	"github.com/spf13/cobra"

	"github.com/perch-dev/perch/internal/config"
	clierrors "github.com/perch-dev/perch/internal/errors"
	"github.com/perch-dev/perch/internal/host"
	"github.com/perch-dev/perch/internal/output"
)

// ToggleResult represents the toggle outcome for JSON output.
type ToggleResult struct {
	Enabled bool `json:"enabled"`
}

func newToggleCmd() *cobra.Command {
	var (
		on  bool
		off bool
	)

	cmd := &cobra.Command{
		Use:     "toggle",
		Aliases: []string{"statusline", "bar"},
		Short:   "Enable or disable the status widget",
		Long: `Flip the widget's enabled flag and persist it. Hosts read the flag
on attach, so the change takes effect the next time 'perch run' starts.

All three spellings do the same thing: toggle, statusline, bar.`,
		Example: `  perch toggle
  perch statusline --on
  perch bar --off`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())

			if on && off {
				return clierrors.New(clierrors.ExitUsage, "--on and --off are mutually exclusive")
			}

			cfg := config.Load()

			enabled := !cfg.WidgetEnabled()
			if on {
				enabled = true
			}
			if off {
				enabled = false
			}

			if err := cfg.Set("widget.enabled", enabled); err != nil {
				return clierrors.ConfigWriteFailed(err)
			}

			if out.JSON {
				return out.PrintJSON(ToggleResult{Enabled: enabled})
			}

			notifier := &host.ToastNotifier{Out: out}
			if enabled {
				notifier.Notify("Status widget enabled")
			} else {
				notifier.Notify("Status widget disabled")
			}

			return nil
		},
	}

	cmd.Flags().BoolVar(&on, "on", false, "Enable instead of toggling")
	cmd.Flags().BoolVar(&off, "off", false, "Disable instead of toggling")

	return cmd
}
