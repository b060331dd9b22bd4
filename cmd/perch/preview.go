package main

import (
	"os"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/perch-dev/perch/internal/config"
	clierrors "github.com/perch-dev/perch/internal/errors"
	"github.com/perch-dev/perch/internal/gitstat"
	"github.com/perch-dev/perch/internal/observability"
	"github.com/perch-dev/perch/internal/output"
	"github.com/perch-dev/perch/internal/preview"
	"github.com/perch-dev/perch/internal/theme"
	"github.com/perch-dev/perch/internal/widget"
	"github.com/perch-dev/perch/internal/widget/layout"
)

func newPreviewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "preview",
		Short: "Render the widget with scripted events",
		Long: `Run the widget against a built-in event script in the current
terminal. Useful for theme work and for checking what a host will see
without attaching one.`,
		Example: `  perch preview`,
		Args:    noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			logger := observability.FromContext(cmd.Context())

			if !out.Terminal().IsTTY {
				return clierrors.NotATerminal("preview")
			}

			cfg := config.Load()
			configDir, _ := config.Dir()
			palette := theme.LoadPalette(cfg.Theme(), configDir)
			renderer := layout.New(theme.New(lipgloss.NewRenderer(os.Stdout), palette))

			cwd, err := os.Getwd()
			if err != nil {
				return clierrors.Wrap(clierrors.ExitGeneral, "Cannot determine working directory", err)
			}

			rt := widget.New(widget.Options{
				Dir:        cwd,
				Git:        gitstat.New(cwd, logger),
				Logger:     logger,
				StaleAfter: 5 * time.Second, // short so the stale state shows up in a demo run
				GitPoll:    time.Duration(cfg.GitPollInterval()) * time.Second,
			})

			rt.Start()
			defer rt.Close()

			p := tea.NewProgram(preview.NewModel(rt, renderer))
			if _, err := p.Run(); err != nil {
				return clierrors.Wrap(clierrors.ExitGeneral, "Preview failed", err)
			}

			return nil
		},
	}
}
