package main

import (
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"

	"github.com/perch-dev/perch/internal/config"
	clierrors "github.com/perch-dev/perch/internal/errors"
	"github.com/perch-dev/perch/internal/gitstat"
	"github.com/perch-dev/perch/internal/host"
	"github.com/perch-dev/perch/internal/observability"
	"github.com/perch-dev/perch/internal/output"
	"github.com/perch-dev/perch/internal/theme"
	"github.com/perch-dev/perch/internal/widget"
	"github.com/perch-dev/perch/internal/widget/layout"
)

func newRunCmd() *cobra.Command {
	var (
		width int
		dir   string
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Attach to the host event stream and render status frames",
		Long: `Read line-delimited JSON lifecycle events from stdin and write
six-line status frames to stdout after every state change.

This is the command a host editor spawns; it exits cleanly when the host
closes the stream.`,
		Example: `  # Driven by a host
  some-editor --statusline 'perch run'

  # By hand
  printf '{"kind":"session_start","session_name":"demo"}\n' | perch run --width 60`,
		Args: noArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := output.FromContext(cmd.Context())
			logger := observability.FromContext(cmd.Context())

			cfg := config.Load()
			if !cfg.WidgetEnabled() {
				out.Muted("widget disabled; run 'perch toggle' to enable")
				return nil
			}

			if dir == "" {
				cwd, err := os.Getwd()
				if err != nil {
					return clierrors.Wrap(clierrors.ExitGeneral, "Cannot determine working directory", err)
				}
				dir = cwd
			}

			if width <= 0 {
				width = out.Terminal().WidthOr(80)
			}

			renderer := newFrameRenderer(cfg, out)

			git := gitstat.New(dir, logger)
			registry := host.NewRegistry()
			registry.Remove(host.LegacyWidgetID)

			stdout := cmd.OutOrStdout()

			rt := widget.New(widget.Options{
				Dir:    dir,
				Git:    git,
				Logger: logger,
				OnRender: func(state widget.DisplayState) {
					frame := renderer.Render(state, width)
					_, _ = stdout.Write([]byte(strings.Join(frame, "\n") + "\n"))
				},
				StaleAfter: time.Duration(cfg.StaleAfter()) * time.Second,
				GitPoll:    time.Duration(cfg.GitPollInterval()) * time.Second,
			})

			registry.Install(host.Widget{
				ID:        host.WidgetID,
				Placement: host.PlacementBelowEditor,
				Render: func(w int) []string {
					return renderer.Render(rt.Snapshot(), w)
				},
				Dispose: rt.Close,
			})
			defer registry.Remove(host.WidgetID)

			rt.Start()

			// Branch switches land faster than the poll via the HEAD watcher.
			if watcher, err := gitstat.WatchHead(dir, logger); err == nil {
				defer watcher.Close()

				go func() {
					for range watcher.C {
						rt.RequestGitRefresh()
					}
				}()
			} else {
				logger.Debug("git HEAD watch unavailable", "error", err)
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			bridge := host.NewBridge(cmd.InOrStdin(), logger)
			if err := bridge.Run(ctx, rt.Deliver); err != nil && ctx.Err() == nil {
				return clierrors.BridgeClosed(err)
			}

			return nil
		},
	}

	cmd.Flags().IntVar(&width, "width", 0, "Frame width in columns (0 = detect)")
	cmd.Flags().StringVar(&dir, "dir", "", "Session working directory (default: cwd)")

	return cmd
}

// newFrameRenderer builds the layout renderer from the configured theme,
// pinned to a plain profile when color is off.
func newFrameRenderer(cfg *config.Config, out *output.Writer) *layout.Renderer {
	configDir, _ := config.Dir()
	palette := theme.LoadPalette(cfg.Theme(), configDir)

	lr := lipgloss.NewRenderer(os.Stdout)
	if !out.Terminal().ColorEnabled() {
		lr.SetColorProfile(termenv.Ascii)
	}

	return layout.New(theme.New(lr, palette))
}
