// Package theme provides the color palette and lipgloss styles for the
// status widget. Styles are built against an explicit lipgloss renderer so
// the color profile follows the host terminal (and so tests can pin one).
//
// Every style carries the theme background: the layout engine composes lines
// from adjacent styled spans, and a span that dropped the background would
// leak the terminal default mid-line.
package theme

import (
	"os"
	"path/filepath"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// Palette holds the raw color values for a theme. Fields map to
// ~/.config/perch/theme.yaml for user overrides.
type Palette struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
	Muted      string `yaml:"muted"`
	Accent     string `yaml:"accent"`
	Added      string `yaml:"added"`
	Removed    string `yaml:"removed"`
	BarBest    string `yaml:"bar_best"`
	BarGood    string `yaml:"bar_good"`
	BarCaution string `yaml:"bar_caution"`
	BarCrit    string `yaml:"bar_critical"`

	StatusIdle    StatusColors `yaml:"status_idle"`
	StatusRunning StatusColors `yaml:"status_running"`
	StatusTool    StatusColors `yaml:"status_tool"`
	StatusError   StatusColors `yaml:"status_error"`
	StatusStale   StatusColors `yaml:"status_stale"`
}

// StatusColors is the background/foreground pair for one status entry.
type StatusColors struct {
	Background string `yaml:"background"`
	Foreground string `yaml:"foreground"`
}

// Dusk is the built-in default palette (256-color).
func Dusk() Palette {
	return Palette{
		Background: "236",
		Foreground: "252",
		Muted:      "244",
		Accent:     "117",
		Added:      "114",
		Removed:    "174",
		BarBest:    "114",
		BarGood:    "150",
		BarCaution: "179",
		BarCrit:    "167",

		StatusIdle:    StatusColors{Background: "236", Foreground: "244"},
		StatusRunning: StatusColors{Background: "236", Foreground: "117"},
		StatusTool:    StatusColors{Background: "236", Foreground: "179"},
		StatusError:   StatusColors{Background: "236", Foreground: "167"},
		StatusStale:   StatusColors{Background: "236", Foreground: "208"},
	}
}

// LoadPalette returns the named built-in palette with any user overrides
// from <configDir>/theme.yaml applied. Unknown names and unreadable or
// malformed override files fall back silently: theming must never break
// the widget.
func LoadPalette(name, configDir string) Palette {
	p := Dusk() // only built-in for now; name is reserved for future palettes
	_ = name

	if configDir == "" {
		return p
	}

	data, err := os.ReadFile(filepath.Join(configDir, "theme.yaml"))
	if err != nil {
		return p
	}

	if err := yaml.Unmarshal(data, &p); err != nil {
		return Dusk()
	}

	return p
}

// Theme is the resolved style set used by the layout engine.
type Theme struct {
	// Base paints the widget background; filler and padding use it.
	Base lipgloss.Style

	// Label styles an explicit session name (emphasis).
	Label lipgloss.Style

	// Fallback styles the first-user-message stand-in (dimmed, italic).
	Fallback lipgloss.Style

	Branch   lipgloss.Style
	Worktree lipgloss.Style
	Added    lipgloss.Style
	Removed  lipgloss.Style
	Dirty    lipgloss.Style
	Model    lipgloss.Style
	Thinking lipgloss.Style
	BarEmpty lipgloss.Style

	barTiers [4]lipgloss.Style
	statuses map[string]lipgloss.Style
}

// New builds a Theme from a palette using the given renderer's color profile.
func New(r *lipgloss.Renderer, p Palette) *Theme {
	bg := lipgloss.Color(p.Background)
	fg := lipgloss.Color(p.Foreground)

	base := r.NewStyle().Background(bg).Foreground(fg)

	statusStyle := func(c StatusColors) lipgloss.Style {
		return r.NewStyle().Background(lipgloss.Color(c.Background)).Foreground(lipgloss.Color(c.Foreground)).Bold(true)
	}

	return &Theme{
		Base:     base,
		Label:    base.Bold(true).Foreground(lipgloss.Color(p.Accent)),
		Fallback: base.Faint(true).Italic(true),
		Branch:   base.Foreground(lipgloss.Color(p.Muted)),
		Worktree: base.Foreground(lipgloss.Color(p.Accent)),
		Added:    base.Foreground(lipgloss.Color(p.Added)),
		Removed:  base.Foreground(lipgloss.Color(p.Removed)),
		Dirty:    base.Foreground(lipgloss.Color(p.Muted)),
		Model:    base.Foreground(lipgloss.Color(p.Foreground)),
		Thinking: base.Foreground(lipgloss.Color(p.Muted)),
		BarEmpty: base.Foreground(lipgloss.Color(p.Muted)),

		barTiers: [4]lipgloss.Style{
			base.Foreground(lipgloss.Color(p.BarBest)),
			base.Foreground(lipgloss.Color(p.BarGood)),
			base.Foreground(lipgloss.Color(p.BarCaution)),
			base.Foreground(lipgloss.Color(p.BarCrit)),
		},

		statuses: map[string]lipgloss.Style{
			"idle":    statusStyle(p.StatusIdle),
			"running": statusStyle(p.StatusRunning),
			"tool":    statusStyle(p.StatusTool),
			"error":   statusStyle(p.StatusError),
			"stale":   statusStyle(p.StatusStale),
		},
	}
}

// BarTier returns the usage-bar style for a context percentage.
// Tier boundaries (inclusive lower bound): <25 best, <40 good,
// <60 caution, >=60 critical.
func (t *Theme) BarTier(percent float64) lipgloss.Style {
	switch {
	case percent < 25:
		return t.barTiers[0]
	case percent < 40:
		return t.barTiers[1]
	case percent < 60:
		return t.barTiers[2]
	default:
		return t.barTiers[3]
	}
}

// Status returns the style for a status key ("idle", "running", "tool",
// "error", "stale"). Unknown keys get the base style.
func (t *Theme) Status(name string) lipgloss.Style {
	if s, ok := t.statuses[name]; ok {
		return s
	}

	return t.Base
}
