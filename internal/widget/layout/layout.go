// Package layout assembles the six-line status frame from a display state
// and an available width. Rendering is pure apart from reading the clock
// for the stale elapsed-seconds counter.
//
// Width is measured in display columns, not runes: wide glyphs count as two
// cells, and ANSI sequences count as zero. Every content line is composed
// raw and then padded or truncated to exactly the requested width, with the
// truncation marker drawn on the theme background so a clipped line never
// falls back to the terminal default mid-line.
package layout

import (
	"fmt"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"

	"github.com/perch-dev/perch/internal/theme"
	"github.com/perch-dev/perch/internal/widget"
)

const (
	// LineCount is the fixed frame height: filler, main, context, status,
	// filler, terminator.
	LineCount = 6

	barWidth         = 6
	statusLabelWidth = 10
)

// statusTable maps each activity state to its icon and default label.
// Colors come from the theme.
var statusTable = map[widget.Status]struct {
	icon  string
	label string
}{
	widget.StatusIdle:    {icon: "●", label: "idle"},
	widget.StatusRunning: {icon: "◐", label: "running"},
	widget.StatusTool:    {icon: "⚒", label: "tool"},
	widget.StatusError:   {icon: "✗", label: "error"},
	widget.StatusStale:   {icon: "◷", label: "stale"},
}

// Renderer renders status frames with a fixed theme.
type Renderer struct {
	th  *theme.Theme
	now func() time.Time
}

// New creates a Renderer. The clock defaults to time.Now.
func New(th *theme.Theme) *Renderer {
	return &Renderer{th: th, now: time.Now}
}

// WithClock overrides the renderer's clock (tests).
func (r *Renderer) WithClock(now func() time.Time) *Renderer {
	r.now = now
	return r
}

// Render produces the frame: five lines of exactly width columns followed
// by an empty terminator line.
func (r *Renderer) Render(state widget.DisplayState, width int) []string {
	if width < 1 {
		width = 1
	}

	filler := r.fit("", width)

	return []string{
		filler,
		r.fit(r.mainLine(state), width),
		r.fit(r.contextLine(state), width),
		r.fit(r.statusLine(state), width),
		filler,
		"",
	}
}

// mainLine: " <dir> [(branch)] [⎇ name i/n]: <label> "
func (r *Renderer) mainLine(s widget.DisplayState) string {
	var b strings.Builder

	b.WriteString(r.th.Base.Render(" " + collapseHome(s.Dir)))

	if s.GitBranch != "" {
		b.WriteString(r.th.Branch.Render(" (" + s.GitBranch + ")"))
	}

	// Worktree marker only when the repo has several worktrees and the
	// current one was resolved; otherwise it is absent from the layout.
	if s.WorktreeCount > 1 && s.WorktreeName != "" {
		b.WriteString(r.th.Worktree.Render(fmt.Sprintf(" ⎇ %s %d/%d", s.WorktreeName, s.WorktreeIndex, s.WorktreeCount)))
	}

	b.WriteString(r.th.Base.Render(":"))

	switch {
	case s.SessionLabel != "":
		b.WriteString(r.th.Label.Render(" " + s.SessionLabel))
	case s.FirstUserText != "":
		b.WriteString(r.th.Fallback.Render(" " + s.FirstUserText))
	}

	b.WriteString(r.th.Base.Render(" "))

	return b.String()
}

// contextLine: " <bar> NN% tokens/window │ model [• thinking] "
func (r *Renderer) contextLine(s widget.DisplayState) string {
	pct := s.ContextPercent
	if pct < 0 {
		pct = 0
	} else if pct > 100 {
		pct = 100
	}

	var b strings.Builder

	b.WriteString(r.th.Base.Render(" "))
	b.WriteString(r.usageBar(pct))
	b.WriteString(r.th.Base.Render(fmt.Sprintf(" %d%% %s/%s",
		int(math.Round(pct)), fmtTokens(s.ContextTokens), fmtTokens(s.ContextWindow))))

	if s.Model != "" {
		b.WriteString(r.th.Branch.Render(" │ "))
		b.WriteString(r.th.Model.Render(s.Model))

		if s.ThinkingLevel != "" && s.ThinkingLevel != "off" {
			b.WriteString(r.th.Thinking.Render(" • " + s.ThinkingLevel))
		}
	}

	b.WriteString(r.th.Base.Render(" "))

	return b.String()
}

// statusLine: " <icon> <label:10> [+a] [-r] [~] "
func (r *Renderer) statusLine(s widget.DisplayState) string {
	entry := statusTable[s.Status]

	label := entry.label

	switch s.Status {
	case widget.StatusTool:
		if s.ToolName != "" {
			label = s.ToolName
		}
	case widget.StatusStale:
		if s.ToolName != "" {
			elapsed := int(r.now().Sub(s.ToolStart).Seconds())
			label = fmt.Sprintf("%s %ds", s.ToolName, elapsed)
		}
	}

	label = runewidth.FillLeft(runewidth.Truncate(label, statusLabelWidth, ""), statusLabelWidth)

	var b strings.Builder

	b.WriteString(r.th.Base.Render(" "))
	b.WriteString(r.th.Status(s.Status.String()).Render(entry.icon + " " + label))

	if s.GitAdded > 0 {
		b.WriteString(r.th.Added.Render(" +" + strconv.Itoa(s.GitAdded)))
	}

	if s.GitRemoved > 0 {
		b.WriteString(r.th.Removed.Render(" -" + strconv.Itoa(s.GitRemoved)))
	}

	// Dirty tree with nothing countable still deserves a hint.
	if s.GitDirty && s.GitAdded == 0 && s.GitRemoved == 0 {
		b.WriteString(r.th.Dirty.Render(" ~"))
	}

	b.WriteString(r.th.Base.Render(" "))

	return b.String()
}

func (r *Renderer) usageBar(pct float64) string {
	filled := int(math.Round(pct / 100 * barWidth))
	if filled > barWidth {
		filled = barWidth
	}

	return r.th.BarTier(pct).Render(strings.Repeat("█", filled)) +
		r.th.BarEmpty.Render(strings.Repeat("░", barWidth-filled))
}

// fit pads or truncates a composed line to exactly width columns. Padding
// and the truncation marker are drawn on the theme background.
func (r *Renderer) fit(line string, width int) string {
	w := ansi.StringWidth(line)

	switch {
	case w == width:
		return line
	case w < width:
		return line + r.th.Base.Render(strings.Repeat(" ", width-w))
	case width == 1:
		return r.th.Base.Render("…")
	default:
		// Truncation can land before a wide glyph and come up a cell
		// short; pad the remainder after the marker.
		out := ansi.Truncate(line, width-1, "") + r.th.Base.Render("…")
		if got := ansi.StringWidth(out); got < width {
			out += r.th.Base.Render(strings.Repeat(" ", width-got))
		}

		return out
	}
}

// fmtTokens renders a token count compactly: 950 → "950",
// 12345 → "12k", 2500000 → "2.5M".
func fmtTokens(n int) string {
	switch {
	case n >= 1_000_000:
		s := strconv.FormatFloat(float64(n)/1e6, 'f', 1, 64)
		return strings.TrimSuffix(s, ".0") + "M"
	case n >= 1000:
		return strconv.Itoa(n/1000) + "k"
	default:
		return strconv.Itoa(n)
	}
}

// collapseHome rewrites a home-directory prefix to "~".
func collapseHome(dir string) string {
	if dir == "" {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return dir
	}

	if dir == home {
		return "~"
	}

	if rest, ok := strings.CutPrefix(dir, home+string(os.PathSeparator)); ok {
		return "~/" + rest
	}

	return dir
}
