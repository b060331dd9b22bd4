// Package preview hosts the status widget inside a bubbletea program for
// local development: it feeds a scripted event sequence through a real
// runtime so the frame can be eyeballed without a host attached.
package preview

import (
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/perch-dev/perch/internal/host"
	"github.com/perch-dev/perch/internal/widget"
	"github.com/perch-dev/perch/internal/widget/layout"
)

const (
	frameEvery = 250 * time.Millisecond
	stepEvery  = 2 * time.Second
)

type frameMsg time.Time

// KeyMap holds the preview key bindings.
type KeyMap struct {
	Quit key.Binding
}

// DefaultKeyMap returns the preview bindings.
func DefaultKeyMap() KeyMap {
	return KeyMap{
		Quit: key.NewBinding(
			key.WithKeys("q", "esc", "ctrl+c"),
			key.WithHelp("q", "quit"),
		),
	}
}

// Model is the bubbletea model driving the preview.
type Model struct {
	rt       *widget.Runtime
	renderer *layout.Renderer
	keys     KeyMap

	width    int
	script   []host.Event
	idx      int
	lastStep time.Time
}

// NewModel creates a preview around a started runtime.
func NewModel(rt *widget.Runtime, renderer *layout.Renderer) Model {
	return Model{
		rt:       rt,
		renderer: renderer,
		keys:     DefaultKeyMap(),
		width:    80,
		script:   demoScript(),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return frameTick()
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
		return m, nil

	case frameMsg:
		if time.Time(msg).Sub(m.lastStep) >= stepEvery && len(m.script) > 0 {
			m.rt.Deliver(m.script[m.idx])
			m.idx = (m.idx + 1) % len(m.script)
			m.lastStep = time.Time(msg)
		}

		return m, frameTick()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	lines := m.renderer.Render(m.rt.Snapshot(), m.width)
	return strings.Join(lines, "\n") + "\npreview · q to quit"
}

func frameTick() tea.Cmd {
	return tea.Tick(frameEvery, func(t time.Time) tea.Msg {
		return frameMsg(t)
	})
}

func demoScript() []host.Event {
	ok := true
	failed := false

	return []host.Event{
		{
			Kind:          host.KindSessionStart,
			SessionID:     "preview",
			SessionName:   "refactor-parser",
			Model:         "opal-4",
			ThinkingLevel: "high",
			Usage:         &host.Usage{Percent: 12, Tokens: 24_000, ContextWindow: 200_000},
			Messages: []host.Message{
				{Role: "user", Text: "tighten up the tokenizer error paths"},
			},
		},
		{Kind: host.KindAgentStart, SessionID: "preview"},
		{Kind: host.KindToolStart, SessionID: "preview", ToolName: "search"},
		{Kind: host.KindToolEnd, SessionID: "preview", ToolOK: &ok},
		{Kind: host.KindToolStart, SessionID: "preview", ToolName: "bash"},
		{Kind: host.KindToolEnd, SessionID: "preview", ToolOK: &failed},
		{
			Kind:      host.KindAgentEnd,
			SessionID: "preview",
			Usage:     &host.Usage{Percent: 34, Tokens: 68_000, ContextWindow: 200_000},
		},
	}
}
