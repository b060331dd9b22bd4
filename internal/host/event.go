// Package host is the boundary to the widget's host runtime: the lifecycle
// event stream it delivers, the widget registry it composites from, and the
// notification surface for the toggle commands.
//
// The host pipes one JSON event per line. Each event carries its kind plus a
// flattened session-context snapshot (name, model, thinking level, context
// usage, message history), so handlers never call back into the host.
package host

import (
	"encoding/json"
	"fmt"
)

// Kind identifies a lifecycle event.
type Kind string

// Lifecycle event kinds delivered by the host.
const (
	KindSessionStart  Kind = "session_start"
	KindSessionSwitch Kind = "session_switch"
	KindAgentStart    Kind = "agent_start"
	KindAgentEnd      Kind = "agent_end"
	KindToolStart     Kind = "tool_start"
	KindToolEnd       Kind = "tool_end"
	KindModelChanged  Kind = "model_changed"
)

var validKinds = map[Kind]bool{
	KindSessionStart:  true,
	KindSessionSwitch: true,
	KindAgentStart:    true,
	KindAgentEnd:      true,
	KindToolStart:     true,
	KindToolEnd:       true,
	KindModelChanged:  true,
}

// Usage is a context-window usage snapshot.
type Usage struct {
	Percent       float64 `json:"used_percentage"`
	Tokens        int     `json:"tokens"`
	ContextWindow int     `json:"context_window_size"`
}

// Message is one entry of the session's message history. Only enough is
// carried to extract the first user-authored text.
type Message struct {
	Role string `json:"role"`
	Text string `json:"text"`
}

// Event is one host lifecycle event plus its session-context snapshot.
type Event struct {
	Kind          Kind      `json:"kind"`
	SessionID     string    `json:"session_id"`
	SessionName   string    `json:"session_name,omitempty"`
	Cwd           string    `json:"cwd,omitempty"`
	ToolName      string    `json:"tool_name,omitempty"`
	ToolOK        *bool     `json:"tool_ok,omitempty"`
	Model         string    `json:"model,omitempty"`
	ThinkingLevel string    `json:"thinking_level,omitempty"`
	Usage         *Usage    `json:"context_window,omitempty"`
	Messages      []Message `json:"messages,omitempty"`
}

// ParseEvent decodes a single JSON event line.
func ParseEvent(data []byte) (Event, error) {
	var ev Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return Event{}, fmt.Errorf("decode host event: %w", err)
	}

	if !validKinds[ev.Kind] {
		return Event{}, fmt.Errorf("unknown host event kind %q", ev.Kind)
	}

	return ev, nil
}

// FirstUserText returns the first user-authored message text in the
// snapshot, or "".
func (e Event) FirstUserText() string {
	for _, m := range e.Messages {
		if m.Role == "user" && m.Text != "" {
			return m.Text
		}
	}

	return ""
}
