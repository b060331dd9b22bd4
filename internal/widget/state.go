// Package widget owns the status widget's display state and the runtime
// that mutates it from host lifecycle events.
package widget

import "time"

// Status is the widget's activity state. Exactly one value is active at a
// time; transitions are driven by host lifecycle events.
type Status int

// Activity states, in display order.
const (
	StatusIdle Status = iota
	StatusRunning
	StatusTool
	StatusError
	StatusStale
)

// String returns the status key used for theme lookup.
func (s Status) String() string {
	switch s {
	case StatusIdle:
		return "idle"
	case StatusRunning:
		return "running"
	case StatusTool:
		return "tool"
	case StatusError:
		return "error"
	case StatusStale:
		return "stale"
	default:
		return "unknown"
	}
}

// DisplayState is everything the layout engine needs for one frame.
// It is owned by the runtime loop; consumers get value copies.
type DisplayState struct {
	Status Status

	// Dir is the session working directory.
	Dir string

	// ToolName and ToolStart are set together while a tool runs and
	// cleared together when it ends.
	ToolName  string
	ToolStart time.Time

	GitBranch  string
	GitAdded   int
	GitRemoved int
	GitDirty   bool

	WorktreeCount int
	WorktreeName  string
	WorktreeIndex int // 1-based, 0 when unresolved

	ContextPercent float64 // clamped to [0,100]
	ContextTokens  int
	ContextWindow  int

	Model         string
	ThinkingLevel string

	// SessionLabel is the explicit session name; FirstUserText is the
	// fallback shown dimmed when no label exists.
	SessionLabel  string
	FirstUserText string
}

func (s *DisplayState) clearTool() {
	s.ToolName = ""
	s.ToolStart = time.Time{}
}

func (s *DisplayState) resetWorktree() {
	s.WorktreeCount = 0
	s.WorktreeName = ""
	s.WorktreeIndex = 0
}

func clampPercent(p float64) float64 {
	if p < 0 {
		return 0
	}
	if p > 100 {
		return 100
	}

	return p
}
