package widget

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/perch-dev/perch/internal/gitstat"
	"github.com/perch-dev/perch/internal/host"
)

// Default timings for the runtime's three timers.
const (
	DefaultStaleAfter = 30 * time.Second
	DefaultStaleTick  = 1 * time.Second
	DefaultGitPoll    = 10 * time.Second
)

// Options configures a Runtime.
type Options struct {
	// Dir is the session working directory.
	Dir string

	// Git queries repository state; nil disables git refresh.
	Git *gitstat.Client

	// OnRender is the fire-and-forget render notification to the host.
	// It is called from the runtime goroutine with a state copy.
	OnRender func(DisplayState)

	Logger *slog.Logger

	// Timer durations; zero values take the defaults above.
	StaleAfter time.Duration
	StaleTick  time.Duration
	GitPoll    time.Duration
}

type gitUpdate struct {
	diff            gitstat.Diff
	branch          string
	worktree        gitstat.Worktree
	includeWorktree bool
}

// Runtime is one installed widget instance: a single goroutine owns the
// display state and processes host events, timer fires, and async git
// results in sequence. Disposal cancels the stale watchdog, the stale tick,
// and the git poll under every exit path.
type Runtime struct {
	id   string
	opts Options

	events  chan host.Event
	gitCh   chan gitUpdate
	pokeGit chan struct{}
	done    chan struct{}
	stopped chan struct{}

	startOnce sync.Once
	closeOnce sync.Once

	// Loop-owned; never touched outside the runtime goroutine.
	state      DisplayState
	staleTimer *time.Timer
	staleC     <-chan time.Time
	staleTick  *time.Ticker
	tickC      <-chan time.Time

	capturedSession  string
	capturedNonEmpty bool

	mu       sync.Mutex
	started  bool
	snapshot DisplayState
}

// New creates a Runtime for one session. Call Start to begin processing.
func New(opts Options) *Runtime {
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	if opts.StaleAfter <= 0 {
		opts.StaleAfter = DefaultStaleAfter
	}
	if opts.StaleTick <= 0 {
		opts.StaleTick = DefaultStaleTick
	}
	if opts.GitPoll <= 0 {
		opts.GitPoll = DefaultGitPoll
	}

	r := &Runtime{
		id:      uuid.NewString(),
		opts:    opts,
		events:  make(chan host.Event, 64),
		gitCh:   make(chan gitUpdate, 4),
		pokeGit: make(chan struct{}, 1),
		done:    make(chan struct{}),
		stopped: make(chan struct{}),
	}

	r.state.Dir = opts.Dir
	r.state.Status = StatusIdle
	r.snapshot = r.state

	return r
}

// ID returns the instance identifier.
func (r *Runtime) ID() string {
	return r.id
}

// Start launches the event loop and kicks off the initial git refresh.
// Idempotent.
func (r *Runtime) Start() {
	r.startOnce.Do(func() {
		r.mu.Lock()
		r.started = true
		r.mu.Unlock()

		r.refreshGit(true)
		go r.loop()
	})
}

// Deliver hands a host event to the runtime. Blocks only if the event
// buffer is full and the runtime is alive.
func (r *Runtime) Deliver(ev host.Event) {
	select {
	case r.events <- ev:
	case <-r.done:
	}
}

// RequestGitRefresh asks for an out-of-band git refresh (branch watcher).
// Coalesced; never blocks.
func (r *Runtime) RequestGitRefresh() {
	select {
	case r.pokeGit <- struct{}{}:
	default:
	}
}

// Snapshot returns a copy of the most recently rendered state.
func (r *Runtime) Snapshot() DisplayState {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.snapshot
}

// Close tears the runtime down, cancelling all timers before returning.
// Safe to call more than once.
func (r *Runtime) Close() {
	r.closeOnce.Do(func() {
		close(r.done)
	})

	r.mu.Lock()
	started := r.started
	r.mu.Unlock()

	if started {
		<-r.stopped
	}
}

func (r *Runtime) loop() {
	defer close(r.stopped)
	defer r.cancelStaleness()

	poll := time.NewTicker(r.opts.GitPoll)
	defer poll.Stop()

	r.render()

	for {
		select {
		case <-r.done:
			return
		case ev := <-r.events:
			r.handleEvent(ev)
		case <-r.staleC:
			r.handleStaleTimeout()
		case <-r.tickC:
			r.handleStaleTick()
		case <-poll.C:
			r.refreshGit(false)
		case <-r.pokeGit:
			r.refreshGit(true)
		case up := <-r.gitCh:
			r.applyGit(up)
			r.render()
		}
	}
}

func (r *Runtime) handleEvent(ev host.Event) {
	// Session boundaries drop the previous session's capture so a switch
	// without message history never shows the old session's text.
	if ev.Kind == host.KindSessionStart || ev.Kind == host.KindSessionSwitch {
		r.state.FirstUserText = ""
		r.capturedSession = ev.SessionID
		r.capturedNonEmpty = false
	}

	// First-user-text is captured at most once per session; an empty
	// capture stays eligible until a later event carries the text.
	if len(ev.Messages) > 0 {
		r.captureFirstUserText(ev)
	}

	switch ev.Kind {
	case host.KindSessionStart, host.KindSessionSwitch:
		r.cancelStaleness()
		r.state.Status = StatusIdle
		r.state.clearTool()
		r.state.resetWorktree()
		r.state.SessionLabel = ev.SessionName

		if ev.Cwd != "" {
			r.state.Dir = ev.Cwd
		}

		r.applyContext(ev)
		r.refreshGit(true)

	case host.KindAgentStart:
		r.cancelStaleness()
		r.state.Status = StatusRunning
		r.state.clearTool()

	case host.KindToolStart:
		r.cancelStaleness()
		r.state.Status = StatusTool
		r.state.ToolName = ev.ToolName
		r.state.ToolStart = time.Now()
		r.armStaleTimer()

	case host.KindToolEnd:
		r.cancelStaleness()
		if ev.ToolOK == nil || *ev.ToolOK {
			r.state.Status = StatusRunning
		} else {
			r.state.Status = StatusError
		}
		r.state.clearTool()

	case host.KindAgentEnd:
		r.cancelStaleness()
		r.state.Status = StatusIdle
		r.state.clearTool()
		r.applyContext(ev)
		r.refreshGit(true)

	case host.KindModelChanged:
		r.applyContext(ev)

	default:
		r.opts.Logger.Debug("unhandled host event", "kind", string(ev.Kind))
		return
	}

	r.render()
}

func (r *Runtime) captureFirstUserText(ev host.Event) {
	if ev.SessionID == r.capturedSession && r.capturedNonEmpty {
		return
	}

	text := ev.FirstUserText()
	r.state.FirstUserText = text
	r.capturedSession = ev.SessionID
	r.capturedNonEmpty = text != ""
}

// applyContext folds the event's session-context snapshot into the state.
// A missing usage reading leaves prior values untouched.
func (r *Runtime) applyContext(ev host.Event) {
	if ev.Model != "" {
		r.state.Model = ev.Model
	}

	if ev.ThinkingLevel != "" {
		r.state.ThinkingLevel = ev.ThinkingLevel
	}

	if ev.Usage != nil {
		r.state.ContextPercent = clampPercent(ev.Usage.Percent)
		r.state.ContextTokens = ev.Usage.Tokens
		r.state.ContextWindow = ev.Usage.ContextWindow
	}
}

// --- staleness watchdog ---

func (r *Runtime) armStaleTimer() {
	r.disarmStaleTimer()
	r.staleTimer = time.NewTimer(r.opts.StaleAfter)
	r.staleC = r.staleTimer.C
}

func (r *Runtime) disarmStaleTimer() {
	if r.staleTimer == nil {
		return
	}

	r.staleTimer.Stop()
	r.staleTimer = nil
	r.staleC = nil
}

func (r *Runtime) startStaleTick() {
	r.stopStaleTick()
	r.staleTick = time.NewTicker(r.opts.StaleTick)
	r.tickC = r.staleTick.C
}

func (r *Runtime) stopStaleTick() {
	if r.staleTick == nil {
		return
	}

	r.staleTick.Stop()
	r.staleTick = nil
	r.tickC = nil
}

func (r *Runtime) cancelStaleness() {
	r.disarmStaleTimer()
	r.stopStaleTick()
}

func (r *Runtime) handleStaleTimeout() {
	r.disarmStaleTimer()

	if r.state.Status != StatusTool {
		return
	}

	r.state.Status = StatusStale
	r.startStaleTick()
	r.render()
}

func (r *Runtime) handleStaleTick() {
	if r.state.Status != StatusStale {
		r.stopStaleTick()
		return
	}

	// Re-render so the elapsed-seconds counter advances.
	r.render()
}

// --- git refresh ---

func (r *Runtime) refreshGit(includeWorktree bool) {
	git := r.opts.Git
	if git == nil {
		return
	}

	go func() {
		ctx := context.Background()

		up := gitUpdate{
			diff:            git.Diff(ctx),
			branch:          git.Branch(ctx),
			includeWorktree: includeWorktree,
		}

		if includeWorktree {
			up.worktree = git.Worktree(ctx)
		}

		select {
		case r.gitCh <- up:
		case <-r.done:
		}
	}()
}

func (r *Runtime) applyGit(up gitUpdate) {
	r.state.GitAdded = up.diff.Added
	r.state.GitRemoved = up.diff.Removed
	r.state.GitDirty = up.diff.Dirty
	r.state.GitBranch = up.branch

	if up.includeWorktree {
		r.state.WorktreeCount = up.worktree.Count
		r.state.WorktreeName = up.worktree.Name
		r.state.WorktreeIndex = up.worktree.Index
	}
}

func (r *Runtime) render() {
	snap := r.state

	r.mu.Lock()
	r.snapshot = snap
	r.mu.Unlock()

	if r.opts.OnRender != nil {
		r.opts.OnRender(snap)
	}
}
