package host

import (
	"bufio"
	"context"
	"io"
	"log/slog"
)

// Bridge reads the host's line-delimited JSON event stream and dispatches
// decoded events to a handler. Malformed lines are logged and skipped: a
// host hiccup must not kill the widget.
type Bridge struct {
	in     io.Reader
	logger *slog.Logger
}

// NewBridge creates a Bridge reading from in.
func NewBridge(in io.Reader, logger *slog.Logger) *Bridge {
	if logger == nil {
		logger = slog.Default()
	}

	return &Bridge{in: in, logger: logger}
}

// Run dispatches events until the stream ends or ctx is canceled.
// A clean EOF returns nil.
func (b *Bridge) Run(ctx context.Context, handle func(Event)) error {
	scanner := bufio.NewScanner(b.in)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	for scanner.Scan() {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}

		ev, err := ParseEvent(line)
		if err != nil {
			b.logger.Debug("skipping malformed host event", "error", err)
			continue
		}

		handle(ev)
	}

	return scanner.Err()
}
