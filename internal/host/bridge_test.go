package host

import (
	"context"
	"io"
	"log/slog"
	"strings"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestBridgeRun(t *testing.T) {
	stream := strings.Join([]string{
		`{"kind":"session_start","session_id":"s1"}`,
		``,
		`not json at all`,
		`{"kind":"session_pause","session_id":"s1"}`,
		`{"kind":"agent_start","session_id":"s1"}`,
	}, "\n") + "\n"

	var got []Kind
	b := NewBridge(strings.NewReader(stream), discardLogger())

	err := b.Run(context.Background(), func(ev Event) {
		got = append(got, ev.Kind)
	})
	if err != nil {
		t.Fatalf("Run: %v", err)
	}

	want := []Kind{KindSessionStart, KindAgentStart}
	if len(got) != len(want) {
		t.Fatalf("dispatched %d events, want %d: %v", len(got), len(want), got)
	}

	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestBridgeRunCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	b := NewBridge(strings.NewReader(`{"kind":"agent_start","session_id":"s1"}`+"\n"), discardLogger())

	err := b.Run(ctx, func(Event) {
		t.Error("handler called after cancellation")
	})
	if err != context.Canceled {
		t.Errorf("Run = %v, want context.Canceled", err)
	}
}

func TestBridgeEmptyStream(t *testing.T) {
	b := NewBridge(strings.NewReader(""), discardLogger())

	if err := b.Run(context.Background(), func(Event) {}); err != nil {
		t.Errorf("Run on empty stream = %v, want nil", err)
	}
}
