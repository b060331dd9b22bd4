package host

import "testing"

func TestParseEvent(t *testing.T) {
	t.Run("full event", func(t *testing.T) {
		line := `{
			"kind": "session_start",
			"session_id": "s1",
			"session_name": "refactor",
			"cwd": "/work",
			"model": "opal-4",
			"thinking_level": "high",
			"context_window": {"used_percentage": 42.5, "tokens": 85000, "context_window_size": 200000},
			"messages": [{"role": "user", "text": "fix the parser"}]
		}`

		ev, err := ParseEvent([]byte(line))
		if err != nil {
			t.Fatalf("ParseEvent: %v", err)
		}

		if ev.Kind != KindSessionStart || ev.SessionName != "refactor" || ev.Cwd != "/work" {
			t.Errorf("unexpected event: %+v", ev)
		}

		if ev.Usage == nil || ev.Usage.Percent != 42.5 || ev.Usage.Tokens != 85000 {
			t.Errorf("unexpected usage: %+v", ev.Usage)
		}
	})

	t.Run("tool end carries verdict", func(t *testing.T) {
		ev, err := ParseEvent([]byte(`{"kind":"tool_end","session_id":"s1","tool_ok":false}`))
		if err != nil {
			t.Fatalf("ParseEvent: %v", err)
		}

		if ev.ToolOK == nil || *ev.ToolOK {
			t.Errorf("ToolOK = %v, want false", ev.ToolOK)
		}
	})

	t.Run("missing verdict stays nil", func(t *testing.T) {
		ev, err := ParseEvent([]byte(`{"kind":"tool_end","session_id":"s1"}`))
		if err != nil {
			t.Fatalf("ParseEvent: %v", err)
		}

		if ev.ToolOK != nil {
			t.Errorf("ToolOK = %v, want nil", ev.ToolOK)
		}
	})

	t.Run("unknown kind", func(t *testing.T) {
		if _, err := ParseEvent([]byte(`{"kind":"session_pause"}`)); err == nil {
			t.Error("ParseEvent accepted unknown kind")
		}
	})

	t.Run("malformed json", func(t *testing.T) {
		if _, err := ParseEvent([]byte(`{"kind":`)); err == nil {
			t.Error("ParseEvent accepted malformed input")
		}
	})
}

func TestFirstUserText(t *testing.T) {
	cases := []struct {
		name     string
		messages []Message
		want     string
	}{
		{"empty history", nil, ""},
		{"assistant only", []Message{{Role: "assistant", Text: "hi"}}, ""},
		{"skips empty user text", []Message{{Role: "user", Text: ""}, {Role: "user", Text: "second"}}, "second"},
		{"first of several", []Message{{Role: "user", Text: "one"}, {Role: "user", Text: "two"}}, "one"},
		{"after assistant", []Message{{Role: "assistant", Text: "hi"}, {Role: "user", Text: "ask"}}, "ask"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			ev := Event{Messages: tc.messages}
			if got := ev.FirstUserText(); got != tc.want {
				t.Errorf("FirstUserText = %q, want %q", got, tc.want)
			}
		})
	}
}
