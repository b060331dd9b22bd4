package host

import "testing"

func TestRegistryInstallDisposesPredecessor(t *testing.T) {
	reg := NewRegistry()

	disposed := 0
	reg.Install(Widget{ID: WidgetID, Dispose: func() { disposed++ }})
	reg.Install(Widget{ID: WidgetID, Dispose: func() {}})

	if disposed != 1 {
		t.Errorf("predecessor disposed %d times, want 1", disposed)
	}

	if _, ok := reg.Lookup(WidgetID); !ok {
		t.Error("widget missing after reinstall")
	}
}

func TestRegistryRemove(t *testing.T) {
	reg := NewRegistry()

	disposed := false
	reg.Install(Widget{ID: LegacyWidgetID, Dispose: func() { disposed = true }})

	if !reg.Remove(LegacyWidgetID) {
		t.Error("Remove returned false for installed widget")
	}

	if !disposed {
		t.Error("Remove did not dispose the widget")
	}

	if _, ok := reg.Lookup(LegacyWidgetID); ok {
		t.Error("widget still present after Remove")
	}

	// Removing again is a no-op.
	if reg.Remove(LegacyWidgetID) {
		t.Error("Remove returned true for absent widget")
	}
}

func TestRegistryRemoveWithoutDispose(t *testing.T) {
	reg := NewRegistry()
	reg.Install(Widget{ID: "plain"})

	if !reg.Remove("plain") {
		t.Error("Remove returned false")
	}
}
