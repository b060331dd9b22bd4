package host

import "sync"

// Placement hints tell the host where to composite a widget.
type Placement string

// PlacementBelowEditor puts the widget under the primary editing surface,
// above the footer.
const PlacementBelowEditor Placement = "below-editor-above-footer"

// WidgetID is the stable registration identifier for the status widget.
const WidgetID = "perch-status"

// LegacyWidgetID is the registration id used by the widget's predecessor.
// It is cleared on install so both never render at once.
const LegacyWidgetID = "session-statusbar"

// Widget is a host-composited UI region: the host calls Render with the
// negotiated width and Dispose on teardown.
type Widget struct {
	ID        string
	Placement Placement
	Render    func(width int) []string
	Dispose   func()
}

// Registry tracks installed widgets by id.
type Registry struct {
	mu      sync.Mutex
	widgets map[string]Widget
}

// NewRegistry creates an empty widget registry.
func NewRegistry() *Registry {
	return &Registry{widgets: make(map[string]Widget)}
}

// Install registers a widget. An existing widget under the same id is
// disposed first, so installing twice never leaks timers.
func (r *Registry) Install(w Widget) {
	r.mu.Lock()
	prev, existed := r.widgets[w.ID]
	r.widgets[w.ID] = w
	r.mu.Unlock()

	if existed && prev.Dispose != nil {
		prev.Dispose()
	}
}

// Remove disposes and unregisters the widget with the given id.
// Removing an absent id is a no-op.
func (r *Registry) Remove(id string) bool {
	r.mu.Lock()
	w, ok := r.widgets[id]
	delete(r.widgets, id)
	r.mu.Unlock()

	if ok && w.Dispose != nil {
		w.Dispose()
	}

	return ok
}

// Lookup returns the widget registered under id.
func (r *Registry) Lookup(id string) (Widget, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	w, ok := r.widgets[id]
	return w, ok
}
