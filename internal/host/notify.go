package host

import "github.com/perch-dev/perch/internal/output"

// Notifier shows a transient confirmation notice to the user.
type Notifier interface {
	Notify(message string)
}

// ToastNotifier renders notices through the CLI output writer, standing in
// for the host's toast surface.
type ToastNotifier struct {
	Out *output.Writer
}

// Notify implements Notifier.
func (t ToastNotifier) Notify(message string) {
	t.Out.Info("%s", message)
}
