// Package notifier delivers fatigue alerts to external channels.
package notifier

import (
	"context"

	"github.com/neuroalign/neuroalign/engine/alert"
)

// Notifier sends alerts to one delivery channel.
type Notifier interface {
	// Name identifies the channel in logs and configuration.
	Name() string

	// Notify delivers one alert. Delivery failures are channel-local and
	// must not affect the analysis pipeline.
	Notify(ctx context.Context, a alert.Alert) error
}

// Fanout delivers every alert to all registered notifiers. A failing
// channel is logged by the caller and skipped; it never blocks the rest.
type Fanout struct {
	notifiers []Notifier
}

// NewFanout creates a fanout over the given notifiers.
func NewFanout(notifiers ...Notifier) *Fanout {
	return &Fanout{notifiers: notifiers}
}

// Add registers another notifier.
func (f *Fanout) Add(n Notifier) {
	f.notifiers = append(f.notifiers, n)
}

// Notify sends the alert to every channel and returns the per-channel
// errors keyed by notifier name.
func (f *Fanout) Notify(ctx context.Context, a alert.Alert) map[string]error {
	errs := make(map[string]error)
	for _, n := range f.notifiers {
		if err := n.Notify(ctx, a); err != nil {
			errs[n.Name()] = err
		}
	}
	return errs
}
