// Package notify surfaces one-shot toasts when the current user's own
// leave requests are decided. It only observes the leave store's
// published state and never fetches anything itself.
package notify

import (
	"sync"
	"time"
)

// AutoDismissAfter is how long a toast stays up without manual dismiss.
const AutoDismissAfter = 8 * time.Second

// Toast is one visible message. Seq identifies it so a stale
// auto-dismiss can never take down a newer toast.
type Toast struct {
	Seq     uint64
	Message string
}

// Sink receives toasts as they are shown. Implementations must not
// block; slow delivery belongs on the sink's side.
type Sink interface {
	Show(toast Toast)
}

// Toaster owns the currently visible toast and its auto-dismiss
// schedule. The schedule is a cancellable task tied to the toast's
// identity: showing a newer toast or dismissing manually cancels it.
type Toaster struct {
	mu           sync.Mutex
	seq          uint64
	current      *Toast
	timer        *time.Timer
	sinks        []Sink
	dismissAfter time.Duration
}

type ToasterOption func(*Toaster)

func WithSink(sink Sink) ToasterOption {
	return func(t *Toaster) { t.sinks = append(t.sinks, sink) }
}

// WithDismissAfter overrides the auto-dismiss delay (tests).
func WithDismissAfter(d time.Duration) ToasterOption {
	return func(t *Toaster) { t.dismissAfter = d }
}

func NewToaster(opts ...ToasterOption) *Toaster {
	t := &Toaster{dismissAfter: AutoDismissAfter}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Show replaces the current toast and arms a fresh auto-dismiss.
func (t *Toaster) Show(message string) {
	t.mu.Lock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.seq++
	toast := Toast{Seq: t.seq, Message: message}
	t.current = &toast
	seq := t.seq
	t.timer = time.AfterFunc(t.dismissAfter, func() { t.dismissSeq(seq) })
	sinks := t.sinks
	t.mu.Unlock()

	for _, sink := range sinks {
		sink.Show(toast)
	}
}

// Dismiss is the manual dismiss action: it clears the toast and
// cancels the pending auto-dismiss so a newer toast cannot be hit by a
// stale schedule.
func (t *Toaster) Dismiss() {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
	t.current = nil
}

// dismissSeq clears the toast only if it is still the one the schedule
// was armed for.
func (t *Toaster) dismissSeq(seq uint64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil || t.current.Seq != seq {
		return
	}
	t.current = nil
	t.timer = nil
}

// Current returns the visible toast, or nil.
func (t *Toaster) Current() *Toast {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.current == nil {
		return nil
	}
	copied := *t.current
	return &copied
}
