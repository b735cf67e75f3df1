package events

import (
	"context"
	"errors"
	"strings"
	"time"
)

// Slice labels for the five state regions.
const (
	SliceCatalog = "catalog"
	SliceBuild   = "build"
	SliceOrder   = "order"
	SliceFeed    = "feed"
	SliceSession = "session"
)

// Phase identifies which leg of an operation a transition belongs to.
// Asynchronous operations move pending -> fulfilled|rejected; synchronous
// mutations emit a single applied event.
type Phase string

const (
	PhasePending   Phase = "pending"
	PhaseFulfilled Phase = "fulfilled"
	PhaseRejected  Phase = "rejected"
	PhaseApplied   Phase = "applied"
)

// Event describes one state transition that can be fanned out to hooks.
type Event struct {
	Slice      string
	Operation  string
	Phase      Phase
	Error      string
	Metadata   map[string]any
	OccurredAt time.Time
}

// Hook receives normalized transition events.
type Hook interface {
	Notify(ctx context.Context, event Event) error
}

// HookFunc allows plain functions to satisfy Hook.
type HookFunc func(ctx context.Context, event Event) error

// Notify dispatches to the underlying function.
func (fn HookFunc) Notify(ctx context.Context, event Event) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, event)
}

// Hooks fans out events to zero or more hooks.
type Hooks []Hook

// Enabled reports whether there are any hooks to notify.
func (h Hooks) Enabled() bool {
	return len(h) > 0
}

// Notify forwards the event to all hooks, returning a joined error if any
// fail. It normalizes the event and short-circuits when required fields are
// missing. Hook failures never influence store state; callers treat the
// returned error as an observation concern only.
func (h Hooks) Notify(ctx context.Context, event Event) error {
	if len(h) == 0 {
		return nil
	}

	normalized := Normalize(event)
	if normalized.Slice == "" || normalized.Operation == "" || normalized.Phase == "" {
		return nil
	}

	if ctx == nil {
		ctx = context.Background()
	}

	var errs []error
	for _, hook := range h {
		if hook == nil {
			continue
		}
		if err := hook.Notify(ctx, normalized); err != nil {
			errs = append(errs, err)
		}
	}
	if len(errs) == 0 {
		return nil
	}
	return errors.Join(errs...)
}

// Normalize trims whitespace, clones metadata, and ensures a timestamp is
// present.
func Normalize(event Event) Event {
	normalized := event
	normalized.Slice = strings.TrimSpace(event.Slice)
	normalized.Operation = strings.TrimSpace(event.Operation)
	normalized.Error = strings.TrimSpace(event.Error)
	normalized.Metadata = cloneMap(event.Metadata)
	if normalized.OccurredAt.IsZero() {
		normalized.OccurredAt = time.Now()
	}
	return normalized
}

func cloneMap(src map[string]any) map[string]any {
	if len(src) == 0 {
		return nil
	}
	dst := make(map[string]any, len(src))
	for key, value := range src {
		dst[key] = value
	}
	return dst
}
