package ordersync

import "ordersync/pkg/events"

// TransitionLogEvent describes one applied state transition for logging.
type TransitionLogEvent struct {
	Slice     string
	Operation string
	Phase     events.Phase
	Err       error
}

// TransitionLogger records store transitions.
type TransitionLogger interface {
	LogTransition(TransitionLogEvent)
}

// TransitionLoggerFunc adapts a function to TransitionLogger.
type TransitionLoggerFunc func(TransitionLogEvent)

// LogTransition implements TransitionLogger.
func (f TransitionLoggerFunc) LogTransition(event TransitionLogEvent) {
	if f != nil {
		f(event)
	}
}

type noopTransitionLogger struct{}

func (noopTransitionLogger) LogTransition(TransitionLogEvent) {}

// WithTransitionLogger attaches a transition logger to the store.
func WithTransitionLogger(logger TransitionLogger) Option {
	return func(cfg *storeConfig) {
		if logger == nil {
			cfg.logger = noopTransitionLogger{}
			return
		}
		cfg.logger = logger
	}
}
