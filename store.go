package ordersync

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"

	"ordersync/pkg/credstore"
	"ordersync/pkg/events"
)

// State is the root state tree: five slices, each owning a disjoint region.
// Values returned by Store.Snapshot are detached copies; mutating them has no
// effect on the store.
type State struct {
	Catalog CatalogState
	Build   BuildState
	Orders  OrderState
	Feed    FeedState
	Session SessionState
}

// Store owns the root state tree and applies every transition as an atomic
// mutation. Network-backed operations block until they settle and are safe to
// run from concurrent goroutines; overlapping same-slice operations resolve
// by last-settled-wins.
type Store struct {
	mu    sync.Mutex
	state State

	client     Client
	creds      credstore.Store
	mirror     credstore.Mirror
	hooks      events.Hooks
	logger     TransitionLogger
	newBuildID func() string
	now        func() time.Time
}

// Option configures a Store.
type Option func(*storeConfig)

type storeConfig struct {
	creds      credstore.Store
	mirror     credstore.Mirror
	hooks      events.Hooks
	logger     TransitionLogger
	newBuildID func() string
	now        func() time.Time
}

func applyOptions(opts []Option) storeConfig {
	cfg := storeConfig{}
	for _, opt := range opts {
		if opt != nil {
			opt(&cfg)
		}
	}
	return cfg
}

// WithCredentialStore wires the persistent credential collaborator. The
// default is an in-memory store that does not survive restarts.
func WithCredentialStore(store credstore.Store) Option {
	return func(cfg *storeConfig) {
		cfg.creds = store
	}
}

// WithCredentialMirror wires the transient access-token mirror.
func WithCredentialMirror(mirror credstore.Mirror) Option {
	return func(cfg *storeConfig) {
		cfg.mirror = mirror
	}
}

// WithHooks attaches transition event hooks. Hooks are cloned and nil
// entries dropped.
func WithHooks(hooks events.Hooks) Option {
	normalized := cloneHooks(hooks)
	return func(cfg *storeConfig) {
		cfg.hooks = normalized
	}
}

// WithBuildIDGenerator overrides the build-local id generator. IDs must be
// unique within a session; the default draws random UUIDs.
func WithBuildIDGenerator(fn func() string) Option {
	return func(cfg *storeConfig) {
		cfg.newBuildID = fn
	}
}

// WithClock overrides the event timestamp source.
func WithClock(now func() time.Time) Option {
	return func(cfg *storeConfig) {
		cfg.now = now
	}
}

// New constructs a Store around the network collaborator. The zero state of
// every slice is the canonical empty state.
func New(client Client, opts ...Option) *Store {
	cfg := applyOptions(opts)
	s := &Store{
		client:     client,
		creds:      cfg.creds,
		mirror:     cfg.mirror,
		hooks:      cfg.hooks,
		logger:     cfg.logger,
		newBuildID: cfg.newBuildID,
		now:        cfg.now,
	}
	if s.creds == nil {
		s.creds = credstore.NewMemoryStore()
	}
	if s.mirror == nil {
		s.mirror = credstore.NopMirror{}
	}
	if s.logger == nil {
		s.logger = noopTransitionLogger{}
	}
	if s.newBuildID == nil {
		s.newBuildID = uuid.NewString
	}
	if s.now == nil {
		s.now = time.Now
	}
	return s
}

// Snapshot returns a detached copy of the root state tree.
func (s *Store) Snapshot() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return cloneState(s.state)
}

// transition applies one atomic mutation and then reports it to the logger
// and hooks. Hook failures are logged and otherwise ignored; they must never
// influence state.
func (s *Store) transition(ctx context.Context, slice, op string, phase events.Phase, cause error, mutate func(*State)) {
	s.mu.Lock()
	if mutate != nil {
		mutate(&s.state)
	}
	s.mu.Unlock()

	s.logger.LogTransition(TransitionLogEvent{Slice: slice, Operation: op, Phase: phase, Err: cause})

	if !s.hooks.Enabled() {
		return
	}
	event := events.Event{
		Slice:      slice,
		Operation:  op,
		Phase:      phase,
		OccurredAt: s.now(),
	}
	if cause != nil {
		event.Error = cause.Error()
	}
	if err := s.hooks.Notify(ctx, event); err != nil {
		s.logger.LogTransition(TransitionLogEvent{Slice: slice, Operation: op, Phase: phase, Err: err})
	}
}

func cloneState(state State) State {
	out := state
	out.Catalog.Items = slices.Clone(state.Catalog.Items)
	out.Build = cloneBuild(state.Build)
	out.Orders.History = cloneOrders(state.Orders.History)
	if state.Orders.ByNumber != nil {
		byNumber := cloneOrder(*state.Orders.ByNumber)
		out.Orders.ByNumber = &byNumber
	}
	if state.Orders.Submission != nil {
		receipt := *state.Orders.Submission
		receipt.Order = cloneOrder(state.Orders.Submission.Order)
		out.Orders.Submission = &receipt
	}
	out.Feed.Orders = cloneOrders(state.Feed.Orders)
	if state.Session.User != nil {
		user := *state.Session.User
		out.Session.User = &user
	}
	return out
}

func cloneBuild(build BuildState) BuildState {
	out := build
	if build.Base != nil {
		base := *build.Base
		out.Base = &base
	}
	out.Fillings = slices.Clone(build.Fillings)
	return out
}

func cloneOrder(order Order) Order {
	out := order
	out.Ingredients = slices.Clone(order.Ingredients)
	return out
}

func cloneOrders(orders []Order) []Order {
	if orders == nil {
		return nil
	}
	out := make([]Order, len(orders))
	for i, order := range orders {
		out[i] = cloneOrder(order)
	}
	return out
}

func cloneHooks(hooks events.Hooks) events.Hooks {
	if len(hooks) == 0 {
		return nil
	}
	normalized := make(events.Hooks, 0, len(hooks))
	for _, hook := range hooks {
		if hook == nil {
			continue
		}
		normalized = append(normalized, hook)
	}
	if len(normalized) == 0 {
		return nil
	}
	return normalized
}
