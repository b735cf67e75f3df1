package ordersync

import (
	"context"
	"slices"

	"ordersync/pkg/events"
)

// historyCapacity bounds the personal order history, newest first.
const historyCapacity = 50

// OrderState holds the submission outcome, the cached by-number lookup, the
// bounded personal history, and per-operation in-flight flags. Error is
// shared: whichever operation settled most recently overwrites it.
type OrderState struct {
	History          []Order
	ByNumber         *Order
	Submission       *SubmitReceipt
	Submitting       bool
	FetchingByNumber bool
	FetchingHistory  bool
	Error            string
}

// SubmitOrder submits the flattened identifier list, bookended with the base
// identifier by the caller. A fresh attempt clears the prior submission
// result as part of the pending transition; history is never touched here.
func (s *Store) SubmitOrder(ctx context.Context, identifiers []string) (SubmitReceipt, error) {
	if s.client == nil {
		return SubmitReceipt{}, opError(events.SliceOrder, "submit", ErrNoClient)
	}

	s.transition(ctx, events.SliceOrder, "submit", events.PhasePending, nil, func(st *State) {
		st.Orders.Submitting = true
		st.Orders.Submission = nil
		st.Orders.Error = ""
	})

	receipt, err := s.client.SubmitOrder(ctx, slices.Clone(identifiers))
	if err != nil {
		msg := errorMessage(err, fallbackOrderSubmit)
		s.transition(ctx, events.SliceOrder, "submit", events.PhaseRejected, err, func(st *State) {
			st.Orders.Submitting = false
			st.Orders.Error = msg
		})
		return SubmitReceipt{}, opError(events.SliceOrder, "submit", err)
	}

	s.transition(ctx, events.SliceOrder, "submit", events.PhaseFulfilled, nil, func(st *State) {
		st.Orders.Submitting = false
		st.Orders.Submission = &receipt
		st.Orders.Error = ""
	})
	return receipt, nil
}

// SubmitBuild is the caller-side gate in front of SubmitOrder: it refuses
// when no base is present or a submission is already pending, then submits
// the bookended identifier payload derived from the build slice.
func (s *Store) SubmitBuild(ctx context.Context) (SubmitReceipt, error) {
	s.mu.Lock()
	if s.state.Orders.Submitting {
		s.mu.Unlock()
		return SubmitReceipt{}, opError(events.SliceOrder, "submit", ErrSubmissionInFlight)
	}
	identifiers, ok := SubmissionIdentifiers(s.state)
	s.mu.Unlock()
	if !ok {
		return SubmitReceipt{}, opError(events.SliceOrder, "submit", ErrNoBase)
	}
	return s.SubmitOrder(ctx, identifiers)
}

// ClearSubmission drops the submission result. Invoked when the
// acknowledgment surface is dismissed, before any build reset.
func (s *Store) ClearSubmission() {
	s.transition(context.Background(), events.SliceOrder, "clear-submission", events.PhaseApplied, nil, func(st *State) {
		st.Orders.Submission = nil
	})
}

// AcknowledgeSubmission dismisses the submission outcome: the result is
// cleared, and the build is reset only when the submission had succeeded. A
// failed submission leaves the composition intact for retry.
func (s *Store) AcknowledgeSubmission() {
	s.transition(context.Background(), events.SliceOrder, "acknowledge", events.PhaseApplied, nil, func(st *State) {
		succeeded := st.Orders.Submission != nil
		st.Orders.Submission = nil
		if succeeded {
			resetBuild(st)
		}
	})
}

// FetchOrderByNumber looks one order up by its display number and caches the
// result keyed by the response's own number. An empty result clears the
// cache and returns an absent value, not an error.
func (s *Store) FetchOrderByNumber(ctx context.Context, number int) (*Order, error) {
	if s.client == nil {
		return nil, opError(events.SliceOrder, "fetch-by-number", ErrNoClient)
	}

	s.transition(ctx, events.SliceOrder, "fetch-by-number", events.PhasePending, nil, func(st *State) {
		st.Orders.FetchingByNumber = true
		st.Orders.Error = ""
	})

	orders, err := s.client.FetchOrderByNumber(ctx, number)
	if err != nil {
		msg := errorMessage(err, fallbackOrderByNumber)
		s.transition(ctx, events.SliceOrder, "fetch-by-number", events.PhaseRejected, err, func(st *State) {
			st.Orders.FetchingByNumber = false
			st.Orders.Error = msg
		})
		return nil, opError(events.SliceOrder, "fetch-by-number", err)
	}

	var found *Order
	if len(orders) > 0 {
		order := cloneOrder(orders[0])
		found = &order
	}
	s.transition(ctx, events.SliceOrder, "fetch-by-number", events.PhaseFulfilled, nil, func(st *State) {
		st.Orders.FetchingByNumber = false
		st.Orders.ByNumber = found
		st.Orders.Error = ""
	})
	if found == nil {
		return nil, nil
	}
	result := cloneOrder(*found)
	return &result, nil
}

// FetchUserOrders refreshes the personal history with an authoritative full
// replace: the incoming list is de-duplicated by identifier (first
// occurrence wins), sorted strictly descending by creation time, and capped.
// An empty response empties the history.
func (s *Store) FetchUserOrders(ctx context.Context) error {
	if s.client == nil {
		return opError(events.SliceOrder, "fetch-history", ErrNoClient)
	}

	s.transition(ctx, events.SliceOrder, "fetch-history", events.PhasePending, nil, func(st *State) {
		st.Orders.FetchingHistory = true
		st.Orders.Error = ""
	})

	orders, err := s.client.FetchUserOrders(ctx)
	if err != nil {
		msg := errorMessage(err, fallbackOrderHistory)
		s.transition(ctx, events.SliceOrder, "fetch-history", events.PhaseRejected, err, func(st *State) {
			st.Orders.FetchingHistory = false
			st.Orders.Error = msg
		})
		return opError(events.SliceOrder, "fetch-history", err)
	}

	history := normalizeHistory(orders)
	s.transition(ctx, events.SliceOrder, "fetch-history", events.PhaseFulfilled, nil, func(st *State) {
		st.Orders.FetchingHistory = false
		st.Orders.History = history
		st.Orders.Error = ""
	})
	return nil
}

// AppendObservedOrder inserts an order known to exist (typically just
// submitted) at the front of the history without waiting for a refetch. Nil
// input is a no-op. The next authoritative fetch re-normalizes.
func (s *Store) AppendObservedOrder(order *Order) {
	if order == nil {
		return
	}
	observed := cloneOrder(*order)
	s.transition(context.Background(), events.SliceOrder, "append-observed", events.PhaseApplied, nil, func(st *State) {
		history := append([]Order{observed}, st.Orders.History...)
		if len(history) > historyCapacity {
			history = history[:historyCapacity]
		}
		st.Orders.History = history
	})
}

// normalizeHistory de-duplicates by order identifier keeping the first
// occurrence, sorts by descending creation time, and caps the result.
func normalizeHistory(orders []Order) []Order {
	seen := make(map[string]struct{}, len(orders))
	unique := make([]Order, 0, len(orders))
	for _, order := range orders {
		if _, dup := seen[order.ID]; dup {
			continue
		}
		seen[order.ID] = struct{}{}
		unique = append(unique, cloneOrder(order))
	}
	slices.SortStableFunc(unique, func(a, b Order) int {
		return b.CreatedAt.Compare(a.CreatedAt)
	})
	if len(unique) > historyCapacity {
		unique = unique[:historyCapacity]
	}
	return unique
}
