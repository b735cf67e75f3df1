package ordersync

import (
	"context"

	"ordersync/pkg/events"
)

// FeedState is the public order stream: a snapshot view, fully replaced on
// every successful fetch, retained on failure.
type FeedState struct {
	Orders     []Order
	Total      int
	TotalToday int
	Loading    bool
	Error      string
}

// FetchFeed refreshes the public feed. Orders and both counters are
// overwritten together; a failed fetch keeps the prior snapshot and records
// the error.
func (s *Store) FetchFeed(ctx context.Context) error {
	if s.client == nil {
		return opError(events.SliceFeed, "fetch", ErrNoClient)
	}

	s.transition(ctx, events.SliceFeed, "fetch", events.PhasePending, nil, func(st *State) {
		st.Feed.Loading = true
		st.Feed.Error = ""
	})

	snapshot, err := s.client.FetchPublicFeed(ctx)
	if err != nil {
		msg := errorMessage(err, fallbackFeedFetch)
		s.transition(ctx, events.SliceFeed, "fetch", events.PhaseRejected, err, func(st *State) {
			st.Feed.Loading = false
			st.Feed.Error = msg
		})
		return opError(events.SliceFeed, "fetch", err)
	}

	orders := cloneOrders(snapshot.Orders)
	if orders == nil {
		orders = []Order{}
	}
	s.transition(ctx, events.SliceFeed, "fetch", events.PhaseFulfilled, nil, func(st *State) {
		st.Feed.Orders = orders
		st.Feed.Total = snapshot.Total
		st.Feed.TotalToday = snapshot.TotalToday
		st.Feed.Loading = false
		st.Feed.Error = ""
	})
	return nil
}

// ClearFeed resets the feed slice to its empty initial state
// unconditionally.
func (s *Store) ClearFeed() {
	s.transition(context.Background(), events.SliceFeed, "clear", events.PhaseApplied, nil, func(st *State) {
		st.Feed = FeedState{}
	})
}
