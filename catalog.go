package ordersync

import (
	"context"
	"slices"

	"ordersync/pkg/events"
)

// CatalogState holds the purchasable item list and its fetch status. Items
// are retained across failed refreshes; a successful fetch replaces them
// wholesale and bumps Revision.
type CatalogState struct {
	Items    []CatalogItem
	Loading  bool
	Error    string
	Revision uint64
}

// FetchCatalog triggers exactly one catalog fetch. Redundant concurrent
// invocations are permitted; whichever fetch settles last determines the
// final items. No retry policy lives here.
func (s *Store) FetchCatalog(ctx context.Context) error {
	if s.client == nil {
		return opError(events.SliceCatalog, "fetch", ErrNoClient)
	}

	s.transition(ctx, events.SliceCatalog, "fetch", events.PhasePending, nil, func(st *State) {
		st.Catalog.Loading = true
		st.Catalog.Error = ""
	})

	items, err := s.client.FetchCatalogItems(ctx)
	if err != nil {
		msg := errorMessage(err, fallbackCatalogFetch)
		s.transition(ctx, events.SliceCatalog, "fetch", events.PhaseRejected, err, func(st *State) {
			st.Catalog.Loading = false
			st.Catalog.Error = msg
		})
		return opError(events.SliceCatalog, "fetch", err)
	}

	s.transition(ctx, events.SliceCatalog, "fetch", events.PhaseFulfilled, nil, func(st *State) {
		st.Catalog.Items = slices.Clone(items)
		st.Catalog.Loading = false
		st.Catalog.Error = ""
		st.Catalog.Revision++
	})
	return nil
}

// CatalogLoaded reports whether a successful fetch has ever completed.
func (s *Store) CatalogLoaded() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.Catalog.Revision > 0
}
