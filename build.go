package ordersync

import (
	"context"
	"slices"

	"ordersync/pkg/events"
)

// BuildEntry is a catalog item placed into the build, tagged with a
// build-local id that disambiguates multiple copies of the same item.
type BuildEntry struct {
	CatalogItem
	BuildID string
}

// BuildState is the in-progress composition: at most one base plus an
// ordered filling sequence.
type BuildState struct {
	Base     *BuildEntry
	Fillings []BuildEntry
}

// SetBase assigns item as the base under a fresh build-local id, replacing
// any existing base unconditionally.
func (s *Store) SetBase(item CatalogItem) BuildEntry {
	entry := BuildEntry{CatalogItem: item, BuildID: s.newBuildID()}
	s.transition(context.Background(), events.SliceBuild, "set-base", events.PhaseApplied, nil, func(st *State) {
		st.Build.Base = &entry
	})
	return entry
}

// AddFilling appends item to the end of the filling sequence under a fresh
// build-local id. No maximum length is enforced.
func (s *Store) AddFilling(item CatalogItem) BuildEntry {
	entry := BuildEntry{CatalogItem: item, BuildID: s.newBuildID()}
	s.transition(context.Background(), events.SliceBuild, "add-filling", events.PhaseApplied, nil, func(st *State) {
		st.Build.Fillings = append(st.Build.Fillings, entry)
	})
	return entry
}

// AddItem routes item by category: bases go to the base slot, everything
// else appends to the fillings.
func (s *Store) AddItem(item CatalogItem) BuildEntry {
	if item.Category.IsBase() {
		return s.SetBase(item)
	}
	return s.AddFilling(item)
}

// RemoveFilling removes the filling with the given build-local id. A missing
// id is a no-op, not an error. The base is never affected.
func (s *Store) RemoveFilling(buildID string) {
	s.transition(context.Background(), events.SliceBuild, "remove-filling", events.PhaseApplied, nil, func(st *State) {
		st.Build.Fillings = slices.DeleteFunc(st.Build.Fillings, func(entry BuildEntry) bool {
			return entry.BuildID == buildID
		})
	})
}

// MoveFillingUp swaps the filling at index with its predecessor. Boundary
// and out-of-range indices are no-ops.
func (s *Store) MoveFillingUp(index int) {
	s.transition(context.Background(), events.SliceBuild, "move-up", events.PhaseApplied, nil, func(st *State) {
		if index <= 0 || index >= len(st.Build.Fillings) {
			return
		}
		fillings := st.Build.Fillings
		fillings[index], fillings[index-1] = fillings[index-1], fillings[index]
	})
}

// MoveFillingDown swaps the filling at index with its successor. Boundary
// and out-of-range indices are no-ops.
func (s *Store) MoveFillingDown(index int) {
	s.transition(context.Background(), events.SliceBuild, "move-down", events.PhaseApplied, nil, func(st *State) {
		if index < 0 || index >= len(st.Build.Fillings)-1 {
			return
		}
		fillings := st.Build.Fillings
		fillings[index], fillings[index+1] = fillings[index+1], fillings[index]
	})
}

// ResetBuild clears the base and the fillings unconditionally. Idempotent.
func (s *Store) ResetBuild() {
	s.transition(context.Background(), events.SliceBuild, "reset", events.PhaseApplied, nil, resetBuild)
}

func resetBuild(st *State) {
	st.Build.Base = nil
	st.Build.Fillings = nil
}
