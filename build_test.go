package ordersync

import "testing"

func buildItems(t *testing.T) (base, meat, sauce CatalogItem) {
	t.Helper()
	items := loadCatalogFixture(t)
	for _, item := range items {
		switch item.Category {
		case CategoryBase:
			base = item
		case CategorySolid:
			meat = item
		case CategorySauce:
			sauce = item
		}
	}
	if base.ID == "" || meat.ID == "" || sauce.ID == "" {
		t.Fatalf("fixture misses a category: %+v", items)
	}
	return base, meat, sauce
}

func fillingIDs(state State) []string {
	ids := make([]string, len(state.Build.Fillings))
	for i, entry := range state.Build.Fillings {
		ids[i] = entry.ID
	}
	return ids
}

func TestAddFillingPreservesInsertionOrder(t *testing.T) {
	_, meat, sauce := buildItems(t)
	store := newTestStore(t, &fakeClient{})

	store.AddFilling(meat)
	store.AddFilling(sauce)
	store.AddFilling(meat)

	got := fillingIDs(store.Snapshot())
	want := []string{meat.ID, sauce.ID, meat.ID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("unexpected filling order: got %v want %v", got, want)
		}
	}
}

func TestSetBaseReplacesWithFreshBuildID(t *testing.T) {
	base, _, _ := buildItems(t)
	store := newTestStore(t, &fakeClient{})

	first := store.SetBase(base)
	second := store.SetBase(base)

	state := store.Snapshot()
	if state.Build.Base == nil {
		t.Fatalf("expected a base")
	}
	if state.Build.Base.BuildID != second.BuildID {
		t.Fatalf("expected latest base to win, got %q", state.Build.Base.BuildID)
	}
	if first.BuildID == second.BuildID {
		t.Fatalf("expected distinct build-local ids, both %q", first.BuildID)
	}
}

func TestBuildLocalIDsAreUniquePerEntry(t *testing.T) {
	_, meat, _ := buildItems(t)
	store := newTestStore(t, &fakeClient{})

	a := store.AddFilling(meat)
	b := store.AddFilling(meat)
	if a.BuildID == b.BuildID {
		t.Fatalf("two copies of the same item share build id %q", a.BuildID)
	}
	if a.ID != b.ID {
		t.Fatalf("catalog identifiers should match: %q vs %q", a.ID, b.ID)
	}
}

func TestRemoveFillingByBuildID(t *testing.T) {
	base, meat, sauce := buildItems(t)
	store := newTestStore(t, &fakeClient{})

	store.SetBase(base)
	store.AddFilling(meat)
	target := store.AddFilling(sauce)
	store.AddFilling(meat)

	store.RemoveFilling(target.BuildID)

	state := store.Snapshot()
	if len(state.Build.Fillings) != 2 {
		t.Fatalf("expected 2 fillings, got %d", len(state.Build.Fillings))
	}
	for _, entry := range state.Build.Fillings {
		if entry.BuildID == target.BuildID {
			t.Fatalf("removed entry still present")
		}
	}
	if state.Build.Base == nil {
		t.Fatalf("removing a filling must never affect the base")
	}

	// absent id is a no-op, not an error
	store.RemoveFilling("missing")
	if got := len(store.Snapshot().Build.Fillings); got != 2 {
		t.Fatalf("expected no-op removal, got %d fillings", got)
	}
}

func TestMoveFillingSwapsNeighbors(t *testing.T) {
	_, meat, sauce := buildItems(t)
	store := newTestStore(t, &fakeClient{})

	first := store.AddFilling(meat)
	second := store.AddFilling(sauce)
	third := store.AddFilling(meat)

	store.MoveFillingUp(2)
	got := make([]string, 0, 3)
	for _, entry := range store.Snapshot().Build.Fillings {
		got = append(got, entry.BuildID)
	}
	want := []string{first.BuildID, third.BuildID, second.BuildID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after MoveFillingUp(2): got %v want %v", got, want)
		}
	}

	store.MoveFillingDown(0)
	got = got[:0]
	for _, entry := range store.Snapshot().Build.Fillings {
		got = append(got, entry.BuildID)
	}
	want = []string{third.BuildID, first.BuildID, second.BuildID}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("after MoveFillingDown(0): got %v want %v", got, want)
		}
	}
}

func TestMoveFillingBoundariesAreNoOps(t *testing.T) {
	_, meat, sauce := buildItems(t)
	store := newTestStore(t, &fakeClient{})

	store.AddFilling(meat)
	store.AddFilling(sauce)
	before := fillingIDs(store.Snapshot())

	store.MoveFillingUp(0)
	store.MoveFillingDown(1)
	store.MoveFillingUp(-3)
	store.MoveFillingDown(99)

	after := fillingIDs(store.Snapshot())
	for i := range before {
		if before[i] != after[i] {
			t.Fatalf("boundary move changed order: %v -> %v", before, after)
		}
	}
}

func TestResetBuildIsIdempotent(t *testing.T) {
	base, meat, _ := buildItems(t)
	store := newTestStore(t, &fakeClient{})

	store.SetBase(base)
	store.AddFilling(meat)

	store.ResetBuild()
	store.ResetBuild()

	state := store.Snapshot()
	if state.Build.Base != nil || len(state.Build.Fillings) != 0 {
		t.Fatalf("expected canonical empty build, got %+v", state.Build)
	}
}

func TestAddItemRoutesByCategory(t *testing.T) {
	base, meat, _ := buildItems(t)
	store := newTestStore(t, &fakeClient{})

	store.AddItem(base)
	store.AddItem(meat)

	state := store.Snapshot()
	if state.Build.Base == nil || state.Build.Base.ID != base.ID {
		t.Fatalf("expected base routed to base slot: %+v", state.Build)
	}
	if len(state.Build.Fillings) != 1 || state.Build.Fillings[0].ID != meat.ID {
		t.Fatalf("expected filling routed to fillings: %+v", state.Build)
	}
}
