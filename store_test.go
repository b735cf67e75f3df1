package ordersync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

var errNotWired = errors.New("collaborator call not wired in this test")

// fakeClient implements Client from per-test functions; unwired calls fail
// loudly.
type fakeClient struct {
	catalog    func(ctx context.Context) ([]CatalogItem, error)
	submit     func(ctx context.Context, identifiers []string) (SubmitReceipt, error)
	byNumber   func(ctx context.Context, number int) ([]Order, error)
	userOrders func(ctx context.Context) ([]Order, error)
	feed       func(ctx context.Context) (FeedSnapshot, error)
	login      func(ctx context.Context, email, password string) (AuthResult, error)
	register   func(ctx context.Context, name, email, password string) (AuthResult, error)
	update     func(ctx context.Context, update UserUpdate) (User, error)
	logout     func(ctx context.Context) error
	verify     func(ctx context.Context) (User, error)
}

func (f *fakeClient) FetchCatalogItems(ctx context.Context) ([]CatalogItem, error) {
	if f.catalog == nil {
		return nil, errNotWired
	}
	return f.catalog(ctx)
}

func (f *fakeClient) SubmitOrder(ctx context.Context, identifiers []string) (SubmitReceipt, error) {
	if f.submit == nil {
		return SubmitReceipt{}, errNotWired
	}
	return f.submit(ctx, identifiers)
}

func (f *fakeClient) FetchOrderByNumber(ctx context.Context, number int) ([]Order, error) {
	if f.byNumber == nil {
		return nil, errNotWired
	}
	return f.byNumber(ctx, number)
}

func (f *fakeClient) FetchUserOrders(ctx context.Context) ([]Order, error) {
	if f.userOrders == nil {
		return nil, errNotWired
	}
	return f.userOrders(ctx)
}

func (f *fakeClient) FetchPublicFeed(ctx context.Context) (FeedSnapshot, error) {
	if f.feed == nil {
		return FeedSnapshot{}, errNotWired
	}
	return f.feed(ctx)
}

func (f *fakeClient) Login(ctx context.Context, email, password string) (AuthResult, error) {
	if f.login == nil {
		return AuthResult{}, errNotWired
	}
	return f.login(ctx, email, password)
}

func (f *fakeClient) Register(ctx context.Context, name, email, password string) (AuthResult, error) {
	if f.register == nil {
		return AuthResult{}, errNotWired
	}
	return f.register(ctx, name, email, password)
}

func (f *fakeClient) UpdateUser(ctx context.Context, update UserUpdate) (User, error) {
	if f.update == nil {
		return User{}, errNotWired
	}
	return f.update(ctx, update)
}

func (f *fakeClient) Logout(ctx context.Context) error {
	if f.logout == nil {
		return errNotWired
	}
	return f.logout(ctx)
}

func (f *fakeClient) VerifySession(ctx context.Context) (User, error) {
	if f.verify == nil {
		return User{}, errNotWired
	}
	return f.verify(ctx)
}

// sequentialIDs replaces the random build-id generator with a deterministic
// counter.
func sequentialIDs() func() string {
	next := 0
	return func() string {
		next++
		return fmt.Sprintf("build-%d", next)
	}
}

func newTestStore(t *testing.T, client Client, opts ...Option) *Store {
	t.Helper()
	opts = append([]Option{WithBuildIDGenerator(sequentialIDs())}, opts...)
	return New(client, opts...)
}

func loadCatalogFixture(t *testing.T) []CatalogItem {
	t.Helper()
	var fx struct {
		Items []CatalogItem `json:"items"`
	}
	readFixture(t, "catalog.json", &fx)
	if len(fx.Items) == 0 {
		t.Fatalf("catalog fixture is empty")
	}
	return fx.Items
}

func loadOrdersFixture(t *testing.T) []Order {
	t.Helper()
	var fx struct {
		Orders []Order `json:"orders"`
	}
	readFixture(t, "orders.json", &fx)
	if len(fx.Orders) == 0 {
		t.Fatalf("orders fixture is empty")
	}
	return fx.Orders
}

func readFixture(t *testing.T, name string, out any) {
	t.Helper()
	raw, err := os.ReadFile(filepath.Join("testdata", name))
	if err != nil {
		t.Fatalf("failed to read fixture %q: %v", name, err)
	}
	if err := json.Unmarshal(raw, out); err != nil {
		t.Fatalf("failed to unmarshal fixture %q: %v", name, err)
	}
}

func orderAt(t *testing.T, day int) Order {
	t.Helper()
	created := time.Date(2024, 1, day, 12, 0, 0, 0, time.UTC)
	return Order{
		ID:        fmt.Sprintf("order-%d", day),
		Number:    10000 + day,
		Name:      fmt.Sprintf("Order %d", day),
		Status:    StatusDone,
		CreatedAt: created,
		UpdatedAt: created,
	}
}

func TestInitialStateIsCanonicalEmpty(t *testing.T) {
	store := newTestStore(t, &fakeClient{})
	state := store.Snapshot()

	if len(state.Catalog.Items) != 0 || state.Catalog.Loading || state.Catalog.Error != "" {
		t.Fatalf("unexpected catalog state: %+v", state.Catalog)
	}
	if state.Build.Base != nil || len(state.Build.Fillings) != 0 {
		t.Fatalf("unexpected build state: %+v", state.Build)
	}
	if len(state.Orders.History) != 0 || state.Orders.ByNumber != nil || state.Orders.Submission != nil {
		t.Fatalf("unexpected order state: %+v", state.Orders)
	}
	if state.Orders.Submitting || state.Orders.FetchingByNumber || state.Orders.FetchingHistory || state.Orders.Error != "" {
		t.Fatalf("unexpected order flags: %+v", state.Orders)
	}
	if len(state.Feed.Orders) != 0 || state.Feed.Total != 0 || state.Feed.TotalToday != 0 {
		t.Fatalf("unexpected feed state: %+v", state.Feed)
	}
	if state.Session.User != nil || state.Session.AuthChecked || state.Session.Loading || state.Session.Error != "" {
		t.Fatalf("unexpected session state: %+v", state.Session)
	}
}

func TestSnapshotIsDetached(t *testing.T) {
	items := loadCatalogFixture(t)
	store := newTestStore(t, &fakeClient{
		catalog: func(context.Context) ([]CatalogItem, error) { return items, nil },
	})
	if err := store.FetchCatalog(context.Background()); err != nil {
		t.Fatalf("fetch catalog: %v", err)
	}
	store.SetBase(items[0])

	snapshot := store.Snapshot()
	snapshot.Catalog.Items[0].Name = "mutated"
	snapshot.Build.Base.Name = "mutated"

	fresh := store.Snapshot()
	if fresh.Catalog.Items[0].Name == "mutated" {
		t.Fatalf("catalog snapshot shares backing storage with the store")
	}
	if fresh.Build.Base.Name == "mutated" {
		t.Fatalf("build snapshot shares backing storage with the store")
	}
}

func TestOperationsRequireClient(t *testing.T) {
	store := newTestStore(t, nil)
	ctx := context.Background()

	if err := store.FetchCatalog(ctx); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	if _, err := store.SubmitOrder(ctx, []string{"1"}); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	if err := store.FetchFeed(ctx); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
	if err := store.Login(ctx, "a@b.c", "pw"); !errors.Is(err, ErrNoClient) {
		t.Fatalf("expected ErrNoClient, got %v", err)
	}
}
