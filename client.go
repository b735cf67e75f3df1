package ordersync

import "context"

// Client is the network collaborator consumed by the store. Implementations
// own transport concerns entirely: timeouts, credential headers, and token
// refresh are theirs; the store never retries.
//
// Every method resolves to a value or an error. Semantic failures (a
// well-formed response reporting failure) are surfaced as *RequestError with
// Semantic set; not-found is an absent value, never an error.
type Client interface {
	FetchCatalogItems(ctx context.Context) ([]CatalogItem, error)
	SubmitOrder(ctx context.Context, identifiers []string) (SubmitReceipt, error)
	FetchOrderByNumber(ctx context.Context, number int) ([]Order, error)
	FetchUserOrders(ctx context.Context) ([]Order, error)
	FetchPublicFeed(ctx context.Context) (FeedSnapshot, error)
	Login(ctx context.Context, email, password string) (AuthResult, error)
	Register(ctx context.Context, name, email, password string) (AuthResult, error)
	UpdateUser(ctx context.Context, update UserUpdate) (User, error)
	Logout(ctx context.Context) error
	VerifySession(ctx context.Context) (User, error)
}
