package ordersync

import (
	"sync"
	"time"
)

// Derived views are pure functions over a State snapshot. They never own or
// mutate data; cross-slice computation lives here and nowhere else.

// BuildTotal is the price of the current composition: the base counts twice
// because it contributes two physical units, plus each filling once.
func BuildTotal(state State) int {
	total := 0
	if state.Build.Base != nil {
		total += state.Build.Base.Price * 2
	}
	for _, filling := range state.Build.Fillings {
		total += filling.Price
	}
	return total
}

// SubmissionIdentifiers flattens the build into the submission payload, the
// base identifier bookending the fillings. ok is false when no base is set.
func SubmissionIdentifiers(state State) (identifiers []string, ok bool) {
	if state.Build.Base == nil {
		return nil, false
	}
	baseID := state.Build.Base.ID
	identifiers = make([]string, 0, len(state.Build.Fillings)+2)
	identifiers = append(identifiers, baseID)
	for _, filling := range state.Build.Fillings {
		identifiers = append(identifiers, filling.ID)
	}
	identifiers = append(identifiers, baseID)
	return identifiers, true
}

// OrderByNumber finds an order by display number, checking the personal
// history first and the by-number cache second. Callers use a miss as the
// cue to fetch.
func OrderByNumber(state State, number int) (Order, bool) {
	for _, order := range state.Orders.History {
		if order.Number == number {
			return order, true
		}
	}
	if state.Orders.ByNumber != nil && state.Orders.ByNumber.Number == number {
		return *state.Orders.ByNumber, true
	}
	return Order{}, false
}

// SummaryItem is a resolved catalog record with its occurrence count inside
// one order.
type SummaryItem struct {
	Item  CatalogItem
	Count int
}

// OrderSummary is an order enriched against the catalog: resolved items with
// counts and the order's total price. Identifiers missing from the catalog
// are skipped.
type OrderSummary struct {
	Order Order
	Items []SummaryItem
	Total int
}

// SummarizeOrder resolves the order's ingredient identifiers against the
// catalog. Items keep the order of first appearance. ok is false while the
// catalog is empty, since nothing can be resolved yet.
func SummarizeOrder(state State, order Order) (OrderSummary, bool) {
	if len(state.Catalog.Items) == 0 {
		return OrderSummary{}, false
	}

	byID := make(map[string]CatalogItem, len(state.Catalog.Items))
	for _, item := range state.Catalog.Items {
		byID[item.ID] = item
	}

	summary := OrderSummary{Order: order}
	positions := make(map[string]int)
	for _, id := range order.Ingredients {
		item, known := byID[id]
		if !known {
			continue
		}
		if pos, seen := positions[id]; seen {
			summary.Items[pos].Count++
			continue
		}
		positions[id] = len(summary.Items)
		summary.Items = append(summary.Items, SummaryItem{Item: item, Count: 1})
	}
	for _, entry := range summary.Items {
		summary.Total += entry.Item.Price * entry.Count
	}
	return summary, true
}

// cardPreviewLimit bounds how many resolved items a card view surfaces.
const cardPreviewLimit = 6

// OrderCard is the compact feed/history presentation of an order: resolved
// items in order with duplicates kept, a bounded preview, and the hidden
// remainder count.
type OrderCard struct {
	Order   Order
	Items   []CatalogItem
	Preview []CatalogItem
	Remains int
	Total   int
}

// CardForOrder resolves the order against the catalog for list rendering.
func CardForOrder(state State, order Order) OrderCard {
	card := OrderCard{Order: order}

	byID := make(map[string]CatalogItem, len(state.Catalog.Items))
	for _, item := range state.Catalog.Items {
		byID[item.ID] = item
	}
	for _, id := range order.Ingredients {
		if item, known := byID[id]; known {
			card.Items = append(card.Items, item)
			card.Total += item.Price
		}
	}

	card.Preview = card.Items
	if len(card.Items) > cardPreviewLimit {
		card.Preview = card.Items[:cardPreviewLimit]
		card.Remains = len(card.Items) - cardPreviewLimit
	}
	return card
}

// SummaryCache memoizes SummarizeOrder per identical input: the same order
// identity against the same catalog revision returns the cached view. A
// catalog replace or a refetched order naturally misses.
type SummaryCache struct {
	mu      sync.Mutex
	entries map[summaryKey]OrderSummary
}

type summaryKey struct {
	orderID   string
	updatedAt time.Time
	revision  uint64
}

func NewSummaryCache() *SummaryCache {
	return &SummaryCache{entries: map[summaryKey]OrderSummary{}}
}

// Summarize returns the memoized summary, computing and storing it on miss.
func (c *SummaryCache) Summarize(state State, order Order) (OrderSummary, bool) {
	key := summaryKey{orderID: order.ID, updatedAt: order.UpdatedAt, revision: state.Catalog.Revision}

	c.mu.Lock()
	cached, hit := c.entries[key]
	c.mu.Unlock()
	if hit {
		return cached, true
	}

	summary, ok := SummarizeOrder(state, order)
	if !ok {
		return OrderSummary{}, false
	}

	c.mu.Lock()
	c.entries[key] = summary
	c.mu.Unlock()
	return summary, true
}
