package ordersync

import "time"

// ItemCategory classifies catalog items. Wire values match the backend.
type ItemCategory string

const (
	// CategoryBase is the single foundational item of a build; it
	// contributes two physical units to the assembled product.
	CategoryBase ItemCategory = "bun"
	// CategorySolid is a solid filling.
	CategorySolid ItemCategory = "main"
	// CategorySauce is a sauce filling.
	CategorySauce ItemCategory = "sauce"
)

// IsBase reports whether items of this category occupy the base slot.
func (c ItemCategory) IsBase() bool { return c == CategoryBase }

// CatalogItem is one purchasable item. Records are immutable: a successful
// catalog fetch replaces the full list, never individual fields.
type CatalogItem struct {
	ID            string       `json:"_id"`
	Name          string       `json:"name"`
	Category      ItemCategory `json:"type"`
	Proteins      int          `json:"proteins"`
	Fat           int          `json:"fat"`
	Carbohydrates int          `json:"carbohydrates"`
	Calories      int          `json:"calories"`
	Price         int          `json:"price"`
	Image         string       `json:"image"`
	ImageMobile   string       `json:"image_mobile"`
	ImageLarge    string       `json:"image_large"`
}

// OrderStatus is the server-assigned lifecycle stage of an order.
type OrderStatus string

const (
	StatusCreated OrderStatus = "created"
	StatusPending OrderStatus = "pending"
	StatusDone    OrderStatus = "done"
)

// Order is a server-confirmed order. Immutable once received; a later fetch
// of the same order replaces it wholesale.
type Order struct {
	ID          string      `json:"_id"`
	Number      int         `json:"number"`
	Name        string      `json:"name"`
	Status      OrderStatus `json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"updatedAt"`
	Ingredients []string    `json:"ingredients"`
}

// User identifies the authenticated account.
type User struct {
	Email string `json:"email"`
	Name  string `json:"name"`
}

// UserUpdate carries a partial account update. Nil fields are omitted; the
// server remains authoritative for the full post-update record.
type UserUpdate struct {
	Name     *string `json:"name,omitempty"`
	Email    *string `json:"email,omitempty"`
	Password *string `json:"password,omitempty"`
}

// SubmitReceipt is the collaborator response to a successful order
// submission.
type SubmitReceipt struct {
	Name  string `json:"name"`
	Order Order  `json:"order"`
}

// FeedSnapshot is one full read of the public order stream. Each fetch
// replaces the previous snapshot; no merging is performed.
type FeedSnapshot struct {
	Orders     []Order `json:"orders"`
	Total      int     `json:"total"`
	TotalToday int     `json:"totalToday"`
}

// AuthResult is the collaborator response to login and register.
type AuthResult struct {
	User         User   `json:"user"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}
