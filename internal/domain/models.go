package domain

// DefaultGlyph is stored when the admin skips the image step.
const DefaultGlyph = "🛞"

type Product struct {
	ID          int64  `db:"id" json:"id"`
	Name        string `db:"name" json:"name"`
	Price       int64  `db:"price" json:"price"`
	Image       string `db:"image" json:"image"`
	Description string `db:"description" json:"description"`
	SpecsJSON   string `db:"specs" json:"-"`
	Active      bool   `db:"active" json:"active"`
	CreatedAt   string `db:"created_at" json:"-"`

	// Specs is SpecsJSON decoded into insertion order; filled by the
	// catalog service, not scanned from the database.
	Specs []string `json:"specs"`
}

// ProductDraft holds the fields collected step by step before confirmation.
type ProductDraft struct {
	Name        string
	Price       int64
	Image       string
	Description string
	Specs       []string
}

type Order struct {
	ID            int64  `db:"id" json:"id"`
	UserID        *int64 `db:"user_id" json:"user_id,omitempty"`
	Payload       string `db:"payload" json:"payload"`
	PaymentMethod string `db:"payment_method" json:"payment_method"`
	CreatedAt     string `db:"created_at" json:"created_at"`
}

type OrderItem struct {
	ID    int64  `json:"id" validate:"required"`
	Name  string `json:"name" validate:"required"`
	Price int64  `json:"price"`
	Qty   int    `json:"qty" validate:"required,min=1"`
}

// OrderRequest is the WebApp checkout body. Total is trusted as submitted:
// the shop reconciles by phone before fulfilment, so the server does not
// recompute it against the items.
type OrderRequest struct {
	UserID        int64       `json:"user_id"`
	Username      string      `json:"username"`
	FullName      string      `json:"full_name"`
	Phone         string      `json:"phone"`
	Items         []OrderItem `json:"items" validate:"required,min=1,dive"`
	Total         int64       `json:"total"`
	Comment       string      `json:"comment"`
	PaymentMethod string      `json:"payment_method"`
}

type AdminAccount struct {
	UserID   int64  `db:"user_id"`
	Username string `db:"username"`
}
