package model

import (
	"time"

	"gorm.io/gorm"
)

// Cart is the per-user aggregate of line items. Version is a monotonic
// counter; every persisted mutation is a compare-and-swap on it so that
// racing writes surface as conflicts instead of silently overwriting each
// other. The cart is created lazily on first add and cleared, not deleted,
// when checkout succeeds or price drift is detected.
type Cart struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	UserID    uint           `gorm:"uniqueIndex;not null" json:"user_id"`
	Version   uint           `gorm:"not null;default:0" json:"version"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	User  User       `gorm:"foreignKey:UserID" json:"-"`
	Items []CartItem `gorm:"foreignKey:CartID" json:"items"`
}

func (Cart) TableName() string {
	return "carts"
}

// Subtotal sums the snapshot subtotals of every line item. This is a display
// figure; checkout re-derives the total from the catalog.
func (c *Cart) Subtotal() int64 {
	var total int64
	for i := range c.Items {
		total += c.Items[i].Subtotal()
	}
	return total
}

// CartItem is a denormalized snapshot taken at add time. UnitPrice is the
// effective price when the item was added. It is never rewritten by
// quantity mutations and never trusted at checkout; reconciliation
// re-derives it from the catalog first.
type CartItem struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	CartID    uint   `gorm:"index;not null" json:"cart_id"`
	ProductID uint   `gorm:"index;not null" json:"product_id"`
	Name      string `gorm:"not null" json:"name"`
	Image     string `json:"image"`
	Size      string `json:"size"`
	Color     string `gorm:"not null" json:"color"`
	// Optional sub-variant selection, keyed by (specification, value).
	Specification *string        `json:"specification,omitempty"`
	Value         *string        `json:"value,omitempty"`
	UnitPrice     int64          `gorm:"not null" json:"unit_price"`
	Quantity      int            `gorm:"not null;default:1" json:"quantity"`
	CreatedAt     time.Time      `json:"created_at"`
	UpdatedAt     time.Time      `json:"updated_at"`
	DeletedAt     gorm.DeletedAt `gorm:"index" json:"-"`
}

func (CartItem) TableName() string {
	return "cart_items"
}

// HasSubVariant reports whether the item was added with a sub-variant
// selection.
func (i *CartItem) HasSubVariant() bool {
	return i.Specification != nil && i.Value != nil
}

// MatchesSelection reports whether the item is the line identified by
// (productID, color, sub-selection-or-none).
func (i *CartItem) MatchesSelection(productID uint, color string, specification, value *string) bool {
	if i.ProductID != productID || i.Color != color {
		return false
	}
	if (specification == nil) != (i.Specification == nil) {
		return false
	}
	if specification == nil {
		return true
	}
	return *i.Specification == *specification && i.Value != nil && value != nil && *i.Value == *value
}

// Subtotal is the snapshot price times the requested quantity.
func (i *CartItem) Subtotal() int64 {
	return i.UnitPrice * int64(i.Quantity)
}
