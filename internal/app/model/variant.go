package model

import (
	"time"

	"gorm.io/gorm"
)

// Variant is one size/color configuration of a product with its own base
// price, optional discount and stock pool. No two variants of a product may
// share both size and color.
type Variant struct {
	ID        uint   `gorm:"primarykey" json:"id"`
	ProductID uint   `gorm:"index:idx_variants_product_size_color,unique;not null" json:"product_id"`
	Size      string `gorm:"index:idx_variants_product_size_color,unique;not null" json:"size"`
	Color     string `gorm:"index:idx_variants_product_size_color,unique;not null" json:"color"`
	// Prices are integral currency units (VND). Discount is subtracted from
	// the base price plus any sub-variant addition.
	BasePrice int64          `gorm:"not null" json:"base_price"`
	Discount  int64          `gorm:"default:0" json:"discount"`
	Quantity  int            `gorm:"default:0" json:"quantity"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Product     Product      `gorm:"foreignKey:ProductID" json:"-"`
	SubVariants []SubVariant `gorm:"foreignKey:VariantID" json:"sub_variants,omitempty"`
}

func (Variant) TableName() string {
	return "variants"
}

// FindSubVariant returns the sub-variant matching (specification, value).
func (v *Variant) FindSubVariant(specification, value string) *SubVariant {
	for i := range v.SubVariants {
		if v.SubVariants[i].Specification == specification && v.SubVariants[i].Value == value {
			return &v.SubVariants[i]
		}
	}
	return nil
}

// EffectivePrice computes the price of selecting this variant with an
// optional sub-variant: base price plus the sub-variant addition minus the
// discount.
func (v *Variant) EffectivePrice(sub *SubVariant) int64 {
	price := v.BasePrice
	if sub != nil {
		price += sub.AdditionalPrice
	}
	return price - v.Discount
}
