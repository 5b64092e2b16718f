package model

import (
	"time"

	"gorm.io/gorm"
)

// SubVariant is a further specification axis nested under a variant, e.g.
// Storage: 128GB. Its stock pool is independent from the parent variant's
// quantity; the two are never summed.
type SubVariant struct {
	ID              uint           `gorm:"primarykey" json:"id"`
	VariantID       uint           `gorm:"index:idx_sub_variants_key,unique;not null" json:"variant_id"`
	Specification   string         `gorm:"index:idx_sub_variants_key,unique;not null" json:"specification"`
	Value           string         `gorm:"index:idx_sub_variants_key,unique;not null" json:"value"`
	AdditionalPrice int64          `gorm:"default:0" json:"additional_price"`
	Quantity        int            `gorm:"default:0" json:"quantity"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
	DeletedAt       gorm.DeletedAt `gorm:"index" json:"-"`

	Variant Variant `gorm:"foreignKey:VariantID" json:"-"`
}

func (SubVariant) TableName() string {
	return "sub_variants"
}
