package model

import (
	"time"

	"github.com/lib/pq"
	"gorm.io/gorm"
)

type ProductStatus string

const (
	ProductActive   ProductStatus = "active"
	ProductInactive ProductStatus = "deactive"
)

type Product struct {
	ID          uint           `gorm:"primarykey" json:"id"`
	Name        string         `gorm:"not null" json:"name"`
	Description string         `gorm:"type:text" json:"description"`
	Brand       string         `gorm:"index" json:"brand"`
	Images      pq.StringArray `gorm:"type:text[]" json:"images"`
	Status      ProductStatus  `gorm:"type:varchar(20);default:'active'" json:"status"`
	CategoryID  *uint          `gorm:"index" json:"category_id,omitempty"`
	MaterialID  *uint          `gorm:"index" json:"material_id,omitempty"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
	DeletedAt   gorm.DeletedAt `gorm:"index" json:"-"`

	// Relationships
	Category *Category `gorm:"foreignKey:CategoryID" json:"category,omitempty"`
	Material *Material `gorm:"foreignKey:MaterialID" json:"material,omitempty"`
	Variants []Variant `gorm:"foreignKey:ProductID" json:"variants,omitempty"`
}

func (Product) TableName() string {
	return "products"
}

// FindVariantByColor returns the variant carrying the given color. Color is
// the discriminating key for cart selections; size is descriptive only.
func (p *Product) FindVariantByColor(color string) *Variant {
	for i := range p.Variants {
		if p.Variants[i].Color == color {
			return &p.Variants[i]
		}
	}
	return nil
}
