package model

import (
	"time"

	"gorm.io/gorm"
)

type MaterialStatus string

const (
	MaterialActive   MaterialStatus = "active"
	MaterialInactive MaterialStatus = "deactive"
)

// Material is a secondary product classification axis (e.g. aluminium,
// titanium) managed from the admin back-office.
type Material struct {
	ID        uint           `gorm:"primarykey" json:"id"`
	Name      string         `gorm:"uniqueIndex;not null" json:"name"`
	Status    MaterialStatus `gorm:"type:varchar(20);default:'active'" json:"status"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Products []Product `gorm:"foreignKey:MaterialID" json:"-"`
}

func (Material) TableName() string {
	return "materials"
}
