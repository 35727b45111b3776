package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Menu struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"size:1024" json:"description"`

	Submenus []SubMenu `gorm:"foreignKey:MenuID;constraint:OnDelete:CASCADE" json:"submenus,omitempty"`

	// Recomputed on every read, never stored.
	SubmenusCount int64 `gorm:"-" json:"submenus_count"`
	DishesCount   int64 `gorm:"-" json:"dishes_count"`
}

func (m *Menu) BeforeCreate(tx *gorm.DB) error {
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	return nil
}
