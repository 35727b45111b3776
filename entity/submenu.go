package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type SubMenu struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"size:1024" json:"description"`
	MenuID      string `gorm:"type:uuid;index;not null" json:"menu_id"`

	Dishes []Dish `gorm:"foreignKey:SubmenuID;constraint:OnDelete:CASCADE" json:"dishes,omitempty"`

	DishesCount int64 `gorm:"-" json:"dishes_count"`
}

func (s *SubMenu) BeforeCreate(tx *gorm.DB) error {
	if s.ID == "" {
		s.ID = uuid.NewString()
	}
	return nil
}
