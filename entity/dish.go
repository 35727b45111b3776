package entity

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Dish struct {
	ID          string `gorm:"type:uuid;primaryKey" json:"id"`
	Title       string `gorm:"not null" json:"title"`
	Description string `gorm:"size:1024" json:"description"`
	Price       Price  `gorm:"type:numeric(10,2)" json:"price"`
	SubmenuID   string `gorm:"type:uuid;index;not null" json:"submenu_id"`
}

func (d *Dish) BeforeCreate(tx *gorm.DB) error {
	if d.ID == "" {
		d.ID = uuid.NewString()
	}
	return nil
}
