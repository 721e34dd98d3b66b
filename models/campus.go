package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Campus is a physical unit of the institution ("sede"). Student and charge
// rows carry a denormalized copy of the campus name so listings never need
// a join.
type Campus struct {
	ID           string `json:"id" gorm:"type:uuid;primaryKey"`
	Name         string `json:"name" gorm:"not null"`
	City         string `json:"city" gorm:"not null"`
	Neighborhood string `json:"neighborhood" gorm:"not null"`
}

func (c *Campus) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	return nil
}
