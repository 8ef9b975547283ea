package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Vertical struct {
	ID        uuid.UUID `gorm:"type:uuid;primary_key"`
	Name      string    `gorm:"not null"`
	Services  []Service
	Customers []Customer
	CreatedAt time.Time
	UpdatedAt time.Time
	DeletedAt gorm.DeletedAt `gorm:"index"`
}

func (vertical *Vertical) BeforeCreate(tx *gorm.DB) (err error) {
	if vertical.ID == uuid.Nil {
		vertical.ID = uuid.New()
	}
	return
}
