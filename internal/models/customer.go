package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Customer struct {
	gorm.Model
	ID            uuid.UUID `gorm:"type:uuid;primary_key"`
	Name          string    `gorm:"not null"`
	Email         string    `gorm:"unique;not null"`
	Password      string    `gorm:"not null" json:"-"`
	ContactNumber string    `gorm:"not null"`
	ReferralCode  string    `gorm:"unique;not null"`
	Role          Role      `gorm:"type:varchar(16);not null;default:'customer'"`
	VerticalID    uuid.UUID
	Vertical      Vertical
}

func (customer *Customer) BeforeCreate(tx *gorm.DB) (err error) {
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	return
}
