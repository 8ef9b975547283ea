package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Reward is a single discount grant owned by a customer. It is consumable
// exactly once (Used never reverts) and becomes ineligible once ExpiresAt
// passes; expiry is evaluated on read, nothing sweeps expired rows.
type Reward struct {
	ID              uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Customer        *Customer `gorm:"foreignKey:CustomerID"`
	ServiceID       uuid.UUID `gorm:"type:uuid;not null;index"`
	Service         *Service  `gorm:"foreignKey:ServiceID"`
	DiscountPercent int       `gorm:"not null"`
	Used            bool      `gorm:"not null;default:false"`
	ExpiresAt       time.Time `gorm:"not null"`
	CreatedAt       time.Time
	UpdatedAt       time.Time
	DeletedAt       gorm.DeletedAt `gorm:"index"`
}

func (reward *Reward) BeforeCreate(tx *gorm.DB) (err error) {
	if reward.ID == uuid.Nil {
		reward.ID = uuid.New()
	}
	return
}

func (r *Reward) Expired(now time.Time) bool {
	return now.After(r.ExpiresAt)
}

// Usable reports whether the reward can still back a new booking.
func (r *Reward) Usable(now time.Time) bool {
	return !r.Used && !r.Expired(now)
}
