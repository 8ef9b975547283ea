package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// RewardRule configures the reward generated when a service is booked through
// a referral: the discount granted to the referrer, how many rewards one
// referrer can earn per calendar month, and how long a reward stays valid.
type RewardRule struct {
	ID                 uuid.UUID `gorm:"type:uuid;primary_key"`
	ServiceID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex"`
	DiscountPercent    int       `gorm:"not null"`
	MaxPerMonth        int       `gorm:"not null"`
	ExpiresAfterMonths int       `gorm:"not null"`
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (rule *RewardRule) BeforeCreate(tx *gorm.DB) (err error) {
	if rule.ID == uuid.Nil {
		rule.ID = uuid.New()
	}
	return
}
