package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Referral records that a referee booked a service through a referrer's code,
// and which reward (if any) the referrer earned for it.
type Referral struct {
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	ReferrerID uuid.UUID `gorm:"type:uuid;not null;index"`
	Referrer   *Customer `gorm:"foreignKey:ReferrerID"`
	RefereeID  uuid.UUID `gorm:"type:uuid;not null;index"`
	Referee    *Customer `gorm:"foreignKey:RefereeID"`
	ServiceID  uuid.UUID `gorm:"type:uuid;not null"`
	Service    *Service  `gorm:"foreignKey:ServiceID"`
	RewardID   *uuid.UUID
	CreatedAt  time.Time
	DeletedAt  gorm.DeletedAt `gorm:"index"`
}

func (referral *Referral) BeforeCreate(tx *gorm.DB) (err error) {
	if referral.ID == uuid.Nil {
		referral.ID = uuid.New()
	}
	return
}
