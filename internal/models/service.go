package models

import (
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Service tiers. The legacy console also used basic/standard/premium for the
// same three levels; the pricing lookup accepts both vocabularies.
const (
	TierSimple  = "simple"
	TierMedium  = "medium"
	TierComplex = "complex"
)

type Service struct {
	gorm.Model
	ID         uuid.UUID `gorm:"type:uuid;primary_key"`
	Name       string    `gorm:"not null"`
	Tier       string    `gorm:"type:varchar(16);not null"`
	VerticalID uuid.UUID
	Vertical   Vertical
	RewardRule *RewardRule
}

func (service *Service) BeforeCreate(tx *gorm.DB) (err error) {
	if service.ID == uuid.Nil {
		service.ID = uuid.New()
	}
	return
}
