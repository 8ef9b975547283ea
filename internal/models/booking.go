package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingPending   = "pending"
	BookingConfirmed = "confirmed"
	BookingDone      = "done"
	BookingCancelled = "cancelled"
)

// MaxCancellations caps how often one booking row may be cancelled.
const MaxCancellations = 2

type Booking struct {
	gorm.Model
	ID                uuid.UUID `gorm:"type:uuid;primary_key"`
	CustomerID        uuid.UUID `gorm:"type:uuid;not null;index"`
	Customer          Customer
	ServiceID         uuid.UUID `gorm:"type:uuid;not null;index"`
	Service           Service
	ServicePrice      float64 `gorm:"not null"`
	DiscountEstimate  float64 `gorm:"not null;default:0"`
	TotalEstimate     float64 `gorm:"not null"`
	BookingDate       *time.Time
	Status            string `gorm:"type:varchar(24);not null;default:'pending'"`
	ReferralCode      *string
	CancellationCount int `gorm:"not null;default:0"`
}

func (booking *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	return
}

// NormalizeStatus folds the legacy console labels onto the canonical set.
// waiting_service and on_service were both confirmed-equivalents, finished
// meant done.
func NormalizeStatus(status string) string {
	switch status {
	case "waiting_service", "on_service":
		return BookingConfirmed
	case "finished":
		return BookingDone
	default:
		return status
	}
}

// StatusLabels lists every stored label that normalizes to the given
// canonical status. Rows written by the legacy console may still carry its
// labels, so queries filtering on status must match those too.
func StatusLabels(canonical string) []string {
	switch canonical {
	case BookingConfirmed:
		return []string{BookingConfirmed, "waiting_service", "on_service"}
	case BookingDone:
		return []string{BookingDone, "finished"}
	default:
		return []string{canonical}
	}
}

func ValidStatus(status string) bool {
	switch NormalizeStatus(status) {
	case BookingPending, BookingConfirmed, BookingDone, BookingCancelled:
		return true
	}
	return false
}

// ValidTransition reports whether a booking may move from one status to
// another. pending -> confirmed -> done, with cancelled reachable from
// pending or confirmed. done and cancelled are terminal.
func ValidTransition(from, to string) bool {
	from, to = NormalizeStatus(from), NormalizeStatus(to)
	if from == to {
		return false
	}
	switch from {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingDone || to == BookingCancelled
	}
	return false
}

// CanCancel gates the customer-facing cancel action: the booking must still
// be live and must not have burned both cancellations.
func (booking *Booking) CanCancel() bool {
	status := NormalizeStatus(booking.Status)
	if status != BookingPending && status != BookingConfirmed {
		return false
	}
	return booking.CancellationCount < MaxCancellations
}

// CanRebook is only offered on a cancelled booking that has a cancellation
// left. Rebooking creates a fresh row; the cancelled one is never touched.
func (booking *Booking) CanRebook() bool {
	return NormalizeStatus(booking.Status) == BookingCancelled &&
		booking.CancellationCount < MaxCancellations
}
