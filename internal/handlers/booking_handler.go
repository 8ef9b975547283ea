package handlers

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
	"github.com/farhanrz/referbook/internal/pricing"
)

type CreateBookingRequest struct {
	ServiceID    uuid.UUID  `json:"service_id" binding:"required"`
	BookingDate  *time.Time `json:"booking_date"`
	ReferralCode *string    `json:"referral_code"`
	RewardID     *uuid.UUID `json:"reward_id"`
}

type BookingDateRequest struct {
	BookingDate time.Time `json:"booking_date" binding:"required"`
}

var errRewardConsumed = errors.New("reward already consumed")

// CreateBooking snapshots price, discount and total for the selected service
// and persists the booking. The insert, the consumption of a selected reward
// and the referrer's reward grant all run in one transaction so a failure
// leaves no half-applied state behind.
func CreateBooking(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}
	userUUID := userID.(uuid.UUID)

	var req CreateBookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var service models.Service
	if err := gormDB.Preload("RewardRule").First(&service, req.ServiceID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Service not found.")
		return
	}

	now := time.Now()

	referralPercent := 0
	var referrer *models.Customer
	if req.ReferralCode != nil && *req.ReferralCode != "" {
		var owner models.Customer
		if err := gormDB.Where("referral_code = ?", *req.ReferralCode).First(&owner).Error; err != nil {
			helpers.RespondWithError(c, http.StatusBadRequest, "Invalid referral code.")
			return
		}
		if owner.ID == userUUID {
			helpers.RespondWithError(c, http.StatusBadRequest, "You cannot use your own referral code.")
			return
		}
		referrer = &owner
		if service.RewardRule != nil {
			referralPercent = service.RewardRule.DiscountPercent
		}
	}

	rewardPercent := 0
	var reward *models.Reward
	if req.RewardID != nil {
		var r models.Reward
		if err := gormDB.Where("id = ? AND customer_id = ?", *req.RewardID, userUUID).First(&r).Error; err != nil {
			helpers.RespondWithError(c, http.StatusNotFound, "Reward not found.")
			return
		}
		if r.ServiceID != service.ID {
			helpers.RespondWithError(c, http.StatusBadRequest, "Reward is not valid for this service.")
			return
		}
		if !r.Usable(now) {
			if r.Used {
				helpers.RespondWithError(c, http.StatusBadRequest, "Reward has already been used.")
			} else {
				helpers.RespondWithError(c, http.StatusBadRequest, "Reward has expired.")
			}
			return
		}
		reward = &r
		rewardPercent = r.DiscountPercent
	}

	quote := pricing.NewQuote(pricing.BasePrice(service.Tier), pricing.EffectivePercent(referralPercent, rewardPercent))

	booking := models.Booking{
		ID:               uuid.New(),
		CustomerID:       userUUID,
		ServiceID:        service.ID,
		ServicePrice:     quote.ServicePrice,
		DiscountEstimate: quote.DiscountEstimate,
		TotalEstimate:    quote.TotalEstimate,
		BookingDate:      req.BookingDate,
		Status:           models.BookingPending,
		ReferralCode:     req.ReferralCode,
	}

	err := gormDB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&booking).Error; err != nil {
			return err
		}

		if reward != nil {
			// Conditional update guards against the same reward backing two
			// concurrent bookings.
			result := tx.Model(&models.Reward{}).
				Where("id = ? AND customer_id = ? AND used = ?", reward.ID, userUUID, false).
				Update("used", true)
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return errRewardConsumed
			}
		}

		if referrer != nil {
			if err := grantReferralReward(tx, referrer, &service, userUUID, now); err != nil {
				return err
			}
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errRewardConsumed) {
			helpers.RespondWithError(c, http.StatusConflict, "Reward has already been used.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create booking.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Booking created successfully.",
		"booking": gin.H{
			"id":                booking.ID,
			"service_price":     booking.ServicePrice,
			"discount_percent":  quote.DiscountPercent,
			"discount_estimate": booking.DiscountEstimate,
			"total_estimate":    booking.TotalEstimate,
			"status":            booking.Status,
		},
	})
}

// grantReferralReward records the referral and, while the referrer is still
// under the rule's monthly cap, grants them a reward. Runs inside the booking
// transaction.
func grantReferralReward(tx *gorm.DB, referrer *models.Customer, service *models.Service, refereeID uuid.UUID, now time.Time) error {
	referral := models.Referral{
		ID:         uuid.New(),
		ReferrerID: referrer.ID,
		RefereeID:  refereeID,
		ServiceID:  service.ID,
	}

	rule := service.RewardRule
	if rule != nil {
		// Touching the referrer row takes its lock, so concurrent bookings
		// serialize through the cap check below instead of both counting the
		// same pre-grant state.
		err := tx.Model(&models.Customer{}).
			Where("id = ?", referrer.ID).
			Update("updated_at", now).Error
		if err != nil {
			return err
		}

		monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		var granted int64
		err = tx.Model(&models.Reward{}).
			Where("customer_id = ? AND service_id = ? AND created_at >= ?", referrer.ID, service.ID, monthStart).
			Count(&granted).Error
		if err != nil {
			return err
		}

		if granted < int64(rule.MaxPerMonth) {
			reward := models.Reward{
				ID:              uuid.New(),
				CustomerID:      referrer.ID,
				ServiceID:       service.ID,
				DiscountPercent: rule.DiscountPercent,
				ExpiresAt:       now.AddDate(0, rule.ExpiresAfterMonths, 0),
			}
			if err := tx.Create(&reward).Error; err != nil {
				return err
			}
			referral.RewardID = &reward.ID
		}
	}

	return tx.Create(&referral).Error
}

func ListBookings(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var bookings []models.Booking
	err := gormDB.Where("customer_id = ?", userID).
		Preload("Service").
		Order("created_at DESC").
		Find(&bookings).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving bookings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings": bookings,
		"total":    len(bookings),
	})
}

// CancelBooking flips a live booking to cancelled and burns one cancellation.
// The status check and counter guard sit inside the UPDATE itself, so two
// racing cancels cannot push the counter past the cap.
func CancelBooking(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	if err := gormDB.Where("id = ? AND customer_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		return
	}

	if !booking.CanCancel() {
		if booking.CancellationCount >= models.MaxCancellations {
			helpers.RespondWithError(c, http.StatusBadRequest, "Cancellation limit reached for this booking.")
			return
		}
		helpers.RespondWithError(c, http.StatusBadRequest, "Only pending or confirmed bookings can be cancelled.")
		return
	}

	liveStatuses := append(models.StatusLabels(models.BookingPending), models.StatusLabels(models.BookingConfirmed)...)
	result := gormDB.Model(&models.Booking{}).
		Where("id = ? AND customer_id = ? AND status IN ? AND cancellation_count < ?",
			bookingID, userID, liveStatuses, models.MaxCancellations).
		Updates(map[string]interface{}{
			"status":             models.BookingCancelled,
			"cancellation_count": gorm.Expr("cancellation_count + 1"),
		})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to cancel booking.")
		return
	}
	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusConflict, "Booking can no longer be cancelled.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking cancelled successfully.",
	})
}

// RebookBooking creates a fresh pending booking from a cancelled one, copying
// the price/discount snapshot and referral code. The cancelled row is left
// untouched and the new row starts with a clean cancellation counter.
func RebookBooking(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}
	userUUID := userID.(uuid.UUID)

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var source models.Booking
	if err := gormDB.Where("id = ? AND customer_id = ?", bookingID, userUUID).First(&source).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		return
	}

	if !source.CanRebook() {
		helpers.RespondWithError(c, http.StatusBadRequest, "Only cancelled bookings with a cancellation left can be rebooked.")
		return
	}

	// Placeholder date until the customer picks a new one.
	placeholder := time.Now()
	rebooked := models.Booking{
		ID:               uuid.New(),
		CustomerID:       userUUID,
		ServiceID:        source.ServiceID,
		ServicePrice:     source.ServicePrice,
		DiscountEstimate: source.DiscountEstimate,
		TotalEstimate:    source.TotalEstimate,
		BookingDate:      &placeholder,
		Status:           models.BookingPending,
		ReferralCode:     source.ReferralCode,
	}

	if err := gormDB.Create(&rebooked).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to rebook service.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Service rebooked successfully. Please set a new date.",
		"booking": gin.H{
			"id":             rebooked.ID,
			"status":         rebooked.Status,
			"total_estimate": rebooked.TotalEstimate,
		},
	})
}

func UpdateBookingDate(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return
	}

	var req BookingDateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Booking date is required.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var booking models.Booking
	if err := gormDB.Where("id = ? AND customer_id = ?", bookingID, userID).First(&booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		return
	}

	if models.NormalizeStatus(booking.Status) != models.BookingPending {
		helpers.RespondWithError(c, http.StatusBadRequest, "Only pending bookings can be rescheduled.")
		return
	}

	if err := gormDB.Model(&booking).Update("booking_date", req.BookingDate).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking date.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking date updated successfully.",
	})
}
