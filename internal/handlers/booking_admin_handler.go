package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
)

type BookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// verticalBookings scopes booking queries to the admin's vertical through the
// service relation.
func verticalBookings(gormDB *gorm.DB, verticalID uuid.UUID) *gorm.DB {
	return gormDB.Model(&models.Booking{}).
		Joins("JOIN services ON services.id = bookings.service_id").
		Where("services.vertical_id = ?", verticalID)
}

func ListVerticalBookings(c *gin.Context) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	page := c.DefaultQuery("page", "1")
	limit := c.DefaultQuery("limit", "10")

	pageNum, err := helpers.StringToInt(page)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid page number.")
		return
	}

	limitNum, err := helpers.StringToInt(limit)
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid limit.")
		return
	}

	var totalCount int64
	verticalBookings(gormDB, verticalID.(uuid.UUID)).Count(&totalCount)

	var bookings []models.Booking
	offset := (pageNum - 1) * limitNum
	err = verticalBookings(gormDB, verticalID.(uuid.UUID)).
		Preload("Service").
		Preload("Customer").
		Offset(offset).Limit(limitNum).
		Order("bookings.created_at DESC").
		Find(&bookings).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving bookings.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"bookings":    bookings,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func BookingStats(c *gin.Context) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)
	vertical := verticalID.(uuid.UUID)

	var total, pending, active, completed int64
	verticalBookings(gormDB, vertical).Count(&total)
	verticalBookings(gormDB, vertical).Where("bookings.status IN ?", models.StatusLabels(models.BookingPending)).Count(&pending)
	verticalBookings(gormDB, vertical).Where("bookings.status IN ?", models.StatusLabels(models.BookingConfirmed)).Count(&active)
	verticalBookings(gormDB, vertical).Where("bookings.status IN ?", models.StatusLabels(models.BookingDone)).Count(&completed)

	c.JSON(http.StatusOK, gin.H{
		"total_bookings":     total,
		"pending_bookings":   pending,
		"active_bookings":    active,
		"completed_bookings": completed,
	})
}

func findVerticalBooking(c *gin.Context, gormDB *gorm.DB) (*models.Booking, bool) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return nil, false
	}

	bookingID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid booking ID.")
		return nil, false
	}

	var booking models.Booking
	err = gormDB.
		Joins("JOIN services ON services.id = bookings.service_id").
		Where("bookings.id = ? AND services.vertical_id = ?", bookingID, verticalID).
		First(&booking).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Booking not found.")
		return nil, false
	}

	return &booking, true
}

func setBookingStatus(c *gin.Context, targetStatus string) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	booking, ok := findVerticalBooking(c, gormDB)
	if !ok {
		return
	}

	target := models.NormalizeStatus(targetStatus)
	if !models.ValidStatus(target) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Unknown booking status.")
		return
	}

	if !models.ValidTransition(booking.Status, target) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid status transition for this booking.")
		return
	}

	updates := map[string]interface{}{"status": target}
	if target == models.BookingCancelled {
		updates["cancellation_count"] = gorm.Expr("cancellation_count + 1")
	}

	if err := gormDB.Model(booking).Updates(updates).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update booking.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking status updated successfully.",
		"status":  target,
	})
}

func UpdateBookingStatus(c *gin.Context) {
	var req BookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Status is required.")
		return
	}

	setBookingStatus(c, req.Status)
}

func ApproveBooking(c *gin.Context) {
	setBookingStatus(c, models.BookingConfirmed)
}

func CompleteBooking(c *gin.Context) {
	setBookingStatus(c, models.BookingDone)
}

func DeleteBooking(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	booking, ok := findVerticalBooking(c, gormDB)
	if !ok {
		return
	}

	if err := gormDB.Delete(booking).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete booking.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Booking deleted successfully.",
	})
}
