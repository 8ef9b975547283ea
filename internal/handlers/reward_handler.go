package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
)

// ListRewards returns the caller's rewards, newest first. The optional state
// filter partitions them the way the dashboard shows them: active (unused and
// unexpired), used, expired (unused but past expiry).
func ListRewards(c *gin.Context) {
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

	query := gormDB.Where("customer_id = ?", userID)

	now := time.Now()
	switch c.Query("state") {
	case "active":
		query = query.Where("used = ? AND expires_at > ?", false, now)
	case "used":
		query = query.Where("used = ?", true)
	case "expired":
		query = query.Where("used = ? AND expires_at <= ?", false, now)
	case "":
	default:
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid state filter. Use active, used or expired.")
		return
	}

	if serviceID := c.Query("service_id"); serviceID != "" {
		query = query.Where("service_id = ?", serviceID)
	}

	var rewards []models.Reward
	err := query.Preload("Service").Order("created_at DESC").Find(&rewards).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving rewards.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"rewards": rewards,
		"total":   len(rewards),
	})
}
