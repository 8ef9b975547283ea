package handlers

import (
	"fmt"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/skip2/go-qrcode"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
)

func frontendURL() string {
	if url := os.Getenv("FRONTEND_URL"); url != "" {
		return url
	}
	return "http://localhost:3000"
}

// GetReferral returns the caller's referral code, the shareable signup link
// and the reward rules of their vertical so the dashboard can explain what a
// referral earns.
func GetReferral(c *gin.Context) {
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

	var customer models.Customer
	if err := gormDB.First(&customer, userID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Customer not found.")
		return
	}

	var rules []models.RewardRule
	err := gormDB.
		Joins("JOIN services ON services.id = reward_rules.service_id").
		Where("services.vertical_id = ?", customer.VerticalID).
		Find(&rules).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reward rules.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referral_code": customer.ReferralCode,
		"referral_link": fmt.Sprintf("%s/signup?ref=%s", frontendURL(), customer.ReferralCode),
		"reward_rules":  rules,
	})
}

// ReferralQR renders the referral link as a PNG QR code. With a service_id it
// encodes a direct booking link for that service instead of the signup link.
func ReferralQR(c *gin.Context) {
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

	var customer models.Customer
	if err := gormDB.First(&customer, userID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Customer not found.")
		return
	}

	link := fmt.Sprintf("%s/signup?ref=%s", frontendURL(), customer.ReferralCode)
	if serviceID := c.Query("service_id"); serviceID != "" {
		var service models.Service
		if err := gormDB.Where("id = ?", serviceID).First(&service).Error; err != nil {
			helpers.RespondWithError(c, http.StatusNotFound, "Service not found.")
			return
		}
		link = fmt.Sprintf("%s/booking?service=%s&ref=%s", frontendURL(), service.ID, customer.ReferralCode)
	}

	qrImage, err := qrcode.Encode(link, qrcode.Medium, 256)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate QR code.")
		return
	}

	c.Data(http.StatusOK, "image/png", qrImage)
}

func ListReferrals(c *gin.Context) {
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

	var referrals []models.Referral
	err := gormDB.Where("referrer_id = ?", userID).
		Preload("Referee").
		Preload("Service").
		Order("created_at DESC").
		Find(&referrals).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving referrals.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"referrals": referrals,
		"total":     len(referrals),
	})
}
