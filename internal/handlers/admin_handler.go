package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
)

type CreateAdminRequest struct {
	Name          string `json:"name" binding:"required,min=2"`
	Email         string `json:"email" binding:"required,email"`
	Password      string `json:"password" binding:"required,min=6"`
	ContactNumber string `json:"contact_number" binding:"required"`
}

func ListAdmins(c *gin.Context) {
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

	var admins []models.Customer
	err := gormDB.Where("vertical_id = ? AND role = ?", verticalID, models.RoleAdmin).
		Order("created_at DESC").
		Find(&admins).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving admins.")
		return
	}

	payload := make([]gin.H, 0, len(admins))
	for i := range admins {
		payload = append(payload, customerPayload(&admins[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"admins": payload,
		"total":  len(admins),
	})
}

// CreateAdmin provisions another admin for the caller's vertical. Admin is
// the only place a non-customer role is assigned.
func CreateAdmin(c *gin.Context) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return
	}

	var req CreateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Please check your fields.")
		return
	}

	if !helpers.ValidContactNumber(req.ContactNumber) {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid contact number. Use international format, e.g. +6281234567890.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var existing models.Customer
	if result := gormDB.Where("email = ?", req.Email).First(&existing); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "An account with this email already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	admin := models.Customer{
		ID:            uuid.New(),
		Name:          req.Name,
		Email:         req.Email,
		Password:      string(hashedPassword),
		ContactNumber: req.ContactNumber,
		Role:          models.RoleAdmin,
		VerticalID:    verticalID.(uuid.UUID),
	}

	created := false
	for attempt := 0; attempt < 5; attempt++ {
		code, err := helpers.GenerateReferralCode()
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate referral code.")
			return
		}
		admin.ReferralCode = code
		if err := gormDB.Create(&admin).Error; err == nil {
			created = true
			break
		}
	}
	if !created {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create admin.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "Admin created successfully.",
		"admin_id": admin.ID,
	})
}

func DeleteAdmin(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return
	}

	adminID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid admin ID.")
		return
	}

	if adminID == userID.(uuid.UUID) {
		helpers.RespondWithError(c, http.StatusBadRequest, "You cannot delete your own admin account.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.
		Where("id = ? AND vertical_id = ? AND role = ?", adminID, verticalID, models.RoleAdmin).
		Delete(&models.Customer{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete admin.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Admin not found or not in your vertical.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Admin deleted successfully.",
	})
}
