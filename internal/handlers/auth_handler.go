package handlers

import (
	"net/http"
	"os"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
)

type RegisterRequest struct {
	Name          string    `json:"name" binding:"required,min=2"`
	Email         string    `json:"email" binding:"required,email"`
	Password      string    `json:"password" binding:"required,min=6"`
	VerticalID    uuid.UUID `json:"vertical_id" binding:"required"`
	ContactNumber string    `json:"contact_number" binding:"required"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

func Register(c *gin.Context) {
	var req RegisterRequest
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

	var vertical models.Vertical
	if err := gormDB.Where("id = ?", req.VerticalID).First(&vertical).Error; err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid vertical.")
		return
	}

	var existingCustomer models.Customer
	if result := gormDB.Where("email = ?", req.Email).First(&existingCustomer); result.Error == nil {
		helpers.RespondWithError(c, http.StatusConflict, "Customer already exists.")
		return
	}

	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to hash the password.")
		return
	}

	customer := models.Customer{
		ID:            uuid.New(),
		Name:          req.Name,
		Email:         req.Email,
		Password:      string(hashedPassword),
		ContactNumber: req.ContactNumber,
		Role:          models.RoleCustomer,
		VerticalID:    vertical.ID,
	}

	// Referral codes are unique; retry on the rare collision.
	created := false
	for attempt := 0; attempt < 5; attempt++ {
		code, err := helpers.GenerateReferralCode()
		if err != nil {
			helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate referral code.")
			return
		}
		customer.ReferralCode = code
		if err := gormDB.Create(&customer).Error; err == nil {
			created = true
			break
		}
	}
	if !created {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create customer.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": "Customer registered successfully.",
		"customer": gin.H{
			"id":            customer.ID,
			"email":         customer.Email,
			"referral_code": customer.ReferralCode,
		},
	})
}

func Login(c *gin.Context) {
	var req LoginRequest
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

	var customer models.Customer
	if err := gormDB.Where("email = ?", req.Email).First(&customer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(customer.Password), []byte(req.Password)); err != nil {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Invalid credentials.")
		return
	}

	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		helpers.RespondWithError(c, http.StatusInternalServerError, "JWT_SECRET not configured.")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id":     customer.ID,
		"role":        customer.Role,
		"vertical_id": customer.VerticalID,
		"exp":         time.Now().Add(24 * time.Hour).Unix(),
	})

	tokenString, err := token.SignedString([]byte(secret))
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to generate token.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"token": tokenString,
		"customer": gin.H{
			"id":            customer.ID,
			"name":          customer.Name,
			"email":         customer.Email,
			"role":          customer.Role,
			"vertical_id":   customer.VerticalID,
			"referral_code": customer.ReferralCode,
		},
	})
}
