package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
)

type ProfileUpdateRequest struct {
	Name          string `json:"name" binding:"required,min=2"`
	ContactNumber string `json:"contact_number" binding:"required"`
}

func customerPayload(customer *models.Customer) gin.H {
	return gin.H{
		"id":             customer.ID,
		"name":           customer.Name,
		"email":          customer.Email,
		"contact_number": customer.ContactNumber,
		"referral_code":  customer.ReferralCode,
		"role":           customer.Role,
		"vertical_id":    customer.VerticalID,
		"created_at":     customer.CreatedAt,
	}
}

func GetProfile(c *gin.Context) {
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
	if err := gormDB.Preload("Vertical").First(&customer, userID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Customer not found.")
		return
	}

	payload := customerPayload(&customer)
	payload["vertical"] = customer.Vertical.Name

	c.JSON(http.StatusOK, payload)
}

// UpdateProfile lets a customer change their name and contact number. Role,
// vertical and referral code are not editable through this surface.
func UpdateProfile(c *gin.Context) {
	userID, exists := c.Get("user_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "User not authenticated.")
		return
	}

	var req ProfileUpdateRequest
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

	var customer models.Customer
	if err := gormDB.First(&customer, userID).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Customer not found.")
		return
	}

	customer.Name = req.Name
	customer.ContactNumber = req.ContactNumber

	if err := gormDB.Save(&customer).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update profile.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Profile updated successfully.",
		"customer": customerPayload(&customer),
	})
}

func ListCustomers(c *gin.Context) {
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

	query := gormDB.Model(&models.Customer{}).
		Where("vertical_id = ? AND role = ?", verticalID, models.RoleCustomer)

	var totalCount int64
	query.Count(&totalCount)

	var customers []models.Customer
	offset := (pageNum - 1) * limitNum
	err = query.Offset(offset).Limit(limitNum).Order("created_at DESC").Find(&customers).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving customers.")
		return
	}

	payload := make([]gin.H, 0, len(customers))
	for i := range customers {
		payload = append(payload, customerPayload(&customers[i]))
	}

	c.JSON(http.StatusOK, gin.H{
		"customers":   payload,
		"total":       totalCount,
		"page":        pageNum,
		"limit":       limitNum,
		"total_pages": (totalCount + int64(limitNum) - 1) / int64(limitNum),
	})
}

func DeleteCustomer(c *gin.Context) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return
	}

	customerID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.
		Where("id = ? AND vertical_id = ? AND role = ?", customerID, verticalID, models.RoleCustomer).
		Delete(&models.Customer{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete customer.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Customer not found or not in your vertical.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Customer deleted successfully.",
	})
}
