package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
)

type ServiceRequest struct {
	Name string `json:"name" binding:"required,min=2"`
	Tier string `json:"tier" binding:"required,oneof=simple medium complex"`
}

// ListServices is public so the booking screen can render the catalog from a
// referral link before sign-in. Filterable by vertical.
func ListServices(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	query := gormDB.Model(&models.Service{})
	if verticalID := c.Query("vertical_id"); verticalID != "" {
		query = query.Where("vertical_id = ?", verticalID)
	}

	var services []models.Service
	if err := query.Preload("RewardRule").Order("name ASC").Find(&services).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"total":    len(services),
	})
}

// GetService backs the booking screen's pre-selection: the service id arrives
// as a query parameter on the referral link.
func GetService(c *gin.Context) {
	serviceID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var service models.Service
	if err := gormDB.Preload("RewardRule").Where("id = ?", serviceID).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Service not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving service.")
		return
	}

	c.JSON(http.StatusOK, service)
}

func ListVerticalServices(c *gin.Context) {
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

	var services []models.Service
	err := gormDB.Where("vertical_id = ?", verticalID).
		Preload("RewardRule").
		Order("name ASC").
		Find(&services).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving services.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"services": services,
		"total":    len(services),
	})
}

func CreateService(c *gin.Context) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return
	}

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Tier must be simple, medium or complex.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	service := models.Service{
		ID:         uuid.New(),
		Name:       req.Name,
		Tier:       req.Tier,
		VerticalID: verticalID.(uuid.UUID),
	}

	if err := gormDB.Create(&service).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create service.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":    "Service created successfully.",
		"service_id": service.ID,
	})
}

func UpdateService(c *gin.Context) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return
	}

	serviceID := c.Param("id")

	var req ServiceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Tier must be simple, medium or complex.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var service models.Service
	if err := gormDB.Where("id = ? AND vertical_id = ?", serviceID, verticalID).First(&service).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Service not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding service.")
		return
	}

	service.Name = req.Name
	service.Tier = req.Tier

	if err := gormDB.Save(&service).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update service.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service updated successfully.",
		"service": service,
	})
}

func DeleteService(c *gin.Context) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return
	}

	serviceID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ? AND vertical_id = ?", serviceID, verticalID).Delete(&models.Service{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete service.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Service not found or not in your vertical.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Service deleted successfully.",
	})
}
