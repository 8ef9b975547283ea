package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
)

type VerticalRequest struct {
	Name string `json:"name" binding:"required,min=2"`
}

// ListVerticals is public: the signup form needs the vertical list before a
// session exists.
func ListVerticals(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var verticals []models.Vertical
	if err := gormDB.Order("name ASC").Find(&verticals).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving verticals.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"verticals": verticals,
		"total":     len(verticals),
	})
}

func CreateVertical(c *gin.Context) {
	var req VerticalRequest
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

	vertical := models.Vertical{
		ID:   uuid.New(),
		Name: req.Name,
	}

	if err := gormDB.Create(&vertical).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create vertical.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":     "Vertical created successfully.",
		"vertical_id": vertical.ID,
	})
}

func UpdateVertical(c *gin.Context) {
	verticalID := c.Param("id")

	var req VerticalRequest
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

	var vertical models.Vertical
	if err := gormDB.Where("id = ?", verticalID).First(&vertical).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			helpers.RespondWithError(c, http.StatusNotFound, "Vertical not found.")
			return
		}
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error finding vertical.")
		return
	}

	vertical.Name = req.Name

	if err := gormDB.Save(&vertical).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update vertical.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":  "Vertical updated successfully.",
		"vertical": vertical,
	})
}

func DeleteVertical(c *gin.Context) {
	verticalID := c.Param("id")

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	result := gormDB.Where("id = ?", verticalID).Delete(&models.Vertical{})
	if result.Error != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete vertical.")
		return
	}

	if result.RowsAffected == 0 {
		helpers.RespondWithError(c, http.StatusNotFound, "Vertical not found.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Vertical deleted successfully.",
	})
}
