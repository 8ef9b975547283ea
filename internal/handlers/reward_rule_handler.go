package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/helpers"
	"github.com/farhanrz/referbook/internal/models"
)

type RewardRuleRequest struct {
	ServiceID          uuid.UUID `json:"service_id" binding:"required"`
	DiscountPercent    int       `json:"discount_percent" binding:"required,min=1,max=100"`
	MaxPerMonth        int       `json:"max_per_month" binding:"required,min=1"`
	ExpiresAfterMonths int       `json:"expires_after_months" binding:"required,min=1"`
}

type RewardRuleUpdateRequest struct {
	DiscountPercent    int `json:"discount_percent" binding:"required,min=1,max=100"`
	MaxPerMonth        int `json:"max_per_month" binding:"required,min=1"`
	ExpiresAfterMonths int `json:"expires_after_months" binding:"required,min=1"`
}

func ListRewardRules(c *gin.Context) {
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

	var rules []models.RewardRule
	err := gormDB.
		Joins("JOIN services ON services.id = reward_rules.service_id").
		Where("services.vertical_id = ?", verticalID).
		Order("reward_rules.created_at DESC").
		Find(&rules).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Error retrieving reward rules.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"reward_rules": rules,
		"total":        len(rules),
	})
}

func CreateRewardRule(c *gin.Context) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return
	}

	var req RewardRuleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Discount percent must be between 1 and 100.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	var service models.Service
	if err := gormDB.Where("id = ? AND vertical_id = ?", req.ServiceID, verticalID).First(&service).Error; err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Service not found or not in your vertical.")
		return
	}

	var existing models.RewardRule
	if err := gormDB.Where("service_id = ?", service.ID).First(&existing).Error; err == nil {
		helpers.RespondWithError(c, http.StatusConflict, "Service already has a reward rule.")
		return
	}

	rule := models.RewardRule{
		ID:                 uuid.New(),
		ServiceID:          service.ID,
		DiscountPercent:    req.DiscountPercent,
		MaxPerMonth:        req.MaxPerMonth,
		ExpiresAfterMonths: req.ExpiresAfterMonths,
	}

	if err := gormDB.Create(&rule).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to create reward rule.")
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":        "Reward rule created successfully.",
		"reward_rule_id": rule.ID,
	})
}

func findVerticalRewardRule(c *gin.Context, gormDB *gorm.DB) (*models.RewardRule, bool) {
	verticalID, exists := c.Get("vertical_id")
	if !exists {
		helpers.RespondWithError(c, http.StatusUnauthorized, "Vertical not found in token.")
		return nil, false
	}

	ruleID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid reward rule ID.")
		return nil, false
	}

	var rule models.RewardRule
	err = gormDB.
		Joins("JOIN services ON services.id = reward_rules.service_id").
		Where("reward_rules.id = ? AND services.vertical_id = ?", ruleID, verticalID).
		First(&rule).Error
	if err != nil {
		helpers.RespondWithError(c, http.StatusNotFound, "Reward rule not found.")
		return nil, false
	}

	return &rule, true
}

func UpdateRewardRule(c *gin.Context) {
	var req RewardRuleUpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		helpers.RespondWithError(c, http.StatusBadRequest, "Invalid input. Discount percent must be between 1 and 100.")
		return
	}

	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	rule, ok := findVerticalRewardRule(c, gormDB)
	if !ok {
		return
	}

	rule.DiscountPercent = req.DiscountPercent
	rule.MaxPerMonth = req.MaxPerMonth
	rule.ExpiresAfterMonths = req.ExpiresAfterMonths

	if err := gormDB.Save(rule).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to update reward rule.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":     "Reward rule updated successfully.",
		"reward_rule": rule,
	})
}

func DeleteRewardRule(c *gin.Context) {
	db, exists := c.Get("db")
	if !exists {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Database connection not found.")
		return
	}
	gormDB := db.(*gorm.DB)

	rule, ok := findVerticalRewardRule(c, gormDB)
	if !ok {
		return
	}

	if err := gormDB.Delete(rule).Error; err != nil {
		helpers.RespondWithError(c, http.StatusInternalServerError, "Failed to delete reward rule.")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Reward rule deleted successfully.",
	})
}
