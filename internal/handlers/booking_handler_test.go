package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/glebarez/sqlite"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/internal/middleware"
	"github.com/farhanrz/referbook/internal/models"
)

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{})
	require.NoError(t, err)

	// every connection gets its own in-memory database, so keep the pool at one
	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.Vertical{},
		&models.Customer{},
		&models.Service{},
		&models.RewardRule{},
		&models.Reward{},
		&models.Booking{},
		&models.Referral{},
	))
	return db
}

func seedBookingWorld(t *testing.T) (*gorm.DB, *models.Customer, *models.Service) {
	t.Helper()
	db := openTestDB(t)

	vertical := models.Vertical{Name: "HVAC"}
	require.NoError(t, db.Create(&vertical).Error)

	customer := models.Customer{
		Name:          "Dina",
		Email:         "dina@example.com",
		Password:      "hashed",
		ContactNumber: "+6281234567890",
		ReferralCode:  "AB12CD34",
		Role:          models.RoleCustomer,
		VerticalID:    vertical.ID,
	}
	require.NoError(t, db.Create(&customer).Error)

	service := models.Service{
		Name:       "AC Installation",
		Tier:       models.TierComplex,
		VerticalID: vertical.ID,
	}
	require.NoError(t, db.Create(&service).Error)

	return db, &customer, &service
}

func bookingTestRouter(db *gorm.DB, userID uuid.UUID) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	r.Use(middleware.DatabaseMiddleware(db))
	r.Use(func(c *gin.Context) {
		c.Set("user_id", userID)
		c.Next()
	})
	r.POST("/bookings", CreateBooking)
	r.POST("/bookings/:id/cancel", CancelBooking)
	r.POST("/bookings/:id/rebook", RebookBooking)
	return r
}

func jsonBody(t *testing.T, payload any) *bytes.Buffer {
	t.Helper()
	raw, err := json.Marshal(payload)
	require.NoError(t, err)
	return bytes.NewBuffer(raw)
}

func postJSON(r *gin.Engine, path string, body *bytes.Buffer) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, path, body)
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)
	return w
}

func TestCancelBookingBurnsOneCancellation(t *testing.T) {
	db, customer, service := seedBookingWorld(t)
	r := bookingTestRouter(db, customer.ID)

	booking := models.Booking{
		CustomerID:        customer.ID,
		ServiceID:         service.ID,
		ServicePrice:      799.99,
		TotalEstimate:     799.99,
		Status:            models.BookingConfirmed,
		CancellationCount: 1,
	}
	require.NoError(t, db.Create(&booking).Error)

	w := postJSON(r, "/bookings/"+booking.ID.String()+"/cancel", bytes.NewBuffer(nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingCancelled, reloaded.Status)
	assert.Equal(t, 2, reloaded.CancellationCount)

	// the second cancellation was the last one this booking had
	w = postJSON(r, "/bookings/"+booking.ID.String()+"/cancel", bytes.NewBuffer(nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, 2, reloaded.CancellationCount)
}

func TestCancelBookingAcceptsLegacyStatusLabel(t *testing.T) {
	db, customer, service := seedBookingWorld(t)
	r := bookingTestRouter(db, customer.ID)

	booking := models.Booking{
		CustomerID:    customer.ID,
		ServiceID:     service.ID,
		ServicePrice:  399.99,
		TotalEstimate: 399.99,
		Status:        "waiting_service",
	}
	require.NoError(t, db.Create(&booking).Error)

	w := postJSON(r, "/bookings/"+booking.ID.String()+"/cancel", bytes.NewBuffer(nil))
	assert.Equal(t, http.StatusOK, w.Code)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingCancelled, reloaded.Status)
	assert.Equal(t, 1, reloaded.CancellationCount)
}

func TestCancelBookingRejectsFinishedBooking(t *testing.T) {
	db, customer, service := seedBookingWorld(t)
	r := bookingTestRouter(db, customer.ID)

	booking := models.Booking{
		CustomerID:    customer.ID,
		ServiceID:     service.ID,
		ServicePrice:  199.99,
		TotalEstimate: 199.99,
		Status:        models.BookingDone,
	}
	require.NoError(t, db.Create(&booking).Error)

	w := postJSON(r, "/bookings/"+booking.ID.String()+"/cancel", bytes.NewBuffer(nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var reloaded models.Booking
	require.NoError(t, db.First(&reloaded, booking.ID).Error)
	assert.Equal(t, models.BookingDone, reloaded.Status)
	assert.Equal(t, 0, reloaded.CancellationCount)
}

func TestRebookCopiesSnapshotIntoFreshPendingRow(t *testing.T) {
	db, customer, service := seedBookingWorld(t)
	r := bookingTestRouter(db, customer.ID)

	code := "9F3A00BB"
	source := models.Booking{
		CustomerID:        customer.ID,
		ServiceID:         service.ID,
		ServicePrice:      799.99,
		DiscountEstimate:  79.999,
		TotalEstimate:     719.991,
		Status:            models.BookingCancelled,
		ReferralCode:      &code,
		CancellationCount: 1,
	}
	require.NoError(t, db.Create(&source).Error)

	w := postJSON(r, "/bookings/"+source.ID.String()+"/rebook", bytes.NewBuffer(nil))
	assert.Equal(t, http.StatusCreated, w.Code)

	var rebooked models.Booking
	require.NoError(t, db.Where("id <> ?", source.ID).First(&rebooked).Error)
	assert.Equal(t, models.BookingPending, rebooked.Status)
	assert.Equal(t, 0, rebooked.CancellationCount)
	assert.Equal(t, source.ServiceID, rebooked.ServiceID)
	assert.InDelta(t, 799.99, rebooked.ServicePrice, 1e-9)
	assert.InDelta(t, 79.999, rebooked.DiscountEstimate, 1e-9)
	assert.InDelta(t, 719.991, rebooked.TotalEstimate, 1e-9)
	require.NotNil(t, rebooked.ReferralCode)
	assert.Equal(t, code, *rebooked.ReferralCode)
	require.NotNil(t, rebooked.BookingDate)

	// the cancelled row stays as the audit trail
	var untouched models.Booking
	require.NoError(t, db.First(&untouched, source.ID).Error)
	assert.Equal(t, models.BookingCancelled, untouched.Status)
	assert.Equal(t, 1, untouched.CancellationCount)
}

func TestRebookRejectedAfterSecondCancellation(t *testing.T) {
	db, customer, service := seedBookingWorld(t)
	r := bookingTestRouter(db, customer.ID)

	source := models.Booking{
		CustomerID:        customer.ID,
		ServiceID:         service.ID,
		ServicePrice:      399.99,
		TotalEstimate:     399.99,
		Status:            models.BookingCancelled,
		CancellationCount: models.MaxCancellations,
	}
	require.NoError(t, db.Create(&source).Error)

	w := postJSON(r, "/bookings/"+source.ID.String()+"/rebook", bytes.NewBuffer(nil))
	assert.Equal(t, http.StatusBadRequest, w.Code)

	var count int64
	require.NoError(t, db.Model(&models.Booking{}).Count(&count).Error)
	assert.EqualValues(t, 1, count)
}

func TestCreateBookingConsumesReward(t *testing.T) {
	db, customer, service := seedBookingWorld(t)
	r := bookingTestRouter(db, customer.ID)

	reward := models.Reward{
		CustomerID:      customer.ID,
		ServiceID:       service.ID,
		DiscountPercent: 10,
		ExpiresAt:       time.Now().AddDate(0, 1, 0),
	}
	require.NoError(t, db.Create(&reward).Error)

	w := postJSON(r, "/bookings", jsonBody(t, gin.H{
		"service_id": service.ID,
		"reward_id":  reward.ID,
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	var resp struct {
		Booking struct {
			ServicePrice    float64 `json:"service_price"`
			DiscountPercent int     `json:"discount_percent"`
			TotalEstimate   float64 `json:"total_estimate"`
		} `json:"booking"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.InDelta(t, 799.99, resp.Booking.ServicePrice, 1e-9)
	assert.Equal(t, 10, resp.Booking.DiscountPercent)
	assert.InDelta(t, 719.991, resp.Booking.TotalEstimate, 1e-9)

	var reloaded models.Reward
	require.NoError(t, db.First(&reloaded, reward.ID).Error)
	assert.True(t, reloaded.Used)

	// a consumed reward cannot back another booking
	w = postJSON(r, "/bookings", jsonBody(t, gin.H{
		"service_id": service.ID,
		"reward_id":  reward.ID,
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "already been used")
}

func TestCreateBookingRejectsExpiredReward(t *testing.T) {
	db, customer, service := seedBookingWorld(t)
	r := bookingTestRouter(db, customer.ID)

	reward := models.Reward{
		CustomerID:      customer.ID,
		ServiceID:       service.ID,
		DiscountPercent: 10,
		ExpiresAt:       time.Now().Add(-time.Hour),
	}
	require.NoError(t, db.Create(&reward).Error)

	w := postJSON(r, "/bookings", jsonBody(t, gin.H{
		"service_id": service.ID,
		"reward_id":  reward.ID,
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "expired")
}

func TestCreateBookingRejectsOwnReferralCode(t *testing.T) {
	db, customer, service := seedBookingWorld(t)
	r := bookingTestRouter(db, customer.ID)

	w := postJSON(r, "/bookings", jsonBody(t, gin.H{
		"service_id":    service.ID,
		"referral_code": customer.ReferralCode,
	}))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "own referral code")
}

func TestCreateBookingGrantsReferrerRewardUpToMonthlyCap(t *testing.T) {
	db, customer, service := seedBookingWorld(t)
	r := bookingTestRouter(db, customer.ID)

	referrer := models.Customer{
		Name:          "Rafli",
		Email:         "rafli@example.com",
		Password:      "hashed",
		ContactNumber: "+6281234567891",
		ReferralCode:  "AA11BB22",
		Role:          models.RoleCustomer,
		VerticalID:    customer.VerticalID,
	}
	require.NoError(t, db.Create(&referrer).Error)

	rule := models.RewardRule{
		ServiceID:          service.ID,
		DiscountPercent:    15,
		MaxPerMonth:        1,
		ExpiresAfterMonths: 2,
	}
	require.NoError(t, db.Create(&rule).Error)

	w := postJSON(r, "/bookings", jsonBody(t, gin.H{
		"service_id":    service.ID,
		"referral_code": referrer.ReferralCode,
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	var rewards []models.Reward
	require.NoError(t, db.Where("customer_id = ?", referrer.ID).Find(&rewards).Error)
	require.Len(t, rewards, 1)
	assert.Equal(t, 15, rewards[0].DiscountPercent)
	assert.False(t, rewards[0].Used)

	var referrals []models.Referral
	require.NoError(t, db.Where("referrer_id = ?", referrer.ID).Find(&referrals).Error)
	require.Len(t, referrals, 1)
	require.NotNil(t, referrals[0].RewardID)
	assert.Equal(t, rewards[0].ID, *referrals[0].RewardID)

	// the cap is reached, so the second referral is recorded without a reward
	w = postJSON(r, "/bookings", jsonBody(t, gin.H{
		"service_id":    service.ID,
		"referral_code": referrer.ReferralCode,
	}))
	require.Equal(t, http.StatusCreated, w.Code)

	require.NoError(t, db.Where("customer_id = ?", referrer.ID).Find(&rewards).Error)
	assert.Len(t, rewards, 1)

	var unrewarded int64
	require.NoError(t, db.Model(&models.Referral{}).
		Where("referrer_id = ? AND reward_id IS NULL", referrer.ID).
		Count(&unrewarded).Error)
	assert.EqualValues(t, 1, unrewarded)
}
