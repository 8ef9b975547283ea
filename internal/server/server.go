package server

import (
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/farhanrz/referbook/config"
	"github.com/farhanrz/referbook/internal/handlers"
	"github.com/farhanrz/referbook/internal/middleware"
)

func Start() error {
	cfg, err := config.LoadConfig()
	if err != nil {
		return fmt.Errorf("failed to load config: %v", err)
	}

	db, err := config.InitDatabase(cfg)
	if err != nil {
		return fmt.Errorf("failed to initialize database: %v", err)
	}

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: false,
		MaxAge:           12 * time.Hour,
	}))

	setupRoutes(r, db, cfg)

	return r.Run(":" + cfg.Port)
}

func setupRoutes(r *gin.Engine, db *gorm.DB, cfg *config.Config) {
	r.Use(middleware.DatabaseMiddleware(db))

	r.GET("/", handlers.Home(cfg.HomepageHidden))
	r.GET("/healthz", handlers.Health)

	public := r.Group("/v1")
	{
		public.POST("/register", handlers.Register)
		public.POST("/login", handlers.Login)

		public.GET("/verticals", handlers.ListVerticals)

		servicePublic := public.Group("/services")
		{
			servicePublic.GET("", handlers.ListServices)
			servicePublic.GET("/:id", handlers.GetService)
		}
	}

	protected := r.Group("/v1")
	protected.Use(middleware.JWTAuthMiddleware())
	{
		protected.GET("/profile", handlers.GetProfile)
		protected.PUT("/profile", handlers.UpdateProfile)

		bookingProtected := protected.Group("/bookings")
		{
			bookingProtected.GET("", handlers.ListBookings)
			bookingProtected.POST("", handlers.CreateBooking)
			bookingProtected.POST("/:id/cancel", handlers.CancelBooking)
			bookingProtected.POST("/:id/rebook", handlers.RebookBooking)
			bookingProtected.PUT("/:id/date", handlers.UpdateBookingDate)
		}

		protected.GET("/rewards", handlers.ListRewards)

		referralProtected := protected.Group("/referral")
		{
			referralProtected.GET("", handlers.GetReferral)
			referralProtected.GET("/qr", handlers.ReferralQR)
		}
		protected.GET("/referrals", handlers.ListReferrals)
	}

	admin := r.Group("/v1/admin")
	admin.Use(middleware.JWTAuthMiddleware(), middleware.AdminMiddleware())
	{
		verticalAdmin := admin.Group("/verticals")
		{
			verticalAdmin.POST("", handlers.CreateVertical)
			verticalAdmin.PUT("/:id", handlers.UpdateVertical)
			verticalAdmin.DELETE("/:id", handlers.DeleteVertical)
		}

		serviceAdmin := admin.Group("/services")
		{
			serviceAdmin.GET("", handlers.ListVerticalServices)
			serviceAdmin.POST("", handlers.CreateService)
			serviceAdmin.PUT("/:id", handlers.UpdateService)
			serviceAdmin.DELETE("/:id", handlers.DeleteService)
		}

		ruleAdmin := admin.Group("/reward-rules")
		{
			ruleAdmin.GET("", handlers.ListRewardRules)
			ruleAdmin.POST("", handlers.CreateRewardRule)
			ruleAdmin.PUT("/:id", handlers.UpdateRewardRule)
			ruleAdmin.DELETE("/:id", handlers.DeleteRewardRule)
		}

		bookingAdmin := admin.Group("/bookings")
		{
			bookingAdmin.GET("", handlers.ListVerticalBookings)
			bookingAdmin.GET("/stats", handlers.BookingStats)
			bookingAdmin.PATCH("/:id/status", handlers.UpdateBookingStatus)
			bookingAdmin.POST("/:id/approve", handlers.ApproveBooking)
			bookingAdmin.POST("/:id/complete", handlers.CompleteBooking)
			bookingAdmin.DELETE("/:id", handlers.DeleteBooking)
		}

		customerAdmin := admin.Group("/customers")
		{
			customerAdmin.GET("", handlers.ListCustomers)
			customerAdmin.DELETE("/:id", handlers.DeleteCustomer)
		}

		adminAdmin := admin.Group("/admins")
		{
			adminAdmin.GET("", handlers.ListAdmins)
			adminAdmin.POST("", handlers.CreateAdmin)
			adminAdmin.DELETE("/:id", handlers.DeleteAdmin)
		}
	}
}
