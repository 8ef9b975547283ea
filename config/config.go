package config

import (
	"fmt"
	"os"

	"github.com/farhanrz/referbook/internal/models"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

type Config struct {
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	Port string

	// HomepageHidden skips the marketing homepage payload and sends callers
	// straight to sign-in.
	HomepageHidden bool
}

func LoadConfig() (*Config, error) {
	return &Config{
		DBHost:         getEnv("DB_HOST", "localhost"),
		DBPort:         getEnv("DB_PORT", "5432"),
		DBUser:         getEnv("DB_USER", "postgres"),
		DBPassword:     os.Getenv("DB_PASSWORD"),
		DBName:         getEnv("DB_NAME", "referbook"),
		Port:           getEnv("PORT", "8080"),
		HomepageHidden: os.Getenv("HOMEPAGE_HIDDEN") == "true",
	}, nil
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func InitDatabase(cfg *Config) (*gorm.DB, error) {
	dsn := fmt.Sprintf(
		"host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		cfg.DBHost, cfg.DBUser, cfg.DBPassword, cfg.DBName, cfg.DBPort,
	)

	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, err
	}

	err = db.AutoMigrate(
		&models.Vertical{},
		&models.Customer{},
		&models.Service{},
		&models.RewardRule{},
		&models.Reward{},
		&models.Booking{},
		&models.Referral{},
	)
	if err != nil {
		return nil, err
	}

	seedVerticals(db)

	return db, nil
}

func seedVerticals(db *gorm.DB) {
	verticals := []models.Vertical{
		{Name: "HVAC"},
		{Name: "Dental"},
		{Name: "Plumbing"},
	}

	for _, vertical := range verticals {
		var existing models.Vertical
		result := db.Where("name = ?", vertical.Name).First(&existing)
		if result.Error != nil {
			db.Create(&vertical)
		}
	}
}
