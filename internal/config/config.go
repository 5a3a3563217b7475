package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	DatabaseURL string
	ServerPort  string

	JWTSecret string

	// Bootstrap superuser, created at startup when no superuser exists.
	AdminUsername string
	AdminPassword string
	AdminName     string
	AdminPhone    string
	AdminAddress  string
	AdminPincode  string

	SendgridAPIKey    string
	SendgridFromEmail string
	SendgridFromName  string

	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// Cron spec for the daily operations summary log.
	SummarySchedule string
}

func Load() *Config {
	if err := godotenv.Load(); err != nil && !os.IsNotExist(err) {
		log.Printf("Warning: could not load .env file: %v", err)
	}

	return &Config{
		DatabaseURL: getEnv("DATABASE_URL", ""),
		ServerPort:  getEnv("PORT", "8080"),

		JWTSecret: getEnv("JWT_SECRET", ""),

		AdminUsername: getEnv("ADMIN_USERNAME", "admin@parkease.com"),
		AdminPassword: getEnv("ADMIN_PASSWORD", ""),
		AdminName:     getEnv("ADMIN_NAME", "ParkEase Admin"),
		AdminPhone:    getEnv("ADMIN_PHONE", "9876543210"),
		AdminAddress:  getEnv("ADMIN_ADDRESS", "101 Admin Plaza"),
		AdminPincode:  getEnv("ADMIN_PINCODE", "751001"),

		SendgridAPIKey:    getEnv("SENDGRID_API_KEY", ""),
		SendgridFromEmail: getEnv("SENDGRID_FROM_EMAIL", ""),
		SendgridFromName:  getEnv("SENDGRID_FROM_NAME", "ParkEase"),

		TwilioAccountSID: getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:  getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber: getEnv("TWILIO_FROM_NUMBER", ""),

		SummarySchedule: getEnv("SUMMARY_CRON", "0 0 * * *"),
	}
}

func getEnv(key, fallback string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return fallback
}
