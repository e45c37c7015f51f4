package config

import (
	"log"
	"os"

	"github.com/joho/godotenv"
)

type Config struct {
	HTTPPort    string
	DatabaseDSN string
	JWTSecret   string
	CORSOrigins string

	// Weather proxying
	OpenWeatherAPIKey string
	RedisAddr         string // empty disables the weather cache

	// SMS notifications
	TwilioAccountSID string
	TwilioAuthToken  string
	TwilioFromNumber string

	// Optional JSON model file for the yield predictor
	PredictModelPath string
}

func Load() *Config {
	// .env is optional, real deployments set env vars directly
	_ = godotenv.Load()

	cfg := &Config{
		HTTPPort:          getEnv("HTTP_PORT", "8080"),
		DatabaseDSN:       getEnv("DATABASE_DSN", "host=localhost user=postgres password=postgres dbname=agrilink port=5432 sslmode=disable"),
		JWTSecret:         getEnv("JWT_SECRET", ""),
		CORSOrigins:       getEnv("CORS_ALLOWED_ORIGINS", "http://localhost:5173"),
		OpenWeatherAPIKey: getEnv("OPENWEATHER_API_KEY", ""),
		RedisAddr:         getEnv("REDIS_ADDR", ""),
		TwilioAccountSID:  getEnv("TWILIO_ACCOUNT_SID", ""),
		TwilioAuthToken:   getEnv("TWILIO_AUTH_TOKEN", ""),
		TwilioFromNumber:  getEnv("TWILIO_FROM_NUMBER", ""),
		PredictModelPath:  getEnv("PREDICT_MODEL_PATH", "./models/yield_model.json"),
	}

	if cfg.JWTSecret == "" {
		log.Fatal("[FATAL] JWT_SECRET is not set, refusing to start")
	}
	if len(cfg.JWTSecret) < 32 {
		log.Fatal("[FATAL] JWT_SECRET must be at least 32 characters")
	}
	if cfg.TwilioAccountSID == "" || cfg.TwilioAuthToken == "" {
		log.Println("[WARN] Twilio credentials not set, SMS notifications will be skipped")
	}
	if cfg.OpenWeatherAPIKey == "" {
		log.Println("[WARN] OPENWEATHER_API_KEY not set, weather falls back to Open-Meteo")
	}

	return cfg
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
