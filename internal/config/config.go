package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds server configuration.
type Config struct {
	Port              string
	LogLevel          string
	DatabaseURL       string
	RedisAddr         string
	RedisPassword     string
	RouteCacheTTL     time.Duration
	GoogleMapsAPIKey  string
	DirectionsBaseURL string
	Timezone          string
	SeedPath          string
	AverageSpeedKmh   float64
}

// ClientConfig holds the field workflow client configuration.
type ClientConfig struct {
	APIBaseURL       string
	LogLevel         string
	Timezone         string
	IPGeolocationURL string
	DeviceLatitude   string
	DeviceLongitude  string
	LocationTimeout  time.Duration
}

// LoadDotEnv reads a .env file when present. A missing file is not an error.
func LoadDotEnv(paths ...string) bool {
	return godotenv.Load(paths...) == nil
}

// Load reads server configuration from environment variables.
func Load() *Config {
	return &Config{
		Port:              Get("PORT", "8080"),
		LogLevel:          Get("LOG_LEVEL", "info"),
		DatabaseURL:       Get("DATABASE_URL", ""),
		RedisAddr:         Get("REDIS_ADDR", ""),
		RedisPassword:     Get("REDIS_PASSWORD", ""),
		RouteCacheTTL:     GetDuration("ROUTE_CACHE_TTL", 6*time.Hour),
		GoogleMapsAPIKey:  strings.TrimSpace(Get("GOOGLE_MAPS_API_KEY", "")),
		DirectionsBaseURL: Get("DIRECTIONS_BASE_URL", "https://maps.googleapis.com"),
		Timezone:          Get("APP_TIMEZONE", "America/Sao_Paulo"),
		SeedPath:          Get("SEED_PATH", "data/seeds/patients.json"),
		AverageSpeedKmh:   GetFloat("AVERAGE_SPEED_KMH", 30),
	}
}

// LoadClient reads workflow client configuration from environment variables.
func LoadClient() *ClientConfig {
	return &ClientConfig{
		APIBaseURL:       Get("API_BASE_URL", "http://localhost:8080"),
		LogLevel:         Get("LOG_LEVEL", "warn"),
		Timezone:         Get("APP_TIMEZONE", "America/Sao_Paulo"),
		IPGeolocationURL: Get("IP_GEOLOCATION_URL", "http://ip-api.com/json"),
		DeviceLatitude:   Get("DEVICE_LATITUDE", ""),
		DeviceLongitude:  Get("DEVICE_LONGITUDE", ""),
		LocationTimeout:  GetDuration("LOCATION_TIMEOUT", 10*time.Second),
	}
}

// Location resolves the configured time zone, falling back to UTC.
func Location(name string) *time.Location {
	loc, err := time.LoadLocation(name)
	if err != nil {
		return time.UTC
	}
	return loc
}

// Get retrieves an environment variable or returns a default value
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func GetInt(key string, fallback int) int {
	if v, err := strconv.Atoi(Get(key, "")); err == nil {
		return v
	}
	return fallback
}

func GetFloat(key string, fallback float64) float64 {
	if v, err := strconv.ParseFloat(Get(key, ""), 64); err == nil {
		return v
	}
	return fallback
}

func GetBool(key string, fallback bool) bool {
	if v, err := strconv.ParseBool(Get(key, "")); err == nil {
		return v
	}
	return fallback
}

func GetDuration(key string, fallback time.Duration) time.Duration {
	raw := Get(key, "")
	if raw == "" {
		return fallback
	}
	if v, err := time.ParseDuration(raw); err == nil {
		return v
	}
	return fallback
}
