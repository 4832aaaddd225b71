// Package config handles application configuration from environment variables.
package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Config holds all application configuration.
type Config struct {
	Port string
	Env  string

	// AppID is the voice platform's application id; requests carrying a
	// different id are rejected.
	AppID string

	// GBFSURL is the bike-share network's GBFS discovery document.
	GBFSURL string

	// MapsAPIKey authenticates against the geocoding provider.
	MapsAPIKey string

	// Speech personalization for the configured network.
	NetworkName   string
	SampleStation string
	DefaultCity   string
	DefaultState  string
	TimeZone      string

	// StoreBackend selects the persistence technology: "badger", "s3",
	// or "memory".
	StoreBackend string
	BadgerDir    string
	S3Bucket     string
	S3Prefix     string

	HTTPTimeout  time.Duration
	DiscoveryTTL time.Duration
}

// Load reads configuration from environment variables with sensible defaults.
func Load() *Config {
	return &Config{
		Port:          getEnv("PORT", "3000"),
		Env:           getEnv("ENV", "development"),
		AppID:         getEnv("SKILL_APP_ID", ""),
		GBFSURL:       getEnv("GBFS_URL", "https://gbfs.divvybikes.com/gbfs/gbfs.json"),
		MapsAPIKey:    getEnv("MAPS_API_KEY", ""),
		NetworkName:   getEnv("NETWORK_NAME", "Divvy"),
		SampleStation: getEnv("SAMPLE_STATION", "Ashland Avenue and Grand Avenue"),
		DefaultCity:   getEnv("DEFAULT_CITY", "Chicago"),
		DefaultState:  getEnv("DEFAULT_STATE", "IL"),
		TimeZone:      getEnv("TIME_ZONE", "America/Chicago"),
		StoreBackend:  getEnv("STORE_BACKEND", "badger"),
		BadgerDir:     getEnv("BADGER_DIR", "data/addresses"),
		S3Bucket:      getEnv("S3_BUCKET", ""),
		S3Prefix:      getEnv("S3_PREFIX", ""),
		HTTPTimeout:   getDurationEnv("HTTP_TIMEOUT_SECONDS", 10) * time.Second,
		DiscoveryTTL:  getDurationEnv("DISCOVERY_TTL_SECONDS", 3600) * time.Second,
	}
}

// IsDevelopment returns true if running in development mode.
func (c *Config) IsDevelopment() bool {
	return c.Env == "development"
}

// Validate checks that required configuration is present.
func (c *Config) Validate() error {
	if c.GBFSURL == "" {
		return fmt.Errorf("GBFS_URL is required")
	}
	switch c.StoreBackend {
	case "badger":
		if c.BadgerDir == "" {
			return fmt.Errorf("BADGER_DIR is required for the badger store backend")
		}
	case "s3":
		if c.S3Bucket == "" {
			return fmt.Errorf("S3_BUCKET is required for the s3 store backend")
		}
	case "memory":
	default:
		return fmt.Errorf("unknown STORE_BACKEND %q", c.StoreBackend)
	}
	if !c.IsDevelopment() && c.AppID == "" {
		return fmt.Errorf("SKILL_APP_ID is required outside development")
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationEnv(key string, defaultSeconds int) time.Duration {
	if value := os.Getenv(key); value != "" {
		if seconds, err := strconv.Atoi(value); err == nil {
			return time.Duration(seconds)
		}
	}
	return time.Duration(defaultSeconds)
}
