// Package main is the entry point for the spokesperson server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/joho/godotenv"

	"spokesperson/internal/api"
	"spokesperson/internal/api/handlers"
	"spokesperson/internal/config"
	"spokesperson/internal/dialog"
	"spokesperson/internal/feed"
	"spokesperson/internal/geo"
	"spokesperson/internal/kv"
	"spokesperson/internal/store"
)

func main() {
	// Load .env if present; deployed environments set variables directly.
	_ = godotenv.Load()

	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal("Configuration error: ", err)
	}

	backend, err := newStoreBackend(cfg)
	if err != nil {
		log.Fatal("Store backend error: ", err)
	}
	defer backend.Close()

	feedSvc := feed.NewService(cfg.GBFSURL, cfg.HTTPTimeout, cfg.DiscoveryTTL)
	geocoder := geo.NewGeocoder(cfg.MapsAPIKey, cfg.HTTPTimeout)
	addressStore := store.New(backend)

	dlg := dialog.New(feedSvc, geocoder, addressStore, cfg)
	router := api.NewRouter(handlers.NewSkillHandler(dlg, cfg.AppID))

	server := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	fmt.Printf("🚲 spokesperson server starting on port %s\n", cfg.Port)
	fmt.Printf("📍 Environment: %s\n", cfg.Env)
	fmt.Printf("🔗 http://localhost:%s\n", cfg.Port)

	if err := server.ListenAndServe(); err != nil {
		log.Fatal("Server failed to start: ", err)
	}
}

// newStoreBackend builds the persistence layer named by STORE_BACKEND.
func newStoreBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.StoreBackend {
	case "badger":
		return kv.NewBadger(kv.BadgerOptions{Dir: cfg.BadgerDir})
	case "s3":
		awsCfg, err := awsconfig.LoadDefaultConfig(context.Background())
		if err != nil {
			return nil, fmt.Errorf("loading AWS configuration: %w", err)
		}
		return kv.NewS3(s3.NewFromConfig(awsCfg), cfg.S3Bucket, cfg.S3Prefix), nil
	case "memory":
		return kv.NewMemory(), nil
	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.StoreBackend)
	}
}
