package api

import (
	"net/http"
	"time"

	"spokesperson/internal/api/handlers"
)

// NewRouter creates and configures the HTTP router with all routes and middleware
func NewRouter(skill *handlers.SkillHandler) http.Handler {
	mux := http.NewServeMux()

	healthHandler := handlers.NewHealthHandler()
	rootHandler := handlers.NewRootHandler()

	mux.HandleFunc("GET /{$}", rootHandler.Index)
	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("POST /skill", skill.Webhook)
	mux.HandleFunc("/", rootHandler.NotFound)

	return Chain(mux,
		Recovery,
		Logging,
		Timeout(15*time.Second),
	)
}
