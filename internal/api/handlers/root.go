package handlers

import "net/http"

type RootHandler struct{}

func NewRootHandler() *RootHandler {
	return &RootHandler{}
}

func (h *RootHandler) Index(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"name":        "spokesperson",
		"description": "Voice-driven bike-share station status",
		"endpoints": map[string]string{
			"GET /":       "API information",
			"GET /health": "Health check",
			"POST /skill": "Voice platform webhook",
		},
	})
}

func (h *RootHandler) NotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]any{
		"error": "Not found",
	})
}
