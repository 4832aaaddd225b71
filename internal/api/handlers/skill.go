package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"spokesperson/internal/alexa"
)

type SkillHandler struct {
	dialog SkillService
	appID  string
}

// NewSkillHandler creates the webhook handler for the voice platform.
// Requests carrying an application id other than appID are rejected;
// an empty appID disables the check for local development.
func NewSkillHandler(dialog SkillService, appID string) *SkillHandler {
	return &SkillHandler{dialog: dialog, appID: appID}
}

// Webhook receives one voice turn and returns the spoken response.
func (h *SkillHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var env alexa.RequestEnvelope
	if err := json.NewDecoder(r.Body).Decode(&env); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error": "Invalid request body",
		})
		return
	}

	if h.appID != "" && env.Session.Application.ApplicationID != h.appID {
		slog.Warn("rejected request from unrecognized application",
			"application_id", env.Session.Application.ApplicationID,
		)
		writeJSON(w, http.StatusForbidden, map[string]any{
			"error": "Unrecognized application id",
		})
		return
	}

	writeJSON(w, http.StatusOK, h.dialog.Handle(r.Context(), env))
}
