package handlers

import (
	"log"
	"net/http"

	"geostation-service/internal/api/dto"
	"geostation-service/internal/domain"
	"geostation-service/internal/services"
)

// SettingsHandler reads and replaces the persisted settings. Applying
// settings re-selects the map backend when the key presence flips.
type SettingsHandler struct {
	App *services.Station
}

func (h *SettingsHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPut:
		h.put(w, r)
	default:
		w.Header().Set("Allow", "GET, PUT")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *SettingsHandler) get(w http.ResponseWriter, r *http.Request) {
	s := h.App.Settings()
	writeJSON(w, r, http.StatusOK, dto.SettingsPayload{
		MapKey:     s.MapKey,
		WebhookURL: s.WebhookURL,
	})
}

func (h *SettingsHandler) put(w http.ResponseWriter, r *http.Request) {
	var req dto.SettingsPayload
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	settings := domain.Settings{MapKey: req.MapKey, WebhookURL: req.WebhookURL}
	if err := h.App.ApplySettings(r.Context(), settings); err != nil {
		log.Printf("apply settings failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, dto.SettingsPayload{
		MapKey:     settings.MapKey,
		WebhookURL: settings.WebhookURL,
	})
}
