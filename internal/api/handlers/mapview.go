package handlers

import (
	"errors"
	"log"
	"net/http"

	"geostation-service/internal/api/dto"
	"geostation-service/internal/domain"
	"geostation-service/internal/services"
)

// MapHandler feeds user map interactions into the host app.
type MapHandler struct {
	App *services.Station
}

// Click translates a tap on the map surface. The backend disambiguates the
// target: empty surface sets the selection, a marker hit re-centers.
func (h *MapHandler) Click(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	var req dto.ClickRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	at, err := domain.NewCoordinate(req.Lat, req.Lng)
	if err != nil {
		writeError(w, r, http.StatusBadRequest, err.Error())
		return
	}

	if err := h.App.Click(at); err != nil {
		if errors.Is(err, services.ErrBackendUnavailable) {
			writeError(w, r, http.StatusServiceUnavailable, "map backend unavailable")
			return
		}
		log.Printf("click failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusOK, viewResponse(h.App))
}

// CancelSelection discards the pending map click.
func (h *MapHandler) CancelSelection(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.Header().Set("Allow", http.MethodPost)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	h.App.CancelSelection()
	writeJSON(w, r, http.StatusOK, viewResponse(h.App))
}

// View reports and updates the exclusive view mode. The effective mode
// forces the map while a selection is pending.
func (h *MapHandler) View(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, r, http.StatusOK, viewResponse(h.App))
	case http.MethodPost:
		var req dto.SetViewRequest
		if err := decodeJSON(r, &req); err != nil {
			writeError(w, r, http.StatusBadRequest, "invalid json body")
			return
		}
		mode, err := domain.ParseViewMode(req.Mode)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		h.App.SetViewMode(mode)
		writeJSON(w, r, http.StatusOK, viewResponse(h.App))
	default:
		w.Header().Set("Allow", "GET, POST")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func viewResponse(app *services.Station) dto.ViewResponse {
	res := dto.ViewResponse{
		Mode:         string(app.ViewMode()),
		TileURL:      app.TileTemplate(),
		BackendError: app.BackendError(),
	}
	if sel := app.Selection(); sel != nil {
		res.Selection = &dto.CoordinateDTO{Lat: sel.Lat, Lng: sel.Lng}
	}
	return res
}
