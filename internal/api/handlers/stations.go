package handlers

import (
	"errors"
	"log"
	"net/http"
	"strings"

	"geostation-service/internal/api/dto"
	"geostation-service/internal/domain"
	"geostation-service/internal/services"
)

// StationHandler exposes the record list: list, create (form submission) and
// delete. Records are immutable, so there is no update.
type StationHandler struct {
	App *services.Station
}

func (h *StationHandler) Handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.list(w, r)
	case http.MethodPost:
		h.create(w, r)
	case http.MethodDelete:
		h.delete(w, r)
	default:
		w.Header().Set("Allow", "GET, POST, DELETE")
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
	}
}

func (h *StationHandler) list(w http.ResponseWriter, r *http.Request) {
	records := h.App.Records()
	res := dto.ListRecordsResponse{Records: make([]dto.RecordResponse, 0, len(records))}
	for _, rec := range records {
		res.Records = append(res.Records, toRecordResponse(rec))
	}
	writeJSON(w, r, http.StatusOK, res)
}

func (h *StationHandler) create(w http.ResponseWriter, r *http.Request) {
	var req dto.CreateRecordRequest
	if err := decodeJSON(r, &req); err != nil {
		writeError(w, r, http.StatusBadRequest, "invalid json body")
		return
	}

	// Required-field checks block submission before anything is persisted.
	if strings.TrimSpace(req.Name) == "" {
		writeError(w, r, http.StatusBadRequest, "name is required")
		return
	}
	if strings.TrimSpace(req.Address) == "" {
		writeError(w, r, http.StatusBadRequest, "address is required")
		return
	}
	if len(req.Images) > domain.MaxImages {
		writeError(w, r, http.StatusBadRequest, "at most 4 images allowed")
		return
	}

	in := services.SubmitInput{
		Name:        req.Name,
		Address:     req.Address,
		Description: req.Description,
		Images:      req.Images,
	}
	if req.Lat != nil && req.Lng != nil {
		pos, err := domain.NewCoordinate(*req.Lat, *req.Lng)
		if err != nil {
			writeError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		in.Position = &pos
	}

	rec, err := h.App.Submit(r.Context(), in)
	if err != nil {
		if errors.Is(err, services.ErrNoSelection) {
			writeError(w, r, http.StatusConflict, "no pending map selection")
			return
		}
		log.Printf("submit failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	writeJSON(w, r, http.StatusCreated, toRecordResponse(rec))
}

func (h *StationHandler) delete(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.URL.Query().Get("id"))
	if id == "" {
		writeError(w, r, http.StatusBadRequest, "id is required")
		return
	}

	if err := h.App.Delete(r.Context(), id); err != nil {
		if errors.Is(err, services.ErrRecordNotFound) {
			writeError(w, r, http.StatusNotFound, "record not found")
			return
		}
		log.Printf("delete failed: %v", err)
		writeError(w, r, http.StatusInternalServerError, "internal server error")
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func toRecordResponse(rec domain.Record) dto.RecordResponse {
	return dto.RecordResponse{
		ID:          rec.ID,
		Name:        rec.Name,
		Address:     rec.Address,
		Lat:         rec.Position.Lat,
		Lng:         rec.Position.Lng,
		Description: rec.Description,
		ImageCount:  len(rec.Images),
		CreatedAt:   rec.CreatedAt,
	}
}
