package handlers

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"geostation-service/internal/services"
)

// ExportHandler serves the record list as a CSV download.
type ExportHandler struct {
	App *services.Station
}

func (h *ExportHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	body := services.ExportCSV(h.App.Records())
	name := services.ExportFilename(time.Now())

	w.Header().Set("Content-Type", "text/csv; charset=utf-8")
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Printf("export write failed: %v", err)
	}
}
