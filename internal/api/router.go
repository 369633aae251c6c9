package api

import (
	"net/http"

	"geostation-service/internal/adapters/assets"
	"geostation-service/internal/api/handlers"
	"geostation-service/internal/services"
)

// NewRouter wires HTTP handlers with their dependencies and returns an http.Handler.
// This is the API composition root (handlers stay unaware of concrete adapters).
// assetCache may be nil when no Redis is configured; the asset endpoint then
// answers 503 and the map backends fetch live.
func NewRouter(app *services.Station, assetCache *assets.Cache) http.Handler {
	mux := http.NewServeMux()

	stationHandler := &handlers.StationHandler{App: app}
	mapHandler := &handlers.MapHandler{App: app}
	settingsHandler := &handlers.SettingsHandler{App: app}
	exportHandler := &handlers.ExportHandler{App: app}
	assetHandler := &handlers.AssetHandler{Cache: assetCache}

	mux.HandleFunc("/health", handlers.Health)
	mux.HandleFunc("/stations", stationHandler.Handle)
	mux.HandleFunc("/map/click", mapHandler.Click)
	mux.HandleFunc("/selection/cancel", mapHandler.CancelSelection)
	mux.HandleFunc("/view", mapHandler.View)
	mux.HandleFunc("/settings", settingsHandler.Handle)
	mux.HandleFunc("/export.csv", exportHandler.Handle)
	mux.HandleFunc("/assets", assetHandler.Handle)

	return loggingMiddleware(mux)
}
