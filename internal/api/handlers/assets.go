package handlers

import (
	"log"
	"net/http"

	"geostation-service/internal/adapters/assets"
)

// AssetHandler serves the pre-fetched static assets cache-first. Only URLs
// on the fixed asset list are served; anything else is rejected.
type AssetHandler struct {
	Cache *assets.Cache
}

func (h *AssetHandler) Handle(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.Header().Set("Allow", http.MethodGet)
		writeError(w, r, http.StatusMethodNotAllowed, "method not allowed")
		return
	}
	if h.Cache == nil {
		writeError(w, r, http.StatusServiceUnavailable, "asset cache not configured")
		return
	}

	url := r.URL.Query().Get("url")
	if !allowedAsset(url) {
		writeError(w, r, http.StatusNotFound, "unknown asset")
		return
	}

	asset, err := h.Cache.Get(r.Context(), url)
	if err != nil {
		log.Printf("asset fetch failed: url=%s err=%v", url, err)
		writeError(w, r, http.StatusBadGateway, "asset unavailable")
		return
	}

	if asset.ContentType != "" {
		w.Header().Set("Content-Type", asset.ContentType)
	}
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(asset.Body); err != nil {
		log.Printf("asset write failed: url=%s err=%v", url, err)
	}
}

func allowedAsset(url string) bool {
	for _, known := range assets.DefaultAssetList() {
		if url == known {
			return true
		}
	}
	return false
}
