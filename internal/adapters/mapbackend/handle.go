package mapbackend

import (
	"math"
	"sync"

	"geostation-service/internal/domain"
	"geostation-service/internal/ports"
)

// Clicks within this distance (in degrees) of a marker count as marker hits.
const defaultHitRadius = 0.0005

// handle is the shared live-surface state behind both backends. The rendered
// marker set is keyed by marker identity and only ever changed through the
// reconciler, so SyncMarkers stays idempotent.
type handle struct {
	backend   string
	container string
	tiles     string
	hitRadius float64

	mu       sync.Mutex
	torn     bool
	view     ports.MapView
	rendered map[string]domain.Marker
	byMarker map[string]domain.Record
	onMap    func(domain.Coordinate)
	onMarker func(domain.Record)
	release  func()
}

func newHandle(backend, container, tiles string, view ports.MapView, release func()) *handle {
	return &handle{
		backend:   backend,
		container: container,
		tiles:     tiles,
		hitRadius: defaultHitRadius,
		view:      view,
		rendered:  make(map[string]domain.Marker),
		byMarker:  make(map[string]domain.Record),
		release:   release,
	}
}

func (h *handle) Container() string { return h.container }

// Fixed at construction, so no lock.
func (h *handle) TileTemplate() string { return h.tiles }

func (h *handle) SetView(center domain.Coordinate, zoom int) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.torn {
		return
	}
	h.view.Center = center
	if zoom > 0 {
		h.view.Zoom = zoom
	}
}

func (h *handle) View() ports.MapView {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.view
}

// SyncMarkers applies the reconciler's add/remove diff to the rendered set
// and refreshes the record payloads used for marker-click dispatch.
func (h *handle) SyncMarkers(records []domain.Record, selection *domain.Coordinate) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.torn {
		return
	}

	rendered := make([]domain.Marker, 0, len(h.rendered))
	for _, m := range h.rendered {
		rendered = append(rendered, m)
	}

	diff := domain.Reconcile(rendered, records, selection)
	for _, m := range diff.Remove {
		delete(h.rendered, m.ID)
	}
	for _, m := range diff.Add {
		h.rendered[m.ID] = m
	}

	byMarker := make(map[string]domain.Record, len(records))
	for _, r := range records {
		byMarker[r.ID] = r
	}
	h.byMarker = byMarker
}

func (h *handle) Markers() []domain.Marker {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]domain.Marker, 0, len(h.rendered))
	for _, m := range h.rendered {
		out = append(out, m)
	}
	return out
}

func (h *handle) OnMapClicked(cb func(domain.Coordinate)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMap = cb
}

func (h *handle) OnMarkerClicked(cb func(domain.Record)) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.onMarker = cb
}

// DispatchClick resolves the click target under the handle lock, then invokes
// exactly one callback outside it so handlers can call back into the handle.
func (h *handle) DispatchClick(at domain.Coordinate) {
	h.mu.Lock()
	if h.torn {
		h.mu.Unlock()
		return
	}

	var hit *domain.Record
	best := h.hitRadius
	for id, m := range h.rendered {
		if id == domain.SelectionMarkerID {
			continue
		}
		d := math.Hypot(m.Position.Lat-at.Lat, m.Position.Lng-at.Lng)
		if d <= best {
			if rec, ok := h.byMarker[id]; ok {
				r := rec
				hit = &r
				best = d
			}
		}
	}
	onMap, onMarker := h.onMap, h.onMarker
	h.mu.Unlock()

	if hit != nil {
		if onMarker != nil {
			onMarker(*hit)
		}
		return
	}
	if onMap != nil {
		onMap(at)
	}
}

func (h *handle) Teardown() {
	h.mu.Lock()
	if h.torn {
		h.mu.Unlock()
		return
	}
	h.torn = true
	h.rendered = nil
	h.byMarker = nil
	h.onMap = nil
	h.onMarker = nil
	release := h.release
	h.release = nil
	h.mu.Unlock()

	if release != nil {
		release()
	}
}
