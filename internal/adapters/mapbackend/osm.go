package mapbackend

import (
	"context"
	"fmt"
	"log"
	"sync"

	"geostation-service/internal/adapters/assets"
	"geostation-service/internal/ports"
)

// Standard OpenStreetMap raster tile template used by the fallback backend.
const OSMTileTemplate = "https://tile.openstreetmap.org/{z}/{x}/{y}.png"

// OSMBackend is the open-tile fallback: no provider key, no script gating.
// When an asset cache is wired in it warms the leaflet script/stylesheet
// before the first surface is built, but a cold cache never blocks rendering.
type OSMBackend struct {
	tiles string
	cache *assets.Cache

	mu     sync.Mutex
	closed bool
	live   map[string]*handle
}

func NewOSMBackend(assetCache *assets.Cache) *OSMBackend {
	return &OSMBackend{
		tiles: OSMTileTemplate,
		cache: assetCache,
		live:  make(map[string]*handle),
	}
}

func (o *OSMBackend) Name() string { return "osm" }

func (o *OSMBackend) Initialize(ctx context.Context, container string, view ports.MapView) (ports.MapHandle, error) {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return nil, fmt.Errorf("osm backend: backend is shut down: %w", ports.ErrNotReady)
	}
	if h, ok := o.live[container]; ok {
		o.mu.Unlock()
		return h, nil
	}
	o.mu.Unlock()

	if o.cache != nil {
		if err := o.cache.Prefetch(ctx, assets.LeafletAssets()); err != nil {
			log.Printf("osm backend: asset warm failed: %v", err)
		}
	}

	o.mu.Lock()
	defer o.mu.Unlock()
	if o.closed {
		return nil, fmt.Errorf("osm backend: shut down while warming: %w", ports.ErrNotReady)
	}
	if h, ok := o.live[container]; ok {
		return h, nil
	}

	h := newHandle(o.Name(), container, o.tiles, view, func() { o.forget(container) })
	o.live[container] = h
	return h, nil
}

func (o *OSMBackend) forget(container string) {
	o.mu.Lock()
	delete(o.live, container)
	o.mu.Unlock()
}

// Shutdown tears down every live handle and rejects further Initialize calls.
func (o *OSMBackend) Shutdown() {
	o.mu.Lock()
	if o.closed {
		o.mu.Unlock()
		return
	}
	o.closed = true
	handles := make([]*handle, 0, len(o.live))
	for _, h := range o.live {
		handles = append(handles, h)
	}
	o.live = make(map[string]*handle)
	o.mu.Unlock()

	for _, h := range handles {
		h.Teardown()
	}
}
