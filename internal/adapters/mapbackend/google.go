package mapbackend

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"geostation-service/internal/ports"
)

// GoogleBackend implements the commercial map backend. Construction requires
// a non-empty provider key, and Initialize awaits the script loader before
// building a surface. A failed script load is remembered by the loader; the
// backend stays non-rendering until the key is corrected (no automatic
// fallback to the open-tile backend).
type GoogleBackend struct {
	key    string
	loader *ScriptLoader

	mu     sync.Mutex
	closed bool
	live   map[string]*handle
}

// NewGoogleBackend builds the backend. A nil loader probes the provider's
// script URL derived from the key.
func NewGoogleBackend(key string, loader *ScriptLoader) (*GoogleBackend, error) {
	key = strings.TrimSpace(key)
	if key == "" {
		return nil, errors.New("google backend: provider key is empty")
	}
	if loader == nil {
		loader = NewScriptLoader(GoogleScriptURL(key))
	}
	return &GoogleBackend{
		key:    key,
		loader: loader,
		live:   make(map[string]*handle),
	}, nil
}

func (g *GoogleBackend) Name() string { return "google" }

// Initialize constructs the map surface exactly once per container. A second
// call while a handle is live is a no-op returning the existing handle.
func (g *GoogleBackend) Initialize(ctx context.Context, container string, view ports.MapView) (ports.MapHandle, error) {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return nil, fmt.Errorf("google backend: backend is shut down: %w", ports.ErrNotReady)
	}
	if h, ok := g.live[container]; ok {
		g.mu.Unlock()
		return h, nil
	}
	g.mu.Unlock()

	if err := g.loader.Ready(ctx); err != nil {
		return nil, fmt.Errorf("google backend: maps script unavailable: %v: %w", err, ports.ErrNotReady)
	}

	g.mu.Lock()
	defer g.mu.Unlock()
	// The ready signal may fire after the container was already torn down.
	if g.closed {
		return nil, fmt.Errorf("google backend: shut down while loading: %w", ports.ErrNotReady)
	}
	if h, ok := g.live[container]; ok {
		return h, nil
	}

	// The commercial provider's script loads its own tiles.
	h := newHandle(g.Name(), container, "", view, func() { g.forget(container) })
	g.live[container] = h
	return h, nil
}

func (g *GoogleBackend) forget(container string) {
	g.mu.Lock()
	delete(g.live, container)
	g.mu.Unlock()
}

// Shutdown tears down every live handle and rejects further Initialize calls.
func (g *GoogleBackend) Shutdown() {
	g.mu.Lock()
	if g.closed {
		g.mu.Unlock()
		return
	}
	g.closed = true
	handles := make([]*handle, 0, len(g.live))
	for _, h := range g.live {
		handles = append(handles, h)
	}
	g.live = make(map[string]*handle)
	g.mu.Unlock()

	for _, h := range handles {
		h.Teardown()
	}
}
