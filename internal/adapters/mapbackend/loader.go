package mapbackend

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sync"
	"time"
)

const scriptProbeTimeout = 10 * time.Second

// GoogleScriptURL builds the commercial provider's script URL for a key.
func GoogleScriptURL(key string) string {
	return "https://maps.googleapis.com/maps/api/js?key=" + url.QueryEscape(key)
}

// ScriptLoader is the explicit "ensure dependency ready" step a backend
// awaits before constructing a surface. The outcome of the first completed
// probe is remembered: a failed commercial script load stays failed until the
// key is corrected and a fresh loader is built. There is no automatic
// fallback to the open-tile backend on failure.
type ScriptLoader struct {
	url    string
	client *http.Client

	mu   sync.Mutex
	done bool
	err  error
}

func NewScriptLoader(scriptURL string) *ScriptLoader {
	return &ScriptLoader{
		url:    scriptURL,
		client: &http.Client{Timeout: scriptProbeTimeout},
	}
}

// Ready blocks until the script's availability is known and returns the
// remembered outcome on subsequent calls. Context cancellation is the caller
// giving up, not the dependency failing, so it is not remembered.
func (l *ScriptLoader) Ready(ctx context.Context) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if l.done {
		return l.err
	}

	err := l.probe(ctx)
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return err
	}

	l.done = true
	l.err = err
	return l.err
}

func (l *ScriptLoader) probe(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, l.url, nil)
	if err != nil {
		return fmt.Errorf("script probe: create request: %w", err)
	}

	resp, err := l.client.Do(req)
	if err != nil {
		return fmt.Errorf("script probe: fetch %q: %w", l.url, err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode >= 400 {
		return fmt.Errorf("script probe: %q returned status %d", l.url, resp.StatusCode)
	}

	return nil
}
