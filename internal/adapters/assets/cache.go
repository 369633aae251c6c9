// Package assets implements the offline asset cache: a fixed list of static
// resources (map library scripts, stylesheets, tile roots) is pre-fetched
// into Redis under a static cache identifier and served cache-first, falling
// back to a live fetch on a miss. There is no invalidation beyond bumping
// the identifier.
package assets

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

// CacheID is the static cache identifier. Bumping the suffix is the only
// supported form of invalidation.
const CacheID = "geostation-static-v1"

const (
	fetchTimeout     = 15 * time.Second
	maxAssetBytes    = 8 << 20 // 8 MiB per asset
	prefetchParallel = 4
)

const (
	leafletJS  = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.js"
	leafletCSS = "https://unpkg.com/leaflet@1.9.4/dist/leaflet.css"
)

// LeafletAssets lists the open-tile backend's script and stylesheet.
func LeafletAssets() []string {
	return []string{leafletJS, leafletCSS}
}

// DefaultAssetList is the fixed pre-fetch list served cache-first.
func DefaultAssetList() []string {
	return LeafletAssets()
}

// A cached static asset.
type Asset struct {
	Body        []byte
	ContentType string
}

// Cache is a Redis-backed, cache-first fetcher for static assets.
type Cache struct {
	client  *redis.Client
	session *http.Client
	prefix  string
}

func NewCache(client *redis.Client) *Cache {
	return &Cache{
		client:  client,
		session: &http.Client{Timeout: fetchTimeout},
		prefix:  CacheID,
	}
}

func (c *Cache) bodyKey(url string) string { return c.prefix + ":body:" + url }
func (c *Cache) typeKey(url string) string { return c.prefix + ":type:" + url }

// Get returns an asset cache-first: a hit is served from Redis, a miss falls
// back to a live fetch whose result populates the cache for next time.
func (c *Cache) Get(ctx context.Context, url string) (Asset, error) {
	if c.client == nil {
		return Asset{}, errors.New("asset cache: redis client is nil")
	}

	body, err := c.client.Get(ctx, c.bodyKey(url)).Bytes()
	if err == nil {
		contentType, _ := c.client.Get(ctx, c.typeKey(url)).Result()
		return Asset{Body: body, ContentType: contentType}, nil
	}
	if !errors.Is(err, redis.Nil) {
		return Asset{}, fmt.Errorf("asset cache: read %q: %w", url, err)
	}

	asset, err := c.fetch(ctx, url)
	if err != nil {
		return Asset{}, err
	}

	if err := c.put(ctx, url, asset); err != nil {
		return Asset{}, err
	}
	return asset, nil
}

// Prefetch warms the cache for a fixed asset list. Assets already cached are
// skipped; a single failed asset fails the batch so callers can log it.
func (c *Cache) Prefetch(ctx context.Context, urls []string) error {
	if c.client == nil {
		return errors.New("asset cache: redis client is nil")
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(prefetchParallel)
	for _, u := range urls {
		u := u
		g.Go(func() error {
			exists, err := c.client.Exists(gctx, c.bodyKey(u)).Result()
			if err != nil {
				return fmt.Errorf("asset cache: check %q: %w", u, err)
			}
			if exists > 0 {
				return nil
			}

			asset, err := c.fetch(gctx, u)
			if err != nil {
				return err
			}
			return c.put(gctx, u, asset)
		})
	}
	return g.Wait()
}

func (c *Cache) fetch(ctx context.Context, url string) (Asset, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Asset{}, fmt.Errorf("asset cache: create request for %q: %w", url, err)
	}

	resp, err := c.session.Do(req)
	if err != nil {
		return Asset{}, fmt.Errorf("asset cache: fetch %q: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Asset{}, fmt.Errorf("asset cache: fetch %q: unexpected status %d", url, resp.StatusCode)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxAssetBytes))
	if err != nil {
		return Asset{}, fmt.Errorf("asset cache: read body of %q: %w", url, err)
	}

	return Asset{Body: body, ContentType: resp.Header.Get("Content-Type")}, nil
}

func (c *Cache) put(ctx context.Context, url string, asset Asset) error {
	// No TTL: entries live until the cache identifier changes.
	if err := c.client.Set(ctx, c.bodyKey(url), asset.Body, 0).Err(); err != nil {
		return fmt.Errorf("asset cache: store %q: %w", url, err)
	}
	if err := c.client.Set(ctx, c.typeKey(url), asset.ContentType, 0).Err(); err != nil {
		return fmt.Errorf("asset cache: store content type of %q: %w", url, err)
	}
	return nil
}
