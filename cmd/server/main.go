package main

import (
	"context"
	"database/sql"
	"fmt"
	"log"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	_ "modernc.org/sqlite"

	"geostation-service/internal/adapters/assets"
	"geostation-service/internal/adapters/caption"
	"geostation-service/internal/adapters/mapbackend"
	"geostation-service/internal/adapters/store"
	"geostation-service/internal/adapters/webhook"
	"geostation-service/internal/api"
	"geostation-service/internal/config"
	"geostation-service/internal/domain"
	"geostation-service/internal/platform/db"
	"geostation-service/internal/ports"
	"geostation-service/internal/services"
)

// Default camera: central Hanoi, street-level context.
const (
	defaultCenterLat = 21.0278
	defaultCenterLng = 105.8342
	defaultZoom      = 13
	mapContainer     = "map"
)

// main is the application composition root.
// It wires concrete adapters (SQLite/Postgres, Redis, Gemini) behind ports
// and starts the HTTP server.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found (using environment variables)")
	}

	port := config.Get("PORT", "8080")

	kv, closeDB, err := openStore()
	if err != nil {
		log.Fatal(err)
	}
	defer closeDB()

	assetCache := openAssetCache()

	captioner := openCaptioner()
	notifier := webhook.NewNotifier()

	factory := mapbackend.NewFactory(assetCache)
	selector := mapbackend.NewSelector(factory, mapContainer, ports.MapView{
		Center: domain.Coordinate{Lat: defaultCenterLat, Lng: defaultCenterLng},
		Zoom:   defaultZoom,
	})

	app := services.NewStation(kv, selector, captioner, notifier)
	if err := app.Load(context.Background()); err != nil {
		log.Fatal(err)
	}
	// A missing or bad map key must not keep the server from starting: the
	// record list, settings and export still work without a map surface.
	if err := app.EnsureBackend(context.Background()); err != nil {
		log.Printf("map backend unavailable at startup: %v", err)
	}

	router := api.NewRouter(app, assetCache)

	log.Printf("Server listening addr=:%s", port)
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
	}
	log.Fatal(srv.ListenAndServe())
}

// openStore picks Postgres when DATABASE_URL is set, SQLite otherwise.
func openStore() (ports.KeyValueStore, func(), error) {
	if databaseURL := strings.TrimSpace(os.Getenv("DATABASE_URL")); databaseURL != "" {
		pg, err := db.OpenPostgres(databaseURL)
		if err != nil {
			return nil, nil, err
		}
		return store.NewSQLKVStore(pg), func() { pg.Close() }, nil
	}

	dbPath := config.Get("DB_PATH", "data/app.db")
	sq, err := db.OpenSqlite(dbPath)
	if err != nil {
		return nil, nil, err
	}
	if err := initSchema(sq); err != nil {
		sq.Close()
		return nil, nil, err
	}
	return store.NewSqliteKVStore(sq), func() { sq.Close() }, nil
}

func initSchema(sq *sql.DB) error {
	if err := store.InitSchema(sq); err != nil {
		return fmt.Errorf("init schema: %w", err)
	}
	return nil
}

// openAssetCache connects Redis when REDIS_ADDR is set and pre-fetches the
// static asset list. Both the connection and the prefetch are best effort.
func openAssetCache() *assets.Cache {
	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil
	}

	client := redis.NewClient(&redis.Options{Addr: addr})
	cache := assets.NewCache(client)

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := cache.Prefetch(ctx, assets.DefaultAssetList()); err != nil {
		log.Printf("asset prefetch incomplete: %v", err)
	}
	return cache
}

func openCaptioner() ports.Captioner {
	apiKey := strings.TrimSpace(os.Getenv("GEMINI_API_KEY"))
	if apiKey == "" {
		log.Println("GEMINI_API_KEY not set; captions fall back to the default text")
		return nil
	}

	model := config.Get("GEMINI_MODEL", "")
	c, err := caption.NewGeminiCaptioner(context.Background(), apiKey, model)
	if err != nil {
		log.Printf("captioner unavailable: %v", err)
		return nil
	}
	return c
}
