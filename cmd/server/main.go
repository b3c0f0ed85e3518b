package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	"github.com/playmatatu/cuesim/internal/api"
	"github.com/playmatatu/cuesim/internal/config"
	"github.com/playmatatu/cuesim/internal/database"
	"github.com/playmatatu/cuesim/internal/layout"
	"github.com/playmatatu/cuesim/internal/migrations"
	"github.com/playmatatu/cuesim/internal/physics"
	"github.com/playmatatu/cuesim/internal/redis"
	"github.com/playmatatu/cuesim/internal/sim"
	"github.com/playmatatu/cuesim/internal/ws"
)

const shutdownTimeout = 5 * time.Second

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	cfg := config.Load()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Database is optional: without it the table runs from a file or the
	// built-in layout and nothing is persisted.
	var db *sqlx.DB
	if cfg.DatabaseURL != "" {
		var err error
		db, err = database.Connect(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to database: %v", err)
		}
		defer db.Close()

		if cfg.MigrateOnStart {
			log.Println("↗ Running DB migrations on startup...")
			if err := migrations.RunMigrations(cfg.DatabaseURL, cfg.MigrationsDir); err != nil {
				log.Fatalf("Failed to run migrations: %v", err)
			}
		}
	}

	world, err := buildWorld(ctx, cfg, db)
	if err != nil {
		log.Fatalf("Failed to build table: %v", err)
	}

	session := sim.NewSession(cfg.TableID, world, cfg.TickInterval)
	hub := ws.NewHub()
	go hub.Run(ctx)
	session.AddSnapshotSink(hub)

	deps := api.Deps{Config: cfg, Table: session, Hub: hub}

	if cfg.RedisURL != "" {
		store, err := redis.Open(ctx, cfg)
		if err != nil {
			log.Fatalf("Failed to connect to Redis: %v", err)
		}
		defer store.Close()

		session.AddSnapshotSink(store)
		session.AddEventSink(store)
		ws.StartEventSubscriber(ctx, store.Client(), hub, cfg.TableID)
	} else {
		log.Println("[REDIS] Not configured; events go straight to websocket clients")
		session.AddEventSink(hub)
	}

	if db != nil {
		shots := database.NewShotLog(db)
		session.AddEventSink(shots)
		deps.Shots = shots
		deps.Layouts = database.NewLayoutStore(db)
	}

	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	api.SetupRoutes(router, deps)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}
	go func() {
		log.Printf("Starting cuesim table %q on port %s", cfg.TableID, cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	// The table stops with the process; the server stops with the table.
	if err := session.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		log.Printf("[SIM] Session stopped: %v", err)
	}
	stop()

	log.Println("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown: %v", err)
	}
}

// buildWorld resolves the layout: LAYOUT_FILE first, then the named layout in
// the database, then the built-in standard table.
func buildWorld(ctx context.Context, cfg *config.Config, db *sqlx.DB) (*physics.World, error) {
	var l *layout.Layout
	switch {
	case cfg.LayoutFile != "":
		var err error
		if l, err = layout.Load(cfg.LayoutFile); err != nil {
			return nil, err
		}
		log.Printf("[LAYOUT] Loaded %s", cfg.LayoutFile)

	case db != nil:
		stored, err := database.NewLayoutStore(db).Get(ctx, cfg.LayoutName)
		switch {
		case err == nil:
			l = stored
			log.Printf("[LAYOUT] Loaded %q from database", cfg.LayoutName)
		case errors.Is(err, database.ErrLayoutNotFound) && cfg.LayoutName == layout.DefaultName:
			l = layout.Default()
			log.Printf("[LAYOUT] Using built-in %q layout", layout.DefaultName)
		default:
			return nil, err
		}

	default:
		l = layout.Default()
		log.Printf("[LAYOUT] Using built-in %q layout", layout.DefaultName)
	}
	return l.Build(cfg.MaxSubstep)
}
