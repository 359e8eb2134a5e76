package main

import (
	"context"
	"flag"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/goflowspace/linksnap/internal/config"
	"github.com/goflowspace/linksnap/internal/handler"
	"github.com/goflowspace/linksnap/internal/hub"
	"github.com/goflowspace/linksnap/internal/layout"
	"github.com/goflowspace/linksnap/internal/logger"
	"github.com/goflowspace/linksnap/internal/service"
	"github.com/goflowspace/linksnap/internal/settings"
	"github.com/goflowspace/linksnap/internal/snap"
	"github.com/goflowspace/linksnap/internal/store"
	"github.com/goflowspace/linksnap/internal/store/sqlite"
)

func main() {
	// Command line flags override the config file
	configPath := flag.String("config", "", "config file path")
	addr := flag.String("addr", "", "HTTP listen address")
	dbPath := flag.String("db", "", "SQLite database path")
	canvasID := flag.String("canvas", "", "canvas to load on startup")
	flag.Parse()

	var cfg *config.Config
	var cfgPath string
	var err error
	if *configPath != "" {
		cfg, cfgPath, err = config.LoadFromPath(*configPath)
	} else {
		cfg, cfgPath, err = config.Load()
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load config: %v\n", err)
		os.Exit(1)
	}
	if *addr != "" {
		cfg.Server.Addr = *addr
	}
	if *dbPath != "" {
		cfg.Database.Path = *dbPath
	}
	if *canvasID != "" {
		cfg.Server.CanvasID = *canvasID
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to build logger: %v\n", err)
		os.Exit(1)
	}
	if cfgPath != "" {
		log.Info().Str("path", cfgPath).Msg("loaded config")
	}

	// SQLite write-through repository
	repo, err := sqlite.New(cfg.Database.Path)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Database.Path).Msg("failed to open database")
	}
	defer repo.Close()
	log.Info().Str("path", cfg.Database.Path).Msg("database opened")

	// Event bus
	eventBus := service.NewEventBus()

	// SSE hub
	sseHub := hub.New(log)
	go sseHub.Run()

	// Bridge canvas events into the SSE hub
	eventChan := make(chan service.Event, 100)
	eventBus.Subscribe(eventChan)
	go func() {
		for event := range eventChan {
			sseHub.Broadcast(event)
		}
	}()

	// Settings file with hot reload
	settingsProv, err := settings.NewFileProvider(cfg.Settings.Path, log)
	if err != nil {
		log.Fatal().Err(err).Str("path", cfg.Settings.Path).Msg("failed to load settings")
	}
	watchCtx, watchCancel := context.WithCancel(context.Background())
	defer watchCancel()
	go func() {
		if err := settingsProv.Watch(watchCtx); err != nil && err != context.Canceled {
			log.Warn().Err(err).Msg("settings watcher stopped")
		}
	}()

	// Canvas service over the in-memory store
	st := store.NewMemory()
	svc := service.NewCanvasService(st, repo, settingsProv, eventBus, log)
	if err := svc.Load(context.Background(), cfg.Server.CanvasID); err != nil {
		log.Fatal().Err(err).Str("canvas_id", cfg.Server.CanvasID).Msg("failed to load canvas")
	}
	log.Info().Str("canvas_id", cfg.Server.CanvasID).Msg("canvas loaded")

	// Snap engine
	geometry := layout.NewCache()
	engine := snap.NewEngine(cfg.Snap.Engine(), snap.Deps{
		Store:     svc,
		Settings:  settingsProv,
		Pins:      st,
		Oracle:    geometry,
		Connector: svc,
		Logger:    log,
	})

	canvasHandler := handler.NewCanvasHandler(svc, settingsProv, log)
	dragHandler := handler.NewDragHandler(svc, engine, geometry, eventBus, log)

	mux := http.NewServeMux()

	// Canvas
	mux.HandleFunc("GET /api/canvas", canvasHandler.GetCanvas)

	// Nodes
	mux.HandleFunc("POST /api/nodes", canvasHandler.CreateNode)
	mux.HandleFunc("PUT /api/nodes/{id}", canvasHandler.UpdateNode)
	mux.HandleFunc("DELETE /api/nodes/{id}", canvasHandler.DeleteNode)
	mux.HandleFunc("PUT /api/nodes/{id}/position", canvasHandler.UpdatePosition)

	// Layer pins
	mux.HandleFunc("PUT /api/layers/{id}/pins", canvasHandler.UpdatePins)

	// Edges
	mux.HandleFunc("POST /api/edges", canvasHandler.CreateEdge)
	mux.HandleFunc("DELETE /api/edges/{id}", canvasHandler.DeleteEdge)

	// History
	mux.HandleFunc("POST /api/undo", canvasHandler.Undo)
	mux.HandleFunc("POST /api/redo", canvasHandler.Redo)
	mux.HandleFunc("GET /api/history", canvasHandler.GetHistory)

	// Settings
	mux.HandleFunc("GET /api/settings", canvasHandler.GetSettings)
	mux.HandleFunc("PUT /api/settings", canvasHandler.UpdateSettings)

	// Import/Export
	mux.HandleFunc("POST /api/import/yaml", canvasHandler.ImportYAML)
	mux.HandleFunc("POST /api/import/json", canvasHandler.ImportJSON)
	mux.HandleFunc("GET /api/export/yaml", canvasHandler.ExportYAML)
	mux.HandleFunc("GET /api/export/json", canvasHandler.ExportJSON)

	// Live endpoints
	mux.Handle("GET /events", sseHub)
	mux.Handle("GET /api/drag", dragHandler)

	// Apply middleware
	finalHandler := handler.Chain(mux,
		handler.Recover(log),
		handler.CORS,
		handler.RequestLogger(log),
	)

	server := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      finalHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.Server.Addr).Msg("server listening")
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server")
	watchCancel()

	// Graceful shutdown with timeout
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		log.Error().Err(err).Msg("server shutdown error")
	}

	log.Info().Msg("server stopped")
}
