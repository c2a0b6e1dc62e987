package main

import (
	"context"
	"log"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	promcollectors "github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/yair/eventify/pkg/collectors"
	"github.com/yair/eventify/pkg/config"
	"github.com/yair/eventify/pkg/interfaces"
	"github.com/yair/eventify/pkg/logger"
	"github.com/yair/eventify/pkg/seed"
)

func main() {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "config.json"
	}

	cfg, err := config.Load(configPath)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	zapLogger, err := logger.New(cfg.Logging.Environment)
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer zapLogger.Sync()

	zapLogger.Info("Starting eventify",
		zap.String("config", configPath),
		zap.String("driver", cfg.Database.Driver))

	if err := cfg.Validate(); err != nil {
		zapLogger.Fatal("Invalid configuration", zap.Error(err))
	}

	filterOptions, err := cfg.FilterOptions()
	if err != nil {
		zapLogger.Fatal("Invalid filter options", zap.Error(err))
	}

	repo, closeRepo, err := collectors.Open(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		zapLogger.Fatal("Failed to open event store", zap.Error(err))
	}
	defer closeRepo()

	eventService := interfaces.NewEventService(repo, filterOptions, zapLogger)

	if cfg.Seed.OnStart {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		inserted, err := eventService.SeedEvents(ctx, seed.Generate(rand.New(rand.NewSource(cfg.Seed.RandSeed))))
		cancel()
		if err != nil {
			zapLogger.Fatal("Failed to seed events", zap.Error(err))
		}
		zapLogger.Info("Seeded events", zap.Int("inserted", inserted))
	}

	registry := prometheus.NewRegistry()
	registry.MustRegister(
		promcollectors.NewGoCollector(),
		promcollectors.NewProcessCollector(promcollectors.ProcessCollectorOpts{}),
	)
	metrics := interfaces.NewMetrics(registry)

	eventHandler := interfaces.NewEventHandler(eventService, zapLogger, metrics)

	router := mux.NewRouter()
	router.Use(interfaces.RequestID, interfaces.RequestLogger(zapLogger))
	metrics.Instrument(router)
	eventHandler.RegisterRoutes(router)

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	}).Methods("GET")
	router.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{})).Methods("GET")

	router.Walk(func(route *mux.Route, router *mux.Router, ancestors []*mux.Route) error {
		path, _ := route.GetPathTemplate()
		methods, _ := route.GetMethods()
		zapLogger.Debug("Route registered",
			zap.String("methods", strings.Join(methods, ",")),
			zap.String("path", path))
		return nil
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		zapLogger.Info("Server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	zapLogger.Info("Shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Server forced to shutdown", zap.Error(err))
	}

	zapLogger.Info("Server stopped")
}
