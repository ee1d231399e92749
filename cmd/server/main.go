package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"loopline.app/server/common/id"
	"loopline.app/server/common/logger"
	"loopline.app/server/common/otel"
	"loopline.app/server/core/config"
	"loopline.app/server/core/db"
	"loopline.app/server/internal/calls"
	"loopline.app/server/internal/graph"
	"loopline.app/server/internal/http/middleware"
	httprouter "loopline.app/server/internal/http/router"
	"loopline.app/server/internal/queue"
	"loopline.app/server/internal/realtime"
	"loopline.app/server/internal/search"
	"loopline.app/server/internal/service"
	"loopline.app/server/internal/storage"
	"loopline.app/server/internal/store"
)

func main() {
	fmt.Printf("%s\n", banner)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg, err := config.Load(config.ServiceTypeServer)
	if err != nil {
		slog.ErrorContext(ctx, "failed to load config", "error", err)
		os.Exit(1)
	}

	// OTel must init before logger (logger uses OTel provider in production)
	telemetry, err := otel.Setup(ctx, cfg.OTel)
	if err != nil {
		// Can't use slog yet — OTel failed before logger setup
		os.Stderr.WriteString("failed to initialize otel: " + err.Error() + "\n")
		os.Exit(1)
	}

	logger.Setup(cfg)

	if telemetry != nil {
		slog.InfoContext(ctx, "otel initialized", "endpoint", cfg.OTel.Endpoint)
	} else {
		slog.InfoContext(ctx, "otel disabled (no endpoint configured)")
	}

	slog.InfoContext(ctx, "loopline server starting", "env", cfg.Env, "service", cfg.OTel.ServiceName)
	if err := id.Init(1); err != nil {
		slog.ErrorContext(ctx, "failed to initialize snowflake id generator", "error", err)
		os.Exit(1)
	}

	database, err := db.New(ctx, cfg.DB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close()
	slog.InfoContext(ctx, "database connected")

	redisOpts, err := redis.ParseURL(cfg.Queue.RedisURL)
	if err != nil {
		slog.ErrorContext(ctx, "failed to parse redis url", "error", err)
		os.Exit(1)
	}

	redisClient := redis.NewClient(redisOpts)
	if err := redisClient.Ping(ctx).Err(); err != nil {
		slog.ErrorContext(ctx, "failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	slog.InfoContext(ctx, "redis connected", "stream", cfg.Queue.RedisStream)

	graphClient, err := graph.New(ctx, cfg.ArangoDB)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create graph client", "error", err)
		os.Exit(1)
	}
	defer graphClient.Close()
	if err := graphClient.EnsureDatabase(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ensure graph database", "error", err)
		os.Exit(1)
	}
	if err := graphClient.EnsureCollections(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ensure graph collections", "error", err)
		os.Exit(1)
	}
	if err := graphClient.EnsureGraph(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ensure social graph", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "social graph ready", "database", cfg.ArangoDB.Database, "graph", cfg.ArangoDB.Graph)

	searchClient, err := search.New(cfg.Typesense)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create search client", "error", err)
		os.Exit(1)
	}
	if err := searchClient.EnsureCollections(ctx); err != nil {
		slog.ErrorContext(ctx, "failed to ensure search collections", "error", err)
		os.Exit(1)
	}
	slog.InfoContext(ctx, "search ready")

	objects, err := storage.NewLocalStore(cfg.Storage)
	if err != nil {
		slog.ErrorContext(ctx, "failed to initialize media storage", "error", err)
		os.Exit(1)
	}

	taskProducer := queue.NewRedisProducer(redisClient, cfg.Queue.RedisStream, nil)
	defer taskProducer.Close()

	hub := realtime.NewHub()
	publisher := realtime.NewRedisPublisher(redisClient, cfg.Realtime.BroadcastChannel)

	stores := store.NewStores(database.Querier())

	services := service.NewServices(service.ServicesConfig{
		Stores:    stores,
		TxRunner:  service.NewTxRunner(database),
		Graph:     graphClient,
		Search:    searchClient,
		Objects:   objects,
		Publisher: publisher,
		Producer:  taskProducer,
		WorkOS:    cfg.WorkOS,
	})

	// The bridge rings local callees off bridged call signals, so every
	// instance rings regardless of which one took the offer.
	bridge := realtime.NewBridge(redisClient, hub, cfg.Realtime.BroadcastChannel,
		calls.NewSignalHook(services.Calls()))
	go func() {
		if err := bridge.Run(ctx); err != nil {
			slog.ErrorContext(ctx, "realtime bridge error", "error", err)
		}
	}()

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := setupRouter(cfg, services, hub, objects.RootDir())
	server := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		slog.InfoContext(ctx, "http server starting", "port", cfg.Port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.ErrorContext(ctx, "http server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.InfoContext(ctx, "shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.ErrorContext(shutdownCtx, "http server shutdown error", "error", err)
	}

	// Stops the realtime bridge.
	cancel()

	if telemetry != nil {
		if err := telemetry.Shutdown(shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "otel shutdown error", "error", err)
		}
	}

	slog.InfoContext(shutdownCtx, "shutdown complete")
}

func setupRouter(cfg config.Config, services *service.Services, hub *realtime.Hub, mediaDir string) *gin.Engine {
	router := gin.New()

	// Order matters: OTel creates span → Recovery catches panics → Logger logs with trace context
	if cfg.OTel.Enabled() {
		router.Use(otelgin.Middleware(cfg.OTel.ServiceName))
	}
	router.Use(middleware.Recovery())
	router.Use(middleware.Logger())

	httprouter.SetupRoutes(router, services, hub, httprouter.RouterConfig{
		WebURL:       cfg.WebURL,
		IsProduction: cfg.IsProduction(),
		AdminAPIKey:  cfg.AdminAPIKey,
		MediaDir:     mediaDir,
	})

	return router
}

const banner = `
██╗      ██████╗  ██████╗ ██████╗ ██╗     ██╗███╗   ██╗███████╗
██║     ██╔═══██╗██╔═══██╗██╔══██╗██║     ██║████╗  ██║██╔════╝
██║     ██║   ██║██║   ██║██████╔╝██║     ██║██╔██╗ ██║█████╗
██║     ██║   ██║██║   ██║██╔═══╝ ██║     ██║██║╚██╗██║██╔══╝
███████╗╚██████╔╝╚██████╔╝██║     ███████╗██║██║ ╚████║███████╗
╚══════╝ ╚═════╝  ╚═════╝ ╚═╝     ╚══════╝╚═╝╚═╝  ╚═══╝╚══════╝
`
