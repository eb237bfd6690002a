package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/GTDGit/ewaste/internal/cache"
	"github.com/GTDGit/ewaste/internal/config"
	"github.com/GTDGit/ewaste/internal/database"
	"github.com/GTDGit/ewaste/internal/events"
	"github.com/GTDGit/ewaste/internal/handler"
	"github.com/GTDGit/ewaste/internal/middleware"
	"github.com/GTDGit/ewaste/internal/repository"
	"github.com/GTDGit/ewaste/internal/service"
	"github.com/GTDGit/ewaste/internal/sse"
	"github.com/GTDGit/ewaste/internal/view"
	"github.com/GTDGit/ewaste/internal/worker"
)

// main is the entrypoint for the e-waste inventory web app.
func main() {
	// 1. Load config
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	// 2. Setup logger
	setupLogger(cfg.Env)
	log.Info().Str("env", cfg.Env).Str("db_driver", cfg.DB.Driver).Msg("starting e-waste inventory")

	// 3. Connect database
	db, err := database.Connect(&cfg.DB)
	if err != nil {
		log.Error().Err(err).Msg("database connection failed")
		fmt.Fprintf(os.Stderr, "database connection failed: %v\n", err)
		os.Exit(1)
	}
	defer db.Close()

	// 3a. Create the products table if this is a fresh database
	if err := database.MigrateConfig(&cfg.DB); err != nil {
		log.Error().Err(err).Msg("migration failed")
		fmt.Fprintf(os.Stderr, "migration failed: %v\n", err)
		os.Exit(1)
	}
	log.Info().Msg("migrations completed successfully")

	// 3b. Connect to Redis
	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Error().Err(err).Msg("redis connection failed")
		fmt.Fprintf(os.Stderr, "redis connection failed: %v\n", err)
		os.Exit(1)
	}
	defer redisClient.Close()
	log.Info().Msg("redis connected successfully")

	flashStore := cache.NewFlashStore(redisClient, cfg.Session.FlashTTL)

	// 4. Event sinks: open listing pages always, Kafka when brokers are configured
	hub := sse.NewHub(sse.DefaultBuffer)
	notifiers := events.MultiNotifier{sse.NewHubNotifier(hub)}

	var kafkaNotifier *events.KafkaNotifier
	if len(cfg.Kafka.Brokers) > 0 {
		kafkaNotifier = events.NewKafkaNotifier(cfg.Kafka)
		notifiers = append(notifiers, kafkaNotifier)
		log.Info().Strs("brokers", cfg.Kafka.Brokers).Str("topic", cfg.Kafka.Topic).Msg("Kafka publisher enabled")
	}

	// 5. Initialize repository and service
	productRepo := repository.NewProductRepository(db)
	inventorySvc := service.NewInventoryService(productRepo, notifiers)

	// 6. Initialize handlers
	handlers := &Handlers{
		Inventory: handler.NewInventoryHandler(inventorySvc, flashStore),
		Health:    handler.NewHealthHandler(inventorySvc, redisClient),
		SSE:       handler.NewSSEHandler(hub, cfg.SSE.PingInterval),
	}

	// 7. Setup router
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	tmpl, err := view.Templates()
	if err != nil {
		log.Error().Err(err).Msg("template parsing failed")
		fmt.Fprintf(os.Stderr, "template parsing failed: %v\n", err)
		os.Exit(1)
	}

	router := gin.New()
	router.SetHTMLTemplate(tmpl)
	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(middleware.MetricsMiddleware())
	router.Use(middleware.SessionMiddleware(cfg.Session.CookieName))
	setupRoutes(router, handlers)

	// 8. Create context for graceful shutdown and start workers
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	go worker.NewStatsWorker(productRepo, cfg.Worker.StatsInterval).Start(ctx)

	// 9. Start HTTP server
	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Info().Str("port", cfg.Port).Msg("Starting server")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("Server failed")
		}
	}()

	// 10. Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("Shutting down server...")

	// 11. Stop workers and end live streams so Shutdown does not wait on them
	cancel()
	hub.Close()

	// 12. Shutdown HTTP server with timeout
	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("Server forced to shutdown")
	}

	// 13. Flush pending events
	if kafkaNotifier != nil {
		if err := kafkaNotifier.Close(); err != nil {
			log.Error().Err(err).Msg("Kafka publisher close failed")
		}
	}
	log.Info().Msg("Server exited")
}

// Handlers groups all HTTP handlers used by the server.
type Handlers struct {
	Inventory *handler.InventoryHandler
	Health    *handler.HealthHandler
	SSE       *handler.SSEHandler
}

// setupRoutes registers all routes.
func setupRoutes(router *gin.Engine, handlers *Handlers) {
	router.GET("/", handlers.Inventory.Index)
	router.POST("/insert", handlers.Inventory.Insert)
	router.Match([]string{http.MethodGet, http.MethodPost}, "/update", handlers.Inventory.Update)
	router.Match([]string{http.MethodGet, http.MethodPost}, "/delete/:id", handlers.Inventory.Delete)

	router.GET("/events", handlers.SSE.Stream)
	router.GET("/health", handlers.Health.GetHealth)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
}

func setupLogger(env string) {
	if env == "production" {
		zerolog.SetGlobalLevel(zerolog.InfoLevel)
	} else {
		zerolog.SetGlobalLevel(zerolog.DebugLevel)
	}
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()
}
