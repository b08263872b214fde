package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"

	"github.com/Artin0123/API-backend/internal/config"
	"github.com/Artin0123/API-backend/internal/geo"
	"github.com/Artin0123/API-backend/internal/handler"
	"github.com/Artin0123/API-backend/internal/logger"
	"github.com/Artin0123/API-backend/internal/middleware"
	"github.com/Artin0123/API-backend/internal/repository/postgres"
	redisrepo "github.com/Artin0123/API-backend/internal/repository/redis"
	"github.com/Artin0123/API-backend/internal/resolver"
	"github.com/Artin0123/API-backend/internal/service"
	"github.com/Artin0123/API-backend/internal/uaparse"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	if err := logger.Initialize(logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		OutputPath: cfg.Log.OutputPath,
		MaxSize:    cfg.Log.MaxSize,
		MaxBackups: cfg.Log.MaxBackups,
		MaxAge:     cfg.Log.MaxAge,
		Compress:   cfg.Log.Compress,
	}); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}

	logg := logger.Get()
	logg.Info("Starting visitor tracker",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)
	if cfg.Admin.Generated {
		// No configured token: print the generated one so the admin
		// listing stays reachable.
		logg.Info("Generated admin token", "token", cfg.Admin.Token)
	}

	dbPool, err := setupDatabase(cfg)
	if err != nil {
		logg.Error("Failed to setup database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	redisClient, err := setupRedis(cfg)
	if err != nil {
		logg.Error("Failed to setup redis", "error", err)
		os.Exit(1)
	}
	defer redisClient.Close()

	geoReader, err := geo.Open(cfg.Geo.DBPath)
	if err != nil {
		logg.Error("Failed to open GeoIP database", "error", err, "path", cfg.Geo.DBPath)
		os.Exit(1)
	}
	defer geoReader.Close()
	if cfg.Geo.DBPath == "" {
		logg.Warn("GeoIP database not configured, geo enrichment disabled")
	}

	visitorRepo := postgres.NewVisitorRepository(dbPool)
	if err := visitorRepo.InitSchema(context.Background()); err != nil {
		logg.Error("Failed to initialize schema", "error", err)
		os.Exit(1)
	}

	clientResolver := resolver.New(geoReader, uaparse.NewParser())
	collectorService := service.NewCollectorService(clientResolver, visitorRepo, cfg.Database.QueryTimeout)

	pixelHandler := handler.NewPixelHandler(collectorService)
	collectHandler := handler.NewCollectHandler(collectorService)
	visitorsHandler := handler.NewVisitorsHandler(collectorService, cfg.Admin.Token)
	healthHandler := handler.NewHealthHandler(dbPool, redisClient)

	rateLimiter := redisrepo.NewRateLimiter(redisClient, cfg.RateLimit.Window, cfg.RateLimit.MaxRequests)

	router := setupRouter(cfg, pixelHandler, collectHandler, visitorsHandler, healthHandler, rateLimiter)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%s", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logg.Info("Server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logg.Error("Server failed", "error", err)
			os.Exit(1)
		}
	}()

	gracefulShutdown(srv, cfg.Server.ShutdownTimeout, dbPool, redisClient, logg)
}

func setupDatabase(cfg *config.Config) (*pgxpool.Pool, error) {
	poolConfig, err := pgxpool.ParseConfig(cfg.Database.URL)
	if err != nil {
		return nil, err
	}

	poolConfig.MaxConns = int32(cfg.Database.MaxConns)
	poolConfig.MinConns = int32(cfg.Database.MinConns)
	poolConfig.MaxConnLifetime = cfg.Database.ConnMaxLifetime
	poolConfig.MaxConnIdleTime = cfg.Database.MaxConnIdleTime

	return pgxpool.NewWithConfig(context.Background(), poolConfig)
}

func setupRedis(cfg *config.Config) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Redis.Addr,
		Password:     cfg.Redis.Password,
		DB:           cfg.Redis.DB,
		PoolSize:     cfg.Redis.PoolSize,
		MinIdleConns: cfg.Redis.MinIdleConns,
		MaxRetries:   cfg.Redis.MaxRetries,
	})

	if err := client.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func setupRouter(
	cfg *config.Config,
	pixelHandler *handler.PixelHandler,
	collectHandler *handler.CollectHandler,
	visitorsHandler *handler.VisitorsHandler,
	healthHandler *handler.HealthHandler,
	rateLimiter middleware.RateLimiter,
) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.Logger())

	// The beacon and collector are embedded on third-party pages, so the
	// whole surface answers cross-origin requests.
	router.Use(cors.New(cors.Config{
		AllowAllOrigins: true,
		AllowMethods:    []string{"GET", "POST", "OPTIONS"},
		AllowHeaders:    []string{"Origin", "Content-Type", "Accept"},
		MaxAge:          12 * time.Hour,
	}))

	ingest := []gin.HandlerFunc{}
	if cfg.RateLimit.Enabled {
		ingest = append(ingest, middleware.RateLimit(rateLimiter))
	}

	router.GET("/healthz", healthHandler.Healthz)
	router.GET("/readyz", healthHandler.Readyz)

	router.GET("/assets/pixel.png", append(ingest, pixelHandler.Pixel)...)

	api := router.Group("/api")
	{
		api.POST("/collect", append(ingest, collectHandler.Collect)...)
		api.GET("/visitors", visitorsHandler.List)
	}

	return router
}

func gracefulShutdown(srv *http.Server, timeout time.Duration, dbPool *pgxpool.Pool, redisClient *redis.Client, logg *slog.Logger) {
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	sig := <-quit
	logg.Info("Shutdown signal received", "signal", sig.String())

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logg.Error("Forced shutdown", "error", err)
	}

	dbPool.Close()
	logg.Info("Database connection closed")

	if err := redisClient.Close(); err != nil {
		logg.Error("Error closing Redis", "error", err)
	}

	logg.Info("Graceful shutdown completed")
}
