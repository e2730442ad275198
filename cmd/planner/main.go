package main

import (
	"context"
	"database/sql"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"

	"github.com/agroplan/planner/internal/planning"
	httpDelivery "github.com/agroplan/planner/internal/planning/delivery/http"
	"github.com/agroplan/planner/internal/planning/domain"
	"github.com/agroplan/planner/internal/planning/engine"
	"github.com/agroplan/planner/internal/planning/usecase/command"
	"github.com/agroplan/planner/kafka"
	"github.com/agroplan/planner/pkg/database"
	"github.com/agroplan/planner/pkg/logger"
	"github.com/agroplan/planner/pkg/tracing"
)

func main() {
	serviceName := getEnv("OTEL_SERVICE_NAME", "planning-service")
	isDevelopment := getEnv("ENVIRONMENT", "development") == "development"
	logger.Init(serviceName, isDevelopment)
	logger.SetLevel(getEnv("LOG_LEVEL", "info"))

	logger.Logger.Info().
		Str("service", serviceName).
		Str("environment", getEnv("ENVIRONMENT", "development")).
		Msg("Starting planning service")

	tp, err := tracing.InitTracer(serviceName)
	if err != nil {
		logger.Logger.Warn().Err(err).Msg("Tracing disabled")
	} else {
		defer func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := tracing.Shutdown(ctx, tp); err != nil {
				logger.Logger.Warn().Err(err).Msg("Failed to shut down tracer")
			}
		}()
	}

	dbConfig := database.Config{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     getEnv("DB_PORT", "5432"),
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", "postgres"),
		DBName:   getEnv("DB_NAME", "plannerdb"),
		SSLMode:  getEnv("DB_SSLMODE", "disable"),
	}

	db, err := database.NewGormConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to connect to database")
	}

	// A plain connection outside the ORM pool serves the health endpoint.
	healthDB, err := database.NewPostgresConnection(dbConfig)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to open health check connection")
	}
	defer healthDB.Close()

	if err := db.AutoMigrate(
		&domain.ProductionDepartment{},
		&domain.Product{},
		&domain.Warehouse{},
		&domain.RawMaterial{},
		&domain.Recipe{},
		&domain.Order{},
		&domain.ProductionPlan{},
	); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to run migrations")
	}
	logger.Logger.Info().Msg("Database initialized successfully")

	mode := engine.CapacityContention
	if getEnv("CAPACITY_MODE", "contention") == "window" {
		mode = engine.CapacityWindow
	}

	var notifier command.PlanNotifier
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		publisher, err := kafka.NewPublisher(strings.Split(brokers, ","))
		if err != nil {
			logger.Logger.Warn().Err(err).Msg("Kafka publishing disabled")
		} else {
			defer publisher.Close()
			notifier = planning.NewKafkaPlanNotifier(publisher)
		}
	}

	var redisClient *redis.Client
	if addr := getEnv("REDIS_ADDR", ""); addr != "" {
		redisClient = redis.NewClient(&redis.Options{
			Addr:     addr,
			Password: getEnv("REDIS_PASSWORD", ""),
		})
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			logger.Logger.Warn().Err(err).Msg("Redis unavailable, report caching disabled")
			redisClient = nil
		}
	}
	cache := httpDelivery.NewReportCache(redisClient, 5*time.Minute)

	handler, err := planning.InitializeHTTPHandler(db, mode, notifier, cache)
	if err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to initialize handler")
	}

	httpPort := getEnv("HTTP_PORT", "8080")
	go startHTTPServer(handler, healthDB, httpPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Logger.Info().Msg("Shutting down server...")
}

func startHTTPServer(handler *httpDelivery.PlanningHandler, db *sql.DB, port string) {
	router := mux.NewRouter()
	router.Use(httpDelivery.LoggingMiddleware)

	handler.RegisterRoutes(router)
	handler.RegisterHealthCheck(router, db)

	router.Handle("/metrics", promhttp.Handler())

	c := cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	logger.Logger.Info().
		Str("port", port).
		Str("metrics_endpoint", "/metrics").
		Msg("HTTP server started")

	if err := http.ListenAndServe(":"+port, c.Handler(router)); err != nil {
		logger.Logger.Fatal().Err(err).Msg("Failed to start HTTP server")
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
