package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/wms-platform/wave-optimizer-service/internal/application"
	kafkaAdapter "github.com/wms-platform/wave-optimizer-service/internal/infrastructure/kafka"
	mongoRepo "github.com/wms-platform/wave-optimizer-service/internal/infrastructure/mongodb"
	"github.com/wms-platform/wave-optimizer-service/internal/solver"
	"github.com/wms-platform/wave-optimizer-service/internal/solver/cpsat"
	"github.com/wms-platform/wave-optimizer-service/pkg/errors"
	"github.com/wms-platform/wave-optimizer-service/pkg/kafka"
	"github.com/wms-platform/wave-optimizer-service/pkg/logging"
	"github.com/wms-platform/wave-optimizer-service/pkg/metrics"
	"github.com/wms-platform/wave-optimizer-service/pkg/middleware"
	"github.com/wms-platform/wave-optimizer-service/pkg/mongodb"
)

const serviceName = "wave-optimizer-service"

func main() {
	logConfig := logging.DefaultConfig(serviceName)
	logConfig.Level = logging.LogLevel(getEnv("LOG_LEVEL", "info"))
	logger := logging.New(logConfig)
	logger.SetDefault()

	logger.Info("Starting wave-optimizer-service API")

	config := loadConfig()
	ctx := context.Background()

	// Prometheus metrics
	metricsConfig := metrics.DefaultConfig(serviceName)
	m := metrics.New(metricsConfig)
	logger.Info("Metrics initialized")

	// MongoDB
	mongoClient, err := mongodb.NewClient(ctx, config.MongoDB)
	if err != nil {
		logger.WithError(err).Error("Failed to connect to MongoDB")
		os.Exit(1)
	}
	defer mongoClient.Close(ctx)
	logger.Info("Connected to MongoDB", "database", config.MongoDB.Database)

	// Kafka producer behind a circuit breaker
	kafkaProducer := kafka.NewProducer(config.Kafka)
	producer := kafka.NewCircuitBreakerProducer(kafkaProducer, m, logger)
	defer producer.Close()
	logger.Info("Kafka producer initialized", "brokers", config.Kafka.Brokers)

	// Repositories and adapters
	planRepo := mongoRepo.NewWavePlanRepository(mongoClient.Database())
	eventPublisher := kafkaAdapter.NewEventPublisher(producer, "/"+serviceName, kafka.Topics.WavePlansEvents)

	// Solve engine
	engine := newEngine(config.Engine)
	optimizer := application.NewOptimizer(engine, config.Optimizer, logger, m)
	logger.Info("Optimizer initialized",
		"engine", engine.Name(),
		"engineBudget", config.Optimizer.EngineBudget,
		"gapTolerance", config.Optimizer.GapTolerance)

	planningService := application.NewPlanningApplicationService(planRepo, optimizer, eventPublisher, logger)

	// Gin router with middleware
	router := gin.New()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000", "http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Request-ID", "X-Correlation-ID"},
		ExposeHeaders:    []string{"Content-Length", "X-Request-ID", "X-Correlation-ID"},
		AllowCredentials: true,
	}))

	middlewareConfig := middleware.DefaultConfig(serviceName, logger.Logger)
	middleware.Setup(router, middlewareConfig)

	router.Use(middleware.MetricsMiddleware(m))

	router.NoRoute(middleware.NoRoute())
	router.NoMethod(middleware.NoMethod())

	router.GET("/health", middleware.HealthCheck(serviceName))
	router.GET("/ready", middleware.ReadinessCheck(serviceName, func() error {
		return mongoClient.HealthCheck(ctx)
	}))
	router.GET("/metrics", middleware.MetricsEndpoint(m))

	api := router.Group("/api/v1")
	{
		plans := api.Group("/wave-plans")
		{
			plans.POST("", createWavePlanHandler(planningService, logger))
			plans.GET("", listWavePlansHandler(planningService, logger))
			plans.GET("/:planId", getWavePlanHandler(planningService, logger))
			plans.DELETE("/:planId", deleteWavePlanHandler(planningService, logger))
			plans.GET("/status/:status", getWavePlansByStatusHandler(planningService, logger))
			plans.GET("/range", getWavePlansByDateRangeHandler(planningService, logger))
		}
	}

	srv := &http.Server{
		Addr:    config.ServerAddr,
		Handler: router,
		// Solves run synchronously inside the request, so the write
		// timeout must cover the whole solve budget.
		ReadTimeout:  30 * time.Second,
		WriteTimeout: config.Optimizer.OverallBudget + 30*time.Second,
	}

	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.WithError(err).Error("Server error")
		}
	}()
	logger.Info("Server started", "addr", config.ServerAddr)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.WithError(err).Error("Server forced to shutdown")
	}

	logger.Info("Server stopped")
}

// Config holds application configuration
type Config struct {
	ServerAddr string
	Engine     string
	MongoDB    *mongodb.Config
	Kafka      *kafka.Config
	Optimizer  application.OptimizerConfig
}

func loadConfig() *Config {
	optimizer := application.DefaultOptimizerConfig()
	optimizer.OverallBudget = parseDuration(getEnv("SOLVE_BUDGET", "600s"), optimizer.OverallBudget)
	optimizer.EngineBudget = parseDuration(getEnv("ENGINE_BUDGET", "540s"), optimizer.EngineBudget)
	optimizer.GapTolerance = parseFloat(getEnv("GAP_TOLERANCE", "1e-15"), optimizer.GapTolerance)
	optimizer.Workers = parseInt(getEnv("SOLVER_WORKERS", "0"))

	return &Config{
		ServerAddr: getEnv("SERVER_ADDR", ":8004"),
		Engine:     getEnv("SOLVER_ENGINE", "cpsat"),
		MongoDB: &mongodb.Config{
			URI:            getEnv("MONGODB_URI", "mongodb://localhost:27017"),
			Database:       getEnv("MONGODB_DATABASE", "wave_plans_db"),
			ConnectTimeout: 10 * time.Second,
			MaxPoolSize:    100,
			MinPoolSize:    10,
		},
		Kafka: &kafka.Config{
			Brokers:      []string{getEnv("KAFKA_BROKERS", "localhost:9092")},
			ClientID:     serviceName,
			BatchSize:    100,
			BatchTimeout: 10 * time.Millisecond,
			RequiredAcks: -1,
		},
		Optimizer: optimizer,
	}
}

// newEngine picks the solve backend; the exhaustive engine only suits
// small instances and exists for diagnostics.
func newEngine(name string) solver.Engine {
	if name == "enumeration" {
		return solver.NewEnumerationEngine()
	}
	return cpsat.New()
}

func parseDuration(s string, fallback time.Duration) time.Duration {
	d, err := time.ParseDuration(s)
	if err != nil {
		return fallback
	}
	return d
}

func parseFloat(s string, fallback float64) float64 {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return fallback
	}
	return f
}

func parseInt(s string) int {
	var i int
	fmt.Sscanf(s, "%d", &i)
	return i
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

// HTTP Handlers
func createWavePlanHandler(service *application.PlanningApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		var req application.CreateWavePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		cmd := application.FromCreateWavePlanRequest(req)

		plan, err := service.CreateWavePlan(c.Request.Context(), cmd)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusCreated, plan)
	}
}

func listWavePlansHandler(service *application.PlanningApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		limit, _ := strconv.ParseInt(c.DefaultQuery("limit", "50"), 10, 64)

		plans, err := service.ListRecentWavePlans(c.Request.Context(), application.ListRecentWavePlansQuery{Limit: limit})
		if err != nil {
			responder.RespondInternalError(err)
			return
		}

		c.JSON(http.StatusOK, plans)
	}
}

func getWavePlanHandler(service *application.PlanningApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.GetWavePlanQuery{PlanID: c.Param("planId")}

		plan, err := service.GetWavePlan(c.Request.Context(), query)
		if err != nil {
			if appErr, ok := errors.AsAppError(err); ok {
				responder.RespondWithAppError(appErr)
			} else {
				responder.RespondInternalError(err)
			}
			return
		}

		c.JSON(http.StatusOK, plan)
	}
}

func deleteWavePlanHandler(service *application.PlanningApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		cmd := application.DeleteWavePlanCommand{PlanID: c.Param("planId")}

		if err := service.DeleteWavePlan(c.Request.Context(), cmd); err != nil {
			responder.RespondInternalError(err)
			return
		}

		c.JSON(http.StatusNoContent, nil)
	}
}

func getWavePlansByDateRangeHandler(service *application.PlanningApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		start, err := time.Parse(time.RFC3339, c.Query("start"))
		if err != nil {
			responder.RespondBadRequest("start must be an RFC3339 timestamp")
			return
		}
		end, err := time.Parse(time.RFC3339, c.Query("end"))
		if err != nil {
			responder.RespondBadRequest("end must be an RFC3339 timestamp")
			return
		}

		query := application.GetWavePlansByDateRangeQuery{Start: start, End: end}

		plans, err := service.GetWavePlansByDateRange(c.Request.Context(), query)
		if err != nil {
			responder.RespondInternalError(err)
			return
		}

		c.JSON(http.StatusOK, plans)
	}
}

func getWavePlansByStatusHandler(service *application.PlanningApplicationService, logger *logging.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		responder := middleware.NewErrorResponder(c, logger.Logger)

		query := application.GetWavePlansByStatusQuery{Status: c.Param("status")}

		plans, err := service.GetWavePlansByStatus(c.Request.Context(), query)
		if err != nil {
			responder.RespondInternalError(err)
			return
		}

		c.JSON(http.StatusOK, plans)
	}
}
