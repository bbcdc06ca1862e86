package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"sisrekomact/app/echo-server/router"
	"sisrekomact/business/cluster"
	"sisrekomact/business/recommendation"
	"sisrekomact/business/student"
	"sisrekomact/internal/middleware"
	"sisrekomact/internal/repository/filestore"
	redisRepo "sisrekomact/internal/repository/redis"
	"sisrekomact/internal/repository/sqldb"
	"sisrekomact/internal/rest"
	"sisrekomact/pkg/config"
	"sisrekomact/pkg/database"
	redisdb "sisrekomact/pkg/database/redis"
	"sisrekomact/pkg/logger"
	"sisrekomact/pkg/metrics"
	"sisrekomact/pkg/utils"

	"github.com/labstack/echo/v4"
	echomiddleware "github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Init(cfg.App.Environment, cfg.Log.Level)
	logger.Info("Starting "+cfg.App.Name, "version", cfg.App.Version)

	metrics.Init()

	db, err := database.Init(cfg)
	if err != nil {
		logger.Fatal("Failed to connect to database", err)
	}
	logger.Info("Database connected successfully", "driver", cfg.Database.Driver)

	var redisClient *redis.Client
	if cfg.Redis.Enabled {
		redisClient, err = redisdb.NewRedisClient(cfg)
		if err != nil {
			logger.Fatal("Failed to connect to Redis", err)
		}
		defer redisdb.CloseRedisClient(redisClient)
		logger.Info("Redis connected successfully")
	}

	// Cluster pipeline
	classifier := loadClassifier(cfg)

	store, err := buildSnapshotStore(cfg, db, redisClient)
	if err != nil {
		logger.Fatal("Failed to init cluster cache store", err)
	}

	cache := cluster.NewCache()
	restoreCtx, cancelRestore := context.WithTimeout(context.Background(), 30*time.Second)
	restored, err := cache.Restore(restoreCtx, store)
	cancelRestore()
	if err != nil {
		// start cold; the first miss recomputes
		logger.Error("Failed to restore cluster cache", err)
	} else {
		logger.Info("Cluster cache restored", "entries", restored, "store", cfg.Cluster.CacheStore)
	}

	// Init repo
	gradeRepo := sqldb.NewGradeRepository(db)
	activityRepo := sqldb.NewActivityRepository(db)
	studentRepo := sqldb.NewStudentRepository(db)

	var tokenStore student.TokenStore
	var tokenValidator middleware.TokenValidator
	if redisClient != nil {
		tokenStore = redisRepo.NewTokenRepository(redisClient)
	}

	// Init service
	engine := cluster.NewEngine(gradeRepo, classifier, cache, store, cluster.EngineConfig{
		ExcludedCategory: cfg.Cluster.ExcludedCategory,
		Timeout:          cfg.Cluster.RecomputeTimeout,
	})
	recommendationService := recommendation.NewService(
		engine,
		recommendation.NewSelector(activityRepo, cfg.Cluster.RecommendLimit),
		recommendation.ServiceConfig{MissCooldown: cfg.Cluster.MissCooldown},
	)

	jwtManager := utils.NewJWTManager(cfg.JWT.SecretKey, cfg.JWT.TTL)
	studentService := student.NewStudentService(studentRepo, activityRepo, tokenStore, jwtManager)
	if tokenStore != nil {
		tokenValidator = studentService
	}

	// Init handler
	studentHandler := rest.NewStudentHandler(studentService)
	recommendationHandler := rest.NewRecommendationHandler(recommendationService)

	// Init echo
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	// HTTP error handler
	e.HTTPErrorHandler = middleware.HTTPErrorHandler

	// Global middleware
	e.Use(echomiddleware.Recover())
	e.Use(middleware.RequestID())
	e.Use(middleware.RequestLogger())
	e.Use(metrics.Middleware())
	e.Use(echomiddleware.CORSWithConfig(echomiddleware.CORSConfig{
		AllowOrigins: cfg.Server.AllowOrigins,
		AllowMethods: []string{http.MethodGet, http.MethodPost},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))

	// Auth middleware
	authRequired := middleware.AuthMiddleware(jwtManager, tokenValidator)

	// Setup routes
	router.SetupOpsRoutes(e)
	api := e.Group("/api/v1")
	router.SetupAuthRoutes(api, studentHandler, authRequired)
	router.SetupStudentRoutes(api, studentHandler, authRequired)
	router.SetupRecommendationRoutes(api, recommendationHandler, authRequired)

	// Goroutine server
	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server starting", "address", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			logger.Fatal("Failed to start server", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.Shutdown(ctx); err != nil {
		logger.Error("Server shutdown error", err)
	}

	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close()
	}

	logger.Info("Server stopped")
}

// loadClassifier returns nil when the model cannot be used. The server still
// serves cached assignments; recomputes report the model as unavailable.
func loadClassifier(cfg *config.Config) *cluster.Classifier {
	model, err := filestore.LoadModel(cfg.Cluster.ModelPath)
	if err != nil {
		logger.Error("Failed to load cluster model", err, "path", cfg.Cluster.ModelPath)
		return nil
	}

	classifier, err := cluster.NewClassifier(model, cluster.Mode(cfg.Cluster.Mode), cluster.FitConfig{
		K:    cfg.Cluster.FitK,
		Seed: cfg.Cluster.FitSeed,
	})
	if err != nil {
		logger.Error("Cluster model rejected", err, "path", cfg.Cluster.ModelPath)
		return nil
	}

	logger.Info("Cluster model loaded",
		"path", cfg.Cluster.ModelPath,
		"k", model.K(),
		"columns", len(model.Columns),
		"mode", cfg.Cluster.Mode,
	)
	return classifier
}

func buildSnapshotStore(cfg *config.Config, db *gorm.DB, redisClient *redis.Client) (cluster.SnapshotStore, error) {
	switch cfg.Cluster.CacheStore {
	case config.CacheStoreRedis:
		return redisRepo.NewSnapshotStore(redisClient, cfg.Cluster.CacheRedisKey), nil
	case config.CacheStoreSQL:
		repo := sqldb.NewClusterSnapshotRepository(db)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := repo.Migrate(ctx); err != nil {
			return nil, fmt.Errorf("migrate student_clusters: %w", err)
		}
		return repo, nil
	default:
		return filestore.NewSnapshotStore(cfg.Cluster.CacheFile), nil
	}
}
