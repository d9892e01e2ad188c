package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/campusops/enrollments-api/api/swagger"
	"github.com/campusops/enrollments-api/internal/client"
	"github.com/campusops/enrollments-api/internal/handler"
	"github.com/campusops/enrollments-api/internal/middleware"
	"github.com/campusops/enrollments-api/internal/repository"
	"github.com/campusops/enrollments-api/internal/service"
	"github.com/campusops/enrollments-api/pkg/cache"
	"github.com/campusops/enrollments-api/pkg/config"
	"github.com/campusops/enrollments-api/pkg/database"
	"github.com/campusops/enrollments-api/pkg/logger"
	corsmiddleware "github.com/campusops/enrollments-api/pkg/middleware/cors"
	reqidmiddleware "github.com/campusops/enrollments-api/pkg/middleware/requestid"
	"github.com/campusops/enrollments-api/pkg/storage"
)

// @title Enrollments API
// @version 1.0.0
// @description Enrollment orchestration over the course catalog and student registry
// @BasePath /api/v1
// @schemes http

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logr, err := logger.New(cfg)
	if err != nil {
		log.Fatalf("failed to init logger: %v", err)
	}
	defer logr.Sync() //nolint:errcheck

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to database", "error", err)
	}
	defer db.Close()

	var cacheRepo *repository.CacheRepository
	if cfg.Cache.Enabled {
		redisClient, err := cache.NewRedis(cfg.Redis)
		if err != nil {
			logr.Sugar().Warnw("redis unavailable, running without cache", "error", err)
		} else {
			cacheRepo = repository.NewCacheRepository(redisClient, logr)
			defer cacheRepo.Close() //nolint:errcheck
		}
	}

	metrics := service.NewMetricsService()
	validate := validator.New()

	studentClient := client.NewStudentClient(cfg.Students, metrics, logr)
	courseClient := client.NewCourseClient(cfg.Courses, metrics, logr)
	enrollmentRepo := repository.NewEnrollmentRepository(db)

	enrollmentService := service.NewEnrollmentService(enrollmentRepo, studentClient, courseClient, cacheRepo, cfg.Cache.TTL, metrics, logr)

	exportService := service.NewExportService(enrollmentRepo, nil, validate, logr)
	if cfg.Export.Enabled && cfg.Export.ArchiveDir != "" {
		archive, err := storage.NewExportArchive(cfg.Export.ArchiveDir)
		if err != nil {
			logr.Sugar().Warnw("export archive unavailable, exports will not be kept", "error", err)
		} else {
			exportService = service.NewExportService(enrollmentRepo, archive, validate, logr)
		}
	}

	enrollmentHandler := handler.NewEnrollmentHandler(enrollmentService)
	exportHandler := handler.NewExportHandler(exportService)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(middleware.Metrics(metrics))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	r.GET("/ready", func(c *gin.Context) {
		if err := db.PingContext(c.Request.Context()); err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "database unavailable"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"status": "ready"})
	})

	r.GET("/metrics", gin.WrapH(metrics.Handler()))

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	enrollments := api.Group("/enrollments")
	enrollments.GET("", enrollmentHandler.List)
	if cfg.Export.Enabled {
		enrollments.GET("/export", exportHandler.Download)
	}
	enrollments.GET("/:id", enrollmentHandler.Get)

	writes := enrollments.Group("")
	if cfg.Auth.Enabled {
		writes.Use(middleware.JWT(service.NewTokenService(cfg.Auth.Secret)))
	}
	writes.POST("", enrollmentHandler.Create)
	writes.PUT("/:id", enrollmentHandler.Update)
	writes.DELETE("/:id", enrollmentHandler.Delete)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: r,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Sugar().Fatalw("server failed", "error", err)
		}
	}()

	<-ctx.Done()
	logr.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logr.Sugar().Errorw("shutdown failed", "error", err)
	}
}
