package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/zap"

	_ "github.com/noah-isme/thesis-workflow-api/api/swagger"
	"github.com/noah-isme/thesis-workflow-api/internal/handler"
	"github.com/noah-isme/thesis-workflow-api/internal/middleware"
	"github.com/noah-isme/thesis-workflow-api/internal/repository"
	"github.com/noah-isme/thesis-workflow-api/internal/service"
	"github.com/noah-isme/thesis-workflow-api/pkg/cache"
	"github.com/noah-isme/thesis-workflow-api/pkg/config"
	"github.com/noah-isme/thesis-workflow-api/pkg/database"
	"github.com/noah-isme/thesis-workflow-api/pkg/events"
	"github.com/noah-isme/thesis-workflow-api/pkg/logger"
	corsmiddleware "github.com/noah-isme/thesis-workflow-api/pkg/middleware/cors"
	reqidmiddleware "github.com/noah-isme/thesis-workflow-api/pkg/middleware/requestid"
)

// @title Thesis Workflow API
// @version 1.0.0
// @description Postgraduate academic workflow engine: status ledger, assignment registry, defense/viva scheduler and grade aggregator.
// @BasePath /api/v1
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

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
		logr.Fatal("failed to connect to postgres", zap.Error(err))
	}
	defer db.Close()

	if cfg.Database.RunMigrations {
		if err := database.RunMigrations(db.DB, logr); err != nil {
			logr.Fatal("failed to run migrations", zap.Error(err))
		}
	}

	var redisClient *redis.Client
	if cfg.Reports.CacheEnabled {
		redisClient, err = cache.NewRedis(context.Background(), cfg.Redis)
		if err != nil {
			logr.Warn("redis unavailable, report cache disabled", zap.Error(err))
			redisClient = nil
		}
	}
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metrics := service.NewMetricsService()

	publisher := events.NewDispatcher(events.New(cfg.Events), cfg.Events, logr, func(evt events.Event, err error) {
		metrics.RecordEventFailure()
		logr.Error("workflow event dropped", zap.String("type", evt.Type), zap.String("entity_id", evt.EntityID), zap.Error(err))
	})
	publisher.Start(context.Background())
	defer publisher.Close() //nolint:errcheck

	cacheSvc := service.NewCacheService(cacheRepo, metrics, cfg.Reports.CacheTTL, logr, redisClient != nil)
	hooks := service.NewWorkflowHooks(cacheSvc, publisher, metrics, logr)
	validate := validator.New()

	statusRepo := repository.NewStatusRepository(db)
	definitionRepo := repository.NewStatusDefinitionRepository(db)
	entityRepo := repository.NewEntityRepository(db)
	personRepo := repository.NewPersonRepository(db)
	assignmentRepo := repository.NewAssignmentRepository(db)
	defenseRepo := repository.NewDefenseRepository(db)
	vivaRepo := repository.NewVivaRepository(db)
	reportRepo := repository.NewReportRepository(db)

	ledgerSvc := service.NewLedgerService(statusRepo, hooks, validate, logr)
	definitionSvc := service.NewStatusDefinitionService(definitionRepo, hooks, validate, logr)
	entitySvc := service.NewEntityService(entityRepo, hooks, validate, logr)
	personSvc := service.NewPersonService(personRepo, hooks, validate, logr)
	assignmentSvc := service.NewAssignmentService(assignmentRepo, personSvc, hooks, cfg.Grading, validate, logr)
	schedulerSvc := service.NewSchedulerService(defenseRepo, vivaRepo, assignmentRepo, entityRepo, personSvc, hooks, cfg.Grading, validate, logr)
	gradeSvc := service.NewGradeService(assignmentRepo, vivaRepo, entityRepo, hooks, logr)
	reportSvc := service.NewReportService(reportRepo, cacheSvc, cfg.Reports.CacheTTL, hooks, validate, logr)
	tokenSvc := service.NewTokenService(cfg.JWT)

	metricsHandler := handler.NewMetricsHandler(metrics, map[string]handler.Pinger{
		"postgres": db,
		"redis":    cacheRepo,
	})

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metrics, "/health", "/ready", "/metrics"))
	r.Use(middleware.WithResponseMeta())

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Ready)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	api.Use(middleware.Audit(logr))
	registerRoutes(api, handlers{
		entities:    handler.NewEntityHandler(entitySvc),
		ledger:      handler.NewLedgerHandler(ledgerSvc),
		definitions: handler.NewStatusDefinitionHandler(definitionSvc),
		assignments: handler.NewAssignmentHandler(assignmentSvc),
		persons:     handler.NewPersonHandler(personSvc),
		scheduler:   handler.NewSchedulerHandler(schedulerSvc),
		reports:     handler.NewReportHandler(reportSvc, gradeSvc),
	}, tokenSvc)

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Port),
		Handler:      r,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	go func() {
		logr.Sugar().Infow("server starting", "addr", srv.Addr, "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logr.Fatal("server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	logr.Info("shutting down", zap.String("signal", sig.String()))

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logr.Error("graceful shutdown failed", zap.Error(err))
	}
}
