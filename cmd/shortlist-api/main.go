package main

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	_ "github.com/theshortlist/shortlist-api/api/swagger"
	"github.com/theshortlist/shortlist-api/internal/handler"
	"github.com/theshortlist/shortlist-api/internal/middleware"
	"github.com/theshortlist/shortlist-api/internal/repository"
	"github.com/theshortlist/shortlist-api/internal/service"
	"github.com/theshortlist/shortlist-api/pkg/cache"
	"github.com/theshortlist/shortlist-api/pkg/config"
	"github.com/theshortlist/shortlist-api/pkg/database"
	"github.com/theshortlist/shortlist-api/pkg/logger"
	corsmiddleware "github.com/theshortlist/shortlist-api/pkg/middleware/cors"
	reqidmiddleware "github.com/theshortlist/shortlist-api/pkg/middleware/requestid"
	"github.com/theshortlist/shortlist-api/pkg/storage"
)

// @title The Shortlist API
// @version 1.0.0
// @description Round-gated selection and matching backend for in-person matchmaking events
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

	db, err := database.NewPostgres(cfg.Database)
	if err != nil {
		logr.Sugar().Fatalw("failed to connect to postgres", "error", err)
	}
	defer db.Close() //nolint:errcheck

	redisClient, err := cache.NewRedis(cfg.Redis)
	if err != nil {
		// The service layer degrades to uncached reads and the in-process
		// match-run mutex when Redis is absent.
		logr.Sugar().Warnw("redis unavailable, continuing without cache", "error", err)
		redisClient = nil
	}

	validate := validator.New()

	eventRepo := repository.NewEventRepository(db)
	participantRepo := repository.NewParticipantRepository(db)
	selectionRepo := repository.NewSelectionRepository(db)
	finalSelectionRepo := repository.NewFinalSelectionRepository(db)
	matchRepo := repository.NewMatchRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	reportRepo := repository.NewReportRepository(db)
	cacheRepo := repository.NewCacheRepository(redisClient, logr)
	defer cacheRepo.Close() //nolint:errcheck

	metricsSvc := service.NewMetricsService()
	authSvc := service.NewAuthService(cfg.HostAuth, auditRepo, validate, logr)
	eventSvc := service.NewEventService(eventRepo, cacheRepo, auditRepo, validate, cfg.Cache.EventTTL, logr)
	participantSvc := service.NewParticipantService(participantRepo, cacheRepo, auditRepo, validate, cfg.Cache.ParticipantTTL, logr)
	selectionSvc := service.NewSelectionService(selectionRepo, finalSelectionRepo, participantRepo, eventRepo, validate, logr)
	matchingSvc := service.NewMatchingService(finalSelectionRepo, matchRepo, participantRepo, cacheRepo, auditRepo, nil, cfg.Matching.LockTTL, logr)
	phaseSvc := service.NewPhaseService(eventRepo, matchingSvc, auditRepo, logr)
	matchSvc := service.NewMatchService(matchRepo, eventRepo, participantRepo, logr)

	var reportSvc *service.ReportService
	if cfg.Reports.Enabled {
		store, err := storage.NewLocalStorage(cfg.Reports.StorageDir)
		if err != nil {
			logr.Sugar().Fatalw("failed to init report storage", "error", err)
		}
		reportSvc = service.NewReportService(cfg.Reports, reportRepo, matchingSvc, auditRepo, store, logr)
		reportSvc.Start(context.Background())
		defer reportSvc.Stop()
	}

	authHandler := handler.NewAuthHandler(authSvc)
	eventHandler := handler.NewEventHandler(eventSvc)
	phaseHandler := handler.NewPhaseHandler(phaseSvc)
	participantHandler := handler.NewParticipantHandler(participantSvc)
	selectionHandler := handler.NewSelectionHandler(selectionSvc, metricsSvc)
	matchHandler := handler.NewMatchHandler(matchSvc, matchingSvc, metricsSvc)
	metricsHandler := handler.NewMetricsHandler(metricsSvc)

	if cfg.Env == config.EnvProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(reqidmiddleware.Middleware())
	r.Use(logger.GinMiddleware(logr))
	r.Use(corsmiddleware.New(cfg.CORS.AllowedOrigins))
	r.Use(middleware.Metrics(metricsSvc))

	r.GET("/health", metricsHandler.Health)
	r.GET("/ready", metricsHandler.Health)
	r.GET("/metrics", metricsHandler.Prometheus)

	if cfg.Env != config.EnvProduction {
		r.GET("/docs/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	api := r.Group(cfg.APIPrefix)
	{
		api.GET("/phases", phaseHandler.Table)
		api.GET("/events/active", eventHandler.Active)
		api.GET("/events/:date", eventHandler.Get)

		api.POST("/participants/lookup", participantHandler.Lookup)
		api.GET("/events/:date/participants/:code", participantHandler.Get)
		api.GET("/events/:date/participants/:code/candidates", participantHandler.Candidates)
		api.PUT("/events/:date/participants/:code/profile", participantHandler.UpdateProfile)

		api.POST("/events/:date/selections", selectionHandler.SubmitRound)
		api.POST("/events/:date/final-selection", selectionHandler.SubmitFinal)
		api.GET("/events/:date/participants/:code/submitted", selectionHandler.Submitted)
		api.GET("/events/:date/participants/:code/selections", selectionHandler.MySelections)
		api.GET("/events/:date/participants/:code/final-selection", selectionHandler.MyFinalSelection)
		api.GET("/events/:date/participants/:code/picked-by", selectionHandler.PickedBy)

		api.GET("/events/:date/participants/:code/match", matchHandler.MyMatch)

		api.POST("/host/login", authHandler.Login)

		host := api.Group("/host", middleware.HostAuth(authSvc))
		{
			host.GET("/events", eventHandler.List)
			host.POST("/events", eventHandler.Create)
			host.POST("/events/:date/participants", participantHandler.Create)
			host.PUT("/events/:date", eventHandler.UpdateMeta)
			host.GET("/events/:date/audit", eventHandler.AuditTrail)
			host.PUT("/events/:date/phase", phaseHandler.Set)
			host.POST("/events/:date/phase/step", phaseHandler.Step)
			host.GET("/events/:date/selections", selectionHandler.EventSelections)
			host.GET("/events/:date/final-selections", selectionHandler.EventFinalSelections)
			host.GET("/events/:date/submission-status", selectionHandler.SubmissionStatus)
			host.POST("/events/:date/matches/run", matchHandler.Run)
			host.GET("/events/:date/matches", matchHandler.Results)

			if reportSvc != nil {
				reportHandler := handler.NewReportHandler(reportSvc)
				host.POST("/events/:date/reports", reportHandler.Queue)
				host.GET("/reports/:id", reportHandler.Get)
				api.GET("/reports/download", reportHandler.Download)
			}
		}
	}

	addr := fmt.Sprintf(":%d", cfg.Port)
	logr.Sugar().Infow("server starting", "addr", addr, "env", cfg.Env)
	if err := r.Run(addr); err != nil && err != http.ErrServerClosed {
		logr.Sugar().Fatalw("server failed", "error", err)
	}
}
