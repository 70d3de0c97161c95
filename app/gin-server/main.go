package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/yoockh/hirescreen/config"
	"github.com/yoockh/hirescreen/internal/api/handlers"
	"github.com/yoockh/hirescreen/internal/api/middleware"
	"github.com/yoockh/hirescreen/internal/api/routes"
	"github.com/yoockh/hirescreen/internal/cache"
	"github.com/yoockh/hirescreen/internal/logger"
	"github.com/yoockh/hirescreen/internal/providers/llm"
	mongorepo "github.com/yoockh/hirescreen/internal/repositories/mongo"
	pgrepo "github.com/yoockh/hirescreen/internal/repositories/postgres"
	"github.com/yoockh/hirescreen/internal/services"
	"github.com/yoockh/hirescreen/internal/storage"
	"github.com/yoockh/hirescreen/internal/workers"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := logger.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Relational store
	db, err := config.OpenDatabase(cfg.DBDriver, cfg.DBDSN, log)
	if err != nil {
		log.WithError(err).Fatal("database init failed")
	}
	defer func() { _ = config.CloseDatabase(db) }()
	if err := config.Migrate(db); err != nil {
		log.WithError(err).Fatal("database migration failed")
	}
	log.WithField("driver", cfg.DBDriver).Info("database connected")

	// Cache, report queue and status stream need Redis; without it the cache is in-process.
	var (
		rdb   *redis.Client
		store cache.Cache
		queue workers.ReportQueue
	)
	if cfg.RedisAddr != "" {
		rdb, err = config.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			log.WithError(err).Fatal("redis init failed")
		}
		defer rdb.Close()
		store = cache.NewRedisCache(rdb)
		queue = workers.NewRedisReportQueue(rdb)
		log.Info("redis connected")
	} else {
		store = cache.NewMemoryCache()
		log.Warn("REDIS_ADDR not set; using in-memory cache, async reports disabled")
	}

	// Transcript archive
	var archive mongorepo.TranscriptRepository
	if cfg.MongoURI != "" {
		var mc *mongo.Client
		mc, err = config.NewMongo(ctx, cfg.MongoURI)
		if err != nil {
			log.WithError(err).Fatal("mongodb init failed")
		}
		defer func() {
			dctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = mc.Disconnect(dctx)
		}()
		mdb := mc.Database(cfg.MongoDB)
		if err := config.EnsureMongoIndexes(ctx, mdb); err != nil {
			log.WithError(err).Warn("mongodb index creation failed")
		}
		archive = mongorepo.NewTranscriptRepo(mdb)
		log.Info("mongodb connected")
	}

	// Completion provider
	completer, err := llm.New(ctx, llm.Config{
		Provider:       cfg.LLMProvider,
		Model:          cfg.LLMModel,
		VertexProject:  cfg.VertexProject,
		VertexLocation: cfg.VertexLocation,
		GeminiAPIKey:   cfg.GeminiAPIKey,
		OpenAIAPIKey:   cfg.OpenAIAPIKey,
		OpenAIBaseURL:  cfg.OpenAIBaseURL,
	})
	if err != nil {
		log.WithError(err).Fatal("llm init failed")
	}
	defer func() { _ = completer.Close() }()

	// Résumé storage
	var uploader storage.Uploader
	if cfg.GCSBucket != "" {
		gcsUp, err := storage.NewGCSUploader(ctx, cfg.GCSBucket)
		if err != nil {
			log.WithError(err).Fatal("gcs init failed")
		}
		defer func() { _ = gcsUp.Close() }()
		uploader = gcsUp
	}

	jobRepo := pgrepo.NewJobRepo(db)
	appRepo := pgrepo.NewApplicationRepo(db)
	interviewRepo := pgrepo.NewInterviewRepo(db)
	profileRepo := pgrepo.NewProfileRepo(db)
	userRepo := pgrepo.NewUserRepo(db)
	resumeRepo := pgrepo.NewResumeRepo(db)

	interviewSvc := services.NewInterviewService(services.InterviewDeps{
		Applications: appRepo,
		Interviews:   interviewRepo,
		Profiles:     profileRepo,
		Users:        userRepo,
		LLM:          completer,
		Archive:      archive,
		Cache:        store,
		Log:          log,
	})
	reportSvc := services.NewReportService(services.ReportDeps{
		Applications: appRepo,
		Interviews:   interviewRepo,
		Profiles:     profileRepo,
		LLM:          completer,
		Archive:      archive,
		Cache:        store,
		Log:          log,
	})
	jobSvc := services.NewJobService(jobRepo, appRepo, store, log)
	appSvc := services.NewApplicationService(jobRepo, appRepo, store, log)
	dashboardSvc := services.NewDashboardService(jobRepo, appRepo, store, log)
	profileSvc := services.NewProfileService(profileRepo, userRepo, resumeRepo, uploader, store, log)

	var ws *handlers.WSHandler
	if rdb != nil {
		pool := &workers.ReportWorkerPool{
			Redis:      rdb,
			Reports:    reportSvc,
			NumWorkers: cfg.ReportWorkers,
			Timeout:    cfg.LLMTimeout,
			Logger:     log,
		}
		if err := pool.Start(ctx); err != nil {
			log.WithError(err).Fatal("report workers failed to start")
		}
		ws = handlers.NewWSHandler(interviewSvc, rdb, cfg.AllowedOrigins)
	}

	r := gin.New()
	r.Use(gin.Recovery(), middleware.RequestLogger(log))
	routes.RegisterRoutes(r, routes.Deps{
		Auth: middleware.JWTConfig{
			Secret:   cfg.JWTSecret,
			Issuer:   cfg.JWTIssuer,
			Audience: cfg.JWTAudience,
		},
		Interview:   handlers.NewInterviewHandler(interviewSvc, reportSvc, queue, cfg.LLMTimeout, log),
		Report:      handlers.NewReportHandler(reportSvc),
		Job:         handlers.NewJobHandler(jobSvc, appSvc),
		Application: handlers.NewApplicationHandler(appSvc, dashboardSvc),
		Profile:     handlers.NewProfileHandler(profileSvc),
		WS:          ws,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.WithField("port", cfg.Port).Info("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Error("http server stopped")
			stop()
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Warn("http server shutdown failed")
	}
}
