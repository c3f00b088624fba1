package main

import (
	"context"
	"log"
	"time"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	apiHandler "github.com/fastygo/degreeprogram/api/handler"
	"github.com/fastygo/degreeprogram/internal/config"
	"github.com/fastygo/degreeprogram/internal/infrastructure/buffer"
	"github.com/fastygo/degreeprogram/internal/infrastructure/monitor"
	pgInfra "github.com/fastygo/degreeprogram/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/degreeprogram/internal/infrastructure/redis"
	"github.com/fastygo/degreeprogram/internal/middleware"
	"github.com/fastygo/degreeprogram/internal/router"
	"github.com/fastygo/degreeprogram/internal/sanitizer"
	"github.com/fastygo/degreeprogram/internal/services"
	"github.com/fastygo/degreeprogram/internal/services/lifecycle"
	"github.com/fastygo/degreeprogram/internal/validator"
	"github.com/fastygo/degreeprogram/pkg/httpcontext"
	"github.com/fastygo/degreeprogram/pkg/logger"
	"github.com/fastygo/degreeprogram/repository/postgres"
	redisRepo "github.com/fastygo/degreeprogram/repository/redis"
	"github.com/fastygo/degreeprogram/usecase"
	cacheUC "github.com/fastygo/degreeprogram/usecase/cache"
	degreeProgramUC "github.com/fastygo/degreeprogram/usecase/degreeprogram"
	"github.com/fastygo/degreeprogram/view"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Service:     cfg.AppName,
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	appCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	manager := lifecycle.New(cfg.Context.ShutdownTimeout, zapLogger)
	manager.Listen(cancel)

	if err := pgInfra.RunMigrations(cfg, zapLogger); err != nil {
		zapLogger.Fatal("migrations failed", zap.Error(err))
	}

	pool, err := pgInfra.NewPool(appCtx, cfg.Database, cfg.AppName, zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	manager.Register("postgres", func(ctx context.Context) error {
		pgInfra.Close(pool, zapLogger)
		return nil
	})

	redisClient, err := redisInfra.NewClient(appCtx, cfg.Redis, zapLogger)
	if redisClient == nil {
		zapLogger.Fatal("redis configuration invalid", zap.Error(err))
	}
	manager.Register("redis", func(ctx context.Context) error {
		return redisClient.Close()
	})

	bufferStore, err := buffer.Open(cfg.Buffer.Path, cfg.Buffer.MaxSize)
	if err != nil {
		zapLogger.Fatal("failed to open buffer store", zap.Error(err))
	}
	manager.Register("buffer", func(ctx context.Context) error {
		return bufferStore.Close()
	})

	mon := monitor.New(pool, redisClient, bufferStore, 10*time.Second, zapLogger)
	mon.Start()
	manager.Register("monitor", func(ctx context.Context) error {
		mon.Stop()
		return nil
	})

	// storage
	programRepo := postgres.NewDegreeProgramRepository(pool)
	optionRepo := postgres.NewSharedOptionRepository(pool)
	projector := view.NewProjector(postgres.NewRelatedLookup(pool, cfg.Catalog.BaseURL), cfg.Catalog.BaseURL)
	viewRepo := postgres.NewViewRepository(pool, optionRepo, projector, cfg.Catalog.Languages, zapLogger)
	cachedViews := redisRepo.NewCachedViewRepository(viewRepo, redisClient, cfg.Catalog.CacheTTL, zapLogger)

	// events
	dispatcher := usecase.NewEventDispatcher(zapLogger)
	dispatcher.SubscribeAll(usecase.LogEvents(zapLogger))

	cacheService := cacheUC.New(programRepo, cachedViews, cachedViews, dispatcher, cacheUC.Config{
		Languages:   cfg.Catalog.Languages,
		Concurrency: cfg.Catalog.WarmConcurrency,
	}, zapLogger)
	cacheService.Subscribe(dispatcher)

	bufferProcessor := services.NewBufferProcessor(
		bufferStore,
		mon,
		programRepo,
		dispatcher,
		zapLogger,
		services.ProcessorConfig{
			Interval:   cfg.Buffer.SyncInterval,
			BatchSize:  50,
			MaxRetries: cfg.Buffer.MaxRetry,
			Retention:  time.Duration(cfg.Buffer.RetentionHours) * time.Hour,
		},
	)
	bufferProcessor.Start()
	mon.OnPostgresRecovered(bufferProcessor.DrainNow)
	manager.Register("buffer_processor", func(ctx context.Context) error {
		bufferProcessor.Stop(ctx)
		return nil
	})

	cacheScheduler, err := services.NewCacheScheduler(cacheService, cfg.Catalog.WarmSchedule, 0, zapLogger)
	if err != nil {
		zapLogger.Fatal("invalid cache warm schedule", zap.String("schedule", cfg.Catalog.WarmSchedule), zap.Error(err))
	}
	cacheScheduler.Start()
	manager.Register("cache_scheduler", func(ctx context.Context) error {
		cacheScheduler.Stop(ctx)
		return nil
	})
	if cfg.Catalog.WarmOnStartup {
		manager.Go("cache_warm_startup", func(ctx context.Context) error {
			cacheScheduler.Warm(ctx)
			return nil
		})
	}

	degreePrograms := degreeProgramUC.New(degreeProgramUC.Dependencies{
		Programs:    programRepo,
		Views:       cachedViews,
		Collections: viewRepo,
		SharedLinks: optionRepo,
		Validator:   validator.New(),
		Sanitizer:   sanitizer.New(),
		Events:      dispatcher,
		Buffer:      services.NewBufferBridge(bufferProcessor),
	}, zapLogger)

	ctxAdapter := httpcontext.NewAdapter(cfg.Context.RequestTimeout)

	handlers := router.Handlers{
		DegreePrograms: apiHandler.NewDegreeProgramHandler(degreePrograms, cfg.Catalog.Languages, ctxAdapter, zapLogger),
		Cache:          apiHandler.NewCacheHandler(cacheService, httpcontext.NewAdapter(10*time.Minute), zapLogger),
		Health:         apiHandler.NewHealthHandler(mon, cfg.Catalog.Languages, ctxAdapter, zapLogger),
	}

	authMiddleware := middleware.JWTAuth(cfg.JWT.Secret, cfg.JWT.Issuer, middleware.ScopeWrite, zapLogger)
	r := router.New(handlers, authMiddleware)

	server := &fasthttp.Server{
		Handler:      r.Handler,
		ReadTimeout:  cfg.HTTP.ReadTimeout,
		WriteTimeout: cfg.HTTP.WriteTimeout,
		IdleTimeout:  cfg.HTTP.IdleTimeout,
		Concurrency:  cfg.HTTP.MaxConn,
		Name:         cfg.AppName,
	}

	go func() {
		zapLogger.Info("server started", zap.String("address", cfg.Address()), zap.Strings("languages", cfg.Catalog.Languages))
		if err := server.ListenAndServe(cfg.Address()); err != nil {
			zapLogger.Fatal("server crashed", zap.Error(err))
		}
	}()

	manager.Register("http_server", func(ctx context.Context) error {
		return server.ShutdownWithContext(ctx)
	})

	<-appCtx.Done()

	if err := manager.Shutdown(context.Background()); err != nil {
		zapLogger.Error("graceful shutdown error", zap.Error(err))
	}
}
