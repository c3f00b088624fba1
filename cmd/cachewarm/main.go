// Command cachewarm rebuilds the translated view cache outside the server,
// e.g. from a deploy hook.
//
//	cachewarm                  drop and rebuild every view
//	cachewarm -ids 25,26       rebuild the views of two programs
//	cachewarm -invalidate      only drop the cache
package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/internal/config"
	pgInfra "github.com/fastygo/degreeprogram/internal/infrastructure/postgres"
	redisInfra "github.com/fastygo/degreeprogram/internal/infrastructure/redis"
	"github.com/fastygo/degreeprogram/pkg/logger"
	"github.com/fastygo/degreeprogram/repository/postgres"
	redisRepo "github.com/fastygo/degreeprogram/repository/redis"
	"github.com/fastygo/degreeprogram/usecase"
	cacheUC "github.com/fastygo/degreeprogram/usecase/cache"
	"github.com/fastygo/degreeprogram/view"
)

func main() {
	idsFlag := flag.String("ids", "", "comma separated degree program ids; empty warms every program")
	invalidateOnly := flag.Bool("invalidate", false, "drop cached views without rebuilding them")
	timeout := flag.Duration("timeout", 30*time.Minute, "overall deadline")
	flag.Parse()

	ids, err := parseIDs(*idsFlag)
	if err != nil {
		log.Fatalf("invalid -ids: %v", err)
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}
	zapLogger, err := logger.New(logger.Config{
		Level:       cfg.Logger.Level,
		Encoding:    cfg.Logger.Encoding,
		Service:     cfg.AppName + "-cachewarm",
		Environment: cfg.Environment,
	})
	if err != nil {
		log.Fatalf("logger error: %v", err)
	}
	defer zapLogger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	ctx, cancel := context.WithTimeout(ctx, *timeout)
	defer cancel()

	pool, err := pgInfra.NewPool(ctx, cfg.Database, cfg.AppName+"-cachewarm", zapLogger)
	if err != nil {
		zapLogger.Fatal("postgres connection failed", zap.Error(err))
	}
	defer pgInfra.Close(pool, zapLogger)

	redisClient, err := redisInfra.NewClient(ctx, cfg.Redis, zapLogger)
	if err != nil {
		zapLogger.Fatal("redis connection failed", zap.Error(err))
	}
	defer redisClient.Close()

	optionRepo := postgres.NewSharedOptionRepository(pool)
	projector := view.NewProjector(postgres.NewRelatedLookup(pool, cfg.Catalog.BaseURL), cfg.Catalog.BaseURL)
	viewRepo := postgres.NewViewRepository(pool, optionRepo, projector, cfg.Catalog.Languages, zapLogger)
	cachedViews := redisRepo.NewCachedViewRepository(viewRepo, redisClient, cfg.Catalog.CacheTTL, zapLogger)

	dispatcher := usecase.NewEventDispatcher(zapLogger)
	dispatcher.SubscribeAll(usecase.LogEvents(zapLogger))

	service := cacheUC.New(postgres.NewDegreeProgramRepository(pool), cachedViews, cachedViews, dispatcher, cacheUC.Config{
		Languages:   cfg.Catalog.Languages,
		Concurrency: cfg.Catalog.WarmConcurrency,
	}, zapLogger)

	started := time.Now()
	switch {
	case *invalidateOnly && len(ids) == 0:
		err = service.InvalidateFully(ctx)
	case *invalidateOnly:
		err = service.InvalidatePartially(ctx, ids)
	case len(ids) == 0:
		err = service.WarmFully(ctx)
	default:
		err = service.RefreshPartially(ctx, ids)
	}
	if err != nil {
		zapLogger.Fatal("cache command failed", zap.Error(err))
	}
	zapLogger.Info("cache command finished", zap.Ints("ids", ids), zap.Bool("invalidate_only", *invalidateOnly), zap.Duration("took", time.Since(started)))
}

func parseIDs(raw string) ([]int, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	var ids []int
	for _, part := range strings.Split(raw, ",") {
		id, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, nil
}
