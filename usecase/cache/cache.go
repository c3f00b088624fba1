package cache

import (
	"context"
	"errors"
	"fmt"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/repository"
	"github.com/fastygo/degreeprogram/usecase"
	"github.com/fastygo/degreeprogram/view"
)

const defaultConcurrency = 4

// ViewRefresher rebuilds a cached translated view.
type ViewRefresher interface {
	Refresh(ctx context.Context, id domain.DegreeProgramID, languageCode string, facultySlugs []string) (*view.Translated, error)
}

// ProgramLister lists the ids of every stored program.
type ProgramLister interface {
	IDs(ctx context.Context) ([]int, error)
}

type Config struct {
	Languages   []string
	Concurrency int
}

// Service invalidates and warms the translated view cache.
type Service struct {
	programs  ProgramLister
	views     ViewRefresher
	cache     repository.ViewCache
	events    usecase.EventPublisher
	languages []string
	limit     int
	logger    *zap.Logger
}

func New(programs ProgramLister, views ViewRefresher, cache repository.ViewCache, events usecase.EventPublisher, cfg Config, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if len(cfg.Languages) == 0 {
		cfg.Languages = domain.Languages
	}
	if cfg.Concurrency <= 0 {
		cfg.Concurrency = defaultConcurrency
	}
	return &Service{
		programs:  programs,
		views:     views,
		cache:     cache,
		events:    events,
		languages: cfg.Languages,
		limit:     cfg.Concurrency,
		logger:    logger,
	}
}

// Subscribe wires cache maintenance to degree program events.
func (s *Service) Subscribe(dispatcher *usecase.EventDispatcher) {
	dispatcher.Subscribe(domain.EventDegreeProgramUpdated, func(ctx context.Context, event domain.Event) error {
		updated, ok := event.(domain.DegreeProgramUpdated)
		if !ok {
			return nil
		}
		return s.RefreshPartially(ctx, []int{updated.ID})
	})
	dispatcher.Subscribe(domain.EventRelationsChanged, func(ctx context.Context, event domain.Event) error {
		changed, ok := event.(domain.RelationsChanged)
		if !ok || len(changed.IDs) == 0 {
			return nil
		}
		return s.RefreshPartially(ctx, changed.IDs)
	})
	dispatcher.Subscribe(domain.EventSharedLinkUpdated, func(ctx context.Context, _ domain.Event) error {
		// shared links are part of every view
		return s.WarmFully(ctx)
	})
}

// RefreshPartially drops every cached view of the given programs, including
// faculty-specific ones, and rebuilds their default views.
func (s *Service) RefreshPartially(ctx context.Context, ids []int) error {
	if err := s.InvalidatePartially(ctx, ids); err != nil {
		return err
	}
	return s.WarmPartially(ctx, ids)
}

func (s *Service) InvalidateFully(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("invalidate view cache: %w", err)
	}
	return s.publish(ctx, domain.CacheInvalidatedFull())
}

func (s *Service) InvalidatePartially(ctx context.Context, ids []int) error {
	if err := s.cache.Invalidate(ctx, ids); err != nil {
		return fmt.Errorf("invalidate views %v: %w", ids, err)
	}
	return s.publish(ctx, domain.CacheInvalidatedPartial(ids))
}

// WarmFully drops the whole cache and rebuilds the views of every program.
func (s *Service) WarmFully(ctx context.Context) error {
	if err := s.cache.InvalidateAll(ctx); err != nil {
		return fmt.Errorf("invalidate view cache: %w", err)
	}
	ids, err := s.programs.IDs(ctx)
	if err != nil {
		return fmt.Errorf("list degree programs: %w", err)
	}
	if err := s.warm(ctx, ids); err != nil {
		return err
	}
	s.logger.Info("view cache warmed", zap.Int("programs", len(ids)))
	return s.publish(ctx, domain.CacheWarmedFully())
}

// WarmPartially rebuilds the views of the given programs.
func (s *Service) WarmPartially(ctx context.Context, ids []int) error {
	if err := s.warm(ctx, ids); err != nil {
		return err
	}
	return s.publish(ctx, domain.CacheWarmedPartially(ids))
}

func (s *Service) warm(ctx context.Context, ids []int) error {
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(s.limit)

	for _, rawID := range ids {
		id, err := domain.NewDegreeProgramID(rawID)
		if err != nil {
			_ = g.Wait()
			return err
		}
		for _, lang := range s.languages {
			g.Go(func() error {
				_, err := s.views.Refresh(ctx, id, lang, nil)
				if errors.Is(err, domain.ErrDegreeProgramNotFound) {
					s.logger.Debug("skipping missing program", zap.Int("id", id.Int()))
					return nil
				}
				if err != nil {
					return fmt.Errorf("warm %d/%s: %w", id.Int(), lang, err)
				}
				return nil
			})
		}
	}
	return g.Wait()
}

func (s *Service) publish(ctx context.Context, event domain.Event) error {
	if s.events == nil {
		return nil
	}
	return s.events.Dispatch(ctx, event)
}
