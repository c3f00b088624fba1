package redis

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/fastygo/degreeprogram/domain"
	"github.com/fastygo/degreeprogram/repository"
	"github.com/fastygo/degreeprogram/view"
)

const (
	translatedPrefix = "degree_program:translated:"
	indexPrefix      = "degree_program:index:"
	scanBatchSize    = 200
)

// CachedViewRepository serves translated views from Redis and falls back to
// the wrapped repository on a miss. Raw views are never cached.
type CachedViewRepository struct {
	inner  repository.DegreeProgramViewRepository
	client *redislib.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedViewRepository wraps inner with a Redis cache.
func NewCachedViewRepository(inner repository.DegreeProgramViewRepository, client *redislib.Client, ttl time.Duration, logger *zap.Logger) *CachedViewRepository {
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedViewRepository{
		inner:  inner,
		client: client,
		ttl:    ttl,
		logger: logger,
	}
}

func (c *CachedViewRepository) FindRaw(ctx context.Context, id domain.DegreeProgramID) (view.Raw, error) {
	return c.inner.FindRaw(ctx, id)
}

func (c *CachedViewRepository) FindTranslated(ctx context.Context, id domain.DegreeProgramID, languageCode string, facultySlugs []string) (*view.Translated, error) {
	key := c.key(id.Int(), languageCode, facultySlugs)

	result, err := c.client.Get(ctx, key).Result()
	switch {
	case err == nil:
		cached, decodeErr := view.TranslatedFromJSON([]byte(result))
		if decodeErr == nil {
			return cached, nil
		}
		c.logger.Warn("dropping undecodable cached view", zap.String("key", key), zap.Error(decodeErr))
	case err != redislib.Nil:
		c.logger.Warn("view cache read failed", zap.String("key", key), zap.Error(err))
	}

	return c.Refresh(ctx, id, languageCode, facultySlugs)
}

// Refresh loads the view from the wrapped repository and stores it.
func (c *CachedViewRepository) Refresh(ctx context.Context, id domain.DegreeProgramID, languageCode string, facultySlugs []string) (*view.Translated, error) {
	translated, err := c.inner.FindTranslated(ctx, id, languageCode, facultySlugs)
	if err != nil {
		return nil, err
	}
	if err := c.store(ctx, id.Int(), c.key(id.Int(), languageCode, facultySlugs), translated); err != nil {
		c.logger.Warn("view cache write failed", zap.Int("id", id.Int()), zap.Error(err))
	}
	return translated, nil
}

// Invalidate drops every cached view of the given programs.
func (c *CachedViewRepository) Invalidate(ctx context.Context, ids []int) error {
	for _, id := range ids {
		index := c.indexKey(id)
		keys, err := c.client.SMembers(ctx, index).Result()
		if err != nil && err != redislib.Nil {
			return err
		}
		keys = append(keys, index)
		if err := c.client.Del(ctx, keys...).Err(); err != nil {
			return err
		}
	}
	return nil
}

// InvalidateAll drops every cached view.
func (c *CachedViewRepository) InvalidateAll(ctx context.Context) error {
	for _, pattern := range []string{translatedPrefix + "*", indexPrefix + "*"} {
		iter := c.client.Scan(ctx, 0, pattern, scanBatchSize).Iterator()
		batch := make([]string, 0, scanBatchSize)
		for iter.Next(ctx) {
			batch = append(batch, iter.Val())
			if len(batch) == scanBatchSize {
				if err := c.client.Del(ctx, batch...).Err(); err != nil {
					return err
				}
				batch = batch[:0]
			}
		}
		if err := iter.Err(); err != nil {
			return err
		}
		if len(batch) > 0 {
			if err := c.client.Del(ctx, batch...).Err(); err != nil {
				return err
			}
		}
	}
	return nil
}

func (c *CachedViewRepository) store(ctx context.Context, id int, key string, translated *view.Translated) error {
	payload, err := translated.MarshalJSON()
	if err != nil {
		return err
	}
	index := c.indexKey(id)
	_, err = c.client.TxPipelined(ctx, func(pipe redislib.Pipeliner) error {
		pipe.Set(ctx, key, payload, c.ttl)
		pipe.SAdd(ctx, index, key)
		pipe.Expire(ctx, index, c.ttl)
		return nil
	})
	return err
}

func (c *CachedViewRepository) key(id int, languageCode string, facultySlugs []string) string {
	slugs := slices.Clone(facultySlugs)
	slices.Sort(slugs)
	slugs = slices.Compact(slugs)
	return fmt.Sprintf("%s%d:%s:%s", translatedPrefix, id, languageCode, strings.Join(slugs, ","))
}

func (c *CachedViewRepository) indexKey(id int) string {
	return fmt.Sprintf("%s%d", indexPrefix, id)
}

var (
	_ repository.DegreeProgramViewRepository = (*CachedViewRepository)(nil)
	_ repository.ViewCache                   = (*CachedViewRepository)(nil)
)
