package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"course-booking/internal/model"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// Redis keys holding the serialised lesson list and its invalidation generation.
const (
	LessonsKey    = "course-booking:lessons:all"
	GenerationKey = "course-booking:lessons:generation"
)

// LessonCache caches the full lesson list between writes. Cache failures are
// logged and never surface to callers.
//
// Every Invalidate advances a generation counter. A miss reports the
// generation it observed, and SetLessons only stores a list read under that
// generation, so a snapshot taken before a concurrent write is never cached.
type LessonCache interface {
	// GetLessons returns the cached lesson list and whether it was present.
	// On a miss, generation is the value to pass to SetLessons; it is
	// negative when the cache could not be read.
	GetLessons(ctx context.Context) (lessons []model.Lesson, generation int64, ok bool)

	// SetLessons stores the lesson list if no invalidation happened since
	// generation was observed.
	SetLessons(ctx context.Context, generation int64, lessons []model.Lesson)

	// Invalidate drops the cached lesson list and advances the generation.
	Invalidate(ctx context.Context)

	// Close releases resources held by the cache.
	Close() error
}

// NewRedisClient creates a Redis client and verifies the connection.
func NewRedisClient(ctx context.Context, addr, password string, db int) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at %s: %w", addr, err)
	}

	return client, nil
}

var errStaleGeneration = errors.New("lesson cache generation changed")

// redisLessonCache implements LessonCache on top of Redis.
type redisLessonCache struct {
	client *redis.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewRedisLessonCache creates a lesson cache backed by client.
func NewRedisLessonCache(client *redis.Client, ttl time.Duration, logger zerolog.Logger) LessonCache {
	return &redisLessonCache{
		client: client,
		ttl:    ttl,
		logger: logger.With().Str("component", "lesson-cache").Logger(),
	}
}

func (c *redisLessonCache) GetLessons(ctx context.Context) ([]model.Lesson, int64, bool) {
	values, err := c.client.MGet(ctx, LessonsKey, GenerationKey).Result()
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to read lesson cache")
		return nil, -1, false
	}

	generation, err := parseGeneration(values[1])
	if err != nil {
		c.logger.Warn().Err(err).Msg("invalid lesson cache generation")
		return nil, -1, false
	}

	data, ok := values[0].(string)
	if !ok {
		return nil, generation, false
	}

	var lessons []model.Lesson
	if err := json.Unmarshal([]byte(data), &lessons); err != nil {
		c.logger.Warn().Err(err).Msg("discarding corrupt lesson cache entry")
		c.Invalidate(ctx)
		return nil, -1, false
	}

	c.logger.Debug().Int("count", len(lessons)).Msg("lesson cache hit")
	return lessons, generation, true
}

// parseGeneration reads an MGET value; a missing counter is generation 0.
func parseGeneration(value interface{}) (int64, error) {
	if value == nil {
		return 0, nil
	}
	s, ok := value.(string)
	if !ok {
		return 0, fmt.Errorf("unexpected generation type %T", value)
	}
	return strconv.ParseInt(s, 10, 64)
}

func (c *redisLessonCache) SetLessons(ctx context.Context, generation int64, lessons []model.Lesson) {
	if generation < 0 {
		return
	}

	data, err := json.Marshal(lessons)
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to encode lessons for cache")
		return
	}

	// WATCH aborts the write if Invalidate bumps the generation before EXEC.
	err = c.client.Watch(ctx, func(tx *redis.Tx) error {
		current, err := tx.Get(ctx, GenerationKey).Int64()
		if err != nil && !errors.Is(err, redis.Nil) {
			return err
		}
		if current != generation {
			return errStaleGeneration
		}

		_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
			pipe.Set(ctx, LessonsKey, data, c.ttl)
			return nil
		})
		return err
	}, GenerationKey)

	switch {
	case err == nil:
	case errors.Is(err, errStaleGeneration), errors.Is(err, redis.TxFailedErr):
		c.logger.Debug().Int64("generation", generation).Msg("skipping stale lesson cache write")
	default:
		c.logger.Warn().Err(err).Msg("failed to write lesson cache")
	}
}

func (c *redisLessonCache) Invalidate(ctx context.Context) {
	_, err := c.client.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
		pipe.Incr(ctx, GenerationKey)
		pipe.Del(ctx, LessonsKey)
		return nil
	})
	if err != nil {
		c.logger.Warn().Err(err).Msg("failed to invalidate lesson cache")
		return
	}
	c.logger.Debug().Msg("lesson cache invalidated")
}

func (c *redisLessonCache) Close() error {
	return c.client.Close()
}

// nopLessonCache is used when caching is disabled.
type nopLessonCache struct{}

// NewNopLessonCache returns a LessonCache that never stores anything.
func NewNopLessonCache() LessonCache {
	return nopLessonCache{}
}

func (nopLessonCache) GetLessons(context.Context) ([]model.Lesson, int64, bool) { return nil, -1, false }
func (nopLessonCache) SetLessons(context.Context, int64, []model.Lesson)        {}
func (nopLessonCache) Invalidate(context.Context)                               {}
func (nopLessonCache) Close() error                                             { return nil }
