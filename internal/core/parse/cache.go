package parse

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/joseph-ayodele/docmind/internal/entity"
)

const cacheKeyPrefix = "docmind:parse:"

// CachingService memoizes parse results in redis keyed by file content hash.
// Redis errors never fail a parse; they only cost a cache miss.
type CachingService struct {
	next   Service
	rdb    redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

func NewCachingService(next Service, rdb redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *CachingService {
	if logger == nil {
		logger = slog.Default()
	}
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &CachingService{next: next, rdb: rdb, ttl: ttl, logger: logger}
}

func (c *CachingService) Parse(ctx context.Context, path string) (entity.RawDocument, error) {
	hash, err := HashFile(path)
	if err != nil {
		return c.next.Parse(ctx, path)
	}
	key := cacheKeyPrefix + hash

	b, err := c.rdb.Get(ctx, key).Bytes()
	switch {
	case err == nil:
		var doc entity.RawDocument
		if jErr := json.Unmarshal(b, &doc); jErr == nil {
			c.logger.Debug("parse.cache.hit", "hash", hash)
			return doc, nil
		}
		c.logger.Warn("parse.cache.corrupt", "hash", hash)
	case errors.Is(err, redis.Nil):
		c.logger.Debug("parse.cache.miss", "hash", hash)
	default:
		c.logger.Warn("parse.cache.get_failed", "hash", hash, "error", err)
	}

	doc, err := c.next.Parse(ctx, path)
	if err != nil {
		return doc, err
	}
	if payload, jErr := json.Marshal(doc); jErr == nil {
		if sErr := c.rdb.Set(ctx, key, payload, c.ttl).Err(); sErr != nil {
			c.logger.Warn("parse.cache.set_failed", "hash", hash, "error", sErr)
		}
	}
	return doc, nil
}
