package http

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/agroplan/planner/pkg/logger"
)

const cacheKeyPrefix = "planner:report:"

// ReportCache caches heavy read-only report responses in Redis. A nil
// client disables caching so the service runs without Redis.
type ReportCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewReportCache creates a new report cache
func NewReportCache(client *redis.Client, ttl time.Duration) *ReportCache {
	return &ReportCache{client: client, ttl: ttl}
}

// Middleware serves cached GET responses and stores fresh ones
func (c *ReportCache) Middleware(next http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if c == nil || c.client == nil || r.Method != http.MethodGet {
			next.ServeHTTP(w, r)
			return
		}

		key := cacheKey(r)
		cached, err := c.client.Get(r.Context(), key).Bytes()
		if err == nil && len(cached) > 0 {
			logger.Logger.Debug().Str("path", r.URL.Path).Msg("Report cache hit")
			w.Header().Set("Content-Type", "application/json")
			w.Header().Set("X-Cache", "HIT")
			w.Write(cached)
			return
		}

		recorder := &cachingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(recorder, r)

		if recorder.status == http.StatusOK && recorder.body.Len() > 0 {
			if err := c.client.Set(r.Context(), key, recorder.body.Bytes(), c.ttl).Err(); err != nil {
				logger.Logger.Warn().Err(err).Str("path", r.URL.Path).Msg("Failed to cache report")
			}
		}
	}
}

// Invalidate drops every cached report. Called after a commit makes the
// load report stale.
func (c *ReportCache) Invalidate(ctx context.Context) {
	if c == nil || c.client == nil {
		return
	}

	iter := c.client.Scan(ctx, 0, cacheKeyPrefix+"*", 0).Iterator()
	for iter.Next(ctx) {
		if err := c.client.Del(ctx, iter.Val()).Err(); err != nil {
			logger.Logger.Warn().Err(err).Str("key", iter.Val()).Msg("Failed to invalidate cached report")
		}
	}
	if err := iter.Err(); err != nil {
		logger.Logger.Warn().Err(err).Msg("Report cache invalidation scan failed")
	}
}

func cacheKey(r *http.Request) string {
	sum := sha256.Sum256([]byte(r.URL.Path + "?" + r.URL.RawQuery))
	return cacheKeyPrefix + hex.EncodeToString(sum[:])
}

// cachingWriter buffers the response body while passing it through
type cachingWriter struct {
	http.ResponseWriter
	body   bytes.Buffer
	status int
}

func (w *cachingWriter) WriteHeader(code int) {
	w.status = code
	w.ResponseWriter.WriteHeader(code)
}

func (w *cachingWriter) Write(b []byte) (int, error) {
	w.body.Write(b)
	return w.ResponseWriter.Write(b)
}
