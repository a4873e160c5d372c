package cache

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"go.uber.org/zap"
)

// internalErrorMarker flags degraded answers produced when an upstream
// failed. Such answers must never be cached.
const internalErrorMarker = "[error interno]"

// CachedAnswer is the value stored for one answered question. Path records
// which pipeline produced the answer so a hit reports it truthfully.
type CachedAnswer struct {
	AnswerText string   `json:"answer_text"`
	Sources    []string `json:"sources,omitempty"`
	Path       string   `json:"path,omitempty"`
}

// ResponseCache caches computed answers keyed by tenant, authorized context
// set, and normalized question. All store failures degrade to cache-miss or
// no-op; the cache never fails a request.
type ResponseCache struct {
	store  KeyValueStore
	ttl    time.Duration
	logger *zap.Logger
}

// NewResponseCache creates a response cache over the given store.
// A nil store disables caching: Get always misses, Set is a no-op.
func NewResponseCache(store KeyValueStore, ttl time.Duration, logger *zap.Logger) *ResponseCache {
	return &ResponseCache{
		store:  store,
		ttl:    ttl,
		logger: logger.Named("cache"),
	}
}

// Get returns the cached answer for the question, or nil on miss.
// Store unavailability and deserialization failures are logged and treated
// as a miss, never surfaced as errors (fail-open toward recomputation).
func (c *ResponseCache) Get(ctx context.Context, tenantID int64, contextIDs []int64, question string) *CachedAnswer {
	if c.store == nil {
		return nil
	}

	key := MakeKey(tenantID, contextIDs, question)

	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, ErrCacheMiss) {
			c.logger.Warn("cache lookup failed, treating as miss", zap.Error(err))
		}
		return nil
	}

	var answer CachedAnswer
	if err := json.Unmarshal(data, &answer); err != nil {
		c.logger.Warn("cached answer failed to deserialize, treating as miss", zap.Error(err))
		return nil
	}

	return &answer
}

// Set stores a computed answer. Empty answers and internal error markers are
// refused so a failure can never poison the cache. Store failures are logged
// and swallowed.
func (c *ResponseCache) Set(ctx context.Context, tenantID int64, contextIDs []int64, question string, answer *CachedAnswer) {
	if c.store == nil || answer == nil {
		return
	}
	if !Cacheable(answer.AnswerText) {
		c.logger.Debug("refusing to cache answer",
			zap.Int64("tenant_id", tenantID),
			zap.Int("answer_len", len(answer.AnswerText)))
		return
	}

	data, err := json.Marshal(answer)
	if err != nil {
		c.logger.Warn("failed to serialize answer for cache", zap.Error(err))
		return
	}

	key := MakeKey(tenantID, contextIDs, question)
	if err := c.store.Set(ctx, key, data, c.ttl); err != nil {
		c.logger.Warn("cache write failed", zap.Error(err))
	}
}

// Cacheable reports whether an answer text may be stored: non-empty and not
// an internal error marker.
func Cacheable(answerText string) bool {
	trimmed := strings.TrimSpace(answerText)
	if trimmed == "" {
		return false
	}
	return !strings.Contains(strings.ToLower(trimmed), internalErrorMarker)
}
