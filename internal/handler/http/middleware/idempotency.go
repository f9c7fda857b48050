package middleware

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/jwtauth/v5"
	"github.com/opsdesk/payroll-backend-go/internal/handler/http/response"
	"github.com/redis/go-redis/v9"
)

const (
	IdempotencyKeyHeader    = "Idempotency-Key"
	IdempotentReplayHeader  = "Idempotent-Replayed"
	idempotencyLockTTL      = 30 * time.Second
	defaultIdempotencyCache = 24 * time.Hour
)

type cachedResponse struct {
	Status      int    `json:"status"`
	ContentType string `json:"content_type"`
	Body        []byte `json:"body"`
}

// Idempotency replays the first successful response to a POST carrying an
// Idempotency-Key header. A concurrent duplicate gets 409 while the first is
// still running. Without Redis, or when Redis fails, requests pass through.
type Idempotency struct {
	rdb redis.Cmdable
	ttl time.Duration
}

func NewIdempotency(rdb redis.Cmdable, ttl time.Duration) *Idempotency {
	if ttl <= 0 {
		ttl = defaultIdempotencyCache
	}
	return &Idempotency{rdb: rdb, ttl: ttl}
}

func idempotencyCacheKey(r *http.Request, key string) string {
	userID := "anonymous"
	if _, claims, err := jwtauth.FromContext(r.Context()); err == nil {
		if id, ok := claims["user_id"].(string); ok && id != "" {
			userID = id
		}
	}
	return fmt.Sprintf("idemp:%s:%s:%s", r.URL.Path, userID, key)
}

func (m *Idempotency) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := r.Header.Get(IdempotencyKeyHeader)
		if m.rdb == nil || key == "" || r.Method != http.MethodPost {
			next.ServeHTTP(w, r)
			return
		}

		ctx := r.Context()
		cacheKey := idempotencyCacheKey(r, key)
		lockKey := cacheKey + ":lock"

		val, err := m.rdb.Get(ctx, cacheKey).Bytes()
		switch {
		case err == nil:
			var cached cachedResponse
			if jsonErr := json.Unmarshal(val, &cached); jsonErr == nil {
				replay(w, cached)
				return
			}
			slog.Warn("Discarding unreadable idempotency entry", "key", cacheKey)
		case !errors.Is(err, redis.Nil):
			slog.Warn("Idempotency cache unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}

		acquired, err := m.rdb.SetNX(ctx, lockKey, "locked", idempotencyLockTTL).Result()
		if err != nil {
			slog.Warn("Idempotency lock unavailable", "error", err)
			next.ServeHTTP(w, r)
			return
		}
		if !acquired {
			response.Conflict(w, "A request with this idempotency key is still being processed")
			return
		}
		defer func() {
			if err := m.rdb.Del(ctx, lockKey).Err(); err != nil {
				slog.Warn("Failed to release idempotency lock", "key", lockKey, "error", err)
			}
		}()

		rec := &recordingWriter{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		if rec.status < 200 || rec.status >= 300 {
			return
		}
		payload, err := encodeCachedResponse(rec.status, rec.Header().Get("Content-Type"), rec.body.Bytes())
		if err != nil {
			slog.Warn("Failed to encode idempotent response", "error", err)
			return
		}
		if err := m.rdb.Set(ctx, cacheKey, payload, m.ttl).Err(); err != nil {
			slog.Warn("Failed to store idempotent response", "key", cacheKey, "error", err)
		}
	})
}

func encodeCachedResponse(status int, contentType string, body []byte) (string, error) {
	b, err := json.Marshal(cachedResponse{Status: status, ContentType: contentType, Body: body})
	return string(b), err
}

func replay(w http.ResponseWriter, cached cachedResponse) {
	if cached.ContentType != "" {
		w.Header().Set("Content-Type", cached.ContentType)
	}
	w.Header().Set(IdempotentReplayHeader, "true")
	w.WriteHeader(cached.Status)
	_, _ = w.Write(cached.Body)
}

type recordingWriter struct {
	http.ResponseWriter
	status      int
	wroteHeader bool
	body        bytes.Buffer
}

func (rw *recordingWriter) WriteHeader(status int) {
	if !rw.wroteHeader {
		rw.status = status
		rw.wroteHeader = true
	}
	rw.ResponseWriter.WriteHeader(status)
}

func (rw *recordingWriter) Write(b []byte) (int, error) {
	rw.wroteHeader = true
	rw.body.Write(b)
	return rw.ResponseWriter.Write(b)
}
