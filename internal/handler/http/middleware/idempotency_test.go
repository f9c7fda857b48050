package middleware

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const okBody = `{"success":true}`

func countingHandler(calls *int) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		*calls++
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(okBody))
	})
}

func newKeyedRequest() *http.Request {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bonus/withdrawals", nil)
	req.Header.Set(IdempotencyKeyHeader, "abc")
	return req
}

const (
	cacheKey = "idemp:/api/v1/bonus/withdrawals:anonymous:abc"
	lockKey  = cacheKey + ":lock"
)

func TestIdempotency_FirstRequestIsCached(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	payload, err := encodeCachedResponse(http.StatusCreated, "application/json", []byte(okBody))
	require.NoError(t, err)

	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(true)
	mock.ExpectSet(cacheKey, payload, time.Hour).SetVal("OK")
	mock.ExpectDel(lockKey).SetVal(1)

	calls := 0
	rec := httptest.NewRecorder()
	NewIdempotency(rdb, time.Hour).Handler(countingHandler(&calls)).ServeHTTP(rec, newKeyedRequest())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	payload, err := encodeCachedResponse(http.StatusCreated, "application/json", []byte(okBody))
	require.NoError(t, err)
	mock.ExpectGet(cacheKey).SetVal(payload)

	calls := 0
	rec := httptest.NewRecorder()
	NewIdempotency(rdb, time.Hour).Handler(countingHandler(&calls)).ServeHTTP(rec, newKeyedRequest())

	assert.Equal(t, 0, calls)
	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, okBody, rec.Body.String())
	assert.Equal(t, "true", rec.Header().Get(IdempotentReplayHeader))
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ConcurrentDuplicateConflicts(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(cacheKey).RedisNil()
	mock.ExpectSetNX(lockKey, "locked", idempotencyLockTTL).SetVal(false)

	calls := 0
	rec := httptest.NewRecorder()
	NewIdempotency(rdb, time.Hour).Handler(countingHandler(&calls)).ServeHTTP(rec, newKeyedRequest())

	assert.Equal(t, http.StatusConflict, rec.Code)
	assert.Equal(t, 0, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_RedisDownPassesThrough(t *testing.T) {
	rdb, mock := redismock.NewClientMock()
	mock.ExpectGet(cacheKey).SetErr(errors.New("connection refused"))

	calls := 0
	rec := httptest.NewRecorder()
	NewIdempotency(rdb, time.Hour).Handler(countingHandler(&calls)).ServeHTTP(rec, newKeyedRequest())

	assert.Equal(t, http.StatusCreated, rec.Code)
	assert.Equal(t, 1, calls)
}

func TestIdempotency_SkipsWithoutKeyOrRedis(t *testing.T) {
	calls := 0
	rec := httptest.NewRecorder()
	NewIdempotency(nil, 0).Handler(countingHandler(&calls)).ServeHTTP(rec, newKeyedRequest())
	assert.Equal(t, 1, calls)

	rdb, mock := redismock.NewClientMock()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/bonus/withdrawals", nil)
	NewIdempotency(rdb, time.Hour).Handler(countingHandler(&calls)).ServeHTTP(httptest.NewRecorder(), req)
	assert.Equal(t, 2, calls)
	assert.NoError(t, mock.ExpectationsWereMet())
}
