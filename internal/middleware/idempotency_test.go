package middleware_test

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"go-leave/internal/middleware"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redismock/v9"
	"github.com/stretchr/testify/assert"
)

const idempCacheKey = "idemp:/leaves:user-1:key-1"

func idempotencyRouter(t *testing.T) (*gin.Engine, redismock.ClientMock, *bool) {
	t.Helper()
	gin.SetMode(gin.TestMode)
	rdb, mock := redismock.NewClientMock()

	reached := false
	r := gin.New()
	r.POST("/leaves",
		func(c *gin.Context) { c.Set(middleware.ContextUserID, "user-1"); c.Next() },
		middleware.Idempotency(rdb),
		func(c *gin.Context) {
			reached = true
			if k := c.GetString(middleware.ContextIdempotencyCacheKey); k != "" {
				assert.Equal(t, idempCacheKey, k)
			}
			c.JSON(http.StatusCreated, gin.H{"success": true})
		},
	)
	return r, mock, &reached
}

func postWithKey(r *gin.Engine, key string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/leaves", nil)
	if key != "" {
		req.Header.Set(middleware.HeaderIdempotencyKey, key)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestIdempotency_FirstRequestTakesLock(t *testing.T) {
	r, mock, reached := idempotencyRouter(t)
	mock.ExpectGet(idempCacheKey).RedisNil()
	mock.ExpectSetNX(idempCacheKey+":lock", "locked", 30*time.Second).SetVal(true)

	w := postWithKey(r, "key-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, *reached)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIdempotency_ReplaysCachedResponse(t *testing.T) {
	r, mock, reached := idempotencyRouter(t)
	mock.ExpectGet(idempCacheKey).SetVal(`{"success":true,"data":{"id":"l-1"}}`)

	w := postWithKey(r, "key-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.False(t, *reached)
	assert.Equal(t, "true", w.Header().Get("Idempotent-Replayed"))
	assert.JSONEq(t, `{"success":true,"data":{"id":"l-1"}}`, w.Body.String())
}

func TestIdempotency_ConcurrentDuplicateRejected(t *testing.T) {
	r, mock, reached := idempotencyRouter(t)
	mock.ExpectGet(idempCacheKey).RedisNil()
	mock.ExpectSetNX(idempCacheKey+":lock", "locked", 30*time.Second).SetVal(false)

	w := postWithKey(r, "key-1")

	assert.Equal(t, http.StatusConflict, w.Code)
	assert.False(t, *reached)
}

func TestIdempotency_RedisDownFallsThrough(t *testing.T) {
	r, mock, reached := idempotencyRouter(t)
	mock.ExpectGet(idempCacheKey).SetErr(errors.New("connection refused"))

	w := postWithKey(r, "key-1")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, *reached)
}

func TestIdempotency_NoHeader(t *testing.T) {
	r, mock, reached := idempotencyRouter(t)

	w := postWithKey(r, "")

	assert.Equal(t, http.StatusCreated, w.Code)
	assert.True(t, *reached)
	assert.NoError(t, mock.ExpectationsWereMet())
}
