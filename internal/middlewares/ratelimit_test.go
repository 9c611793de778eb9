package middlewares

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/mkoval7/contacts-api/internal/models"
)

func TestRateLimitMiddleware(t *testing.T) {
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "redis:7.0-alpine",
		ExposedPorts: []string{"6379/tcp"},
		WaitingFor:   wait.ForListeningPort("6379/tcp"),
	}
	redisC, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	assert.NoError(t, err)
	defer redisC.Terminate(ctx)

	host, err := redisC.Host(ctx)
	assert.NoError(t, err)
	port, err := redisC.MappedPort(ctx, "6379")
	assert.NoError(t, err)

	rdb := redis.NewClient(&redis.Options{
		Addr: fmt.Sprintf("%s:%s", host, port.Port()),
	})
	defer rdb.Close()

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	doRequest := func(handler http.Handler, user *models.UserDB) int {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if user != nil {
			req = req.WithContext(SetUserToContext(req.Context(), user))
		}
		rr := httptest.NewRecorder()
		handler.ServeHTTP(rr, req)
		return rr.Code
	}

	t.Run("over the limit gets 429", func(t *testing.T) {
		handler := RateLimitMiddleware(rdb, 3, time.Minute)(next)
		user := &models.UserDB{ID: 1}

		for i := 0; i < 3; i++ {
			assert.Equal(t, http.StatusOK, doRequest(handler, user))
		}
		assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, user))
	})

	t.Run("limits are per user", func(t *testing.T) {
		handler := RateLimitMiddleware(rdb, 1, time.Minute)(next)

		assert.Equal(t, http.StatusOK, doRequest(handler, &models.UserDB{ID: 10}))
		assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, &models.UserDB{ID: 10}))
		assert.Equal(t, http.StatusOK, doRequest(handler, &models.UserDB{ID: 11}))
	})

	t.Run("window resets", func(t *testing.T) {
		handler := RateLimitMiddleware(rdb, 1, time.Second)(next)
		user := &models.UserDB{ID: 20}

		assert.Equal(t, http.StatusOK, doRequest(handler, user))
		assert.Equal(t, http.StatusTooManyRequests, doRequest(handler, user))

		time.Sleep(1500 * time.Millisecond)

		assert.Equal(t, http.StatusOK, doRequest(handler, user))
	})

	t.Run("unauthenticated request gets 401", func(t *testing.T) {
		handler := RateLimitMiddleware(rdb, 1, time.Minute)(next)

		assert.Equal(t, http.StatusUnauthorized, doRequest(handler, nil))
	})
}
