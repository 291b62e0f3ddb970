package app

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/hibiken/asynq"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CoachBooking/internal/config"
	"github.com/m04kA/SMC-CoachBooking/pkg/logger"
)

func testConfig() *config.Config {
	cfg := config.Default()
	cfg.Storage.Driver = config.DriverMemory
	cfg.Notifications.Mode = config.ModeInline
	cfg.Admin.Password = "pw"
	cfg.Site.PublicBaseURL = "https://coach.example"
	cfg.CORS.AllowedOrigins = []string{"https://coach.example"}
	return cfg
}

func serve(h http.Handler, method, target, body string) *httptest.ResponseRecorder {
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, target, nil)
	} else {
		req = httptest.NewRequest(method, target, strings.NewReader(body))
	}
	req.Header.Set("Authorization", "Bearer pw")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNew_MemoryInline(t *testing.T) {
	cfg := testConfig()
	cfg.Metrics.Enabled = true

	a, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	rec := serve(a.Handler, http.MethodPost, "/api/booking?action=create-slot", `{"date":"2025-03-01","time":"10:00","duration":60}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	rec = serve(a.Handler, http.MethodGet, "/api/booking?action=slots", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `"status":"open"`)

	rec = serve(a.Handler, http.MethodGet, "/healthz", "")
	assert.Equal(t, http.StatusOK, rec.Code)

	rec = serve(a.Handler, http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), "coach_booking_http_requests_total")
	assert.Contains(t, rec.Body.String(), "coach_booking_slots_transitions_total")
}

func TestNew_MetricsDisabled(t *testing.T) {
	a, err := New(context.Background(), testConfig(), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close(context.Background()) })

	assert.Nil(t, a.Metrics)
	assert.Equal(t, http.StatusNotFound, serve(a.Handler, http.MethodGet, "/metrics", "").Code)
}

func TestNew_RedisStoreAndQueue(t *testing.T) {
	mr := miniredis.RunT(t)

	cfg := testConfig()
	cfg.Storage.Driver = config.DriverRedis
	cfg.Redis.URL = "redis://" + mr.Addr() + "/0"
	cfg.Notifications.Mode = config.ModeQueue

	a, err := New(context.Background(), cfg, logger.NewNop())
	require.NoError(t, err)

	rec := serve(a.Handler, http.MethodPost, "/api/booking?action=create-slot", `{"date":"2025-03-01","time":"10:00","duration":"30"}`)
	require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())

	keys := mr.Keys()
	require.Len(t, keys, 1)
	assert.True(t, strings.HasPrefix(keys[0], "slot:"))

	require.NoError(t, a.Close(context.Background()))
	assert.NoError(t, a.Close(context.Background()), "second close is a no-op")
}

func TestNew_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	cfg := testConfig()
	cfg.Storage.Driver = config.DriverRedis
	cfg.Redis.Addr = addr

	_, err := New(context.Background(), cfg, logger.NewNop())
	assert.Error(t, err)
}

func TestNew_UnknownDriver(t *testing.T) {
	cfg := testConfig()
	cfg.Storage.Driver = "etcd"

	_, err := New(context.Background(), cfg, logger.NewNop())
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestRedisOptions(t *testing.T) {
	opts, err := RedisOptions(config.RedisConfig{URL: "redis://:secret@cache:6380/2"})
	require.NoError(t, err)
	assert.Equal(t, "cache:6380", opts.Addr)
	assert.Equal(t, "secret", opts.Password)
	assert.Equal(t, 2, opts.DB)

	opts, err = RedisOptions(config.RedisConfig{Addr: "localhost:6379", DB: 1})
	require.NoError(t, err)
	assert.Equal(t, "localhost:6379", opts.Addr)

	_, err = RedisOptions(config.RedisConfig{URL: "http://nope"})
	assert.Error(t, err)

	connOpt, err := AsynqRedisOpt(config.RedisConfig{URL: "redis://cache:6380/3"})
	require.NoError(t, err)
	clientOpt, ok := connOpt.(asynq.RedisClientOpt)
	require.True(t, ok)
	assert.Equal(t, "cache:6380", clientOpt.Addr)
	assert.Equal(t, 3, clientOpt.DB)
}
