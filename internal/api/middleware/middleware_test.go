package middleware

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var okHandler = http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusOK)
})

func TestCORS(t *testing.T) {
	mw := CORS([]string{"https://coach.example/", " https://www.coach.example"})

	tests := []struct {
		name       string
		method     string
		origin     string
		wantCode   int
		wantOrigin string
	}{
		{"allowed origin", http.MethodGet, "https://coach.example", http.StatusOK, "https://coach.example"},
		{"second origin", http.MethodPost, "https://www.coach.example", http.StatusOK, "https://www.coach.example"},
		{"unknown origin", http.MethodGet, "https://evil.example", http.StatusOK, ""},
		{"no origin", http.MethodGet, "", http.StatusOK, ""},
		{"preflight", http.MethodOptions, "https://coach.example", http.StatusNoContent, "https://coach.example"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/api/booking", nil)
			if tt.origin != "" {
				req.Header.Set("Origin", tt.origin)
			}
			rec := httptest.NewRecorder()
			mw(okHandler).ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
			if tt.wantOrigin != "" {
				assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
			}
		})
	}
}

func TestCORS_Wildcard(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rec := httptest.NewRecorder()

	CORS([]string{"*"})(okHandler).ServeHTTP(rec, req)
	assert.Equal(t, "http://localhost:5173", rec.Header().Get("Access-Control-Allow-Origin"))
}

type staticChecker string

func (c staticChecker) CheckBearer(header string) bool {
	return header == "Bearer "+string(c)
}

func TestAdminAuth(t *testing.T) {
	var seen []bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = append(seen, IsAdmin(r.Context()))
	})
	h := AdminAuth(staticChecker("pw"))(next)

	for _, header := range []string{"Bearer pw", "Bearer nope", ""} {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		h.ServeHTTP(httptest.NewRecorder(), req)
	}

	assert.Equal(t, []bool{true, false, false}, seen)
	assert.False(t, IsAdmin(httptest.NewRequest(http.MethodGet, "/", nil).Context()))
}

func TestRateLimiter_PerClient(t *testing.T) {
	l := NewRateLimiter(1, 2, nil)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	assert.True(t, l.Allow("a"))
	assert.True(t, l.Allow("a"))
	assert.False(t, l.Allow("a"))
	assert.True(t, l.Allow("b"))

	now = now.Add(time.Second)
	assert.True(t, l.Allow("a"))
}

func TestRateLimiter_PrunesIdleClients(t *testing.T) {
	l := NewRateLimiter(1, 1, nil)
	now := time.Date(2025, 1, 1, 10, 0, 0, 0, time.UTC)
	l.now = func() time.Time { return now }

	l.Allow("a")
	l.Allow("b")
	require.Len(t, l.visitors, 2)

	now = now.Add(limiterTTL + pruneEvery + time.Second)
	l.Allow("c")
	assert.Len(t, l.visitors, 1)
}

func TestRateLimiter_Disabled(t *testing.T) {
	var nilLimiter *RateLimiter
	assert.True(t, nilLimiter.Allow("a"))

	l := NewRateLimiter(0, 0, nil)
	for i := 0; i < 100; i++ {
		require.True(t, l.Allow("a"))
	}
}

func TestRateLimiter_Middleware(t *testing.T) {
	h := NewRateLimiter(0.01, 1, nil).Middleware(okHandler)

	codes := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/booking?action=book", nil)
		req.RemoteAddr = "203.0.113.7:41000"
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimiter_IgnoresSpoofedForwardedFor(t *testing.T) {
	h := NewRateLimiter(0.2, 1, nil).Middleware(okHandler)

	allowed := 0
	for i := 0; i < 50; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/booking?action=admin-login", nil)
		req.RemoteAddr = "203.0.113.7:0"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("10.0.0.%d", i))
		req.Header.Set("X-Real-IP", fmt.Sprintf("10.1.0.%d", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		if rec.Code == http.StatusOK {
			allowed++
		} else {
			assert.Equal(t, http.StatusTooManyRequests, rec.Code)
		}
	}
	assert.Equal(t, 1, allowed)
}

func TestRateLimiter_TrustedProxyUsesRightmostUntrustedHop(t *testing.T) {
	trusted, err := ParseTrustedProxies([]string{"10.0.0.0/8", "192.0.2.1"})
	require.NoError(t, err)
	l := NewRateLimiter(0.01, 1, nil).WithTrustedProxies(trusted)

	key := func(remote, xff string) string {
		req := httptest.NewRequest(http.MethodPost, "/", nil)
		req.RemoteAddr = remote
		if xff != "" {
			req.Header.Set("X-Forwarded-For", xff)
		}
		return l.clientKey(req)
	}

	// клиент подставил свой адрес первым, прокси дописали реальный справа
	assert.Equal(t, "198.51.100.4", key("10.0.0.5:443", "1.2.3.4, 198.51.100.4, 10.0.0.9"))
	assert.Equal(t, "198.51.100.4", key("192.0.2.1:80", "198.51.100.4"))
	// недоверенный источник: заголовок игнорируется
	assert.Equal(t, "203.0.113.7", key("203.0.113.7:80", "1.2.3.4"))
	// без заголовка и при мусоре в цепочке остается последний доверенный адрес
	assert.Equal(t, "10.0.0.5", key("10.0.0.5:443", ""))
	assert.Equal(t, "10.0.0.9", key("10.0.0.5:443", "not-an-ip, 10.0.0.9"))
	// вся цепочка доверенная: берется самый левый адрес
	assert.Equal(t, "10.0.0.1", key("10.0.0.5:443", "10.0.0.1, 10.0.0.2"))

	h := l.Middleware(okHandler)
	codes := []int{}
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/booking?action=book", nil)
		req.RemoteAddr = "10.0.0.5:443"
		req.Header.Set("X-Forwarded-For", fmt.Sprintf("172.16.0.%d, 198.51.100.4", i))
		rec := httptest.NewRecorder()
		h.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestParseTrustedProxies(t *testing.T) {
	got, err := ParseTrustedProxies([]string{" 10.1.2.3/8 ", "", "2001:db8::1"})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "10.0.0.0/8", got[0].String())
	assert.Equal(t, "2001:db8::1/128", got[1].String())

	_, err = ParseTrustedProxies([]string{"proxy.local"})
	assert.Error(t, err)
	_, err = ParseTrustedProxies([]string{"10.0.0.0/99"})
	assert.Error(t, err)
}

func TestClientIP(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:5555"
	assert.Equal(t, "192.0.2.10", ClientIP(req))

	req.Header.Set("X-Real-IP", "198.51.100.2")
	req.Header.Set("X-Forwarded-For", " 203.0.113.7 , 10.0.0.1")
	assert.Equal(t, "192.0.2.10", ClientIP(req))

	req.RemoteAddr = "[2001:db8::5]:443"
	assert.Equal(t, "2001:db8::5", ClientIP(req))
}

type httpObservation struct {
	route, action, method, code string
}

type recordingMetrics struct {
	mu  sync.Mutex
	obs []httpObservation
}

func (m *recordingMetrics) ObserveHTTP(route, action, method, code string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.obs = append(m.obs, httpObservation{route, action, method, code})
}

func TestMetricsMiddleware(t *testing.T) {
	m := &recordingMetrics{}
	r := mux.NewRouter()
	r.Use(MetricsMiddleware(m))
	r.HandleFunc("/api/booking", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusConflict)
	})

	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/booking?action=book", nil))

	require.Len(t, m.obs, 1)
	assert.Equal(t, httpObservation{"/api/booking", "book", http.MethodPost, "409"}, m.obs[0])
}
