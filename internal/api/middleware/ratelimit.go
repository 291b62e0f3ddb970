package middleware

import (
	"fmt"
	"net"
	"net/http"
	"net/netip"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/m04kA/SMC-CoachBooking/internal/api/handlers"
)

const (
	// limiterTTL время, после которого неактивный клиент забывается
	limiterTTL = 10 * time.Minute
	// pruneEvery как часто чистить устаревшие лимитеры
	pruneEvery = time.Minute
)

type visitor struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter ограничивает частоту запросов с одного IP (token bucket на клиента)
type RateLimiter struct {
	mu        sync.Mutex
	visitors  map[string]*visitor
	limit     rate.Limit
	burst     int
	lastPrune time.Time
	now       func() time.Time
	logger    Logger
	// trusted прокси, которым разрешено сообщать адрес клиента через X-Forwarded-For
	trusted []netip.Prefix
}

// NewRateLimiter создает лимитер: rps запросов в секунду с запасом burst.
// rps <= 0 отключает ограничение.
func NewRateLimiter(rps float64, burst int, logger Logger) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		visitors: make(map[string]*visitor),
		limit:    rate.Limit(rps),
		burst:    burst,
		now:      time.Now,
		logger:   logger,
	}
}

// WithTrustedProxies включает разбор X-Forwarded-For для запросов от указанных прокси
func (l *RateLimiter) WithTrustedProxies(proxies []netip.Prefix) *RateLimiter {
	l.trusted = proxies
	return l
}

// ParseTrustedProxies разбирает список CIDR или одиночных адресов
func ParseTrustedProxies(values []string) ([]netip.Prefix, error) {
	prefixes := make([]netip.Prefix, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v == "" {
			continue
		}
		if strings.Contains(v, "/") {
			p, err := netip.ParsePrefix(v)
			if err != nil {
				return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
			}
			prefixes = append(prefixes, p.Masked())
			continue
		}
		addr, err := netip.ParseAddr(v)
		if err != nil {
			return nil, fmt.Errorf("trusted proxy %q: %w", v, err)
		}
		addr = addr.Unmap()
		prefixes = append(prefixes, netip.PrefixFrom(addr, addr.BitLen()))
	}
	return prefixes, nil
}

// Allow сообщает, можно ли обслужить очередной запрос клиента key
func (l *RateLimiter) Allow(key string) bool {
	if l == nil || l.limit <= 0 {
		return true
	}

	l.mu.Lock()
	now := l.now()
	if now.Sub(l.lastPrune) > pruneEvery {
		for k, v := range l.visitors {
			if now.Sub(v.lastSeen) > limiterTTL {
				delete(l.visitors, k)
			}
		}
		l.lastPrune = now
	}
	v, ok := l.visitors[key]
	if !ok {
		v = &visitor{limiter: rate.NewLimiter(l.limit, l.burst)}
		l.visitors[key] = v
	}
	v.lastSeen = now
	l.mu.Unlock()

	return v.limiter.AllowN(now, 1)
}

// Middleware отвечает 429, если клиент превысил лимит
func (l *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip := l.clientKey(r)
		if !l.Allow(ip) {
			if l.logger != nil {
				l.logger.Warn("RateLimit: exceeded for ip=%s, action=%s", ip, r.URL.Query().Get("action"))
			}
			handlers.RespondTooManyRequests(w)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// ClientIP адрес соединения (RemoteAddr без порта).
// Заголовки X-Forwarded-For и X-Real-IP задает клиент, поэтому здесь они не читаются.
func ClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return strings.TrimSpace(r.RemoteAddr)
	}
	return host
}

// clientKey адрес клиента для лимита. За доверенным прокси X-Forwarded-For
// читается справа налево до первого недоверенного адреса.
func (l *RateLimiter) clientKey(r *http.Request) string {
	hop := ClientIP(r)
	if l == nil || len(l.trusted) == 0 || !l.isTrusted(hop) {
		return hop
	}

	hops := strings.Split(r.Header.Get("X-Forwarded-For"), ",")
	for i := len(hops) - 1; i >= 0; i-- {
		candidate := strings.TrimSpace(hops[i])
		if candidate == "" {
			continue
		}
		if _, err := netip.ParseAddr(candidate); err != nil {
			// мусор в цепочке: дальше доверять нельзя
			return hop
		}
		hop = candidate
		if !l.isTrusted(hop) {
			return hop
		}
	}
	return hop
}

func (l *RateLimiter) isTrusted(ip string) bool {
	addr, err := netip.ParseAddr(ip)
	if err != nil {
		return false
	}
	addr = addr.Unmap()
	for _, p := range l.trusted {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
