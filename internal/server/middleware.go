package server

import (
	"container/list"
	"context"
	"encoding/json"
	"log"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/livetemplate/htmlelements/internal/config"
)

// SecurityHeadersMiddleware adds security headers to all responses.
// tailwindCDN widens script-src so the Tailwind play script can load.
func SecurityHeadersMiddleware(tailwindCDN bool) func(http.Handler) http.Handler {
	scriptSrc := "script-src 'self'"
	if tailwindCDN {
		scriptSrc += " " + tailwindCDNOrigin
	}

	// Tailwind injects <style> tags at runtime, and the media section uses
	// data: URIs for its object and image demos.
	csp := "default-src 'self'; " +
		scriptSrc + "; " +
		"style-src 'self' 'unsafe-inline'; " +
		"img-src 'self' data: https:; " +
		"media-src 'self' data:; " +
		"object-src 'self' data:; " +
		"frame-src 'self' data: about:; " +
		"connect-src 'self'; " +
		"frame-ancestors 'none'"

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("X-Frame-Options", "DENY")
			w.Header().Set("X-Content-Type-Options", "nosniff")
			w.Header().Set("Referrer-Policy", "strict-origin-when-cross-origin")
			w.Header().Set("Content-Security-Policy", csp)
			next.ServeHTTP(w, r)
		})
	}
}

// evictionLogInterval is the minimum time between eviction log messages.
const evictionLogInterval = 30 * time.Second

// ipLimiter tracks a per-IP token bucket and its position in the LRU list.
type ipLimiter struct {
	ip       string
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ipLimiters is a bounded set of per-IP token buckets. When full, the least
// recently seen IP is evicted.
type ipLimiters struct {
	rps    float64
	burst  int
	maxIPs int

	mu    sync.Mutex
	items map[string]*list.Element
	order *list.List // front = most recent, back = oldest

	// Eviction logging state (guarded by mu)
	lastEvictLog time.Time
	evictCount   int
}

func newIPLimiters(limits config.LimitsConfig) *ipLimiters {
	return &ipLimiters{
		rps:    limits.GetConnectionsPerSecond(),
		burst:  limits.GetConnectionBurst(),
		maxIPs: limits.GetMaxIPs(),
		items:  make(map[string]*list.Element),
		order:  list.New(),
	}
}

// allow reports whether ip may proceed now.
func (l *ipLimiters) allow(ip string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	if elem, ok := l.items[ip]; ok {
		l.order.MoveToFront(elem)
		lim := elem.Value.(*ipLimiter)
		lim.lastSeen = now
		return lim.limiter.Allow()
	}

	if l.order.Len() >= l.maxIPs {
		if back := l.order.Back(); back != nil {
			evicted := back.Value.(*ipLimiter)
			l.order.Remove(back)
			delete(l.items, evicted.ip)
			l.evictCount++
			if now.Sub(l.lastEvictLog) >= evictionLogInterval {
				log.Printf("[RateLimit] Evicted %d least-recent IP(s) (at capacity: %d IPs)", l.evictCount, l.maxIPs)
				l.lastEvictLog = now
				l.evictCount = 0
			}
		}
	}

	lim := &ipLimiter{
		ip:       ip,
		limiter:  rate.NewLimiter(rate.Limit(l.rps), l.burst),
		lastSeen: now,
	}
	l.items[ip] = l.order.PushFront(lim)
	return lim.limiter.Allow()
}

// sweep drops limiters not seen for idle.
func (l *ipLimiters) sweep(idle time.Duration) {
	l.mu.Lock()
	defer l.mu.Unlock()

	now := time.Now()
	// LRU order tracks access recency, so walk everything.
	for e := l.order.Back(); e != nil; {
		lim := e.Value.(*ipLimiter)
		prev := e.Prev()
		if now.Sub(lim.lastSeen) > idle {
			l.order.Remove(e)
			delete(l.items, lim.ip)
		}
		e = prev
	}
}

func (l *ipLimiters) len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.order.Len()
}

// RateLimitMiddleware limits requests per client IP with a token bucket.
//
// The cleanup goroutine starts immediately when this function is called.
// The ctx parameter controls its lifetime; cancel ctx to stop it.
// The returned channel is closed when the goroutine exits.
func RateLimitMiddleware(ctx context.Context, limits config.LimitsConfig) (func(http.Handler) http.Handler, <-chan struct{}) {
	limiters := newIPLimiters(limits)

	done := make(chan struct{})
	go func() {
		defer close(done)
		ticker := time.NewTicker(5 * time.Minute)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				limiters.sweep(10 * time.Minute)
			case <-ctx.Done():
				return
			}
		}
	}()

	middleware := func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if !limiters.allow(getClientIP(r)) {
				w.Header().Set("Retry-After", "1")
				writeJSONError(w, http.StatusTooManyRequests, "rate limit exceeded")
				return
			}
			next.ServeHTTP(w, r)
		})
	}

	return middleware, done
}

// getClientIP extracts the client IP from the request.
// It only trusts X-Forwarded-For / X-Real-IP when the immediate peer is a
// loopback or private address (i.e., behind a reverse proxy).
func getClientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		host = r.RemoteAddr
	}

	peerIP := net.ParseIP(host)
	trustedProxy := peerIP != nil && (peerIP.IsLoopback() || peerIP.IsPrivate())

	if trustedProxy {
		if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
			if parts := strings.SplitN(xff, ",", 2); len(parts) > 0 {
				return strings.TrimSpace(parts[0])
			}
		}
		if xri := r.Header.Get("X-Real-IP"); xri != "" {
			return strings.TrimSpace(xri)
		}
	}

	if peerIP != nil {
		return peerIP.String()
	}
	return host
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}
