// Package middleware holds the gin middleware for the solve service:
// the admin token gate, CORS for browser dashboards, and a traffic
// monitor tuned to the solve API's shape (cheap JSON endpoints plus
// long-lived progress sockets).
package middleware

import (
	"log"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/crossplay/xwordfill/internal/auth"
	"github.com/gin-gonic/gin"
)

// AuthUserKey is the gin context key RequireAuth stores claims under.
const AuthUserKey = "authUser"

// RequireAuth rejects any request that does not carry a valid admin
// service-account token issued by s.
func RequireAuth(s *auth.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := extractToken(c)
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization token"})
			return
		}

		claims, err := s.ValidateToken(token)
		if err != nil {
			msg := "invalid token"
			if err == auth.ErrTokenExpired {
				msg = "token expired"
			}
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": msg})
			return
		}

		c.Set(AuthUserKey, claims)
		c.Next()
	}
}

// extractToken pulls the bearer token out of the Authorization header.
func extractToken(c *gin.Context) string {
	scheme, token, ok := strings.Cut(c.GetHeader("Authorization"), " ")
	if !ok || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return token
}

// GetAuthUser returns the claims RequireAuth stored on the context, or
// nil on an unauthenticated request.
func GetAuthUser(c *gin.Context) *auth.Claims {
	v, ok := c.Get(AuthUserKey)
	if !ok {
		return nil
	}
	claims, ok := v.(*auth.Claims)
	if !ok {
		return nil
	}
	return claims
}

// CORS permits browser-based dashboards at origin to call the JSON
// API. A concrete origin gets credential support; a wildcard cannot
// carry credentials, so none is advertised then.
func CORS(origin string) gin.HandlerFunc {
	if origin == "" {
		origin = "*"
	}
	return func(c *gin.Context) {
		c.Header("Access-Control-Allow-Origin", origin)
		c.Header("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		c.Header("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if origin != "*" {
			c.Header("Access-Control-Allow-Credentials", "true")
			c.Header("Vary", "Origin")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// slowRequestThreshold is where a request gets logged as slow. Solves
// run on their own goroutine, so an API request over this points at
// the database or Redis, never the solver itself.
const slowRequestThreshold = 250 * time.Millisecond

// Monitor counts the solve service's traffic for the /metrics
// endpoint: per-route request totals and latency, solve jobs
// submitted, and progress sockets opened. Health probes are not
// counted.
type Monitor struct {
	mu      sync.Mutex
	started time.Time
	routes  map[string]*routeStats

	solveJobsSubmitted int64
	progressSockets    int64
}

type routeStats struct {
	count  int64
	errors int64 // 5xx responses
	total  time.Duration
	max    time.Duration
}

// NewMonitor returns an empty Monitor; its Middleware feeds it.
func NewMonitor() *Monitor {
	return &Monitor{started: time.Now(), routes: make(map[string]*routeStats)}
}

// Middleware records one entry per request, keyed "METHOD route", and
// stamps the response with its server-side latency.
func (m *Monitor) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		route := c.FullPath()
		if route == "" {
			route = c.Request.URL.Path
		}

		c.Next()

		elapsed := time.Since(start)
		c.Header("X-Response-Time", elapsed.String())

		if route == "/health" {
			return
		}
		if elapsed > slowRequestThreshold {
			log.Printf("slow request: %s %s took %v (status %d)",
				c.Request.Method, route, elapsed, c.Writer.Status())
		}
		m.record(c.Request.Method, route, c.Writer.Status(), elapsed)
	}
}

func (m *Monitor) record(method, route string, status int, elapsed time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()

	key := method + " " + route
	rs, ok := m.routes[key]
	if !ok {
		rs = &routeStats{}
		m.routes[key] = rs
	}
	rs.count++
	rs.total += elapsed
	if elapsed > rs.max {
		rs.max = elapsed
	}
	if status >= http.StatusInternalServerError {
		rs.errors++
	}

	switch {
	case method == http.MethodPost && route == "/api/solve":
		m.solveJobsSubmitted++
	case strings.HasSuffix(route, "/ws"):
		m.progressSockets++
	}
}

// Snapshot returns the counters in a JSON-ready shape.
func (m *Monitor) Snapshot() map[string]interface{} {
	m.mu.Lock()
	defer m.mu.Unlock()

	routes := make(map[string]interface{}, len(m.routes))
	for key, rs := range m.routes {
		avg := time.Duration(0)
		if rs.count > 0 {
			avg = rs.total / time.Duration(rs.count)
		}
		routes[key] = map[string]interface{}{
			"count":  rs.count,
			"errors": rs.errors,
			"avg_ms": avg.Milliseconds(),
			"max_ms": rs.max.Milliseconds(),
		}
	}

	return map[string]interface{}{
		"uptime_s":         int64(time.Since(m.started).Seconds()),
		"solve_jobs":       m.solveJobsSubmitted,
		"progress_sockets": m.progressSockets,
		"routes":           routes,
	}
}
