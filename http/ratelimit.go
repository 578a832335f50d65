package http

import (
	"net"
	"net/http"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Defaults bounding the per-client limiter table.
const (
	DefaultClientIdleTimeout = 10 * time.Minute
	DefaultMaxClients        = 10000
)

// ClientLimiter provides per-client rate limiting using token buckets.
// Each client gets its own limiter, so one busy client cannot exhaust the
// allowance of the others. Clients idle for longer than the idle timeout are
// forgotten, and the table never holds more than the maximum number of
// clients; when full, the least recently seen client is evicted.
type ClientLimiter struct {
	mu         sync.Mutex
	clients    map[string]*clientEntry
	rps        float64
	burst      int
	idle       time.Duration
	maxClients int
	now        func() time.Time
	lastSweep  time.Time
}

type clientEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// ClientLimiterOption configures a ClientLimiter.
type ClientLimiterOption func(*ClientLimiter)

// WithIdleTimeout sets how long a client may stay silent before its limiter
// is dropped. Defaults to DefaultClientIdleTimeout.
func WithIdleTimeout(d time.Duration) ClientLimiterOption {
	return func(c *ClientLimiter) {
		c.idle = d
	}
}

// WithMaxClients caps the number of clients tracked at once.
// Defaults to DefaultMaxClients.
func WithMaxClients(n int) ClientLimiterOption {
	return func(c *ClientLimiter) {
		c.maxClients = n
	}
}

// WithClock sets the time source used for idle tracking.
func WithClock(now func() time.Time) ClientLimiterOption {
	return func(c *ClientLimiter) {
		c.now = now
	}
}

// NewClientLimiter creates a ClientLimiter allowing rps requests per second
// per client with the given burst. A burst below 1 is raised to 1.
func NewClientLimiter(rps float64, burst int, opts ...ClientLimiterOption) *ClientLimiter {
	c := &ClientLimiter{
		clients:    make(map[string]*clientEntry),
		rps:        rps,
		burst:      max(burst, 1),
		idle:       DefaultClientIdleTimeout,
		maxClients: DefaultMaxClients,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	c.maxClients = max(c.maxClients, 1)
	c.lastSweep = c.now()
	return c
}

// Allow reports whether client may make a request now.
func (c *ClientLimiter) Allow(client string) bool {
	c.mu.Lock()
	now := c.now()
	if c.idle > 0 && now.Sub(c.lastSweep) >= c.idle {
		c.sweep(now)
	}
	e, ok := c.clients[client]
	if !ok {
		if len(c.clients) >= c.maxClients {
			c.sweep(now)
		}
		if len(c.clients) >= c.maxClients {
			c.evictOldest()
		}
		e = &clientEntry{limiter: rate.NewLimiter(rate.Limit(c.rps), c.burst)}
		c.clients[client] = e
	}
	e.lastSeen = now
	c.mu.Unlock()

	return e.limiter.AllowN(now, 1)
}

// Len returns the number of clients currently tracked.
func (c *ClientLimiter) Len() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.clients)
}

// sweep drops clients idle for longer than the idle timeout.
func (c *ClientLimiter) sweep(now time.Time) {
	c.lastSweep = now
	if c.idle <= 0 {
		return
	}
	for k, e := range c.clients {
		if now.Sub(e.lastSeen) > c.idle {
			delete(c.clients, k)
		}
	}
}

func (c *ClientLimiter) evictOldest() {
	var oldest string
	var oldestSeen time.Time
	first := true
	for k, e := range c.clients {
		if first || e.lastSeen.Before(oldestSeen) {
			oldest, oldestSeen, first = k, e.lastSeen, false
		}
	}
	if !first {
		delete(c.clients, oldest)
	}
}

// Middleware rejects requests over the limit with 429 Too Many Requests.
// Clients are identified by remote IP address.
func (c *ClientLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !c.Allow(clientIP(r)) {
			w.Header().Set("Retry-After", "1")
			jsonError(w, "rate limit exceeded", http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func clientIP(r *http.Request) string {
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
