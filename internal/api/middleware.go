package api

import (
	"fmt"
	"net"
	"net/http"
	"strings"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"woodshop/internal/logger"
)

// limitRequestBody caps request bodies at the transport-level size
// ceiling. Oversized bodies surface as a read error in the handler.
func limitRequestBody(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)
		h.ServeHTTP(w, r)
	})
}

// recoverPanics turns an uncaught panic into the standard failure
// envelope, carrying the panic message.
func recoverPanics(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if p := recover(); p != nil {
				logger.FromContext(r.Context()).Errorln("recovered from panic:", p)
				writeError(w, http.StatusInternalServerError, fmt.Sprint(p))
			}
		}()
		h.ServeHTTP(w, r)
	})
}

// rateLimiter caps each caller to a fixed number of requests per
// window against the API prefix. Callers are identified by client IP,
// honoring X-Forwarded-For when the service runs behind a proxy.
type rateLimiter struct {
	mutex     sync.Mutex
	callers   map[string]*callerLimiter
	limit     rate.Limit
	burst     int
	retention time.Duration
	lastPrune time.Time
}

type callerLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

func newRateLimiter(requests int, window time.Duration) *rateLimiter {
	return &rateLimiter{
		callers:   make(map[string]*callerLimiter),
		limit:     rate.Limit(float64(requests) / window.Seconds()),
		burst:     requests,
		retention: window,
		lastPrune: time.Now(),
	}
}

func (rl *rateLimiter) allow(caller string) bool {
	now := time.Now()
	rl.mutex.Lock()
	defer rl.mutex.Unlock()

	if now.Sub(rl.lastPrune) > rl.retention {
		for key, cl := range rl.callers {
			if now.Sub(cl.lastSeen) > rl.retention {
				delete(rl.callers, key)
			}
		}
		rl.lastPrune = now
	}

	cl, ok := rl.callers[caller]
	if !ok {
		cl = &callerLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.callers[caller] = cl
	}
	cl.lastSeen = now
	return cl.limiter.Allow()
}

func (rl *rateLimiter) middleware(h http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.allow(callerIP(r)) {
			logger.FromContext(r.Context()).Warningln("rate limit exceeded for", callerIP(r))
			writeError(w, http.StatusTooManyRequests, "Too many requests, please try again later")
			return
		}
		h.ServeHTTP(w, r)
	})
}

func callerIP(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		if i := strings.IndexRune(forwarded, ','); i >= 0 {
			return strings.TrimSpace(forwarded[:i])
		}
		return strings.TrimSpace(forwarded)
	}
	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
