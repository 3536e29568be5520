package middleware

import (
	"context"
	"net"
	"net/http"
	"runtime/debug"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/time/rate"

	"wishlist-service/pkg/errors"
	"wishlist-service/pkg/logger"
	"wishlist-service/pkg/response"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-ID"

// statusWriter captures the status code written by downstream handlers.
type statusWriter struct {
	http.ResponseWriter
	status  int
	written bool
}

func newStatusWriter(w http.ResponseWriter) *statusWriter {
	return &statusWriter{ResponseWriter: w, status: http.StatusOK}
}

func (sw *statusWriter) WriteHeader(code int) {
	if !sw.written {
		sw.status = code
		sw.written = true
	}
	sw.ResponseWriter.WriteHeader(code)
}

func (sw *statusWriter) Write(b []byte) (int, error) {
	sw.written = true
	return sw.ResponseWriter.Write(b)
}

// RequestIDMiddleware assigns a request ID, reusing an inbound X-Request-ID when present
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get(RequestIDHeader)
		if requestID == "" || len(requestID) > 128 {
			requestID = uuid.NewString()
		}

		w.Header().Set(RequestIDHeader, requestID)
		ctx := logger.WithRequestID(r.Context(), requestID)

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// GetRequestID extracts request ID from context
func GetRequestID(ctx context.Context) string {
	if requestID := logger.RequestIDFromContext(ctx); requestID != "" {
		return requestID
	}
	return "unknown"
}

// RecoveryMiddleware turns panics into INTERNAL_SERVER_ERROR responses
func RecoveryMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sw := newStatusWriter(w)
		defer func() {
			if rec := recover(); rec != nil {
				logger.Error(r.Context()).
					Interface("panic", rec).
					Str("stack", string(debug.Stack())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Msg("panic recovered")

				if !sw.written {
					HandleError(sw, r, errors.NewInternalError(nil))
				}
			}
		}()
		next.ServeHTTP(sw, r)
	})
}

// LoggingMiddleware logs HTTP requests with request ID
func LoggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		sw := newStatusWriter(w)

		logger.Debug(r.Context()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Str("remote_addr", r.RemoteAddr).
			Msg("request started")

		next.ServeHTTP(sw, r)

		logger.Info(r.Context()).
			Str("method", r.Method).
			Str("path", r.URL.Path).
			Int("status", sw.status).
			Dur("duration", time.Since(start)).
			Msg("request completed")
	})
}

// TimeoutMiddleware adds request timeout
func TimeoutMiddleware(timeout time.Duration) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if timeout <= 0 {
				next.ServeHTTP(w, r)
				return
			}
			ctx, cancel := context.WithTimeout(r.Context(), timeout)
			defer cancel()
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// rateLimiterIdleTTL is how long an unused client bucket is kept.
const rateLimiterIdleTTL = 10 * time.Minute

type clientLimiter struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// RateLimiter keeps one token bucket per client IP. Buckets idle for longer
// than idleTTL are swept on access. Forwarding headers are only honored when
// TrustForwardedFor is set, i.e. behind a proxy that overwrites them.
type RateLimiter struct {
	TrustForwardedFor bool

	mu        sync.Mutex
	limiters  map[string]*clientLimiter
	limit     rate.Limit
	burst     int
	idleTTL   time.Duration
	lastSweep time.Time
	now       func() time.Time
}

func NewRateLimiter(requestsPerSecond float64, burst int) *RateLimiter {
	if burst < 1 {
		burst = 1
	}
	return &RateLimiter{
		limiters:  make(map[string]*clientLimiter),
		limit:     rate.Limit(requestsPerSecond),
		burst:     burst,
		idleTTL:   rateLimiterIdleTTL,
		lastSweep: time.Now(),
		now:       time.Now,
	}
}

func (rl *RateLimiter) limiterFor(clientIP string) *rate.Limiter {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	if now.Sub(rl.lastSweep) >= rl.idleTTL {
		for ip, cl := range rl.limiters {
			if now.Sub(cl.lastSeen) >= rl.idleTTL {
				delete(rl.limiters, ip)
			}
		}
		rl.lastSweep = now
	}

	cl, ok := rl.limiters[clientIP]
	if !ok {
		cl = &clientLimiter{limiter: rate.NewLimiter(rl.limit, rl.burst)}
		rl.limiters[clientIP] = cl
	}
	cl.lastSeen = now
	return cl.limiter
}

// Len reports how many client buckets are tracked.
func (rl *RateLimiter) Len() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.limiters)
}

func (rl *RateLimiter) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rl.limiterFor(getClientIP(r, rl.TrustForwardedFor)).Allow() {
			HandleError(w, r, errors.NewTooManyRequestsError("Rate limit exceeded"))
			return
		}
		next.ServeHTTP(w, r)
	})
}

// HandleError is the single place where errors become the API error envelope
func HandleError(w http.ResponseWriter, r *http.Request, err error) {
	appErr, ok := errors.As(err)
	if !ok {
		appErr = errors.NewInternalError(err)
	}

	event := logger.Warn(r.Context())
	if appErr.Status >= http.StatusInternalServerError {
		event = logger.Error(r.Context()).Err(appErr.Err)
	}
	event.
		Int("status", appErr.Status).
		Str("code", appErr.Code).
		Str("method", r.Method).
		Str("path", r.URL.Path).
		Msg(appErr.Message)

	response.SendError(w, appErr.Status, response.ApiErrorResponse{
		Code:      appErr.Code,
		Message:   appErr.Message,
		Timestamp: response.NewTimestamp(time.Now().UTC()),
		Path:      r.URL.EscapedPath(),
	})
}

// NotFoundHandler renders unknown routes with the error envelope
func NotFoundHandler(w http.ResponseWriter, r *http.Request) {
	HandleError(w, r, errors.NewNotFoundError("Resource"))
}

// MethodNotAllowedHandler renders unsupported methods with the error envelope
func MethodNotAllowedHandler(w http.ResponseWriter, r *http.Request) {
	HandleError(w, r, errors.NewMethodNotAllowedError(r.Method))
}

// getClientIP returns the peer address, or the first forwarded hop when
// trustForwarded is set.
func getClientIP(r *http.Request, trustForwarded bool) string {
	if trustForwarded {
		if xForwardedFor := r.Header.Get("X-Forwarded-For"); xForwardedFor != "" {
			first, _, _ := strings.Cut(xForwardedFor, ",")
			return strings.TrimSpace(first)
		}
		if xRealIP := r.Header.Get("X-Real-IP"); xRealIP != "" {
			return strings.TrimSpace(xRealIP)
		}
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
