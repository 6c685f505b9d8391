package http

import (
	"context"
	"crypto/subtle"
	"net/http"
	"strconv"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/auth"
	"github.com/fjod/go_cart/purchases-service/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
)

type requestIDKey struct{}

// RequestIDMiddleware echoes X-Request-ID back, minting one when the caller sent none.
func RequestIDMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := r.Header.Get("X-Request-ID")
		if requestID == "" {
			requestID = uuid.NewString()
		}

		ctx := context.WithValue(r.Context(), requestIDKey{}, requestID)
		w.Header().Set("X-Request-ID", requestID)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func getRequestID(ctx context.Context) string {
	if requestID, ok := ctx.Value(requestIDKey{}).(string); ok {
		return requestID
	}
	return ""
}

// AuthMiddleware verifies the bearer token and stores its claims in the request context.
func AuthMiddleware(v *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token, err := auth.FromHeader(r.Header.Get("Authorization"))
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "missing user authentication")
				return
			}

			claims, err := v.Parse(token)
			if err != nil {
				respondError(w, http.StatusUnauthorized, "unauthorized", "invalid token")
				return
			}

			next.ServeHTTP(w, r.WithContext(auth.WithClaims(r.Context(), claims)))
		})
	}
}

func getUserIDFromContext(ctx context.Context) int64 {
	if claims, ok := auth.FromContext(ctx); ok {
		return claims.UserID
	}
	return 0
}

// GatewayAuthMiddleware checks the HTTP basic credentials Payme sends ("Paycom:<key>").
// An empty key disables the check.
func GatewayAuthMiddleware(key string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if key != "" {
				user, pass, ok := r.BasicAuth()
				if !ok || user != "Paycom" || subtle.ConstantTimeCompare([]byte(pass), []byte(key)) != 1 {
					respondError(w, http.StatusUnauthorized, "unauthorized", "invalid gateway credentials")
					return
				}
			}
			next.ServeHTTP(w, r)
		})
	}
}

// MetricsMiddleware counts requests per route pattern and status.
func MetricsMiddleware(m *metrics.ServerMetrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			handler := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				handler = rctx.RoutePattern()
			}
			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			m.Requests.WithLabelValues(handler, strconv.Itoa(status)).Inc()
			m.LatencyMS.WithLabelValues(handler).Observe(float64(time.Since(start).Milliseconds()))
		})
	}
}
