package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/auth"
	"github.com/fjod/go_cart/purchases-service/internal/metrics"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
)

type RouterConfig struct {
	Carts          CartService
	Checkout       CheckoutService
	Purchases      PurchaseService
	Reconciler     PaymentReconciler
	DB             Pinger
	Verifier       *auth.Verifier
	Metrics        *metrics.ServerMetrics
	Gatherer       prometheus.Gatherer
	GatewayKey     string
	RequestTimeout time.Duration
	MaxBodyBytes   int64
	Log            *slog.Logger
}

func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.MaxBodyBytes == 0 {
		cfg.MaxBodyBytes = 1 << 20 // 1MB
	}
	if cfg.RequestTimeout == 0 {
		cfg.RequestTimeout = 10 * time.Second
	}
	if cfg.Log == nil {
		cfg.Log = slog.Default()
	}

	cartHandler := NewCartHandler(cfg.Carts, cfg.RequestTimeout, cfg.Log)
	checkoutHandler := NewCheckoutHandler(cfg.Checkout, cfg.Metrics, cfg.RequestTimeout, cfg.Log)
	purchasesHandler := NewPurchasesHandler(cfg.Purchases, cfg.RequestTimeout, cfg.Log)
	webhookHandler := NewWebhookHandler(cfg.Reconciler, cfg.Metrics, cfg.RequestTimeout, cfg.Log)
	healthHandler := NewHealthHandler(cfg.DB)

	r := chi.NewRouter()

	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(RequestIDMiddleware)
	r.Use(MetricsMiddleware(cfg.Metrics))
	r.Use(middleware.Timeout(cfg.RequestTimeout))
	r.Use(middleware.RequestSize(cfg.MaxBodyBytes))

	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)
	r.Handle("/metrics", metrics.Handler(cfg.Gatherer))

	r.Route("/api/v1", func(r chi.Router) {
		r.With(GatewayAuthMiddleware(cfg.GatewayKey)).Post("/payments/webhook", webhookHandler.Handle)

		r.Group(func(r chi.Router) {
			r.Use(AuthMiddleware(cfg.Verifier))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", cartHandler.GetCart)
				r.Delete("/", cartHandler.ClearCart)
				r.Post("/items", cartHandler.AddItem)
				r.Delete("/items/{ambassador_id}", cartHandler.RemoveItem)
			})
			r.Post("/checkout", checkoutHandler.Checkout)
			r.Get("/purchases", purchasesHandler.ListPurchases)
			r.Get("/payments/{id}", purchasesHandler.GetPayment)
		})
	})

	return r
}
