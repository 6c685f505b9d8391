package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/fjod/go_cart/purchases-service/internal/ambassador"
	"github.com/fjod/go_cart/purchases-service/internal/auth"
	"github.com/fjod/go_cart/purchases-service/internal/config"
	h "github.com/fjod/go_cart/purchases-service/internal/http"
	"github.com/fjod/go_cart/purchases-service/internal/metrics"
	"github.com/fjod/go_cart/purchases-service/internal/publisher"
	"github.com/fjod/go_cart/purchases-service/internal/repository"
	"github.com/fjod/go_cart/purchases-service/internal/service"
	"github.com/fjod/go_cart/purchases-service/internal/subscriber"
	"github.com/fjod/go_cart/purchases-service/pkg/logger"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/propagation"
)

func main() {
	log.Println("purchases-service starting...")

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	appLog := logger.New("purchases-service", cfg.Debug)
	otel.SetTextMapPropagator(propagation.TraceContext{})

	// Database setup
	repo, err := repository.NewRepository(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(&cfg.DB); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// One pricing client per process, shared by every service.
	pricing := ambassador.NewClient(cfg.AmbassadorAddr, cfg.AmbassadorTimeout, ambassador.WithLogger(appLog))
	defer pricing.Close()
	log.Printf("Pricing authority at %s", cfg.AmbassadorAddr)

	verifier, err := auth.NewVerifier(cfg.JWTSecret, cfg.JWTAlgorithm)
	if err != nil {
		log.Fatalf("Invalid JWT settings: %v", err)
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	serverMetrics := metrics.NewServerMetrics(reg, "api")

	cartService := service.NewCartService(repo, pricing, appLog)
	checkoutService := service.NewCheckoutService(repo, repo, pricing, service.NewPaymeURLBuilder(cfg.Payme), appLog)
	paymentService := service.NewPaymentService(repo, appLog)
	purchaseService := service.NewPurchaseService(repo)

	router := h.NewRouter(h.RouterConfig{
		Carts:          cartService,
		Checkout:       checkoutService,
		Purchases:      purchaseService,
		Reconciler:     paymentService,
		DB:             repo,
		Verifier:       verifier,
		Metrics:        serverMetrics,
		Gatherer:       reg,
		GatewayKey:     cfg.PaymeKey,
		RequestTimeout: cfg.RequestTimeout,
		Log:            appLog,
	})

	ctx, stop := context.WithCancel(context.Background())
	defer stop()
	var workers sync.WaitGroup

	// Stale-item subscriber
	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	sub := subscriber.NewSubscriber(redisClient, cartService, appLog)
	if err := sub.Subscribe(ctx); err != nil {
		log.Printf("Stale-item subscriber disabled: %v", err)
	} else {
		log.Printf("Subscribed to %s on %s", subscriber.DefaultChannel, cfg.RedisAddr)
		workers.Add(1)
		go func() {
			defer workers.Done()
			sub.Run(ctx)
		}()
	}

	// Outbox publisher
	if len(cfg.KafkaBrokers) > 0 {
		poller := publisher.NewOutboxPoller(repo, serverMetrics, appLog, cfg.KafkaBrokers...)
		defer poller.Close()
		workers.Add(1)
		go func() {
			defer workers.Done()
			poller.Run(ctx)
		}()
		log.Printf("Outbox publisher writing to %s on %v", publisher.DefaultTopic, cfg.KafkaBrokers)
	} else {
		log.Println("KAFKA_BROKERS not set, outbox publisher disabled")
	}

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "purchases-service"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("Purchases service listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down purchases service...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("server forced to shutdown: %v", err)
	}
	stop()
	if err := sub.Close(); err != nil {
		log.Printf("failed to close subscriber: %v", err)
	}
	workers.Wait()

	log.Println("Purchases service stopped")
}
