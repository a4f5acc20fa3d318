package main

import (
	"context"
	"errors"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"oversound/internal/config"
	"oversound/internal/events"
	"oversound/internal/handlers"
	"oversound/internal/metrics"
	"oversound/internal/ratelimit"
	"oversound/internal/service"
	"oversound/internal/upstream"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
)

func main() {
	// 1. Load Config
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Loading config: %v", err)
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: cfg.SlogLevel()})))

	// 2. Upstream clients share one pooled transport
	timeouts := upstream.Timeouts{
		Lookup:  cfg.LookupTimeout,
		Listing: cfg.ListingTimeout,
		Write:   cfg.WriteTimeout,
		Media:   cfg.MediaTimeout,
	}
	transport := upstream.NewTransport()
	sessionClient := upstream.New(upstream.Session, cfg.SessionURL, timeouts, transport)
	catalogClient := upstream.New(upstream.Catalog, cfg.CatalogURL, timeouts, transport)
	commerceClient := upstream.New(upstream.Commerce, cfg.CommerceURL, timeouts, transport)
	tracksClient := upstream.New(upstream.Tracks, cfg.TracksURL, timeouts, transport)
	recsClient := upstream.New(upstream.Recommendations, cfg.RecommendationsURL, timeouts, transport)

	// 3. Events
	var publisher events.Publisher = events.Nop{}
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		publisher = events.NewKafkaPublisher(brokers, cfg.KafkaTopic)
		log.Printf("[Events] Publishing to %s on %v", cfg.KafkaTopic, brokers)
	}
	defer publisher.Close()

	// 4. Rate limiting
	var limiter ratelimit.Limiter = ratelimit.NewLocal(cfg.RateLimitRPS, cfg.RateLimitBurst)
	var rdb *redis.Client
	if cfg.RedisAddr != "" {
		rdb = redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		limiter = ratelimit.NewRedis(rdb, cfg.RateLimitBurst)
		log.Printf("[RateLimit] Using Redis at %s", cfg.RedisAddr)
	}

	// 5. Services
	services := handlers.Services{
		Sessions:        service.NewSessionService(sessionClient),
		Catalog:         service.NewCatalogService(catalogClient, sessionClient, publisher, cfg.FanoutLimit),
		Commerce:        service.NewCommerceService(commerceClient, publisher),
		Tracks:          service.NewTrackService(tracksClient),
		Recommendations: service.NewRecommendationService(recsClient),
		SecureCookie:    cfg.CookieSecure,
	}
	if rdb != nil {
		services.Redis = rdb
	}

	// 6. Setup Router
	r := gin.Default()
	r.SetTrustedProxies(nil)
	r.Use(metrics.Middleware())
	r.GET("/metrics", gin.WrapH(metrics.Handler()))
	r.Use(ratelimit.Middleware(limiter))
	handlers.Register(r, services)

	srv := &http.Server{Addr: ":" + cfg.Port, Handler: r}
	go func() {
		log.Printf("Starting oversound gateway on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Printf("Shutting down (timeout %s)", cfg.ShutdownTimeout)
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("Server shutdown", "error", err)
	}
}
