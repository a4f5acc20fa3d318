package config

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"strings"
	"time"

	"github.com/joeshaw/envdecode"
	"github.com/joho/godotenv"
)

// Config is built once at startup and passed to every component. Nothing
// mutates it after Load returns.
type Config struct {
	Port string `env:"PORT,default=8000"`

	SessionURL         string `env:"HOST_SYU,default=http://localhost:8080"`
	CatalogURL         string `env:"HOST_TYA,default=http://localhost:8081"`
	CommerceURL        string `env:"HOST_TPP,default=http://localhost:8082"`
	TracksURL          string `env:"HOST_PT,default=http://localhost:8083"`
	RecommendationsURL string `env:"HOST_RYE,default=http://localhost:8084"`

	// One timeout per call class.
	LookupTimeout  time.Duration `env:"LOOKUP_TIMEOUT,default=5s"`
	ListingTimeout time.Duration `env:"LISTING_TIMEOUT,default=15s"`
	WriteTimeout   time.Duration `env:"WRITE_TIMEOUT,default=10s"`
	MediaTimeout   time.Duration `env:"MEDIA_TIMEOUT,default=15s"`

	FanoutLimit int    `env:"FANOUT_LIMIT,default=8"`
	LogLevel    string `env:"LOG_LEVEL,default=info"`

	RedisAddr      string  `env:"REDIS_ADDR"`
	RateLimitRPS   float64 `env:"RATE_LIMIT_RPS,default=20"`
	RateLimitBurst int     `env:"RATE_LIMIT_BURST,default=40"`

	KafkaBrokers string `env:"KAFKA_BROKERS"`
	KafkaTopic   string `env:"KAFKA_TOPIC,default=oversound.events"`

	CookieSecure    bool          `env:"COOKIE_SECURE,default=false"`
	ShutdownTimeout time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
}

func Load() (*Config, error) {
	_ = godotenv.Load() // Ignore error if .env doesn't exist

	cfg := &Config{}
	if err := envdecode.StrictDecode(cfg); err != nil && !errors.Is(err, envdecode.ErrNoTargetFieldsAreSet) {
		return nil, fmt.Errorf("decode environment: %w", err)
	}

	if cfg.FanoutLimit < 1 {
		cfg.FanoutLimit = 1
	}
	for _, u := range []*string{&cfg.SessionURL, &cfg.CatalogURL, &cfg.CommerceURL, &cfg.TracksURL, &cfg.RecommendationsURL} {
		*u = strings.TrimRight(*u, "/")
	}

	log.Printf("[Config] Upstreams: session=%s catalog=%s commerce=%s tracks=%s recommendations=%s",
		cfg.SessionURL, cfg.CatalogURL, cfg.CommerceURL, cfg.TracksURL, cfg.RecommendationsURL)
	log.Printf("[Config] Timeouts: lookup=%s listing=%s write=%s media=%s",
		cfg.LookupTimeout, cfg.ListingTimeout, cfg.WriteTimeout, cfg.MediaTimeout)
	if cfg.RedisAddr != "" {
		log.Printf("[Config] Loaded RedisAddr: %s", cfg.RedisAddr)
	}
	return cfg, nil
}

// Brokers splits KAFKA_BROKERS on commas.
func (c *Config) Brokers() []string {
	var out []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			out = append(out, b)
		}
	}
	return out
}

func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}
