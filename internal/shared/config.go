package shared

import (
	"errors"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv         string
	LogLevel       string
	HTTPAddr       string
	MetricsAddr    string
	HandlerTimeout time.Duration

	SupplierBase    string
	SupplierKey     string
	SupplierRPS     int
	SupplierTimeout time.Duration

	RedisAddr  string
	RedisDB    int
	RedisPass  string
	SuggestTTL time.Duration

	MySQLDSN     string
	OTLPEndpoint string

	ProxyBase       string
	FeaturedWorkers int
}

var (
	ErrMissingSupplierBase = errors.New("SUPPLIER_BASE_URL is not set")
	ErrMissingSupplierKey  = errors.New("SUPPLIER_API_KEY is not set")
)

// Load reads the environment, after merging a local .env file when present.
// Supplier URL and key have no defaults; see RequireSupplier.
func Load() Config {
	if err := godotenv.Load(); err == nil {
		log.Debug().Msg("loaded .env")
	}
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("ignoring non-integer env value")
		}
		return def
	}
	return Config{
		AppEnv:          env("APP_ENV", "prod"),
		LogLevel:        env("LOG_LEVEL", "info"),
		HTTPAddr:        env("HTTP_ADDR", ":8080"),
		MetricsAddr:     os.Getenv("METRICS_ADDR"),
		HandlerTimeout:  time.Duration(atoi("HANDLER_TIMEOUT_SECONDS", 15)) * time.Second,
		SupplierBase:    os.Getenv("SUPPLIER_BASE_URL"),
		SupplierKey:     os.Getenv("SUPPLIER_API_KEY"),
		SupplierRPS:     atoi("SUPPLIER_RPS", 10),
		SupplierTimeout: time.Duration(atoi("SUPPLIER_TIMEOUT_SECONDS", 12)) * time.Second,
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		RedisPass:       os.Getenv("REDIS_PASSWORD"),
		RedisDB:         atoi("REDIS_DB", 0),
		SuggestTTL:      time.Duration(atoi("SUGGEST_CACHE_TTL_SECONDS", 600)) * time.Second,
		MySQLDSN:        os.Getenv("MYSQL_DSN"),
		OTLPEndpoint:    os.Getenv("OTEL_EXPORTER_ENDPOINT"),
		ProxyBase:       env("PROXY_BASE_URL", "http://localhost:8080"),
		FeaturedWorkers: atoi("FEATURED_WORKERS", 4),
	}
}

// RequireSupplier fails when the server cannot reach the supplier.
// The supplier URL and key have no fallback values.
func (c Config) RequireSupplier() error {
	var errs []error
	if c.SupplierBase == "" {
		errs = append(errs, ErrMissingSupplierBase)
	}
	if c.SupplierKey == "" {
		errs = append(errs, ErrMissingSupplierKey)
	}
	return errors.Join(errs...)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
