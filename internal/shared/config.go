package shared

import (
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	AppEnv         string
	HTTPAddr       string
	MetricsAddr    string
	RepliersBase   string
	RepliersKey    string
	CDNBase        string
	MySQLDSN       string
	RedisAddr      string
	RedisDB        int
	RedisPass      string
	CacheTTL       time.Duration
	ForwardWorkers int
}

// Load reads configuration from the environment (a local .env is honored).
// An empty REPLIERS_API_KEY is a supported condition handled by the façade,
// not a startup failure; the hosting process decides whether to warn.
func Load() Config {
	_ = godotenv.Load()

	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
		}
		return def
	}
	return Config{
		AppEnv:         env("APP_ENV", "prod"),
		HTTPAddr:       env("HTTP_ADDR", ":8080"),
		MetricsAddr:    env("METRICS_ADDR", ""),
		RepliersBase:   env("REPLIERS_BASE_URL", "https://api.repliers.io"),
		RepliersKey:    env("REPLIERS_API_KEY", ""),
		CDNBase:        env("CDN_BASE_URL", "https://cdn.repliers.io"),
		MySQLDSN:       env("MYSQL_DSN", ""),
		RedisAddr:      env("REDIS_ADDR", ""),
		RedisPass:      env("REDIS_PASSWORD", ""),
		RedisDB:        atoi("REDIS_DB", 0),
		CacheTTL:       time.Duration(atoi("CACHE_TTL_SECONDS", 300)) * time.Second,
		ForwardWorkers: atoi("FORWARD_WORKERS", 4),
	}
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

// KeyConfigured reports whether provider auth is available; used to gate
// fallback logging so local development stays quiet.
func (c Config) KeyConfigured() bool { return c.RepliersKey != "" }
