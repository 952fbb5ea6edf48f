package app

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
	zlog "github.com/rs/zerolog/log"

	"github.com/hemantajax/connectclo/internal/adapters/catalogapi"
	"github.com/hemantajax/connectclo/internal/grid"
	"github.com/hemantajax/connectclo/internal/usecase"
)

type Config struct {
	Port         string
	ProductsURL  string
	CacheTTL     time.Duration
	FetchTimeout time.Duration
	// empty means no snapshot mirror
	DSN      string
	LogLevel zerolog.Level
	Layout   grid.Layout
}

// LoadConfig reads the environment, after loading a .env file when one exists.
func LoadConfig() Config {
	_ = godotenv.Load()

	cfg := Config{
		Port:         os.Getenv("PORT"),
		ProductsURL:  os.Getenv("PRODUCTS_URL"),
		CacheTTL:     durationEnv("CATALOG_CACHE_TTL", usecase.DefaultCacheTTL),
		FetchTimeout: durationEnv("FETCH_TIMEOUT", 15*time.Second),
		DSN:          dsnFromEnv(),
		LogLevel:     zerolog.InfoLevel,
		Layout:       grid.DefaultLayout(),
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if cfg.ProductsURL == "" {
		cfg.ProductsURL = catalogapi.DefaultProductsURL
	}
	if lvl, err := zerolog.ParseLevel(strings.ToLower(os.Getenv("LOG_LEVEL"))); err == nil && lvl != zerolog.NoLevel {
		cfg.LogLevel = lvl
	}
	if v, err := strconv.ParseFloat(os.Getenv("ROW_HEIGHT"), 64); err == nil && v > 0 {
		cfg.Layout.RowHeight = v
	}
	if v, err := strconv.Atoi(os.Getenv("OVERSCAN")); err == nil && v >= 0 {
		cfg.Layout.Overscan = v
	}
	return cfg
}

// durationEnv accepts Go durations ("5m") or plain seconds ("300").
func durationEnv(key string, def time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return def
	}
	if d, err := time.ParseDuration(raw); err == nil && d > 0 {
		return d
	}
	if n, err := strconv.Atoi(raw); err == nil && n > 0 {
		return time.Duration(n) * time.Second
	}
	zlog.Warn().Str("key", key).Str("value", raw).Msg("invalid duration, using default")
	return def
}

// dsnFromEnv prefers DB_DSN and otherwise assembles one from DB_HOST and friends.
// Without DB_DSN or DB_HOST the mirror stays disabled.
func dsnFromEnv() string {
	if dsn := strings.TrimSpace(os.Getenv("DB_DSN")); dsn != "" {
		return dsn
	}
	host := os.Getenv("DB_HOST")
	if host == "" {
		return ""
	}
	port := os.Getenv("DB_PORT")
	if port == "" {
		port = "5432"
	}
	user := os.Getenv("DB_USER")
	if user == "" {
		user = "postgres"
	}
	pass := os.Getenv("DB_PASSWORD")
	if pass == "" {
		pass = "postgres"
	}
	name := os.Getenv("DB_NAME")
	if name == "" {
		name = "connectclo"
	}
	ssl := os.Getenv("DB_SSLMODE")
	if ssl == "" {
		ssl = "disable"
	}
	return "host=" + host + " user=" + user + " password=" + pass + " dbname=" + name + " port=" + port + " sslmode=" + ssl
}

// SetupLogging installs the console logger used by every command.
func SetupLogging(level zerolog.Level) {
	zerolog.TimeFieldFormat = time.RFC3339
	zerolog.SetGlobalLevel(level)
	zlog.Logger = zlog.Output(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen})
}
