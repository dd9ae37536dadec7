package config

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Workers     int
	HTTPTimeout time.Duration
	Interval    time.Duration

	// HostInterval spaces requests to the same host; zero disables it.
	HostInterval time.Duration

	CacheBackend string
	CacheDir     string
	CacheTTL     time.Duration

	PGHost     string
	PGPort     int
	PGUser     string
	PGPassword string
	PGDatabase string
	PGSSLMode  string

	ControlAddr string
	OPMLPath    string

	LogLevel string
	LogFile  string
}

// Load reads configuration from the environment, after loading a .env file if present.
func Load() Config {
	loadDotEnv()
	return build(lookup{})
}

// LoadFile overlays a flat YAML file keyed by the same names as the environment
// variables. Environment values still take precedence.
func LoadFile(path string) (Config, error) {
	loadDotEnv()
	raw, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	values := map[string]any{}
	if err := yaml.Unmarshal(raw, &values); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	file := make(map[string]string, len(values))
	for k, v := range values {
		file[k] = fmt.Sprint(v)
	}
	return build(lookup{file: file}), nil
}

func loadDotEnv() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		slog.Warn("could not load .env file", "error", err)
	}
}

func build(l lookup) Config {
	return Config{
		Workers:      l.int("RSSDIGEST_WORKERS", 20),
		HTTPTimeout:  l.duration("RSSDIGEST_HTTP_TIMEOUT", 10*time.Second),
		Interval:     l.duration("RSSDIGEST_INTERVAL", 15*time.Minute),
		HostInterval: l.duration("FEED_HOST_INTERVAL", 0),
		CacheBackend: l.str("CACHE_BACKEND", "file"),
		CacheDir:     l.str("RSSDIGEST_CACHE_DIR", ".cache"),
		CacheTTL:     l.duration("RSSDIGEST_CACHE_TTL", 900*time.Second),
		PGHost:       l.str("POSTGRES_HOST", "localhost"),
		PGPort:       l.int("POSTGRES_PORT", 5432),
		PGUser:       l.str("POSTGRES_USER", "postgres"),
		PGPassword:   l.str("POSTGRES_PASSWORD", "changeme"),
		PGDatabase:   l.str("POSTGRES_DBNAME", "rssdigest"),
		PGSSLMode:    l.str("POSTGRES_SSLMODE", "disable"),
		ControlAddr:  l.str("CONTROL_ADDR", "127.0.0.1:8088"),
		OPMLPath:     l.str("RSSDIGEST_OPML", ""),
		LogLevel:     l.str("LOG_LEVEL", "info"),
		LogFile:      l.str("LOG_FILE", ""),
	}
}

type lookup struct {
	file map[string]string
}

func (l lookup) get(key string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return l.file[key]
}

func (l lookup) str(key, def string) string {
	if v := l.get(key); v != "" {
		return v
	}
	return def
}

func (l lookup) int(key string, def int) int {
	if v := l.get(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func (l lookup) duration(key string, def time.Duration) time.Duration {
	if v := l.get(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
