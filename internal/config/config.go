package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

type BotMode string

const (
	BotPolling BotMode = "polling"
	BotWebhook BotMode = "webhook"
	BotOff     BotMode = "off"
)

var ErrMissingJWTSecret = errors.New("missing env: JWT_SECRET")

type Config struct {
	HTTPAddr             string
	DatabaseURL          string
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool
	LogLevel             slog.Level

	JWTSecret string

	CatalogBaseURL      string
	CatalogAllowPartial bool
	CatalogTimeout      time.Duration

	BotToken       string
	BotMode        BotMode
	BotWebhookPath string
	MiniAppLink    string

	ReminderTZ *time.Location
	DraftTTL   time.Duration
}

func Load() (Config, error) {
	_ = godotenv.Load()

	cfg := Config{
		HTTPAddr:             getenv("HTTP_ADDR", ":8080"),
		DatabaseURL:          getenv("DATABASE_URL", ""),
		CORSAllowCredentials: getenv("CORS_ALLOW_CREDENTIALS", "false") == "true",
		JWTSecret:            getenv("JWT_SECRET", ""),
		CatalogBaseURL:       getenv("CATALOG_BASE_URL", "http://localhost:5173"),
		CatalogAllowPartial:  getenv("CATALOG_ALLOW_PARTIAL", "false") == "true",
		BotToken:             getenv("BOT_TOKEN", ""),
		BotMode:              BotMode(getenv("BOT_MODE", string(BotPolling))),
		BotWebhookPath:       getenv("BOT_WEBHOOK_PATH", "/bot/webhook"),
		MiniAppLink:          getenv("MINIAPP_DEEPLINK", "https://t.me/alfamayakbot/mac"),
	}
	cfg.CORSAllowedOrigins = splitList(getenv("CORS_ALLOWED_ORIGINS", ""))

	var err error
	if cfg.LogLevel, err = parseLogLevel(getenv("LOG_LEVEL", "info")); err != nil {
		return Config{}, err
	}
	if cfg.CatalogTimeout, err = parseDuration("CATALOG_TIMEOUT", "15s"); err != nil {
		return Config{}, err
	}
	if cfg.DraftTTL, err = parseDuration("DRAFT_TTL", "24h"); err != nil {
		return Config{}, err
	}
	if cfg.ReminderTZ, err = time.LoadLocation(getenv("REMINDER_TZ", "UTC")); err != nil {
		return Config{}, fmt.Errorf("invalid REMINDER_TZ: %w", err)
	}

	switch cfg.BotMode {
	case BotPolling, BotWebhook, BotOff:
	default:
		return Config{}, fmt.Errorf("invalid BOT_MODE %q", cfg.BotMode)
	}
	return cfg, nil
}

// BotEnabled reports whether a bot should run in this process.
func (c Config) BotEnabled() bool {
	return c.BotToken != "" && c.BotMode != BotOff
}

// RequireJWT fails when owner tokens can not be signed.
func (c Config) RequireJWT() error {
	if c.JWTSecret == "" {
		return ErrMissingJWTSecret
	}
	return nil
}

func getenv(key, def string) string {
	v := strings.TrimSpace(os.Getenv(key))
	if v == "" {
		return def
	}
	return v
}

func splitList(s string) []string {
	var out []string
	for _, o := range strings.Split(s, ",") {
		o = strings.TrimSpace(o)
		if o != "" {
			out = append(out, o)
		}
	}
	return out
}

func parseDuration(key, def string) (time.Duration, error) {
	raw := getenv(key, def)
	d, err := time.ParseDuration(raw)
	if err != nil {
		// plain seconds are accepted too
		n, nerr := strconv.Atoi(raw)
		if nerr != nil {
			return 0, fmt.Errorf("invalid %s %q", key, raw)
		}
		d = time.Duration(n) * time.Second
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return 0, fmt.Errorf("invalid LOG_LEVEL %q", s)
	}
}
