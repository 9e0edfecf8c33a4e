package config

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"

	"github.com/sirupsen/logrus"
)

type Config struct {
	ServerPort   string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	IdleTimeout  time.Duration

	// FetchTimeout bounds a single yt-dlp run.
	FetchTimeout      time.Duration
	RateLimit         int
	RateLimitInterval time.Duration

	YtDlpPath string
	SubLang   string
	WorkDir   string

	// DBPath enables the fetch log when set.
	DBPath string

	LogDir    string
	LogLevel  string
	LogFormat string

	CORSAllowedOrigins []string
}

func LoadConfig() *Config {
	return &Config{
		ServerPort:         GetEnv("SERVER_PORT", "3001"),
		ReadTimeout:        getEnvAsDuration("READ_TIMEOUT", 30*time.Second),
		WriteTimeout:       getEnvAsDuration("WRITE_TIMEOUT", 3*time.Minute),
		IdleTimeout:        getEnvAsDuration("IDLE_TIMEOUT", 60*time.Second),
		FetchTimeout:       getEnvAsDuration("FETCH_TIMEOUT", 2*time.Minute),
		RateLimit:          getEnvAsInt("RATE_LIMIT", 5),
		RateLimitInterval:  getEnvAsDuration("RATE_LIMIT_INTERVAL", 1*time.Second),
		YtDlpPath:          GetEnv("YTDLP_PATH", "yt-dlp"),
		SubLang:            GetEnv("SUB_LANG", "en"),
		WorkDir:            GetEnv("WORK_DIR", filepath.Join(os.TempDir(), "yt-transcript")),
		DBPath:             GetEnv("DB_PATH", ""),
		LogDir:             GetEnv("LOG_DIR", ""),
		LogLevel:           GetEnv("LOG_LEVEL", "info"),
		LogFormat:          GetEnv("LOG_FORMAT", "text"),
		CORSAllowedOrigins: getEnvAsStringSlice("CORS_ALLOWED_ORIGINS", []string{"*"}),
	}
}

func GetEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	if value, exists := os.LookupEnv(key); exists {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid duration, using default")
	}
	return defaultValue
}

func getEnvAsInt(key string, defaultValue int) int {
	if value, exists := os.LookupEnv(key); exists {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
		logrus.WithFields(logrus.Fields{
			"key":          key,
			"value":        value,
			"defaultValue": defaultValue,
		}).Warn("Invalid integer, using default")
	}
	return defaultValue
}

func getEnvAsStringSlice(key string, defaultValue []string) []string {
	if value, exists := os.LookupEnv(key); exists {
		var items []string
		for _, item := range strings.Split(value, ",") {
			if item = strings.TrimSpace(item); item != "" {
				items = append(items, item)
			}
		}
		if len(items) > 0 {
			return items
		}
	}
	return defaultValue
}

func ValidateConfig(cfg *Config) error {
	if cfg.ServerPort == "" {
		return errors.New("server port is required")
	}
	if cfg.YtDlpPath == "" {
		return errors.New("yt-dlp path is required")
	}
	if cfg.SubLang == "" {
		return errors.New("subtitle language is required")
	}
	if cfg.WorkDir == "" {
		return errors.New("work directory is required")
	}
	if cfg.FetchTimeout <= 0 {
		return errors.New("fetch timeout must be greater than 0")
	}
	if cfg.RateLimit <= 0 {
		return errors.New("rate limit must be greater than 0")
	}
	if cfg.RateLimitInterval <= 0 {
		return errors.New("rate limit interval must be greater than 0")
	}
	if cfg.ReadTimeout <= 0 {
		return errors.New("read timeout must be greater than 0")
	}
	if cfg.WriteTimeout <= 0 {
		return errors.New("write timeout must be greater than 0")
	}
	if cfg.IdleTimeout <= 0 {
		return errors.New("idle timeout must be greater than 0")
	}
	// A fetch must finish before the server gives up writing its response.
	if cfg.WriteTimeout <= cfg.FetchTimeout {
		return errors.Errorf("write timeout (%s) must be greater than fetch timeout (%s)", cfg.WriteTimeout, cfg.FetchTimeout)
	}
	if err := os.MkdirAll(cfg.WorkDir, 0755); err != nil {
		return errors.Wrapf(err, "failed to create work directory %s", cfg.WorkDir)
	}
	return nil
}
