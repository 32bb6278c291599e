package config

import (
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server   ServerConfig
	Database DatabaseConfig
	Redis    RedisConfig
	JWT      JWTConfig
	Feed     FeedConfig
	CORS     CORSConfig
	Rate     RateConfig
	Projects ProjectsConfig
	Webhook  WebhookConfig
}

type ServerConfig struct {
	Port          string
	IsDevelopment bool
}

type DatabaseConfig struct {
	URL string
}

type RedisConfig struct {
	URL string
}

type JWTConfig struct {
	Secret string
}

type FeedConfig struct {
	PollInterval time.Duration
	BatchSize    int
}

type CORSConfig struct {
	AllowedOrigins []string
}

type RateConfig struct {
	PerIP   string // ulule/limiter format, e.g. "100-M"
	PerUser string
}

type ProjectsConfig struct {
	ThemeCap int // max projects per theme
}

type WebhookConfig struct {
	URL string
}

func Load() (*Config, error) {
	viper.AutomaticEnv()
	if p := os.Getenv("CONFIG_FILE"); p != "" {
		viper.SetConfigFile(p)
		_ = viper.ReadInConfig()
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:          getEnvOrDefault("PORT", "8080"),
			IsDevelopment: viper.GetBool("IS_DEVELOPMENT"),
		},
		Database: DatabaseConfig{
			// Empty URL selects the in-memory store; useful for local runs.
			URL: os.Getenv("DATABASE_URL"),
		},
		Redis: RedisConfig{
			URL: os.Getenv("REDIS_URL"),
		},
		JWT: JWTConfig{
			Secret: getEnvOrDefault("JWT_SECRET", ""),
		},
		Feed: FeedConfig{
			PollInterval: viper.GetDuration("FEED_POLL_INTERVAL"),
			BatchSize:    viper.GetInt("FEED_BATCH_SIZE"),
		},
		CORS: CORSConfig{
			AllowedOrigins: splitCSV(getEnvOrDefault("CORS_ALLOWED_ORIGINS", "*")),
		},
		Rate: RateConfig{
			PerIP:   getEnvOrDefault("RATE_PER_IP", "300-M"),
			PerUser: getEnvOrDefault("RATE_PER_USER", "120-M"),
		},
		Projects: ProjectsConfig{
			ThemeCap: viper.GetInt("THEME_PROJECT_CAP"),
		},
		Webhook: WebhookConfig{
			URL: os.Getenv("WEBHOOK_URL"),
		},
	}
	if cfg.Feed.PollInterval <= 0 {
		cfg.Feed.PollInterval = 2 * time.Second
	}
	if cfg.Feed.BatchSize <= 0 {
		cfg.Feed.BatchSize = 5
	}
	if cfg.Projects.ThemeCap <= 0 {
		cfg.Projects.ThemeCap = 10
	}
	return cfg, nil
}

func getEnvOrDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func splitCSV(s string) []string {
	parts := strings.Split(s, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
