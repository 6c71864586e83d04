package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName          string
	AppEnv           string
	AppPort          string
	CORSOrigins      string
	DatabaseURL      string
	RedisURL         string
	NATSURL          string
	JWTSecret        string
	JWTRefreshSecret string
	JudgeBaseURL     string
	JudgeAPIKey      string
	JudgeAPIHost     string
	JudgeRetries     int
	PollInterval     time.Duration
	PollAttempts     int
	RankingCacheTTL  time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and an
// optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AULA")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Aula Virtual API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("cors.origins", "*")
	v.SetDefault("judge.base_url", "https://ce.judge0.com")
	v.SetDefault("judge.retries", 3)
	v.SetDefault("judge.poll_interval", "1s")
	v.SetDefault("judge.poll_attempts", 10)
	v.SetDefault("ranking.cache_ttl", "2m")

	pollInterval, err := time.ParseDuration(v.GetString("judge.poll_interval"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid judge poll interval: %w", err)
	}

	rankingTTL, err := time.ParseDuration(v.GetString("ranking.cache_ttl"))
	if err != nil {
		return Config{}, fmt.Errorf("invalid ranking cache ttl: %w", err)
	}

	cfg := Config{
		AppName:          v.GetString("app.name"),
		AppEnv:           v.GetString("app.env"),
		AppPort:          v.GetString("app.port"),
		CORSOrigins:      v.GetString("cors.origins"),
		DatabaseURL:      v.GetString("database.url"),
		RedisURL:         v.GetString("redis.url"),
		NATSURL:          v.GetString("nats.url"),
		JWTSecret:        v.GetString("jwt.secret"),
		JWTRefreshSecret: v.GetString("jwt.refresh_secret"),
		JudgeBaseURL:     strings.TrimRight(v.GetString("judge.base_url"), "/"),
		JudgeAPIKey:      v.GetString("judge.api_key"),
		JudgeAPIHost:     v.GetString("judge.api_host"),
		JudgeRetries:     v.GetInt("judge.retries"),
		PollInterval:     pollInterval,
		PollAttempts:     v.GetInt("judge.poll_attempts"),
		RankingCacheTTL:  rankingTTL,
	}

	if cfg.JWTSecret == "" || cfg.JWTRefreshSecret == "" {
		return Config{}, fmt.Errorf("jwt secrets must be provided")
	}

	if cfg.JudgeRetries <= 0 {
		cfg.JudgeRetries = 3
	}

	if cfg.PollAttempts <= 0 {
		cfg.PollAttempts = 10
	}

	return cfg, nil
}
