package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"
)

type Config struct {
	Server   ServerConfig
	Stripe   StripeConfig
	Twilio   TwilioConfig
	Store    StoreConfig
	Stats    StatsConfig
	LogLevel string
}

type ServerConfig struct {
	Address string
	// BaseURL is the public URL checkout redirects back to.
	BaseURL string
}

type StripeConfig struct {
	SecretKey string
}

type TwilioConfig struct {
	AccountSID string
	AuthToken  string
	// Sender is the RCS agent name replies are sent as.
	Sender string
}

// StoreConfig selects the paid-identity backend. Postgres wins over Redis;
// with neither set the store is in-memory and resets on restart.
type StoreConfig struct {
	PostgresURL   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
}

type StatsConfig struct {
	Interval time.Duration
}

func LoadAll() (*Config, error) {
	var errs []error

	stripeKey, err := requireEnv("STRIPE_SECRET_KEY")
	if err != nil {
		errs = append(errs, err)
	}

	sender, err := requireEnv("SENDER")
	if err != nil {
		errs = append(errs, err)
	}

	redisDB, err := getEnvInt("REDIS_DB", 0)
	if err != nil {
		errs = append(errs, err)
	}

	statsSeconds, err := getEnvInt("STATS_INTERVAL_SECONDS", 300)
	if err != nil {
		errs = append(errs, err)
	}
	if statsSeconds <= 0 {
		errs = append(errs, errors.New("STATS_INTERVAL_SECONDS must be > 0"))
	}

	if err := joinErrors(errs); err != nil {
		return nil, err
	}

	return &Config{
		Server: ServerConfig{
			Address: getEnv("SERVER_ADDRESS", ":3000"),
			BaseURL: getEnv("BASE_URL", "http://localhost:3000"),
		},
		Stripe: StripeConfig{
			SecretKey: stripeKey,
		},
		Twilio: TwilioConfig{
			AccountSID: os.Getenv("TWILIO_ACCOUNT_SID"),
			AuthToken:  os.Getenv("TWILIO_AUTH_TOKEN"),
			Sender:     sender,
		},
		Store: StoreConfig{
			PostgresURL:   os.Getenv("POSTGRES_URL"),
			RedisAddr:     os.Getenv("REDIS_ADDR"),
			RedisPassword: os.Getenv("REDIS_PASSWORD"),
			RedisDB:       redisDB,
		},
		Stats: StatsConfig{
			Interval: time.Duration(statsSeconds) * time.Second,
		},
		LogLevel: getEnv("LOG_LEVEL", "info"),
	}, nil
}

func requireEnv(key string) (string, error) {
	v := os.Getenv(key)
	if v == "" {
		return "", fmt.Errorf("missing required env var: %s", key)
	}
	return v, nil
}

func getEnv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func getEnvInt(key string, def int) (int, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("invalid int for env %s: %q", key, v)
	}
	return i, nil
}

func joinErrors(errs []error) error {
	return errors.Join(errs...)
}
