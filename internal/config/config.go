package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config holds application configuration (env + Viper).
type Config struct {
	Env             string
	Port            string
	WSPort          string // WebSocket listener port
	DatabaseURL     string
	RedisURL        string
	SessionSecret   string
	StartingBalance float64 // virtual cash credited on registration
	AdminEmail      string  // account seeded with the admin role on first registration
}

// Load loads config from env and optional .env file.
func Load() (*Config, error) {
	viper.SetConfigFile(".env")
	_ = viper.ReadInConfig()

	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	port := viper.GetString("PORT")
	if port == "" {
		port = "8080"
	}
	wsPort := viper.GetString("WS_PORT")
	if wsPort == "" {
		wsPort = "9090"
	}
	env := viper.GetString("APP_ENV")
	if env == "" {
		env = "development"
	}

	balance := viper.GetFloat64("STARTING_BALANCE")
	if balance <= 0 {
		balance = 100000
	}

	return &Config{
		Env:             env,
		Port:            port,
		WSPort:          wsPort,
		DatabaseURL:     viper.GetString("DATABASE_URL"),
		RedisURL:        viper.GetString("REDIS_URL"),
		SessionSecret:   viper.GetString("SESSION_SECRET"),
		StartingBalance: balance,
		AdminEmail:      viper.GetString("ADMIN_EMAIL"),
	}, nil
}
