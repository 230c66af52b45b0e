package config

import (
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

type App struct {
	HTTPAddr string `envconfig:"HTTP_ADDR" default:":8080"`

	// Base URL of the booking backend serving the same-origin JSON
	// endpoints (venue catalog, quotes, orders, payments, terms).
	BackendBaseURL string `envconfig:"BACKEND_BASE_URL" required:"true"`

	DBHost     string `envconfig:"DB_HOST" default:"localhost"`
	DBPort     string `envconfig:"DB_PORT" default:"5432"`
	DBUser     string `envconfig:"DB_USER" default:"postgres"`
	DBPassword string `envconfig:"DB_PASSWORD" default:""`
	DBName     string `envconfig:"DB_NAME" default:"reservation"`

	RedisHost string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort string `envconfig:"REDIS_PORT" default:"6379"`
}

func Load() (App, error) {
	_ = godotenv.Load()

	var c App
	err := envconfig.Process("", &c)

	return c, err
}
