package config

import (
	"time"

	"github.com/caarlos0/env/v6"
	"github.com/joho/godotenv"
)

// Config is loaded once at startup and passed explicitly to the pieces that
// need it. Nothing reads the environment after Load returns.
type Config struct {
	Port        string `env:"PORT" envDefault:"8080"`
	DatabaseURL string `env:"DATABASE_URL"`
	Currency    string `env:"CURRENCY" envDefault:"PKR"`
	AdminAPIKey string `env:"ADMIN_API_KEY"`

	JWT struct {
		Secret string        `env:"JWT_SECRET"`
		TTL    time.Duration `env:"JWT_TTL" envDefault:"24h"`
	}

	HTTP struct {
		RequestTimeout time.Duration `env:"HTTP_REQUEST_TIMEOUT" envDefault:"15s"`
		CORSOrigin     string        `env:"CORS_ORIGIN" envDefault:"*"`
	}

	Stripe struct {
		SecretKey string `env:"STRIPE_SECRET_KEY"`
	}

	Upload struct {
		URL string `env:"IMAGE_UPLOAD_URL"`
		Key string `env:"IMAGE_UPLOAD_KEY"`
	}

	RabbitMQ struct {
		Enabled bool   `env:"RABBITMQ_ENABLED"`
		URL     string `env:"RABBITMQ_URL"`
		Queue   string `env:"RABBITMQ_QUEUE" envDefault:"appointment_events"`
	}

	Cache struct {
		Enabled bool `env:"CACHE_ENABLED" envDefault:"true"`
		Size    int  `env:"CACHE_DOCTORS_SIZE" envDefault:"256"`
	}
}

func Load() (*Config, error) {
	_ = godotenv.Load()

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
