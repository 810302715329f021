package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v10"
)

const productionEnv = "production"

type Config struct {
	Environment    Environment
	Log            Log
	HTTP           HTTPServer
	BaseURL        string   `env:"BASE_URL" envDefault:"http://localhost:8080"`
	StorefrontURL  string   `env:"STOREFRONT_URL" envDefault:"http://localhost:3000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:","`

	Database Database `envPrefix:"DATABASE_"`
	Auth     Auth     `envPrefix:"AUTH_"`
	PayU     PayU     `envPrefix:"PAYU_"`
	Carrier  Carrier  `envPrefix:"CARRIER_"`
	Kafka    Kafka    `envPrefix:"KAFKA_"`
}

type Database struct {
	Driver string `env:"DRIVER" envDefault:"sqlite"` // mysql | sqlite
	URL    string `env:"URL" envDefault:"storefront.db"`
}

type Auth struct {
	JWTSecret string `env:"JWT_SECRET"`
}

type PayU struct {
	BaseURL            string `env:"BASE_URL" envDefault:"https://test.payu.in"`
	MerchantKey        string `env:"MERCHANT_KEY"`
	MerchantSalt       string `env:"MERCHANT_SALT"`
	MockMode           bool   `env:"MOCK_MODE" envDefault:"true"`
	VerifyCallbackHash bool   `env:"VERIFY_CALLBACK_HASH" envDefault:"true"`
}

type Carrier struct {
	BaseURL       string  `env:"BASE_URL"`
	APIKey        string  `env:"API_KEY"`
	Name          string  `env:"NAME" envDefault:"Standard Courier"`
	MockMode      bool    `env:"MOCK_MODE" envDefault:"true"`
	EstimatedDays int     `env:"ESTIMATED_DAYS" envDefault:"5"`
	Pickup        Address `envPrefix:"PICKUP_"`
}

type Address struct {
	Name       string `env:"NAME" envDefault:"Warehouse"`
	Phone      string `env:"PHONE"`
	Line1      string `env:"LINE1"`
	Line2      string `env:"LINE2"`
	City       string `env:"CITY"`
	State      string `env:"STATE"`
	PostalCode string `env:"POSTAL_CODE"`
	Country    string `env:"COUNTRY" envDefault:"IN"`
}

type Kafka struct {
	Brokers []string `env:"BROKERS" envSeparator:","`
	Topic   string   `env:"TOPIC" envDefault:"order-events"`
}

type Environment struct {
	Name string `env:"ENVIRONMENT" envDefault:"development"`
}

type Log struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"json"`
}

type HTTPServer struct {
	Host string `env:"HTTP_HOST" envDefault:"0.0.0.0"`
	Port string `env:"HTTP_PORT" envDefault:"8080"`
}

// Load parses the process environment and validates the result.
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse env: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) IsProduction() bool {
	return c.Environment.Name == productionEnv
}

// Validate rejects combinations that must never reach production, most
// importantly the synthetic gateway and carrier stand-ins.
func (c *Config) Validate() error {
	var errs []error

	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("AUTH_JWT_SECRET must be set"))
	}
	switch c.Database.Driver {
	case "mysql", "sqlite":
	default:
		errs = append(errs, fmt.Errorf("unsupported DATABASE_DRIVER %q", c.Database.Driver))
	}

	if c.PayU.MockMode {
		if c.IsProduction() {
			errs = append(errs, errors.New("PAYU_MOCK_MODE is not allowed in production"))
		}
	} else if c.PayU.MerchantKey == "" || c.PayU.MerchantSalt == "" {
		errs = append(errs, errors.New("PAYU_MERCHANT_KEY and PAYU_MERCHANT_SALT are required when PAYU_MOCK_MODE=false"))
	}
	if c.IsProduction() && !c.PayU.VerifyCallbackHash {
		errs = append(errs, errors.New("PAYU_VERIFY_CALLBACK_HASH cannot be disabled in production"))
	}

	if c.Carrier.MockMode {
		if c.IsProduction() {
			errs = append(errs, errors.New("CARRIER_MOCK_MODE is not allowed in production"))
		}
	} else if c.Carrier.BaseURL == "" || c.Carrier.APIKey == "" {
		errs = append(errs, errors.New("CARRIER_BASE_URL and CARRIER_API_KEY are required when CARRIER_MOCK_MODE=false"))
	}

	return errors.Join(errs...)
}
