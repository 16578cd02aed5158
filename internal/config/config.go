package config

import (
	"os"
	"strings"
	"time"

	"github.com/example/admin-dashboard/internal/query"
	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Prefix of every environment variable, e.g. DASHBOARD_HTTP_ADDR
const Prefix = "DASHBOARD"

type Config struct {
	HTTPAddr       string        `envconfig:"HTTP_ADDR"       default:":8080"`
	LogLevel       string        `envconfig:"LOG_LEVEL"       default:"info"`
	LogFormat      string        `envconfig:"LOG_FORMAT"      default:"json"`
	RequestTimeout time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`

	// views not looked up for this long are dropped by the API
	ViewIdleTimeout time.Duration `envconfig:"VIEW_IDLE_TIMEOUT" default:"30m"`

	ProductsURL  string `envconfig:"PRODUCTS_URL"  default:"https://fakestoreapi.com"`
	UsersURL     string `envconfig:"USERS_URL"     default:"https://jsonplaceholder.typicode.com"`
	MedicinesURL string `envconfig:"MEDICINES_URL" default:"https://maams.onrender.com/api"`

	KafkaBrokers []string `envconfig:"KAFKA_BROKERS"`
	KafkaTopic   string   `envconfig:"KAFKA_TOPIC" default:"dashboard-fetch-events"`
	KafkaGroup   string   `envconfig:"KAFKA_GROUP" default:"dashboard-auditor"`
}

// Load reads an optional .env file and then the process environment.
// Variables already set in the environment win over the file.
func Load(logger *logrus.Logger, files ...string) (*Config, error) {
	if err := godotenv.Load(files...); err != nil {
		if os.IsNotExist(err) {
			logger.Debug("No .env file found, using environment variables and defaults")
		} else {
			logger.Warnf("Error loading .env file (but continuing): %v", err)
		}
	}

	var cfg Config
	if err := envconfig.Process(Prefix, &cfg); err != nil {
		return nil, errors.Wrap(err, "process environment")
	}
	if cfg.RequestTimeout <= 0 {
		return nil, errors.Errorf("request timeout must be positive, got %s", cfg.RequestTimeout)
	}
	if cfg.ViewIdleTimeout <= 0 {
		return nil, errors.Errorf("view idle timeout must be positive, got %s", cfg.ViewIdleTimeout)
	}
	return &cfg, nil
}

// KafkaEnabled reports whether fetch events should be published
func (c *Config) KafkaEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func (c *Config) Endpoints() query.Endpoints {
	return query.Endpoints{
		ProductsURL:  c.ProductsURL,
		UsersURL:     c.UsersURL,
		MedicinesURL: c.MedicinesURL,
		Timeout:      c.RequestTimeout,
	}
}

// NewLogger builds the process logger from the configured level and
// format. An unknown level falls back to info.
func NewLogger(level, format string) *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(os.Stdout)

	lvl, err := logrus.ParseLevel(level)
	if err != nil {
		lvl = logrus.InfoLevel
	}
	logger.SetLevel(lvl)

	if strings.EqualFold(format, "text") {
		logger.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})
	} else {
		logger.SetFormatter(&logrus.JSONFormatter{})
	}
	return logger
}
