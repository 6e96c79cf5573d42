package config

import (
	"github.com/kelseyhightower/envconfig"
)

// Config holds all runtime settings. Values come from the environment
// (optionally loaded from a .env file by the caller).
type Config struct {
	Addr        string `envconfig:"GENSTORE_ADDR" default:":8080"`
	DatabaseURL string `envconfig:"DATABASE_URL"`
	JWTSecret   string `envconfig:"JWT_SECRET"`
	LogLevel    string `envconfig:"LOG_LEVEL" default:"info"`

	Currency              string  `envconfig:"CURRENCY" default:"PKR"`
	DefaultShippingFee    float64 `envconfig:"DEFAULT_SHIPPING_FEE" default:"500"`
	FreeShippingThreshold float64 `envconfig:"FREE_SHIPPING_THRESHOLD" default:"50000"`
	TaxRate               float64 `envconfig:"TAX_RATE" default:"0"`

	SMTPHost     string `envconfig:"SMTP_HOST" default:""`
	SMTPPort     int    `envconfig:"SMTP_PORT" default:"587"`
	SMTPUser     string `envconfig:"SMTP_USER" default:""`
	SMTPPassword string `envconfig:"SMTP_PASSWORD" default:""`
	SMTPFrom     string `envconfig:"SMTP_FROM" default:"orders@voltdepot.pk"`

	// AdminEmails receive a notification mail for every new order.
	AdminEmails []string `envconfig:"ADMIN_EMAILS" default:""`

	// KafkaBrokers is optional; when empty no order events are published.
	KafkaBrokers    string `envconfig:"KAFKA_BROKERS" default:""`
	OrderEventTopic string `envconfig:"ORDER_EVENT_TOPIC" default:"order-events"`
}

func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
