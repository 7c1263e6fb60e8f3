package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (DB connection, etc.)
// - default: Values common across all environments (payment window, code format)
// -----------------------------------------------------------------------------

type Config struct {
	DB      DBConfig
	Log     LogConfig
	Booking BookingConfig
	Sweep   SweepConfig
}

type DBConfig struct {
	Host     string `envconfig:"DB_HOST" default:"localhost"`
	Port     string `envconfig:"DB_PORT" default:"5432"`
	User     string `envconfig:"DB_USER" required:"true"`
	Password string `envconfig:"DB_PASSWORD" required:"true"`
	DBName   string `envconfig:"DB_NAME" required:"true"`
	SSLMode  string `envconfig:"DB_SSL_MODE" default:"disable"`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

type BookingConfig struct {
	// Unpaid reservations expire after this window.
	PaymentWindow    time.Duration `envconfig:"BOOKING_PAYMENT_WINDOW" default:"10m"`
	CodePrefix       string        `envconfig:"BOOKING_CODE_PREFIX" default:"BK"`
	CodeLength       int           `envconfig:"BOOKING_CODE_LENGTH" default:"6"`
	PhoneLookupLimit int32         `envconfig:"BOOKING_PHONE_LOOKUP_LIMIT" default:"20"`
}

type SweepConfig struct {
	Schedule string `envconfig:"SWEEP_SCHEDULE" default:"@every 1m"`
}

func (c *DBConfig) BuildDSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=%s",
		c.User, c.Password, c.Host, c.Port, c.DBName, c.SSLMode,
	)
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		DB: DBConfig{
			Host:     "localhost",
			Port:     "15433", // Test DB port
			User:     "test",
			Password: "test",
			DBName:   "test_db",
			SSLMode:  "disable",
		},
		Log: LogConfig{
			Level: "error", // Error level only for tests
		},
		Booking: BookingConfig{
			PaymentWindow:    10 * time.Minute,
			CodePrefix:       "BK",
			CodeLength:       6,
			PhoneLookupLimit: 20,
		},
		Sweep: SweepConfig{
			Schedule: "@every 1m",
		},
	}
}
