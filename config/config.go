package config

import (
	"fmt"
	"os"

	"github.com/ilyakaznacheev/cleanenv"
)

type Config struct {
	Port      string `yaml:"port" env:"PORT" env-default:"8086"`
	JWTSecret string `yaml:"jwt_secret" env:"JWT_SECRET" env-required:"true"`
	LogLevel  string `yaml:"log_level" env:"LOG_LEVEL" env-default:"info"`

	Redis    Redis    `yaml:"redis"`
	Kafka    Kafka    `yaml:"kafka"`
	Backends Backends `yaml:"backends"`
	Sales    Sales    `yaml:"sales"`
}

// Sales tunes the orchestration flow itself.
type Sales struct {
	// HoldMinutes is the TTL requested for every inventory hold.
	HoldMinutes int `yaml:"hold_minutes" env:"SALES_HOLD_MINUTES" env-default:"30"`

	// SessionTTLMinutes bounds how long an idle sales session survives in Redis.
	SessionTTLMinutes int `yaml:"session_ttl_minutes" env:"SALES_SESSION_TTL_MINUTES" env-default:"720"`

	// AvailabilityTTLSeconds bounds the cached unavailable-cabin sets.
	AvailabilityTTLSeconds int `yaml:"availability_ttl_seconds" env:"SALES_AVAILABILITY_TTL_SECONDS" env-default:"300"`

	// CustomerSearchDebounceMS is the idle settle window for search-as-you-type.
	CustomerSearchDebounceMS int `yaml:"customer_search_debounce_ms" env:"SALES_CUSTOMER_SEARCH_DEBOUNCE_MS" env-default:"300"`

	// CustomerSearchLimit caps directory results per query.
	CustomerSearchLimit int `yaml:"customer_search_limit" env:"SALES_CUSTOMER_SEARCH_LIMIT" env-default:"20"`

	// DemoPaymentToken is sent to confirm when the operator provides none.
	DemoPaymentToken string `yaml:"demo_payment_token" env:"SALES_DEMO_PAYMENT_TOKEN" env-default:"demo-payment-token"`
}

type Redis struct {
	Host     string `yaml:"host" env:"REDIS_HOST" env-default:"localhost"`
	Port     string `yaml:"port" env:"REDIS_PORT" env-default:"6379"`
	Password string `yaml:"password" env:"REDIS_PASSWORD" env-default:""`
	DB       int    `yaml:"db" env:"REDIS_DB" env-default:"0"`
}

func (r *Redis) GetRedisURL() string {
	return fmt.Sprintf("%s:%s", r.Host, r.Port)
}

type Kafka struct {
	Brokers       []string `yaml:"brokers" env:"KAFKA_BROKERS" env-default:"localhost:9092" env-separator:","`
	SalesTopic    string   `yaml:"sales_topic" env:"KAFKA_SALES_TOPIC" env-default:"sales-events"`
	BookingTopic  string   `yaml:"booking_topic" env:"KAFKA_BOOKING_TOPIC" env-default:"booking-events"`
	ConsumerGroup string   `yaml:"consumer_group" env:"KAFKA_CONSUMER_GROUP" env-default:"sales-service"`
}

// Backends holds the base URLs and HTTP client tuning for the platform
// services the sales flow consumes.
type Backends struct {
	CruiseServiceURL   string `yaml:"cruise_service_url" env:"CRUISE_SERVICE_URL" env-default:"http://cruise-service:8002"`
	ShipServiceURL     string `yaml:"ship_service_url" env:"SHIP_SERVICE_URL" env-default:"http://ship-service:8001"`
	PricingServiceURL  string `yaml:"pricing_service_url" env:"PRICING_SERVICE_URL" env-default:"http://pricing-service:8004"`
	BookingServiceURL  string `yaml:"booking_service_url" env:"BOOKING_SERVICE_URL" env-default:"http://booking-service:8005"`
	CustomerServiceURL string `yaml:"customer_service_url" env:"CUSTOMER_SERVICE_URL" env-default:"http://customer-service:8003"`

	// HTTP Connection Pool Settings
	MaxIdleConns        int `yaml:"max_idle_conns" env:"HTTP_MAX_IDLE_CONNS" env-default:"20"`
	MaxIdleConnsPerHost int `yaml:"max_idle_conns_per_host" env:"HTTP_MAX_IDLE_CONNS_PER_HOST" env-default:"10"`
	MaxConnsPerHost     int `yaml:"max_conns_per_host" env:"HTTP_MAX_CONNS_PER_HOST" env-default:"20"`
	IdleConnTimeout     int `yaml:"idle_conn_timeout_seconds" env:"HTTP_IDLE_CONN_TIMEOUT" env-default:"90"`
	RequestTimeout      int `yaml:"request_timeout_seconds" env:"HTTP_REQUEST_TIMEOUT" env-default:"15"`
}

func Initialise(configPath string, useEnv bool) (*Config, error) {
	cfg := &Config{}

	if useEnv {
		if err := cleanenv.ReadEnv(cfg); err != nil {
			return nil, fmt.Errorf("failed to read environment variables: %w", err)
		}
		return cfg, nil
	}

	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			if err := cleanenv.ReadConfig(configPath, cfg); err != nil {
				return nil, fmt.Errorf("failed to read config file %s: %w", configPath, err)
			}
			return cfg, nil
		}
	}

	// Fallback to environment variables
	if err := cleanenv.ReadEnv(cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment variables: %w", err)
	}

	return cfg, nil
}
