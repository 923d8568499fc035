package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Port        string
	Environment string
	Database    DatabaseConfig
	Mongo       MongoConfig
	Redis       RedisConfig
	Kafka       KafkaConfig
	OrderStore  OrderStoreConfig
	LogLevel    string
}

type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	DBName   string
	SSLMode  string
}

type MongoConfig struct {
	URI             string
	Database        string
	OrderCollection string
}

type RedisConfig struct {
	Addr        string
	Password    string
	DB          int
	CartKey     string
	SnapshotTTL time.Duration
}

type KafkaConfig struct {
	Brokers    []string
	OrderTopic string
}

// Enabled reports whether order events should be published
func (k KafkaConfig) Enabled() bool {
	return len(k.Brokers) > 0
}

type OrderStoreConfig struct {
	MaxFailures uint32
	OpenTimeout time.Duration
}

func Load() (*Config, error) {
	viper.SetConfigType("env")
	viper.SetConfigName(".env")
	viper.AddConfigPath(".")
	viper.AddConfigPath("..")
	viper.AddConfigPath("../..")

	// Set defaults
	viper.SetDefault("PORT", "8080")
	viper.SetDefault("ENVIRONMENT", "development")
	viper.SetDefault("DB_PORT", "5432")
	viper.SetDefault("DB_SSLMODE", "disable")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("MONGO_DATABASE", "storefront")
	viper.SetDefault("MONGO_ORDER_COLLECTION", "order")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("CART_SNAPSHOT_KEY", "cart")
	viper.SetDefault("CART_SNAPSHOT_TTL", "0s")
	viper.SetDefault("KAFKA_ORDER_TOPIC", "orders.placed")
	viper.SetDefault("ORDER_STORE_MAX_FAILURES", 5)
	viper.SetDefault("ORDER_STORE_OPEN_TIMEOUT", "30s")

	// Read from environment variables
	viper.AutomaticEnv()

	// Try to read .env file (optional)
	if err := viper.ReadInConfig(); err != nil {
		// It's okay if .env doesn't exist, we'll use env vars
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	snapshotTTL, err := time.ParseDuration(getEnvOrViper("CART_SNAPSHOT_TTL", "0s"))
	if err != nil {
		return nil, fmt.Errorf("invalid CART_SNAPSHOT_TTL: %w", err)
	}
	openTimeout, err := time.ParseDuration(getEnvOrViper("ORDER_STORE_OPEN_TIMEOUT", "30s"))
	if err != nil {
		return nil, fmt.Errorf("invalid ORDER_STORE_OPEN_TIMEOUT: %w", err)
	}

	cfg := &Config{
		Port:        getEnvOrViper("PORT", "8080"),
		Environment: getEnvOrViper("ENVIRONMENT", "development"),
		Database: DatabaseConfig{
			Host:     getEnvOrViper("DB_HOST", "localhost"),
			Port:     getEnvOrViper("DB_PORT", "5432"),
			User:     getEnvOrViper("DB_USER", "postgres"),
			Password: getEnvOrViper("DB_PASSWORD", "postgres"),
			DBName:   getEnvOrViper("DB_NAME", "storefront"),
			SSLMode:  getEnvOrViper("DB_SSLMODE", "disable"),
		},
		Mongo: MongoConfig{
			URI:             getEnvOrViper("MONGO_URI", ""),
			Database:        getEnvOrViper("MONGO_DATABASE", "storefront"),
			OrderCollection: getEnvOrViper("MONGO_ORDER_COLLECTION", "order"),
		},
		Redis: RedisConfig{
			Addr:        getEnvOrViper("REDIS_ADDR", "localhost:6379"),
			Password:    getEnvOrViper("REDIS_PASSWORD", ""),
			DB:          viper.GetInt("REDIS_DB"),
			CartKey:     getEnvOrViper("CART_SNAPSHOT_KEY", "cart"),
			SnapshotTTL: snapshotTTL,
		},
		Kafka: KafkaConfig{
			Brokers:    splitList(getEnvOrViper("KAFKA_BROKERS", "")),
			OrderTopic: getEnvOrViper("KAFKA_ORDER_TOPIC", "orders.placed"),
		},
		OrderStore: OrderStoreConfig{
			MaxFailures: viper.GetUint32("ORDER_STORE_MAX_FAILURES"),
			OpenTimeout: openTimeout,
		},
		LogLevel: getEnvOrViper("LOG_LEVEL", "info"),
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the required fields
func (c *Config) Validate() error {
	if c.Mongo.URI == "" {
		return fmt.Errorf("MONGO_URI is required")
	}
	if c.Kafka.Enabled() && c.Kafka.OrderTopic == "" {
		return fmt.Errorf("KAFKA_ORDER_TOPIC is required when KAFKA_BROKERS is set")
	}
	return nil
}

func getEnvOrViper(key, defaultValue string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	if viper.IsSet(key) {
		return viper.GetString(key)
	}
	return defaultValue
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
