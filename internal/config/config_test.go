package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://localhost:27017")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "storefront", cfg.Mongo.Database)
	assert.Equal(t, "order", cfg.Mongo.OrderCollection)
	assert.Equal(t, "cart", cfg.Redis.CartKey)
	assert.Equal(t, time.Duration(0), cfg.Redis.SnapshotTTL)
	assert.Equal(t, uint32(5), cfg.OrderStore.MaxFailures)
	assert.Equal(t, 30*time.Second, cfg.OrderStore.OpenTimeout)
	assert.False(t, cfg.Kafka.Enabled())
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("PORT", "9090")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("CART_SNAPSHOT_TTL", "72h")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.True(t, cfg.Kafka.Enabled())
	assert.Equal(t, 72*time.Hour, cfg.Redis.SnapshotTTL)
}

func TestLoad_InvalidDuration(t *testing.T) {
	t.Setenv("MONGO_URI", "mongodb://db:27017")
	t.Setenv("CART_SNAPSHOT_TTL", "forever")

	_, err := Load()
	require.ErrorContains(t, err, "CART_SNAPSHOT_TTL")
}

func TestValidate(t *testing.T) {
	cfg := &Config{}
	require.ErrorContains(t, cfg.Validate(), "MONGO_URI is required")

	cfg.Mongo.URI = "mongodb://db:27017"
	cfg.Kafka.Brokers = []string{"k1:9092"}
	require.ErrorContains(t, cfg.Validate(), "KAFKA_ORDER_TOPIC")

	cfg.Kafka.OrderTopic = "orders.placed"
	assert.NoError(t, cfg.Validate())
}
