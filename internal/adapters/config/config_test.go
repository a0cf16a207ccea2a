package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPostgresConfig_DSN(t *testing.T) {
	cfg := PostgresConfig{
		Host:     "localhost",
		Port:     5432,
		User:     "hermes",
		Password: "secret",
		Database: "hermes",
		SSLMode:  "disable",
	}

	assert.Equal(t,
		"host=localhost port=5432 user=hermes password=secret dbname=hermes sslmode=disable",
		cfg.DSN(),
	)
}

func TestOptionalBackends_Enabled(t *testing.T) {
	assert.False(t, ClickHouseConfig{}.Enabled())
	assert.True(t, ClickHouseConfig{Host: "ch"}.Enabled())

	assert.False(t, RedisConfig{}.Enabled())
	assert.True(t, RedisConfig{Host: "redis"}.Enabled())
	assert.Equal(t, "redis:6379", RedisConfig{Host: "redis", Port: 6379}.Addr())

	assert.False(t, KafkaConfig{}.Enabled())
	assert.True(t, KafkaConfig{Brokers: []string{"broker:9092"}}.Enabled())
}
