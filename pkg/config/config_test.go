package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCSV(t *testing.T) {
	assert.Nil(t, CSV(""))
	assert.Equal(t, []string{"kafka:9092", "kafka-2:9092"}, CSV(" kafka:9092, ,kafka-2:9092 "))
}

func TestEnvHelpers(t *testing.T) {
	t.Setenv("SHOFY_TEST_STR", "value")
	t.Setenv("SHOFY_TEST_INT", "42")
	t.Setenv("SHOFY_TEST_BAD_INT", "forty-two")
	t.Setenv("SHOFY_TEST_BOOL", "true")
	t.Setenv("SHOFY_TEST_DUR", "250ms")

	assert.Equal(t, "value", EnvDefault("SHOFY_TEST_STR", "def"))
	assert.Equal(t, "def", EnvDefault("SHOFY_TEST_MISSING", "def"))
	assert.Equal(t, 42, EnvIntDefault("SHOFY_TEST_INT", 1))
	assert.Equal(t, 1, EnvIntDefault("SHOFY_TEST_BAD_INT", 1))
	assert.True(t, EnvBoolDefault("SHOFY_TEST_BOOL", false))
	assert.False(t, EnvBoolDefault("SHOFY_TEST_MISSING", false))
	assert.Equal(t, 250*time.Millisecond, EnvDurationDefault("SHOFY_TEST_DUR", time.Second))
	assert.Equal(t, time.Second, EnvDurationDefault("SHOFY_TEST_MISSING", time.Second))
}

func TestRequire(t *testing.T) {
	assert.NoError(t, RequireNonEmpty("x", "X"))
	assert.EqualError(t, RequireNonEmpty("", "DATABASE_URL"), "missing required env DATABASE_URL")

	assert.NoError(t, RequireOneOf("sqlite", "DB_DRIVER", "postgres", "sqlite"))
	assert.Error(t, RequireOneOf("mysql", "DB_DRIVER", "postgres", "sqlite"))
}
