package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "MONGO_URI", "MONGO_DB", "ARTIFACTS_DIR", "REDIS_ADDR", "OAUTH_TOKEN_URL"} {
		t.Setenv(key, "")
	}

	got := Load()

	assert.Equal(t, "8080", got.Port)
	assert.Equal(t, "mongodb://localhost:27017", got.MongoURI)
	assert.Equal(t, "burnoutzero", got.MongoDB)
	assert.Equal(t, "./artifacts", got.ArtifactsDir)
	assert.Equal(t, "https://oauth2.googleapis.com/token", got.OAuthTokenURL)
	assert.Empty(t, got.RedisAddr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("MONGO_DB", "boz_test")
	t.Setenv("REDIS_ADDR", "localhost:6379")
	t.Setenv("REDIS_DB", "3")

	got := Load()

	assert.Equal(t, "9090", got.Port)
	assert.Equal(t, "boz_test", got.MongoDB)
	assert.Equal(t, "localhost:6379", got.RedisAddr)
	assert.Equal(t, 3, got.RedisDB)
}

func TestLoadIgnoresInvalidInt(t *testing.T) {
	t.Setenv("REDIS_DB", "not-a-number")

	got := Load()

	assert.Equal(t, 0, got.RedisDB)
}
