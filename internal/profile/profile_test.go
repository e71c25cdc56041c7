package profile

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidate(t *testing.T) {
	t.Run("UnknownModeFallsBackToDemo", func(t *testing.T) {
		p := &Profile{Mode: "staging", Driver: "memory"}
		require.NoError(t, p.Validate())
		assert.Equal(t, "demo", p.Mode)
	})

	t.Run("DefaultDriverIsMemory", func(t *testing.T) {
		p := &Profile{Mode: "dev"}
		require.NoError(t, p.Validate())
		assert.Equal(t, "memory", p.Driver)
	})

	t.Run("UnknownDriverRejected", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "mysql"}
		assert.Error(t, p.Validate())
	})

	t.Run("SqliteDSNDefaultsUnderDataDir", func(t *testing.T) {
		p := &Profile{Mode: "dev", Driver: "sqlite", Data: t.TempDir()}
		require.NoError(t, p.Validate())
		assert.Contains(t, p.DSN, "thinktank_dev.db")
	})

	t.Run("PostgresRequiresDSN", func(t *testing.T) {
		p := &Profile{Mode: "prod", Driver: "postgres", Data: t.TempDir()}
		assert.Error(t, p.Validate())
	})
}

func TestFromEnvDefaults(t *testing.T) {
	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "https://openrouter.ai/api/v1", p.OpenRouterBaseURL)
	assert.Equal(t, "ThinkTank", p.AppName)
	assert.Equal(t, 1000, p.CacheCapacity)
	assert.Equal(t, 60*time.Second, p.CallTimeout)
	assert.Equal(t, 5, p.RateLimitBurst)
}

func TestFromEnvOverride(t *testing.T) {
	t.Setenv("THINKTANK_OPENROUTER_API_KEY", "sk-test")
	t.Setenv("THINKTANK_CACHE_CAPACITY", "42")

	p := &Profile{}
	p.FromEnv()

	assert.Equal(t, "sk-test", p.OpenRouterAPIKey)
	assert.Equal(t, 42, p.CacheCapacity)
}
