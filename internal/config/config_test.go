package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")
	t.Setenv("GEMINI_API_KEY", "")
	t.Setenv("DATABASE_URL", "")
	t.Setenv("PG_DSN", "")
	t.Setenv("LOG_FORMAT", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8, cfg.Catalog.SearchLimit)
	assert.Equal(t, 6, cfg.Catalog.ResponseLimit)
	assert.Equal(t, 5*time.Minute, cfg.Catalog.CacheTTL)
	assert.Equal(t, 6, cfg.Conversation.MaxTurns)
	assert.False(t, cfg.OpenAI.Enabled)
	assert.False(t, cfg.Vision.Enabled)
	assert.Equal(t, "", cfg.Redis.URL)
	assert.Equal(t, "", cfg.Logging.Format, "empty format lets the environment pick the writer")
	assert.Contains(t, cfg.GetPostgreSQLDSN(), "dbname=furniture_catalog")
}

func TestLoad_FromEnvironment(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("GEMINI_API_KEY", "gm-test")
	t.Setenv("DATABASE_URL", "postgres://u:p@db:5432/catalog")
	t.Setenv("CATALOG_CACHE_TTL", "90s")
	t.Setenv("OPENAI_CHAT_TEMPERATURE", "0.5")
	t.Setenv("CONVERSATION_MAX_TURNS", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.True(t, cfg.OpenAI.Enabled)
	assert.True(t, cfg.Vision.Enabled)
	assert.Equal(t, "postgres://u:p@db:5432/catalog", cfg.GetPostgreSQLDSN())
	assert.Equal(t, 90*time.Second, cfg.Catalog.CacheTTL)
	assert.Equal(t, 0.5, cfg.OpenAI.ChatTemperature)
	assert.Equal(t, 6, cfg.Conversation.MaxTurns, "invalid values fall back to the default")
}

func TestLoad_ResponseLimitCannotExceedSearchLimit(t *testing.T) {
	t.Setenv("CATALOG_SEARCH_LIMIT", "4")
	t.Setenv("CATALOG_RESPONSE_LIMIT", "6")

	_, err := Load()
	assert.Error(t, err)
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"GET", "POST"}, SplitList(" GET, ,POST "))
	assert.Nil(t, SplitList(""))
}
