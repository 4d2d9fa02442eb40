package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8*time.Second, cfg.RequestTimeout)
	assert.Equal(t, 5*time.Second, cfg.ImageTimeout)
	assert.Equal(t, "global", cfg.BingRegion)
	assert.Contains(t, cfg.BingEndpoint, "api-version=3.0")
	assert.Equal(t, "https://fanyi-api.baidu.com/api/trans/vip/translate", cfg.BaiduEndpoint)
	assert.Equal(t, "https://openapi.youdao.com/api", cfg.YoudaoEndpoint)
	assert.Equal(t, "https://open.iciba.com/dsapi/", cfg.DailySentenceURL)
	assert.False(t, cfg.Debug)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("TRANSLATOR_REQUEST_TIMEOUT", "3s")
	t.Setenv("TRANSLATOR_BING_REGION", "eastasia")
	t.Setenv("TRANSLATOR_DEBUG", "true")
	t.Setenv("TRANSLATOR_DATA_PATH", "/tmp/translator.db")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3*time.Second, cfg.RequestTimeout)
	assert.Equal(t, "eastasia", cfg.BingRegion)
	assert.True(t, cfg.Debug)
	assert.Equal(t, "/tmp/translator.db", cfg.DataPath)
}

func TestLoadInvalidValuesFallBack(t *testing.T) {
	t.Setenv("TRANSLATOR_REQUEST_TIMEOUT", "not-a-duration")
	t.Setenv("TRANSLATOR_DEBUG", "maybe")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 8*time.Second, cfg.RequestTimeout)
	assert.False(t, cfg.Debug)
}

func TestLoadRejectsNonPositiveTimeout(t *testing.T) {
	t.Setenv("TRANSLATOR_REQUEST_TIMEOUT", "-1s")
	_, err := Load()
	assert.Error(t, err)
}
