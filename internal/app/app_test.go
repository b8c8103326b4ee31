package app

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shubh-37/linkedin-autoposter/config"
	"github.com/shubh-37/linkedin-autoposter/internal/logging"
	"github.com/shubh-37/linkedin-autoposter/internal/models"
	"github.com/shubh-37/linkedin-autoposter/internal/pipeline"
)

func testConfig() *config.Config {
	return &config.Config{
		Credentials: models.Credentials{APIKey: "sk-test"},
		LLM:         config.LLMConfig{Provider: "openai", Model: "gpt-4o-mini", MaxTokens: 500, Timeout: time.Second, HashtagCount: 5},
		Remote:      config.RemoteConfig{GeneratorFunction: "ContentGenerator", Timeout: time.Second},
	}
}

func TestNew_NothingConfigured(t *testing.T) {
	d, err := New(context.Background(), testConfig(), logging.NewNopLogger())
	require.NoError(t, err)
	defer d.Close()

	assert.Nil(t, d.Store)
	assert.Nil(t, d.Notifier)
	assert.NotNil(t, d.Metrics)
	assert.Len(t, d.Options(), 4)
}

func TestNew_SQLiteStore(t *testing.T) {
	cfg := testConfig()
	cfg.Store.SQLitePath = filepath.Join(t.TempDir(), "history.db")

	d, err := New(context.Background(), cfg, logging.NewNopLogger())
	require.NoError(t, err)
	defer d.Close()

	require.NotNil(t, d.Store)
	assert.Len(t, d.Options(), 5)
}

func TestBuilders(t *testing.T) {
	d, err := New(context.Background(), testConfig(), logging.NewNopLogger())
	require.NoError(t, err)

	_, err = d.Orchestrator()
	assert.NoError(t, err)
	_, err = d.GeneratorFunction()
	assert.NoError(t, err)

	d.Config.Remote.GeneratorURL = "http://generator.internal:3000"
	inv, err := d.Invoker(context.Background())
	require.NoError(t, err)
	assert.IsType(t, &pipeline.HTTPInvoker{}, inv)

	d.Config.LLM.Provider = "mistral"
	_, err = d.Generator()
	assert.Error(t, err)
}
