package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestLoadDefaults(t *testing.T) {
	// Change to temp dir so no config.yaml is found
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "info", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "https://api.firecrawl.dev/v1", cfg.Firecrawl.BaseURL)
	assert.Equal(t, 5, cfg.Firecrawl.SearchLimit)
	assert.Equal(t, "claude-haiku-4-5-20251001", cfg.Anthropic.HaikuModel)
	assert.Equal(t, 2048, cfg.Anthropic.MaxTokens)
	assert.InDelta(t, 0.7, cfg.Anthropic.Temperature, 0.001)
	assert.Equal(t, "fal-ai/ltx-video", cfg.Fal.Model)
	assert.Equal(t, "9:16", cfg.Fal.AspectRatio)
	assert.Equal(t, 5, cfg.Fal.DurationSecs)
	assert.Equal(t, "eleven_multilingual_v2", cfg.ElevenLabs.Model)
	assert.InDelta(t, 0.5, cfg.ElevenLabs.Stability, 0.001)
	assert.InDelta(t, 0.75, cfg.ElevenLabs.Similarity, 0.001)
	assert.Equal(t, "https://api.mux.com", cfg.Mux.BaseURL)
	assert.Equal(t, "https://api.resend.com", cfg.Resend.BaseURL)
	assert.Equal(t, 15, cfg.Research.ScrapeTimeoutSecs)
	assert.Equal(t, 6, cfg.Research.MaxURLsPerIntent)
	assert.Equal(t, 6, cfg.Research.MaxPainPoints)
	assert.Equal(t, 6, cfg.Research.MaxCompetitors)
	assert.Equal(t, 8, cfg.Research.MaxCompetitorAds)
	assert.Equal(t, 3, cfg.Extractor.SelfMentionLimit)
	assert.Equal(t, 150, cfg.Extractor.MaxIssueLength)
	assert.Equal(t, 3, cfg.Media.PollIntervalSecs)
	assert.Equal(t, 100, cfg.Media.PollMaxAttempts)
	assert.Equal(t, "ffmpeg", cfg.Media.FFmpegPath)
	assert.Equal(t, 20, cfg.Outreach.CandidatePool)
	assert.Equal(t, 10, cfg.Outreach.TopK)
	assert.Equal(t, 6, cfg.Outreach.DraftsPerMinute)
}

func TestLoadFromYAML(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
  format: console
server:
  port: 9090
fal:
  model: fal-ai/minimax-video
outreach:
  top_k: 5
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "console", cfg.Log.Format)
	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "fal-ai/minimax-video", cfg.Fal.Model)
	assert.Equal(t, 5, cfg.Outreach.TopK)
	// Defaults still apply for unset values
	assert.Equal(t, 20, cfg.Outreach.CandidatePool)
}

func TestLoadEnvOverridesFile(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	yaml := `
log:
  level: debug
anthropic:
  key: sk-ant-file
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), []byte(yaml), 0644))

	t.Setenv("ADGEN_LOG_LEVEL", "warn")
	t.Setenv("ADGEN_ANTHROPIC_KEY", "sk-ant-test")

	cfg, err := Load()
	require.NoError(t, err)

	// Env overrides file
	assert.Equal(t, "warn", cfg.Log.Level)
	assert.Equal(t, "sk-ant-test", cfg.Anthropic.Key)
}

func TestLoadEnvOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	origDir, _ := os.Getwd()
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(origDir) })

	t.Setenv("ADGEN_SERVER_PORT", "3000")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 3000, cfg.Server.Port)
}

func TestRequire(t *testing.T) {
	assert.NoError(t, Require("firecrawl", "fc-key"))

	err := Require("firecrawl", "")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotConfigured))
	assert.Contains(t, err.Error(), "firecrawl service")

	err = Require("mux", "   ")
	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNotConfigured))
}

func TestInitLoggerConsole(t *testing.T) {
	err := InitLogger(LogConfig{Level: "debug", Format: "console"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerJSON(t *testing.T) {
	err := InitLogger(LogConfig{Level: "info", Format: "json"})
	require.NoError(t, err)
	assert.NotNil(t, zap.L())
}

func TestInitLoggerInvalidLevel(t *testing.T) {
	err := InitLogger(LogConfig{Level: "invalid", Format: "json"})
	assert.Error(t, err)
}
