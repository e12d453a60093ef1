package config

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/spf13/viper"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// Config holds the full application configuration.
type Config struct {
	Firecrawl  FirecrawlConfig  `yaml:"firecrawl" mapstructure:"firecrawl"`
	Anthropic  AnthropicConfig  `yaml:"anthropic" mapstructure:"anthropic"`
	Fal        FalConfig        `yaml:"fal" mapstructure:"fal"`
	ElevenLabs ElevenLabsConfig `yaml:"elevenlabs" mapstructure:"elevenlabs"`
	Mux        MuxConfig        `yaml:"mux" mapstructure:"mux"`
	Resend     ResendConfig     `yaml:"resend" mapstructure:"resend"`
	Research   ResearchConfig   `yaml:"research" mapstructure:"research"`
	Extractor  ExtractorConfig  `yaml:"extractor" mapstructure:"extractor"`
	Media      MediaConfig      `yaml:"media" mapstructure:"media"`
	Outreach   OutreachConfig   `yaml:"outreach" mapstructure:"outreach"`
	Server     ServerConfig     `yaml:"server" mapstructure:"server"`
	Log        LogConfig        `yaml:"log" mapstructure:"log"`
}

// FirecrawlConfig holds content-fetch API settings.
type FirecrawlConfig struct {
	Key         string `yaml:"key" mapstructure:"key"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
	SearchLimit int    `yaml:"search_limit" mapstructure:"search_limit"`
}

// AnthropicConfig holds completion-service settings.
type AnthropicConfig struct {
	Key         string  `yaml:"key" mapstructure:"key"`
	Model       string  `yaml:"model" mapstructure:"model"`
	HaikuModel  string  `yaml:"haiku_model" mapstructure:"haiku_model"`
	MaxTokens   int     `yaml:"max_tokens" mapstructure:"max_tokens"`
	Temperature float64 `yaml:"temperature" mapstructure:"temperature"`
}

// FalConfig holds text-to-video generation settings.
type FalConfig struct {
	Key          string `yaml:"key" mapstructure:"key"`
	BaseURL      string `yaml:"base_url" mapstructure:"base_url"`
	Model        string `yaml:"model" mapstructure:"model"`
	AspectRatio  string `yaml:"aspect_ratio" mapstructure:"aspect_ratio"`
	DurationSecs int    `yaml:"duration_secs" mapstructure:"duration_secs"`
}

// ElevenLabsConfig holds text-to-speech settings.
type ElevenLabsConfig struct {
	Key        string  `yaml:"key" mapstructure:"key"`
	BaseURL    string  `yaml:"base_url" mapstructure:"base_url"`
	VoiceID    string  `yaml:"voice_id" mapstructure:"voice_id"`
	Model      string  `yaml:"model" mapstructure:"model"`
	Stability  float64 `yaml:"stability" mapstructure:"stability"`
	Similarity float64 `yaml:"similarity" mapstructure:"similarity"`
}

// MuxConfig holds video-host credentials.
type MuxConfig struct {
	TokenID     string `yaml:"token_id" mapstructure:"token_id"`
	TokenSecret string `yaml:"token_secret" mapstructure:"token_secret"`
	BaseURL     string `yaml:"base_url" mapstructure:"base_url"`
}

// ResendConfig holds email-delivery settings.
type ResendConfig struct {
	Key     string `yaml:"key" mapstructure:"key"`
	BaseURL string `yaml:"base_url" mapstructure:"base_url"`
	From    string `yaml:"from" mapstructure:"from"`
}

// ResearchConfig tunes the research orchestrator.
type ResearchConfig struct {
	ScrapeTimeoutSecs int `yaml:"scrape_timeout_secs" mapstructure:"scrape_timeout_secs"`
	MaxURLsPerIntent  int `yaml:"max_urls_per_intent" mapstructure:"max_urls_per_intent"`
	MaxPainPoints     int `yaml:"max_pain_points" mapstructure:"max_pain_points"`
	MaxCompetitors    int `yaml:"max_competitors" mapstructure:"max_competitors"`
	MaxCompetitorAds  int `yaml:"max_competitor_ads" mapstructure:"max_competitor_ads"`
}

// ExtractorConfig holds heuristic tuning constants. These are policy
// parameters, not correctness-critical thresholds.
type ExtractorConfig struct {
	SelfMentionLimit int `yaml:"self_mention_limit" mapstructure:"self_mention_limit"`
	MaxIssueLength   int `yaml:"max_issue_length" mapstructure:"max_issue_length"`
}

// MediaConfig tunes the scene media pipeline.
type MediaConfig struct {
	PollIntervalSecs int    `yaml:"poll_interval_secs" mapstructure:"poll_interval_secs"`
	PollMaxAttempts  int    `yaml:"poll_max_attempts" mapstructure:"poll_max_attempts"`
	FFmpegPath       string `yaml:"ffmpeg_path" mapstructure:"ffmpeg_path"`
}

// OutreachConfig tunes influencer discovery and email drafting.
type OutreachConfig struct {
	CandidatePool   int `yaml:"candidate_pool" mapstructure:"candidate_pool"`
	TopK            int `yaml:"top_k" mapstructure:"top_k"`
	DraftsPerMinute int `yaml:"drafts_per_minute" mapstructure:"drafts_per_minute"`
}

// ServerConfig configures the webhook server.
type ServerConfig struct {
	Port int `yaml:"port" mapstructure:"port"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// Load reads configuration from file and environment.
func Load() (*Config, error) {
	v := viper.New()

	// Config file
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")

	// Environment
	v.SetEnvPrefix("ADGEN")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")
	v.SetDefault("server.port", 8080)
	v.SetDefault("firecrawl.base_url", "https://api.firecrawl.dev/v1")
	v.SetDefault("firecrawl.search_limit", 5)
	v.SetDefault("anthropic.model", "claude-sonnet-4-5-20250929")
	v.SetDefault("anthropic.haiku_model", "claude-haiku-4-5-20251001")
	v.SetDefault("anthropic.max_tokens", 2048)
	v.SetDefault("anthropic.temperature", 0.7)
	v.SetDefault("fal.base_url", "https://queue.fal.run")
	v.SetDefault("fal.model", "fal-ai/ltx-video")
	v.SetDefault("fal.aspect_ratio", "9:16")
	v.SetDefault("fal.duration_secs", 5)
	v.SetDefault("elevenlabs.base_url", "https://api.elevenlabs.io/v1")
	v.SetDefault("elevenlabs.voice_id", "21m00Tcm4TlvDq8ikWAM")
	v.SetDefault("elevenlabs.model", "eleven_multilingual_v2")
	v.SetDefault("elevenlabs.stability", 0.5)
	v.SetDefault("elevenlabs.similarity", 0.75)
	v.SetDefault("mux.base_url", "https://api.mux.com")
	v.SetDefault("resend.base_url", "https://api.resend.com")
	v.SetDefault("research.scrape_timeout_secs", 15)
	v.SetDefault("research.max_urls_per_intent", 6)
	v.SetDefault("research.max_pain_points", 6)
	v.SetDefault("research.max_competitors", 6)
	v.SetDefault("research.max_competitor_ads", 8)
	v.SetDefault("extractor.self_mention_limit", 3)
	v.SetDefault("extractor.max_issue_length", 150)
	v.SetDefault("media.poll_interval_secs", 3)
	v.SetDefault("media.poll_max_attempts", 100)
	v.SetDefault("media.ffmpeg_path", "ffmpeg")
	v.SetDefault("outreach.candidate_pool", 20)
	v.SetDefault("outreach.top_k", 10)
	v.SetDefault("outreach.drafts_per_minute", 6)

	// Read config file (optional)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, eris.Wrap(err, "config: read file")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, eris.Wrap(err, "config: unmarshal")
	}

	return &cfg, nil
}

// ErrNotConfigured marks a missing collaborator credential. Callers test
// with eris.Is to distinguish configuration errors from runtime failures.
var ErrNotConfigured = eris.New("service not configured")

// Require returns a configuration error when a collaborator credential is
// missing. Checked at client construction, never deep in a call stack.
func Require(service, key string) error {
	if strings.TrimSpace(key) == "" {
		return eris.Wrapf(ErrNotConfigured, "config: %s service", service)
	}
	return nil
}

// InitLogger initializes the global zap logger.
func InitLogger(cfg LogConfig) error {
	var zapCfg zap.Config
	if cfg.Format == "console" {
		zapCfg = zap.NewDevelopmentConfig()
	} else {
		zapCfg = zap.NewProductionConfig()
	}

	level, err := zapcore.ParseLevel(cfg.Level)
	if err != nil {
		return eris.Wrap(err, "config: parse log level")
	}
	zapCfg.Level.SetLevel(level)

	logger, err := zapCfg.Build()
	if err != nil {
		return eris.Wrap(err, "config: build logger")
	}
	zap.ReplaceGlobals(logger)

	return nil
}
