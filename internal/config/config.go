package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	Database  DatabaseConfig  `yaml:"database"`
	Auth      AuthConfig      `yaml:"auth"`
	Telegram  TelegramConfig  `yaml:"telegram"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Anthropic AnthropicConfig `yaml:"anthropic"`
	Generator GeneratorConfig `yaml:"generator"`
	Bot       BotConfig       `yaml:"bot"`
	App       AppConfig       `yaml:"app"`
	Log       LogConfig       `yaml:"log"`
	CORS      CORSConfig      `yaml:"cors"`
	RateLimit RateLimitConfig `yaml:"rate_limit"`
	Cleanup   CleanupConfig   `yaml:"cleanup"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PATCH,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"true"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings. WriteTimeout must cover a full
// voice note run because webhook updates are processed inline.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"180s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	DSN             string        `yaml:"dsn"                env:"DATABASE_DSN"                env-required:"true"`
	MaxConns        int32         `yaml:"max_conns"          env:"DATABASE_MAX_CONNS"          env-default:"25"`
	MinConns        int32         `yaml:"min_conns"          env:"DATABASE_MIN_CONNS"          env-default:"2"`
	MaxConnLifetime time.Duration `yaml:"max_conn_lifetime"  env:"DATABASE_MAX_CONN_LIFETIME"  env-default:"1h"`
	MaxConnIdleTime time.Duration `yaml:"max_conn_idle_time" env:"DATABASE_MAX_CONN_IDLE_TIME" env-default:"30m"`
	AutoMigrate     bool          `yaml:"auto_migrate"       env:"DATABASE_AUTO_MIGRATE"       env-default:"false"`
	QueryLogLevel   string        `yaml:"query_log_level"    env:"DATABASE_QUERY_LOG_LEVEL"    env-default:"warn"`
}

// AuthConfig holds settings for validating web app access tokens.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"exegesis"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"15m"`
}

// TelegramConfig holds Bot API settings.
type TelegramConfig struct {
	BotToken      string        `yaml:"bot_token"      env:"TELEGRAM_BOT_TOKEN"      env-required:"true"`
	WebhookSecret string        `yaml:"webhook_secret" env:"TELEGRAM_WEBHOOK_SECRET"`
	APIBaseURL    string        `yaml:"api_base_url"   env:"TELEGRAM_API_BASE_URL"   env-default:"https://api.telegram.org"`
	Timeout       time.Duration `yaml:"timeout"        env:"TELEGRAM_TIMEOUT"        env-default:"20s"`
	MaxFileBytes  int64         `yaml:"max_file_bytes" env:"TELEGRAM_MAX_FILE_BYTES" env-default:"20971520"`
}

// OpenAIConfig holds OpenAI API settings used for transcription and,
// optionally, brief generation.
type OpenAIConfig struct {
	APIKey             string `yaml:"api_key"             env:"OPENAI_API_KEY"`
	BaseURL            string `yaml:"base_url"            env:"OPENAI_BASE_URL"`
	TranscriptionModel string `yaml:"transcription_model" env:"OPENAI_TRANSCRIPTION_MODEL" env-default:"whisper-1"`
	ChatModel          string `yaml:"chat_model"          env:"OPENAI_CHAT_MODEL"          env-default:"gpt-4o"`
}

// AnthropicConfig holds Anthropic API settings.
type AnthropicConfig struct {
	APIKey    string `yaml:"api_key"    env:"ANTHROPIC_API_KEY"`
	BaseURL   string `yaml:"base_url"   env:"ANTHROPIC_BASE_URL"`
	Model     string `yaml:"model"      env:"ANTHROPIC_MODEL"      env-default:"claude-sonnet-4-5"`
	MaxTokens int64  `yaml:"max_tokens" env:"ANTHROPIC_MAX_TOKENS" env-default:"4096"`
}

// GeneratorConfig selects the language model provider for briefs.
type GeneratorConfig struct {
	Provider string `yaml:"provider" env:"GENERATOR_PROVIDER" env-default:"openai"`
}

// BotConfig holds voice pipeline settings.
type BotConfig struct {
	MinTranscriptLength int           `yaml:"min_transcript_length" env:"BOT_MIN_TRANSCRIPT_LENGTH" env-default:"10"`
	StageTimeout        time.Duration `yaml:"stage_timeout"         env:"BOT_STAGE_TIMEOUT"         env-default:"60s"`
	PersistTimeout      time.Duration `yaml:"persist_timeout"       env:"BOT_PERSIST_TIMEOUT"       env-default:"10s"`
}

// AppConfig holds settings about the web app the bot links to.
type AppConfig struct {
	PublicURL string `yaml:"public_url" env:"APP_PUBLIC_URL" env-default:"http://localhost:3000"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig limits /api requests per client IP. The Telegram webhook
// is never throttled: a non-2xx answer makes Telegram redeliver.
type RateLimitConfig struct {
	APIPerMinute    int           `yaml:"api_per_minute"   env:"RATE_LIMIT_API_PER_MINUTE"   env-default:"300"`
	CleanupInterval time.Duration `yaml:"cleanup_interval" env:"RATE_LIMIT_CLEANUP_INTERVAL" env-default:"5m"`
}

// CleanupConfig holds settings for the placeholder cleanup job.
type CleanupConfig struct {
	PlaceholderRetentionDays int `yaml:"placeholder_retention_days" env:"CLEANUP_PLACEHOLDER_RETENTION_DAYS" env-default:"30"`
}

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)
