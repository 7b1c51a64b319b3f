package config

import "time"

// Config is the root application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Auth       AuthConfig       `yaml:"auth"`
	Dictionary DictionaryConfig `yaml:"dictionary"`
	Source     SourceConfig     `yaml:"source"`
	TTS        TTSConfig        `yaml:"tts"`
	Log        LogConfig        `yaml:"log"`
	CORS       CORSConfig       `yaml:"cors"`
	RateLimit  RateLimitConfig  `yaml:"rate_limit"`
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins   string `yaml:"allowed_origins"   env:"CORS_ALLOWED_ORIGINS"   env-default:"*"`
	AllowedMethods   string `yaml:"allowed_methods"   env:"CORS_ALLOWED_METHODS"   env-default:"GET,POST,PUT,DELETE,OPTIONS"`
	AllowedHeaders   string `yaml:"allowed_headers"   env:"CORS_ALLOWED_HEADERS"   env-default:"Authorization,Content-Type"`
	AllowCredentials bool   `yaml:"allow_credentials" env:"CORS_ALLOW_CREDENTIALS" env-default:"false"`
	MaxAge           int    `yaml:"max_age"           env:"CORS_MAX_AGE"           env-default:"86400"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"60s"`
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
}

// AuthConfig holds token and password settings.
type AuthConfig struct {
	JWTSecret      string        `yaml:"jwt_secret"       env:"AUTH_JWT_SECRET"       env-required:"true"`
	JWTIssuer      string        `yaml:"jwt_issuer"       env:"AUTH_JWT_ISSUER"       env-default:"dicionario"`
	AccessTokenTTL time.Duration `yaml:"access_token_ttl" env:"AUTH_ACCESS_TOKEN_TTL" env-default:"24h"`
	BcryptCost     int           `yaml:"bcrypt_cost"      env:"AUTH_BCRYPT_COST"      env-default:"10"`
}

// DictionaryConfig holds dictionary service settings.
type DictionaryConfig struct {
	DefaultLanguage      string `yaml:"default_language"       env:"DICT_DEFAULT_LANGUAGE"        env-default:"pt"`
	HistoryRetentionDays int    `yaml:"history_retention_days" env:"DICT_HISTORY_RETENTION_DAYS" env-default:"365"`
}

// SourceConfig describes the external dictionary site and the web search
// endpoint used to relocate terms on it.
type SourceConfig struct {
	BaseURL          string        `yaml:"base_url"          env:"SOURCE_BASE_URL"          env-default:"https://www.dicio.com.br"`
	SearchURL        string        `yaml:"search_url"        env:"SOURCE_SEARCH_URL"        env-default:"https://www.google.com/search"`
	SearchDomain     string        `yaml:"search_domain"     env:"SOURCE_SEARCH_DOMAIN"     env-default:"dicio.com.br"`
	UserAgent        string        `yaml:"user_agent"        env:"SOURCE_USER_AGENT"        env-default:"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0 Safari/537.36"`
	FetchTimeout     time.Duration `yaml:"fetch_timeout"     env:"SOURCE_FETCH_TIMEOUT"     env-default:"12s"`
	SearchTimeout    time.Duration `yaml:"search_timeout"    env:"SOURCE_SEARCH_TIMEOUT"    env-default:"8s"`
	FailureThreshold int           `yaml:"failure_threshold" env:"SOURCE_FAILURE_THRESHOLD" env-default:"5"`
	MaxBodyBytes     int64         `yaml:"max_body_bytes"    env:"SOURCE_MAX_BODY_BYTES"    env-default:"4194304"`
}

// TTSConfig holds the text-to-speech provider settings.
type TTSConfig struct {
	Endpoint     string        `yaml:"endpoint"      env:"TTS_ENDPOINT"      env-default:"https://texttospeech.googleapis.com/v1/text:synthesize"`
	APIKey       string        `yaml:"api_key"       env:"TTS_API_KEY"`
	DefaultVoice string        `yaml:"default_voice" env:"TTS_DEFAULT_VOICE" env-default:"pt-br-x-ana"`
	Timeout      time.Duration `yaml:"timeout"       env:"TTS_TIMEOUT"       env-default:"10s"`
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}

// RateLimitConfig limits requests per client IP on the routes that can
// fan out to the external source.
type RateLimitConfig struct {
	SearchPerMinute int `yaml:"search_per_minute" env:"RATE_LIMIT_SEARCH_PER_MINUTE" env-default:"60"`
	AuthPerMinute   int `yaml:"auth_per_minute"   env:"RATE_LIMIT_AUTH_PER_MINUTE"   env-default:"10"`
}
