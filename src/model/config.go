package model

import "time"

// ----------------------------------------------------
// ================ Config ================

// LogConfig holds configuration for the zerolog logger
type LogConfig struct {
	Level      string `envconfig:"LEVEL" default:"info"`
	Format     string `envconfig:"FORMAT" default:"console"` // json | console
	Output     string `envconfig:"OUTPUT" default:"stdout"`  // stdout | stderr | file
	FilePath   string `envconfig:"FILE_PATH" default:"logs/chefbot.log"`
	TimeFormat string `envconfig:"TIME_FORMAT" default:"rfc3339"`
}

// ServerConfig holds the webhook HTTP server settings
type ServerConfig struct {
	Addr            string        `envconfig:"ADDR" default:":5002"`
	ShutdownTimeout time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"5s"`
	Debug           bool          `envconfig:"DEBUG" default:"false"` // gin debug mode
}

// LineConfig holds LINE Messaging API credentials
type LineConfig struct {
	ChannelSecret string        `envconfig:"CHANNEL_SECRET"`
	ChannelToken  string        `envconfig:"CHANNEL_TOKEN"`
	APIBaseURL    string        `envconfig:"API_BASE_URL" default:"https://api.line.me"`
	Timeout       time.Duration `envconfig:"TIMEOUT" default:"10s"`
}

// LLMConfig holds configuration for the fallback chat model
type LLMConfig struct {
	Provider    string        `envconfig:"PROVIDER" default:"ollama"` // ollama | openai
	BaseURL     string        `envconfig:"BASE_URL" default:"http://localhost:11434"`
	Model       string        `envconfig:"MODEL" default:"supachai/llama-3-typhoon-v1.5"`
	APIKey      string        `envconfig:"API_KEY"`
	Temperature float64       `envconfig:"TEMPERATURE" default:"0.3"`
	MaxTokens   int           `envconfig:"MAX_TOKENS" default:"512"`
	Timeout     time.Duration `envconfig:"TIMEOUT" default:"60s"`
}

// ScraperConfig holds settings for the recipe site scraper
type ScraperConfig struct {
	BaseURL    string        `envconfig:"BASE_URL" default:"https://krua.co/recipe"`
	Headless   bool          `envconfig:"HEADLESS" default:"true"`
	BrowserBin string        `envconfig:"BROWSER_BIN"`
	Timeout    time.Duration `envconfig:"TIMEOUT" default:"45s"`
}

// StoreConfig holds settings for the durable memo store
type StoreConfig struct {
	Driver       string `envconfig:"DRIVER" default:"sqlite"` // postgres | sqlite
	DSN          string `envconfig:"DSN" default:"file:chefbot.db"`
	MaxOpenConns int    `envconfig:"MAX_OPEN_CONNS" default:"10"`
}

// SessionConfig holds settings for the per-user dish session cache
type SessionConfig struct {
	Backend  string        `envconfig:"BACKEND" default:"memory"` // memory | redis
	RedisURL string        `envconfig:"REDIS_URL"`
	TTL      time.Duration `envconfig:"TTL" default:"0s"` // 0 keeps entries forever
}

// DialogueConfig points at the optional YAML file with keywords and reply texts
type DialogueConfig struct {
	ConfigPath string `envconfig:"CONFIG" default:"config.yaml"`
}
