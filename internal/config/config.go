package config

import (
	"errors"
	"fmt"
	"time"
)

// Config is the application configuration root
type Config struct {
	Server  ServerConfig  `mapstructure:"server"`
	AI      AIConfig      `mapstructure:"ai"`
	Image   ImageConfig   `mapstructure:"image"`
	Log     LogConfig     `mapstructure:"log"`
	Mongo   MongoConfig   `mapstructure:"mongo"`
	Redis   RedisConfig   `mapstructure:"redis"`
	Storage StorageConfig `mapstructure:"storage"`
}

// ServerConfig HTTP server configuration
type ServerConfig struct {
	Host         string        `mapstructure:"host"`
	Port         int           `mapstructure:"port"`
	Mode         string        `mapstructure:"mode"`
	ReadTimeout  time.Duration `mapstructure:"read_timeout"`
	WriteTimeout time.Duration `mapstructure:"write_timeout"`
}

// AIConfig LLM configuration for story text generation
type AIConfig struct {
	Provider string          `mapstructure:"provider"`
	APIKey   string          `mapstructure:"api_key"`
	Model    string          `mapstructure:"model"`
	BaseURL  string          `mapstructure:"base_url"`
	Options  AIOptionsConfig `mapstructure:"options"`
}

// AIOptionsConfig LLM sampling parameters
type AIOptionsConfig struct {
	Temperature float64 `mapstructure:"temperature"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	TopP        float64 `mapstructure:"top_p"`
}

// ImageConfig image generation configuration
type ImageConfig struct {
	// Provider selects the backend: "hunyuan" (two-stage generate+refine)
	// or "ark" (single-pass text-to-image)
	Provider       string         `mapstructure:"provider"`
	MaxRetries     int            `mapstructure:"max_retries"`
	RetryBackoff   time.Duration  `mapstructure:"retry_backoff"`
	RequestTimeout time.Duration  `mapstructure:"request_timeout"`
	Hunyuan        HunyuanConfig  `mapstructure:"hunyuan"`
	Ark            ArkImageConfig `mapstructure:"ark"`
}

// HunyuanConfig Gradio-hosted HunyuanImage backend configuration
type HunyuanConfig struct {
	Space   string `mapstructure:"space"`    // Hugging Face space id, e.g. tencent/HunyuanImage-2.1
	BaseURL string `mapstructure:"base_url"` // overrides the space-derived URL when set
	Token   string `mapstructure:"token"`    // optional HF token for gated spaces
}

// ArkImageConfig Volcengine Ark image generation configuration
type ArkImageConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url"`
	Model   string `mapstructure:"model"`
	Size    string `mapstructure:"size"`
}

// LogConfig logging configuration (zerolog)
type LogConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	FilePath   string `mapstructure:"file_path"`
	TimeFormat string `mapstructure:"time_format"`
}

// MongoConfig MongoDB configuration
type MongoConfig struct {
	URI         string `mapstructure:"uri"`
	Database    string `mapstructure:"database"`
	MaxPoolSize uint64 `mapstructure:"max_pool_size"`
	MinPoolSize uint64 `mapstructure:"min_pool_size"`
}

// RedisConfig Redis configuration
type RedisConfig struct {
	Addr     string `mapstructure:"addr"`
	Password string `mapstructure:"password"`
	DB       int    `mapstructure:"db"`
}

// StorageConfig artifact blob storage configuration
type StorageConfig struct {
	Type  string       `mapstructure:"type"` // local, oss
	Local *LocalConfig `mapstructure:"local,omitempty"`
	OSS   *OSSConfig   `mapstructure:"oss,omitempty"`
}

// LocalConfig local filesystem storage
type LocalConfig struct {
	BasePath string `mapstructure:"base_path"`
	BaseURL  string `mapstructure:"base_url"`
}

// OSSConfig Aliyun OSS storage
type OSSConfig struct {
	Endpoint        string `mapstructure:"endpoint"`
	Bucket          string `mapstructure:"bucket"`
	AccessKeyID     string `mapstructure:"access_key_id"`
	AccessKeySecret string `mapstructure:"access_key_secret"`
}

// Validate checks the configuration for obvious mistakes
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return errors.New("invalid server port")
	}

	validModes := map[string]bool{"debug": true, "release": true, "test": true}
	if !validModes[c.Server.Mode] {
		return errors.New("invalid server mode, must be debug/release/test")
	}

	switch c.Image.Provider {
	case "hunyuan", "ark":
	default:
		return fmt.Errorf("unsupported image provider: %s", c.Image.Provider)
	}

	if c.Image.MaxRetries < 0 {
		return errors.New("image.max_retries must be >= 0")
	}

	return nil
}
