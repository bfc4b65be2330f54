package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// DefaultCORSOrigins is the allow-list used when CORS_ORIGINS is not set.
var DefaultCORSOrigins = []string{
	"http://localhost:5173",
	"http://localhost:3000",
	"https://*.vercel.app",
	"https://dashboard-app-kofs.onrender.com",
}

// Config is the server configuration.
type Config struct {
	Port string `mapstructure:"port"`

	GeminiAPIKey  string `mapstructure:"gemini_api_key"`
	GeminiModel   string `mapstructure:"gemini_model"`
	GeminiBaseURL string `mapstructure:"gemini_base_url"`
	LLMTimeoutSec int    `mapstructure:"llm_timeout_sec"`
	LLMRPM        int    `mapstructure:"llm_rpm"`

	CORSOrigins []string `mapstructure:"-"`
	MaxUploadMB int64    `mapstructure:"max_upload_mb"`
	SampleCSV   string   `mapstructure:"sample_csv"`

	LogLevel string `mapstructure:"log_level"`
	LogFile  string `mapstructure:"log_file"`

	DatabaseURL string `mapstructure:"database_url"`
}

// MaxUploadBytes is the request body limit for uploads.
func (c *Config) MaxUploadBytes() int64 {
	return c.MaxUploadMB << 20
}

// LLMTimeout is the per-call timeout of the model client.
func (c *Config) LLMTimeout() time.Duration {
	return time.Duration(c.LLMTimeoutSec) * time.Second
}

var keys = []string{
	"port", "gemini_api_key", "gemini_model", "gemini_base_url",
	"llm_timeout_sec", "llm_rpm", "cors_origins", "max_upload_mb",
	"sample_csv", "log_level", "log_file", "database_url",
}

// Load reads configuration from defaults, an optional dotenv file and the
// environment. Precedence: env > env file > defaults. An empty envFile means
// ".env" in the working directory, which may be absent.
func Load(envFile string) (*Config, error) {
	v := viper.New()

	v.SetDefault("port", "5000")
	v.SetDefault("gemini_model", "gemini-2.5-flash")
	v.SetDefault("gemini_base_url", "https://generativelanguage.googleapis.com/v1beta/openai/")
	v.SetDefault("llm_timeout_sec", 60)
	v.SetDefault("llm_rpm", 60)
	v.SetDefault("cors_origins", strings.Join(DefaultCORSOrigins, ","))
	v.SetDefault("max_upload_mb", 16)
	v.SetDefault("sample_csv", "./exemplo_vendas.csv")
	v.SetDefault("log_level", "info")

	explicit := envFile != ""
	if !explicit {
		envFile = ".env"
	}
	if _, err := os.Stat(envFile); err == nil {
		v.SetConfigFile(envFile)
		v.SetConfigType("env")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read env file: %w", err)
		}
	} else if explicit {
		return nil, fmt.Errorf("env file %s: %w", envFile, err)
	}

	v.AutomaticEnv()
	// AutomaticEnv only applies to keys viper already knows about.
	for _, k := range keys {
		if err := v.BindEnv(k); err != nil {
			return nil, fmt.Errorf("bind env %s: %w", k, err)
		}
	}

	var c Config
	if err := v.Unmarshal(&c); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	c.CORSOrigins = splitList(v.GetString("cors_origins"))

	if err := c.validate(); err != nil {
		return nil, err
	}
	return &c, nil
}

func (c *Config) validate() error {
	if c.Port == "" {
		return errors.New("port must not be empty")
	}
	if c.MaxUploadMB <= 0 {
		return fmt.Errorf("max_upload_mb must be positive, got %d", c.MaxUploadMB)
	}
	if c.LLMRPM <= 0 {
		return fmt.Errorf("llm_rpm must be positive, got %d", c.LLMRPM)
	}
	return nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
