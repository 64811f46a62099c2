package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ServerConfig holds the HTTP server settings
type ServerConfig struct {
	Addr         string
	RedisAddr    string
	CacheTTL     time.Duration
	RateLimit    float64
	RateBurst    int
	LogLevel     string
	LogFormat    string
	LogFile      string
	ShutdownWait time.Duration
}

// LoadServerConfig reads settings from an optional config file, a .env file and
// ACTCALC_* environment variables, in increasing order of precedence
func LoadServerConfig(configFile string) (*ServerConfig, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("actcalc")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("addr", ":8080")
	v.SetDefault("redis_addr", "")
	v.SetDefault("cache_ttl", 10*time.Minute)
	v.SetDefault("rate_limit", 20.0)
	v.SetDefault("rate_burst", 40)
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("log_file", "")
	v.SetDefault("shutdown_wait", 10*time.Second)

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read server config %s: %w", configFile, err)
		}
	}

	cfg := &ServerConfig{
		Addr:         v.GetString("addr"),
		RedisAddr:    v.GetString("redis_addr"),
		CacheTTL:     v.GetDuration("cache_ttl"),
		RateLimit:    v.GetFloat64("rate_limit"),
		RateBurst:    v.GetInt("rate_burst"),
		LogLevel:     strings.ToLower(v.GetString("log_level")),
		LogFormat:    strings.ToLower(v.GetString("log_format")),
		LogFile:      v.GetString("log_file"),
		ShutdownWait: v.GetDuration("shutdown_wait"),
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate validates the configuration and returns an error if invalid
func (c *ServerConfig) Validate() error {
	var problems []string

	if c.Addr == "" {
		problems = append(problems, "listen address is required")
	}
	if c.CacheTTL < 0 {
		problems = append(problems, fmt.Sprintf("invalid cache ttl %s: cannot be negative", c.CacheTTL))
	}
	if c.RateLimit <= 0 {
		problems = append(problems, fmt.Sprintf("invalid rate limit %g: must be positive", c.RateLimit))
	}
	if c.RateBurst <= 0 {
		problems = append(problems, fmt.Sprintf("invalid rate burst %d: must be positive", c.RateBurst))
	}
	switch c.LogLevel {
	case "debug", "info", "warn", "error":
	default:
		problems = append(problems, fmt.Sprintf("invalid log level %q", c.LogLevel))
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		problems = append(problems, fmt.Sprintf("invalid log format %q", c.LogFormat))
	}

	if len(problems) > 0 {
		return fmt.Errorf("server configuration invalid: %s", strings.Join(problems, "; "))
	}
	return nil
}
