package config

import (
	"fmt"
	"net"
	"strings"
	"time"

	commoncfg "github.com/sagar-developer08/Api-v2-sub001/common/config"

	"github.com/spf13/viper"
)

// Config marketing admin API configuration.
type Config struct {
	Server           ServerConfig             `mapstructure:"server"`
	Database         commoncfg.DatabaseConfig `mapstructure:"database"`
	Redis            commoncfg.RedisConfig    `mapstructure:"redis"`
	Log              LogConfig                `mapstructure:"log"`
	RateLimiter      RateLimiterConfig        `mapstructure:"rate_limiter"`
	Cache            CacheConfig              `mapstructure:"cache"`
	Audit            AuditConfig              `mapstructure:"audit"`
	CampaignDispatch CampaignDispatchConfig   `mapstructure:"campaign_dispatch"`
	Auth             AuthConfig               `mapstructure:"auth"`
	Metrics          MetricsConfig            `mapstructure:"metrics"`
}

type ServerConfig struct {
	Addr            string        `mapstructure:"addr"`
	BasePath        string        `mapstructure:"base_path"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	IdleTimeout     time.Duration `mapstructure:"idle_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
	AllowedOrigins  []string      `mapstructure:"allowed_origins"`
	// TrustedProxies are IPs or CIDRs allowed to set X-Forwarded-For.
	TrustedProxies  []string      `mapstructure:"trusted_proxies"`
}

type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

// RateLimiterConfig applies to the public lead intake route only.
type RateLimiterConfig struct {
	Enabled           bool    `mapstructure:"enabled"`
	RequestsPerSecond float64 `mapstructure:"requests_per_second"`
	BurstSize         int     `mapstructure:"burst_size"`
}

type CacheConfig struct {
	PageTTL time.Duration `mapstructure:"page_ttl"`
}

type AuditConfig struct {
	Stream string `mapstructure:"stream"`
}

// Dispatch drivers.
const (
	DispatchNone    = "none"
	DispatchWebhook = "webhook"
	DispatchMQTT    = "mqtt"
)

// CampaignDispatchConfig selects where sent campaigns are delivered.
type CampaignDispatchConfig struct {
	Driver         string               `mapstructure:"driver"`
	WebhookURL     string               `mapstructure:"webhook_url"`
	WebhookTimeout time.Duration        `mapstructure:"webhook_timeout"`
	WebhookRetries int                  `mapstructure:"webhook_retries"`
	MQTT           commoncfg.MQTTConfig `mapstructure:"mqtt"`
}

type AuthConfig struct {
	SuperAdminRoles []string `mapstructure:"super_admin_roles"`
}

type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// Load reads defaults, then the optional config file, then environment variables.
// Environment keys use "_" for nesting, e.g. DATABASE_HOST, REDIS_ADDR.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("/etc/marketing-admin/")
	}

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.addr", ":8080")
	v.SetDefault("server.base_path", "/api/v1")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.idle_timeout", "120s")
	v.SetDefault("server.shutdown_timeout", "5s")
	v.SetDefault("server.allowed_origins", []string{"*"})
	v.SetDefault("server.trusted_proxies", []string{})

	// Default to enabled for local dev; startup falls back to memory repos if Postgres is unreachable.
	v.SetDefault("database.enabled", true)
	v.SetDefault("database.host", "localhost")
	v.SetDefault("database.port", 5432)
	v.SetDefault("database.user", "postgres")
	v.SetDefault("database.password", "postgres")
	v.SetDefault("database.name", "marketing")
	v.SetDefault("database.sslmode", "disable")
	v.SetDefault("database.max_conns", 20)
	v.SetDefault("database.max_idle", 5)
	v.SetDefault("database.conn_max_lifetime", "30m")

	v.SetDefault("redis.enabled", true)
	v.SetDefault("redis.addr", "localhost:6379")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)

	v.SetDefault("log.level", "info")
	v.SetDefault("log.format", "json")

	v.SetDefault("rate_limiter.enabled", true)
	v.SetDefault("rate_limiter.requests_per_second", 5.0)
	v.SetDefault("rate_limiter.burst_size", 20)

	v.SetDefault("cache.page_ttl", "10m")

	v.SetDefault("audit.stream", "platform:audit")

	v.SetDefault("campaign_dispatch.driver", DispatchNone)
	v.SetDefault("campaign_dispatch.webhook_url", "")
	v.SetDefault("campaign_dispatch.webhook_timeout", "10s")
	v.SetDefault("campaign_dispatch.webhook_retries", 2)
	v.SetDefault("campaign_dispatch.mqtt.broker", "tcp://localhost:1883")
	v.SetDefault("campaign_dispatch.mqtt.client_id", "marketing-admin")
	v.SetDefault("campaign_dispatch.mqtt.qos", 1)
	v.SetDefault("campaign_dispatch.mqtt.topic_prefix", "marketing/campaigns")

	v.SetDefault("auth.super_admin_roles", []string{"super_admin", "SystemAdmin"})

	v.SetDefault("metrics.enabled", true)
	v.SetDefault("metrics.path", "/metrics")
}

// Validate checks values that would otherwise fail late at runtime.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Server.Addr) == "" {
		return fmt.Errorf("server.addr is required")
	}
	if c.Server.BasePath != "" && !strings.HasPrefix(c.Server.BasePath, "/") {
		return fmt.Errorf("server.base_path must start with '/': %q", c.Server.BasePath)
	}
	for _, p := range c.Server.TrustedProxies {
		if net.ParseIP(p) != nil {
			continue
		}
		if _, _, err := net.ParseCIDR(p); err != nil {
			return fmt.Errorf("server.trusted_proxies: %q is neither an IP nor a CIDR", p)
		}
	}
	if c.Database.Enabled && (c.Database.Port <= 0 || c.Database.Port > 65535) {
		return fmt.Errorf("invalid database port: %d", c.Database.Port)
	}
	if c.RateLimiter.Enabled {
		if c.RateLimiter.RequestsPerSecond <= 0 {
			return fmt.Errorf("rate_limiter.requests_per_second must be positive")
		}
		if c.RateLimiter.BurstSize <= 0 {
			return fmt.Errorf("rate_limiter.burst_size must be positive")
		}
	}
	switch c.CampaignDispatch.Driver {
	case DispatchNone, "":
	case DispatchWebhook:
		if c.CampaignDispatch.WebhookURL == "" {
			return fmt.Errorf("campaign_dispatch.webhook_url is required for the webhook driver")
		}
	case DispatchMQTT:
		if c.CampaignDispatch.MQTT.Broker == "" {
			return fmt.Errorf("campaign_dispatch.mqtt.broker is required for the mqtt driver")
		}
	default:
		return fmt.Errorf("unknown campaign_dispatch.driver %q", c.CampaignDispatch.Driver)
	}
	if len(c.Auth.SuperAdminRoles) == 0 {
		return fmt.Errorf("auth.super_admin_roles must not be empty")
	}
	return nil
}
