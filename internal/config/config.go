package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix for environment overrides, e.g. SIGGEN_SERVER_ADDR.
const EnvPrefix = "SIGGEN"

// AppConfig holds application-level settings.
type AppConfig struct {
	LogLevel  string `mapstructure:"log_level"`
	LogFormat string `mapstructure:"log_format"` // json or console
}

// ServerConfig controls the HTTP listener.
type ServerConfig struct {
	Addr              string        `mapstructure:"addr"`
	ShutdownGrace     time.Duration `mapstructure:"shutdown_grace"`
	ReadHeaderTimeout time.Duration `mapstructure:"read_header_timeout"`
}

// SessionConfig controls where in-progress records are kept.
type SessionConfig struct {
	Backend      string        `mapstructure:"backend"` // memory or redis
	TTL          time.Duration `mapstructure:"ttl"`
	CookieName   string        `mapstructure:"cookie_name"`
	CookieSecure bool          `mapstructure:"cookie_secure"`
}

// RedisConfig holds redis connection settings.
type RedisConfig struct {
	Addr      string `mapstructure:"addr"`
	Username  string `mapstructure:"username"`
	Password  string `mapstructure:"password"`
	DB        int    `mapstructure:"db"`
	KeyPrefix string `mapstructure:"key_prefix"`
}

// LogoConfig points at the image embedded in exported signatures.
type LogoConfig struct {
	Path  string `mapstructure:"path"`  // empty keeps the placeholder
	Width int    `mapstructure:"width"` // pixels
}

// RenderConfig controls markup output.
type RenderConfig struct {
	Markup string `mapstructure:"markup"` // escape or sanitize
}

// ClipboardConfig controls copy behaviour of the service.
type ClipboardConfig struct {
	// ServerSide makes the copy button write the host clipboard through the
	// service instead of the browser clipboard.
	ServerSide bool `mapstructure:"server_side"`
}

// Config is the top-level configuration structure.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	Server    ServerConfig    `mapstructure:"server"`
	Session   SessionConfig   `mapstructure:"session"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logo      LogoConfig      `mapstructure:"logo"`
	Render    RenderConfig    `mapstructure:"render"`
	Clipboard ClipboardConfig `mapstructure:"clipboard"`
}

// FillDefaults applies default values if not provided.
func (c *Config) FillDefaults() {
	if c.App.LogLevel == "" {
		c.App.LogLevel = "info"
	}
	if c.App.LogFormat == "" {
		c.App.LogFormat = "console"
	}
	if c.Server.Addr == "" {
		c.Server.Addr = ":8080"
	}
	if c.Server.ShutdownGrace <= 0 {
		c.Server.ShutdownGrace = 10 * time.Second
	}
	if c.Server.ReadHeaderTimeout <= 0 {
		c.Server.ReadHeaderTimeout = 5 * time.Second
	}
	if c.Session.Backend == "" {
		c.Session.Backend = "memory"
	}
	if c.Session.TTL <= 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Session.CookieName == "" {
		c.Session.CookieName = "siggen_session"
	}
	if c.Redis.Addr == "" {
		c.Redis.Addr = "127.0.0.1:6379"
	}
	if c.Redis.KeyPrefix == "" {
		c.Redis.KeyPrefix = "siggen:session:"
	}
	if c.Logo.Width <= 0 {
		c.Logo.Width = 120
	}
	if c.Render.Markup == "" {
		c.Render.Markup = "escape"
	}
}

// Validate reports settings that cannot be used.
func (c Config) Validate() error {
	switch strings.ToLower(c.Session.Backend) {
	case "memory", "redis":
	default:
		return fmt.Errorf("config: unknown session backend %q", c.Session.Backend)
	}
	switch strings.ToLower(c.Render.Markup) {
	case "escape", "sanitize":
	default:
		return fmt.Errorf("config: unknown markup mode %q", c.Render.Markup)
	}
	switch strings.ToLower(c.App.LogFormat) {
	case "json", "console":
	default:
		return fmt.Errorf("config: unknown log format %q", c.App.LogFormat)
	}
	return nil
}

// New prepares a viper instance that reads siggen.yaml from the usual places,
// or file when set, plus SIGGEN_* environment variables.
func New(file string) *viper.Viper {
	v := viper.New()
	if file != "" {
		v.SetConfigFile(file)
	} else {
		v.SetConfigName("siggen")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		v.AddConfigPath("configs")
		v.AddConfigPath("$HOME/.config/siggen")
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	bindEnvKeys(v)
	return v
}

// Load reads configuration through v. A missing config file is not an error.
// It returns the file used, if any.
func Load(v *viper.Viper) (Config, string, error) {
	var cfg Config
	used := ""
	if err := v.ReadInConfig(); err != nil {
		var nf viper.ConfigFileNotFoundError
		if !errors.As(err, &nf) {
			return cfg, "", fmt.Errorf("config: read: %w", err)
		}
	} else {
		used = v.ConfigFileUsed()
	}

	if err := v.Unmarshal(&cfg); err != nil {
		return cfg, used, fmt.Errorf("config: parse: %w", err)
	}
	cfg.FillDefaults()
	if err := cfg.Validate(); err != nil {
		return cfg, used, err
	}
	return cfg, used, nil
}

// AutomaticEnv only applies to keys viper already knows about, so every key
// is bound explicitly for Unmarshal to see env-only settings.
func bindEnvKeys(v *viper.Viper) {
	keys := []string{
		"app.log_level", "app.log_format",
		"server.addr", "server.shutdown_grace", "server.read_header_timeout",
		"session.backend", "session.ttl", "session.cookie_name", "session.cookie_secure",
		"redis.addr", "redis.username", "redis.password", "redis.db", "redis.key_prefix",
		"logo.path", "logo.width",
		"render.markup",
		"clipboard.server_side",
	}
	for _, key := range keys {
		_ = v.BindEnv(key)
	}
}
