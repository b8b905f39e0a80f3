package config

import (
	"errors"
	"fmt"
	"time"

	wbfconfig "github.com/wb-go/wbf/config"
)

const (
	EnvPrefix   = "EVENTDESK"
	DefaultPath = "config.yaml"
)

type Config struct {
	App     AppConfig     `mapstructure:"app"`
	Server  ServerConfig  `mapstructure:"server"`
	Gateway GatewayConfig `mapstructure:"gateway"`
	Legacy  LegacyConfig  `mapstructure:"legacy"`
	Rabbit  RabbitConfig  `mapstructure:"rabbit"`
	Mail    MailConfig    `mapstructure:"mail"`
	Console ConsoleConfig `mapstructure:"console"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Environment string `mapstructure:"environment"`
	LogLevel    string `mapstructure:"log_level"`
}

type ServerConfig struct {
	Host            string        `mapstructure:"host"`
	Port            int           `mapstructure:"port"`
	Mode            string        `mapstructure:"mode"`
	ReadTimeout     time.Duration `mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `mapstructure:"shutdown_timeout"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

type GatewayConfig struct {
	BaseURL           string        `mapstructure:"base_url"`
	Timeout           time.Duration `mapstructure:"timeout"`
	SessionCookie     string        `mapstructure:"session_cookie"`
	CSRFToken         string        `mapstructure:"csrf_token"`
	CSRFPage          string        `mapstructure:"csrf_page"`
	SniffLegacyErrors bool          `mapstructure:"sniff_legacy_errors"`
}

type LegacyConfig struct {
	Enabled  bool           `mapstructure:"enabled"`
	Backend  string         `mapstructure:"backend"`
	Fallback bool           `mapstructure:"fallback"`
	Seed     bool           `mapstructure:"seed"`
	Redis    RedisConfig    `mapstructure:"redis"`
	Postgres PostgresConfig `mapstructure:"postgres"`
}

type RedisConfig struct {
	URL    string `mapstructure:"url"`
	Prefix string `mapstructure:"prefix"`
}

type PostgresConfig struct {
	MasterDSN       string        `mapstructure:"master_dsn"`
	SlaveDSNs       []string      `mapstructure:"slave_dsns"`
	MaxOpenConns    int           `mapstructure:"max_open_conns"`
	MaxIdleConns    int           `mapstructure:"max_idle_conns"`
	ConnMaxLifetime time.Duration `mapstructure:"conn_max_lifetime"`
	MigrationsDir   string        `mapstructure:"migrations_dir"`
	MigrateDown     bool          `mapstructure:"migrate_down"`
}

type RabbitConfig struct {
	URL      string `mapstructure:"url"`
	Exchange string `mapstructure:"exchange"`
	Queue    string `mapstructure:"queue"`
}

type MailConfig struct {
	Enabled  bool   `mapstructure:"enabled"`
	Host     string `mapstructure:"host"`
	Port     int    `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
	From     string `mapstructure:"from"`
}

type ConsoleConfig struct {
	CSRFKey      string `mapstructure:"csrf_key"`
	SecureCookie bool   `mapstructure:"secure_cookie"`
	RecentLimit  int    `mapstructure:"recent_limit"`
	Scanner      string `mapstructure:"scanner"`
}

// Loader owns the flag set and the layered config behind it. Flags are
// bound to config keys, so --migrate-down lands in
// legacy.postgres.migrate_down like any other setting.
type Loader struct {
	c *wbfconfig.Config
}

func NewLoader() *Loader {
	c := wbfconfig.New()
	setDefaults(c)
	return &Loader{c: c}
}

// DefineFlags registers the command line flags on pflag.CommandLine.
// Call it once per process, before ParseFlags.
func (l *Loader) DefineFlags() error {
	if err := l.c.DefineFlag("c", "config", "config_path", DefaultPath, "path to the config file"); err != nil {
		return err
	}
	return l.c.DefineFlag("", "migrate-down", "legacy.postgres.migrate_down", false,
		"roll back the legacy postgres migrations and exit")
}

func (l *Loader) ParseFlags() {
	l.c.ParseFlags()
}

func (l *Loader) ConfigPath() string {
	if p := l.c.GetString("config_path"); p != "" {
		return p
	}
	return DefaultPath
}

// Load reads the yaml file at path and applies EVENTDESK_* environment
// overrides and bound flags on top of the defaults. The file must exist.
func (l *Loader) Load(path string) (*Config, error) {
	if err := l.c.Load(path, "", EnvPrefix); err != nil {
		return nil, err
	}

	cfg := &Config{}
	if err := l.c.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to bind config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}
	return cfg, nil
}

// Load is NewLoader().Load(path) for callers that take no flags.
func Load(path string) (*Config, error) {
	return NewLoader().Load(path)
}

func setDefaults(v *wbfconfig.Config) {
	v.SetDefault("app.name", "eventdesk")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.log_level", "info")

	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", 8090)
	v.SetDefault("server.mode", "release")
	v.SetDefault("server.read_timeout", "15s")
	v.SetDefault("server.write_timeout", "30s")
	v.SetDefault("server.shutdown_timeout", "10s")

	v.SetDefault("gateway.base_url", "http://localhost:8000")
	v.SetDefault("gateway.timeout", "10s")
	v.SetDefault("gateway.session_cookie", "")
	v.SetDefault("gateway.csrf_token", "")
	v.SetDefault("gateway.csrf_page", "")
	v.SetDefault("gateway.sniff_legacy_errors", false)

	v.SetDefault("legacy.enabled", false)
	v.SetDefault("legacy.backend", "redis")
	v.SetDefault("legacy.fallback", false)
	v.SetDefault("legacy.seed", true)
	v.SetDefault("legacy.redis.url", "redis://localhost:6379/0")
	v.SetDefault("legacy.redis.prefix", "eventdesk:")
	v.SetDefault("legacy.postgres.master_dsn", "")
	v.SetDefault("legacy.postgres.slave_dsns", []string{})
	v.SetDefault("legacy.postgres.max_open_conns", 10)
	v.SetDefault("legacy.postgres.max_idle_conns", 5)
	v.SetDefault("legacy.postgres.conn_max_lifetime", "5m")
	v.SetDefault("legacy.postgres.migrations_dir", "migrations/postgres")
	v.SetDefault("legacy.postgres.migrate_down", false)

	v.SetDefault("rabbit.url", "")
	v.SetDefault("rabbit.exchange", "eventdesk.changes")
	v.SetDefault("rabbit.queue", "")

	v.SetDefault("mail.enabled", false)
	v.SetDefault("mail.host", "smtp.gmail.com")
	v.SetDefault("mail.port", 587)
	v.SetDefault("mail.username", "")
	v.SetDefault("mail.password", "")
	v.SetDefault("mail.from", "")

	v.SetDefault("console.csrf_key", "")
	v.SetDefault("console.secure_cookie", false)
	v.SetDefault("console.recent_limit", 5)
	v.SetDefault("console.scanner", "remote")
}

func (c *Config) Validate() error {
	if c.Gateway.BaseURL == "" {
		return errors.New("gateway.base_url is required")
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port %d is out of range", c.Server.Port)
	}
	if c.Legacy.Enabled {
		switch c.Legacy.Backend {
		case "redis":
			if c.Legacy.Redis.URL == "" {
				return errors.New("legacy.redis.url is required for the redis backend")
			}
		case "postgres":
			if c.Legacy.Postgres.MasterDSN == "" {
				return errors.New("legacy.postgres.master_dsn is required for the postgres backend")
			}
		default:
			return fmt.Errorf("legacy.backend %q is not one of redis, postgres", c.Legacy.Backend)
		}
	}
	if c.Legacy.Fallback && !c.Legacy.Enabled {
		return errors.New("legacy.fallback needs legacy.enabled")
	}
	if c.Mail.Enabled && (c.Mail.Host == "" || c.Mail.From == "") {
		return errors.New("mail.host and mail.from are required when mail is enabled")
	}
	if c.Console.RecentLimit < 0 {
		return errors.New("console.recent_limit must not be negative")
	}
	if k := c.Console.CSRFKey; k != "" && k != "random" && len(k) != 32 {
		return errors.New(`console.csrf_key must be 32 bytes or "random"`)
	}
	switch c.Console.Scanner {
	case "remote", "stdin":
	default:
		return fmt.Errorf("console.scanner %q is not one of remote, stdin", c.Console.Scanner)
	}
	return nil
}
