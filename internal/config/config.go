package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config defines server configuration.
type Config struct {
	Server    ServerConfig    `yaml:"server"`
	DB        DBConfig        `yaml:"db"`
	Log       LogConfig       `yaml:"log"`
	Metrics   MetricsConfig   `yaml:"metrics"`
	MCP       MCPConfig       `yaml:"mcp"`
	Responses ResponsesConfig `yaml:"responses"`
}

type ServerConfig struct {
	Host         string        `yaml:"host"`
	Port         int           `yaml:"port"`
	TrustProxy   bool          `yaml:"trust_proxy"`
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

// Addr returns host:port for the listener.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DBConfig selects the store. URL is sqlite://<path>, file:..., a bare
// path, or postgres://...; Driver is "gorm" or "sql".
type DBConfig struct {
	URL    string `yaml:"url"`
	Driver string `yaml:"driver"`
}

type LogConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Path   string `yaml:"path"`
}

type MetricsConfig struct {
	Enabled bool `yaml:"enabled"`
}

type MCPConfig struct {
	Enabled bool `yaml:"enabled"`
}

// ResponsesConfig guards response creation over HTTP. An empty token leaves it open.
type ResponsesConfig struct {
	Token string `yaml:"token"`
}

const (
	DriverGorm = "gorm"
	DriverSQL  = "sql"
)

// Default returns the configuration used when nothing overrides it.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:         "0.0.0.0",
			Port:         8080,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
		},
		DB: DBConfig{
			URL:    "sqlite://pnaas.db",
			Driver: DriverGorm,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Metrics: MetricsConfig{Enabled: true},
		MCP:     MCPConfig{Enabled: true},
	}
}

// Load reads configuration from an optional .env file, an optional YAML
// file and environment variables, in that order of precedence (lowest first).
// path overrides PNAAS_CONFIG_PATH when non-empty.
func Load(path string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("load .env: %w", err)
	}

	cfg := Default()

	if path == "" {
		path = os.Getenv("PNAAS_CONFIG_PATH")
	}
	if path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if err := applyEnv(&cfg); err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}

	return cfg, nil
}

// Validate checks values that cannot be corrected silently.
func (c Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port %d", c.Server.Port)
	}
	if c.DB.URL == "" {
		return errors.New("db url is required")
	}
	switch c.DB.Driver {
	case DriverGorm, DriverSQL:
	default:
		return fmt.Errorf("invalid db driver %q", c.DB.Driver)
	}
	switch c.Log.Format {
	case "text", "json", "pretty":
	default:
		return fmt.Errorf("invalid log format %q", c.Log.Format)
	}
	return nil
}

func applyEnv(cfg *Config) error {
	if host := os.Getenv("PNAAS_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("PNAAS_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return fmt.Errorf("invalid PNAAS_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if trust := os.Getenv("PNAAS_SERVER_TRUST_PROXY"); trust != "" {
		v, err := strconv.ParseBool(trust)
		if err != nil {
			return fmt.Errorf("invalid PNAAS_SERVER_TRUST_PROXY: %w", err)
		}
		cfg.Server.TrustProxy = v
	}
	if dbURL := os.Getenv("DATABASE_URL"); dbURL != "" {
		cfg.DB.URL = dbURL
	}
	if dbURL := os.Getenv("PNAAS_DB_URL"); dbURL != "" {
		cfg.DB.URL = dbURL
	}
	if driver := os.Getenv("PNAAS_DB_DRIVER"); driver != "" {
		cfg.DB.Driver = driver
	}
	if level := os.Getenv("PNAAS_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}
	if format := os.Getenv("PNAAS_LOG_FORMAT"); format != "" {
		cfg.Log.Format = format
	}
	if logPath := os.Getenv("PNAAS_LOG_PATH"); logPath != "" {
		cfg.Log.Path = logPath
	}
	if token := os.Getenv("PNAAS_RESPONSES_TOKEN"); token != "" {
		cfg.Responses.Token = token
	}
	return nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
