package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes environment overrides, e.g. APP_SERVER_PORT
const EnvPrefix = "APP"

// Config holds all configuration for the application
type Config struct {
	Server   ServerConfig   `yaml:"server" envconfig:"server"`
	Database DatabaseConfig `yaml:"database" envconfig:"database"`
	Auth     AuthConfig     `yaml:"auth" envconfig:"auth"`
	AWS      AWSConfig      `yaml:"aws" envconfig:"aws"`
	Events   EventsConfig   `yaml:"events" envconfig:"events"`
	Tracing  TracingConfig  `yaml:"tracing" envconfig:"tracing"`
	Log      LogConfig      `yaml:"log" envconfig:"log"`
}

// ServerConfig holds server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" envconfig:"port"`
	Host            string        `yaml:"host" envconfig:"host"`
	ReadTimeout     time.Duration `yaml:"read_timeout" envconfig:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" envconfig:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" envconfig:"shutdown_timeout"`
}

// DatabaseConfig holds database configuration. URL wins over the discrete fields.
type DatabaseConfig struct {
	URL      string `yaml:"url" envconfig:"url"`
	Host     string `yaml:"host" envconfig:"host"`
	Port     int    `yaml:"port" envconfig:"port"`
	User     string `yaml:"user" envconfig:"user"`
	Password string `yaml:"password" envconfig:"password"`
	DBName   string `yaml:"dbname" envconfig:"dbname"`
	SSLMode  string `yaml:"sslmode" envconfig:"sslmode"`
	MaxConns int32  `yaml:"max_conns" envconfig:"max_conns"`
}

// AuthConfig holds token configuration
type AuthConfig struct {
	JWTSecret   string        `yaml:"jwt_secret" envconfig:"jwt_secret"`
	TokenTTL    time.Duration `yaml:"token_ttl" envconfig:"token_ttl"`
	AllowSignup bool          `yaml:"allow_signup" envconfig:"allow_signup"`
}

// AWSConfig holds object storage configuration; uploads are off without a bucket
type AWSConfig struct {
	Region       string        `yaml:"region" envconfig:"region"`
	S3Bucket     string        `yaml:"s3_bucket" envconfig:"s3_bucket"`
	AccessKey    string        `yaml:"access_key" envconfig:"access_key"`
	SecretKey    string        `yaml:"secret_key" envconfig:"secret_key"`
	Endpoint     string        `yaml:"endpoint" envconfig:"endpoint"`
	PublicURL    string        `yaml:"public_url" envconfig:"public_url"`
	UploadExpiry time.Duration `yaml:"upload_expiry" envconfig:"upload_expiry"`
}

// EventsConfig enables the AMQP publisher when AMQPURL is set
type EventsConfig struct {
	AMQPURL  string `yaml:"amqp_url" envconfig:"amqp_url"`
	Exchange string `yaml:"exchange" envconfig:"exchange"`
}

// TracingConfig enables OTLP export when Endpoint is set
type TracingConfig struct {
	Endpoint    string `yaml:"endpoint" envconfig:"endpoint"`
	ServiceName string `yaml:"service_name" envconfig:"service_name"`
	Environment string `yaml:"environment" envconfig:"environment"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `yaml:"level" envconfig:"level"`
	Format string `yaml:"format" envconfig:"format"`
}

// Default returns the configuration used when nothing overrides it
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    15 * time.Second,
			ShutdownTimeout: 15 * time.Second,
		},
		Database: DatabaseConfig{
			Host:     "localhost",
			Port:     5432,
			SSLMode:  "disable",
			MaxConns: 10,
		},
		Auth: AuthConfig{TokenTTL: 30 * 24 * time.Hour},
		AWS: AWSConfig{
			Region:       "us-east-1",
			UploadExpiry: 5 * time.Minute,
		},
		Events:  EventsConfig{Exchange: "couple-journal.events"},
		Tracing: TracingConfig{ServiceName: "couple-journal-backend", Environment: "development"},
		Log:     LogConfig{Level: "info", Format: "console"},
	}
}

// Load builds the configuration: defaults, then .env, then the YAML file at
// path (optional), then APP_* environment variables.
func Load(path string) (*Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg := Default()

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	if err := envconfig.Process(EnvPrefix, cfg); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate reports every missing or invalid setting at once
func (c *Config) Validate() error {
	var errs []error
	if c.Auth.JWTSecret == "" {
		errs = append(errs, errors.New("auth.jwt_secret is required"))
	}
	if c.Auth.TokenTTL <= 0 {
		errs = append(errs, errors.New("auth.token_ttl must be positive"))
	}
	if c.Database.URL == "" && (c.Database.Host == "" || c.Database.DBName == "") {
		errs = append(errs, errors.New("database.url or database.host and database.dbname are required"))
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		errs = append(errs, fmt.Errorf("server.port %d is out of range", c.Server.Port))
	}
	switch c.Log.Format {
	case "console", "json":
	default:
		errs = append(errs, fmt.Errorf("log.format %q must be console or json", c.Log.Format))
	}
	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Addr is the listen address
func (c *ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", c.Host, c.Port)
}

// DSN returns the PostgreSQL connection string
func (c *DatabaseConfig) DSN() string {
	if c.URL != "" {
		return c.URL
	}
	return fmt.Sprintf("host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.Host, c.Port, c.User, c.Password, c.DBName, c.SSLMode)
}
