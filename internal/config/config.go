package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/harryfittheorem/CKOWebsite/pkg/logger"
	"gopkg.in/yaml.v3"
)

type Config struct {
	Service   ServiceConfig   `yaml:"service"`
	Database  DatabaseConfig  `yaml:"database"`
	Server    ServerConfig    `yaml:"server"`
	Log       logger.Config   `yaml:"log"`
	JWT       JWTConfig       `yaml:"jwt"`
	ClubReady ClubReadyConfig `yaml:"clubready"`
}

func LoadConfig() (*Config, error) {
	configPath := os.Getenv("CONFIG_PATH")
	if configPath == "" {
		configPath = "./configs/payment.yaml"
	}

	// Ensure absolute path
	absPath, err := filepath.Abs(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to get absolute path: %w", err)
	}

	// Read config file
	data, err := os.ReadFile(absPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Parse YAML
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func (c *Config) applyDefaults() {
	if c.Service.Name == "" {
		c.Service.Name = "checkout"
	}
	if c.ClubReady.ConfigSource == "" {
		c.ClubReady.ConfigSource = ConfigSourceDatabase
	}
	if c.ClubReady.Timeout <= 0 {
		c.ClubReady.Timeout = DefaultClubReadyTimeout
	}
	if c.JWT.AdminRole == "" {
		c.JWT.AdminRole = "admin"
	}
	if c.Server.HTTP.ReadTimeout <= 0 {
		c.Server.HTTP.ReadTimeout = DefaultHTTPReadTimeout
	}
	if c.Server.HTTP.WriteTimeout <= 0 {
		c.Server.HTTP.WriteTimeout = DefaultHTTPWriteTimeout
	}
	if c.Server.GRPC.HealthCheckInterval <= 0 {
		c.Server.GRPC.HealthCheckInterval = DefaultHealthCheckInterval
	}
	if c.Server.ShutdownTimeout <= 0 {
		c.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.Database.SlowQueryThreshold <= 0 {
		c.Database.SlowQueryThreshold = DefaultSlowQueryThreshold
	}
}

func (c *Config) validate() error {
	switch c.ClubReady.ConfigSource {
	case ConfigSourceDatabase, ConfigSourceEnv:
	default:
		return fmt.Errorf("invalid clubready.config_source %q: must be %q or %q",
			c.ClubReady.ConfigSource, ConfigSourceDatabase, ConfigSourceEnv)
	}
	if c.Server.HTTP.WriteTimeout <= c.ClubReady.Timeout {
		return fmt.Errorf("server.http.write_timeout (%s) must exceed clubready.timeout (%s)",
			c.Server.HTTP.WriteTimeout, c.ClubReady.Timeout)
	}
	return nil
}
