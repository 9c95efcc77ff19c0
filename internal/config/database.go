package config

import (
	"fmt"
	"strings"
	"time"
)

// DefaultSlowQueryThreshold is the GORM slow-query warning threshold
const DefaultSlowQueryThreshold = 200 * time.Millisecond

// DatabaseConfig holds the PostgreSQL connection settings. Prospects,
// packages, transactions, payment_logs and clubready_config all live in
// this database.
type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	Name     string `yaml:"name"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	SSLMode  string `yaml:"sslmode"`
	// ConnectTimeout is passed to libpq as connect_timeout, in seconds
	ConnectTimeout int `yaml:"connect_timeout"`

	MaxOpenConns    int           `yaml:"max_open_conns"`
	MaxIdleConns    int           `yaml:"max_idle_conns"`
	ConnMaxLifetime time.Duration `yaml:"conn_max_lifetime"`
	ConnMaxIdleTime time.Duration `yaml:"conn_max_idle_time"`

	// LogQueries logs every SQL statement at debug level
	LogQueries         bool          `yaml:"log_queries"`
	SlowQueryThreshold time.Duration `yaml:"slow_query_threshold"`
	// AutoMigrate runs schema migrations on startup
	AutoMigrate bool `yaml:"auto_migrate"`
}

// DSN returns the libpq key/value connection string. Optional settings
// are appended only when set.
func (c *DatabaseConfig) DSN() string {
	parts := []string{
		fmt.Sprintf("host=%s", c.Host),
		fmt.Sprintf("port=%d", c.Port),
		fmt.Sprintf("user=%s", c.User),
		fmt.Sprintf("password=%s", c.Password),
		fmt.Sprintf("dbname=%s", c.Name),
	}
	if c.SSLMode != "" {
		parts = append(parts, "sslmode="+c.SSLMode)
	}
	if c.ConnectTimeout > 0 {
		parts = append(parts, fmt.Sprintf("connect_timeout=%d", c.ConnectTimeout))
	}
	return strings.Join(parts, " ")
}
