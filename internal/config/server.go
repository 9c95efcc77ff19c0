package config

import "time"

// Server defaults applied when the YAML leaves a field unset
const (
	DefaultHTTPReadTimeout     = 15 * time.Second
	DefaultHTTPWriteTimeout    = 60 * time.Second
	DefaultHealthCheckInterval = 15 * time.Second
	DefaultShutdownTimeout     = 30 * time.Second
)

type ServerConfig struct {
	HTTP HTTPConfig `yaml:"http"`
	GRPC GRPCConfig `yaml:"grpc"`
	// ShutdownTimeout bounds how long in-flight charges may run after a
	// termination signal
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

type HTTPConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// WriteTimeout must exceed clubready.timeout or a slow charge is cut
	// off before its response is written
	ReadTimeout  time.Duration `yaml:"read_timeout"`
	WriteTimeout time.Duration `yaml:"write_timeout"`
}

type GRPCConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
	// HealthCheckInterval is how often the database is pinged for the
	// grpc.health.v1 status
	HealthCheckInterval time.Duration `yaml:"health_check_interval"`
}
