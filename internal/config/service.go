package config

import "time"

type ServiceConfig struct {
	Name        string `yaml:"name"`
	Environment string `yaml:"environment"`
	Version     string `yaml:"version"`
}

type JWTConfig struct {
	Secret string `yaml:"secret"`
	// AdminRole is the role claim required on the admin routes
	AdminRole string `yaml:"admin_role"`
}

// Where ClubReady credentials are read from
const (
	ConfigSourceDatabase = "database"
	ConfigSourceEnv      = "env"
)

// DefaultClubReadyTimeout bounds a single ClubReady call
const DefaultClubReadyTimeout = 20 * time.Second

type ClubReadyConfig struct {
	// ConfigSource is "database" (the clubready_config row) or "env"
	// (CLUBREADY_* environment variables)
	ConfigSource string        `yaml:"config_source"`
	Timeout      time.Duration `yaml:"timeout"`
	// PackagesFile is the YAML file read by sync-packages
	PackagesFile string `yaml:"packages_file"`
}
