// Package config provides key/value access to settings held outside the
// service YAML, such as process environment variables.
package config

import (
	"strings"

	"github.com/spf13/viper"
)

// Config gives read access to settings by key
type Config interface {
	GetString(key string) string
	GetInt(key string) int
	GetBool(key string) bool
	IsSet(key string) bool
}

type viperConfig struct {
	v *viper.Viper
}

func (c *viperConfig) GetString(key string) string {
	return c.v.GetString(key)
}

func (c *viperConfig) GetInt(key string) int {
	return c.v.GetInt(key)
}

func (c *viperConfig) GetBool(key string) bool {
	return c.v.GetBool(key)
}

func (c *viperConfig) IsSet(key string) bool {
	return c.v.IsSet(key)
}

// FromEnv returns a Config reading environment variables named
// PREFIX_KEY. Dotted keys map to underscores, so "api.key" with prefix
// "clubready" reads CLUBREADY_API_KEY.
func FromEnv(prefix string, keys ...string) Config {
	v := viper.New()
	v.SetEnvPrefix(strings.ToUpper(prefix))
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// IsSet only sees AutomaticEnv keys that were bound explicitly
	for _, key := range keys {
		_ = v.BindEnv(key)
	}

	return &viperConfig{v: v}
}
