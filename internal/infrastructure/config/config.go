// Package config loads starproxy's process configuration from environment
// variables (and, optionally, a config file) via viper.
package config

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spf13/viper"

	sharedConfig "starproxy/internal/shared/config"
	"starproxy/internal/shared/utils"
)

// Config is the root configuration tree for the proxy process.
type Config struct {
	Server   sharedConfig.ServerConfig   `mapstructure:"server"`
	Upstream sharedConfig.UpstreamConfig `mapstructure:"upstream"`
	Logger   sharedConfig.LoggerConfig   `mapstructure:"logger"`
	Rules    sharedConfig.RulesConfig    `mapstructure:"rules"`
	Limits   sharedConfig.LimitsConfig   `mapstructure:"limits"`
}

var (
	appConfig   *Config
	appConfigMu sync.RWMutex
)

// Load reads configuration from an optional file plus the STARPROXY_*
// environment, applying defaults for anything left unset. When no path is
// given, finding no config file in the search paths is not an error — env
// vars and defaults alone are a valid configuration. An explicitly given
// path that cannot be read is an error.
func Load(configPath ...string) (*Config, error) {
	viper.SetConfigName("starproxy")
	viper.SetConfigType("yaml")

	if len(configPath) > 0 && configPath[0] != "" {
		viper.SetConfigFile(configPath[0])
	} else {
		viper.AddConfigPath(".")
		viper.AddConfigPath("/etc/starproxy")
	}

	viper.SetEnvPrefix("STARPROXY")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	setDefaults()

	if err := viper.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	// STARPROXY_UPSTREAM_URL and STARPROXY_CONFIG_PATH are bound explicitly
	// since their names don't line up with the nested mapstructure keys
	// AutomaticEnv would otherwise derive (STARPROXY_UPSTREAM_AUTHORITY /
	// STARPROXY_RULES_CONFIG_PATH).
	if err := viper.BindEnv("upstream.authority", "STARPROXY_UPSTREAM_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind STARPROXY_UPSTREAM_URL: %w", err)
	}
	if err := viper.BindEnv("rules.config_path", "STARPROXY_CONFIG_PATH"); err != nil {
		return nil, fmt.Errorf("failed to bind STARPROXY_CONFIG_PATH: %w", err)
	}

	var cfg Config
	if err := viper.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := utils.ValidateStruct(cfg.Rules); err != nil {
		return nil, fmt.Errorf("invalid rules config: %w", err)
	}

	appConfigMu.Lock()
	appConfig = &cfg
	appConfigMu.Unlock()

	return &cfg, nil
}

// Get returns the most recently loaded configuration, or nil if Load has
// not run yet.
func Get() *Config {
	appConfigMu.RLock()
	defer appConfigMu.RUnlock()
	return appConfig
}

func setDefaults() {
	viper.SetDefault("server.host", "0.0.0.0")
	viper.SetDefault("server.port", 3000)
	viper.SetDefault("server.mode", "release")

	viper.SetDefault("upstream.authority", "trino")
	viper.SetDefault("upstream.port", 443)

	viper.SetDefault("logger.level", "info")
	viper.SetDefault("logger.format", "console")
	viper.SetDefault("logger.output_path", "stdout")

	viper.SetDefault("rules.config_path", "/etc/starproxy/config.json")
	viper.SetDefault("rules.sql_dialect", "mysql")

	viper.SetDefault("limits.max_body_bytes", 10<<20) // 10 MiB
	viper.SetDefault("limits.request_timeout_seconds", 30)
	viper.SetDefault("limits.explain_timeout_seconds", 30)
}
