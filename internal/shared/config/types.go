package config

import "fmt"

// ServerConfig describes the plaintext HTTP listener the proxy binds.
type ServerConfig struct {
	Host string `mapstructure:"host"`
	Port int    `mapstructure:"port"`
	Mode string `mapstructure:"mode"`
}

func (s *ServerConfig) GetAddr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// UpstreamConfig describes the Trino-compatible cluster this proxy sits in
// front of. Authority is read once at process start (STARPROXY_UPSTREAM_URL).
type UpstreamConfig struct {
	Authority string `mapstructure:"authority"`
	Port      int    `mapstructure:"port"`
}

// LoggerConfig controls the zap-backed structured logger.
type LoggerConfig struct {
	Level      string `mapstructure:"level"`
	Format     string `mapstructure:"format"`
	OutputPath string `mapstructure:"output_path"`
}

// RulesConfig locates the on-disk rule set and pins the SQL dialect used
// to parse inbound query text.
type RulesConfig struct {
	ConfigPath string `mapstructure:"config_path"`
	SQLDialect string `mapstructure:"sql_dialect" json:"sql_dialect" validate:"oneof=mysql"`
}

// LimitsConfig bounds resources the proxy is willing to spend per request.
type LimitsConfig struct {
	MaxBodyBytes   int64 `mapstructure:"max_body_bytes"`
	RequestTimeout int   `mapstructure:"request_timeout_seconds"`
	ExplainTimeout int   `mapstructure:"explain_timeout_seconds"`
}
