// Package config loads the process-wide Apstra controller configuration.
//
// The configuration is read once at startup and passed by value into the
// components that need it; nothing in the server reads it through globals
// or mutates it afterwards.
package config

import (
	"errors"
	"fmt"
	"io/fs"

	"github.com/spf13/viper"
)

// Transport selects how the MCP server is reachable.
type Transport string

const (
	// TransportStdio serves a single local client over stdin/stdout and
	// authenticates with the static configuration.
	TransportStdio Transport = "stdio"
	// TransportHTTP serves remote clients over streamable HTTP with
	// session-based authentication.
	TransportHTTP Transport = "http"
)

// Config holds the static controller identity used by the stdio transport
// and as the last-resort fallback for the HTTP transport.
type Config struct {
	Server   string `mapstructure:"server"`
	Port     string `mapstructure:"port"`
	Username string `mapstructure:"username"`
	Password string `mapstructure:"password"`
}

// HasCredentials reports whether the config carries a usable identity.
func (c Config) HasCredentials() bool {
	return c.Server != "" && c.Username != "" && c.Password != ""
}

// Load reads the configuration from the given JSON file. Values can be
// overridden with APSTRA_SERVER, APSTRA_PORT, APSTRA_USERNAME and
// APSTRA_PASSWORD environment variables. A missing file is not an error
// as long as the environment supplies the required keys.
func Load(path string) (Config, error) {
	v := viper.New()
	v.SetConfigFile(path)
	v.SetConfigType("json")

	v.SetEnvPrefix("APSTRA")
	v.AutomaticEnv()
	for _, key := range []string{"server", "port", "username", "password"} {
		if err := v.BindEnv(key); err != nil {
			return Config{}, fmt.Errorf("binding env for %q: %w", key, err)
		}
	}

	v.SetDefault("port", "443")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) && !errors.Is(err, fs.ErrNotExist) {
			return Config{}, fmt.Errorf("reading config file %s: %w", path, err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing config file %s: %w", path, err)
	}

	return cfg, nil
}
