package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	defaultPort            = 6379
	defaultDurationSeconds = 180
)

type AppConfig struct {
	host     string
	port     int
	duration time.Duration
	// debug or release
	mode string
}

type StatusConfig struct {
	// empty disables the status server
	addr         string
	pprofEnabled bool
}

type Config struct {
	app    AppConfig
	status StatusConfig
}

func (c *Config) addr() string {
	return fmt.Sprintf("%s:%d", c.app.host, c.app.port)
}

// loadConfig merges, in increasing precedence: defaults, an optional
// soak.{yaml,json,toml} in the working directory, POMAI_SOAK_* environment
// variables and the --port/--duration flags.
func loadConfig(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("pomai-soak", pflag.ContinueOnError)
	fs.Int("port", defaultPort, "cache server port")
	fs.Int("duration", defaultDurationSeconds, "run duration in seconds")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetConfigName("soak")
	v.AddConfigPath(".")
	v.SetEnvPrefix("POMAI_SOAK")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("host", "127.0.0.1")
	v.SetDefault("log.mode", "release")
	v.SetDefault("status.addr", "")
	v.SetDefault("status.pprof_enabled", false)

	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var c Config

	// app
	c.app.host = v.GetString("host")
	c.app.port = v.GetInt("port")
	c.app.duration = time.Duration(v.GetInt("duration")) * time.Second
	c.app.mode = v.GetString("log.mode")

	// status
	c.status.addr = v.GetString("status.addr")
	c.status.pprofEnabled = v.GetBool("status.pprof_enabled")

	if err := c.validate(); err != nil {
		return nil, err
	}

	return &c, nil
}

func (c *Config) validate() error {
	if c.app.host == "" {
		return fmt.Errorf("empty host")
	}

	if c.app.port < 1 || c.app.port > 65535 {
		return fmt.Errorf("port: %d is out of range [1, 65535]", c.app.port)
	}

	if c.app.duration <= 0 {
		return fmt.Errorf("duration must be a positive number of seconds")
	}

	return nil
}
