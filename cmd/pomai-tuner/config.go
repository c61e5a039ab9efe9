package main

import (
	"errors"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const defaultOutput = "policy_params.json"

type Config struct {
	input  string
	output string
	// debug or release
	mode string
}

func loadConfig(args []string) (*Config, error) {
	fs := pflag.NewFlagSet("pomai-tuner", pflag.ContinueOnError)
	fs.String("input", "", "stats snapshot (JSON, or YAML by .yaml/.yml extension)")
	fs.String("output", defaultOutput, "where to write the policy parameters")

	if err := fs.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("POMAI_TUNER")
	v.SetDefault("log_mode", "release")
	if err := v.BindEnv("log_mode"); err != nil {
		return nil, err
	}
	if err := v.BindPFlags(fs); err != nil {
		return nil, err
	}

	c := Config{
		input:  v.GetString("input"),
		output: v.GetString("output"),
		mode:   v.GetString("log_mode"),
	}

	if c.input == "" {
		return nil, errors.New("--input is required")
	}
	if c.output == "" {
		return nil, errors.New("--output must not be empty")
	}

	return &c, nil
}
