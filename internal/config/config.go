package config

import (
	"os"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTimeout    = "10s"
	DefaultGreeting   = "GET HTTP/1.0 /\r\n"
	DefaultBufferSize = 512
)

type Config struct {
	Connect ConnectConfig `yaml:"connect"`
	Pump    PumpConfig    `yaml:"pump"`
	Logging LoggingConfig `yaml:"logging"`
}

type ConnectConfig struct {
	Timeout  string `yaml:"timeout"`
	Greeting string `yaml:"greeting"`
}

type PumpConfig struct {
	BufferSize int `yaml:"buffer_size"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	File   string `yaml:"file"`
}

// Default returns the configuration used when no file is given.
func Default() *Config {
	return &Config{
		Connect: ConnectConfig{
			Timeout:  DefaultTimeout,
			Greeting: DefaultGreeting,
		},
		Pump: PumpConfig{
			BufferSize: DefaultBufferSize,
		},
		Logging: LoggingConfig{
			Level:  "warn",
			Format: "console",
		},
	}
}

// Load reads a YAML file on top of Default. Keys missing from the file keep
// their default values, and so do an empty greeting and a non-positive
// buffer size.
func Load(path string) (*Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	err = yaml.Unmarshal(data, cfg)
	if err != nil {
		return nil, err
	}
	if cfg.Connect.Greeting == "" {
		cfg.Connect.Greeting = DefaultGreeting
	}
	if cfg.Pump.BufferSize <= 0 {
		cfg.Pump.BufferSize = DefaultBufferSize
	}
	return cfg, nil
}
