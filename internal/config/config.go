package config

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// Config defines workbench configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	API      APIConfig      `yaml:"api"`
	State    StateConfig    `yaml:"state"`
	Autosave AutosaveConfig `yaml:"autosave"`
	Health   HealthConfig   `yaml:"health"`
	Log      LogConfig      `yaml:"log"`
}

type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

type APIConfig struct {
	BaseURL   string `yaml:"base_url"`
	TimeoutMS int    `yaml:"timeout_ms"`
}

type StateConfig struct {
	Path string `yaml:"path"`
}

type AutosaveConfig struct {
	DebounceMS int `yaml:"debounce_ms"`
	SettleMS   int `yaml:"settle_ms"`
}

type HealthConfig struct {
	IntervalSeconds int `yaml:"interval_seconds"`
}

type LogConfig struct {
	Level string `yaml:"level"`
}

// Timeout returns the API request timeout.
func (c APIConfig) Timeout() time.Duration {
	return time.Duration(c.TimeoutMS) * time.Millisecond
}

// Debounce returns the autosave debounce window.
func (c AutosaveConfig) Debounce() time.Duration {
	return time.Duration(c.DebounceMS) * time.Millisecond
}

// Settle returns how long the saved indicator lingers.
func (c AutosaveConfig) Settle() time.Duration {
	return time.Duration(c.SettleMS) * time.Millisecond
}

// Interval returns the health poll interval.
func (c HealthConfig) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}

// Load reads configuration from an optional YAML file and environment variables.
func Load() (Config, error) {
	cfg := Config{
		Server: ServerConfig{
			Host: "0.0.0.0",
			Port: 8080,
		},
		API: APIConfig{
			BaseURL:   "http://127.0.0.1:5000/api",
			TimeoutMS: 15000,
		},
		State: StateConfig{
			Path: "workbench.db",
		},
		Autosave: AutosaveConfig{
			DebounceMS: 1000,
			SettleMS:   2000,
		},
		Health: HealthConfig{
			IntervalSeconds: 30,
		},
		Log: LogConfig{
			Level: "info",
		},
	}

	if path := os.Getenv("WORKBENCH_CONFIG_PATH"); path != "" {
		if err := loadFromFile(path, &cfg); err != nil {
			return Config{}, err
		}
	}

	if host := os.Getenv("WORKBENCH_SERVER_HOST"); host != "" {
		cfg.Server.Host = host
	}
	if portStr := os.Getenv("WORKBENCH_SERVER_PORT"); portStr != "" {
		port, err := strconv.Atoi(portStr)
		if err != nil {
			return Config{}, fmt.Errorf("invalid WORKBENCH_SERVER_PORT: %w", err)
		}
		cfg.Server.Port = port
	}
	if url := os.Getenv("WORKBENCH_API_URL"); url != "" {
		cfg.API.BaseURL = url
	}
	if statePath := os.Getenv("WORKBENCH_STATE_PATH"); statePath != "" {
		cfg.State.Path = statePath
	}
	if level := os.Getenv("WORKBENCH_LOG_LEVEL"); level != "" {
		cfg.Log.Level = level
	}

	return cfg, nil
}

func loadFromFile(path string, cfg *Config) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return fmt.Errorf("parse config file: %w", err)
	}
	return nil
}
