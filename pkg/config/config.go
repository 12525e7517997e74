// Package config loads and validates the server configuration from YAML,
// with every field carrying a sensible default so an empty file works.
package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/voltaic-labs/sigraph/pkg/fault"
	"github.com/voltaic-labs/sigraph/pkg/solver"
	"github.com/voltaic-labs/sigraph/pkg/validation"
)

// Config is the full server configuration.
type Config struct {
	Server ServerConfig `yaml:"server"`
	Solver SolverConfig `yaml:"solver"`
	Sweep  SweepConfig  `yaml:"sweep"`
	Match  MatchConfig  `yaml:"match"`
	Bus    BusConfig    `yaml:"bus"`
	Log    LogConfig    `yaml:"log"`
}

// ServerConfig configures the HTTP listener.
type ServerConfig struct {
	Host            string        `yaml:"host"`
	Port            int           `yaml:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`
}

// Addr returns the listen address in host:port form.
func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// SolverConfig carries the default convergence parameters. Requests can
// override both per solve.
type SolverConfig struct {
	Epsilon       float64 `yaml:"epsilon"`
	MaxIterations int     `yaml:"max_iterations"`
}

// SweepConfig configures sweep execution.
type SweepConfig struct {
	Workers int `yaml:"workers"`
}

// MatchConfig carries the default diagnosis parameters.
type MatchConfig struct {
	Metric    string  `yaml:"metric"`
	Threshold float64 `yaml:"threshold"`
}

// BusConfig configures the fault-report publisher.
type BusConfig struct {
	Enabled    bool   `yaml:"enabled"`
	ListenAddr string `yaml:"listen_addr"`
	Topic      string `yaml:"topic"`
}

// LogConfig configures logging.
type LogConfig struct {
	Level string `yaml:"level"`
}

// Default returns the configuration used when no file is given.
func Default() Config {
	return Config{
		Server: ServerConfig{
			Host:            "0.0.0.0",
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 10 * time.Second,
		},
		Solver: SolverConfig{
			Epsilon:       solver.DefaultEpsilon,
			MaxIterations: solver.DefaultMaxIterations,
		},
		Sweep: SweepConfig{
			Workers: 4,
		},
		Match: MatchConfig{
			Metric:    "euclidean",
			Threshold: fault.DefaultThreshold,
		},
		Bus: BusConfig{
			Enabled:    false,
			ListenAddr: "tcp://127.0.0.1:5555",
			Topic:      "faults",
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load reads a YAML config file over the defaults. An empty path returns
// the defaults unchanged.
func Load(path string) (Config, error) {
	cfg := Default()
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("read config %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("parse config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks the configuration, collecting every violation.
func (c Config) Validate() error {
	return validation.NewConfigValidator("Config").
		Required("Server.Host", c.Server.Host).
		RangeInt("Server.Port", c.Server.Port, 1, 65535).
		MinDuration("Server.ReadTimeout", c.Server.ReadTimeout, time.Second).
		MinDuration("Server.WriteTimeout", c.Server.WriteTimeout, time.Second).
		MinDuration("Server.ShutdownTimeout", c.Server.ShutdownTimeout, time.Second).
		PositiveFloat("Solver.Epsilon", c.Solver.Epsilon).
		Positive("Solver.MaxIterations", c.Solver.MaxIterations).
		Positive("Sweep.Workers", c.Sweep.Workers).
		OneOf("Match.Metric", c.Match.Metric, []string{"euclidean", "cosine", "dot_product"}).
		PositiveFloat("Match.Threshold", c.Match.Threshold).
		OneOf("Log.Level", c.Log.Level, []string{"debug", "info", "warn", "error"}).
		When(c.Bus.Enabled, func(cv *validation.ConfigValidator) {
			cv.Required("Bus.ListenAddr", c.Bus.ListenAddr)
			cv.Required("Bus.Topic", c.Bus.Topic)
		}).
		Validate()
}
