// Package config provides unified configuration loading for leach.
// It supports loading from YAML files and environment variables.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// LeachConfig contains all leach configuration settings.
type LeachConfig struct {
	// Simulation holds the default run parameters.
	Simulation SimulationConfig `json:"simulation" yaml:"simulation"`

	// Output controls how finished runs are rendered.
	Output OutputConfig `json:"output" yaml:"output"`

	// Logging contains settings for operational and decision logging.
	Logging LoggingConfig `json:"logging" yaml:"logging"`
}

// SimulationConfig holds the parameters handed to the simulator.
type SimulationConfig struct {
	// Nodes is the number of nodes in the network.
	Nodes int `json:"nodes" yaml:"nodes"`

	// Rounds is the number of rounds to simulate.
	Rounds int `json:"rounds" yaml:"rounds"`

	// Probability is the desired clusterhead fraction p, strictly in (0,1).
	Probability float64 `json:"probability" yaml:"probability"`

	// Seed fixes the random draws. 0 picks a fresh seed per run.
	Seed uint64 `json:"seed" yaml:"seed"`

	// Workers bounds per-round parallelism. 1 runs nodes serially.
	Workers int `json:"workers" yaml:"workers"`
}

// OutputConfig configures rendering of results.
type OutputConfig struct {
	// Format is one of "text", "json", "yaml", "msgpack", "cbor".
	Format string `json:"format" yaml:"format"`
}

// LoggingConfig configures leach's logging behavior.
type LoggingConfig struct {
	// Level sets the log verbosity: "info" (default), "debug", or "trace".
	// "debug" enables decision logging to ~/.leach/decisions.jsonl.
	Level string `json:"level" yaml:"level"`
}

// ValidFormats lists the accepted output format names.
var ValidFormats = []string{"text", "json", "yaml", "msgpack", "cbor"}

// Default returns a LeachConfig with sensible defaults.
func Default() *LeachConfig {
	return &LeachConfig{
		Simulation: SimulationConfig{
			Nodes:       10,
			Rounds:      10,
			Probability: 0.1,
			Seed:        0,
			Workers:     1,
		},
		Output: OutputConfig{
			Format: "text",
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}

// Dir returns the leach home directory (~/.leach).
func Dir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolving home directory: %w", err)
	}
	return filepath.Join(home, ".leach"), nil
}

// Path returns the default config file location.
func Path() (string, error) {
	dir, err := Dir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.yaml"), nil
}

// Load loads configuration from the default locations and environment variables.
// Order: defaults -> ~/.leach/config.yaml -> environment variables
func Load() (*LeachConfig, error) {
	config := Default()

	if configPath, err := Path(); err == nil {
		if _, statErr := os.Stat(configPath); statErr == nil {
			fileConfig, loadErr := LoadFromFile(configPath)
			if loadErr != nil {
				return nil, fmt.Errorf("loading config file: %w", loadErr)
			}
			config = fileConfig
		}
	}

	applyEnvOverrides(config)

	return config, nil
}

// LoadFromFile loads configuration from a specific YAML file.
// Keys missing from the file keep their defaults.
func LoadFromFile(path string) (*LeachConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}

	config := Default()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("parsing config file: %w", err)
	}

	return config, nil
}

// Save writes the configuration as YAML, creating parent directories.
func (c *LeachConfig) Save(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, data, 0600); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return nil
}

// Validate checks that the configuration is valid.
func (c *LeachConfig) Validate() error {
	if c.Simulation.Nodes <= 0 {
		return fmt.Errorf("simulation.nodes must be positive, got %d", c.Simulation.Nodes)
	}
	if c.Simulation.Rounds <= 0 {
		return fmt.Errorf("simulation.rounds must be positive, got %d", c.Simulation.Rounds)
	}
	if !(c.Simulation.Probability > 0 && c.Simulation.Probability < 1) {
		return fmt.Errorf("simulation.probability must be strictly between 0 and 1, got %v", c.Simulation.Probability)
	}
	if c.Simulation.Workers < 0 {
		return fmt.Errorf("simulation.workers must be non-negative, got %d", c.Simulation.Workers)
	}

	validFormats := map[string]bool{"": true}
	for _, f := range ValidFormats {
		validFormats[f] = true
	}
	if !validFormats[c.Output.Format] {
		return fmt.Errorf("invalid output format: %s (valid: %s)", c.Output.Format, strings.Join(ValidFormats, ", "))
	}

	validLevels := map[string]bool{"info": true, "debug": true, "trace": true}
	if c.Logging.Level != "" && !validLevels[c.Logging.Level] {
		return fmt.Errorf("invalid log level: %s (valid: info, debug, trace, or empty for default)", c.Logging.Level)
	}

	return nil
}

// Get returns the value of a dotted key such as "simulation.nodes".
func (c *LeachConfig) Get(key string) (any, bool) {
	switch key {
	case "simulation.nodes":
		return c.Simulation.Nodes, true
	case "simulation.rounds":
		return c.Simulation.Rounds, true
	case "simulation.probability":
		return c.Simulation.Probability, true
	case "simulation.seed":
		return c.Simulation.Seed, true
	case "simulation.workers":
		return c.Simulation.Workers, true
	case "output.format":
		return c.Output.Format, true
	case "logging.level":
		return c.Logging.Level, true
	default:
		return nil, false
	}
}

// Keys lists every key accepted by Get and Set.
func Keys() []string {
	return []string{
		"simulation.nodes",
		"simulation.rounds",
		"simulation.probability",
		"simulation.seed",
		"simulation.workers",
		"output.format",
		"logging.level",
	}
}

// Set parses value for a dotted key and stores it. It does not validate
// the resulting configuration; call Validate afterwards.
func (c *LeachConfig) Set(key, value string) error {
	var err error
	switch key {
	case "simulation.nodes":
		c.Simulation.Nodes, err = strconv.Atoi(value)
	case "simulation.rounds":
		c.Simulation.Rounds, err = strconv.Atoi(value)
	case "simulation.probability":
		c.Simulation.Probability, err = ParseProbability(value)
	case "simulation.seed":
		c.Simulation.Seed, err = strconv.ParseUint(value, 10, 64)
	case "simulation.workers":
		c.Simulation.Workers, err = strconv.Atoi(value)
	case "output.format":
		c.Output.Format = strings.ToLower(value)
	case "logging.level":
		c.Logging.Level = strings.ToLower(value)
	default:
		return fmt.Errorf("unknown configuration key: %s", key)
	}
	if err != nil {
		return fmt.Errorf("invalid value for %s: %w", key, err)
	}
	return nil
}

// ParseProbability parses a decimal probability. A comma used as decimal
// separator is reported explicitly since it is the usual input mistake.
func ParseProbability(s string) (float64, error) {
	s = strings.TrimSpace(s)
	if strings.Contains(s, ",") {
		return 0, fmt.Errorf("%q: use the correct decimal delimiter ('.')", s)
	}
	p, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, fmt.Errorf("%q is not a decimal number", s)
	}
	return p, nil
}

// applyEnvOverrides applies environment variable overrides to the config.
func applyEnvOverrides(config *LeachConfig) {
	if v := os.Getenv("LEACH_NODES"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Nodes = n
		}
	}

	if v := os.Getenv("LEACH_ROUNDS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Rounds = n
		}
	}

	if v := os.Getenv("LEACH_PROBABILITY"); v != "" {
		if p, err := ParseProbability(v); err == nil {
			config.Simulation.Probability = p
		}
	}

	if v := os.Getenv("LEACH_SEED"); v != "" {
		if n, err := strconv.ParseUint(v, 10, 64); err == nil {
			config.Simulation.Seed = n
		}
	}

	if v := os.Getenv("LEACH_WORKERS"); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			config.Simulation.Workers = n
		}
	}

	if v := os.Getenv("LEACH_FORMAT"); v != "" {
		config.Output.Format = strings.ToLower(v)
	}

	if v := os.Getenv("LEACH_LOG_LEVEL"); v != "" {
		config.Logging.Level = v
	}
}
