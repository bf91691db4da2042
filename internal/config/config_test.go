package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestDefault(t *testing.T) {
	config := Default()

	if config.Simulation.Nodes != 10 {
		t.Errorf("expected Nodes 10, got %d", config.Simulation.Nodes)
	}
	if config.Simulation.Rounds != 10 {
		t.Errorf("expected Rounds 10, got %d", config.Simulation.Rounds)
	}
	if config.Simulation.Probability != 0.1 {
		t.Errorf("expected Probability 0.1, got %f", config.Simulation.Probability)
	}
	if config.Simulation.Seed != 0 {
		t.Errorf("expected Seed 0, got %d", config.Simulation.Seed)
	}
	if config.Simulation.Workers != 1 {
		t.Errorf("expected Workers 1, got %d", config.Simulation.Workers)
	}
	if config.Output.Format != "text" {
		t.Errorf("expected Format 'text', got '%s'", config.Output.Format)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected Logging.Level 'info', got '%s'", config.Logging.Level)
	}
}

func TestLoadFromFile(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	configContent := `
simulation:
  nodes: 100
  rounds: 50
  probability: 0.05
  seed: 1234

output:
  format: json
`
	if err := os.WriteFile(configPath, []byte(configContent), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	config, err := LoadFromFile(configPath)
	if err != nil {
		t.Fatalf("failed to load config: %v", err)
	}

	if config.Simulation.Nodes != 100 {
		t.Errorf("expected Nodes 100, got %d", config.Simulation.Nodes)
	}
	if config.Simulation.Rounds != 50 {
		t.Errorf("expected Rounds 50, got %d", config.Simulation.Rounds)
	}
	if config.Simulation.Probability != 0.05 {
		t.Errorf("expected Probability 0.05, got %f", config.Simulation.Probability)
	}
	if config.Simulation.Seed != 1234 {
		t.Errorf("expected Seed 1234, got %d", config.Simulation.Seed)
	}
	if config.Output.Format != "json" {
		t.Errorf("expected Format 'json', got '%s'", config.Output.Format)
	}

	// Keys absent from the file keep their defaults
	if config.Simulation.Workers != 1 {
		t.Errorf("expected default Workers 1, got %d", config.Simulation.Workers)
	}
	if config.Logging.Level != "info" {
		t.Errorf("expected default Logging.Level 'info', got '%s'", config.Logging.Level)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("LEACH_NODES", "25")
	t.Setenv("LEACH_ROUNDS", "7")
	t.Setenv("LEACH_PROBABILITY", "0.2")
	t.Setenv("LEACH_SEED", "99")
	t.Setenv("LEACH_WORKERS", "4")
	t.Setenv("LEACH_FORMAT", "YAML")
	t.Setenv("LEACH_LOG_LEVEL", "debug")

	config := Default()
	applyEnvOverrides(config)

	if config.Simulation.Nodes != 25 {
		t.Errorf("expected Nodes 25, got %d", config.Simulation.Nodes)
	}
	if config.Simulation.Rounds != 7 {
		t.Errorf("expected Rounds 7, got %d", config.Simulation.Rounds)
	}
	if config.Simulation.Probability != 0.2 {
		t.Errorf("expected Probability 0.2, got %f", config.Simulation.Probability)
	}
	if config.Simulation.Seed != 99 {
		t.Errorf("expected Seed 99, got %d", config.Simulation.Seed)
	}
	if config.Simulation.Workers != 4 {
		t.Errorf("expected Workers 4, got %d", config.Simulation.Workers)
	}
	if config.Output.Format != "yaml" {
		t.Errorf("expected Format 'yaml', got '%s'", config.Output.Format)
	}
	if config.Logging.Level != "debug" {
		t.Errorf("expected Logging.Level 'debug', got '%s'", config.Logging.Level)
	}
}

func TestEnvOverrides_IgnoresMalformed(t *testing.T) {
	t.Setenv("LEACH_NODES", "many")
	t.Setenv("LEACH_PROBABILITY", "0,5")

	config := Default()
	applyEnvOverrides(config)

	if config.Simulation.Nodes != 10 {
		t.Errorf("expected Nodes to stay 10, got %d", config.Simulation.Nodes)
	}
	if config.Simulation.Probability != 0.1 {
		t.Errorf("expected Probability to stay 0.1, got %f", config.Simulation.Probability)
	}
}

func TestLoad_UsesHomeConfig(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("LEACH_ROUNDS", "3")

	configPath := filepath.Join(home, ".leach", "config.yaml")
	cfg := Default()
	cfg.Simulation.Nodes = 42
	if err := cfg.Save(configPath); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := Load()
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.Simulation.Nodes != 42 {
		t.Errorf("expected Nodes 42 from file, got %d", loaded.Simulation.Nodes)
	}
	if loaded.Simulation.Rounds != 3 {
		t.Errorf("expected Rounds 3 from env, got %d", loaded.Simulation.Rounds)
	}
}

func TestValidate_Valid(t *testing.T) {
	config := Default()
	if err := config.Validate(); err != nil {
		t.Errorf("expected valid config, got error: %v", err)
	}
}

func TestValidate_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*LeachConfig)
		wantErr string
	}{
		{"zero nodes", func(c *LeachConfig) { c.Simulation.Nodes = 0 }, "simulation.nodes"},
		{"negative rounds", func(c *LeachConfig) { c.Simulation.Rounds = -2 }, "simulation.rounds"},
		{"probability zero", func(c *LeachConfig) { c.Simulation.Probability = 0 }, "simulation.probability"},
		{"probability one", func(c *LeachConfig) { c.Simulation.Probability = 1 }, "simulation.probability"},
		{"negative workers", func(c *LeachConfig) { c.Simulation.Workers = -1 }, "simulation.workers"},
		{"unknown format", func(c *LeachConfig) { c.Output.Format = "xml" }, "invalid output format"},
		{"unknown level", func(c *LeachConfig) { c.Logging.Level = "verbose" }, "invalid log level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := Default()
			tt.mutate(config)
			err := config.Validate()
			if err == nil {
				t.Fatal("expected validation error")
			}
			if !strings.Contains(err.Error(), tt.wantErr) {
				t.Errorf("error %q does not mention %q", err, tt.wantErr)
			}
		})
	}
}

func TestGetSet(t *testing.T) {
	config := Default()

	for key, value := range map[string]string{
		"simulation.nodes":       "12",
		"simulation.rounds":      "8",
		"simulation.probability": "0.25",
		"simulation.seed":        "77",
		"simulation.workers":     "2",
		"output.format":          "CBOR",
		"logging.level":          "trace",
	} {
		if err := config.Set(key, value); err != nil {
			t.Fatalf("Set(%s, %s) failed: %v", key, value, err)
		}
	}

	want := map[string]any{
		"simulation.nodes":       12,
		"simulation.rounds":      8,
		"simulation.probability": 0.25,
		"simulation.seed":        uint64(77),
		"simulation.workers":     2,
		"output.format":          "cbor",
		"logging.level":          "trace",
	}
	for _, key := range Keys() {
		got, ok := config.Get(key)
		if !ok {
			t.Errorf("Get(%s) not found", key)
			continue
		}
		if got != want[key] {
			t.Errorf("Get(%s) = %v, want %v", key, got, want[key])
		}
	}

	if _, ok := config.Get("llm.provider"); ok {
		t.Error("expected unknown key to be missing")
	}
	if err := config.Set("llm.provider", "x"); err == nil {
		t.Error("expected error for unknown key")
	}
	if err := config.Set("simulation.nodes", "ten"); err == nil {
		t.Error("expected error for non-numeric nodes")
	}
}

func TestParseProbability(t *testing.T) {
	tests := []struct {
		input   string
		want    float64
		wantErr string
	}{
		{"0.5", 0.5, ""},
		{" 0.05 ", 0.05, ""},
		{"0,5", 0, "decimal delimiter"},
		{"half", 0, "not a decimal number"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseProbability(tt.input)
			if tt.wantErr != "" {
				if err == nil || !strings.Contains(err.Error(), tt.wantErr) {
					t.Fatalf("ParseProbability(%q) error = %v, want %q", tt.input, err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseProbability(%q) failed: %v", tt.input, err)
			}
			if got != tt.want {
				t.Errorf("ParseProbability(%q) = %v, want %v", tt.input, got, tt.want)
			}
		})
	}
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")

	config := Default()
	config.Simulation.Probability = 0.3
	config.Output.Format = "msgpack"
	if err := config.Save(path); err != nil {
		t.Fatalf("Save failed: %v", err)
	}

	loaded, err := LoadFromFile(path)
	if err != nil {
		t.Fatalf("LoadFromFile failed: %v", err)
	}
	if *loaded != *config {
		t.Errorf("round trip mismatch: got %+v, want %+v", *loaded, *config)
	}
}

func TestLoadFromFile_NotFound(t *testing.T) {
	_, err := LoadFromFile("/nonexistent/path/config.yaml")
	if err == nil {
		t.Error("expected error for nonexistent file")
	}
}

func TestLoadFromFile_InvalidYAML(t *testing.T) {
	tmpDir := t.TempDir()
	configPath := filepath.Join(tmpDir, "config.yaml")

	invalidYAML := `
simulation:
  nodes: [invalid yaml
`
	if err := os.WriteFile(configPath, []byte(invalidYAML), 0600); err != nil {
		t.Fatalf("failed to write test config: %v", err)
	}

	_, err := LoadFromFile(configPath)
	if err == nil {
		t.Error("expected error for invalid YAML")
	}
}
