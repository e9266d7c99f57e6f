package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"go.yaml.in/yaml/v3"
)

const (
	DefaultConfigPath  = "configs/agent.yaml"
	DefaultMaxTokens   = 1024
	DefaultTemperature = 0.0
)

// LoadAgentConfig reads the YAML file named by AGENT_CONFIG_PATH (or the
// default path). A missing file yields the defaults.
func LoadAgentConfig() (*AgentConfig, error) {

	path := os.Getenv("AGENT_CONFIG_PATH")
	if path == "" {
		path = DefaultConfigPath
	}

	var cfg AgentConfig

	data, err := os.ReadFile(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
	case err != nil:
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	default:
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse YAML %s: %w", path, err)
		}
	}

	applyDefaults(&cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func applyDefaults(cfg *AgentConfig) {
	if cfg.Model.MaxTokens == 0 {
		cfg.Model.MaxTokens = DefaultMaxTokens
	}
}

func (c *AgentConfig) Validate() error {
	if c.Model.MaxTokens < 0 {
		return fmt.Errorf("invalid model config: max_tokens must be positive, got %d", c.Model.MaxTokens)
	}
	if c.Model.Temperature < 0.0 || c.Model.Temperature > 2.0 {
		return fmt.Errorf("invalid model config: temperature %f out of range [0.0, 2.0]", c.Model.Temperature)
	}
	return nil
}
