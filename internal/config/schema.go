package config

// AgentConfig represents the complete csv-agent configuration file
type AgentConfig struct {
	Model ModelConfig `yaml:"model"`
}

// ModelConfig holds the generation parameters sent with every prompt
type ModelConfig struct {
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}
