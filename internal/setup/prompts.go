package setup

import (
	"os"

	"go.yaml.in/yaml/v3"
)

// PromptsConfig allows overriding the built-in system prompt from a YAML
// file. Missing file or empty fields fall back to compiled defaults.
type PromptsConfig struct {
	SystemPrompt string `yaml:"system_prompt"`
}

func LoadPromptsConfig() (*PromptsConfig, error) {
	path := os.Getenv("PROMPTS_CONFIG_PATH")
	if path == "" {
		path = "configs/prompts.yaml"
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &PromptsConfig{}, nil
	}
	if err != nil {
		return nil, err
	}

	var cfg PromptsConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}
