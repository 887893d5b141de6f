// Config loading for the larder CLI.
package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"
)

const (
	configFileName = "config"
	configFileType = "yaml"
	configFileExt  = "config.yaml"

	cfgKeyBackend    = "backend"
	cfgKeyDataDir    = "data_dir"
	cfgKeyListenAddr = "listen_addr"

	cfgKeyAIBaseURL     = "ai.base_url"
	cfgKeyAIAPIKey      = "ai.api_key"
	cfgKeyAITextModel   = "ai.text_model"
	cfgKeyAIVisionModel = "ai.vision_model"

	defaultBackend    = "sqlite"
	defaultListenAddr = ":8080"
)

// aiConfig carries the chat-completions endpoint settings for the planner
// and the bill scanner.
type aiConfig struct {
	BaseURL     string
	APIKey      string
	TextModel   string
	VisionModel string
}

// Configured reports whether the endpoint is usable.
func (c aiConfig) Configured() bool {
	return c.BaseURL != ""
}

// defaultConfigYAML is the content written to config.yaml on first run.
const defaultConfigYAML = `# Larder CLI configuration

# Backend selection
backend: sqlite

# Data directory (optional; overridable by --data-dir flag)
# data_dir:

# Address for larder serve
listen_addr: ":8080"

# AI endpoint for meal planning and bill scanning (OpenAI-compatible).
# Leave base_url empty to disable both features.
ai:
  base_url: ""
  api_key: ""
  text_model: "llama-3.3-70b-versatile"
  vision_model: "llama-3.2-90b-vision-preview"
`

// loadConfig reads config.yaml from the resolved config directory using
// Viper. It creates the config directory and a default config.yaml on
// first run. A missing config.yaml is not an error.
func loadConfig(configDir string) (*viper.Viper, error) {
	if err := ensureConfigDir(configDir); err != nil {
		return nil, fmt.Errorf("ensure config dir: %w", err)
	}

	if err := ensureDefaultConfigFile(configDir); err != nil {
		return nil, fmt.Errorf("ensure default config: %w", err)
	}

	v := viper.New()
	v.SetDefault(cfgKeyBackend, defaultBackend)
	v.SetDefault(cfgKeyListenAddr, defaultListenAddr)
	v.SetConfigName(configFileName)
	v.SetConfigType(configFileType)
	v.AddConfigPath(configDir)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); ok {
			return v, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	return v, nil
}

func ensureConfigDir(configDir string) error {
	return os.MkdirAll(configDir, 0o755)
}

// ensureDefaultConfigFile creates a default config.yaml if the file does
// not exist in the config directory.
func ensureDefaultConfigFile(configDir string) error {
	path := filepath.Join(configDir, configFileExt)

	_, err := os.Stat(path)
	if err == nil {
		return nil
	}
	if !os.IsNotExist(err) {
		return fmt.Errorf("stat config file: %w", err)
	}

	return os.WriteFile(path, []byte(defaultConfigYAML), 0o644)
}
