package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds the application's configuration.
type Config struct {
	Server struct {
		Port string `yaml:"port"`
		Mode string `yaml:"mode"` // "debug" or "release"
	} `yaml:"server"`
	Database struct {
		URL string `yaml:"url"`
	} `yaml:"database"`
	YouTube struct {
		APIKey string `yaml:"api_key"`
	} `yaml:"youtube"`
	Gemini struct {
		APIKey    string `yaml:"api_key"`
		ModelName string `yaml:"model_name"`
	} `yaml:"gemini"`
	Auth struct {
		JWTSecret     string `yaml:"jwt_secret"`
		TokenTTLHours int    `yaml:"token_ttl_hours"`
	} `yaml:"auth"`
	Pipeline struct {
		ProviderTimeoutSeconds int `yaml:"provider_timeout_seconds"`
	} `yaml:"pipeline"`
	CORS struct {
		AllowedOrigin string `yaml:"allowed_origin"`
	} `yaml:"cors"`
}

// TokenTTL returns the configured JWT lifetime.
func (c *Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLHours) * time.Hour
}

// ProviderTimeout returns the per-call deadline for external providers.
func (c *Config) ProviderTimeout() time.Duration {
	return time.Duration(c.Pipeline.ProviderTimeoutSeconds) * time.Second
}

// LoadConfig reads configuration from the specified YAML file.
// Secret values may reference environment variables ($VAR or ${VAR}).
func LoadConfig(configPath string) (*Config, error) {
	config := &Config{}

	file, err := os.Open(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open config file: %w", err)
	}
	defer file.Close()

	decoder := yaml.NewDecoder(file)
	if err := decoder.Decode(config); err != nil {
		return nil, fmt.Errorf("failed to decode config file: %w", err)
	}

	// Expand environment variables in secrets
	config.Database.URL = os.ExpandEnv(config.Database.URL)
	config.YouTube.APIKey = os.ExpandEnv(config.YouTube.APIKey)
	config.Gemini.APIKey = os.ExpandEnv(config.Gemini.APIKey)
	config.Auth.JWTSecret = os.ExpandEnv(config.Auth.JWTSecret)

	// Set defaults
	if config.Server.Port == "" {
		config.Server.Port = ":8080"
	}
	if config.Gemini.ModelName == "" {
		config.Gemini.ModelName = "gemini-2.0-flash-exp"
	}
	if config.Auth.TokenTTLHours == 0 {
		config.Auth.TokenTTLHours = 24
	}
	if config.Pipeline.ProviderTimeoutSeconds == 0 {
		config.Pipeline.ProviderTimeoutSeconds = 60
	}
	if config.CORS.AllowedOrigin == "" {
		config.CORS.AllowedOrigin = "*"
	}

	return config, nil
}
