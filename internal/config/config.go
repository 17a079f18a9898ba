// Package config loads the bot configuration: a yaml file for everything
// checked in, environment variables for credentials.
package config

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Site         string `yaml:"site"`
	UserAgent    string `yaml:"user_agent"`
	PageSuffix   string `yaml:"page_suffix"`
	RegistryRoot string `yaml:"registry_root"`
	DataDir      string `yaml:"data_dir"`
}

// Credentials come from the environment (a .env file is loaded by the
// binary), never from the config file.
type Credentials struct {
	Username string
	Password string
}

// Load reads the yaml config at path, or returns defaults when path is empty.
func Load(path string) (Config, error) {
	cfg := defaults()
	if strings.TrimSpace(path) == "" {
		return cfg, nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return cfg, err
	}
	if err := yaml.Unmarshal(b, &cfg); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("%s: %w", path, err)
	}
	return cfg, nil
}

func defaults() Config {
	return Config{
		Site:         "civwiki.org",
		UserAgent:    "LusitaniaBot/1.0.0 (metriximor@gmail.com)",
		PageSuffix:   " (CivMC)",
		RegistryRoot: "./land_registry",
		DataDir:      "./data",
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.Site) == "" {
		return fmt.Errorf("site is required")
	}
	if strings.TrimSpace(c.UserAgent) == "" {
		return fmt.Errorf("user_agent is required")
	}
	if strings.TrimSpace(c.RegistryRoot) == "" {
		return fmt.Errorf("registry_root is required")
	}
	return nil
}

// CredentialsFromEnv reads CIVWIKI_USERNAME and CIVWIKI_PASSWORD.
func CredentialsFromEnv() (Credentials, error) {
	creds := Credentials{
		Username: os.Getenv("CIVWIKI_USERNAME"),
		Password: os.Getenv("CIVWIKI_PASSWORD"),
	}
	if creds.Username == "" || creds.Password == "" {
		return creds, fmt.Errorf("CIVWIKI_USERNAME and CIVWIKI_PASSWORD must be set")
	}
	return creds, nil
}
