// Package config loads runtime configuration from TOML files and
// environment variables.
package config

import (
	"fmt"
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// Config is the application configuration. The GitHub token is optional:
// without one, API calls run unauthenticated against the lower rate limit.
type Config struct {
	GitHub struct {
		Token      string `koanf:"token"`
		APIBaseURL string `koanf:"api_base_url"`
	} `koanf:"github"`

	OneBot struct {
		URL         string `koanf:"url"`
		AccessToken string `koanf:"access_token"`
		Platform    string `koanf:"platform"`
	} `koanf:"onebot"`

	Log struct {
		Level string `koanf:"level"`
	} `koanf:"log"`
}

// Load reads configuration from defaults, then a TOML file, then
// GHPREVIEW_-prefixed environment variables, each layer overriding the
// previous. An empty configPath falls back to the default locations and
// loads nothing when none exists.
func Load(configPath string) (*Config, error) {
	k := koanf.New(".")

	k.Load(confmap.Provider(map[string]interface{}{
		"onebot.url":      "ws://127.0.0.1:3001",
		"onebot.platform": "onebot",
		"log.level":       "info",
	}, "."), nil)

	if configPath != "" {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, fmt.Errorf("error loading config: %w", err)
		}
	} else {
		defaultPaths := []string{"./ghpreview.toml", "$HOME/.ghpreview.toml"}
		for _, path := range defaultPaths {
			path = os.ExpandEnv(path)
			if _, err := os.Stat(path); err == nil {
				if err := k.Load(file.Provider(path), toml.Parser()); err == nil {
					break
				}
			}
		}
	}

	k.Load(env.Provider("GHPREVIEW_", ".", func(s string) string {
		return strings.Replace(strings.ToLower(strings.TrimPrefix(s, "GHPREVIEW_")), "_", ".", 1)
	}), nil)

	var config Config
	if err := k.Unmarshal("", &config); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	return &config, nil
}

// Init writes a sample configuration file.
func Init(configPath string) error {
	if _, err := os.Stat(configPath); err == nil {
		return fmt.Errorf("configuration file already exists at %s", configPath)
	}

	sampleConfig := `# ghpreview configuration

[github]
# Optional. Leave empty for unauthenticated requests (lower rate limit).
token = ""

[onebot]
url = "ws://127.0.0.1:3001"
access_token = ""

[log]
level = "info"
`

	return os.WriteFile(configPath, []byte(sampleConfig), 0644)
}
