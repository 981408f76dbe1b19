// Package config loads sitenav settings from defaults, a YAML file and
// SITENAV_* environment variables, in that order.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
	yamlv3 "gopkg.in/yaml.v3"

	"github.com/ziadkadry99/sitenav/internal/search"
)

// EnvPrefix prefixes environment overrides. A double underscore descends
// one level: SITENAV_IMPORTER__AUTHOR_HOST sets importer.author_host.
const EnvPrefix = "SITENAV_"

// Load reads configuration from the given YAML file, then overlays
// environment variable overrides. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	k := koanf.New(".")
	cfg := DefaultConfig()

	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", path, err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("accessing config %s: %w", path, err)
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, fmt.Errorf("loading env overrides: %w", err)
	}

	if err := k.Unmarshal("", cfg); err != nil {
		return nil, fmt.Errorf("unmarshalling config: %w", err)
	}
	return cfg, nil
}

func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.ReplaceAll(key, "__", ".")
}

// Save writes the configuration to the given YAML file path.
func (c *Config) Save(path string) error {
	data, err := yamlv3.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshalling config: %w", err)
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating config directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config to %s: %w", path, err)
	}
	return nil
}

var validLogLevels = map[string]bool{
	"debug": true,
	"info":  true,
	"warn":  true,
	"error": true,
}

// Validate checks that the configuration contains usable values.
func (c *Config) Validate() error {
	if c.Listen == "" {
		return fmt.Errorf("listen is required")
	}
	if c.LogLevel != "" && !validLogLevels[strings.ToLower(c.LogLevel)] {
		return fmt.Errorf("invalid log_level %q: must be one of debug, info, warn, error", c.LogLevel)
	}
	if c.ContentBase == "" {
		return fmt.Errorf("content_base is required")
	}
	if _, ok := c.Environments[c.DefaultEnvironment]; !ok {
		return fmt.Errorf("default_environment %q is not defined", c.DefaultEnvironment)
	}
	for name, e := range c.Environments {
		if e.SearchOrg == "" {
			return fmt.Errorf("environment %s: search_org is required", name)
		}
		if e.SearchKey == "" {
			return fmt.Errorf("environment %s: search_key is required", name)
		}
	}
	return nil
}

// ForHost resolves the environment serving host: the production
// environment for the public production host, otherwise the default
// environment. It returns the environment name as well.
func (c *Config) ForHost(host string) (string, Environment, error) {
	name := c.DefaultEnvironment
	if strings.EqualFold(stripPort(host), ProdHost) {
		name = EnvProduction
	}
	e, ok := c.Environments[name]
	if !ok {
		return "", Environment{}, fmt.Errorf("environment %q is not defined", name)
	}
	return name, e, nil
}

// Active resolves the environment for the configured site host.
func (c *Config) Active() (string, Environment, error) {
	return c.ForHost(c.SiteHost)
}

// DBPath is the sqlite database location.
func (c *Config) DBPath() string {
	return filepath.Join(c.DataDir, "sitenav.db")
}

func stripPort(host string) string {
	if i := strings.LastIndex(host, ":"); i >= 0 && !strings.Contains(host[i:], "]") {
		return host[:i]
	}
	return host
}

// SearchConfig returns the search client settings of e.
func (e Environment) SearchConfig() search.Config {
	return search.Config{
		Org:          e.SearchOrg,
		Key:          e.SearchKey,
		HostTemplate: e.SearchHost,
		Pipeline:     e.SearchPipeline,
		SearchHub:    e.SearchHub,
	}
}

// CommerceBase is the root of the commerce REST API.
func (e Environment) CommerceBase() string {
	return strings.TrimRight(e.IntershopDomain, "/") + e.IntershopPath
}
