// Package config loads the CLI configuration and deployment profiles from the config directory.
package config

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

const (
	defaultNetwork = "ethereum"
	defaultMode    = "mainnet"

	// DirEnvVar overrides the config directory.
	DirEnvVar = "MINTGATE_CONFIG_DIR"

	configFile  = "config.json"
	walletsFile = "wallets.json"
	profilesDir = "profiles"
)

// ErrProfileNotFound is returned when profiles/<name>.json does not exist.
var ErrProfileNotFound = errors.New("profile not found")

// ResolveDir picks the config directory: dir, then MINTGATE_CONFIG_DIR, then ~/.mintgate.
func ResolveDir(dir string) (string, error) {
	if dir != "" {
		return dir, nil
	}
	if env := os.Getenv(DirEnvVar); env != "" {
		return env, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home dir: %w", err)
	}
	return filepath.Join(home, ".mintgate"), nil
}

// Load reads config from dir (or creates defaults).
func Load(dir string) (*Config, error) {
	dir, err := ResolveDir(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("could not create config dir: %w", err)
	}

	cfg := defaults(dir)

	data, err := os.ReadFile(filepath.Join(dir, configFile))
	if os.IsNotExist(err) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	if err := json.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.configDir = dir
	return cfg, nil
}

// Save writes the config to disk.
func (c *Config) Save() error {
	if err := os.MkdirAll(c.configDir, 0o700); err != nil {
		return err
	}
	return saveJSON(filepath.Join(c.configDir, configFile), c)
}

// Dir returns the config directory.
func (c *Config) Dir() string {
	return c.configDir
}

// WalletsPath is where the wallet store lives.
func (c *Config) WalletsPath() string {
	return filepath.Join(c.configDir, walletsFile)
}

// LoadProfile reads profiles/<name>.json. An empty name means the default profile.
func (c *Config) LoadProfile(name string) (*Profile, error) {
	if name == "" {
		name = c.DefaultProfile
	}
	if name == "" {
		return nil, fmt.Errorf("%w: no profile given and no default set", ErrProfileNotFound)
	}
	path := c.profilePath(name)
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return nil, fmt.Errorf("%w: %s", ErrProfileNotFound, name)
	}
	p, err := loadJSON[Profile](path)
	if err != nil {
		return nil, fmt.Errorf("reading profile %s: %w", name, err)
	}
	return p, nil
}

// SaveProfile writes p to profiles/<name>.json.
func (c *Config) SaveProfile(name string, p *Profile) error {
	if err := os.MkdirAll(filepath.Join(c.configDir, profilesDir), 0o700); err != nil {
		return err
	}
	return saveJSON(c.profilePath(name), p)
}

// Profiles lists stored profile names.
func (c *Config) Profiles() ([]string, error) {
	entries, err := os.ReadDir(filepath.Join(c.configDir, profilesDir))
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var names []string
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".json") {
			names = append(names, strings.TrimSuffix(e.Name(), ".json"))
		}
	}
	sort.Strings(names)
	return names, nil
}

func (c *Config) profilePath(name string) string {
	return filepath.Join(c.configDir, profilesDir, name+".json")
}

// --- helpers ---

func defaults(dir string) *Config {
	return &Config{
		DefaultNetwork: defaultNetwork,
		NetworkMode:    defaultMode,
		configDir:      dir,
	}
}

func loadJSON[T any](path string) (*T, error) {
	var zero T
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &zero, nil
	}
	if err != nil {
		return nil, err
	}
	var v T
	if err := json.Unmarshal(data, &v); err != nil {
		return nil, err
	}
	return &v, nil
}

func saveJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
