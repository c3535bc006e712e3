package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

const (
	IDSchemeSequence = "sequence"
	IDSchemeUUID     = "uuid"
)

// ErrInvalidIDScheme is returned by Validate for an unknown id_scheme.
var ErrInvalidIDScheme = errors.New("invalid id scheme")

type Config struct {
	DBPath     string `yaml:"db_path"`
	WebEnabled bool   `yaml:"web_enabled"`
	WebPort    int    `yaml:"web_port"`
	IDScheme   string `yaml:"id_scheme"`
	SeedPath   string `yaml:"seed_path"`
	LogLevel   string `yaml:"log_level"`
	LogFile    string `yaml:"log_file"`
}

func Default() Config {
	return Config{
		WebPort:  8080,
		IDScheme: IDSchemeSequence,
		LogLevel: "info",
	}
}

func DefaultConfigPath() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, "taskflow", "config.yaml"), nil
}

func EnsureDir(path string) error {
	dir := filepath.Dir(path)
	return os.MkdirAll(dir, 0o755)
}

// Load reads path over the defaults. A missing file yields the defaults.
func Load(path string) (Config, error) {
	config := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return config, nil
		}
		return Config{}, err
	}

	if err := yaml.Unmarshal(data, &config); err != nil {
		return Config{}, fmt.Errorf("parse config: %w", err)
	}
	return config, nil
}

func Save(path string, cfg Config) error {
	if err := EnsureDir(path); err != nil {
		return err
	}

	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}

	return os.WriteFile(path, data, 0o644)
}

func (c Config) Validate() error {
	switch c.IDScheme {
	case IDSchemeSequence, IDSchemeUUID:
	default:
		return fmt.Errorf("%w: %q (want %s or %s)", ErrInvalidIDScheme, c.IDScheme, IDSchemeSequence, IDSchemeUUID)
	}
	if c.WebPort < 1 || c.WebPort > 65535 {
		return fmt.Errorf("invalid web port %d", c.WebPort)
	}
	if _, err := zerolog.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("invalid log level: %w", err)
	}
	return nil
}
