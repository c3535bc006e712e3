package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadOverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("db_path: /tmp/tasks.db\nid_scheme: uuid\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/tasks.db", cfg.DBPath)
	assert.Equal(t, IDSchemeUUID, cfg.IDScheme)
	assert.Equal(t, 8080, cfg.WebPort, "unset keys keep their defaults")
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestLoadInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("web_port: [1, 2"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parse config")
}

func TestSaveThenLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.yaml")
	cfg := Default()
	cfg.WebEnabled = true
	cfg.WebPort = 9090
	cfg.SeedPath = "seed.yaml"

	require.NoError(t, Save(path, cfg))
	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "uuid scheme", mutate: func(c *Config) { c.IDScheme = IDSchemeUUID }},
		{name: "unknown scheme", mutate: func(c *Config) { c.IDScheme = "timestamp" }, wantErr: true},
		{name: "port zero", mutate: func(c *Config) { c.WebPort = 0 }, wantErr: true},
		{name: "port too high", mutate: func(c *Config) { c.WebPort = 70000 }, wantErr: true},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			assert.NoError(t, err)
		})
	}

	cfg := Default()
	cfg.IDScheme = "timestamp"
	assert.ErrorIs(t, cfg.Validate(), ErrInvalidIDScheme)
}
