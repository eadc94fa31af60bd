package viper

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type serverSection struct {
	Host          string        `mapstructure:"host"`
	Port          int           `mapstructure:"port"`
	SweepInterval time.Duration `mapstructure:"sweep-interval"`
}

type fileConfig struct {
	Server serverSection `mapstructure:"server"`
}

func TestLoadFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("server:\n  port: 2002\n  sweep-interval: 500ms\n"), 0o600))

	c := New()
	c.SetDefault("server.host", "0.0.0.0")
	c.SetDefault("server.port", 1001)
	require.NoError(t, c.LoadFile(path))
	assert.True(t, c.IsSet("server.port"))

	var fc fileConfig
	require.NoError(t, c.Unmarshal(&fc))
	assert.Equal(t, "0.0.0.0", fc.Server.Host)
	assert.Equal(t, 2002, fc.Server.Port)
	assert.Equal(t, 500*time.Millisecond, fc.Server.SweepInterval)

	var s serverSection
	require.NoError(t, c.UnmarshalKey("server", &s))
	assert.Equal(t, 2002, s.Port)
}

func TestLoadFileMissing(t *testing.T) {
	c := New()
	assert.Error(t, c.LoadFile(filepath.Join(t.TempDir(), "absent.json")))
}

func TestZeroValueConfig(t *testing.T) {
	var c Config
	c.SetDefault("server.port", 1001)
	var s serverSection
	require.NoError(t, c.UnmarshalKey("server", &s))
	assert.Equal(t, 1001, s.Port)
}

func TestBindEnv(t *testing.T) {
	t.Setenv("RELAYTEST_SERVER_SWEEP_INTERVAL", "2s")
	t.Setenv("RELAYTEST_SERVER_PORT", "3003")

	c := New()
	c.SetDefault("server.port", 1001)
	c.SetDefault("server.sweep-interval", time.Second)
	c.BindEnv("RELAYTEST")

	var fc fileConfig
	require.NoError(t, c.Unmarshal(&fc))
	assert.Equal(t, 3003, fc.Server.Port)
	assert.Equal(t, 2*time.Second, fc.Server.SweepInterval)
}
