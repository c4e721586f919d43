package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gravsim/grav/internal/config"
)

func TestFlagsOverrideOnlyWhenSet(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grav.toml")
	require.NoError(t, os.WriteFile(path, []byte("[simulation]\nsteps = 50\nentities = 9\n"), 0o644))

	opts, err := parseFlags([]string{"-config", path, "-entities", "4", "-output", ""})
	require.NoError(t, err)
	cfg, err := loadConfig(opts)
	require.NoError(t, err)

	assert.Equal(t, uint64(50), cfg.Simulation.Steps, "unset flag keeps file value")
	assert.Equal(t, 4, cfg.Simulation.Entities)
	assert.Empty(t, cfg.Simulation.Output, "explicitly empty output disables the log")
}

func TestConfigPathFromEnv(t *testing.T) {
	t.Setenv("GRAV_CONFIG", "/etc/grav.toml")
	assert.Equal(t, "/from/flag.toml", resolveConfigPath("/from/flag.toml"))
	assert.Equal(t, "/etc/grav.toml", resolveConfigPath(""))
}

func TestLoadConfigRejectsInvalidOverride(t *testing.T) {
	opts, err := parseFlags([]string{"-entities", "-3"})
	require.NoError(t, err)
	_, err = loadConfig(opts)
	assert.ErrorContains(t, err, "simulation.entities")
}

func TestLoadConfigRejectsUnknownLogLevel(t *testing.T) {
	opts, err := parseFlags([]string{"-log-level", "verbose"})
	require.NoError(t, err)
	_, err = loadConfig(opts)
	assert.ErrorContains(t, err, "logging.level")

	_, _, err = newLogger(config.LoggingConfig{Level: "verbose"})
	assert.Error(t, err)
}

func TestLoggerFileModes(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grav.log")
	write := func(mode, msg string) {
		log, closeLog, err := newLogger(config.LoggingConfig{Level: "info", Format: "json", File: path, Mode: mode})
		require.NoError(t, err)
		log.Info(msg)
		closeLog()
	}

	write("append", "first")
	write("append", "second")
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, 2, strings.Count(string(data), "\n"))

	write("overwrite", "third")
	data, err = os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "first")
	assert.Contains(t, string(data), "third")
}

func TestProgressRedrawsOnPercentChange(t *testing.T) {
	var buf bytes.Buffer
	p := newProgress(&buf, 200)
	p.update(1, 5)
	p.update(2, 5)
	p.update(3, 5)
	p.finish()
	assert.Equal(t, 2, strings.Count(buf.String(), "\r"), "step 3 stays at the same percentage as step 2")
}
