package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func writeConf(t *testing.T, dir string, name string, content string) string {
	t.Helper()

	path := filepath.Join(dir, name)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	return path
}

func testPaths(t *testing.T, serverConf string) ServerConfPaths {
	t.Helper()

	dir := t.TempDir()
	return ServerConfPaths{
		ConfigFile:        writeConf(t, dir, ServerConfFileName, serverConf),
		GOTVFile:          filepath.Join(dir, GOTVConfFileName),
		InstancePresetDir: filepath.Join(dir, PresetDirName),
		SharedPresetDir:   filepath.Join(dir, "shared-presets"),
	}
}

func TestLoadServerConfig_FallbackMerge(t *testing.T) {
	paths := testPaths(t, "MAXPLAYERS = 10\nPRESET = tuned\n")
	writeConf(t, paths.SharedPresetDir, "tuned.conf", "MAXPLAYERS = 20\nTICKRATE = 128\n")

	cfg, err := LoadServerConfig(paths)
	require.NoError(t, err)

	// A key set in base is never overwritten by the preset or defaults
	require.Equal(t, "10", cfg.MaxPlayers)
	// A key unset in base takes the preset's value
	require.Equal(t, "128", cfg.TickRate)
	// A key unset in both falls back to the built-in default
	require.Equal(t, "1", cfg.GameMode)
	require.Equal(t, "27015", cfg.Port)
	require.Equal(t, "0.0.0.0", cfg.IP)
}

func TestLoadServerConfig_InstancePresetWinsOverShared(t *testing.T) {
	paths := testPaths(t, "PRESET = tuned\n")
	writeConf(t, paths.InstancePresetDir, "tuned.conf", "TICKRATE = 128\n")
	writeConf(t, paths.SharedPresetDir, "tuned.conf", "TICKRATE = 64\n")

	cfg, err := LoadServerConfig(paths)
	require.NoError(t, err)
	require.Equal(t, "128", cfg.TickRate)
}

func TestLoadServerConfig_SharedPresetFallback(t *testing.T) {
	paths := testPaths(t, "PRESET = tuned\n")
	writeConf(t, paths.SharedPresetDir, "tuned.conf", "TICKRATE = 64\n")

	cfg, err := LoadServerConfig(paths)
	require.NoError(t, err)
	require.Equal(t, "64", cfg.TickRate)
}

func TestLoadServerConfig_PresetNotFound(t *testing.T) {
	paths := testPaths(t, "PRESET = missing\n")

	_, err := LoadServerConfig(paths)

	var presetErr *PresetNotFoundError
	require.ErrorAs(t, err, &presetErr)
	require.Equal(t, "missing", presetErr.Name)
	require.Len(t, presetErr.Searched, 2)
	require.Contains(t, err.Error(), "missing")
	require.Contains(t, err.Error(), ServerConfFileName)
}

func TestLoadServerConfig_DefaultPresetNameWhenUnset(t *testing.T) {
	paths := testPaths(t, "")

	_, err := LoadServerConfig(paths)

	var presetErr *PresetNotFoundError
	require.ErrorAs(t, err, &presetErr)
	require.Equal(t, DefaultPreset, presetErr.Name)

	writeConf(t, paths.SharedPresetDir, DefaultPreset+".conf", "TICKRATE = 64\n")

	cfg, err := LoadServerConfig(paths)
	require.NoError(t, err)
	require.Equal(t, DefaultPreset, cfg.Preset)
	require.Equal(t, "64", cfg.TickRate)
}

func TestLoadServerConfig_PresetNoneSkipsPresets(t *testing.T) {
	paths := testPaths(t, "PRESET = none\n")

	cfg, err := LoadServerConfig(paths)
	require.NoError(t, err)
	require.Equal(t, "none", cfg.Preset)
	require.Empty(t, cfg.TickRate)
}

func TestLoadServerConfig_GOTVOverlay(t *testing.T) {
	paths := testPaths(t, "PRESET = none\nTV_MAXCLIENTS = 5\n")
	writeConf(t, filepath.Dir(paths.GOTVFile), GOTVConfFileName,
		"TV_ENABLE = 1\nTV_MAXCLIENTS = 64\nTV_RELAY = 192.0.2.1:27020\n")

	cfg, err := LoadServerConfig(paths)
	require.NoError(t, err)

	require.Equal(t, "1", cfg.TVEnable)
	// server.conf still wins over the overlay
	require.Equal(t, "5", cfg.TVMaxClients)
	require.Equal(t, "192.0.2.1:27020", cfg.TVRelay)
	// overlay wins over the built-in default
	require.Equal(t, "27020", cfg.TVPort)
}

func TestLoadServerConfig_MissingBaseConfig(t *testing.T) {
	paths := testPaths(t, "")
	require.NoError(t, os.Remove(paths.ConfigFile))

	_, err := LoadServerConfig(paths)
	require.Error(t, err)
	require.Contains(t, err.Error(), paths.ConfigFile)
}

func TestServerConfig_Derivations(t *testing.T) {
	cfg := ServerConfig{
		Hostname:   strings.Repeat("x", 80),
		ServerTags: "competitive 128tick europe",
		Maps:       "de_dust2 de_inferno de_mirage",
	}

	require.Len(t, cfg.Title(), 64)
	require.Equal(t, "competitive,128tick,europe", cfg.Tags())
	require.Equal(t, []string{"de_dust2", "de_inferno", "de_mirage"}, cfg.MapList())
	require.Equal(t, "de_dust2", cfg.FirstMap())
	require.Equal(t, cfg.Title()+" GOTV", cfg.TVTitle())
}

func TestServerConfig_FirstMapNormalizesSeparators(t *testing.T) {
	cfg := ServerConfig{Map: `workshop\12345\de_custom`}
	require.Equal(t, "workshop/12345/de_custom", cfg.FirstMap())

	cfg = ServerConfig{Maps: `workshop\678\de_other de_dust2`}
	require.Equal(t, "workshop/678/de_other", cfg.FirstMap())
}

func TestServerConfig_Toggles(t *testing.T) {
	require.True(t, ServerConfig{TVEnable: "1"}.GOTVEnabled())
	require.True(t, ServerConfig{TVEnable: "true"}.GOTVEnabled())
	require.False(t, ServerConfig{TVEnable: ""}.GOTVEnabled())
	require.False(t, ServerConfig{TVEnable: "0"}.GOTVEnabled())
	require.True(t, ServerConfig{UseRcon: "yes"}.RconEnabled())
	require.False(t, ServerConfig{}.RconEnabled())
}
