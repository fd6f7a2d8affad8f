package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/SourceServerManager/srcds-agent/app/utils"
	"gopkg.in/ini.v1"
)

const (
	ServerConfFileName = "server.conf"
	GOTVConfFileName   = "gotv.conf"
	PresetDirName      = "presets"

	// Used when server.conf carries no PRESET key. Set PRESET=none to skip
	// preset loading entirely.
	DefaultPreset = "standard"

	maxTitleLength = 64
)

// Fallback values for keys left unset by server.conf and the preset.
var builtinDefaults = map[string]string{
	"HOSTNAME":      "srcds-agent server",
	"IP":            "0.0.0.0",
	"PORT":          "27015",
	"MAXPLAYERS":    "12",
	"GAMETYPE":      "0",
	"GAMEMODE":      "1",
	"MAPGROUP":      "mg_active",
	"MAPS":          "de_dust2 de_inferno de_mirage de_nuke de_train",
	"TV_PORT":       "27020",
	"TV_MAXCLIENTS": "10",
	"AUTOEXEC":      "server.cfg",
}

// ServerConfig is the effective instance configuration, produced once per
// operation by merging server.conf, the resolved preset, the gotv.conf
// overlay and the built-in defaults. It is passed by value downstream and
// never mutated after construction.
type ServerConfig struct {
	Hostname    string
	ServerTags  string
	IP          string
	Port        string
	WanIP       string
	MaxPlayers  string
	TickRate    string
	UseRcon     string
	APIKey      string
	GSLT        string
	CPUAffinity string
	GameType    string
	GameMode    string
	Maps        string
	Mapgroup    string
	Map         string

	WorkshopCollectionID string
	WorkshopMapID        string

	TVEnable     string
	TVPort       string
	TVMaxClients string
	TVRelay      string
	TVRelayPass  string
	TVTitleRaw   string

	Preset   string
	Autoexec string

	// Path of the loaded server.conf, kept for error messages
	SourceFile string
}

type ServerConfPaths struct {
	ConfigFile        string
	GOTVFile          string
	InstancePresetDir string
	SharedPresetDir   string
}

type PresetNotFoundError struct {
	Name     string
	Searched []string
}

func (e *PresetNotFoundError) Error() string {
	return fmt.Sprintf("preset %q not found (searched %s) - create %s.conf in one of those directories or change PRESET in %s",
		e.Name, strings.Join(e.Searched, ", "), e.Name, ServerConfFileName)
}

// InstanceServerConfPaths derives the conventional layer locations for this
// instance from the agent configuration.
func InstanceServerConfPaths() ServerConfPaths {
	cfg := GetConfig()
	return ServerConfPaths{
		ConfigFile:        filepath.Join(cfg.ConfigDir, ServerConfFileName),
		GOTVFile:          filepath.Join(cfg.ConfigDir, GOTVConfFileName),
		InstancePresetDir: filepath.Join(cfg.ConfigDir, PresetDirName),
		SharedPresetDir:   cfg.PresetDir,
	}
}

// LoadServerConfig assembles the effective configuration set. Later layers
// only fill keys the earlier layers left unset: server.conf always wins,
// then the preset, then the gotv.conf overlay, then the built-in defaults.
func LoadServerConfig(paths ServerConfPaths) (ServerConfig, error) {

	settings, err := loadConfLayer(paths.ConfigFile)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("loading %s: %w", paths.ConfigFile, err)
	}

	presetName := settings["PRESET"]
	if presetName == "" {
		presetName = DefaultPreset
	}

	if presetName != "none" {
		presetFile, err := resolvePresetFile(presetName, paths.InstancePresetDir, paths.SharedPresetDir)
		if err != nil {
			return ServerConfig{}, err
		}

		preset, err := loadConfLayer(presetFile)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("loading preset %s: %w", presetFile, err)
		}

		utils.DebugLogger.Printf("Loaded preset %s from %s\r\n", presetName, presetFile)
		mergeMissing(settings, preset)
	}

	if utils.CheckFileExists(paths.GOTVFile) {
		gotv, err := loadConfLayer(paths.GOTVFile)
		if err != nil {
			return ServerConfig{}, fmt.Errorf("loading %s: %w", paths.GOTVFile, err)
		}
		mergeMissing(settings, gotv)
	}

	mergeMissing(settings, builtinDefaults)

	cfg := newServerConfig(settings)
	cfg.Preset = presetName
	cfg.SourceFile = paths.ConfigFile

	return cfg, nil
}

func loadConfLayer(path string) (map[string]string, error) {
	file, err := ini.Load(path)
	if err != nil {
		return nil, err
	}

	return file.Section(ini.DefaultSection).KeysHash(), nil
}

func resolvePresetFile(name string, dirs ...string) (string, error) {
	searched := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		candidate := filepath.Join(dir, name+".conf")
		if utils.CheckFileExists(candidate) {
			return candidate, nil
		}
		searched = append(searched, dir)
	}

	return "", &PresetNotFoundError{Name: name, Searched: searched}
}

// mergeMissing fills dst from src without ever overriding a key dst already
// defines with a non-empty value.
func mergeMissing(dst map[string]string, src map[string]string) {
	for key, value := range src {
		if dst[key] == "" {
			dst[key] = value
		}
	}
}

func newServerConfig(settings map[string]string) ServerConfig {
	return ServerConfig{
		Hostname:             settings["HOSTNAME"],
		ServerTags:           settings["TAGS"],
		IP:                   settings["IP"],
		Port:                 settings["PORT"],
		WanIP:                settings["WAN_IP"],
		MaxPlayers:           settings["MAXPLAYERS"],
		TickRate:             settings["TICKRATE"],
		UseRcon:              settings["USE_RCON"],
		APIKey:               settings["APIKEY"],
		GSLT:                 settings["GSLT"],
		CPUAffinity:          settings["CPU_AFFINITY"],
		GameType:             settings["GAMETYPE"],
		GameMode:             settings["GAMEMODE"],
		Maps:                 settings["MAPS"],
		Mapgroup:             settings["MAPGROUP"],
		Map:                  settings["MAP"],
		WorkshopCollectionID: settings["WORKSHOP_COLLECTION_ID"],
		WorkshopMapID:        settings["WORKSHOP_MAP_ID"],
		TVEnable:             settings["TV_ENABLE"],
		TVPort:               settings["TV_PORT"],
		TVMaxClients:         settings["TV_MAXCLIENTS"],
		TVRelay:              settings["TV_RELAY"],
		TVRelayPass:          settings["TV_RELAYPASS"],
		TVTitleRaw:           settings["TV_TITLE"],
		Autoexec:             settings["AUTOEXEC"],
	}
}

// MapList returns the configured map rotation in order.
func (c ServerConfig) MapList() []string {
	return strings.Fields(c.Maps)
}

// FirstMap resolves the map to load in static-mapgroup mode: the explicit
// MAP key if set, otherwise the first entry of MAPS. Backslash separators
// from copy-pasted Windows paths are normalized.
func (c ServerConfig) FirstMap() string {
	m := c.Map
	if m == "" {
		if maps := c.MapList(); len(maps) > 0 {
			m = maps[0]
		}
	}

	return strings.ReplaceAll(m, "\\", "/")
}

// Title is the display hostname, truncated to the engine's 64 character
// limit.
func (c ServerConfig) Title() string {
	title := c.Hostname
	if len(title) > maxTitleLength {
		title = title[:maxTitleLength]
	}

	return title
}

// Tags renders the configured tag list as the comma-separated string the
// server expects.
func (c ServerConfig) Tags() string {
	return strings.Join(strings.Fields(c.ServerTags), ",")
}

// TVTitle is the GOTV broadcast title, derived from the display title unless
// set explicitly.
func (c ServerConfig) TVTitle() string {
	if c.TVTitleRaw != "" {
		return c.TVTitleRaw
	}

	return c.Title() + " GOTV"
}

// GOTVEnabled reports whether the GOTV block should be emitted at all.
func (c ServerConfig) GOTVEnabled() bool {
	return isEnabled(c.TVEnable)
}

// RconEnabled reports whether the remote console flag should be emitted.
func (c ServerConfig) RconEnabled() bool {
	return isEnabled(c.UseRcon)
}

func isEnabled(value string) bool {
	switch strings.ToLower(value) {
	case "1", "true", "yes", "on":
		return true
	}

	return false
}
