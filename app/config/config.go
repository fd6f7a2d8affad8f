package config

import (
	"encoding/json"
	"flag"
	"io"
	"log"
	"os"
	"path"
	"path/filepath"
	"time"

	"github.com/SourceServerManager/srcds-agent/app/utils"
)

var (
	_config        *Config
	ConfigFileName = "Agent.json"
	ConfigFile     = ""
	AgentHomeDir   = ""
)

type ServerConfigSettings struct {
	UpdateOnStart  bool `json:"updateOnStart"`
	InstalledBuild int  `json:"installedBuild"`
	AvailableBuild int  `json:"availableBuild"`
}

type BackupSettings struct {
	Interval   int       `json:"interval"`
	Keep       int       `json:"keep"`
	NextBackup time.Time `json:"nextBackup"`
}

type Config struct {
	HomeDir   string               `json:"homedir"`
	DataDir   string               `json:"datadir"`
	ServerDir string               `json:"serverdir"`
	ConfigDir string               `json:"configdir"`
	PresetDir string               `json:"presetdir"`
	LogDir    string               `json:"logdir"`
	TmpDir    string               `json:"tmpdir"`
	BackupDir string               `json:"backupdir"`
	Server    ServerConfigSettings `json:"server"`
	Backup    BackupSettings       `json:"backup"`
}

func LoadConfigFile() {

	homedir, err := os.UserHomeDir()
	if err != nil {
		log.Fatal(err)
	}

	AgentBaseDir, _ := filepath.Abs(path.Join(homedir, "srcds-agent", "instances"))

	instanceName := flag.Lookup("name").Value.(flag.Getter).Get().(string)
	AgentHomeDir, _ = filepath.Abs(path.Join(AgentBaseDir, instanceName))
	ConfigsDir, _ := filepath.Abs(path.Join(AgentHomeDir, "configs"))
	ConfigFile, _ = filepath.Abs(path.Join(ConfigsDir, ConfigFileName))

	utils.CreateFolder(ConfigsDir)

	newConfig := Config{}

	if !utils.CheckFileExists(ConfigFile) {
		file, err := os.Create(ConfigFile)
		if err != nil {
			log.Fatal(err)
		}
		file.Close()
	}

	f, err := os.Open(ConfigFile)
	if err != nil {
		panic(err)
	}
	defer f.Close()

	byteValue, _ := io.ReadAll(f)

	json.Unmarshal(byteValue, &newConfig)
	_config = &newConfig

	SetDefaultValues()

	SaveConfig()
}

func SetDefaultValues() {
	if _config.HomeDir == "" {
		_config.HomeDir = AgentHomeDir
	}

	if _config.ConfigDir == "" {
		_config.ConfigDir, _ = filepath.Abs(path.Join(AgentHomeDir, "configs"))
	}

	if _config.LogDir == "" {
		_config.LogDir, _ = filepath.Abs(path.Join(AgentHomeDir, "logs"))
	}

	if _config.TmpDir == "" {
		_config.TmpDir, _ = filepath.Abs(path.Join(AgentHomeDir, "tmp"))
	}

	if _config.BackupDir == "" {
		_config.BackupDir, _ = filepath.Abs(path.Join(AgentHomeDir, "backups"))
	}

	_config.DataDir = flag.Lookup("datadir").Value.(flag.Getter).Get().(string)
	_config.DataDir, _ = filepath.Abs(_config.DataDir)
	_config.ServerDir = filepath.Join(_config.DataDir, "server")
	_config.PresetDir = filepath.Join(_config.DataDir, "presets")

	if _config.Backup.Interval == 0 {
		_config.Backup.Interval = 24
	}

	if _config.Backup.Keep == 0 {
		_config.Backup.Keep = 7
	}

	utils.CreateFolder(_config.DataDir)
	utils.CreateFolder(_config.ServerDir)
	utils.CreateFolder(_config.PresetDir)
	utils.CreateFolder(_config.LogDir)
	utils.CreateFolder(_config.TmpDir)
	utils.CreateFolder(_config.BackupDir)

	utils.SetupLoggers(_config.LogDir)

	log.Printf("Config File Location: %s", ConfigFile)
}

func GetConfig() *Config {
	if _config == nil {
		LoadConfigFile()
	}

	return _config
}

func SaveConfig() {
	file, _ := json.MarshalIndent(GetConfig(), "", "    ")

	err := os.WriteFile(ConfigFile, file, 0755)

	if err != nil {
		panic(err)
	}
}
