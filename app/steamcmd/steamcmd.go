package steamcmd

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/SourceServerManager/srcds-agent/app/config"
	"github.com/SourceServerManager/srcds-agent/app/vars"
)

var (
	SteamDir = ""
)

func InitSteamCMD() {

	SteamDir = filepath.Join(config.GetConfig().DataDir, "steamcmd")
	err := os.MkdirAll(SteamDir, os.ModePerm)
	if err != nil {
		log.Printf("Error creating steam cmd dir %s\r\n", err.Error())
		return
	}

	err = DownloadSteamCMD()
	if err != nil {
		log.Printf("Error downloading steam cmd %s\r\n", err.Error())
		return
	}

	log.Println("Running Steam CMD Validation..")
	commands := make([]string, 0)
	_, err = Run(commands)
	if err != nil {
		log.Printf("Error running steam validation %s\r\n", err.Error())
		return
	}

	log.Println("Steam CMD is Valid")
}

func DownloadSteamCMD() error {

	steamExe := filepath.Join(SteamDir, vars.SteamExeName)

	_, err := os.Stat(steamExe)
	if !os.IsNotExist(err) {
		return nil
	}

	file, err := os.CreateTemp(os.TempDir(), "srcds_agent_temp_*."+vars.Extension)
	if err != nil {
		return err
	}

	log.Printf("Downloading Steam CMD to: %s\r\n", file.Name())

	resp, err := http.Get(vars.DownloadURL)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	out, err := os.Create(file.Name())
	if err != nil {
		return err
	}

	_, err = io.Copy(out, resp.Body)
	if err != nil {
		return err
	}

	err = out.Close()
	if err != nil {
		return err
	}

	return ExtractArchive(file)
}

func IsInstalled() bool {
	steamExe := filepath.Join(SteamDir, vars.SteamExeName)
	_, err := os.Stat(steamExe)
	return !os.IsNotExist(err)
}

func BuildScriptFile(commands []string) (string, error) {

	allCommands := make([]string, 0)

	allCommands = append(allCommands, "@ShutdownOnFailedCommand 1")
	allCommands = append(allCommands, "@NoPromptForPassword 1")
	allCommands = append(allCommands, "login anonymous")
	allCommands = append(allCommands, commands...)
	allCommands = append(allCommands, "quit")

	tempfile, err := os.CreateTemp(os.TempDir(), "srcds_agent_temp_*.txt")
	if err != nil {
		return "", err
	}

	file, err := os.OpenFile(tempfile.Name(), os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)

	if err != nil {
		return "", err
	}

	datawriter := bufio.NewWriter(file)

	for _, data := range allCommands {
		_, _ = datawriter.WriteString(data + "\n")
	}

	datawriter.Flush()
	file.Close()

	return tempfile.Name(), nil
}

func Run(commands []string) (string, error) {
	steamExe := filepath.Join(SteamDir, vars.SteamExeName)

	tempFilePath, err := BuildScriptFile(commands)

	if err != nil {
		return "", err
	}

	exeArgs := make([]string, 0)
	exeArgs = append(exeArgs, steamExe)
	exeArgs = append(exeArgs, "+runscript "+tempFilePath)

	cmd := exec.Command(steamExe, exeArgs...)

	var out bytes.Buffer
	var stderr bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &stderr

	if err := cmd.Run(); err != nil {
		if err.Error() != "exit status 7" {
			return "", err
		}
	}

	return out.String(), nil
}

// InstallServer installs or updates the dedicated server into the configured
// server dir through a scripted app_update.
func InstallServer() (string, error) {
	commands := make([]string, 0)
	commands = append(commands, "force_install_dir "+config.GetConfig().ServerDir)
	commands = append(commands, fmt.Sprintf("app_update %d validate", vars.ServerAppID))

	return Run(commands)
}

// GetLatestBuild queries steam app info for the current public build id of
// the dedicated server.
func GetLatestBuild() (int, error) {
	out, err := Run([]string{"app_info_update 1", fmt.Sprintf("app_info_print %d", vars.ServerAppID)})
	if err != nil {
		return 0, err
	}

	return parseBuildID(out)
}

var buildIDPattern = regexp.MustCompile(`"buildid"\s+"([0-9]+)"`)

// parseBuildID pulls the public-branch buildid out of steamcmd's app info
// dump, which is VDF rather than anything structured.
func parseBuildID(appInfo string) (int, error) {
	section := appInfo
	if idx := strings.Index(appInfo, `"public"`); idx >= 0 {
		section = appInfo[idx:]
	}

	match := buildIDPattern.FindStringSubmatch(section)
	if match == nil {
		return 0, errors.New("no buildid found in app info")
	}

	return strconv.Atoi(match[1])
}
