package srcds

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/SourceServerManager/srcds-agent/app/vars"
)

const (
	StartScriptName  = "start-server.sh"
	ExitCodeFileName = "server.exit-code"
	LatestLogName    = "server.log"
)

// ScriptParams is everything the emitted startup script needs baked in.
type ScriptParams struct {
	ServerDir    string
	LogFile      string
	ExitCodeFile string
	Affinity     string
	Cores        int
	Args         []string
}

// PrepareLogFile computes this run's timestamped log path and repoints the
// stable symlink at it.
func PrepareLogFile(logDir string, now time.Time) (string, error) {
	logFile := filepath.Join(logDir, now.Format("20060102-150405")+"-"+LatestLogName)

	if err := RotateLogSymlink(logDir, logFile); err != nil {
		return "", err
	}

	return logFile, nil
}

// RotateLogSymlink replaces the server.log symlink so it always points at
// the most recent run's log. Safe to call repeatedly.
func RotateLogSymlink(logDir string, logFile string) error {
	link := filepath.Join(logDir, LatestLogName)

	if _, err := os.Lstat(link); err == nil {
		if err := os.Remove(link); err != nil {
			return err
		}
	}

	return os.Symlink(logFile, link)
}

// BuildStartScript renders the supervised startup script: change into the
// server directory, run the binary unbuffered under the pinning tool when
// affinity is configured, duplicate combined output into the per-run log
// while streaming to the session, then record the exit code.
func BuildStartScript(p ScriptParams) string {

	var script strings.Builder

	script.WriteString("#!/bin/bash\n\n")
	fmt.Fprintf(&script, "cd %s\n\n", quoteArg(p.ServerDir))

	launch := "./" + vars.ExeName
	if p.Affinity != "" {
		fmt.Fprintf(&script, "echo \"cpu affinity: %s (%d cores detected)\"\n", p.Affinity, p.Cores)
		launch = vars.PinTool + " -c " + p.Affinity + " " + launch
	}

	fmt.Fprintf(&script, "stdbuf -i0 -o0 -e0 %s %s 2>&1 | tee -a %s\n",
		launch, QuoteArgs(p.Args), quoteArg(p.LogFile))

	script.WriteString("code=${PIPESTATUS[0]}\n")
	script.WriteString("echo \"server exited with code ${code}\"\n")
	fmt.Fprintf(&script, "echo ${code} > %s\n", quoteArg(p.ExitCodeFile))

	return script.String()
}

// WriteStartScript persists the script into the run-scoped tmp dir and makes
// it executable.
func WriteStartScript(tmpDir string, content string) (string, error) {
	scriptPath := filepath.Join(tmpDir, StartScriptName)

	if err := os.WriteFile(scriptPath, []byte(content), 0755); err != nil {
		return "", fmt.Errorf("writing start script: %w", err)
	}

	return scriptPath, nil
}

// ReadLastExitCode retrieves the exit status the startup script persisted
// for the previous run.
func ReadLastExitCode(tmpDir string) (int, error) {
	data, err := os.ReadFile(filepath.Join(tmpDir, ExitCodeFileName))
	if err != nil {
		return 0, err
	}

	return strconv.Atoi(strings.TrimSpace(string(data)))
}
