package srcds

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/SourceServerManager/srcds-agent/app/affinity"
	"github.com/SourceServerManager/srcds-agent/app/config"
	"github.com/SourceServerManager/srcds-agent/app/console"
	"github.com/SourceServerManager/srcds-agent/app/network"
	"github.com/SourceServerManager/srcds-agent/app/services/state"
	"github.com/SourceServerManager/srcds-agent/app/utils"
	"github.com/SourceServerManager/srcds-agent/app/vars"
	"github.com/shirou/gopsutil/process"
)

var (
	SRCDS_PID int32   = -1
	_quit             = make(chan int)
	cpuUsage  float64 = 0.0
	memUsage  float32 = 0.0

	// Swappable in tests
	_finder  network.ProcessFinder = network.DefaultFinder
	_console console.Console
)

// InitConsole wires the admin console session for this instance. One-shot
// actions call it directly, without the monitoring loop.
func InitConsole() {
	_console = console.New(sessionName())
}

func InitSrcdsHandler() {

	utils.InfoLogger.Println("Initalising SRCDS Handler...")

	InitConsole()

	if config.GetConfig().Server.UpdateOnStart {
		if err := UpdateServer(); err != nil {
			utils.ErrorLogger.Printf("Error updating server: %s\r\n", err.Error())
		}
	}

	SRCDS_PID = GetServerPID()
	SendStates()

	ticker := time.NewTicker(30 * time.Second)
	go func() {
		for {
			select {
			case <-ticker.C:
				SRCDS_PID = GetServerPID()
				SendStates()
			case <-_quit:
				ticker.Stop()
				return
			}
		}
	}()

	utils.InfoLogger.Println("Initalised SRCDS Handler")
}

// ShutdownSrcdsHandler stops the agent's monitoring only. The server itself
// stays up; stopping it is an explicit operator action.
func ShutdownSrcdsHandler() error {
	utils.InfoLogger.Println("Shutting down SRCDS Handler")

	_quit <- 0

	SRCDS_PID = -1

	utils.InfoLogger.Println("Shut down SRCDS Handler")
	return nil
}

// StartServer runs the full launch sequence: merge the config layers, gate
// on the preconditions, build the argument vector and hand the emitted
// startup script to the admin console session. Every fatal condition aborts
// before any process is spawned.
func StartServer() error {

	SRCDS_PID = GetServerPID()

	if IsRunning() {
		utils.InfoLogger.Println("Server is already running")
		return nil
	}

	if !IsInstalled() {
		return fmt.Errorf("server is not installed in %s - run the install action first", config.GetConfig().ServerDir)
	}

	cfg, err := config.LoadServerConfig(config.InstanceServerConfPaths())
	if err != nil {
		return err
	}

	checkLoginToken(cfg)

	if err := affinity.Validate(cfg.CPUAffinity); err != nil {
		return err
	}

	port, err := serverPort(cfg)
	if err != nil {
		return err
	}

	if err := network.CheckPortAvailable(_finder, port, cfg.SourceFile); err != nil {
		return err
	}

	if cfg.WanIP == "auto" {
		cfg.WanIP = network.GetPublicIP()
		utils.InfoLogger.Printf("Resolved public address: %s\r\n", cfg.WanIP)
	}

	utils.InfoLogger.Printf("Starting server %q..\r\n", cfg.Title())

	logFile, err := PrepareLogFile(config.GetConfig().LogDir, time.Now())
	if err != nil {
		return err
	}

	script := BuildStartScript(ScriptParams{
		ServerDir:    config.GetConfig().ServerDir,
		LogFile:      logFile,
		ExitCodeFile: filepath.Join(config.GetConfig().TmpDir, ExitCodeFileName),
		Affinity:     cfg.CPUAffinity,
		Cores:        affinity.HostCores(),
		Args:         BuildStartArgs(cfg),
	})

	scriptPath, err := WriteStartScript(config.GetConfig().TmpDir, script)
	if err != nil {
		return err
	}

	if err := _console.Launch(scriptPath); err != nil {
		return err
	}

	time.Sleep(5 * time.Second)
	SRCDS_PID = GetServerPID()

	utils.InfoLogger.Println("Started server")
	utils.InfoLogger.Printf("Started process with pid: %d\r\n", SRCDS_PID)

	SendStates()

	return nil
}

// AnnounceUpdate broadcasts an imminent-shutdown notice to connected
// players. Best-effort: a gone session is not a failure.
func AnnounceUpdate() {
	err := _console.Send("say Server is going down for maintenance shortly - finish up your round")
	if err != nil {
		utils.WarnLogger.Printf("Could not announce shutdown: %s\r\n", err.Error())
	}
}

// StopServer requests a graceful quit through the admin console.
func StopServer() error {

	utils.InfoLogger.Println("Shutting down server...")

	if err := _console.Send("quit"); err != nil {
		return err
	}

	SRCDS_PID = -1
	SendStates()

	utils.InfoLogger.Println("Server shutdown requested")
	return nil
}

// KillServer force-terminates the instance. The target is re-resolved from
// the socket table on every call, never cached: the process survives loss of
// its controlling terminal, so the session is no use here.
func KillServer() error {

	cfg, err := config.LoadServerConfig(config.InstanceServerConfPaths())
	if err != nil {
		return err
	}

	port, err := serverPort(cfg)
	if err != nil {
		return err
	}

	if err := killProcessOnPort(_finder, port); err != nil {
		return err
	}

	SRCDS_PID = -1
	SendStates()

	return nil
}

func killProcessOnPort(finder network.ProcessFinder, port uint32) error {
	pid, ok, err := finder.FindProcessByPort("udp", port)
	if err != nil {
		return err
	}

	if !ok {
		utils.InfoLogger.Printf("Kill skipped - no process bound to port %d\r\n", port)
		return nil
	}

	utils.InfoLogger.Printf("Killing server process %d...\r\n", pid)

	serverProcess, err := process.NewProcess(pid)
	if err != nil {
		return err
	}

	if err := serverProcess.Kill(); err != nil {
		return err
	}

	utils.InfoLogger.Println("Server is now killed")
	return nil
}

// GetServerPID resolves the process bound to the configured UDP port, or -1.
func GetServerPID() int32 {

	utils.DebugLogger.Println("Getting process id for server")

	cfg, err := config.LoadServerConfig(config.InstanceServerConfPaths())
	if err != nil {
		utils.ErrorLogger.Printf("Error loading server config: %s\r\n", err.Error())
		return -1
	}

	port, err := serverPort(cfg)
	if err != nil {
		utils.ErrorLogger.Println(err.Error())
		return -1
	}

	pid, ok, err := _finder.FindProcessByPort("udp", port)
	if err != nil {
		utils.ErrorLogger.Printf("Error querying socket table: %s\r\n", err.Error())
		return -1
	}

	if !ok {
		utils.DebugLogger.Println("Couldn't find process id, Server not running?")
		cpuUsage = 0.0
		memUsage = 0.0
		return -1
	}

	if serverProcess, err := process.NewProcess(pid); err == nil {
		cpuUsage, _ = serverProcess.CPUPercent()
		memUsage, _ = serverProcess.MemoryPercent()
	}

	utils.DebugLogger.Printf("Successfully found server PID: %s\r\n", strconv.Itoa(int(pid)))
	return pid
}

func IsRunning() bool {
	return SRCDS_PID != -1
}

func IsInstalled() bool {
	serverExe := filepath.Join(config.GetConfig().ServerDir, vars.ExeName)
	_, err := os.Stat(serverExe)
	return !os.IsNotExist(err)
}

func SendStates() {
	state.Installed = IsInstalled()
	state.Running = IsRunning()
	state.CPU = cpuUsage
	state.MEM = memUsage
	state.InstalledBuild = config.GetConfig().Server.InstalledBuild
	state.LatestBuild = config.GetConfig().Server.AvailableBuild
}

// LogStatus reports the instance state, including the last recorded exit
// code if any run has completed.
func LogStatus() {
	SRCDS_PID = GetServerPID()
	SendStates()

	utils.InfoLogger.Printf("Installed: %t, Running: %t, PID: %d, CPU: %.1f%%, MEM: %.1f%%\r\n",
		state.Installed, state.Running, SRCDS_PID, state.CPU, state.MEM)

	if code, err := ReadLastExitCode(config.GetConfig().TmpDir); err == nil {
		utils.InfoLogger.Printf("Last recorded exit code: %d\r\n", code)
	}
}

func checkLoginToken(cfg config.ServerConfig) {
	if cfg.GSLT == "" {
		utils.WarnLogger.Printf("No GSLT configured - the server will run without a login token and with reduced matchmaking visibility. Set GSLT in %s to change this.\r\n", cfg.SourceFile)
	}
}

func serverPort(cfg config.ServerConfig) (uint32, error) {
	port, err := strconv.ParseUint(cfg.Port, 10, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid PORT value %q in %s: %w", cfg.Port, cfg.SourceFile, err)
	}

	return uint32(port), nil
}

func sessionName() string {
	instanceName := flag.Lookup("name").Value.(flag.Getter).Get().(string)
	return "srcds-" + instanceName
}
