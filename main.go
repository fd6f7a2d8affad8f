package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/SourceServerManager/srcds-agent/app/config"
	"github.com/SourceServerManager/srcds-agent/app/services/backup"
	"github.com/SourceServerManager/srcds-agent/app/services/loghandler"
	"github.com/SourceServerManager/srcds-agent/app/services/srcds"
	"github.com/SourceServerManager/srcds-agent/app/services/state"
	"github.com/SourceServerManager/srcds-agent/app/steamcmd"
	"github.com/SourceServerManager/srcds-agent/app/utils"
)

func isFlagPassed(name string) bool {
	found := false
	flag.Visit(func(f *flag.Flag) {
		if f.Name == name {
			found = true
		}
	})
	return found
}

func main() {
	flag.String("name", "", "The name of the server instance")
	flag.String("datadir", "/srcds/data", "The directory where the server and Steam will be stored")
	action := flag.String("action", "agent", "One-shot action: start, stop, kill, announce, status, install, update. Defaults to running the resident agent")

	flag.Parse()

	if !isFlagPassed("name") {
		log.Fatal("Instance name flag was not passed!")
	}

	config.GetConfig()

	if *action != "agent" {
		runAction(*action)
		return
	}

	wait := gracefulShutdown(context.Background(), 30*time.Second, map[string]operation{
		"main": func(ctx context.Context) error {
			state.MarkAgentOffline()
			return nil
		},
		"srcds": func(ctx context.Context) error {
			return srcds.ShutdownSrcdsHandler()
		},
		"loghandler": func(ctx context.Context) error {
			return loghandler.ShutdownLogHandler()
		},
		"backup": func(ctx context.Context) error {
			return backup.ShutdownBackupManager()
		},
		"configwatcher": func(ctx context.Context) error {
			return config.ShutdownConfigWatcher()
		},
	})

	state.MarkAgentOnline()

	steamcmd.InitSteamCMD()
	srcds.InitSrcdsHandler()

	go loghandler.InitLogHandler()
	go backup.InitBackupManager()
	go config.InitConfigWatcher()

	<-wait

}

func runAction(action string) {

	switch action {
	case "start":
		srcds.InitConsole()
		utils.CheckError(srcds.StartServer())
	case "stop":
		srcds.InitConsole()
		utils.CheckError(srcds.StopServer())
	case "kill":
		utils.CheckError(srcds.KillServer())
	case "announce":
		srcds.InitConsole()
		srcds.AnnounceUpdate()
	case "status":
		srcds.LogStatus()
	case "install":
		steamcmd.InitSteamCMD()
		srcds.RefreshLatestBuild()
		utils.CheckError(srcds.InstallServer(false))
	case "update":
		steamcmd.InitSteamCMD()
		utils.CheckError(srcds.UpdateServer())
	default:
		log.Fatalf("Unknown action %q", action)
	}
}
