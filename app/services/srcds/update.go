package srcds

import (
	"os"

	"github.com/SourceServerManager/srcds-agent/app/config"
	"github.com/SourceServerManager/srcds-agent/app/steamcmd"
	"github.com/SourceServerManager/srcds-agent/app/utils"
)

func RemoveServer() error {

	utils.InfoLogger.Println("Removing existing server installation..")
	err := os.RemoveAll(config.GetConfig().ServerDir)

	if err != nil {
		return err
	}
	utils.InfoLogger.Println("Removed server installation")
	return nil
}

func InstallServer(force bool) error {

	if IsRunning() {
		utils.InfoLogger.Println("Install skipped - Server is running")
		return nil
	}

	if IsInstalled() && !force {
		return nil
	} else if IsInstalled() && force {
		if err := RemoveServer(); err != nil {
			utils.ErrorLogger.Printf("Error removing existing server install %s\r\n", err.Error())
			return err
		}
	}

	utils.InfoLogger.Println("Installing server..")

	_, err := steamcmd.InstallServer()
	if err != nil {
		utils.ErrorLogger.Printf("Error installing server %s\r\n", err.Error())
		return err
	}

	utils.InfoLogger.Println("Installed server!")

	config.GetConfig().Server.InstalledBuild = config.GetConfig().Server.AvailableBuild
	config.SaveConfig()

	SendStates()

	return nil
}

func UpdateServer() error {
	RefreshLatestBuild()

	installed := config.GetConfig().Server.InstalledBuild
	available := config.GetConfig().Server.AvailableBuild
	if installed < available {
		utils.InfoLogger.Printf("Found newer server build - Installed %d, Available: %d", installed, available)
		return InstallServer(true)
	}

	return nil
}

func RefreshLatestBuild() {

	build, err := steamcmd.GetLatestBuild()

	if err != nil {
		utils.ErrorLogger.Printf("Couldn't get latest build from steam app info with error: %s", err.Error())
		return
	}

	utils.InfoLogger.Printf("Found latest server build: %d", build)

	config.GetConfig().Server.AvailableBuild = build
	config.SaveConfig()
}
