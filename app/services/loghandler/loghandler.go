// Package loghandler follows the live server log and mirrors its lines into
// the agent's game logger, so one combined agent log tells the whole story.
package loghandler

import (
	"path/filepath"

	"github.com/SourceServerManager/srcds-agent/app/config"
	"github.com/SourceServerManager/srcds-agent/app/services/srcds"
	"github.com/SourceServerManager/srcds-agent/app/utils"
	"github.com/hpcloud/tail"
)

var (
	tails []*tail.Tail
)

func watchFile(filePath string) (*tail.Tail, error) {
	// Follow through the symlink: it is re-pointed on every launch, ReOpen
	// picks up the new target.
	t, err := tail.TailFile(filePath, tail.Config{
		Follow:    true,
		ReOpen:    true,
		MustExist: false,
		Poll:      true,
		Location:  &tail.SeekInfo{Offset: 0, Whence: 2},
	})
	if err != nil {
		return nil, err
	}

	go func() {
		for line := range t.Lines {
			if line.Err != nil {
				utils.ErrorLogger.Printf("Error reading line from %s: %v\n", filePath, line.Err)
				continue
			}
			utils.GameLogger.Println(line.Text)
		}
	}()

	return t, nil
}

func InitLogHandler() {
	utils.InfoLogger.Println("Initialising Log Handler...")

	serverLog := filepath.Join(config.GetConfig().LogDir, srcds.LatestLogName)

	t, err := watchFile(serverLog)
	if err != nil {
		utils.ErrorLogger.Printf("Error setting up tail for server log: %v\n", err)
	} else {
		tails = append(tails, t)
	}

	utils.InfoLogger.Println("Initialised Log Handler")
}

func ShutdownLogHandler() error {
	utils.InfoLogger.Println("Shutting down Log Handler")

	for _, t := range tails {
		utils.DebugLogger.Printf("Stopping tail for %s\n", t.Filename)
		t.Kill(nil)
		t.Cleanup()

		utils.DebugLogger.Printf("Stopped tail for %s\n", t.Filename)
	}
	tails = nil

	utils.InfoLogger.Println("Shutdown Log Handler")
	return nil
}
