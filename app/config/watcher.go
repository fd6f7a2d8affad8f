package config

import (
	"path/filepath"

	"github.com/SourceServerManager/srcds-agent/app/utils"
	"github.com/fsnotify/fsnotify"
)

var _watcher *fsnotify.Watcher

// InitConfigWatcher watches the instance config dir. Layer files are only
// read at launch time, so an edit while the server runs just gets flagged as
// needing a restart.
func InitConfigWatcher() {
	utils.InfoLogger.Println("Initialising Config Watcher...")

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		utils.ErrorLogger.Printf("Error creating config watcher: %s\r\n", err.Error())
		return
	}
	_watcher = watcher

	if err := _watcher.Add(GetConfig().ConfigDir); err != nil {
		utils.ErrorLogger.Printf("Error watching config dir: %s\r\n", err.Error())
		return
	}

	go func() {
		for {
			select {
			case event, ok := <-_watcher.Events:
				if !ok {
					return
				}
				if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
					continue
				}

				switch filepath.Base(event.Name) {
				case ServerConfFileName, GOTVConfFileName:
					utils.WarnLogger.Printf("%s changed - the running server keeps its old settings until the next launch\r\n", event.Name)
				}
			case err, ok := <-_watcher.Errors:
				if !ok {
					return
				}
				utils.ErrorLogger.Printf("Config watcher error: %s\r\n", err.Error())
			}
		}
	}()

	utils.InfoLogger.Println("Initialised Config Watcher")
}

func ShutdownConfigWatcher() error {
	if _watcher == nil {
		return nil
	}

	return _watcher.Close()
}
