package backup

import (
	"archive/zip"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/SourceServerManager/srcds-agent/app/config"
	"github.com/SourceServerManager/srcds-agent/app/utils"
)

var _quit = make(chan int)

func InitBackupManager() {

	utils.InfoLogger.Println("Initialising Backup Manager...")

	ticker := time.NewTicker(1 * time.Minute)
	go func() {
		for {
			select {
			case <-ticker.C:
				AutoBackup()
			case <-_quit:
				ticker.Stop()
				return
			}
		}
	}()

	utils.InfoLogger.Println("Initialised Backup Manager")
}

func ShutdownBackupManager() error {
	_quit <- 0
	return nil
}

func AutoBackup() {
	t := time.Now()

	if t.After(config.GetConfig().Backup.NextBackup) {
		if err := CreateBackupFile(); err != nil {
			utils.ErrorLogger.Printf("Error creating config backup: %s\r\n", err.Error())
		}

		nextAdd := time.Duration(config.GetConfig().Backup.Interval) * time.Hour

		config.GetConfig().Backup.NextBackup = t.Add(nextAdd)
		config.SaveConfig()
	}
}

// CreateBackupFile zips the instance config dir into the backup dir and
// prunes backups beyond the configured keep count.
func CreateBackupFile() error {
	t := time.Now()

	backupName := fmt.Sprintf("configs-%s.zip", t.Format("20060102-150405"))
	backupFile := filepath.Join(config.GetConfig().BackupDir, backupName)

	utils.InfoLogger.Printf("Creating config backup: %s\r\n", backupFile)

	archive, err := os.Create(backupFile)
	if err != nil {
		return err
	}
	defer archive.Close()

	writer := zip.NewWriter(archive)
	defer writer.Close()

	configDir := config.GetConfig().ConfigDir

	err = filepath.Walk(configDir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}

		relPath, err := filepath.Rel(configDir, path)
		if err != nil {
			return err
		}

		entry, err := writer.Create(filepath.ToSlash(relPath))
		if err != nil {
			return err
		}

		file, err := os.Open(path)
		if err != nil {
			return err
		}
		defer file.Close()

		_, err = io.Copy(entry, file)
		return err
	})

	if err != nil {
		return err
	}

	return pruneBackups()
}

func pruneBackups() error {
	entries, err := os.ReadDir(config.GetConfig().BackupDir)
	if err != nil {
		return err
	}

	backups := make([]string, 0)
	for _, entry := range entries {
		if strings.HasPrefix(entry.Name(), "configs-") && strings.HasSuffix(entry.Name(), ".zip") {
			backups = append(backups, entry.Name())
		}
	}

	keep := config.GetConfig().Backup.Keep
	if len(backups) <= keep {
		return nil
	}

	// Timestamped names sort oldest first
	sort.Strings(backups)

	for _, name := range backups[:len(backups)-keep] {
		utils.DebugLogger.Printf("Pruning old backup %s\r\n", name)
		if err := os.Remove(filepath.Join(config.GetConfig().BackupDir, name)); err != nil {
			return err
		}
	}

	return nil
}
