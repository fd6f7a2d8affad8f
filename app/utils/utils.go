package utils

import (
	"errors"
	"io"
	"log"
	"os"
	"path/filepath"
)

var (
	DebugLogger *log.Logger
	InfoLogger  *log.Logger
	WarnLogger  *log.Logger
	ErrorLogger *log.Logger
	GameLogger  *log.Logger
)

func init() {
	// File-backed loggers are attached by SetupLoggers once the log dir is
	// known; until then everything goes to stdout.
	DebugLogger = log.New(os.Stdout, "[ DEBUG ] ", log.Ldate|log.Ltime)
	InfoLogger = log.New(os.Stdout, "[ INFO ] ", log.Ldate|log.Ltime)
	WarnLogger = log.New(os.Stdout, "[ WARN ] ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(os.Stdout, "[ ERROR ] ", log.Ldate|log.Ltime)
	GameLogger = log.New(os.Stdout, "[ SRCDS ] ", log.Ldate|log.Ltime)
}

func CheckError(err error) {
	if err != nil {
		log.Fatal(err)
	}
}

func CreateFolder(folderPath string) error {
	if _, err := os.Stat(folderPath); errors.Is(err, os.ErrNotExist) {
		err := os.MkdirAll(folderPath, os.ModePerm)
		if err != nil {
			return err
		}
	}
	return nil
}

func CheckFileExists(filepath string) bool {
	_, err := os.Stat(filepath)
	return !os.IsNotExist(err)
}

func SetupLoggers(logDir string) {
	logFile := filepath.Join(logDir, "srcds-agent-combined.log")
	errorlogFile := filepath.Join(logDir, "srcds-agent-error.log")
	gamelogFile := filepath.Join(logDir, "srcds-agent-game.log")

	if CheckFileExists(logFile) {
		os.Remove(logFile)
	}
	if CheckFileExists(errorlogFile) {
		os.Remove(errorlogFile)
	}
	if CheckFileExists(gamelogFile) {
		os.Remove(gamelogFile)
	}

	f, err := os.OpenFile(logFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0777)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}
	errorf, err := os.OpenFile(errorlogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0777)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}

	gamef, err := os.OpenFile(gamelogFile, os.O_RDWR|os.O_CREATE|os.O_APPEND, 0777)
	if err != nil {
		log.Fatalf("error opening file: %v", err)
	}

	wrt := io.MultiWriter(os.Stdout, f)
	errorwrt := io.MultiWriter(wrt, errorf)
	gamewrt := io.MultiWriter(wrt, gamef)

	log.SetOutput(wrt)

	DebugLogger = log.New(os.Stdout, "[ DEBUG ] ", log.Ldate|log.Ltime)
	InfoLogger = log.New(wrt, "[ INFO ] ", log.Ldate|log.Ltime)
	WarnLogger = log.New(wrt, "[ WARN ] ", log.Ldate|log.Ltime)
	ErrorLogger = log.New(errorwrt, "[ ERROR ] ", log.Ldate|log.Ltime)
	GameLogger = log.New(gamewrt, "[ SRCDS ] ", log.Ldate|log.Ltime)

	InfoLogger.Printf("Log File Location: %s", logFile)
}
