package logger

import (
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fatih/color"
	"gopkg.in/natefinch/lumberjack.v2"

	"discord-warden/internal/config"
)

type level int

const (
	levelDebug level = iota
	levelInfo
	levelWarning
	levelError
)

var (
	// console signs per level
	debugSign = color.CyanString("d")
	infoSign  = color.YellowString("i")
	warnSign  = color.MagentaString("!")
	errorSign = color.RedString("x")

	minLevel = levelInfo
	std      = log.Default()
)

// createLogFilePath generates a log file path with the current date
func createLogFilePath(logDir, prefix string) string {
	currentDate := time.Now().Format("2006-01-02")
	return filepath.Join(logDir, fmt.Sprintf("%s-%s.log", prefix, currentDate))
}

// createRotatingLogger creates a lumberjack rotating logger
func createRotatingLogger(logFilePath string, cfg *config.Config) *lumberjack.Logger {
	return &lumberjack.Logger{
		Filename:   logFilePath,
		MaxSize:    cfg.Logger.Rotation.MaxSize,
		MaxBackups: cfg.Logger.Rotation.MaxBackups,
		MaxAge:     cfg.Logger.Rotation.MaxAge,
		Compress:   cfg.Logger.Rotation.Compress,
	}
}

// Setup configures logging to output to both stdout and a rotating log file
func Setup(cfg *config.Config) error {
	logDir := cfg.Logger.Directory

	// Create log directory if it doesn't exist
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return fmt.Errorf("failed to create log directory: %w", err)
	}

	logFilePath := createLogFilePath(logDir, "discord-warden")
	rotatingLogger := createRotatingLogger(logFilePath, cfg)
	multiWriter := io.MultiWriter(os.Stdout, rotatingLogger)

	std = log.New(multiWriter, "", log.Ldate|log.Ltime)
	log.SetOutput(multiWriter)
	log.SetFlags(log.Ldate | log.Ltime | log.Lshortfile)

	minLevel = parseLevel(cfg.Logger.Level)

	std.Printf("[%s] Logging initialized: writing to %s", infoSign, logFilePath)
	return nil
}

func parseLevel(s string) level {
	switch strings.ToUpper(s) {
	case "DEBUG":
		return levelDebug
	case "WARNING", "WARN":
		return levelWarning
	case "ERROR":
		return levelError
	default:
		return levelInfo
	}
}

func logf(lv level, sign, format string, args ...interface{}) {
	if lv < minLevel {
		return
	}
	std.Printf("[%s] %s", sign, fmt.Sprintf(format, args...))
}

func Debugf(format string, args ...interface{}) {
	logf(levelDebug, debugSign, format, args...)
}

func Infof(format string, args ...interface{}) {
	logf(levelInfo, infoSign, format, args...)
}

func Warningf(format string, args ...interface{}) {
	logf(levelWarning, warnSign, format, args...)
}

func Errorf(format string, args ...interface{}) {
	logf(levelError, errorSign, format, args...)
}
