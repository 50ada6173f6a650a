// Package logx provides the leveled, file-backed logger shared by every
// generation stage. It follows the teacher's engine/logger.go shape: a
// single category logger per process, package-level convenience functions,
// and a level gate cheap enough to leave on in production.
package logx

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Level controls which messages are emitted.
type Level int

const (
	LevelOff Level = iota
	LevelError
	LevelWarn
	LevelInfo
	LevelDebug
)

var currentLevel = LevelInfo

// SetLevel sets the global logging level.
func SetLevel(level Level) {
	currentLevel = level
}

func shouldLog(level Level) bool {
	return currentLevel >= level
}

// Logger is a single mutex-guarded file writer.
type Logger struct {
	file   *os.File
	logger *log.Logger
	mutex  sync.Mutex
}

var (
	mapgenLogger *Logger
	once         sync.Once
	initErr      error
)

// Init opens the log file for the "mapgen" category. Safe to call multiple
// times; only the first call takes effect.
func Init(baseFilename string) error {
	once.Do(func() {
		logsDir := "logs"
		if err := os.MkdirAll(logsDir, 0o755); err != nil {
			initErr = err
			return
		}
		timestamp := time.Now().Format("2006-01-02_15-04-05")
		baseName := baseFilename
		if ext := filepath.Ext(baseFilename); ext != "" {
			baseName = baseFilename[:len(baseFilename)-len(ext)]
		}
		logPath := filepath.Join(logsDir, fmt.Sprintf("%s_%s.log", baseName, timestamp))
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o666)
		if err != nil {
			initErr = err
			return
		}
		mapgenLogger = &Logger{file: file, logger: log.New(file, "", log.LstdFlags|log.Lmicroseconds)}
		mapgenLogger.Info(fmt.Sprintf("=== mapgen logger initialized - log file: %s ===", logPath))
	})
	return initErr
}

func get() *Logger {
	if mapgenLogger == nil {
		_ = Init("mapgen")
	}
	return mapgenLogger
}

// Info logs an informational message.
func (l *Logger) Info(message string) { l.emit(LevelInfo, "INFO", message) }

// Debug logs a debug message.
func (l *Logger) Debug(message string) { l.emit(LevelDebug, "DEBUG", message) }

// Warn logs a warning message.
func (l *Logger) Warn(message string) { l.emit(LevelWarn, "WARN", message) }

// Error logs an error message.
func (l *Logger) Error(message string) { l.emit(LevelError, "ERROR", message) }

func (l *Logger) emit(level Level, tag, message string) {
	if !shouldLog(level) || l == nil {
		return
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.logger != nil {
		l.logger.Printf("[%s] %s", tag, message)
	}
}

// Close flushes and closes the log file.
func (l *Logger) Close() error {
	if l == nil {
		return nil
	}
	l.mutex.Lock()
	defer l.mutex.Unlock()
	if l.file != nil {
		l.logger.Printf("[INFO] === mapgen logger closing ===")
		_ = l.file.Sync()
		err := l.file.Close()
		l.file = nil
		l.logger = nil
		return err
	}
	return nil
}

// Package-level convenience wrappers, routed through the singleton logger.

func Info(message string)  { get().Info(message) }
func Debug(message string) { get().Debug(message) }
func Warn(message string)  { get().Warn(message) }
func Error(message string) { get().Error(message) }

// Close closes the singleton logger, if initialized.
func Close() error {
	if mapgenLogger != nil {
		return mapgenLogger.Close()
	}
	return nil
}
