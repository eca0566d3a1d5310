// Package logger provides the process-wide file logger shared by the
// resolution engine, the driver adapter and the CLI.
package logger

import (
	"fmt"
	"log"
	"os"
	"sync"
)

var (
	globalLogger *log.Logger
	echoLogger   *log.Logger // mirrors to stderr in verbose mode
	logFile      *os.File
	mu           sync.Mutex
)

// Init initializes the global logger with the specified log file path.
// When verbose is set, messages are echoed to stderr as well.
func Init(logPath string, verbose bool) error {
	mu.Lock()
	defer mu.Unlock()

	// Close previous log file if exists
	if logFile != nil {
		logFile.Close()
	}

	f, err := os.OpenFile(logPath, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return fmt.Errorf("failed to create log file: %w", err)
	}

	logFile = f
	globalLogger = log.New(f, "", log.Ltime|log.Lmicroseconds)
	if verbose {
		echoLogger = log.New(os.Stderr, "", log.Ltime)
	} else {
		echoLogger = nil
	}

	return nil
}

// Close closes the log file.
func Close() {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		logFile.Close()
		logFile = nil
	}
	globalLogger = nil
	echoLogger = nil
}

func output(level, format string, v ...interface{}) {
	mu.Lock()
	defer mu.Unlock()

	if globalLogger != nil {
		globalLogger.Printf(level+" "+format, v...)
	}
	if echoLogger != nil {
		echoLogger.Printf(level+" "+format, v...)
	}
}

// Info logs an info message.
func Info(format string, v ...interface{}) {
	output("[INFO]", format, v...)
}

// Debug logs a debug message.
func Debug(format string, v ...interface{}) {
	output("[DEBUG]", format, v...)
}

// Error logs an error message.
func Error(format string, v ...interface{}) {
	output("[ERROR]", format, v...)
}

// Warn logs a warning message.
func Warn(format string, v ...interface{}) {
	output("[WARN]", format, v...)
}
