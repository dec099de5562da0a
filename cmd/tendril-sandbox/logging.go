package main

import (
	"io"
	"log"
	"os"
	"path/filepath"

	"gopkg.in/natefinch/lumberjack.v2"
)

const (
	logDir        = "logs"
	logFileName   = "tendril.log"
	maxLogSizeMB  = 10
	maxLogBackups = 5
)

// setupLogging routes the standard logger to logs/tendril.log when debug is set, otherwise discards it
// The terminal is owned by tcell, so logs never go to stdout or stderr
// The file rotates to tendril-<timestamp>.log once a write would take it past maxLogSizeMB
func setupLogging(debug bool) *lumberjack.Logger {
	if !debug {
		log.SetOutput(io.Discard)
		return nil
	}

	if err := os.MkdirAll(logDir, 0755); err != nil {
		log.SetOutput(io.Discard)
		return nil
	}

	out := &lumberjack.Logger{
		Filename:   filepath.Join(logDir, logFileName),
		MaxSize:    maxLogSizeMB,
		MaxBackups: maxLogBackups,
		LocalTime:  true,
	}

	log.SetOutput(out)
	log.SetFlags(log.Ldate | log.Ltime | log.Lmicroseconds)
	log.Printf("=== tendril-sandbox started (pid %d) ===", os.Getpid())
	return out
}
