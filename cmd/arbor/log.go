package main

import (
	"fmt"
	"os"
	"path/filepath"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

/*
Logger returns the logger for the command being run. It writes to STDERR
at info level, or debug level with the verbose flag, and also appends
JSON entries to the log file if one was given.
*/
func (rcc *rootCmdConfig) Logger() *zap.Logger {
	if rcc.logger != nil {
		return rcc.logger
	}
	lvl := zapcore.InfoLevel
	if rcc.verbose {
		lvl = zapcore.DebugLevel
	}
	encCfg := zap.NewProductionEncoderConfig()
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder
	cores := []zapcore.Core{
		zapcore.NewCore(zapcore.NewConsoleEncoder(encCfg), zapcore.Lock(os.Stderr), lvl),
	}
	if rcc.logFile != "" {
		f, err := openLogFile(rcc.logFile)
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
		} else {
			cores = append(cores, zapcore.NewCore(zapcore.NewJSONEncoder(encCfg), zapcore.AddSync(f), lvl))
		}
	}
	rcc.logger = zap.New(zapcore.NewTee(cores...))
	return rcc.logger
}

func openLogFile(path string) (*os.File, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("creating directory for log file %s: %v", path, err)
	}
	f, err := os.OpenFile(path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening log file %s: %v", path, err)
	}
	return f, nil
}

// exit flushes the logger and terminates the process with the given code
func (rcc *rootCmdConfig) exit(code int) {
	if rcc.logger != nil {
		rcc.logger.Sync()
	}
	if rcc.cancelFunc != nil {
		rcc.cancelFunc()
	}
	os.Exit(code)
}
