package main

import (
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"golang.org/x/term"
)

// newLogger returns the console logger. Output always goes to w since stdout may carry the stylesheet.
// Only errors are shown by default, each verbose level lowers the threshold by one.
func newLogger(w zapcore.WriteSyncer, quiet bool, verbose int, color bool) *zap.Logger {
	if quiet {
		return zap.NewNop()
	}

	level := zapcore.ErrorLevel
	switch {
	case 2 < verbose:
		level = zapcore.DebugLevel
	case 1 < verbose:
		level = zapcore.InfoLevel
	case 0 < verbose:
		level = zapcore.WarnLevel
	}

	ec := zap.NewDevelopmentEncoderConfig()
	ec.EncodeCaller = nil
	ec.TimeKey = zapcore.OmitKey
	ec.EncodeLevel = zapcore.CapitalLevelEncoder
	if color {
		ec.EncodeLevel = zapcore.CapitalColorLevelEncoder
	}
	core := zapcore.NewCore(zapcore.NewConsoleEncoder(ec), zapcore.Lock(w), level)
	return zap.New(core).Named("cssopt")
}

// enableColorOutput returns true if stream is a terminal.
func enableColorOutput(stream *os.File) bool {
	return term.IsTerminal(int(stream.Fd()))
}
